package repository

import "github.com/stefankostic/efakture/internal/domain/entity"

// ProductRepository is the persistence port for catalog entries.
// GetByID returns (nil, nil) when no row matches. Create returns
// domain.ErrDuplicate when (owner_user_id, code) already exists.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id int64) (*entity.Product, error)
	// ListByOwner returns the owner's products, newest first.
	ListByOwner(ownerUserID int64) ([]*entity.Product, error)
	// ListAll returns every product, newest first (admin listing).
	ListAll() ([]*entity.Product, error)
	Delete(id int64) error
}
