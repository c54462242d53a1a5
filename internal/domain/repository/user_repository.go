package repository

import "github.com/stefankostic/efakture/internal/domain/entity"

// UserRepository is the persistence port for users.
// Lookup methods return (nil, nil) when no row matches.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id int64) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	// GetByPIB finds the company user registered under the given PIB.
	GetByPIB(pib string) (*entity.User, error)
	Update(user *entity.User) error
	// List returns every user, newest first.
	List() ([]*entity.User, error)
}
