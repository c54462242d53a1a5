package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/stefankostic/efakture/internal/domain"
	"github.com/stefankostic/efakture/internal/domain/entity"
	"github.com/stefankostic/efakture/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implements the ProductRepository port over PostgreSQL (usable
// with pool or tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository builds the persistence adapter for catalog entries.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = "id, owner_user_id, name, code, material_type, created_at"

// Create persists a new product and assigns its ID. The (owner_user_id, code)
// pair is unique.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (owner_user_id, name, code, material_type, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		product.OwnerUserID, product.Name, product.Code, product.MaterialType, product.CreatedAt,
	).Scan(&product.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID fetches a product by ID.
func (r *ProductRepo) GetByID(id int64) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	var p entity.Product
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.OwnerUserID, &p.Name, &p.Code, &p.MaterialType, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// ListByOwner returns one owner's products, newest first.
func (r *ProductRepo) ListByOwner(ownerUserID int64) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE owner_user_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.q.Query(context.Background(), query, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("list products by owner: %w", err)
	}
	return scanProducts(rows)
}

// ListAll returns every product, newest first.
func (r *ProductRepo) ListAll() ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC, id DESC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return scanProducts(rows)
}

// Delete removes a product by ID.
func (r *ProductRepo) Delete(id int64) error {
	query := `DELETE FROM products WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProducts(rows pgx.Rows) ([]*entity.Product, error) {
	defer rows.Close()
	var products []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.OwnerUserID, &p.Name, &p.Code, &p.MaterialType, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}
