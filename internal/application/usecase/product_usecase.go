package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/stefankostic/efakture/internal/application/dto"
	"github.com/stefankostic/efakture/internal/domain"
	"github.com/stefankostic/efakture/internal/domain/entity"
	"github.com/stefankostic/efakture/internal/domain/repository"
)

// ProductUseCase implements the catalog operations.
type ProductUseCase struct {
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
}

func NewProductUseCase(productRepo repository.ProductRepository, userRepo repository.UserRepository) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo, userRepo: userRepo}
}

// Create adds a catalog entry. A company always owns what it creates; an
// admin must name the owner explicitly.
func (uc *ProductUseCase) Create(ctx context.Context, caller *entity.User, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	code := strings.TrimSpace(in.Code)

	var errs []string
	if name == "" {
		errs = append(errs, "name is required")
	}
	if code == "" {
		errs = append(errs, "code is required")
	}

	var ownerID int64
	switch caller.Role {
	case entity.RoleCompany:
		ownerID = caller.ID
	case entity.RoleAdmin:
		if in.OwnerUserID == nil {
			errs = append(errs, "owner_user_id is required for admin")
		} else {
			ownerID = *in.OwnerUserID
		}
	default:
		return nil, domain.ErrForbidden
	}
	if len(errs) > 0 {
		return nil, &domain.ValidationError{Errors: errs}
	}

	if caller.Role == entity.RoleAdmin {
		owner, err := uc.userRepo.GetByID(ownerID)
		if err != nil {
			return nil, err
		}
		if owner == nil {
			return nil, domain.ErrUserNotFound
		}
	}

	var materialType *string
	if in.MaterialType != nil {
		mt := strings.TrimSpace(*in.MaterialType)
		if mt != "" {
			materialType = &mt
		}
	}

	product := &entity.Product{
		OwnerUserID:  ownerID,
		Name:         name,
		Code:         code,
		MaterialType: materialType,
		CreatedAt:    time.Now().UTC(),
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	resp := toProductResponse(product)
	return &resp, nil
}

// List returns the caller's catalog slice: a company sees only its own, an
// admin everything or one owner's via the optional filter.
func (uc *ProductUseCase) List(ctx context.Context, caller *entity.User, ownerFilter *int64) (*dto.ProductListResponse, error) {
	var (
		products []*entity.Product
		err      error
	)
	switch caller.Role {
	case entity.RoleCompany:
		products, err = uc.productRepo.ListByOwner(caller.ID)
	case entity.RoleAdmin:
		if ownerFilter != nil {
			products, err = uc.productRepo.ListByOwner(*ownerFilter)
		} else {
			products, err = uc.productRepo.ListAll()
		}
	default:
		return nil, domain.ErrForbidden
	}
	if err != nil {
		return nil, err
	}

	out := &dto.ProductListResponse{Items: make([]dto.ProductResponse, 0, len(products))}
	for _, p := range products {
		out.Items = append(out.Items, toProductResponse(p))
	}
	return out, nil
}

// Delete removes a catalog entry. A company may only delete its own; a
// non-owner gets forbidden, not not-found.
func (uc *ProductUseCase) Delete(ctx context.Context, caller *entity.User, id int64) error {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	switch caller.Role {
	case entity.RoleAdmin:
	case entity.RoleCompany:
		if product.OwnerUserID != caller.ID {
			return domain.ErrForbidden
		}
	default:
		return domain.ErrForbidden
	}
	return uc.productRepo.Delete(id)
}

func toProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:           p.ID,
		OwnerUserID:  p.OwnerUserID,
		Name:         p.Name,
		Code:         p.Code,
		MaterialType: p.MaterialType,
		CreatedAt:    p.CreatedAt,
	}
}
