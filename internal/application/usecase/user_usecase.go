package usecase

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/stefankostic/efakture/internal/application/auth"
	"github.com/stefankostic/efakture/internal/application/dto"
	"github.com/stefankostic/efakture/internal/domain"
	"github.com/stefankostic/efakture/internal/domain/entity"
	"github.com/stefankostic/efakture/internal/domain/repository"
)

// UserUseCase implements the admin user listing, verification and the
// self-service profile update.
type UserUseCase struct {
	userRepo repository.UserRepository
}

func NewUserUseCase(userRepo repository.UserRepository) *UserUseCase {
	return &UserUseCase{userRepo: userRepo}
}

// List returns every user, newest first (admin only, enforced at the route).
func (uc *UserUseCase) List(ctx context.Context) (*dto.UserListResponse, error) {
	users, err := uc.userRepo.List()
	if err != nil {
		return nil, err
	}
	out := &dto.UserListResponse{Items: make([]dto.UserResponse, 0, len(users))}
	for _, u := range users {
		out.Items = append(out.Items, auth.ToUserResponse(u))
	}
	return out, nil
}

// Verify flips a company's verified flag. Only company users can be
// verified; trying it on an admin is a validation error, not a not-found.
func (uc *UserUseCase) Verify(ctx context.Context, id int64, verified bool) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if user.Role != entity.RoleCompany {
		return nil, domain.NewValidationError("only company users can be verified")
	}
	user.Verified = verified
	if err := uc.userRepo.Update(user); err != nil {
		return nil, err
	}
	resp := auth.ToUserResponse(user)
	return &resp, nil
}

// UpdateMe applies a self-service profile patch: name, PIB (company only)
// and an optional password change guarded by the current password.
func (uc *UserUseCase) UpdateMe(ctx context.Context, caller *entity.User, in dto.UpdateMeRequest) (*dto.UserResponse, error) {
	var errs []string

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			errs = append(errs, "name must not be empty")
		} else {
			caller.Name = name
		}
	}

	if in.PIB != nil {
		if caller.Role != entity.RoleCompany {
			errs = append(errs, "pib can only be set for company users")
		} else {
			pib := strings.TrimSpace(*in.PIB)
			if !entity.ValidPIB(pib) {
				errs = append(errs, "pib must be 9 digits")
			} else {
				caller.PIB = &pib
			}
		}
	}

	if in.ChangePassword != nil {
		cp := in.ChangePassword
		if bcrypt.CompareHashAndPassword([]byte(caller.PasswordHash), []byte(cp.CurrentPassword)) != nil {
			errs = append(errs, "current password is incorrect")
		} else if len(cp.NewPassword) < 6 {
			errs = append(errs, "new password must be at least 6 characters")
		} else {
			hash, err := bcrypt.GenerateFromPassword([]byte(cp.NewPassword), bcrypt.DefaultCost)
			if err != nil {
				return nil, err
			}
			caller.PasswordHash = string(hash)
		}
	}

	if len(errs) > 0 {
		return nil, &domain.ValidationError{Errors: errs}
	}

	if err := uc.userRepo.Update(caller); err != nil {
		return nil, err
	}
	resp := auth.ToUserResponse(caller)
	return &resp, nil
}
