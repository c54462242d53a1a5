package auth

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/stefankostic/efakture/internal/application/dto"
	"github.com/stefankostic/efakture/internal/domain"
	"github.com/stefankostic/efakture/internal/domain/entity"
	"github.com/stefankostic/efakture/internal/domain/repository"
	"github.com/stefankostic/efakture/pkg/jwt"
)

// UseCase implements registration, login and the current-user lookup.
type UseCase struct {
	userRepo   repository.UserRepository
	jwtSecret  string
	jwtIssuer  string
	jwtExpires int
}

// NewUseCase wires the auth use case. jwtExpires is in minutes.
func NewUseCase(userRepo repository.UserRepository, jwtSecret, jwtIssuer string, jwtExpires int) *UseCase {
	return &UseCase{
		userRepo:   userRepo,
		jwtSecret:  jwtSecret,
		jwtIssuer:  jwtIssuer,
		jwtExpires: jwtExpires,
	}
}

// Register creates an account. The role defaults to company, and a company
// must bring a valid 9-digit PIB. Admin accounts are verified from the start;
// companies wait for an admin to flip the flag.
func (uc *UseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	password := in.Password

	var errs []string
	if name == "" {
		errs = append(errs, "name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		errs = append(errs, "valid email is required")
	}
	if len(password) < 6 {
		errs = append(errs, "password must be at least 6 characters")
	}

	role := entity.Role(strings.ToLower(strings.TrimSpace(in.Role)))
	if role == "" {
		role = entity.RoleCompany
	}
	if !role.Valid() {
		errs = append(errs, "role must be one of admin, company")
	}

	var pib *string
	if role == entity.RoleCompany {
		p := strings.TrimSpace(in.PIB)
		if !entity.ValidPIB(p) {
			errs = append(errs, "PIB (9 digits) required for company")
		} else {
			pib = &p
		}
	}
	if len(errs) > 0 {
		return nil, &domain.ValidationError{Errors: errs}
	}

	existing, err := uc.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}
	if pib != nil {
		other, err := uc.userRepo.GetByPIB(*pib)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, domain.ErrDuplicate
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		PIB:          pib,
		Verified:     role == entity.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}

	return uc.withToken(user)
}

// Login checks the credentials and issues a token. Bad email and bad password
// produce the same error so the endpoint does not leak which one was wrong.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	user, err := uc.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, domain.ErrUnauthorized
	}
	return uc.withToken(user)
}

// Me maps the already-authenticated user to its response shape.
func (uc *UseCase) Me(ctx context.Context, user *entity.User) *dto.UserResponse {
	resp := ToUserResponse(user)
	return &resp
}

func (uc *UseCase) withToken(user *entity.User) (*dto.AuthResponse, error) {
	token, err := jwt.Generate(uc.jwtSecret, user.ID, string(user.Role), uc.jwtIssuer, uc.jwtExpires)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{User: ToUserResponse(user), Token: token}, nil
}

// ToUserResponse strips the password hash off a user.
func ToUserResponse(user *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		PIB:       user.PIB,
		Role:      string(user.Role),
		Verified:  user.Verified,
		CreatedAt: user.CreatedAt,
	}
}
