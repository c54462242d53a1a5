package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefankostic/efakture/internal/application/auth"
	"github.com/stefankostic/efakture/internal/application/dto"
	"github.com/stefankostic/efakture/internal/domain"
	"github.com/stefankostic/efakture/internal/domain/entity"
	pkgjwt "github.com/stefankostic/efakture/pkg/jwt"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testIssuer = "efakture-test"
)

// memUserRepo is an in-memory UserRepository for auth tests.
type memUserRepo struct {
	users  map[int64]*entity.User
	nextID int64
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[int64]*entity.User{}, nextID: 1}
}

func (m *memUserRepo) Create(u *entity.User) error {
	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = u
	return nil
}

func (m *memUserRepo) GetByID(id int64) (*entity.User, error) { return m.users[id], nil }

func (m *memUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) GetByPIB(pib string) (*entity.User, error) {
	for _, u := range m.users {
		if u.PIB != nil && *u.PIB == pib {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) Update(*entity.User) error     { return nil }
func (m *memUserRepo) List() ([]*entity.User, error) { return nil, nil }

func newUseCase() (*auth.UseCase, *memUserRepo) {
	repo := newMemUserRepo()
	return auth.NewUseCase(repo, testSecret, testIssuer, 60), repo
}

func companyRegistration() dto.RegisterRequest {
	return dto.RegisterRequest{
		Name:     "Alpha d.o.o.",
		Email:    "Alpha@Company.Local",
		Password: "alpha123",
		PIB:      "100000001",
	}
}

func TestRegisterCompany(t *testing.T) {
	uc, _ := newUseCase()
	resp, err := uc.Register(context.Background(), companyRegistration())
	require.NoError(t, err)

	assert.Equal(t, "alpha@company.local", resp.User.Email, "email is normalized lowercase")
	assert.Equal(t, "company", resp.User.Role, "role defaults to company")
	assert.False(t, resp.User.Verified, "companies start unverified")
	require.NotNil(t, resp.User.PIB)
	assert.Equal(t, "100000001", *resp.User.PIB)

	userID, role, err := pkgjwt.Parse(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)
	assert.Equal(t, "company", role)
}

func TestRegisterCompanyRequiresPIB(t *testing.T) {
	uc, _ := newUseCase()
	in := companyRegistration()
	in.PIB = "12345"

	_, err := uc.Register(context.Background(), in)
	verr, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Errors, "PIB (9 digits) required for company")
}

func TestRegisterAdminVerifiedWithoutPIB(t *testing.T) {
	uc, _ := newUseCase()
	resp, err := uc.Register(context.Background(), dto.RegisterRequest{
		Name:     "Admin",
		Email:    "admin@sef.local",
		Password: "admin123",
		Role:     "admin",
	})
	require.NoError(t, err)

	assert.True(t, resp.User.Verified, "admins are verified from the start")
	assert.Nil(t, resp.User.PIB)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.Register(context.Background(), companyRegistration())
	require.NoError(t, err)

	in := companyRegistration()
	in.PIB = "100000002"
	_, err = uc.Register(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestRegisterDuplicatePIB(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.Register(context.Background(), companyRegistration())
	require.NoError(t, err)

	in := companyRegistration()
	in.Email = "other@company.local"
	_, err = uc.Register(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestRegisterCollectsFieldErrors(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.Register(context.Background(), dto.RegisterRequest{Password: "123"})
	verr, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Errors, "name is required")
	assert.Contains(t, verr.Errors, "valid email is required")
	assert.Contains(t, verr.Errors, "password must be at least 6 characters")
}

func TestLogin(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.Register(context.Background(), companyRegistration())
	require.NoError(t, err)

	resp, err := uc.Login(context.Background(), dto.LoginRequest{
		Email:    "ALPHA@company.local",
		Password: "alpha123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alpha@company.local", resp.User.Email)
}

func TestLoginBadCredentials(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.Register(context.Background(), companyRegistration())
	require.NoError(t, err)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "alpha@company.local", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "nobody@company.local", Password: "alpha123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "unknown email and wrong password look the same")
}

func TestPasswordIsHashed(t *testing.T) {
	uc, repo := newUseCase()
	resp, err := uc.Register(context.Background(), companyRegistration())
	require.NoError(t, err)

	stored := repo.users[resp.User.ID]
	assert.NotEqual(t, "alpha123", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)
}
