package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/stefankostic/efakture/internal/application/dto"
	"github.com/stefankostic/efakture/internal/application/usecase"
	"github.com/stefankostic/efakture/internal/domain"
	"github.com/stefankostic/efakture/internal/domain/entity"
)

// memUserRepo is an in-memory UserRepository.
type memUserRepo struct {
	users map[int64]*entity.User
}

func (m *memUserRepo) Create(u *entity.User) error {
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

func (m *memUserRepo) Update(u *entity.User) error {
	if _, ok := m.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	m.users[u.ID] = u
	return nil
}

func (m *memUserRepo) List() ([]*entity.User, error) {
	out := []*entity.User{}
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newUserUC() (*usecase.UserUseCase, *memUserRepo) {
	company, other, admin := testUsers()
	repo := &memUserRepo{users: map[int64]*entity.User{1: company, 2: other, 3: admin}}
	return usecase.NewUserUseCase(repo), repo
}

func TestUserList(t *testing.T) {
	uc, _ := newUserUC()
	resp, err := uc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, resp.Items, 3)
	for _, u := range resp.Items {
		assert.NotEmpty(t, u.Role)
	}
}

func TestVerifyCompany(t *testing.T) {
	uc, repo := newUserUC()

	resp, err := uc.Verify(context.Background(), 1, true)
	require.NoError(t, err)
	assert.True(t, resp.Verified)
	assert.True(t, repo.users[1].Verified)

	resp, err = uc.Verify(context.Background(), 1, false)
	require.NoError(t, err)
	assert.False(t, resp.Verified)
}

func TestVerifyAdminRejected(t *testing.T) {
	uc, _ := newUserUC()
	_, err := uc.Verify(context.Background(), 3, true)

	verr, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, []string{"only company users can be verified"}, verr.Errors)
}

func TestVerifyUnknownUser(t *testing.T) {
	uc, _ := newUserUC()
	_, err := uc.Verify(context.Background(), 404, true)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUpdateMeNameAndPIB(t *testing.T) {
	uc, repo := newUserUC()
	company := repo.users[1]

	name := "Alpha Renamed d.o.o."
	pib := "100000009"
	resp, err := uc.UpdateMe(context.Background(), company, dto.UpdateMeRequest{Name: &name, PIB: &pib})
	require.NoError(t, err)
	assert.Equal(t, name, resp.Name)
	require.NotNil(t, resp.PIB)
	assert.Equal(t, pib, *resp.PIB)
}

func TestUpdateMePIBRejectedForAdmin(t *testing.T) {
	uc, repo := newUserUC()
	admin := repo.users[3]

	pib := "100000009"
	_, err := uc.UpdateMe(context.Background(), admin, dto.UpdateMeRequest{PIB: &pib})
	verr, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Errors, "pib can only be set for company users")
}

func TestUpdateMeInvalidPIB(t *testing.T) {
	uc, repo := newUserUC()
	company := repo.users[1]

	pib := "12345"
	_, err := uc.UpdateMe(context.Background(), company, dto.UpdateMeRequest{PIB: &pib})
	verr, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Errors, "pib must be 9 digits")
}

func TestUpdateMeChangePassword(t *testing.T) {
	uc, repo := newUserUC()
	company := repo.users[1]
	company.PasswordHash = hashOf(t, "alpha123")

	_, err := uc.UpdateMe(context.Background(), company, dto.UpdateMeRequest{
		ChangePassword: &dto.ChangePasswordRequest{CurrentPassword: "alpha123", NewPassword: "novalozinka"},
	})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.users[1].PasswordHash), []byte("novalozinka")))
}

func TestUpdateMeChangePasswordWrongCurrent(t *testing.T) {
	uc, repo := newUserUC()
	company := repo.users[1]
	company.PasswordHash = hashOf(t, "alpha123")

	_, err := uc.UpdateMe(context.Background(), company, dto.UpdateMeRequest{
		ChangePassword: &dto.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "novalozinka"},
	})
	verr, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Errors, "current password is incorrect")
}
