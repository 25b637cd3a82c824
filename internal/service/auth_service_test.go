package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/visitor-access/internal/config"
	"github.com/spec-kit/visitor-access/internal/domain"
)

type fakeStaffRepo struct {
	byEmail map[string]*domain.StaffMember
	nextID  int
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{byEmail: map[string]*domain.StaffMember{}}
}

func (r *fakeStaffRepo) Create(_ context.Context, staff *domain.StaffMember) error {
	r.nextID++
	staff.ID = fmt.Sprintf("s-%d", r.nextID)
	stored := *staff
	r.byEmail[staff.Email] = &stored
	return nil
}

func (r *fakeStaffRepo) GetByID(_ context.Context, id string) (*domain.StaffMember, error) {
	for _, s := range r.byEmail {
		if s.ID == id {
			copied := *s
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeStaffRepo) GetByEmail(_ context.Context, email string) (*domain.StaffMember, error) {
	s, ok := r.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *s
	return &copied, nil
}

func newAuthFixture() (*AuthService, *fakeStaffRepo) {
	repo := newFakeStaffRepo()
	svc := NewAuthService(config.AuthConfig{
		JWTSecret:             "auth-test-secret",
		AccessTokenTTLMinutes: 30,
		BcryptCost:            bcrypt.MinCost,
	}, repo)
	return svc, repo
}

func TestRegisterStaff_HashesPasswordAndActivates(t *testing.T) {
	svc, repo := newAuthFixture()

	staff, err := svc.RegisterStaff(context.Background(), "Front Desk", "desk@example.com", "s3cret", domain.StaffRoleSecurity)
	require.NoError(t, err)
	assert.NotEmpty(t, staff.ID)
	assert.True(t, staff.IsActive)
	assert.Equal(t, domain.StaffRoleSecurity, staff.Role)

	stored := repo.byEmail["desk@example.com"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "s3cret", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret")))
}

func TestLoginStaff_RegisteredAccount(t *testing.T) {
	svc, _ := newAuthFixture()

	registered, err := svc.RegisterStaff(context.Background(), "Front Desk", "desk@example.com", "s3cret", domain.StaffRoleSecurity)
	require.NoError(t, err)

	staff, token, exp, err := svc.LoginStaff(context.Background(), "desk@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, staff.ID)
	assert.NotEmpty(t, token)
	assert.False(t, exp.IsZero())

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.StaffID)
	assert.Equal(t, domain.StaffRoleSecurity, claims.Role)
}

func TestLoginStaff_WrongPassword(t *testing.T) {
	svc, _ := newAuthFixture()
	_, err := svc.RegisterStaff(context.Background(), "Front Desk", "desk@example.com", "s3cret", domain.StaffRoleHost)
	require.NoError(t, err)

	_, _, _, err = svc.LoginStaff(context.Background(), "desk@example.com", "wrong")
	assert.Error(t, err)
}

func TestLoginStaff_InactiveAccount(t *testing.T) {
	svc, repo := newAuthFixture()
	_, err := svc.RegisterStaff(context.Background(), "Front Desk", "desk@example.com", "s3cret", domain.StaffRoleHost)
	require.NoError(t, err)
	repo.byEmail["desk@example.com"].IsActive = false

	_, _, _, err = svc.LoginStaff(context.Background(), "desk@example.com", "s3cret")
	assert.Error(t, err)
}
