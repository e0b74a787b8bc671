package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

func seedUser(t *testing.T, repo *fakeUserRepo, email string, role domain.UserRole) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword("password", bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{Email: email, PasswordHash: hash, Role: role, Associations: "alpha"}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestUpdateRoleOnlySuperAdminGrantsAdmin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := service.NewUserService(authTestConfig(), repo)
	ctx := context.Background()

	admin := seedUser(t, repo, "admin@example.com", domain.UserRoleAdmin)
	target := seedUser(t, repo, "target@example.com", domain.UserRoleUser)

	_, err := svc.UpdateRole(ctx, admin, target.Email, domain.UserRoleAdmin)
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusForbidden, domainErr.HTTPStatus)
	assert.Contains(t, domainErr.Message, "Only the Super Admin")
}

func TestUpdateRoleSecondAdminConflicts(t *testing.T) {
	repo := newFakeUserRepo()
	svc := service.NewUserService(authTestConfig(), repo)
	ctx := context.Background()

	super := seedUser(t, repo, "architect@example.com", domain.UserRoleAdmin)
	seedUser(t, repo, "existing@example.com", domain.UserRoleAdmin)
	target := seedUser(t, repo, "target@example.com", domain.UserRoleUser)

	_, err := svc.UpdateRole(ctx, super, target.Email, domain.UserRoleAdmin)
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusConflict, domainErr.HTTPStatus)
	assert.Contains(t, domainErr.Message, "existing@example.com")
}

func TestUpdateRoleSuperAdminGrantsAdmin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := service.NewUserService(authTestConfig(), repo)
	ctx := context.Background()

	super := seedUser(t, repo, "architect@example.com", domain.UserRoleAdmin)
	target := seedUser(t, repo, "target@example.com", domain.UserRoleUser)

	updated, err := svc.UpdateRole(ctx, super, target.Email, domain.UserRoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.UserRoleAdmin, updated.Role)
}

func TestUpdateRoleArchitectGuard(t *testing.T) {
	repo := newFakeUserRepo()
	svc := service.NewUserService(authTestConfig(), repo)
	ctx := context.Background()

	admin := seedUser(t, repo, "admin@example.com", domain.UserRoleAdmin)
	seedUser(t, repo, "architect@example.com", domain.UserRoleAdmin)

	_, err := svc.UpdateRole(ctx, admin, "architect@example.com", domain.UserRoleUser)
	require.Error(t, err)
	assert.Equal(t, "Cannot alter the architect of the system!", apperrors.ToDomainError(err).Message)
}

func TestUpdateRoleSuperAdminMustStayAdmin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := service.NewUserService(authTestConfig(), repo)
	ctx := context.Background()

	super := seedUser(t, repo, "architect@example.com", domain.UserRoleAdmin)

	_, err := svc.UpdateRole(ctx, super, super.Email, domain.UserRoleUser)
	require.Error(t, err)
	assert.Contains(t, apperrors.ToDomainError(err).Message, "must retain the 'admin' role")
}

func TestUpdateAssociationsRequiresValue(t *testing.T) {
	repo := newFakeUserRepo()
	svc := service.NewUserService(authTestConfig(), repo)
	ctx := context.Background()

	admin := seedUser(t, repo, "admin@example.com", domain.UserRoleAdmin)
	target := seedUser(t, repo, "target@example.com", domain.UserRoleUser)

	_, err := svc.UpdateAssociations(ctx, admin, target.Email, "   ")
	require.Error(t, err)
	assert.Equal(t, "New associations not provided.", apperrors.ToDomainError(err).Message)

	updated, err := svc.UpdateAssociations(ctx, admin, target.Email, "bravo,delta")
	require.NoError(t, err)
	assert.Equal(t, "bravo,delta", updated.Associations)
}

func TestUpdateSelfPasswordVerifiesOld(t *testing.T) {
	repo := newFakeUserRepo()
	svc := service.NewUserService(authTestConfig(), repo)
	ctx := context.Background()

	user := seedUser(t, repo, "user@example.com", domain.UserRoleUser)

	err := svc.UpdateSelfPassword(ctx, user, "wrong", "next")
	require.Error(t, err)
	assert.Equal(t, "Incorrect old password.", apperrors.ToDomainError(err).Message)

	require.NoError(t, svc.UpdateSelfPassword(ctx, user, "password", "next"))
	stored, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NoError(t, auth.ComparePassword(stored.PasswordHash, "next"))
}

func TestDeleteUserArchitectGuard(t *testing.T) {
	repo := newFakeUserRepo()
	svc := service.NewUserService(authTestConfig(), repo)
	ctx := context.Background()

	super := seedUser(t, repo, "architect@example.com", domain.UserRoleAdmin)
	admin := seedUser(t, repo, "admin@example.com", domain.UserRoleAdmin)
	target := seedUser(t, repo, "target@example.com", domain.UserRoleUser)

	err := svc.Delete(ctx, admin, super.Email)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperrors.ToDomainError(err).HTTPStatus)

	require.NoError(t, svc.Delete(ctx, super, target.Email))
	_, err = repo.GetByID(ctx, target.ID)
	assert.Error(t, err)
}
