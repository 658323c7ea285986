package users_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/sunnysmathworld/smw-admin/internal/errors"
	"github.com/sunnysmathworld/smw-admin/users"
)

func TestPasswordHash(t *testing.T) {
	hash, err := users.HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)
	assert.True(t, users.CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, users.CheckPasswordHash("wrong", hash))
}

func TestAuthenticate(t *testing.T) {
	hash, err := users.HashPassword("pw")
	require.NoError(t, err)

	u := &users.User{Email: "a@b.c", PasswordHash: hash, IsActive: true}
	assert.True(t, u.Authenticate("pw"))
	assert.False(t, u.Authenticate("nope"))

	u.IsActive = false
	assert.False(t, u.Authenticate("pw"))

	var missing *users.User
	assert.False(t, missing.Authenticate("pw"))
}

func TestCanAccessAdmin(t *testing.T) {
	assert.False(t, (&users.User{}).CanAccessAdmin())
	assert.True(t, (&users.User{IsStaff: true}).CanAccessAdmin())
	assert.True(t, (&users.User{IsSuperuser: true}).CanAccessAdmin())
}

func TestInMemoryRepo(t *testing.T) {
	repo := users.NewInMemoryRepo()

	first := &users.User{Email: "  Admin@School.Test "}
	second := &users.User{Email: "student@school.test"}
	require.NoError(t, repo.Upsert(first))
	require.NoError(t, repo.Upsert(second))

	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)
	assert.Equal(t, "admin@school.test", first.Email)

	got, err := repo.GetByEmail("ADMIN@school.test")
	require.NoError(t, err)
	assert.Same(t, first, got)

	got, err = repo.GetByID(2)
	require.NoError(t, err)
	assert.Same(t, second, got)

	_, err = repo.GetByID(99)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	_, err = repo.GetByEmail("nobody@school.test")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	replacement := &users.User{Email: "admin@school.test", FirstName: "Ada"}
	require.NoError(t, repo.Upsert(replacement))
	assert.Equal(t, 1, replacement.ID)

	list, err := repo.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ada", list[0].FirstName)
	assert.Equal(t, 2, list[1].ID)
}
