package server

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pathfinderai/pathfinder/internal/config"
	"github.com/pathfinderai/pathfinder/internal/db"
	"github.com/pathfinderai/pathfinder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuthDB is an in-memory DBClient for auth tests.
type fakeAuthDB struct {
	users map[uuid.UUID]*db.User
}

func newFakeAuthDB() *fakeAuthDB {
	return &fakeAuthDB{users: map[uuid.UUID]*db.User{}}
}

func (f *fakeAuthDB) CreateUser(_ context.Context, name, email string) (uuid.UUID, error) {
	id := uuid.New()
	now := time.Now()
	f.users[id] = &db.User{ID: id, Name: name, Email: email, CreatedAt: now, UpdatedAt: now}
	return id, nil
}

func (f *fakeAuthDB) GetUser(_ context.Context, userID uuid.UUID) (*db.User, error) {
	return f.users[userID], nil
}

func (f *fakeAuthDB) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeAuthDB) CheckEmailExists(_ context.Context, email string) (bool, error) {
	u, _ := f.GetUserByEmail(context.Background(), email)
	return u != nil, nil
}

func (f *fakeAuthDB) UpdatePassword(_ context.Context, userID uuid.UUID, passwordHash string) error {
	u, ok := f.users[userID]
	if !ok {
		return &ErrUserNotFound{UserID: userID}
	}
	u.PasswordHash = passwordHash
	u.PasswordSet = true
	return nil
}

func newTestUserService(t *testing.T) (*UserService, *fakeAuthDB) {
	t.Helper()
	passwordConfig, err := config.NewPasswordConfig()
	require.NoError(t, err)
	fake := newFakeAuthDB()
	return NewUserService(fake, passwordConfig), fake
}

func TestConvertDBUserToTypesUser(t *testing.T) {
	t.Run("valid user", func(t *testing.T) {
		now := time.Now()
		dbUser := &db.User{
			ID:           uuid.New(),
			Name:         "John Doe",
			Email:        "john@example.com",
			PasswordHash: "hashed-password",
			PasswordSet:  true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		typesUser := convertDBUserToTypesUser(dbUser)
		require.NotNil(t, typesUser)
		assert.Equal(t, dbUser.ID, typesUser.ID)
		assert.Equal(t, dbUser.Name, typesUser.Name)
		assert.Equal(t, dbUser.Email, typesUser.Email)
		assert.Equal(t, dbUser.PasswordSet, typesUser.PasswordSet)
		assert.Equal(t, dbUser.CreatedAt, typesUser.CreatedAt)
		assert.Equal(t, dbUser.UpdatedAt, typesUser.UpdatedAt)
		// Password hash should not be in types.User (it doesn't have that field)
	})

	t.Run("nil user", func(t *testing.T) {
		typesUser := convertDBUserToTypesUser(nil)
		assert.Nil(t, typesUser)
	})
}

func TestUserService_Register(t *testing.T) {
	t.Run("creates user with hashed password", func(t *testing.T) {
		svc, fake := newTestUserService(t)

		user, err := svc.Register(context.Background(), &types.CreateUserRequest{
			Name:     "Alice",
			Email:    "alice@example.com",
			Password: "correct-horse-battery",
		})
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "Alice", user.Name)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.True(t, user.PasswordSet)

		stored := fake.users[user.ID]
		require.NotNil(t, stored)
		assert.NotEmpty(t, stored.PasswordHash)
		assert.NotEqual(t, "correct-horse-battery", stored.PasswordHash)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		svc, _ := newTestUserService(t)

		req := &types.CreateUserRequest{Name: "Alice", Email: "alice@example.com", Password: "password123"}
		_, err := svc.Register(context.Background(), req)
		require.NoError(t, err)

		_, err = svc.Register(context.Background(), req)
		require.Error(t, err)
		var dupErr *ErrEmailAlreadyExists
		assert.ErrorAs(t, err, &dupErr)
	})
}

func TestUserService_Login(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, err := svc.Register(context.Background(), &types.CreateUserRequest{
		Name:     "Bob",
		Email:    "bob@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Login(context.Background(), &types.LoginRequest{
			Email:    "bob@example.com",
			Password: "password123",
		})
		require.NoError(t, err)
		assert.Equal(t, "bob@example.com", user.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &types.LoginRequest{
			Email:    "bob@example.com",
			Password: "wrong-password",
		})
		var credErr *ErrInvalidCredentials
		assert.ErrorAs(t, err, &credErr)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &types.LoginRequest{
			Email:    "nobody@example.com",
			Password: "password123",
		})
		var credErr *ErrInvalidCredentials
		assert.ErrorAs(t, err, &credErr)
	})
}

func TestUserService_UpdatePassword(t *testing.T) {
	svc, _ := newTestUserService(t)

	user, err := svc.Register(context.Background(), &types.CreateUserRequest{
		Name:     "Carol",
		Email:    "carol@example.com",
		Password: "old-password1",
	})
	require.NoError(t, err)

	t.Run("wrong current password", func(t *testing.T) {
		err := svc.UpdatePassword(context.Background(), user.ID, "not-it", "new-password1")
		var mismatchErr *ErrPasswordMismatch
		assert.ErrorAs(t, err, &mismatchErr)
	})

	t.Run("unknown user", func(t *testing.T) {
		err := svc.UpdatePassword(context.Background(), uuid.New(), "old-password1", "new-password1")
		var notFoundErr *ErrUserNotFound
		assert.ErrorAs(t, err, &notFoundErr)
	})

	t.Run("successful change", func(t *testing.T) {
		require.NoError(t, svc.UpdatePassword(context.Background(), user.ID, "old-password1", "new-password1"))

		_, err := svc.Login(context.Background(), &types.LoginRequest{
			Email:    "carol@example.com",
			Password: "new-password1",
		})
		assert.NoError(t, err)

		_, err = svc.Login(context.Background(), &types.LoginRequest{
			Email:    "carol@example.com",
			Password: "old-password1",
		})
		assert.Error(t, err)
	})
}
