package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	user, err := NewUser("  Usuario@Exemplo.teste ", "senha123", " Usuário Exemplo ")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "usuario@exemplo.teste", user.Email, "email should be normalized")
	assert.Equal(t, "Usuário Exemplo", user.Name)
	assert.Equal(t, "senha123", user.Password)
	assert.Empty(t, user.HashedPassword)
	assert.False(t, user.CreatedAt.IsZero())
	assert.Equal(t, user.CreatedAt, user.UpdatedAt)
}

func TestNewUserValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		email    string
		password string
		userName string
		wantErr  error
	}{
		{"empty email", "", "senha123", "Ana", ErrEmptyEmail},
		{"missing at sign", "invalidemail", "senha123", "Ana", ErrInvalidEmail},
		{"missing domain dot", "ana@localhost", "senha123", "Ana", ErrInvalidEmail},
		{"long email", strings.Repeat("a", MaxEmailLength) + "@example.com", "senha123", "Ana", ErrEmailTooLong},
		{"empty name", "ana@example.com", "senha123", "   ", ErrEmptyName},
		{"long name", "ana@example.com", "senha123", strings.Repeat("a", MaxNameLength+1), ErrNameTooLong},
		{"empty password", "ana@example.com", "", "Ana", ErrEmptyPassword},
		{"short password", "ana@example.com", "12345", "Ana", ErrPasswordTooShort},
		{"long password", "ana@example.com", strings.Repeat("x", MaxPasswordLength+1), "Ana", ErrPasswordTooLong},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewUser(tc.email, tc.password, tc.userName)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestUserValidateStoredUser(t *testing.T) {
	t.Parallel()

	stored := User{
		ID:             uuid.New(),
		Email:          "ana@example.com",
		Name:           "Ana",
		HashedPassword: "$2a$10$hash",
	}
	assert.NoError(t, stored.Validate())

	stored.ID = uuid.Nil
	assert.ErrorIs(t, stored.Validate(), ErrEmptyUserID)
}

func TestUserProfile(t *testing.T) {
	t.Parallel()

	user, err := NewUser("ana@example.com", "senha123", "Ana")
	require.NoError(t, err)
	user.HashedPassword = "secret-hash"

	profile := user.Profile()
	assert.Equal(t, user.ID, profile.ID)
	assert.Equal(t, user.Email, profile.Email)
	assert.Equal(t, user.Name, profile.Name)
	assert.Equal(t, user.CreatedAt, profile.CreatedAt)
}
