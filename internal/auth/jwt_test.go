package auth

import (
	"testing"
	"time"

	"mixmall_backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	manager := NewTokenManager("secret", time.Hour)

	token, err := manager.Issue(42, domain.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.True(t, claims.IsAdmin())
}

func TestParseRejectsWrongSecret(t *testing.T) {
	manager := NewTokenManager("secret", time.Hour)
	other := NewTokenManager("different", time.Hour)

	token, err := manager.Issue(1, domain.RoleCustomer)
	require.NoError(t, err)

	_, err = other.Parse(token)
	require.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	manager := NewTokenManager("secret", -time.Minute)

	token, err := manager.Issue(1, domain.RoleCustomer)
	require.NoError(t, err)

	_, err = manager.Parse(token)
	require.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	manager := NewTokenManager("secret", time.Hour)
	_, err := manager.Parse("not-a-token")
	require.Error(t, err)
}
