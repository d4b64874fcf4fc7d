package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/work-assignment-api/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:    42,
		Email: "worker@example.com",
		Role:  models.RoleWorker,
	}
}

func TestGenerateAndVerifyToken(t *testing.T) {
	manager := NewManager("test-secret", time.Hour)

	token, err := manager.GenerateToken(testUser())
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := manager.VerifyToken(token)
	assert.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "worker@example.com", claims.Email)
	assert.Equal(t, models.RoleWorker, claims.Role)
}

func TestVerifyToken_BearerPrefix(t *testing.T) {
	manager := NewManager("test-secret", time.Hour)

	token, err := manager.GenerateToken(testUser())
	assert.NoError(t, err)

	claims, err := manager.VerifyToken("Bearer " + token)
	assert.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
}

func TestVerifyToken_Missing(t *testing.T) {
	manager := NewManager("test-secret", time.Hour)

	_, err := manager.VerifyToken("")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = manager.VerifyToken("   ")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	manager := NewManager("test-secret", time.Hour)
	other := NewManager("other-secret", time.Hour)

	token, err := manager.GenerateToken(testUser())
	assert.NoError(t, err)

	_, err = other.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_Expired(t *testing.T) {
	manager := NewManager("test-secret", -time.Minute)

	token, err := manager.GenerateToken(testUser())
	assert.NoError(t, err)

	_, err = manager.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
