package util

import (
	"testing"
	"time"

	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	user := &model.User{
		Email: "recruiter@example.com",
		Role:  model.Recruiter,
	}
	user.ID = 42

	token, err := GenerateJWT(user, "test-secret", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, model.Recruiter, claims.Role)
	assert.Equal(t, "recruiter@example.com", claims.Email)
}

func TestParseJWTWrongSecret(t *testing.T) {
	user := &model.User{Email: "a@b.com", Role: model.Viewer}
	user.ID = 1

	token, err := GenerateJWT(user, "secret-one", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(token, "secret-two")
	assert.Error(t, err)
}

func TestParseJWTExpired(t *testing.T) {
	user := &model.User{Email: "a@b.com", Role: model.Admin}
	user.ID = 1

	token, err := GenerateJWT(user, "test-secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token, "test-secret")
	assert.Error(t, err)
}
