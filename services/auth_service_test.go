package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikeychann-hash/Evies-Epoxy/models"
)

const testJWTSecret = "test-secret"

func TestSignupAndLogin(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users, testJWTSecret)

	signup, appErr := svc.Signup(context.Background(), &SignupRequest{
		Name:     "Evie Hart",
		Email:    "evie@example.com",
		Password: "Handmade1",
	})
	require.Nil(t, appErr)
	assert.NotEmpty(t, signup.Token)
	assert.Equal(t, models.RoleUser, signup.User.Role)

	// Stored hash must not be the plaintext password.
	stored, err := users.FindByEmail(context.Background(), "evie@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "Handmade1", stored.PasswordHash)

	login, appErr := svc.Login(context.Background(), &LoginRequest{
		Email:    "evie@example.com",
		Password: "Handmade1",
	})
	require.Nil(t, appErr)

	token, err := jwt.Parse(login.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, stored.ID.String(), claims["user_id"])
	assert.Equal(t, "evie@example.com", claims["email"])
	assert.Equal(t, string(models.RoleUser), claims["role"])
}

func TestSignupDuplicateEmail(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users, testJWTSecret)

	_, appErr := svc.Signup(context.Background(), &SignupRequest{
		Name: "Evie", Email: "evie@example.com", Password: "Handmade1",
	})
	require.Nil(t, appErr)

	_, appErr = svc.Signup(context.Background(), &SignupRequest{
		Name: "Imposter", Email: "evie@example.com", Password: "Handmade2",
	})
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusConflict, appErr.Code)
}

func TestSignupWeakPassword(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), testJWTSecret)

	for _, password := range []string{"alllowercase1", "ALLUPPERCASE1", "NoNumbersHere"} {
		_, appErr := svc.Signup(context.Background(), &SignupRequest{
			Name: "Evie", Email: "evie@example.com", Password: password,
		})
		require.NotNil(t, appErr, "password %q should be rejected", password)
		assert.Equal(t, http.StatusBadRequest, appErr.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users, testJWTSecret)

	_, appErr := svc.Signup(context.Background(), &SignupRequest{
		Name: "Evie", Email: "evie@example.com", Password: "Handmade1",
	})
	require.Nil(t, appErr)

	_, appErr = svc.Login(context.Background(), &LoginRequest{
		Email: "evie@example.com", Password: "WrongPass1",
	})
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusUnauthorized, appErr.Code)

	_, appErr = svc.Login(context.Background(), &LoginRequest{
		Email: "nobody@example.com", Password: "Handmade1",
	})
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusUnauthorized, appErr.Code)
}
