package utils

import (
	"testing"

	"modessa_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	user := models.User{ID: "u-42", Email: "c@modessa.fr", Name: "Clémence", Role: "customer"}

	token, err := GenerateJWT(user)
	require.NoError(t, err)

	claims, err := ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "u-42", claims["user_id"])
	assert.Equal(t, "c@modessa.fr", claims["email"])
	assert.Equal(t, "customer", claims["role"])
}

func TestParseJWT_Tampered(t *testing.T) {
	token, err := GenerateJWT(models.User{ID: "u-42"})
	require.NoError(t, err)

	_, err = ParseJWT(token + "x")
	assert.Error(t, err)

	_, err = ParseJWT("pas.un.jwt")
	assert.Error(t, err)
}
