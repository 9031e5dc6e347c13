package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateJWT(7, "thandi@example.co.za", "customer")
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.AccountID)
	assert.Equal(t, "thandi@example.co.za", claims.Email)
	assert.Equal(t, "customer", claims.Role)
	assert.Equal(t, "spaza-api", claims.Issuer)
}

func TestValidateJWTRejectsTampering(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateJWT(7, "thandi@example.co.za", "customer")
	require.NoError(t, err)

	_, err = ValidateJWT(token + "x")
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "different-secret")
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}
