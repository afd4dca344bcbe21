package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openride/openride/internal/pkg/models"
)

var testJWTConfig = models.JWTConfig{
	Secret:     "test-secret",
	Expiration: 60,
	Issuer:     "openride-test",
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("user-123", "driver", testJWTConfig)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token, testJWTConfig.Secret)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "driver", claims.Role)
	assert.Equal(t, "openride-test", claims.Issuer)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("user-123", "rider", testJWTConfig)
	require.NoError(t, err)

	_, err = ValidateToken(token, "another-secret")
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	expired := testJWTConfig
	expired.Expiration = -1

	token, err := GenerateToken("user-123", "rider", expired)
	require.NoError(t, err)

	_, err = ValidateToken(token, expired.Secret)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := ValidateToken("not.a.token", testJWTConfig.Secret)
	assert.Error(t, err)
}
