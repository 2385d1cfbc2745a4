package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse_IdaYVuelta(t *testing.T) {
	tok, err := Generate("s3cret", "u1", "t1", "bodeguero", "kardex-test", 5)
	require.NoError(t, err)

	claims, err := Parse("s3cret", tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "t1", claims.TenantID)
	assert.Equal(t, "bodeguero", claims.Role)
}

func TestParse_Rechaza(t *testing.T) {
	tok, err := Generate("s3cret", "u1", "t1", "admin", "kardex-test", 5)
	require.NoError(t, err)

	_, err = Parse("otro", tok)
	assert.Error(t, err, "firma incorrecta")

	expired, err := Generate("s3cret", "u1", "t1", "admin", "kardex-test", -1)
	require.NoError(t, err)
	_, err = Parse("s3cret", expired)
	assert.Error(t, err, "expirado")

	noTenant, err := Generate("s3cret", "u1", "", "admin", "kardex-test", 5)
	require.NoError(t, err)
	_, err = Parse("s3cret", noTenant)
	assert.Error(t, err, "sin tenant")

	_, err = Generate("", "u1", "t1", "admin", "x", 5)
	assert.Error(t, err)
}
