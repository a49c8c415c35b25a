package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/pkg/jwt"
)

func TestGenerateYParse(t *testing.T) {
	tok, err := jwt.Generate("s3cret", "stock-ledger-api", jwt.Claims{UserID: "u1", BranchID: "117", Role: "bodega"}, 5)
	require.NoError(t, err)

	c, err := jwt.Parse("s3cret", "stock-ledger-api", tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", c.UserID)
	assert.Equal(t, "117", c.BranchID)
	assert.Equal(t, "bodega", c.Role)
}

func TestParse_FirmaOEmisorIncorrecto(t *testing.T) {
	tok, err := jwt.Generate("s3cret", "otro", jwt.Claims{UserID: "u1"}, 5)
	require.NoError(t, err)

	_, err = jwt.Parse("s3cret", "stock-ledger-api", tok)
	assert.Error(t, err)

	_, err = jwt.Parse("distinto", "", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := jwt.Generate("s3cret", "", jwt.Claims{UserID: "u1"}, -1)
	require.NoError(t, err)

	_, err = jwt.Parse("s3cret", "", tok)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "", jwt.Claims{}, 1)
	assert.ErrorIs(t, err, jwt.ErrSecretVacio)
}
