package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/pkg/config"
	"github.com/jhoicas/stock-ledger-api/pkg/jwt"
)

func withConfig(t *testing.T, cfg *config.Config) {
	t.Helper()
	prev := loadFn
	loadFn = func() (*config.Config, error) { return cfg, nil }
	t.Cleanup(func() { loadFn = prev })
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestToken_FirmaConRol(t *testing.T) {
	withConfig(t, &config.Config{JWT: config.JWTConfig{Secret: "s", Issuer: "stock-ledger-api", Expiration: 5}})

	out, err := run(t, "token", "u1", "--role", "supervisor")
	require.NoError(t, err)

	claims, err := jwt.Parse("s", "stock-ledger-api", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "supervisor", claims.Role)
}

func TestStock_MemoriaVacia(t *testing.T) {
	withConfig(t, &config.Config{Storage: config.StorageConfig{Driver: "memory"}})

	out, err := run(t, "stock", "5")
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(out))
}

func TestNetTotal_FacturaInexistente(t *testing.T) {
	withConfig(t, &config.Config{Storage: config.StorageConfig{Driver: "memory"}})

	_, err := run(t, "net-total", "10")
	assert.Error(t, err)
}

func TestNetTotal_RequiereArgumento(t *testing.T) {
	_, err := run(t, "net-total")
	assert.Error(t, err)
}
