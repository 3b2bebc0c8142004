package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/jwtflow/pkg/jwt"
)

const profilesYAML = `profiles:
  default:
    issuer: my-app
    algorithm: HS256
    secret: s3cr3t
  billing:
    issuer: billing
    algorithm: HMAC512
    secret: another-secret
`

func writeProfiles(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(profilesYAML), 0o600))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestSignThenVerify(t *testing.T) {
	path := writeProfiles(t)

	out, _, err := execute(t, "", "sign", "--profiles", path,
		"--subject", "user-1", "--expires-in", "15", "--claims", `{"role":"admin","level":3}`)
	require.NoError(t, err)
	token := strings.TrimSpace(out)
	require.Len(t, strings.Split(token, "."), 3)

	svc, err := jwt.New(jwt.Config{Issuer: "my-app", Algorithm: jwt.HS256, Secret: "s3cr3t"})
	require.NoError(t, err)
	claims, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject())
	assert.Equal(t, "admin", claims["role"])
	assert.Equal(t, int64(3), claims["level"])

	out, _, err = execute(t, "", "verify", "--profiles", path, token)
	require.NoError(t, err)
	assert.Equal(t, "valid\n", out)

	out, _, err = execute(t, token+"\n", "verify", "--profiles", path, "-")
	require.NoError(t, err)
	assert.Equal(t, "valid\n", out)
}

func TestVerifyInvalidExitCode(t *testing.T) {
	path := writeProfiles(t)

	out, _, err := execute(t, "", "sign", "--profiles", path, "--profile", "billing")
	require.NoError(t, err)
	token := strings.TrimSpace(out)

	out, _, err = execute(t, "", "verify", "--profiles", path, "--profile", "default", token)
	var exit exitError
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, 1, exit.ExitCode())
	assert.True(t, strings.HasPrefix(out, "invalid: "))

	out, _, err = execute(t, "", "verify", "-q", "--profiles", path, "not-a-token")
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, 1, exit.ExitCode())
	assert.Empty(t, out)
}

func TestSignExpiredToken(t *testing.T) {
	path := writeProfiles(t)

	out, _, err := execute(t, "", "sign", "--profiles", path, "--expires-in", "-1")
	require.NoError(t, err)

	_, _, err = execute(t, "", "verify", "-q", "--profiles", path, strings.TrimSpace(out))
	var exit exitError
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, 1, exit.ExitCode())
}

func TestSignWithTokenID(t *testing.T) {
	path := writeProfiles(t)

	out, errOut, err := execute(t, "", "sign", "--profiles", path, "--id")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(errOut, "token id: "))
	id := strings.TrimSpace(strings.TrimPrefix(errOut, "token id: "))

	svc, err := jwt.New(jwt.Config{Issuer: "my-app", Algorithm: jwt.HS256, Secret: "s3cr3t"})
	require.NoError(t, err)
	claims, err := svc.Parse(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, id, claims["jti"])
}

func TestCommandErrors(t *testing.T) {
	path := writeProfiles(t)

	t.Run("no command", func(t *testing.T) {
		_, errOut, err := execute(t, "")
		var exit exitError
		require.ErrorAs(t, err, &exit)
		assert.Equal(t, 2, exit.ExitCode())
		assert.Contains(t, errOut, "Usage: jwtflow")
	})

	t.Run("unknown command", func(t *testing.T) {
		_, _, err := execute(t, "", "frobnicate")
		assert.ErrorContains(t, err, `unknown command "frobnicate"`)
	})

	t.Run("unknown profile", func(t *testing.T) {
		_, _, err := execute(t, "", "sign", "--profiles", path, "--profile", "missing")
		assert.ErrorContains(t, err, "profile not found")
	})

	t.Run("invalid claims", func(t *testing.T) {
		_, _, err := execute(t, "", "sign", "--profiles", path, "--claims", "[1]")
		assert.Error(t, err)

		_, _, err = execute(t, "", "sign", "--profiles", path, "--claims", `{"a":1}{"b":2}`)
		assert.ErrorIs(t, err, jwt.ErrTrailingClaimsData)
	})

	t.Run("missing token argument", func(t *testing.T) {
		_, _, err := execute(t, "", "verify", "--profiles", path)
		assert.ErrorContains(t, err, "exactly one TOKEN")
	})

	t.Run("bad flag", func(t *testing.T) {
		_, _, err := execute(t, "", "sign", "--nope")
		var exit exitError
		require.ErrorAs(t, err, &exit)
		assert.Equal(t, 2, exit.ExitCode())
	})

	t.Run("missing profiles file", func(t *testing.T) {
		_, _, err := execute(t, "", "sign", "--profiles", filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorContains(t, err, "load profiles")
	})

	t.Run("help", func(t *testing.T) {
		out, _, err := execute(t, "", "help")
		require.NoError(t, err)
		assert.Contains(t, out, "Commands:")
	})
}

func TestServeStopsOnCancel(t *testing.T) {
	path := writeProfiles(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stderr bytes.Buffer
	err := runServe(ctx, []string{"--profiles", path, "--addr", "127.0.0.1:0"}, &stderr)
	assert.NoError(t, err)
	assert.Contains(t, stderr.String(), "profiles loaded")
}
