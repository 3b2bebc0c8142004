package profile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/jwtflow/core/config"
	"github.com/dmitrymomot/jwtflow/core/profile"
	"github.com/dmitrymomot/jwtflow/pkg/jwt"
)

const profilesYAML = `
profiles:
  default:
    issuer: my-app
    algorithm: HS256
    secret: s3cr3t
  legacy:
    issuer: legacy-app
    algorithm: HMAC512
    secret: other
  implicit:
    issuer: implicit-app
    secret: third
`

func TestParse(t *testing.T) {
	t.Parallel()

	reg, err := profile.Parse([]byte(profilesYAML))
	require.NoError(t, err)
	assert.Equal(t, 3, reg.Len())
	assert.Equal(t, []string{"default", "implicit", "legacy"}, reg.Names())

	svc, ok := reg.Get("legacy")
	require.True(t, ok)
	assert.Equal(t, jwt.HS512, svc.Algorithm())
	assert.Equal(t, "legacy-app", svc.Issuer())

	implicit, ok := reg.Get("implicit")
	require.True(t, ok)
	assert.Equal(t, jwt.HS256, implicit.Algorithm())

	issuer, alg, ok := reg.Describe("default")
	require.True(t, ok)
	assert.Equal(t, "my-app", issuer)
	assert.Equal(t, jwt.HS256, alg)

	_, ok = reg.Get("missing")
	assert.False(t, ok)
}

func TestProfilesAreIsolated(t *testing.T) {
	t.Parallel()

	reg, err := profile.Parse([]byte(profilesYAML))
	require.NoError(t, err)

	def, _ := reg.Get("default")
	legacy, _ := reg.Get("legacy")

	token, err := def.Sign(jwt.Claims{"role": "admin"})
	require.NoError(t, err)
	assert.True(t, def.Verify(token))
	assert.False(t, legacy.Verify(token))
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		doc string
		err error
	}{
		"empty document":    {"", profile.ErrDecodeFile},
		"no profiles":       {"profiles: {}\n", profile.ErrNoProfiles},
		"unknown field":     {"profiles:\n  a:\n    issuer: x\n    secret: y\n    key: z\n", profile.ErrDecodeFile},
		"bad algorithm":     {"profiles:\n  a:\n    issuer: x\n    algorithm: RS256\n    secret: y\n", profile.ErrDecodeFile},
		"missing secret":    {"profiles:\n  a:\n    issuer: x\n", jwt.ErrMissingSecret},
		"missing issuer":    {"profiles:\n  a:\n    secret: y\n", jwt.ErrInvalidConfig},
		"blank name":        {"profiles:\n  ' ':\n    issuer: x\n    secret: y\n", profile.ErrEmptyName},
		"not a mapping doc": {"- a\n- b\n", profile.ErrDecodeFile},
	}
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := profile.Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestAdd(t *testing.T) {
	t.Parallel()

	reg := profile.New()
	cfg := jwt.Config{Issuer: "a", Algorithm: jwt.HS256, Secret: "s"}
	require.NoError(t, reg.Add("one", cfg))
	assert.ErrorIs(t, reg.Add("one", cfg), profile.ErrDuplicateProfile)
	assert.ErrorIs(t, reg.Add("", cfg), profile.ErrEmptyName)
	assert.ErrorIs(t, reg.Add("two", jwt.Config{Issuer: "a", Algorithm: jwt.HS256}), jwt.ErrMissingSecret)
	assert.Equal(t, []string{"one"}, reg.Names())
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("PROFILE_TEST_SECRET", "from-env")

	path := filepath.Join(t.TempDir(), "profiles.yaml")
	doc := "profiles:\n  env:\n    issuer: env-app\n    secret: ${PROFILE_TEST_SECRET}\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	reg, err := profile.Load(path)
	require.NoError(t, err)

	svc, ok := reg.Get("env")
	require.True(t, ok)

	other, err := jwt.New(jwt.Config{Issuer: "env-app", Algorithm: jwt.HS256, Secret: "from-env"})
	require.NoError(t, err)
	token, err := other.Sign(nil)
	require.NoError(t, err)
	assert.True(t, svc.Verify(token))

	_, err = profile.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, profile.ErrReadFile)
}

func TestParseKeepsLiteralDollars(t *testing.T) {
	t.Setenv("PROFILE_TEST_SUFFIX", "-prod")

	doc := "profiles:\n" +
		"  literal:\n    issuer: app${PROFILE_TEST_SUFFIX}\n    secret: 'pa$$w0rd'\n" +
		"  mixed:\n    issuer: app\n    secret: 's3cr$t$HOME${PROFILE_TEST_SUFFIX}'\n"
	reg, err := profile.Parse([]byte(doc))
	require.NoError(t, err)

	tests := []struct {
		profile string
		issuer  string
		secret  string
	}{
		{"literal", "app-prod", "pa$$w0rd"},
		{"mixed", "app", "s3cr$t$HOME-prod"},
	}
	for _, tt := range tests {
		t.Run(tt.profile, func(t *testing.T) {
			svc, ok := reg.Get(tt.profile)
			require.True(t, ok)

			other, err := jwt.New(jwt.Config{Issuer: tt.issuer, Algorithm: jwt.HS256, Secret: tt.secret})
			require.NoError(t, err)
			token, err := other.Sign(nil)
			require.NoError(t, err)
			assert.True(t, svc.Verify(token))
		})
	}
}

func TestFromEnv(t *testing.T) {
	config.Reset()
	t.Cleanup(config.Reset)
	t.Setenv("JWT_ISSUER", "env-issuer")
	t.Setenv("JWT_ALGORITHM", "HS384")
	t.Setenv("JWT_SECRET", "env-secret")

	reg, err := profile.FromEnv()
	require.NoError(t, err)

	svc, ok := reg.Get(profile.DefaultName)
	require.True(t, ok)
	assert.Equal(t, jwt.HS384, svc.Algorithm())
	assert.Equal(t, "env-issuer", svc.Issuer())
}
