package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/dmitrymomot/jwtflow/core/api"
	"github.com/dmitrymomot/jwtflow/core/config"
	"github.com/dmitrymomot/jwtflow/core/logger"
	"github.com/dmitrymomot/jwtflow/core/profile"
	"github.com/dmitrymomot/jwtflow/core/revocation"
	"github.com/dmitrymomot/jwtflow/core/server"
	"github.com/dmitrymomot/jwtflow/core/telemetry"
	"github.com/dmitrymomot/jwtflow/pkg/jwt"
)

// appConfig holds process-level settings read from the environment.
type appConfig struct {
	Env       string  `env:"APP_ENV" envDefault:"development"`
	Profiles  string  `env:"JWTFLOW_PROFILES"`
	RateLimit float64 `env:"JWTFLOW_RATE_LIMIT" envDefault:"0"`
	RateBurst int     `env:"JWTFLOW_RATE_BURST" envDefault:"20"`
}

func newLogger(env string, w io.Writer) *slog.Logger {
	var envOpt logger.Option
	switch env {
	case "production":
		envOpt = logger.WithProduction(serviceName)
	case "staging":
		envOpt = logger.WithStaging(serviceName)
	default:
		envOpt = logger.WithDevelopment(serviceName)
	}
	return logger.New(envOpt, logger.WithOutput(w))
}

func loadRegistry(path string) (*profile.Registry, error) {
	if path == "" {
		return profile.FromEnv()
	}
	return profile.Load(path)
}

func newFlagSet(name string, stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func runServe(ctx context.Context, args []string, stderr io.Writer) error {
	var app appConfig
	if err := config.Load(&app); err != nil {
		return err
	}
	srvCfg := server.DefaultConfig()
	if err := config.Load(&srvCfg); err != nil {
		return err
	}

	fs := newFlagSet("serve", stderr)
	fs.StringVar(&app.Profiles, "profiles", app.Profiles, "path to the YAML profiles file")
	fs.StringVar(&srvCfg.Addr, "addr", srvCfg.Addr, "listen address")
	fs.Float64Var(&app.RateLimit, "rate-limit", app.RateLimit, "requests per second per client IP (0 disables)")
	fs.IntVar(&app.RateBurst, "rate-burst", app.RateBurst, "rate limiter burst size")
	if err := fs.Parse(args); err != nil {
		return flagError(err)
	}

	log := newLogger(app.Env, stderr)
	logger.SetAsDefault(log)

	reg, err := loadRegistry(app.Profiles)
	if err != nil {
		return fmt.Errorf("load profiles: %w", err)
	}
	log.Info("profiles loaded", logger.Component("cli"), slog.Int("count", reg.Len()))

	metrics, err := telemetry.NewTokenMetrics(serviceName)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	apiOpts := []api.Option{
		api.WithLogger(log),
		api.WithMetrics(metrics),
		api.WithRateLimit(app.RateLimit, app.RateBurst),
	}
	revokerOpts, closeRevoker, err := newRevoker(ctx, log)
	if err != nil {
		return err
	}
	defer closeRevoker()
	apiOpts = append(apiOpts, revokerOpts...)

	handler := api.New(reg, apiOpts...).Handler()

	srv, err := server.NewFromConfig(srvCfg, server.WithLogger(log))
	if err != nil {
		return err
	}
	return srv.Run(ctx, handler)
}

// newRevoker uses Redis when REDIS_URL is set and an in-memory list otherwise.
func newRevoker(ctx context.Context, log *slog.Logger) ([]api.Option, func(), error) {
	var cfg revocation.Config
	if err := config.Load(&cfg); err != nil {
		return nil, nil, err
	}
	if cfg.ConnectionURL == "" {
		log.Info("using in-memory revocation list", logger.Component("cli"))
		return []api.Option{api.WithRevoker(revocation.NewMemory())}, func() {}, nil
	}

	client, err := revocation.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	log.Info("using redis revocation list", logger.Component("cli"))
	closeFn := func() {
		if err := client.Close(); err != nil {
			log.Error("failed to close redis client", logger.Component("cli"), logger.Error(err))
		}
	}
	return []api.Option{
		api.WithRevoker(revocation.NewRedis(client, cfg.KeyPrefix)),
		api.WithReadinessCheck(revocation.Healthcheck(client)),
	}, closeFn, nil
}

func runSign(args []string, stdout, stderr io.Writer) error {
	var app appConfig
	if err := config.Load(&app); err != nil {
		return err
	}

	var (
		name      string
		subject   string
		audience  string
		expiresIn int
		claimsArg string
		withID    bool
	)
	fs := newFlagSet("sign", stderr)
	fs.StringVar(&app.Profiles, "profiles", app.Profiles, "path to the YAML profiles file")
	fs.StringVarP(&name, "profile", "p", profile.DefaultName, "profile to sign with")
	fs.StringVar(&subject, "subject", "", "subject (sub) claim")
	fs.StringVar(&audience, "audience", "", "audience (aud) claim")
	fs.IntVar(&expiresIn, "expires-in", 0, "expiration offset in minutes; omitted means no expiry")
	fs.StringVar(&claimsArg, "claims", "", "additional claims as a JSON object")
	fs.BoolVar(&withID, "id", false, "add a random token ID (jti) and print it to stderr")
	if err := fs.Parse(args); err != nil {
		return flagError(err)
	}

	reg, err := loadRegistry(app.Profiles)
	if err != nil {
		return fmt.Errorf("load profiles: %w", err)
	}
	svc, ok := reg.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", profile.ErrNotFound, name)
	}

	claims, err := jwt.DecodeClaims([]byte(claimsArg))
	if err != nil {
		return err
	}

	opts := []jwt.SignOption{jwt.WithSubject(subject), jwt.WithAudience(audience)}
	if fs.Changed("expires-in") {
		opts = append(opts, jwt.WithExpiresIn(expiresIn))
	}
	if withID {
		id := uuid.NewString()
		opts = append(opts, jwt.WithTokenID(id))
		fmt.Fprintf(stderr, "token id: %s\n", id)
	}

	token, err := svc.Sign(claims, opts...)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, token)
	return nil
}

func runVerify(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var app appConfig
	if err := config.Load(&app); err != nil {
		return err
	}

	var (
		name  string
		quiet bool
	)
	fs := newFlagSet("verify", stderr)
	fs.StringVar(&app.Profiles, "profiles", app.Profiles, "path to the YAML profiles file")
	fs.StringVarP(&name, "profile", "p", profile.DefaultName, "profile to verify against")
	fs.BoolVarP(&quiet, "quiet", "q", false, "print nothing; report only through the exit code")
	if err := fs.Parse(args); err != nil {
		return flagError(err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("verify: expected exactly one TOKEN argument (use - to read stdin)")
	}

	token := fs.Arg(0)
	if token == "-" {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("read token: %w", err)
		}
		token = strings.TrimSpace(line)
	}

	reg, err := loadRegistry(app.Profiles)
	if err != nil {
		return fmt.Errorf("load profiles: %w", err)
	}
	svc, ok := reg.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", profile.ErrNotFound, name)
	}

	if _, err := svc.Parse(token); err != nil {
		if !quiet {
			fmt.Fprintf(stdout, "invalid: %v\n", err)
		}
		return exitError{code: 1}
	}
	if !quiet {
		fmt.Fprintln(stdout, "valid")
	}
	return nil
}

// flagError turns --help into a clean exit.
func flagError(err error) error {
	if err == pflag.ErrHelp {
		return nil
	}
	return exitError{code: 2}
}
