package profile

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/jwtflow/core/config"
	"github.com/dmitrymomot/jwtflow/pkg/jwt"
)

// DefaultName is the profile name used for the environment-sourced configuration.
const DefaultName = "default"

// Registry holds validated token services by profile name.
// Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	services map[string]*jwt.Service
	configs  map[string]jwt.Config
	opts     []jwt.Option
}

// New returns an empty registry. opts are passed to every jwt.Service it builds.
func New(opts ...jwt.Option) *Registry {
	return &Registry{
		services: make(map[string]*jwt.Service),
		configs:  make(map[string]jwt.Config),
		opts:     opts,
	}
}

// Add validates cfg, binds its primitives and registers it under name.
func (r *Registry) Add(name string, cfg jwt.Config) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	svc, err := jwt.New(cfg, r.opts...)
	if err != nil {
		return fmt.Errorf("profile %q: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.services[name]; exists {
		return fmt.Errorf("profile %q: %w", name, ErrDuplicateProfile)
	}
	r.services[name] = svc
	r.configs[name] = cfg
	return nil
}

// Get returns the service registered under name.
func (r *Registry) Get(name string) (*jwt.Service, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	svc, ok := r.services[name]
	return svc, ok
}

// Names returns the registered profile names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.services))
	for name := range r.services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns the issuer and algorithm of a profile. The secret is never exposed.
func (r *Registry) Describe(name string) (issuer string, alg jwt.Algorithm, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.configs[name]
	return cfg.Issuer, cfg.Algorithm, ok
}

// Len returns the number of registered profiles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.services)
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv replaces ${NAME} references only, so secrets such as "pa$$w0rd" stay intact.
func expandEnv(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(ref string) string {
		return os.Getenv(ref[2 : len(ref)-1])
	})
}

type document struct {
	Profiles map[string]jwt.Config `yaml:"profiles"`
}

// Parse builds a registry from a YAML document:
//
//	profiles:
//	  default:
//	    issuer: my-app
//	    algorithm: HS256
//	    secret: ${JWT_SECRET}
//
// ${VAR} references in issuer and secret are expanded from the environment.
// Any other "$" is kept literally.
// A missing algorithm defaults to HS256.
func Parse(data []byte, opts ...jwt.Option) (*Registry, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFile, err)
	}
	if len(doc.Profiles) == 0 {
		return nil, ErrNoProfiles
	}

	reg := New(opts...)
	for name, cfg := range doc.Profiles {
		cfg.Issuer = expandEnv(cfg.Issuer)
		cfg.Secret = expandEnv(cfg.Secret)
		if cfg.Algorithm == "" {
			cfg.Algorithm = jwt.HS256
		}
		if err := reg.Add(name, cfg); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Load reads and parses a YAML profiles file.
func Load(path string, opts ...jwt.Option) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadFile, err)
	}
	return Parse(data, opts...)
}

// FromEnv builds a registry with a single DefaultName profile from the
// JWT_ISSUER, JWT_ALGORITHM and JWT_SECRET environment variables.
func FromEnv(opts ...jwt.Option) (*Registry, error) {
	var cfg jwt.Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	reg := New(opts...)
	if err := reg.Add(DefaultName, cfg); err != nil {
		return nil, err
	}
	return reg, nil
}
