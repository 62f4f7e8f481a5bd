package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds configuration values parsed from environment variables.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// PolicyDir is the directory where protected-site policy files live.
	PolicyDir string `koanf:"policy_dir" validate:"required"`

	// DBPath is the path of the usage/whitelist database file.
	DBPath string `koanf:"db_path" validate:"required"`

	// CacheSize bounds the protected-site lookup cache.
	CacheSize uint `koanf:"cache_size" validate:"required,gte=1"`

	// DisableCache disables the lookup cache when set to true.
	// Useful for testing scenarios where cache behavior needs to be bypassed.
	DisableCache bool `koanf:"disable_cache"`

	// BloomFPRate is the target false-positive rate of the membership
	// pre-filter in front of the protected-site index.
	BloomFPRate float64 `koanf:"bloom_fp_rate" validate:"required,fp_rate"`

	// RebuildSeconds is the interval between periodic policy rebuilds.
	RebuildSeconds int `koanf:"rebuild_seconds" validate:"required,gte=1,lte=3600"`

	// SweepSeconds is the interval between whitelist expiry sweeps.
	SweepSeconds int `koanf:"sweep_seconds" validate:"required,gte=1,lte=3600"`
}

// DEFAULT_APP_CONFIG defines the default application configuration for the
// policy engine daemon.
var DEFAULT_APP_CONFIG = AppConfig{
	Env:            "prod",
	LogLevel:       "info",
	PolicyDir:      "/etc/sitegate/policies/",
	DBPath:         "/var/lib/sitegate/usage.db",
	CacheSize:      1000,
	DisableCache:   false,
	BloomFPRate:    0.01,
	RebuildSeconds: 60,
	SweepSeconds:   60,
}

// validFPRate validates that a false-positive rate is a usable probability:
// strictly above zero and at most 0.5.
func validFPRate(fl validator.FieldLevel) bool {
	rate := fl.Field().Float()
	return rate > 0 && rate <= 0.5
}

// envLoader loads environment variables with the prefix "GATE_", lowercasing
// keys and stripping the prefix. Split out so tests can mock it.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "GATE_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, "GATE_"))
			value = strings.TrimSpace(value)
			return key, value
		},
	}), nil)
}

// defaultLoader loads default configuration values using the structs
// provider and DEFAULT_APP_CONFIG.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// registerValidation registers the custom "fp_rate" validation tag.
var registerValidation = func(v *validator.Validate) error {
	return v.RegisterValidation("fp_rate", validFPRate)
}

// Load parses environment variables and returns an AppConfig instance.
// It applies default values and runs validation automatically.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := registerValidation(validate); err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
