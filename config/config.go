// Package config loads the linter configuration from defaults, an optional
// config file, environment variables and command line overrides, in that
// order of precedence.
package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	nopx "github.com/yunfengsa/stylelint-nopx"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "NOPX_"

// AppConfig holds the linter configuration.
type AppConfig struct {
	// Enabled turns the rule on. A disabled rule reports nothing.
	Enabled bool `koanf:"enabled"`

	// Severity is the severity of reported warnings, "error" or "warning".
	Severity string `koanf:"severity" validate:"required,oneof=error warning"`

	// Ignore lists property name fragments to exempt. See nopx.Options.
	Ignore []string `koanf:"ignore" validate:"dive,required"`

	// IgnoreFunctions lists functions whose arguments are not checked.
	IgnoreFunctions []string `koanf:"ignore_functions" validate:"dive,css_ident"`

	// Format is the output format, "text" or "json".
	Format string `koanf:"format" validate:"required,oneof=text json"`

	// Cache enables the persistent result cache at CacheLocation.
	Cache         bool   `koanf:"cache"`
	CacheLocation string `koanf:"cache_location" validate:"required_if=Cache true"`

	// CacheSize is the number of verdicts kept in memory. Zero disables it.
	CacheSize int `koanf:"cache_size" validate:"gte=0"`

	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`
}

// DefaultAppConfig defines the configuration used for keys that no source sets.
var DefaultAppConfig = AppConfig{
	Enabled:       true,
	Severity:      "error",
	Ignore:        []string{nopx.IgnoreOnePX},
	Format:        "text",
	Cache:         false,
	CacheLocation: ".nopxcache",
	CacheSize:     1024,
	Env:           "dev",
	LogLevel:      "warn",
}

// listKeys are the keys whose environment values are comma-separated lists.
var listKeys = map[string]bool{
	"ignore":           true,
	"ignore_functions": true,
}

// Options returns the check options described by the configuration.
func (c *AppConfig) Options() *nopx.Options {
	return &nopx.Options{Ignore: c.Ignore, IgnoreFunctions: c.IgnoreFunctions}
}

var cssIdent = regexp.MustCompile(`^-?[_a-zA-Z][_a-zA-Z0-9-]*$`)

// validCSSIdent validates that a function name is a plain CSS identifier.
func validCSSIdent(fl validator.FieldLevel) bool {
	return cssIdent.MatchString(fl.Field().String())
}

// parserFor returns the parser for a config file based on its extension.
func parserFor(path string) (koanf.Parser, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config file type %q", ext)
	}
}

// defaultLoader loads DefaultAppConfig into the provided Koanf instance.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DefaultAppConfig, "koanf"), nil)
}

// fileLoader loads a YAML, JSON or TOML config file. An empty path loads nothing.
var fileLoader = func(k *koanf.Koanf, path string) error {
	if path == "" {
		return nil
	}
	parser, err := parserFor(path)
	if err != nil {
		return err
	}
	return k.Load(file.Provider(path), parser)
}

// envLoader loads environment variables with the prefix "NOPX_".
// List values are split on commas so that entries like "border 1px" keep
// their spaces. An empty list value clears the list.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
			value = strings.TrimSpace(value)

			if !listKeys[key] {
				return key, value
			}

			parts := []string{}
			for _, p := range strings.Split(value, ",") {
				if p = strings.TrimSpace(p); p != "" {
					parts = append(parts, p)
				}
			}
			return key, parts
		},
	}), nil)
}

// registerValidation registers the "css_ident" validation.
var registerValidation = func(v *validator.Validate) error {
	return v.RegisterValidation("css_ident", validCSSIdent)
}

// Load returns the configuration built from the defaults, the config file at
// path (if not empty), the environment and overrides, which typically hold
// command line flags. Keys absent from every source keep their default.
func Load(path string, overrides map[string]any) (*AppConfig, error) {
	k := koanf.New(".")

	err := defaultLoader(k)
	if err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	err = fileLoader(k, path)
	if err != nil {
		return nil, fmt.Errorf("error loading config file %s: %w", path, err)
	}

	err = envLoader(k)
	if err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("error loading overrides: %w", err)
		}
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	err = registerValidation(validate)
	if err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}

	err = validate.Struct(&cfg)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
