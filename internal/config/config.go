// Package config loads tool settings from resolvable.yaml, RESOLVABLE_*
// environment variables and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"go/token"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"resolvable-generator/internal/gen"
	"resolvable-generator/internal/schema"
	"resolvable-generator/resolve"
)

// Name is the config file base name searched in the working directory.
const Name = "resolvable"

// EnvPrefix prefixes environment overrides, e.g. RESOLVABLE_PACKAGE.
const EnvPrefix = "RESOLVABLE"

// Duplicate policy names accepted in configuration.
const (
	DuplicatesReject   = "reject"
	DuplicatesLastWins = "last_wins"
)

// Config represents the tool configuration.
type Config struct {
	Output         string `mapstructure:"output" validate:"required"`
	Package        string `mapstructure:"package" validate:"required,ident"`
	DefaultPolicy  string `mapstructure:"default_policy" validate:"oneof=opt_in all_overridable"`
	DefaultPattern string `mapstructure:"default_pattern" validate:"oneof=full non_instantiable"`
	Duplicates     string `mapstructure:"duplicates" validate:"oneof=reject last_wins"`
	NoColor        bool   `mapstructure:"no_color"`
	Verbose        bool   `mapstructure:"verbose"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	err := validate.RegisterValidation("ident", func(fl validator.FieldLevel) bool {
		return token.IsIdentifier(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}
}

// Load reads the configuration. An explicit file must exist; otherwise
// resolvable.yaml is looked up in the working directory and may be absent.
// Changed flags in flags override file and environment values.
func Load(file string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("output", "./generated")
	v.SetDefault("package", gen.DefaultConfig().PackageName)
	v.SetDefault("default_policy", string(schema.PolicyOptIn))
	v.SetDefault("default_pattern", string(schema.PatternFull))
	v.SetDefault("duplicates", DuplicatesReject)
	v.SetDefault("no_color", false)
	v.SetDefault("verbose", false)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(Name)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// bindFlags binds every flag whose name is a config key, "no-color" to "no_color".
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error

	flags.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err == nil && isKey(key) {
			err = v.BindPFlag(key, f)
		}
	})

	return err
}

func isKey(key string) bool {
	switch key {
	case "output", "package", "default_policy", "default_pattern", "duplicates", "no_color", "verbose":
		return true
	default:
		return false
	}
}

// Defaults returns the schema option defaults.
func (c *Config) Defaults() schema.Defaults {
	return schema.Defaults{
		Pattern: schema.Pattern(c.DefaultPattern),
		Policy:  schema.Policy(c.DefaultPolicy),
	}
}

// DuplicatePolicy returns the configured duplicate-override policy.
func (c *Config) DuplicatePolicy() resolve.DuplicatePolicy {
	if c.Duplicates == DuplicatesLastWins {
		return resolve.LastWins
	}

	return resolve.RejectDuplicates
}

// Generator returns the emitter configuration.
func (c *Config) Generator() gen.Config {
	g := gen.DefaultConfig()
	g.PackageName = c.Package
	g.OutputDir = c.Output
	g.Duplicates = c.DuplicatePolicy()

	return g
}
