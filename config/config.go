// Package config resolves the generator configuration from defaults, an
// optional YAML file, RTTIGEN_* environment variables and command line
// flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"go/token"
	"go/types"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes environment variables, e.g. RTTIGEN_NAMESPACE.
	EnvPrefix = "RTTIGEN"
	// FileName is the configuration file looked up in the working directory.
	FileName = ".rttigen"

	DefaultNamespace = "rtti"
	DefaultRuntime   = "github.com/mlwelles/rttigen/rtti"
	DefaultSuffix    = "_rtti.go"
	DefaultIgnored   = "Ignored"
	DefaultCompiler  = "gc"
)

// Config is the resolved configuration of one run.
type Config struct {
	Namespace        string    `mapstructure:"namespace" validate:"required,goident"`
	Runtime          string    `mapstructure:"runtime" validate:"required"`
	RuntimeName      string    `mapstructure:"runtime_name" validate:"omitempty,goident"`
	Suffix           string    `mapstructure:"suffix" validate:"required,endswith=.go"`
	Ignored          string    `mapstructure:"ignored" validate:"required,goident"`
	Types            []string  `mapstructure:"types" validate:"dive,required,goident"`
	Arch             string    `mapstructure:"arch"`
	Compiler         string    `mapstructure:"compiler" validate:"oneof=gc gccgo"`
	StrictAttributes bool      `mapstructure:"strict_attributes"`
	Skip             []string  `mapstructure:"skip" validate:"dive,glob"`
	Verify           bool      `mapstructure:"verify"`
	Prune            bool      `mapstructure:"prune"`
	DryRun           bool      `mapstructure:"dry_run"`
	Log              LogConfig `mapstructure:"log"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error disabled"`
	JSON  bool   `mapstructure:"json"`
}

// flagKeys maps command line flags onto configuration keys.
var flagKeys = map[string]string{
	"namespace":         "namespace",
	"runtime":           "runtime",
	"runtime-name":      "runtime_name",
	"suffix":            "suffix",
	"ignored":           "ignored",
	"type":              "types",
	"arch":              "arch",
	"compiler":          "compiler",
	"strict-attributes": "strict_attributes",
	"skip":              "skip",
	"verify":            "verify",
	"prune":             "prune",
	"dry-run":           "dry_run",
	"log-level":         "log.level",
	"log-json":          "log.json",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("namespace", DefaultNamespace)
	v.SetDefault("runtime", DefaultRuntime)
	v.SetDefault("runtime_name", "")
	v.SetDefault("suffix", DefaultSuffix)
	v.SetDefault("ignored", DefaultIgnored)
	v.SetDefault("types", []string{})
	v.SetDefault("arch", "")
	v.SetDefault("compiler", DefaultCompiler)
	v.SetDefault("strict_attributes", false)
	v.SetDefault("skip", []string{"*" + DefaultSuffix})
	v.SetDefault("verify", false)
	v.SetDefault("prune", false)
	v.SetDefault("dry_run", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
}

// Load resolves the configuration. file names an explicit configuration
// file; when empty, .rttigen.yaml is read from the working directory if it
// exists. Flags that were not set on the command line do not override other
// sources.
func Load(fs afero.Fs, flags *pflag.FlagSet, file string) (*Config, error) {
	v := viper.New()
	v.SetFs(fs)
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading configuration: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag --%s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := RegisterCustomValidators(v); err != nil {
		return err
	}
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Arch != "" && types.SizesFor(c.Compiler, c.Arch) == nil {
		return fmt.Errorf("invalid configuration: unknown target %s/%s", c.Compiler, c.Arch)
	}
	return nil
}

// Sizes returns the layout description for the configured target, or nil
// when no architecture is configured and the loader's sizes apply.
func (c *Config) Sizes() types.Sizes {
	if c.Arch == "" {
		return nil
	}
	return types.SizesFor(c.Compiler, c.Arch)
}

// GeneratedGlobs returns the patterns of files written by a previous run:
// the skip globs plus the glob of the configured suffix.
func (c *Config) GeneratedGlobs() []string {
	own := "*" + c.Suffix
	if slices.Contains(c.Skip, own) {
		return slices.Clone(c.Skip)
	}
	return append(slices.Clone(c.Skip), own)
}

// RegisterCustomValidators registers the "goident" and "glob" validations.
func RegisterCustomValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("goident", validateIdent); err != nil {
		return err
	}
	return v.RegisterValidation("glob", validateGlob)
}

func validateIdent(fl validator.FieldLevel) bool {
	return token.IsIdentifier(fl.Field().String())
}

func validateGlob(fl validator.FieldLevel) bool {
	return doublestar.ValidatePattern(fl.Field().String())
}
