package config

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const configFile = "/work/rttigen.yaml"

func writeConfig(t *testing.T, content string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, configFile, []byte(content), 0o644))
	return fs
}

func testFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("rttigen", pflag.ContinueOnError)
	flags.String("namespace", DefaultNamespace, "")
	flags.StringSlice("type", nil, "")
	flags.Bool("strict-attributes", false, "")
	flags.String("log-level", "info", "")
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(afero.NewMemMapFs(), nil, "")
	require.NoError(t, err)

	assert.Equal(t, DefaultNamespace, cfg.Namespace)
	assert.Equal(t, DefaultRuntime, cfg.Runtime)
	assert.Empty(t, cfg.RuntimeName)
	assert.Equal(t, DefaultSuffix, cfg.Suffix)
	assert.Equal(t, DefaultIgnored, cfg.Ignored)
	assert.Empty(t, cfg.Types)
	assert.Equal(t, DefaultCompiler, cfg.Compiler)
	assert.Equal(t, []string{"*_rtti.go"}, cfg.Skip)
	assert.False(t, cfg.StrictAttributes)
	assert.False(t, cfg.Verify)
	assert.False(t, cfg.Prune)
	assert.False(t, cfg.DryRun)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.JSON)
	assert.Nil(t, cfg.Sizes())
}

func TestLoadFile(t *testing.T) {
	fs := writeConfig(t, `namespace: meta
runtime: example.com/meta/runtime
runtime_name: runtime
strict_attributes: true
types: [Point, Shape]
skip:
  - "*_meta.go"
  - "zz_generated.*.go"
arch: arm64
log:
  level: debug
  json: true
`)
	cfg, err := Load(fs, nil, configFile)
	require.NoError(t, err)

	assert.Equal(t, "meta", cfg.Namespace)
	assert.Equal(t, "example.com/meta/runtime", cfg.Runtime)
	assert.Equal(t, "runtime", cfg.RuntimeName)
	assert.True(t, cfg.StrictAttributes)
	assert.Equal(t, []string{"Point", "Shape"}, cfg.Types)
	assert.Equal(t, []string{"*_meta.go", "zz_generated.*.go"}, cfg.Skip)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, DefaultSuffix, cfg.Suffix)

	sizes := cfg.Sizes()
	require.NotNil(t, sizes)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), nil, "/work/absent.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading configuration")
}

func TestLoadMalformedFile(t *testing.T) {
	fs := writeConfig(t, "namespace: [unterminated\n")
	_, err := Load(fs, nil, configFile)
	assert.Error(t, err)
}

func TestLoadPrecedence(t *testing.T) {
	fs := writeConfig(t, "namespace: fromfile\nignored: Skipped\n")

	t.Run("EnvOverridesFile", func(t *testing.T) {
		t.Setenv("RTTIGEN_NAMESPACE", "fromenv")
		t.Setenv("RTTIGEN_LOG_LEVEL", "warn")
		cfg, err := Load(fs, testFlags(t), configFile)
		require.NoError(t, err)
		assert.Equal(t, "fromenv", cfg.Namespace)
		assert.Equal(t, "warn", cfg.Log.Level)
		assert.Equal(t, "Skipped", cfg.Ignored)
	})

	t.Run("FlagOverridesEnv", func(t *testing.T) {
		t.Setenv("RTTIGEN_NAMESPACE", "fromenv")
		flags := testFlags(t, "--namespace", "fromflag", "--type", "Point,Shape", "--strict-attributes")
		cfg, err := Load(fs, flags, configFile)
		require.NoError(t, err)
		assert.Equal(t, "fromflag", cfg.Namespace)
		assert.Equal(t, []string{"Point", "Shape"}, cfg.Types)
		assert.True(t, cfg.StrictAttributes)
	})

	t.Run("UnsetFlagsDoNotOverride", func(t *testing.T) {
		cfg, err := Load(fs, testFlags(t), configFile)
		require.NoError(t, err)
		assert.Equal(t, "fromfile", cfg.Namespace)
		assert.Equal(t, "info", cfg.Log.Level)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Namespace: DefaultNamespace,
			Runtime:   DefaultRuntime,
			Suffix:    DefaultSuffix,
			Ignored:   DefaultIgnored,
			Compiler:  DefaultCompiler,
			Skip:      []string{"*_rtti.go"},
			Log:       LogConfig{Level: "info"},
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"NamespaceNotIdentifier", func(c *Config) { c.Namespace = "my-ns" }, "Namespace"},
		{"NamespaceMissing", func(c *Config) { c.Namespace = "" }, "Namespace"},
		{"RuntimeMissing", func(c *Config) { c.Runtime = "" }, "Runtime"},
		{"RuntimeNameNotIdentifier", func(c *Config) { c.RuntimeName = "1rtti" }, "RuntimeName"},
		{"SuffixNotGo", func(c *Config) { c.Suffix = "_rtti.txt" }, "Suffix"},
		{"IgnoredNotIdentifier", func(c *Config) { c.Ignored = "rtti.Ignored" }, "Ignored"},
		{"TypeNotIdentifier", func(c *Config) { c.Types = []string{"Point", "geo.Shape"} }, "Types[1]"},
		{"BadGlob", func(c *Config) { c.Skip = []string{"[unclosed"} }, "Skip[0]"},
		{"UnknownCompiler", func(c *Config) { c.Compiler = "tinygo" }, "Compiler"},
		{"UnknownArch", func(c *Config) { c.Arch = "pdp11" }, "unknown target gc/pdp11"},
		{"UnknownLogLevel", func(c *Config) { c.Log.Level = "verbose" }, "Level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRegisterCustomValidators(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterCustomValidators(v))

	assert.NoError(t, v.Var("rtti", "goident"))
	assert.Error(t, v.Var("rt-ti", "goident"))
	assert.NoError(t, v.Var("**/*_rtti.go", "glob"))
	assert.Error(t, v.Var("[", "glob"))
}

func TestGeneratedGlobs(t *testing.T) {
	tests := []struct {
		name   string
		suffix string
		skip   []string
		want   []string
	}{
		{"DefaultSuffixAlreadySkipped", "_rtti.go", []string{"*_rtti.go"}, []string{"*_rtti.go"}},
		{"CustomSuffixAdded", "_gen.go", []string{"*_rtti.go"}, []string{"*_rtti.go", "*_gen.go"}},
		{"NoSkipGlobs", "_gen.go", nil, []string{"*_gen.go"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Suffix: tt.suffix, Skip: tt.skip}
			assert.Equal(t, tt.want, cfg.GeneratedGlobs())
			assert.Equal(t, tt.skip, cfg.Skip)
		})
	}
}
