package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/fulmenhq/nazna/pkg/safeio"
)

// EnvPrefix namespaces environment overrides (NAZNA_PACKAGE_MANAGER, ...).
const EnvPrefix = "NAZNA"

// Config holds all configuration for nazna
type Config struct {
	PackageManager string   `mapstructure:"package_manager" validate:"oneof=pnpm npm yarn"`
	ToolPackage    string   `mapstructure:"tool_package" validate:"required"`
	GitRemote      string   `mapstructure:"git_remote" validate:"required"`
	CLIOutput      string   `mapstructure:"cli_output" validate:"required"`
	Concurrency    int      `mapstructure:"concurrency" validate:"gte=0"`
	Exclude        []string `mapstructure:"exclude" validate:"dive,required"`
}

var defaultConfig = Config{
	PackageManager: "pnpm",
	ToolPackage:    "nazna",
	GitRemote:      "origin",
	CLIOutput:      "dist/cli.js",
	Concurrency:    0,
	Exclude:        []string{},
}

// Default returns the built-in configuration.
func Default() *Config {
	c := defaultConfig
	c.Exclude = []string{}
	return &c
}

// ProjectConfigFiles are searched in order inside the project directory.
var ProjectConfigFiles = []string{".nazna.yaml", ".nazna.yml"}

// ConfigError reports configuration that cannot be read or is invalid.
type ConfigError struct {
	Source string
	Err    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration (%s): %v", e.Source, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func (e *ConfigError) Kind() string { return "config_error" }

// Load resolves configuration for the project rooted at dir. Precedence, from
// lowest: built-in defaults, NAZNA_* entries of <dir>/.env, the project config
// file, NAZNA_* environment variables. The process environment is never
// modified.
func Load(dir string) (*Config, error) {
	v := viper.New()

	v.SetDefault("package_manager", defaultConfig.PackageManager)
	v.SetDefault("tool_package", defaultConfig.ToolPackage)
	v.SetDefault("git_remote", defaultConfig.GitRemote)
	v.SetDefault("cli_output", defaultConfig.CLIOutput)
	v.SetDefault("concurrency", defaultConfig.Concurrency)
	v.SetDefault("exclude", defaultConfig.Exclude)

	envFile := filepath.Join(dir, ".env")
	dotenv, err := godotenv.Read(envFile)
	switch {
	case err == nil:
		for key, value := range dotenv {
			if name, ok := strings.CutPrefix(key, EnvPrefix+"_"); ok {
				v.SetDefault(strings.ToLower(name), value)
			}
		}
	case !errors.Is(err, fs.ErrNotExist):
		return nil, &ConfigError{Source: envFile, Err: err}
	}

	for _, name := range ProjectConfigFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, &ConfigError{Source: path, Err: err}
		}
		break
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, &ConfigError{Source: "unmarshal", Err: err}
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks field constraints, the CLI output path and exclude globs.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return &ConfigError{Source: "validate", Err: err}
	}
	if _, err := safeio.CleanProjectPath(c.CLIOutput); err != nil {
		return &ConfigError{Source: "cli_output", Err: err}
	}
	for _, pattern := range c.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return &ConfigError{Source: "exclude", Err: fmt.Errorf("bad glob pattern %q", pattern)}
		}
	}
	return nil
}

// RunCommand is the prefix that runs a package.json script.
func (c *Config) RunCommand() string {
	if c.PackageManager == "npm" {
		return "npm run"
	}
	return c.PackageManager
}

// AddDevArgs are the arguments that add pkg as a dev dependency.
func (c *Config) AddDevArgs(pkg string) []string {
	if c.PackageManager == "npm" {
		return []string{"install", "--save-dev", pkg}
	}
	return []string{"add", "-D", pkg}
}

// InstallArgs are the arguments that install declared dependencies.
func (c *Config) InstallArgs() []string {
	return []string{"install"}
}

// InstallCommand is the full install command line used in CI.
func (c *Config) InstallCommand() string {
	return c.PackageManager + " " + strings.Join(c.InstallArgs(), " ")
}

// Excluded reports whether a project-relative path matches an exclude glob.
func (c *Config) Excluded(path string) bool {
	for _, pattern := range c.Exclude {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}
