package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/domino14/lineclear/endgame/alphabeta"
	"github.com/domino14/lineclear/generator"
)

const (
	ConfigDebug                  = "debug"
	ConfigConfigFile             = "config-file"
	ConfigHTTPAddr               = "http-addr"
	ConfigNatsURL                = "nats-url"
	ConfigNatsChannel            = "nats-channel"
	ConfigSolverTT               = "solver-tt"
	ConfigSolverTTMemoryFraction = "solver-tt-memory-fraction"
	ConfigSolverTimeout          = "solver-timeout"
	ConfigGenMinDim              = "gen-min-dim"
	ConfigGenMaxDim              = "gen-max-dim"
	ConfigInput                  = "input"
	ConfigOutput                 = "output"
	ConfigCPUProfile             = "cpu-profile"
)

const envPrefix = "LINECLEAR"

type Config struct {
	*viper.Viper
	args []string
}

// DefaultConfig returns a config holding only default values. Tests and
// embedded callers use it without parsing any flags.
func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigHTTPAddr, ":8080")
	c.SetDefault(ConfigNatsURL, "nats://localhost:4222")
	c.SetDefault(ConfigNatsChannel, "lineclear.solve")
	c.SetDefault(ConfigSolverTT, false)
	c.SetDefault(ConfigSolverTTMemoryFraction, alphabeta.DefaultTTMemoryFraction)
	c.SetDefault(ConfigSolverTimeout, "60s")
	c.SetDefault(ConfigGenMinDim, generator.DefaultMinDim)
	c.SetDefault(ConfigGenMaxDim, generator.DefaultMaxDim)
	c.SetDefault(ConfigInput, "input.txt")
	c.SetDefault(ConfigOutput, "output.txt")
}

// Load reads, in increasing priority: defaults, an optional config file,
// LINECLEAR_* environment variables, and command-line flags. Positional
// arguments are kept and returned by Args.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	c.setDefaults()

	fs := pflag.NewFlagSet("lineclear", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "turn on debug logging")
	fs.String(ConfigConfigFile, "", "optional config file (yaml, toml or json)")
	fs.String(ConfigHTTPAddr, ":8080", "address the HTTP server listens on")
	fs.String(ConfigNatsURL, "nats://localhost:4222", "NATS server URL")
	fs.String(ConfigNatsChannel, "lineclear.solve", "NATS subject for solve requests")
	fs.Bool(ConfigSolverTT, false, "use a transposition table while solving")
	fs.Float64(ConfigSolverTTMemoryFraction, alphabeta.DefaultTTMemoryFraction,
		"fraction of system memory the transposition table may use")
	fs.Duration(ConfigSolverTimeout, 0, "give up on a solve after this long (0 uses the default)")
	fs.Int(ConfigGenMinDim, generator.DefaultMinDim, "smallest dimension of a random board")
	fs.Int(ConfigGenMaxDim, generator.DefaultMaxDim, "largest dimension of a random board")
	fs.StringP(ConfigInput, "i", "input.txt", "input board file")
	fs.StringP(ConfigOutput, "o", "output.txt", "output file")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")

	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()

	// Only explicitly set flags override the other sources.
	var bindErr error
	fs.Visit(func(f *pflag.Flag) {
		if err := c.BindPFlag(f.Name, f); err != nil {
			bindErr = errors.Join(bindErr, err)
		}
	})
	if bindErr != nil {
		return bindErr
	}

	c.SetEnvPrefix(envPrefix)
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if cf := c.GetString(ConfigConfigFile); cf != "" {
		c.SetConfigFile(cf)
		if err := c.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", cf, err)
		}
		log.Debug().Str("file", c.ConfigFileUsed()).Msg("read-config-file")
	}
	return nil
}

// Args returns the positional arguments left after flag parsing.
func (c *Config) Args() []string {
	return c.args
}

// SanitizedSettings is AllSettings without anything that could carry
// credentials.
func (c *Config) SanitizedSettings() map[string]any {
	settings := c.AllSettings()
	if _, ok := settings[ConfigNatsURL]; ok {
		settings[ConfigNatsURL] = "<redacted>"
	}
	return settings
}
