// Package config loads settings for the clish binary.
//
// Sources, highest priority first: command-line flags, CLISH_* environment
// variables, the config file (clish.yaml), CLISH_* entries of .env files,
// built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"clish/pkg/parser"
)

// EnvPrefix prefixes every environment variable read by clish.
const EnvPrefix = "CLISH"

// Config is the resolved configuration.
type Config struct {
	Prompt  PromptConfig  `mapstructure:"prompt"`
	Parser  ParserConfig  `mapstructure:"parser"`
	Log     LogConfig     `mapstructure:"log"`
	History HistoryConfig `mapstructure:"history"`

	// File is the config file that was read, empty if none.
	File string
}

// PromptConfig sets the shell prompt.
type PromptConfig struct {
	Name  string `mapstructure:"name"`
	Info  string `mapstructure:"info"`
	Final string `mapstructure:"final"`
}

// ParserConfig sets the tokenizer's marker prefix and quote delimiter.
type ParserConfig struct {
	Prefix    string `mapstructure:"prefix"`
	Delimiter string `mapstructure:"delimiter"`
}

// DelimiterRune returns the delimiter as a rune. Only meaningful after Validate.
func (p ParserConfig) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(p.Delimiter)
	return r
}

// LogConfig sets the diagnostic logger.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// HistoryConfig sets line-editor history persistence.
type HistoryConfig struct {
	File  string `mapstructure:"file"`
	Limit int    `mapstructure:"limit"`
}

var defaults = map[string]any{
	"prompt.name":      "clish",
	"prompt.info":      "",
	"prompt.final":     ">",
	"parser.prefix":    parser.DefaultPrefix,
	"parser.delimiter": string(parser.DefaultDelimiter),
	"log.level":        "",
	"log.file":         "",
	"history.file":     "",
	"history.limit":    500,
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"name":         "prompt.name",
	"info":         "prompt.info",
	"log-level":    "log.level",
	"log-file":     "log.file",
	"history-file": "history.file",
}

// Options tells Load where to look.
type Options struct {
	// ConfigFile is an explicit config file path. It must exist.
	ConfigFile string
	// WorkDir is searched for clish.yaml and .env. Defaults to the current directory.
	WorkDir string
	// ConfigDir is searched for clish.yaml and .env after WorkDir. Defaults
	// to $XDG_CONFIG_HOME/clish or ~/.config/clish.
	ConfigDir string
	// Flags, if set, override every other source for the flags in use.
	Flags *pflag.FlagSet
}

// Load resolves the configuration and validates it.
func Load(opts Options) (*Config, error) {
	workDir, err := resolveWorkDir(opts.WorkDir)
	if err != nil {
		return nil, err
	}
	configDir := opts.ConfigDir
	if configDir == "" {
		configDir = UserConfigDir()
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	dotenv, err := loadDotEnv(workDir, configDir)
	if err != nil {
		return nil, err
	}
	for key := range defaults {
		if value, ok := dotenv[envName(key)]; ok {
			v.SetDefault(key, value)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("clish")
		v.SetConfigType("yaml")
		v.AddConfigPath(workDir)
		if configDir != "" {
			v.AddConfigPath(configDir)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if flag := opts.Flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the parser settings and history limit.
func (c *Config) Validate() error {
	if c.Parser.Prefix == "" {
		return errors.New("parser.prefix must not be empty")
	}
	if utf8.RuneCountInString(c.Parser.Delimiter) != 1 {
		return fmt.Errorf("parser.delimiter must be a single character, got %q", c.Parser.Delimiter)
	}
	delim := c.Parser.DelimiterRune()
	if unicode.IsSpace(delim) {
		return errors.New("parser.delimiter must not be whitespace")
	}
	if strings.ContainsRune(c.Parser.Prefix, delim) {
		return fmt.Errorf("parser.delimiter %q must not appear in parser.prefix %q", c.Parser.Delimiter, c.Parser.Prefix)
	}
	if c.History.Limit < 0 {
		return fmt.Errorf("history.limit must not be negative, got %d", c.History.Limit)
	}
	return nil
}

// Tokenizer builds the tokenizer described by the parser settings.
func (c *Config) Tokenizer() *parser.Tokenizer {
	return parser.NewTokenizer(
		parser.WithPrefix(c.Parser.Prefix),
		parser.WithDelimiter(c.Parser.DelimiterRune()),
	)
}

// UserConfigDir returns $XDG_CONFIG_HOME/clish, falling back to
// ~/.config/clish. It returns "" when no home directory is known.
func UserConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configHome, "clish")
}

func resolveWorkDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}

// loadDotEnv merges the .env files of dirs; later directories lose to
// earlier ones.
func loadDotEnv(dirs ...string) (map[string]string, error) {
	merged := make(map[string]string)
	for i := len(dirs) - 1; i >= 0; i-- {
		if dirs[i] == "" {
			continue
		}
		envPath := filepath.Join(dirs[i], ".env")
		data, err := os.ReadFile(envPath)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read .env file %s: %w", envPath, err)
		}

		envMap, err := godotenv.Unmarshal(string(data))
		if err != nil {
			return nil, fmt.Errorf("failed to parse .env file %s: %w", envPath, err)
		}
		for key, value := range envMap {
			merged[key] = value
		}
	}
	return merged, nil
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
