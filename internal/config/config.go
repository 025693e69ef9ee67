// Package config provides persistent configuration for prayer-board.
//
// Settings are layered with viper. From lowest to highest precedence:
// built-in defaults, the JSON file at ~/.config/prayer-board/config.json
// (XDG-compliant), PRAYER_BOARD_* environment variables, and explicitly set
// CLI flags. An optional .env file is loaded into the environment first.
package config

import (
	"encoding/json"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/smokyabdulrahman/prayer-board/internal/calc"
)

const (
	configDirName  = "prayer-board"
	configFileName = "config.json"
	envPrefix      = "PRAYER_BOARD"
)

// ErrUnknownKey is returned for keys outside ValidKeys.
var ErrUnknownKey = errors.New("unknown config key")

// ValidKeys lists all config keys that can be set via `config set`.
var ValidKeys = []string{
	"latitude", "longitude",
	"method", "school",
	"source", "api_url",
	"time_format", "timezone",
	"refresh", "listen_addr",
	"log_level",
}

// FlagKeys maps CLI flag names to the config keys they override.
var FlagKeys = map[string]string{
	"lat":         "latitude",
	"lng":         "longitude",
	"method":      "method",
	"school":      "school",
	"source":      "source",
	"api-url":     "api_url",
	"time-format": "time_format",
	"timezone":    "timezone",
	"refresh":     "refresh",
	"addr":        "listen_addr",
	"log-level":   "log_level",
}

// Sources of the day's schedule.
const (
	SourceAPI   = "api"
	SourceLocal = "local"
)

// Config holds all user-configurable settings.
// Empty strings and nil coordinates mean "not set".
type Config struct {
	Latitude   *float64 `mapstructure:"latitude" json:"latitude,omitempty"`
	Longitude  *float64 `mapstructure:"longitude" json:"longitude,omitempty"`
	Method     string   `mapstructure:"method" json:"method,omitempty"`
	School     string   `mapstructure:"school" json:"school,omitempty"`
	Source     string   `mapstructure:"source" json:"source,omitempty"`
	APIURL     string   `mapstructure:"api_url" json:"api_url,omitempty"`
	TimeFormat string   `mapstructure:"time_format" json:"time_format,omitempty"` // "12h" or "24h"
	Timezone   string   `mapstructure:"timezone" json:"timezone,omitempty"`       // IANA name; empty means look it up
	Refresh    string   `mapstructure:"refresh" json:"refresh,omitempty"`         // Go duration, e.g. "30s"
	ListenAddr string   `mapstructure:"listen_addr" json:"listen_addr,omitempty"`
	LogLevel   string   `mapstructure:"log_level" json:"log_level,omitempty"`
}

// Defaults returns a Config with all default values applied.
func Defaults() Config {
	return Config{
		Method:     calc.DefaultMethod,
		School:     calc.DefaultSchool,
		Source:     SourceAPI,
		APIURL:     "http://localhost:8080",
		TimeFormat: "12h",
		Refresh:    "30s",
		ListenAddr: ":8080",
		LogLevel:   "info",
	}
}

// Dir returns the config directory path.
// It respects $XDG_CONFIG_HOME if set, otherwise uses ~/.config/.
func Dir() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "cannot determine home directory")
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, configDirName), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// LoadDotEnv loads variables from a .env file into the environment without
// overriding ones already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "failed to load %s", path)
	}
	return nil
}

// Load resolves the effective configuration from defaults, the file at path,
// the environment and the changed flags in flags. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	for _, key := range ValidKeys {
		// Keys without a default are only seen by Unmarshal when bound.
		if err := v.BindEnv(key); err != nil {
			return nil, errors.Wrapf(err, "binding %s", key)
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("json")
			if err := v.ReadInConfig(); err != nil {
				return nil, errors.Wrapf(err, "invalid config file %s", path)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}

	// Only flags the user actually set override lower layers; a bound but
	// unchanged flag would otherwise leak its zero default.
	var bindErr error
	if flags != nil {
		flags.Visit(func(f *pflag.Flag) {
			if key, ok := FlagKeys[f.Name]; ok && bindErr == nil {
				bindErr = v.BindPFlag(key, f)
			}
		})
	}
	if bindErr != nil {
		return nil, errors.Wrap(bindErr, "binding flags")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("method", d.Method)
	v.SetDefault("school", d.School)
	v.SetDefault("source", d.Source)
	v.SetDefault("api_url", d.APIURL)
	v.SetDefault("time_format", d.TimeFormat)
	v.SetDefault("refresh", d.Refresh)
	v.SetDefault("listen_addr", d.ListenAddr)
	v.SetDefault("log_level", d.LogLevel)
}

// ReadFile reads only the config file at path, without defaults or
// overrides. If the file does not exist, it returns an empty Config.
func ReadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "invalid config file %s", path)
	}
	return &cfg, nil
}

// SaveTo writes the config to a specific file path, creating the directory
// if needed.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "cannot create config directory %s", dir)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}
	return nil
}

// ResetAt deletes the config file at path.
func ResetAt(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Wrap(err, "failed to delete config file")
	}
	return nil
}

// Set validates value and stores it under key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "latitude":
		v, err := parseCoordinate(key, value, 90)
		if err != nil {
			return err
		}
		c.Latitude = &v
	case "longitude":
		v, err := parseCoordinate(key, value, 180)
		if err != nil {
			return err
		}
		c.Longitude = &v
	case "method":
		m, err := calc.LookupMethod(value)
		if err != nil {
			return err
		}
		c.Method = m.Name
	case "school":
		s, err := calc.LookupSchool(value)
		if err != nil {
			return err
		}
		c.School = s.Name
	default:
		if err := validateString(key, value); err != nil {
			return err
		}
		c.setString(key, value)
	}
	return nil
}

// Get returns the string value of a config key, or "" when it is unset.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "latitude":
		return formatCoordinate(c.Latitude), nil
	case "longitude":
		return formatCoordinate(c.Longitude), nil
	case "method":
		return c.Method, nil
	case "school":
		return c.School, nil
	case "source":
		return c.Source, nil
	case "api_url":
		return c.APIURL, nil
	case "time_format":
		return c.TimeFormat, nil
	case "timezone":
		return c.Timezone, nil
	case "refresh":
		return c.Refresh, nil
	case "listen_addr":
		return c.ListenAddr, nil
	case "log_level":
		return c.LogLevel, nil
	default:
		return "", unknownKey(key)
	}
}

// Validate checks every set field.
func (c *Config) Validate() error {
	if c.Latitude != nil && (*c.Latitude < -90 || *c.Latitude > 90) {
		return errors.Newf("invalid latitude %v: must be between -90 and 90", *c.Latitude)
	}
	if c.Longitude != nil && (*c.Longitude < -180 || *c.Longitude > 180) {
		return errors.Newf("invalid longitude %v: must be between -180 and 180", *c.Longitude)
	}
	if c.Method != "" {
		if _, err := calc.LookupMethod(c.Method); err != nil {
			return err
		}
	}
	if c.School != "" {
		if _, err := calc.LookupSchool(c.School); err != nil {
			return err
		}
	}
	for _, key := range []string{"source", "api_url", "time_format", "timezone", "refresh", "log_level"} {
		value, _ := c.Get(key)
		if value == "" {
			continue
		}
		if err := validateString(key, value); err != nil {
			return err
		}
	}
	return nil
}

// HasCoordinates reports whether both latitude and longitude are set.
func (c *Config) HasCoordinates() bool {
	return c.Latitude != nil && c.Longitude != nil
}

// RefreshInterval returns the live board's refresh period, falling back to
// the default for unset or non-positive values.
func (c *Config) RefreshInterval() time.Duration {
	if d, err := time.ParseDuration(c.Refresh); err == nil && d > 0 {
		return d
	}
	return 30 * time.Second
}

// Location returns the configured timezone, or nil when it should be looked
// up from the coordinates.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return nil, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid timezone %q", c.Timezone)
	}
	return loc, nil
}

func (c *Config) setString(key, value string) {
	switch key {
	case "source":
		c.Source = value
	case "api_url":
		c.APIURL = value
	case "time_format":
		c.TimeFormat = value
	case "timezone":
		c.Timezone = value
	case "refresh":
		c.Refresh = value
	case "listen_addr":
		c.ListenAddr = value
	case "log_level":
		c.LogLevel = value
	}
}

func validateString(key, value string) error {
	switch key {
	case "source":
		if value != SourceAPI && value != SourceLocal {
			return errors.Newf("invalid source %q: must be %q or %q", value, SourceAPI, SourceLocal)
		}
	case "api_url":
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.Newf("invalid api_url %q: must be an http(s) URL", value)
		}
	case "time_format":
		if value != "12h" && value != "24h" {
			return errors.Newf("invalid time_format %q: must be \"12h\" or \"24h\"", value)
		}
	case "timezone":
		if _, err := time.LoadLocation(value); err != nil {
			return errors.Wrapf(err, "invalid timezone %q", value)
		}
	case "refresh":
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return errors.Newf("invalid refresh %q: must be a positive duration such as 30s", value)
		}
	case "listen_addr":
		if !strings.Contains(value, ":") {
			return errors.Newf("invalid listen_addr %q: must be host:port or :port", value)
		}
	case "log_level":
		if _, err := zerolog.ParseLevel(value); err != nil {
			return errors.Newf("invalid log_level %q", value)
		}
	default:
		return unknownKey(key)
	}
	return nil
}

func unknownKey(key string) error {
	return errors.WithHintf(errors.Wrapf(ErrUnknownKey, "%q", key),
		"valid keys: %s", strings.Join(ValidKeys, ", "))
}

func parseCoordinate(key, value string, limit float64) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.Newf("invalid %s %q: must be a number", key, value)
	}
	if v < -limit || v > limit {
		return 0, errors.Newf("invalid %s %q: must be between %v and %v", key, value, -limit, limit)
	}
	return v, nil
}

func formatCoordinate(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
