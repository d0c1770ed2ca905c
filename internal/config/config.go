// Package config loads application configuration from environment
// variables and an optional .env file.  Defaults live on struct tags,
// so the zero configuration is always runnable.
package config

import (
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/gpgis-ams/internal/address"
	"github.com/gpgis-ams/internal/logger"
)

// Config holds all configuration for the application, divided into
// partial configurations per concern.
type Config struct {
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Engine holds configuration for the reconciliation engine.
	Engine EngineConfig `mapstructure:"engine"`
	// Vocab holds configuration for the canonical vocabulary.
	Vocab VocabConfig `mapstructure:"vocab"`
	// Server holds configuration for the report HTTP server.
	Server ServerConfig `mapstructure:"server"`
	// Database holds configuration for the Postgres connection.
	Database DatabaseConfig `mapstructure:"database"`
	// Cache holds configuration for the binary record cache.
	Cache CacheConfig `mapstructure:"cache"`
}

// EngineConfig tunes reconciliation runs.
type EngineConfig struct {
	// Workers bounds the comparison worker pool; 0 means one per CPU.
	Workers int `mapstructure:"workers" default:"0"`
	// DriftThreshold is the drift distance above which a pair is
	// flagged, in the units of the dataset projection.
	DriftThreshold float64 `mapstructure:"drift_threshold" default:"25"`
	// Fields is the comma-separated comparable-field set used for
	// divergence detection.
	Fields string `mapstructure:"fields" default:"subaddress,zip,community,coordinates"`
}

// FieldNames splits the configured comparable-field list.
func (c EngineConfig) FieldNames() []string {
	var out []string
	for _, f := range strings.Split(c.Fields, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// VocabConfig locates the vocabulary tables.
type VocabConfig struct {
	// Path points at a YAML vocabulary file; empty means the built-in
	// tables.
	Path string `mapstructure:"path" default:""`
}

// ServerConfig configures the report server.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `mapstructure:"addr" default:":8080"`
	// ShutdownTimeout bounds graceful shutdown, in seconds.
	ShutdownTimeout int `mapstructure:"shutdown_timeout" default:"10"`
}

// DatabaseConfig configures run persistence.
type DatabaseConfig struct {
	// URL is the Postgres connection string; empty disables
	// persistence.
	URL string `mapstructure:"url" default:""`
}

// CacheConfig configures the binary record cache.
type CacheConfig struct {
	// Path is the cache file location.
	Path string `mapstructure:"path" default:"data/records.gob"`
}

// Load reads configuration from environment variables, overlaid on an
// optional .env file in the given directory.
func Load(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." || path == "" {
		envPath = ".env"
	}

	// Ignore error if the file doesn't exist (e.g. production).
	_ = godotenv.Overload(envPath)

	v := viper.New()

	bindValues(v, Config{}, "")

	// Map environment variables to nested keys
	// (ENGINE_DRIFT_THRESHOLD -> engine.drift_threshold).
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// KnownFieldNames lists the comparable-field names accepted in
// ENGINE_FIELDS, for error messages.
func KnownFieldNames() []string {
	return []string{
		address.FieldSubaddress,
		address.FieldZIP,
		address.FieldCommunity,
		address.FieldCoordinates,
		address.FieldStatus,
	}
}

// bindValues uses reflection to iterate over the struct and register
// default values in Viper from the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set the default (even if empty) to register the key
		// for AutomaticEnv.
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
