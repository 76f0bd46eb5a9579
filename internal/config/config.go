package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	return NewFromFile("")
}

// NewFromFile creates a configuration instance from an explicit file,
// or from the standard search path when path is empty
func NewFromFile(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/sms-classifier/")
		v.AddConfigPath("$HOME/.sms-classifier")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.SetEnvPrefix("SMS_CLASSIFIER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Dataset defaults
	v.SetDefault("data.raw_path", "smsspamcollection/SMSSpamCollection")
	v.SetDefault("data.processed_path", "output/processed_msgs.csv")

	// Artifact defaults
	v.SetDefault("output.tfidf_matrix", "output/tfidf_vector.gob")
	v.SetDefault("output.model", "output/model.bundle")
	v.SetDefault("output.misclassified_log", "output/misclassified_msgs.txt")

	// Training defaults
	v.SetDefault("train.test_size", 0.3)
	v.SetDefault("train.seed", 101)
	v.SetDefault("train.classifiers", []string{"svm", "decision_tree"})
	v.SetDefault("train.persist", "decision_tree")

	// Classifier defaults
	v.SetDefault("svm.c", 1.0)
	v.SetDefault("svm.tolerance", 1e-3)
	v.SetDefault("svm.max_iter", 0)
	v.SetDefault("svm.cache_rows", 1024)
	v.SetDefault("tree.max_depth", 0)
	v.SetDefault("bayes.alpha", 1.0)

	// Text defaults
	v.SetDefault("text.stoplist_path", "")
	v.SetDefault("text.max_message_size", 4096)

	// Server defaults
	v.SetDefault("server.listen_address", "localhost:8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.shutdown_timeout", "5s")
	v.SetDefault("server.docs_enabled", true)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.cleanup_frequency", "1h")
	v.SetDefault("cache.sqlite_path", "output/prediction_cache.db")
	v.SetDefault("cache.mysql_dsn", "user:password@tcp(localhost:3306)/sms_classifier")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetUint64 gets an unsigned integer value from the configuration
func (c *Config) GetUint64(key string) uint64 {
	return c.v.GetUint64(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// Set overrides a configuration value
func (c *Config) Set(key string, value any) {
	c.v.Set(key, value)
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
