// api/config/config.go
package config

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Configuration stores all the configurations
type Configuration struct {
	Server        ServerConfiguration
	Neo4j         DatabaseConfiguration
	Redis         RedisConfiguration
	Elasticsearch ElasticsearchConfiguration
	Auth          AuthConfiguration
}

// ServerConfiguration stores the port and other web server settings
type ServerConfiguration struct {
	Port string
	Env  string
}

// DatabaseConfiguration stores data for database connection
type DatabaseConfiguration struct {
	URI string
}

// RedisConfiguration stores data for Redis connection
type RedisConfiguration struct {
	Addr            string
	DefaultCacheTTL string
}

// ElasticsearchConfiguration stores data for Elasticsearch connection
type ElasticsearchConfiguration struct {
	URL string
}

// AuthConfiguration stores token signing settings
type AuthConfiguration struct {
	JWTSecret       string
	AccessTokenTTL  string
	RefreshTokenTTL string
}

var config *Configuration

func InitConfig() error {
	viper.AddConfigPath("config") // path to look for the config file in
	viper.SetConfigName("config") // name of the config file (without extension)
	viper.SetConfigType("yaml")   // REQUIRED if the config file does not have the extension in the name

	viper.AutomaticEnv() // read in environment variables that match

	// Set default configurations
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.env", "development")
	viper.SetDefault("neo4j.uri", "bolt://localhost:7687")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("elasticsearch.url", "http://localhost:9200")
	viper.SetDefault("redis.defaultCacheTTL", "10m")
	viper.SetDefault("log.file", "logging/api.log")
	viper.SetDefault("auth.accessTokenTTL", "30m")
	viper.SetDefault("auth.refreshTokenTTL", "168h")
	viper.SetDefault("ratelimit.defaultLimit", 100)
	viper.SetDefault("ratelimit.defaultWindow", "1m")
	viper.SetDefault("quota.upgradeURL", "/billing/plans")
	viper.SetDefault("billing.plans.free", 10)
	viper.SetDefault("billing.plans.creator", 100)
	viper.SetDefault("billing.plans.studio", 1000)

	// Attempt to read the config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No config file found. Using default settings and environment variables.")
		} else {
			return err
		}
	}

	// Unmarshal the configuration into the Configuration struct
	err := viper.Unmarshal(&config)
	if err != nil {
		return err
	}

	return Validate()
}

// Validate checks the settings the service cannot run without. A missing
// signing secret or store address is fatal at startup, never per-request.
func Validate() error {
	if viper.GetString("auth.jwtSecret") == "" {
		return fmt.Errorf("auth.jwtSecret is not configured")
	}
	if viper.GetString("redis.addr") == "" {
		return fmt.Errorf("redis.addr is not configured")
	}
	return nil
}

// GetConfig returns the loaded configuration
func GetConfig() *Configuration {
	return config
}

// GetString retrieves a string value from the configuration
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt retrieves an integer value from the configuration
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool retrieves a boolean value from the configuration
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration retrieves a duration value from the configuration
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// IsProduction reports whether the service runs in its strict mode.
// HSTS and the CORS allow-list are only applied when this is true.
func IsProduction() bool {
	return viper.GetString("server.env") == "production"
}
