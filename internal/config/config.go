// Package config loads the configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/text/currency"
)

// Configuration keys. Each key is read from the environment variable of
// the same name.
const (
	KeyAPIURL           = "API_URL"
	KeyListen           = "LISTEN"
	KeyCORSAllowOrigins = "CORS_ALLOW_ORIGINS"
	KeyEnablePprof      = "ENABLE_PPROF"
	KeyLogFormat        = "LOG_FORMAT"
	KeyLogLevel         = "LOG_LEVEL"
	KeyGinMode          = "GIN_MODE"
	KeyDatabaseURL      = "DATABASE_URL"
	KeyJWTSecret        = "JWT_SECRET"
	KeySessionTTL       = "SESSION_TTL"
	KeyAMQPURL          = "AMQP_URL"
	KeyAMQPExchange     = "AMQP_EXCHANGE"
	KeyTimezone         = "TIMEZONE"
	KeyCurrency         = "CURRENCY"
)

const minSecretLength = 16

// Config is the configuration of the backend.
type Config struct {
	APIURL           string
	Listen           string
	CORSAllowOrigins []string
	EnablePprof      bool
	LogFormat        string
	LogLevel         string
	GinMode          string
	DatabaseURL      string
	JWTSecret        string
	SessionTTL       time.Duration
	AMQPURL          string
	AMQPExchange     string
	Timezone         string
	Currency         string

	// Location is the loaded Timezone, set by Validate
	Location *time.Location
}

// New returns a viper instance with all defaults set and the environment
// bound.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyListen, ":8080")
	v.SetDefault(KeyGinMode, "release")
	v.SetDefault(KeyLogLevel, "")
	v.SetDefault(KeyDatabaseURL, "data/budgetbook.db")
	v.SetDefault(KeySessionTTL, time.Hour)
	v.SetDefault(KeyAMQPExchange, "budgetbook")
	v.SetDefault(KeyTimezone, "UTC")
	v.SetDefault(KeyCurrency, "EUR")
	v.AutomaticEnv()

	return v
}

// LoadEnvFiles loads environment variables from the files. Missing files
// are skipped, variables that are already set are not overwritten.
func LoadEnvFiles(files ...string) error {
	for _, f := range files {
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads the configuration from v.
func Load(v *viper.Viper) Config {
	return Config{
		APIURL:           strings.TrimSuffix(v.GetString(KeyAPIURL), "/"),
		Listen:           v.GetString(KeyListen),
		CORSAllowOrigins: strings.Fields(v.GetString(KeyCORSAllowOrigins)),
		EnablePprof:      v.GetBool(KeyEnablePprof),
		LogFormat:        v.GetString(KeyLogFormat),
		LogLevel:         v.GetString(KeyLogLevel),
		GinMode:          v.GetString(KeyGinMode),
		DatabaseURL:      v.GetString(KeyDatabaseURL),
		JWTSecret:        v.GetString(KeyJWTSecret),
		SessionTTL:       v.GetDuration(KeySessionTTL),
		AMQPURL:          v.GetString(KeyAMQPURL),
		AMQPExchange:     v.GetString(KeyAMQPExchange),
		Timezone:         v.GetString(KeyTimezone),
		Currency:         strings.ToUpper(v.GetString(KeyCurrency)),
	}
}

// Validate checks the configuration and reports all problems at once.
func (c *Config) Validate() error {
	var problems []string

	if c.APIURL == "" {
		problems = append(problems, KeyAPIURL+" must be set")
	} else if u, err := url.Parse(c.APIURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		problems = append(problems, fmt.Sprintf("%s %q must be an absolute http or https URL", KeyAPIURL, c.APIURL))
	}

	if c.DatabaseURL == "" {
		problems = append(problems, KeyDatabaseURL+" must not be empty")
	}

	if len(c.JWTSecret) < minSecretLength {
		problems = append(problems, fmt.Sprintf("%s must be at least %d characters", KeyJWTSecret, minSecretLength))
	}

	if c.SessionTTL <= 0 {
		problems = append(problems, KeySessionTTL+" must be a positive duration")
	}

	switch c.LogFormat {
	case "", "human", "json":
	default:
		problems = append(problems, fmt.Sprintf("%s %q must be one of human, json", KeyLogFormat, c.LogFormat))
	}

	if c.AMQPURL != "" {
		if u, err := url.Parse(c.AMQPURL); err != nil || (u.Scheme != "amqp" && u.Scheme != "amqps") {
			problems = append(problems, KeyAMQPURL+" must be an amqp or amqps URL")
		}

		if c.AMQPExchange == "" {
			problems = append(problems, KeyAMQPExchange+" must not be empty when "+KeyAMQPURL+" is set")
		}
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		problems = append(problems, fmt.Sprintf("%s %q is not a known time zone", KeyTimezone, c.Timezone))
	} else {
		c.Location = loc
	}

	if _, err := currency.ParseISO(c.Currency); err != nil {
		problems = append(problems, fmt.Sprintf("%s %q is not an ISO 4217 currency code", KeyCurrency, c.Currency))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}

	return nil
}
