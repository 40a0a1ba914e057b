package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays Config values from environment variables. Unset or
// malformed variables leave the current value in place.
//
// Recognized variables:
//
//	HTTP_ADDRESS    bind address
//	DB_URL          PostgreSQL DSN
//	JWT_SECRET      session signing secret
//	JWT_MAXAGE      session token validity, minutes
//	VERIFY_MAXAGE   verify token validity, hours
//	SWEEP_INTERVAL  sweep interval, seconds
//	SERVICE_URL     public base URL for verification links
//	SMTP_HOST, SMTP_PORT, SMTP_USERNAME, SMTP_PASSWORD, MAIL_FROM
//	AUTO_MIGRATE    "1"/"true" to run migrations at startup
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv("HTTP_ADDRESS"); ok {
		config.EndpointAddrHTTP = v
	}
	if v, ok := os.LookupEnv("DB_URL"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("JWT_SECRET"); ok {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv("JWT_MAXAGE"); ok {
		if minutes, err := strconv.Atoi(v); err == nil {
			config.SessionTokenValidityDuration = time.Duration(minutes) * time.Minute
		}
	}
	if v, ok := os.LookupEnv("VERIFY_MAXAGE"); ok {
		if hours, err := strconv.Atoi(v); err == nil {
			config.VerifyTokenValidityDuration = time.Duration(hours) * time.Hour
		}
	}
	if v, ok := os.LookupEnv("SWEEP_INTERVAL"); ok {
		if seconds, err := strconv.Atoi(v); err == nil {
			config.SweepInterval = time.Duration(seconds) * time.Second
		}
	}
	if v, ok := os.LookupEnv("SERVICE_URL"); ok {
		config.ServiceURL = v
	}
	if v, ok := os.LookupEnv("SMTP_HOST"); ok {
		config.SMTPHost = v
	}
	if v, ok := os.LookupEnv("SMTP_PORT"); ok {
		if port, err := strconv.Atoi(v); err == nil {
			config.SMTPPort = port
		}
	}
	if v, ok := os.LookupEnv("SMTP_USERNAME"); ok {
		config.SMTPUsername = v
	}
	if v, ok := os.LookupEnv("SMTP_PASSWORD"); ok {
		config.SMTPPassword = v
	}
	if v, ok := os.LookupEnv("MAIL_FROM"); ok {
		config.MailFrom = v
	}
	if v, ok := os.LookupEnv("AUTO_MIGRATE"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			config.AutoMigrate = b
		}
	}
}
