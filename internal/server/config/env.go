package config

import (
	"strconv"
	"strings"
)

// Environment variable names understood by parseEnv.
const (
	envServerPort    = "SERVER_PORT"
	envDatabaseURL   = "DATABASE_URL"
	envJWTSecret     = "JWT_SECRET"
	envFrontendURL   = "FRONTEND_URL"
	envEmailHost     = "EMAIL_HOST"
	envEmailPort     = "EMAIL_PORT"
	envEmailUser     = "EMAIL_USER"
	envEmailPassword = "EMAIL_PASSWORD"
	envEmailSender   = "EMAIL_SENDER"
	envLogLevel      = "LOG_LEVEL"
)

// parseEnv overlays non-empty environment variables onto config.
// SERVER_PORT is a bare port number; EMAIL_SENDER falls back to EMAIL_USER.
// Unparsable EMAIL_PORT values are ignored.
func parseEnv(config *Config, lookupEnv func(string) (string, bool)) {
	get := func(key string) string {
		v, ok := lookupEnv(key)
		if !ok {
			return ""
		}
		return strings.TrimSpace(v)
	}

	if port := get(envServerPort); port != "" {
		config.ListenAddr = ":" + strings.TrimPrefix(port, ":")
	}
	setString(&config.DatabaseDSN, get(envDatabaseURL))
	setString(&config.SecretKey, get(envJWTSecret))
	setString(&config.FrontendURL, get(envFrontendURL))
	setString(&config.SMTPHost, get(envEmailHost))
	setString(&config.SMTPUsername, get(envEmailUser))
	setString(&config.SMTPPassword, get(envEmailPassword))
	setString(&config.LogLevel, get(envLogLevel))

	if p, err := strconv.Atoi(get(envEmailPort)); err == nil && p > 0 {
		config.SMTPPort = p
	}

	if sender := get(envEmailSender); sender != "" {
		config.SMTPSender = sender
	} else if config.SMTPSender == "" {
		config.SMTPSender = config.SMTPUsername
	}
}
