package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/tasknest/internal/flagx"
	"github.com/dmitrijs2005/tasknest/internal/timex"
)

// JsonConfig is the on-disk shape of the optional config file. Durations
// accept both "5m" strings and integer nanoseconds.
type JsonConfig struct {
	ListenAddr      string         `json:"listen_addr"`
	DatabaseDSN     string         `json:"database_dsn"`
	SecretKey       string         `json:"secret_key"`
	SessionTokenTTL timex.Duration `json:"session_token_ttl"`
	LinkTokenTTL    timex.Duration `json:"link_token_ttl"`
	FrontendURL     string         `json:"frontend_url"`
	SMTPHost        string         `json:"smtp_host"`
	SMTPPort        int            `json:"smtp_port"`
	SMTPUsername    string         `json:"smtp_username"`
	SMTPPassword    string         `json:"smtp_password"`
	SMTPSender      string         `json:"smtp_sender"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout"`
	LogLevel        string         `json:"log_level"`
}

// parseJson overlays the file named by -c/-config onto config. Only fields
// present in the file replace existing values. A missing flag is a no-op;
// an unreadable or invalid file panics.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.ListenAddr, c.ListenAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.FrontendURL, c.FrontendURL)
	setString(&config.SMTPHost, c.SMTPHost)
	setString(&config.SMTPUsername, c.SMTPUsername)
	setString(&config.SMTPPassword, c.SMTPPassword)
	setString(&config.SMTPSender, c.SMTPSender)
	setString(&config.LogLevel, c.LogLevel)

	if c.SMTPPort != 0 {
		config.SMTPPort = c.SMTPPort
	}
	if c.SessionTokenTTL.Duration != 0 {
		config.SessionTokenTTL = c.SessionTokenTTL.Duration
	}
	if c.LinkTokenTTL.Duration != 0 {
		config.LinkTokenTTL = c.LinkTokenTTL.Duration
	}
	if c.ShutdownTimeout.Duration != 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
