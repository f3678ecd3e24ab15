package config

import (
	"os"
	"strconv"

	"github.com/propworks/compliance-service/internal/utils"
)

// Config carries everything the service reads from the environment. Only
// APP_PORT is mandatory; every integration degrades gracefully when its
// credentials are absent (no database → memory only, no OpenAI → substring
// search, no Twilio/SendGrid → escalations are logged, not sent).
type Config struct {
	AppPort string

	// Postgres snapshot persistence. Empty disables durable storage.
	DatabaseURL string

	// Natural-language query interpretation.
	OpenAIAPIKey string

	// Escalation notifications.
	TwilioAccountSID    string
	TwilioAuthToken     string
	TwilioFromPhone     string
	SendGridAPIKey      string
	SendGridFromEmail   string
	SendGridSandboxMode bool

	OrganizationName string

	// On-call contacts for compliance escalations.
	EscalationEmail string
	EscalationPhone string

	// SeedDemoData loads a small demo portfolio at boot when the durable
	// store is empty.
	SeedDemoData bool
}

func LoadConfig() *Config {
	cfg := &Config{
		AppPort:             os.Getenv("APP_PORT"),
		DatabaseURL:         os.Getenv("DB_URL"),
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		TwilioAccountSID:    os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:     os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromPhone:     os.Getenv("TWILIO_FROM_PHONE"),
		SendGridAPIKey:      os.Getenv("SENDGRID_API_KEY"),
		SendGridFromEmail:   os.Getenv("SENDGRID_FROM_EMAIL"),
		SendGridSandboxMode: boolEnv("SENDGRID_SANDBOX_MODE"),
		OrganizationName:    os.Getenv("ORGANIZATION_NAME"),
		EscalationEmail:     os.Getenv("ESCALATION_EMAIL"),
		EscalationPhone:     os.Getenv("ESCALATION_PHONE"),
		SeedDemoData:        boolEnv("SEED_DEMO_DATA"),
	}

	if cfg.AppPort == "" {
		utils.Logger.Fatal("APP_PORT is required")
	}
	if cfg.OrganizationName == "" {
		cfg.OrganizationName = "PropWorks"
	}
	return cfg
}

func boolEnv(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
