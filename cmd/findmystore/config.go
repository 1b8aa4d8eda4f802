package main

import (
	"os"
	"path/filepath"

	"github.com/fwojciec/findmystore/gemini"
)

// DefaultMailFrom is the sender of alert emails.
const DefaultMailFrom = "FindMyStore <alerts@findmystore.local>"

// Config holds settings read from the environment.
type Config struct {
	GeminiAPIKey string
	MapsAPIKey   string
	ResendAPIKey string
	MailFrom     string
	DBPath       string
	DataDir      string
	Model        string
	EmbedModel   string
}

// LoadConfig reads the configuration using getenv. Paths default to
// ~/.findmystore.
func LoadConfig(getenv func(string) string) Config {
	cfg := Config{
		GeminiAPIKey: getenv("GEMINI_API_KEY"),
		MapsAPIKey:   getenv("MAPS_API_KEY"),
		ResendAPIKey: getenv("RESEND_API_KEY"),
		MailFrom:     getenv("FINDMYSTORE_MAIL_FROM"),
		DBPath:       getenv("FINDMYSTORE_DB"),
		DataDir:      getenv("FINDMYSTORE_DATA"),
		Model:        getenv("FINDMYSTORE_MODEL"),
		EmbedModel:   getenv("FINDMYSTORE_EMBED_MODEL"),
	}
	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = getenv("GOOGLE_API_KEY")
	}
	if cfg.MailFrom == "" {
		cfg.MailFrom = DefaultMailFrom
	}
	if cfg.Model == "" {
		cfg.Model = gemini.DefaultModel
	}
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = gemini.DefaultEmbedModel
	}
	if cfg.DBPath == "" || cfg.DataDir == "" {
		base := ".findmystore"
		if home, err := os.UserHomeDir(); err == nil {
			base = filepath.Join(home, ".findmystore")
		}
		if cfg.DBPath == "" {
			cfg.DBPath = filepath.Join(base, "findmystore.db")
		}
		if cfg.DataDir == "" {
			cfg.DataDir = filepath.Join(base, "uploads")
		}
	}
	return cfg
}
