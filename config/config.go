package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

type Config struct {
	TgToken string
	DbDsn   string
	DataDir string

	// Keyword extraction settings; an empty key makes proposals fall back to
	// the default dimension set.
	KeywordService  string
	KeywordAPIKey   string
	IndustryContext string
}

var (
	config *Config
	once   sync.Once
)

// GetConfig returns the singleton process configuration.
func GetConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Println("no .env file, reading configuration from environment")
		}

		config = &Config{
			TgToken:         os.Getenv("TG_TOKEN"),
			DbDsn:           os.Getenv("DB_DSN"),
			DataDir:         os.Getenv("DATA_DIR"),
			KeywordService:  os.Getenv("KEYWORD_SERVICE"),
			KeywordAPIKey:   os.Getenv("KEYWORD_API_KEY"),
			IndustryContext: os.Getenv("INDUSTRY_CONTEXT"),
		}
		if config.DataDir == "" {
			config.DataDir = "upload"
		}
		if config.KeywordService == "" {
			config.KeywordService = "openai"
		}
	})
	return config
}
