package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads a .env file from the working directory if one exists
func LoadEnv() {
	_ = godotenv.Load()
}

// TokenFromEnv returns the first hosting token found in the environment for the provider
func TokenFromEnv(provider string) string {
	keys := []string{"SUBSYNC_TOKEN"}
	switch provider {
	case "gitlab":
		keys = append(keys, "GITLAB_TOKEN")
	default:
		keys = append(keys, "GITHUB_TOKEN", "GH_TOKEN")
	}
	return getEnv(keys...)
}

// UserFromEnv returns the push identity from the environment
func UserFromEnv() string {
	return getEnv("SUBSYNC_USER")
}

func getEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}
