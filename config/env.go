package config

import (
	"github.com/joho/godotenv"
)

// LoadEnv loads a .env file if present. A missing file is not an error; the
// process environment is used as is.
func LoadEnv(files ...string) {
	err := godotenv.Load(files...)

	if err != nil {
		Logger.Warn("Error loading .env file, will use environment variables instead:", err)
	}
}
