package config

import (
	"fmt"
	"log"
	"net/url"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBUser        string
	DBPass        string
	DBHost        string
	DBName        string
	MongoURI      string
	TokenSecret   string
	Port          string
	AllowedOrigin string
	ReleaseMode   bool
}

// Load reads the environment, seeding it from a .env file when one exists.
// Nothing is required: missing credentials or secret show up later as store
// or signing failures.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: reading .env: %v", err)
	}

	return Config{
		DBUser:        os.Getenv("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"),
		DBHost:        envString("DB_HOST", "cluster0.082e3cj.mongodb.net"),
		DBName:        envString("DB_NAME", "blogDB"),
		MongoURI:      os.Getenv("MONGODB_URI"),
		TokenSecret:   os.Getenv("ACCESS_TOKEN_SECRET"),
		Port:          envString("PORT", "5020"),
		AllowedOrigin: envString("CLIENT_ORIGIN", "http://localhost:5173"),
		ReleaseMode:   os.Getenv("GIN_MODE") == "release",
	}
}

// ConnectionString is MongoURI when set, otherwise the Atlas SRV string built
// from the credentials and host.
func (c Config) ConnectionString() string {
	if c.MongoURI != "" {
		return c.MongoURI
	}
	return fmt.Sprintf("mongodb+srv://%s@%s/?retryWrites=true&w=majority",
		url.UserPassword(c.DBUser, c.DBPass).String(), c.DBHost)
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
