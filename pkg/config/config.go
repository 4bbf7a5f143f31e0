// Package config provides configuration management for the bot.
// It loads environment variables and makes them available throughout the application.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

// Storage drivers accepted by storageDriver.
const (
	StorageJSON   = "json"
	StorageMongo  = "mongo"
	StorageSQLite = "sqlite"
)

// Config holds all configuration values for the bot
type Config struct {
	// Discord
	BotToken   string
	DevGuildID string
	Prefix     string

	// Storage
	StorageDriver string
	DataDir       string
	SQLitePath    string

	// MongoDB
	MongoDBURL string
	DBName     string

	// MQTT
	MQTTHost     string
	MQTTPort     string
	MQTTUser     string
	MQTTPassword string

	// Web Server
	Port            string
	RestartCommand  string
	WebAllowedHosts string

	// Environment
	Environment string

	// Webhooks
	ErrorWebhook      string
	LogsWebhook       string
	LogsWebServerHook string

	// Lavalink
	LinkServer   string
	LinkPort     int
	LinkPassword string

	// OpenAI
	OpenAIKey   string
	OpenAIModel string

	// TikTok
	TikTokAPIURL   string
	TikTokInterval int
	TikTokDelay    int

	// Channels
	LevelUpChannelID       string
	DailyQuestionChannelID string
	WelcomeChannelID       string
}

var (
	Version   = "Dev-Local"
	BuildTime = "local"
)

var (
	cfg     *Config
	cfgOnce sync.Once
)

// resetForTesting resets the configuration for testing purposes.
// This function should only be called from test code.
func resetForTesting() {
	cfg = nil
	cfgOnce = sync.Once{}
}

func loadConfig() {
	_ = godotenv.Load()

	cfg = &Config{
		BotToken:   getEnv("botToken", ""),
		DevGuildID: getEnv("devGuildId", ""),
		Prefix:     getEnv("prefix", "!"),

		StorageDriver: getEnv("storageDriver", StorageJSON),
		DataDir:       getEnv("dataDir", "data"),
		SQLitePath:    getEnv("sqlitePath", "data/chii.db"),

		MongoDBURL: getEnv("mongodbUrl", "mongodb://localhost:27017"),
		DBName:     getEnv("dbName", "ChiiBot"),

		MQTTHost:     getEnv("MQTT_Host", "localhost"),
		MQTTPort:     getEnv("MQTT_Port", "1883"),
		MQTTUser:     getEnv("MQTT_User", ""),
		MQTTPassword: getEnv("MQTT_Password", ""),

		Port:            getEnv("PORT", "8080"),
		RestartCommand:  getEnv("restartCommand", ""),
		WebAllowedHosts: getEnv("webAllowedHosts", ""),

		Environment: getEnv("enviroment", "dev"),

		ErrorWebhook:      getEnv("errorWebhook", ""),
		LogsWebhook:       getEnv("logsWebhook", ""),
		LogsWebServerHook: getEnv("logsWebServerWebhook", ""),

		LinkServer:   getEnv("linkserver", "localhost"),
		LinkPort:     getEnvInt("linkport", 2333),
		LinkPassword: getEnv("linkpassword", ""),

		OpenAIKey:   getEnv("openaiKey", ""),
		OpenAIModel: getEnv("openaiModel", "gpt-4o-mini"),

		TikTokAPIURL:   getEnv("tiktokApiUrl", ""),
		TikTokInterval: getEnvInt("tiktokInterval", 300),
		TikTokDelay:    getEnvInt("tiktokDelay", 2),

		LevelUpChannelID:       getEnv("levelUpChannelId", ""),
		DailyQuestionChannelID: getEnv("dailyQuestionChannelId", ""),
		WelcomeChannelID:       getEnv("welcomeChannelId", ""),
	}
}

// Load initializes the configuration from environment variables
func Load() (*Config, error) {
	cfgOnce.Do(loadConfig)
	return cfg, nil
}

// Get returns the current configuration
func Get() *Config {
	cfgOnce.Do(loadConfig)
	return cfg
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt parses an integer variable, falling back to the default when unset or invalid.
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// IsProd returns true if the environment is production
func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}

// Validate reports settings the bot cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.BotToken == "" {
		errs = append(errs, errors.New("botToken is required"))
	}
	switch c.StorageDriver {
	case StorageJSON, StorageMongo, StorageSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown storageDriver %q", c.StorageDriver))
	}
	if c.TikTokInterval < 60 {
		errs = append(errs, fmt.Errorf("tiktokInterval must be at least 60 seconds, got %d", c.TikTokInterval))
	}
	return errors.Join(errs...)
}
