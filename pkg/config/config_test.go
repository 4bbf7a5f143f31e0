package config

import (
	"os"
	"strings"
	"testing"
)

var configKeys = []string{
	"botToken", "devGuildId", "prefix", "storageDriver", "dataDir", "sqlitePath",
	"mongodbUrl", "dbName", "MQTT_Host", "MQTT_Port", "PORT", "enviroment",
	"linkport", "openaiModel", "tiktokInterval", "tiktokDelay",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		if value, ok := os.LookupEnv(key); ok {
			os.Unsetenv(key)
			t.Cleanup(func() { os.Setenv(key, value) })
		}
	}
}

func TestLoad(t *testing.T) {
	clearEnv(t)
	t.Setenv("botToken", "test-token")
	t.Setenv("PORT", "3001")
	t.Setenv("enviroment", "test")
	t.Setenv("prefix", "?")
	t.Setenv("storageDriver", "sqlite")

	resetForTesting()

	config, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if config.BotToken != "test-token" {
		t.Errorf("BotToken = %v, want %v", config.BotToken, "test-token")
	}
	if config.Port != "3001" {
		t.Errorf("Port = %v, want %v", config.Port, "3001")
	}
	if config.Environment != "test" {
		t.Errorf("Environment = %v, want %v", config.Environment, "test")
	}
	if config.Prefix != "?" {
		t.Errorf("Prefix = %v, want %v", config.Prefix, "?")
	}
	if config.StorageDriver != StorageSQLite {
		t.Errorf("StorageDriver = %v, want %v", config.StorageDriver, StorageSQLite)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_VAR", "test-value")

	if got := getEnv("TEST_VAR", "default"); got != "test-value" {
		t.Errorf("getEnv() = %v, want %v", got, "test-value")
	}
	if got := getEnv("NON_EXISTENT_VAR", "default"); got != "default" {
		t.Errorf("getEnv() = %v, want %v", got, "default")
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"unset", "", 300},
		{"valid", "120", 120},
		{"invalid", "cinq", 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_INT", tt.value)
			if got := getEnvInt("TEST_INT", 300); got != tt.want {
				t.Errorf("getEnvInt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsProd(t *testing.T) {
	clearEnv(t)
	resetForTesting()
	t.Setenv("enviroment", "prod")
	config, _ := Load()

	if !config.IsProd() {
		t.Error("IsProd() should return true when environment is 'prod'")
	}

	resetForTesting()
	t.Setenv("enviroment", "dev")
	config, _ = Load()

	if config.IsProd() {
		t.Error("IsProd() should return false when environment is not 'prod'")
	}
}

func TestGet(t *testing.T) {
	resetForTesting()

	config := Get()
	if config == nil {
		t.Fatal("Get() returned nil")
	}

	if config2 := Get(); config != config2 {
		t.Error("Get() should return the same config on subsequent calls")
	}
}

func TestDefaultValues(t *testing.T) {
	clearEnv(t)
	resetForTesting()
	config, _ := Load()

	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"MongoDBURL", config.MongoDBURL, "mongodb://localhost:27017"},
		{"DBName", config.DBName, "ChiiBot"},
		{"MQTTHost", config.MQTTHost, "localhost"},
		{"MQTTPort", config.MQTTPort, "1883"},
		{"Port", config.Port, "8080"},
		{"Environment", config.Environment, "dev"},
		{"Prefix", config.Prefix, "!"},
		{"StorageDriver", config.StorageDriver, StorageJSON},
		{"DataDir", config.DataDir, "data"},
		{"LinkPort", config.LinkPort, 2333},
		{"OpenAIModel", config.OpenAIModel, "gpt-4o-mini"},
		{"TikTokInterval", config.TikTokInterval, 300},
		{"TikTokDelay", config.TikTokDelay, 2},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s default = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"ok", Config{BotToken: "x", StorageDriver: StorageJSON, TikTokInterval: 300}, ""},
		{"missing token", Config{StorageDriver: StorageMongo, TikTokInterval: 300}, "botToken"},
		{"bad driver", Config{BotToken: "x", StorageDriver: "redis", TikTokInterval: 300}, "storageDriver"},
		{"short interval", Config{BotToken: "x", StorageDriver: StorageSQLite, TikTokInterval: 10}, "tiktokInterval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}
