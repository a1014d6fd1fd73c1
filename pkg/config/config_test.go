package config

import (
	"os"
	"testing"
)

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "domus_app",
		Password: "devpassword",
		Database: "domus",
		SSLMode:  "disable",
	}

	want := "host=localhost port=5432 user=domus_app password=devpassword dbname=domus sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %v, want %v", got, want)
	}
}

func TestDatabaseConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      DatabaseConfig
		environment string
		wantErr     bool
	}{
		{
			name:        "development allows localhost defaults",
			config:      DatabaseConfig{Host: "localhost"},
			environment: EnvDevelopment,
			wantErr:     false,
		},
		{
			name:        "production rejects localhost",
			config:      DatabaseConfig{Host: "localhost"},
			environment: EnvProduction,
			wantErr:     true,
		},
		{
			name:        "production accepts explicit host",
			config:      DatabaseConfig{Host: "db.internal"},
			environment: EnvProduction,
			wantErr:     false,
		},
		{
			name:        "staging rejects empty host",
			config:      DatabaseConfig{},
			environment: EnvStaging,
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate(tt.environment)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	os.Setenv("DOMUS_SERVER_PORT", "9090")
	os.Setenv("DOMUS_DATABASE_DATABASE", "domus_test")
	defer os.Unsetenv("DOMUS_SERVER_PORT")
	defer os.Unsetenv("DOMUS_DATABASE_DATABASE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Database != "domus_test" {
		t.Errorf("Database.Database = %s, want domus_test", cfg.Database.Database)
	}
}

func TestLoadWithValidation_DevDefaults(t *testing.T) {
	cfg, err := LoadWithValidation()
	if err != nil {
		t.Fatalf("LoadWithValidation() error = %v", err)
	}

	if cfg.Server.Environment != EnvDevelopment {
		t.Errorf("Environment = %s, want development", cfg.Server.Environment)
	}
	if cfg.JWT.Issuer != "spitex-domus" {
		t.Errorf("JWT.Issuer = %s, want spitex-domus", cfg.JWT.Issuer)
	}
}
