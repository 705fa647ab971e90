package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadSQLiteFromEnv(t *testing.T) {
	t.Setenv("GUTCHECK_STORAGE_DRIVER", "sqlite")
	t.Setenv("GUTCHECK_STORAGE_SQLITE_PATH", ":memory:")
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.gutcheck.dev, http://localhost:5173")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Storage.Driver != DriverSQLite {
		t.Errorf("driver = %q, want sqlite", cfg.Storage.Driver)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("port = %q, want 9090", cfg.Server.Port)
	}
	if cfg.Trends.DefaultDays != 30 {
		t.Errorf("default days = %d, want 30", cfg.Trends.DefaultDays)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "http://localhost:5173" {
		t.Errorf("allowed origins = %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	env := "GUTCHECK_STORAGE_DRIVER=sqlite\nGUTCHECK_STORAGE_SQLITE_PATH=from-dotenv.db\nGUTCHECK_TRENDS_DEFAULT_DAYS=14\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600); err != nil {
		t.Fatal(err)
	}
	// Real environment takes precedence over the file
	t.Setenv("GUTCHECK_TRENDS_DEFAULT_DAYS", "21")
	t.Cleanup(func() {
		os.Unsetenv("GUTCHECK_STORAGE_DRIVER")
		os.Unsetenv("GUTCHECK_STORAGE_SQLITE_PATH")
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.SQLitePath != "from-dotenv.db" {
		t.Errorf("sqlite path = %q, want from-dotenv.db", cfg.Storage.SQLitePath)
	}
	if cfg.Trends.DefaultDays != 21 {
		t.Errorf("default days = %d, want 21", cfg.Trends.DefaultDays)
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Storage: StorageConfig{Driver: DriverSQLite, SQLitePath: "x.db", Table: "health_events"},
			Trends:  TrendsConfig{DefaultDays: 30, MaxDays: 365},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid sqlite", mutate: func(c *Config) {}},
		{
			name:    "supabase without url",
			mutate:  func(c *Config) { c.Storage.Driver = DriverSupabase },
			wantErr: "SUPABASE_URL",
		},
		{
			name:    "postgres without dsn",
			mutate:  func(c *Config) { c.Storage.Driver = DriverPostgres },
			wantErr: "DATABASE_URL",
		},
		{
			name:    "mongo without uri",
			mutate:  func(c *Config) { c.Storage.Driver = DriverMongo },
			wantErr: "MONGO_URI",
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Storage.Driver = "csv" },
			wantErr: "unknown storage driver",
		},
		{
			name:    "table name injection",
			mutate:  func(c *Config) { c.Storage.Table = "events; DROP TABLE x" },
			wantErr: "not a valid table name",
		},
		{
			name:    "auth without credentials",
			mutate:  func(c *Config) { c.Auth.Enabled = true },
			wantErr: "auth requires",
		},
		{
			name: "auth with jwt secret",
			mutate: func(c *Config) {
				c.Auth.Enabled = true
				c.Supabase.JWTSecret = "secret"
			},
		},
		{
			name:    "max below default",
			mutate:  func(c *Config) { c.Trends.MaxDays = 7 },
			wantErr: "max_days",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
