package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("VEIL_DB_NAME", "userdata")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Connection != "mysql" {
		t.Errorf("connection = %s, want mysql", cfg.Database.Connection)
	}
	if cfg.Database.User != "root" {
		t.Errorf("user = %s, want root", cfg.Database.User)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("host = %s, want localhost", cfg.Database.Host)
	}
	if cfg.Database.Name != "userdata" {
		t.Errorf("name = %s, want userdata", cfg.Database.Name)
	}
	if cfg.Dump.Table != "users" {
		t.Errorf("table = %s, want users", cfg.Dump.Table)
	}
	if !cfg.Logging.RedactSensitive {
		t.Error("redact_sensitive should default to true")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("level = %s, want info", cfg.Logging.Level)
	}
}

func TestLoadMissingDatabaseName(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Error("expected validation error without database name")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("VEIL_DB_CONNECTION", "postgres")
	t.Setenv("VEIL_DB_HOST", "db.internal")
	t.Setenv("VEIL_DB_USERNAME", "auditor")
	t.Setenv("VEIL_DB_PASSWORD", "s3cret")
	t.Setenv("VEIL_DB_NAME", "prod")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Connection != "postgres" {
		t.Errorf("connection = %s, want postgres", cfg.Database.Connection)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("host = %s, want db.internal", cfg.Database.Host)
	}
	if cfg.Database.User != "auditor" {
		t.Errorf("user = %s, want auditor", cfg.Database.User)
	}
	if cfg.Database.Password != "s3cret" {
		t.Errorf("password = %s, want s3cret", cfg.Database.Password)
	}
	if cfg.Database.Name != "prod" {
		t.Errorf("name = %s, want prod", cfg.Database.Name)
	}
}

func TestLoadConfigFile(t *testing.T) {
	content := `
database:
  connection: sqlite
  name: /tmp/users.db
logging:
  path: /tmp/veil-logs
  level: debug
  redact_sensitive: true
  additional_sensitive_fields:
    - api_key
dump:
  table: customers
`
	path := filepath.Join(t.TempDir(), "veil.conf")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Connection != "sqlite" {
		t.Errorf("connection = %s, want sqlite", cfg.Database.Connection)
	}
	if cfg.Database.Name != "/tmp/users.db" {
		t.Errorf("name = %s, want /tmp/users.db", cfg.Database.Name)
	}
	if cfg.Logging.Path != "/tmp/veil-logs" {
		t.Errorf("path = %s, want /tmp/veil-logs", cfg.Logging.Path)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %s, want debug", cfg.Logging.Level)
	}
	if len(cfg.Logging.AdditionalSensitiveFields) != 1 || cfg.Logging.AdditionalSensitiveFields[0] != "api_key" {
		t.Errorf("additional fields = %v, want [api_key]", cfg.Logging.AdditionalSensitiveFields)
	}
	if cfg.Dump.Table != "customers" {
		t.Errorf("table = %s, want customers", cfg.Dump.Table)
	}
}

func TestLoadExplicitFileMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.conf")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "Unsupported connection type",
			content: `
database:
  connection: oracle
  name: prod
`,
		},
		{
			name: "Invalid log level",
			content: `
database:
  name: prod
logging:
  level: loud
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "veil.conf")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConnectionString(t *testing.T) {
	tests := []struct {
		name string
		db   DatabaseConfig
		want string
	}{
		{
			name: "MySQL with credentials",
			db:   DatabaseConfig{Connection: "mysql", Host: "localhost", User: "root", Password: "pw", Name: "prod"},
			want: "root:pw@tcp(localhost:3306)/prod",
		},
		{
			name: "MySQL without password",
			db:   DatabaseConfig{Connection: "mysql", Host: "localhost", User: "root", Name: "prod"},
			want: "root@tcp(localhost:3306)/prod",
		},
		{
			name: "MySQL custom port",
			db:   DatabaseConfig{Connection: "mysql", Host: "db", Port: 3307, User: "u", Password: "p", Name: "d"},
			want: "u:p@tcp(db:3307)/d",
		},
		{
			name: "Postgres with credentials",
			db:   DatabaseConfig{Connection: "postgres", Host: "db", User: "u", Password: "p", Name: "d"},
			want: "postgres://u:p@db/d?sslmode=disable",
		},
		{
			name: "Postgres without credentials",
			db:   DatabaseConfig{Connection: "postgres", Host: "db", Port: 5433, Name: "d"},
			want: "postgres://db:5433/d?sslmode=disable",
		},
		{
			name: "SQLite",
			db:   DatabaseConfig{Connection: "sqlite", Name: "/opt/veil/users.db"},
			want: "sqlite:///opt/veil/users.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConnectionString(tt.db); got != tt.want {
				t.Errorf("ConnectionString() = %q, want %q", got, tt.want)
			}
		})
	}
}
