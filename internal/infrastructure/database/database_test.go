package database

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/panscience/chat-server/internal/config"
)

func TestConnectRejectsEmptyDSN(t *testing.T) {
	cfg := &config.Config{DatabaseURL: "   "}
	if _, err := Connect(cfg, zerolog.Nop()); err == nil {
		t.Fatal("Connect() expected error for empty DSN")
	}
}

func TestCreateDatabaseIfMissingSkipsAdminTargets(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
	}{
		{name: "admin database", dsn: "postgres://u:p@localhost:5432/postgres?sslmode=disable"},
		{name: "no database in path", dsn: "postgres://u:p@localhost:5432"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := createDatabaseIfMissing(tt.dsn, zerolog.Nop()); err != nil {
				t.Errorf("createDatabaseIfMissing(%q) error = %v, want nil", tt.dsn, err)
			}
		})
	}
}

func TestGormLogWriterRoutesThroughServiceLogger(t *testing.T) {
	var buf bytes.Buffer
	w := gormLogWriter{log: zerolog.New(&buf)}

	w.Printf("slow query %s", "SELECT 1")

	out := buf.String()
	if !strings.Contains(out, "slow query SELECT 1") {
		t.Errorf("log output = %q, want formatted message", out)
	}
	if !strings.Contains(out, `"level":"warn"`) {
		t.Errorf("log output = %q, want warn level", out)
	}
}
