package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("CONVERSATION_LIST_MAX_LIMIT", "not-a-number")

	cfg := Load()

	assert.Equal(t, "", cfg.Database.Driver)
	assert.Equal(t, 100, cfg.Lifecycle.MaxListLimit)
	assert.Equal(t, 20, cfg.Lifecycle.DefaultListLimit)
	assert.True(t, cfg.Database.MigrateAtStart)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_CONNECTION_STRING", "file::memory:")
	t.Setenv("DB_MIGRATE_AT_START", "false")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("GO_ENV", "production")
	t.Setenv("CONVERSATION_LIST_DEFAULT_LIMIT", "5")

	cfg := Load()

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file::memory:", cfg.Database.Connection)
	assert.False(t, cfg.Database.MigrateAtStart)
	assert.True(t, cfg.App.OtelEnabled)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 5, cfg.Lifecycle.DefaultListLimit)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr bool
	}{
		{"missing secret", "", true},
		{"secret set", "s3cret", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", tt.secret)
			err := Load().Validate()
			if tt.wantErr {
				assert.ErrorContains(t, err, "JWT_SECRET")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
