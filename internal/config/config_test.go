package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "jwt-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "Europe/Berlin", cfg.App.Timezone)
	assert.Equal(t, []string{cfg.App.FrontendURL}, cfg.App.CORSOrigins)
	assert.Equal(t, 90, cfg.Location.RetentionDays)
	assert.Equal(t, 1000, cfg.Location.TrailLimit)
	assert.Equal(t, "timetrack.changes", cfg.Kafka.Topic)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, "http://localhost:8080/uploads", cfg.Storage.BaseURL)
}

func TestLoad_ParsesListsAndLowercasesAdmins(t *testing.T) {
	setRequired(t)
	t.Setenv("ADMIN_WHITELIST", " Boss@Example.com , ops@example.com,")
	t.Setenv("ADMIN_EMAIL", "Root@Example.com")
	t.Setenv("FRONTEND_URL", "https://app.example.com/")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"boss@example.com", "ops@example.com"}, cfg.Admin.Whitelist)
	assert.Equal(t, "root@example.com", cfg.Admin.BootstrapEmail)
	assert.Equal(t, "https://app.example.com", cfg.App.FrontendURL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Admin.IsWhitelisted(" BOSS@example.com"))
	assert.False(t, cfg.Admin.IsWhitelisted("someone@example.com"))
}

func TestLoad_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing db password", map[string]string{"DB_PASSWORD": ""}},
		{"non numeric port", map[string]string{"APP_PORT": "http"}},
		{"google without secret", map[string]string{"CLIENT_ID": "id"}},
		{"min above max conns", map[string]string{"DB_MIN_CONNS": "30", "DB_MAX_CONNS": "10"}},
		{"zero trail limit", map[string]string{"LOCATION_TRAIL_LIMIT": "0"}},
		{"unknown storage", map[string]string{"STORAGE_TYPE": "s3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDatabaseURL(t *testing.T) {
	cfg := Config{Database: DatabaseConfig{
		Host:     "db",
		Port:     5433,
		User:     "app",
		Password: "pw",
		Name:     "timetrack",
		SSLMode:  "disable",
	}}
	assert.Equal(t, "postgres://app:pw@db:5433/timetrack?sslmode=disable", cfg.DatabaseURL())
}
