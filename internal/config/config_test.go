package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var envKeys = []string{
	"CONFIG_FILE", "ENVIRONMENT", "SERVICE_NAME", "SERVICE_VERSION", "LOG_LEVEL",
	"PORT", "SERVER_PORT", "REQUEST_TIMEOUT", "AWS_REGION", "AWS_ENDPOINT_URL",
	"TABLE_NAME", "BADGER_TABLE", "DATASETS_BUCKET_NAME", "DATASETS_BUCKET",
	"COGNITO_USER_POOL_ID", "USER_POOL_ID", "STORAGE_DRIVER", "MAX_UPLOAD_SIZE",
	"JWT_SIGNING_METHOD", "JWT_PUBLIC_KEY", "JWT_SECRET", "CORS_ALLOWED_ORIGINS", "CORS_ORIGIN",
}

// clearEnv blanks every variable the loader reads; blank counts as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Development, cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, DriverDynamoDB, cfg.Storage.Driver)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigEnvironmentAliases(t *testing.T) {
	clearEnv(t)
	t.Setenv("BADGER_TABLE", "legacy-table")
	t.Setenv("USER_POOL_ID", "us-east-1_pool")
	t.Setenv("DATASETS_BUCKET", "datasets")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "legacy-table", cfg.AWS.TableName)
	assert.Equal(t, "us-east-1_pool", cfg.AWS.UserPoolID)
	assert.Equal(t, "datasets", cfg.AWS.DatasetsBucket)
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoadConfigFileBelowEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	clearEnv(t)
	writeFile(t, path, `
logLevel: debug
server:
  port: 9000
  requestTimeout: 3s
aws:
  tableName: from-file
storage:
  driver: memory
`)
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("TABLE_NAME", "from-env")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, path, cfg.ConfigFile)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "from-env", cfg.AWS.TableName)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout, "unset keys keep defaults")
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	clearEnv(t)
	writeFile(t, path, "sever:\n  port: 1\n")
	t.Setenv("CONFIG_FILE", path)

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{
			name:    "bad port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Storage.Driver = "badger" },
			wantErr: "unknown storage driver",
		},
		{
			name: "production needs bucket, pool and key",
			mutate: func(c *Config) {
				c.Environment = Production
			},
			wantErr: "datasets bucket is required",
		},
		{
			name: "memory driver not in production",
			mutate: func(c *Config) {
				c.Environment = Production
				c.Storage.Driver = DriverMemory
				c.Auth.PublicKey = "pem"
			},
			wantErr: "memory storage is not allowed",
		},
		{
			name: "complete production",
			mutate: func(c *Config) {
				c.Environment = Production
				c.AWS.DatasetsBucket = "b"
				c.AWS.UserPoolID = "p"
				c.Auth.PublicKey = "pem"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("WARNING")
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, level)

	level, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "debug"

	logger, level, err := NewLogger(cfg)
	require.NoError(t, err)
	defer func() { _ = logger.Sync() }()

	assert.Equal(t, zapcore.DebugLevel, level.Level())
}

func TestWatcherAppliesLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	clearEnv(t)
	writeFile(t, path, "logLevel: info\n")
	t.Setenv("CONFIG_FILE", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)

	w, err := NewWatcher(cfg, level, zap.NewNop())
	require.NoError(t, err)
	defer w.Stop()

	changed := make(chan *Config, 1)
	w.OnChange(func(c *Config) {
		select {
		case changed <- c:
		default:
		}
	})

	writeFile(t, path, "logLevel: debug\n")

	assert.Eventually(t, func() bool {
		return level.Level() == zapcore.DebugLevel
	}, 5*time.Second, 50*time.Millisecond)

	select {
	case c := <-changed:
		assert.Equal(t, "debug", c.LogLevel)
	case <-time.After(5 * time.Second):
		t.Fatal("OnChange callback not called")
	}
	assert.Equal(t, "debug", w.Current().LogLevel)
}

func TestNewWatcherWithoutFile(t *testing.T) {
	_, err := NewWatcher(Default(), zap.NewAtomicLevel(), zap.NewNop())
	assert.Error(t, err)
}
