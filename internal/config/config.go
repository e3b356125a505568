// Package config loads the service configuration from defaults, an optional
// YAML file and environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment is the deployment stage.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Storage drivers.
const (
	DriverDynamoDB = "dynamodb"
	DriverMemory   = "memory"
)

// Config holds all configuration values
type Config struct {
	Environment   Environment   `yaml:"environment"`
	ServiceName   string        `yaml:"serviceName"`
	Version       string        `yaml:"version"`
	LogLevel      string        `yaml:"logLevel"`
	Server        Server        `yaml:"server"`
	AWS           AWS           `yaml:"aws"`
	Storage       Storage       `yaml:"storage"`
	Auth          Auth          `yaml:"auth"`
	Observability Observability `yaml:"observability"`
	CORS          CORS          `yaml:"cors"`

	// ConfigFile is the YAML file the configuration was layered from, if any.
	ConfigFile string `yaml:"-"`
}

type Server struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	IdleTimeout     time.Duration `yaml:"idleTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	RequestTimeout  time.Duration `yaml:"requestTimeout"`
}

type AWS struct {
	Region         string `yaml:"region"`
	Endpoint       string `yaml:"endpoint"`
	TableName      string `yaml:"tableName"`
	DatasetsBucket string `yaml:"datasetsBucket"`
	UserPoolID     string `yaml:"userPoolId"`
	EventBusName   string `yaml:"eventBusName"`
}

type Storage struct {
	Driver        string `yaml:"driver"`
	MaxUploadSize int64  `yaml:"maxUploadSize"`
}

type Auth struct {
	SigningMethod string   `yaml:"signingMethod"`
	PublicKey     string   `yaml:"publicKey"`
	SecretKey     string   `yaml:"secretKey"`
	Issuer        string   `yaml:"issuer"`
	Audience      []string `yaml:"audience"`
}

type Observability struct {
	EnableMetrics       bool    `yaml:"enableMetrics"`
	MetricsNamespace    string  `yaml:"metricsNamespace"`
	CloudWatchNamespace string  `yaml:"cloudWatchNamespace"`
	EnableTracing       bool    `yaml:"enableTracing"`
	TracingEndpoint     string  `yaml:"tracingEndpoint"`
	SampleRate          float64 `yaml:"sampleRate"`
	EnableXRay          bool    `yaml:"enableXRay"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// Default returns the development defaults.
func Default() *Config {
	return &Config{
		Environment: Development,
		ServiceName: "performance-dashboard",
		Version:     "dev",
		LogLevel:    "info",
		Server: Server{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RequestTimeout:  25 * time.Second,
		},
		AWS: AWS{
			Region:    "us-east-1",
			TableName: "PerformanceDashboard",
		},
		Storage: Storage{
			Driver:        DriverDynamoDB,
			MaxUploadSize: 10 << 20,
		},
		Auth: Auth{SigningMethod: "RS256"},
		Observability: Observability{
			EnableMetrics:       true,
			MetricsNamespace:    "dashboard",
			CloudWatchNamespace: "PerformanceDashboard",
			SampleRate:          1,
		},
		CORS: CORS{AllowedOrigins: []string{"*"}},
	}
}

// LoadConfig layers CONFIG_FILE (when set) and then the environment over the
// defaults.
func LoadConfig() (*Config, error) {
	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
		cfg.ConfigFile = path
	}
	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overrides every field whose variable is set. The second name of
// each pair is the name used by older deployment templates.
func (c *Config) applyEnv() {
	c.Environment = Environment(getEnv(string(c.Environment), "ENVIRONMENT"))
	c.ServiceName = getEnv(c.ServiceName, "SERVICE_NAME")
	c.Version = getEnv(c.Version, "SERVICE_VERSION")
	c.LogLevel = getEnv(c.LogLevel, "LOG_LEVEL")

	c.Server.Port = getEnvInt(c.Server.Port, "PORT", "SERVER_PORT")
	c.Server.ReadTimeout = getEnvDuration(c.Server.ReadTimeout, "SERVER_READ_TIMEOUT")
	c.Server.WriteTimeout = getEnvDuration(c.Server.WriteTimeout, "SERVER_WRITE_TIMEOUT")
	c.Server.IdleTimeout = getEnvDuration(c.Server.IdleTimeout, "SERVER_IDLE_TIMEOUT")
	c.Server.ShutdownTimeout = getEnvDuration(c.Server.ShutdownTimeout, "SERVER_SHUTDOWN_TIMEOUT")
	c.Server.RequestTimeout = getEnvDuration(c.Server.RequestTimeout, "REQUEST_TIMEOUT")

	c.AWS.Region = getEnv(c.AWS.Region, "AWS_REGION")
	c.AWS.Endpoint = getEnv(c.AWS.Endpoint, "AWS_ENDPOINT_URL")
	c.AWS.TableName = getEnv(c.AWS.TableName, "TABLE_NAME", "BADGER_TABLE")
	c.AWS.DatasetsBucket = getEnv(c.AWS.DatasetsBucket, "DATASETS_BUCKET_NAME", "DATASETS_BUCKET")
	c.AWS.UserPoolID = getEnv(c.AWS.UserPoolID, "COGNITO_USER_POOL_ID", "USER_POOL_ID")
	c.AWS.EventBusName = getEnv(c.AWS.EventBusName, "EVENT_BUS_NAME")

	c.Storage.Driver = getEnv(c.Storage.Driver, "STORAGE_DRIVER")
	c.Storage.MaxUploadSize = int64(getEnvInt(int(c.Storage.MaxUploadSize), "MAX_UPLOAD_SIZE"))

	c.Auth.SigningMethod = getEnv(c.Auth.SigningMethod, "JWT_SIGNING_METHOD")
	c.Auth.PublicKey = getEnv(c.Auth.PublicKey, "JWT_PUBLIC_KEY")
	c.Auth.SecretKey = getEnv(c.Auth.SecretKey, "JWT_SECRET")
	c.Auth.Issuer = getEnv(c.Auth.Issuer, "JWT_ISSUER")
	c.Auth.Audience = getEnvList(c.Auth.Audience, "JWT_AUDIENCE", "COGNITO_CLIENT_ID")

	c.Observability.EnableMetrics = getEnvBool(c.Observability.EnableMetrics, "ENABLE_METRICS")
	c.Observability.EnableTracing = getEnvBool(c.Observability.EnableTracing, "ENABLE_TRACING")
	c.Observability.TracingEndpoint = getEnv(c.Observability.TracingEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	c.Observability.EnableXRay = getEnvBool(c.Observability.EnableXRay, "ENABLE_XRAY")
	if v, ok := lookupEnv("TRACING_SAMPLE_RATE"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Observability.SampleRate = f
		}
	}

	c.CORS.AllowedOrigins = getEnvList(c.CORS.AllowedOrigins, "CORS_ALLOWED_ORIGINS", "CORS_ORIGIN")
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.Environment {
	case Development, Staging, Production:
	default:
		errs = append(errs, fmt.Errorf("invalid environment %q", c.Environment))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid server port %d", c.Server.Port))
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if c.Storage.MaxUploadSize <= 0 {
		errs = append(errs, errors.New("max upload size must be positive"))
	}

	switch c.Storage.Driver {
	case DriverMemory:
		if c.Environment == Production {
			errs = append(errs, errors.New("memory storage is not allowed in production"))
		}
	case DriverDynamoDB:
		if c.AWS.TableName == "" {
			errs = append(errs, errors.New("table name is required"))
		}
		if c.Environment == Production {
			if c.AWS.DatasetsBucket == "" {
				errs = append(errs, errors.New("datasets bucket is required in production"))
			}
			if c.AWS.UserPoolID == "" {
				errs = append(errs, errors.New("user pool id is required in production"))
			}
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}

	switch c.Auth.SigningMethod {
	case "RS256":
		if c.Environment == Production && c.Auth.PublicKey == "" {
			errs = append(errs, errors.New("JWT public key is required in production"))
		}
	case "HS256":
		if c.Environment == Production && c.Auth.SecretKey == "" {
			errs = append(errs, errors.New("JWT secret is required in production"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported signing method %q", c.Auth.SigningMethod))
	}

	return errors.Join(errs...)
}

// AuthKeyConfigured reports whether bearer tokens can be verified locally.
func (c *Config) AuthKeyConfigured() bool {
	return c.Auth.PublicKey != "" || c.Auth.SecretKey != ""
}

func (c *Config) IsProduction() bool  { return c.Environment == Production }
func (c *Config) IsDevelopment() bool { return c.Environment == Development }

func lookupEnv(keys ...string) (string, bool) {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value, true
		}
	}
	return "", false
}

// getEnv returns the first set variable among keys, or fallback.
func getEnv(fallback string, keys ...string) string {
	if value, ok := lookupEnv(keys...); ok {
		return value
	}
	return fallback
}

func getEnvInt(fallback int, keys ...string) int {
	if value, ok := lookupEnv(keys...); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(fallback bool, keys ...string) bool {
	if value, ok := lookupEnv(keys...); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(fallback time.Duration, keys ...string) time.Duration {
	if value, ok := lookupEnv(keys...); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(fallback []string, keys ...string) []string {
	value, ok := lookupEnv(keys...)
	if !ok {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
