package config

import (
	"fmt"
	"os"
)

// Config holds all application configuration.
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion     string
	RecordsTable  string
	NameIndexName string // GSI1 - record lookup by name

	// WebSocket configuration
	ConnectionsTable  string
	UserIndexName     string // connections GSI - lookup by user
	WebSocketEndpoint string

	// Messaging
	EventBusName      string
	BroadcastQueueURL string

	// Identity provider
	CognitoUserPoolID string
	CognitoClientID   string

	// Email
	SenderAddress   string
	ApproverAddress string

	// Authentication
	JWTSecret string
	JWTIssuer string
	// AuthBypass replaces the old ambient BYPASS_AUTH flag: when set, the
	// router installs a static actor resolver instead of JWT validation.
	// Only honored outside production.
	AuthBypass         bool
	AuthBypassUsername string
	AuthBypassRoles    string

	// Logging and features
	LogLevel      string
	EnableMetrics bool
	EnableTracing bool
	EnableCORS    bool
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		AWSRegion:     getEnv("AWS_REGION", "us-west-2"),

		RecordsTable:  getEnv("RECORDS_TABLE", "catalog-records"),
		NameIndexName: getEnv("NAME_INDEX_NAME", "NameIndex"),

		ConnectionsTable:  getEnv("CONNECTIONS_TABLE", "catalog-connections"),
		UserIndexName:     getEnv("USER_INDEX_NAME", "UserIndex"),
		WebSocketEndpoint: getEnv("WEBSOCKET_ENDPOINT", ""),

		EventBusName:      getEnv("EVENT_BUS_NAME", "catalog-events"),
		BroadcastQueueURL: getEnv("BROADCAST_QUEUE_URL", ""),

		CognitoUserPoolID: getEnv("COGNITO_USER_POOL_ID", ""),
		CognitoClientID:   getEnv("COGNITO_CLIENT_ID", ""),

		SenderAddress:   getEnv("EMAIL_SENDER_ADDRESS", "no-reply@catalog.local"),
		ApproverAddress: getEnv("EMAIL_APPROVER_ADDRESS", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "catalog-backend"),

		AuthBypass:         getEnvBool("AUTH_BYPASS", false),
		AuthBypassUsername: getEnv("AUTH_BYPASS_USERNAME", "local-dev"),
		AuthBypassRoles:    getEnv("AUTH_BYPASS_ROLES", "SUPER_ADMIN"),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", false),
		EnableTracing: getEnvBool("ENABLE_TRACING", false),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present.
func (c *Config) Validate() error {
	if c.Environment == "production" {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.RecordsTable == "" {
			return fmt.Errorf("RECORDS_TABLE is required")
		}
		if c.AuthBypass {
			return fmt.Errorf("AUTH_BYPASS must not be enabled in production")
		}
	}
	return nil
}

// IsProduction checks if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}
