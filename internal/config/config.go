package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppPort string `mapstructure:"APP_PORT"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     int    `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBScheme   string `mapstructure:"DB_SCHEME"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	// --- S3 ---
	S3Endpoint  string `mapstructure:"S3_ENDPOINT"`
	S3Region    string `mapstructure:"S3_REGION"`
	S3Bucket    string `mapstructure:"S3_BUCKET"`
	S3AccessKey string `mapstructure:"S3_ACCESS_KEY"`
	S3SecretKey string `mapstructure:"S3_SECRET_KEY"`
	S3UseSSL    bool   `mapstructure:"S3_USE_SSL"`
	S3PathStyle bool   `mapstructure:"S3_PATH_STYLE"`

	// --- Auth ---
	AuthJWTSecret  string        `mapstructure:"AUTH_JWT_SECRET"`
	AuthIssuer     string        `mapstructure:"AUTH_ISSUER"`
	AuthTokenTTL   time.Duration `mapstructure:"AUTH_TOKEN_TTL"`
	AuthAdminToken string        `mapstructure:"AUTH_ADMIN_TOKEN"`

	// --- Microsoft Graph mail ---
	GraphTenantID     string `mapstructure:"GRAPH_TENANT_ID"`
	GraphClientID     string `mapstructure:"GRAPH_CLIENT_ID"`
	GraphClientSecret string `mapstructure:"GRAPH_CLIENT_SECRET"`
	GraphSenderEmail  string `mapstructure:"GRAPH_SENDER_EMAIL"`
	GraphFromAlias    string `mapstructure:"GRAPH_FROM_ALIAS"`

	// --- Auth-email redirects ---
	DefaultRedirect        string `mapstructure:"PORTAL_DEFAULT_REDIRECT"`
	RedirectSignup         string `mapstructure:"PORTAL_REDIRECT_SIGNUP"`
	RedirectInvite         string `mapstructure:"PORTAL_REDIRECT_INVITE"`
	RedirectRecovery       string `mapstructure:"PORTAL_REDIRECT_RECOVERY"`
	RedirectMagicLink      string `mapstructure:"PORTAL_REDIRECT_MAGICLINK"`
	RedirectReauthenticate string `mapstructure:"PORTAL_REDIRECT_REAUTHENTICATE"`
	RedirectEmailChange    string `mapstructure:"PORTAL_REDIRECT_EMAIL_CHANGE"`
}

// String implements Stringer; secrets are masked.
func (c *Config) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  AppPort: %s\n", c.AppPort))
	sb.WriteString(fmt.Sprintf("  DBHost: %s\n", c.DBHost))
	sb.WriteString(fmt.Sprintf("  DBPort: %d\n", c.DBPort))
	sb.WriteString(fmt.Sprintf("  DBUser: %s\n", c.DBUser))
	sb.WriteString(fmt.Sprintf("  DBName: %s\n", c.DBName))
	sb.WriteString(fmt.Sprintf("  DBScheme: %s\n", c.DBScheme))
	sb.WriteString(maskedLine("DBPassword", c.DBPassword))

	sb.WriteString(fmt.Sprintf("  RedisAddr: %s\n", c.RedisAddr))
	sb.WriteString(fmt.Sprintf("  RedisDB: %d\n", c.RedisDB))
	sb.WriteString(maskedLine("RedisPassword", c.RedisPassword))

	sb.WriteString(fmt.Sprintf("  S3Endpoint: %s\n", c.S3Endpoint))
	sb.WriteString(fmt.Sprintf("  S3Region: %s\n", c.S3Region))
	sb.WriteString(fmt.Sprintf("  S3Bucket: %s\n", c.S3Bucket))
	sb.WriteString(maskedLine("S3AccessKey", c.S3AccessKey))
	sb.WriteString(maskedLine("S3SecretKey", c.S3SecretKey))
	sb.WriteString(fmt.Sprintf("  S3UseSSL: %v\n", c.S3UseSSL))
	sb.WriteString(fmt.Sprintf("  S3PathStyle: %v\n", c.S3PathStyle))

	sb.WriteString(maskedLine("AuthJWTSecret", c.AuthJWTSecret))
	sb.WriteString(fmt.Sprintf("  AuthIssuer: %s\n", c.AuthIssuer))
	sb.WriteString(fmt.Sprintf("  AuthTokenTTL: %s\n", c.AuthTokenTTL))
	sb.WriteString(maskedLine("AuthAdminToken", c.AuthAdminToken))

	sb.WriteString(fmt.Sprintf("  GraphTenantID: %s\n", c.GraphTenantID))
	sb.WriteString(maskedLine("GraphClientID", c.GraphClientID))
	sb.WriteString(maskedLine("GraphClientSecret", c.GraphClientSecret))
	sb.WriteString(fmt.Sprintf("  GraphSenderEmail: %s\n", c.GraphSenderEmail))
	sb.WriteString(fmt.Sprintf("  DefaultRedirect: %s\n", c.DefaultRedirect))

	return sb.String()
}

func maskedLine(name, val string) string {
	if val == "" {
		return fmt.Sprintf("  %s: (empty)\n", name)
	}
	return fmt.Sprintf("  %s: ********\n", name)
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (*Config, error) {
	// .env is for local development only
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, errors.New("failed to load .env")
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	keys := []string{
		"APP_ENV", "APP_PORT",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SCHEME",
		"REDIS_ADDR", "REDIS_DB", "REDIS_PASSWORD",
		"S3_ENDPOINT", "S3_REGION", "S3_BUCKET", "S3_ACCESS_KEY", "S3_SECRET_KEY",
		"S3_USE_SSL", "S3_PATH_STYLE",
		"AUTH_JWT_SECRET", "AUTH_ISSUER", "AUTH_TOKEN_TTL", "AUTH_ADMIN_TOKEN",
		"GRAPH_TENANT_ID", "GRAPH_CLIENT_ID", "GRAPH_CLIENT_SECRET",
		"GRAPH_SENDER_EMAIL", "GRAPH_FROM_ALIAS",
		"PORTAL_DEFAULT_REDIRECT", "PORTAL_REDIRECT_SIGNUP", "PORTAL_REDIRECT_INVITE",
		"PORTAL_REDIRECT_RECOVERY", "PORTAL_REDIRECT_MAGICLINK",
		"PORTAL_REDIRECT_REAUTHENTICATE", "PORTAL_REDIRECT_EMAIL_CHANGE",
	}
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("AUTH_ISSUER", "l2l-portal")
	v.SetDefault("AUTH_TOKEN_TTL", "12h")
	v.SetDefault("PORTAL_DEFAULT_REDIRECT", "https://www.l2lunited.com/portal")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

// RedirectFor returns the per-action redirect override, or "".
func (c *Config) RedirectFor(action string) string {
	switch action {
	case "signup":
		return c.RedirectSignup
	case "invite":
		return c.RedirectInvite
	case "recovery":
		return c.RedirectRecovery
	case "magiclink":
		return c.RedirectMagicLink
	case "reauthenticate":
		return c.RedirectReauthenticate
	case "email_change":
		return c.RedirectEmailChange
	}
	return ""
}
