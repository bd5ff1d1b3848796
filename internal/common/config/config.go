// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App          AppConfig               `mapstructure:"app"`
	Camunda      CamundaConfig           `mapstructure:"camunda"`
	Database     DatabaseConfig          `mapstructure:"database"`
	Workers      map[string]WorkerConfig `mapstructure:"workers"`
	Features     FeatureConfig           `mapstructure:"features"`
	APIs         APIsConfig              `mapstructure:"apis"`
	Integrations IntegrationConfig       `mapstructure:"integrations"`
	Vault        VaultConfig             `mapstructure:"vault"`
	Logging      LoggingConfig           `mapstructure:"logging"`
	Alerts       AlertConfig             `mapstructure:"alerts"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	MetricsPort int    `mapstructure:"metrics_port"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses  []string `mapstructure:"addresses"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	SSLEnabled bool     `mapstructure:"ssl_enabled"`
	AuditIndex string   `mapstructure:"audit_index"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// --- Feature Flags ---

// FeatureConfig enumerates the capability switches. Components receive the
// struct explicitly; nothing reads these flags from the environment at call
// time.
type FeatureConfig struct {
	KYC           bool `mapstructure:"kyc"`
	Credit        bool `mapstructure:"credit"`
	Trading       bool `mapstructure:"trading"`
	Notifications bool `mapstructure:"notifications"`
}

// --- External Service APIs ---

type APIsConfig struct {
	KYC          KYCAPIConfig        `mapstructure:"kyc"`
	CreditBureau BureauAPIConfig     `mapstructure:"credit_bureau"`
	DocumentAI   DocumentAIAPIConfig `mapstructure:"document_ai"`
}

type KYCAPIConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	Timeout      int    `mapstructure:"timeout"` // milliseconds
}

type BureauAPIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

type DocumentAIAPIConfig struct {
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
	MaxRetries  int     `mapstructure:"max_retries"`
	Timeout     int     `mapstructure:"timeout"` // milliseconds
}

// --- Integrations (AWS) ---

type IntegrationConfig struct {
	AWS struct {
		Region string `mapstructure:"region"`
		SES    struct {
			Enabled   bool   `mapstructure:"enabled"`
			FromEmail string `mapstructure:"from_email"`
		} `mapstructure:"ses"`
		SNS struct {
			Enabled            bool   `mapstructure:"enabled"`
			DefaultSMSSenderID string `mapstructure:"default_sms_sender_id"`
		} `mapstructure:"sns"`
		S3 struct {
			Bucket        string `mapstructure:"bucket"`
			PublicBaseURL string `mapstructure:"public_base_url"`
		} `mapstructure:"s3"`
	} `mapstructure:"aws"`
}

// --- PII Vault ---

type VaultConfig struct {
	Secret string `mapstructure:"secret"`
}

// --- Alert routing ---

type AlertConfig struct {
	OpsEmails         []string `mapstructure:"ops_emails"`
	OpsPhone          string   `mapstructure:"ops_phone"`
	CriticalThreshold float64  `mapstructure:"critical_threshold"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
