package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"gitlab.com/gemvault/storefront/internal/webhook"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Refund   RefundConfig
	Returns  ReturnsConfig
	JWT      JWTConfig
	Admin    AdminConfig
	Webhook  WebhookConfig
}

type AppConfig struct {
	Env      string
	Port     string
	LogLevel string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

// RedisConfig is optional. Without an address webhook deliveries are not
// deduplicated before processing.
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	DeliveryTTL time.Duration
}

type KafkaConfig struct {
	Brokers      []string
	Producer     string // kafka or console
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
	Topics       []string
	GroupID      string
}

// RefundConfig points at the payment gateway. An empty BaseURL selects the
// manual processor.
type RefundConfig struct {
	BaseURL  string
	APIKey   string
	Currency string
	Timeout  time.Duration
}

type ReturnsConfig struct {
	WindowDays           int
	ShippingCost         decimal.Decimal
	RestockingFeePercent decimal.Decimal
}

type JWTConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

type AdminConfig struct {
	Email    string
	Password string
}

type WebhookConfig struct {
	AuthMode      webhook.AuthMode
	ForwardSecret string
	ReverseSecret string
	LabelSecret   string
}

// Load reads the nearest .env file into the process environment and builds
// the configuration from it.
func Load() (*Config, error) {
	loadEnv()
	return load(viper.New())
}

func loadEnv() {
	wd, err := os.Getwd()
	if err != nil {
		log.Printf("config: cannot get working directory: %v", err)
		return
	}

	possiblePaths := []string{
		filepath.Join(wd, ".env"),
		filepath.Join(wd, "..", ".env"),
		filepath.Join(wd, "..", "..", ".env"),
	}

	for _, envPath := range possiblePaths {
		if err := godotenv.Load(envPath); err == nil {
			log.Printf("Loaded environment variables from %s", envPath)
			return
		}
	}

	for _, envPath := range possiblePaths {
		examplePath := filepath.Join(filepath.Dir(envPath), ".example.env")
		if err := godotenv.Load(examplePath); err == nil {
			log.Printf("Loaded environment variables from %s", examplePath)
			return
		}
	}

	log.Println("No .env file found, using process environment")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "development")
	v.SetDefault("http_port", "9000")
	v.SetDefault("log_level", "info")

	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 5432)
	v.SetDefault("postgres_user", "postgres")
	v.SetDefault("postgres_db", "storefront")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("db_max_conns", 10)

	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_delivery_ttl", "72h")

	v.SetDefault("kafka_brokers", "localhost:9092")
	v.SetDefault("outbox_producer", "kafka")
	v.SetDefault("outbox_poll_interval", "2s")
	v.SetDefault("outbox_batch_size", 50)
	v.SetDefault("outbox_max_attempts", 5)
	v.SetDefault("consumer_topics", strings.Join([]string{
		"returns.status_changed",
		"returns.refund_stalled",
		"returns.admin_attention",
		"orders.status_changed",
	}, ","))
	v.SetDefault("consumer_group_id", "storefront-consumer")

	v.SetDefault("refund_currency", "INR")
	v.SetDefault("refund_timeout", "10s")

	v.SetDefault("return_window_days", 7)
	v.SetDefault("return_shipping_cost", "0")
	v.SetDefault("restocking_fee_percent", "0")

	v.SetDefault("jwt_issuer", "storefront")
	v.SetDefault("jwt_ttl", "12h")

	v.SetDefault("webhook_auth_mode", string(webhook.AuthEnforced))
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	shippingCost, err := decimal.NewFromString(v.GetString("return_shipping_cost"))
	if err != nil {
		return nil, fmt.Errorf("RETURN_SHIPPING_COST: %w", err)
	}
	feePercent, err := decimal.NewFromString(v.GetString("restocking_fee_percent"))
	if err != nil {
		return nil, fmt.Errorf("RESTOCKING_FEE_PERCENT: %w", err)
	}
	authMode, err := webhook.ParseAuthMode(v.GetString("webhook_auth_mode"))
	if err != nil {
		return nil, fmt.Errorf("WEBHOOK_AUTH_MODE: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Env:      v.GetString("app_env"),
			Port:     v.GetString("http_port"),
			LogLevel: v.GetString("log_level"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("db_host"),
			Port:     v.GetInt("db_port"),
			User:     v.GetString("postgres_user"),
			Password: v.GetString("postgres_password"),
			Name:     v.GetString("postgres_db"),
			SSLMode:  v.GetString("db_sslmode"),
			MaxConns: v.GetInt32("db_max_conns"),
		},
		Redis: RedisConfig{
			Addr:        v.GetString("redis_addr"),
			Password:    v.GetString("redis_password"),
			DB:          v.GetInt("redis_db"),
			DeliveryTTL: v.GetDuration("redis_delivery_ttl"),
		},
		Kafka: KafkaConfig{
			Brokers:      splitList(v.GetString("kafka_brokers")),
			Producer:     v.GetString("outbox_producer"),
			PollInterval: v.GetDuration("outbox_poll_interval"),
			BatchSize:    v.GetInt("outbox_batch_size"),
			MaxAttempts:  v.GetInt("outbox_max_attempts"),
			Topics:       splitList(v.GetString("consumer_topics")),
			GroupID:      v.GetString("consumer_group_id"),
		},
		Refund: RefundConfig{
			BaseURL:  v.GetString("refund_gateway_url"),
			APIKey:   v.GetString("refund_gateway_api_key"),
			Currency: v.GetString("refund_currency"),
			Timeout:  v.GetDuration("refund_timeout"),
		},
		Returns: ReturnsConfig{
			WindowDays:           v.GetInt("return_window_days"),
			ShippingCost:         shippingCost,
			RestockingFeePercent: feePercent,
		},
		JWT: JWTConfig{
			Secret: v.GetString("jwt_secret"),
			Issuer: v.GetString("jwt_issuer"),
			TTL:    v.GetDuration("jwt_ttl"),
		},
		Admin: AdminConfig{
			Email:    v.GetString("admin_email"),
			Password: v.GetString("admin_password"),
		},
		Webhook: WebhookConfig{
			AuthMode:      authMode,
			ForwardSecret: v.GetString("shipment_webhook_secret"),
			ReverseSecret: v.GetString("return_webhook_secret"),
			LabelSecret:   v.GetString("tracking_webhook_secret"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.App.Env == "production" && len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
	}
	if c.Webhook.AuthMode == webhook.AuthEnforced {
		if c.Webhook.ForwardSecret == "" || c.Webhook.ReverseSecret == "" || c.Webhook.LabelSecret == "" {
			return fmt.Errorf("webhook auth is enforced but SHIPMENT_WEBHOOK_SECRET, RETURN_WEBHOOK_SECRET and TRACKING_WEBHOOK_SECRET are not all set")
		}
	}
	if c.App.Env == "production" && c.Webhook.AuthMode == webhook.AuthDisabled {
		return fmt.Errorf("webhook auth cannot be disabled in production")
	}
	if c.Returns.WindowDays <= 0 {
		return fmt.Errorf("RETURN_WINDOW_DAYS must be positive")
	}
	if c.Returns.ShippingCost.IsNegative() {
		return fmt.Errorf("RETURN_SHIPPING_COST cannot be negative")
	}
	if c.Returns.RestockingFeePercent.IsNegative() || c.Returns.RestockingFeePercent.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("RESTOCKING_FEE_PERCENT must be between 0 and 100")
	}
	if c.Kafka.Producer != "kafka" && c.Kafka.Producer != "console" {
		return fmt.Errorf("OUTBOX_PRODUCER must be kafka or console, got %q", c.Kafka.Producer)
	}
	if c.Kafka.Producer == "kafka" && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required for the kafka producer")
	}
	if c.Database.MaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	return nil
}

// DSN returns the database connection string with escaped credentials.
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
