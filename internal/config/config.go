package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "RESERVATION"

// ServiceConfig holds all configuration for the reservation service.
type ServiceConfig struct {
	Port    string
	AppEnv  string
	DB      DatabaseConfig
	Kafka   KafkaConfig
	Pricing PricingConfig
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// KafkaConfig holds broker and topic settings.
type KafkaConfig struct {
	Brokers            []string
	GroupPrefix        string
	ReservationTopic   string
	VehicleReturnTopic string
}

// PricingConfig holds the tunables used by client summaries.
type PricingConfig struct {
	LoyaltyThreshold int
}

// DSN returns the GORM/pgx connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// DatabaseURL returns the URL form used by golang-migrate.
func (c DatabaseConfig) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// Load reads configuration from RESERVATION_* environment variables.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &ServiceConfig{
		Port:   v.GetString("service_port"),
		AppEnv: v.GetString("app_env"),
		DB: DatabaseConfig{
			Host:     v.GetString("db_host"),
			Port:     v.GetInt("db_port"),
			User:     v.GetString("db_user"),
			Password: v.GetString("db_password"),
			DBName:   v.GetString("db_name"),
			SSLMode:  v.GetString("db_sslmode"),
		},
		Kafka: KafkaConfig{
			Brokers:            splitList(v.GetString("kafka_brokers")),
			GroupPrefix:        v.GetString("kafka_group_prefix"),
			ReservationTopic:   v.GetString("kafka_reservation_topic"),
			VehicleReturnTopic: v.GetString("kafka_vehicle_return_topic"),
		},
		Pricing: PricingConfig{
			LoyaltyThreshold: v.GetInt("loyalty_threshold"),
		},
	}

	if !strings.HasPrefix(cfg.Port, ":") {
		cfg.Port = ":" + cfg.Port
	}
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, fmt.Errorf("%s_KAFKA_BROKERS must list at least one broker", envPrefix)
	}
	if cfg.Pricing.LoyaltyThreshold < 1 {
		return nil, fmt.Errorf("%s_LOYALTY_THRESHOLD must be positive", envPrefix)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service_port", "8080")
	v.SetDefault("app_env", "development")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 5432)
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "postgres")
	v.SetDefault("db_name", "reservation_db")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("kafka_brokers", "localhost:9092")
	v.SetDefault("kafka_group_prefix", "fleetrent-")
	v.SetDefault("kafka_reservation_topic", "reservation.events")
	v.SetDefault("kafka_vehicle_return_topic", "fleet.vehicle-returns")
	v.SetDefault("loyalty_threshold", 5)
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
