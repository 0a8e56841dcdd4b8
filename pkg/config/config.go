package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App        AppConfig
	DB         DBConfig
	HTTP       HTTPConfig
	Planning   PlanningConfig
	Purchasing PurchasingConfig
	Kafka      KafkaConfig
	Metrics    MetricsConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env           string // development, staging, production
	Name          string
	LogLevel      string
	StorageDriver string // postgres | memory
	MaterialsFile string // XLSX/CSV con el maestro de materiales para el driver memory
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	MinConns    int
	PreferIPv4  bool
	AutoMigrate bool
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// PlanningConfig constantes de política del motor de requerimientos.
// DefaultDailyRate y SafetyBuffer son cero salvo que el negocio defina otro valor.
type PlanningConfig struct {
	DefaultLookbackDays int
	DefaultDailyRate    decimal.Decimal
	SafetyBuffer        decimal.Decimal
	DefaultHorizonDays  int
	CacheTTL            time.Duration
	CacheMaxEntries     int
	Workers             int
}

// PurchasingConfig cliente del servicio de órdenes de compra. BaseURL vacío = sin órdenes abiertas.
type PurchasingConfig struct {
	BaseURL string
	Timeout time.Duration
}

// KafkaConfig consumo de eventos de producción y publicación de movimientos.
type KafkaConfig struct {
	Enabled          bool
	Brokers          []string
	GroupID          string
	ConsumptionTopic string
	MovementsTopic   string // vacío = no publicar movimientos
}

// MetricsConfig exposición de métricas Prometheus en /metrics.
type MetricsConfig struct {
	Enabled bool
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, PLANNING_SAFETY_BUFFER, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	defaultRate, err := getDecimal(v, "PLANNING_DEFAULT_DAILY_RATE", decimal.Zero)
	if err != nil {
		return nil, err
	}
	safetyBuffer, err := getDecimal(v, "PLANNING_SAFETY_BUFFER", decimal.Zero)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Env:           getString(v, "APP_ENV", "development"),
			Name:          getString(v, "APP_NAME", "mrp-planner"),
			LogLevel:      getString(v, "LOG_LEVEL", "info"),
			StorageDriver: getString(v, "STORAGE_DRIVER", "postgres"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "mrp"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 25),
			MinConns:    getInt(v, "DB_MIN_CONNS", 2),
			PreferIPv4:  getBool(v, "DB_PREFER_IPV4", false),
			AutoMigrate: getBool(v, "DB_AUTO_MIGRATE", true),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Planning: PlanningConfig{
			DefaultLookbackDays: getInt(v, "PLANNING_DEFAULT_LOOKBACK_DAYS", 30),
			DefaultDailyRate:    defaultRate,
			SafetyBuffer:        safetyBuffer,
			DefaultHorizonDays:  getInt(v, "PLANNING_DEFAULT_HORIZON_DAYS", 30),
			CacheTTL:            time.Duration(getInt(v, "PLANNING_CACHE_TTL_SECONDS", 5)) * time.Second,
			CacheMaxEntries:     getInt(v, "PLANNING_CACHE_MAX_ENTRIES", 64),
			Workers:             getInt(v, "PLANNING_WORKERS", 8),
		},
		Purchasing: PurchasingConfig{
			BaseURL: strings.TrimRight(getString(v, "PURCHASING_BASE_URL", ""), "/"),
			Timeout: time.Duration(getInt(v, "PURCHASING_TIMEOUT_SECONDS", 5)) * time.Second,
		},
		Kafka: KafkaConfig{
			Enabled:          getBool(v, "KAFKA_ENABLED", false),
			Brokers:          splitList(getString(v, "KAFKA_BROKERS", "localhost:9092")),
			GroupID:          getString(v, "KAFKA_GROUP_ID", "mrp-planner"),
			ConsumptionTopic: getString(v, "KAFKA_CONSUMPTION_TOPIC", "production.consumption"),
			MovementsTopic:   getString(v, "KAFKA_MOVEMENTS_TOPIC", ""),
		},
		Metrics: MetricsConfig{
			Enabled: getBool(v, "METRICS_ENABLED", true),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.App.StorageDriver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("STORAGE_DRIVER inválido: %q", c.App.StorageDriver)
	}
	if c.Planning.DefaultLookbackDays <= 0 || c.Planning.DefaultHorizonDays <= 0 {
		return fmt.Errorf("PLANNING_DEFAULT_LOOKBACK_DAYS y PLANNING_DEFAULT_HORIZON_DAYS deben ser > 0")
	}
	if c.Planning.DefaultDailyRate.IsNegative() || c.Planning.SafetyBuffer.IsNegative() {
		return fmt.Errorf("PLANNING_DEFAULT_DAILY_RATE y PLANNING_SAFETY_BUFFER no pueden ser negativos")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS requerido con KAFKA_ENABLED=true")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return def
	}
	return b
}

func getDecimal(v *viper.Viper, key string, def decimal.Decimal) (decimal.Decimal, error) {
	if !v.IsSet(key) {
		return def, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return def, fmt.Errorf("%s inválido: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
