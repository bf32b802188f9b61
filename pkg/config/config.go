package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // zonas disponibles aunque el contenedor no traiga tzdata

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App   AppConfig
	DB    DBConfig
	JWT   JWTConfig
	HTTP  HTTPConfig
	ERP   ERPConfig
	Count CountConfig
	Sync  SyncConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	Timezone string // zona horaria de las tiendas; define la fecha operativa
	LogLevel string

	location *time.Location
}

// Location devuelve la zona validada al cargar la configuración.
func (c AppConfig) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
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

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
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

// ERPConfig acceso al servicio de existencias del ERP.
type ERPConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// CountConfig reglas del conteo físico.
type CountConfig struct {
	OvernightShift int // turno que cruza la medianoche
	CutoffHour     int // antes de esta hora el turno nocturno pertenece al día anterior
	MaxQty         int
	MaxNoteLen     int
}

// SyncConfig sincronización programada con el ERP (cmd/stocksync).
type SyncConfig struct {
	Schedule string // expresión cron de 5 campos
	Shifts   []int
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, ERP_BASE_URL, etc.
func Load() (*Config, error) {
	v := viper.New()

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

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	shifts, err := parseShifts(getString(v, "SYNC_SHIFTS", "1,2,3"))
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "conteo-api"),
			Timezone: getString(v, "APP_TIMEZONE", "America/Bogota"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "conteo"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 25),
			MinConns:    getInt(v, "DB_MIN_CONNS", 2),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "conteo-api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		ERP: ERPConfig{
			BaseURL: getString(v, "ERP_BASE_URL", ""),
			APIKey:  getString(v, "ERP_API_KEY", ""),
			Timeout: time.Duration(getInt(v, "ERP_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		Count: CountConfig{
			OvernightShift: getInt(v, "COUNT_OVERNIGHT_SHIFT", 3),
			CutoffHour:     getInt(v, "COUNT_OVERNIGHT_CUTOFF_HOUR", 6),
			MaxQty:         getInt(v, "COUNT_MAX_QTY", 999_999),
			MaxNoteLen:     getInt(v, "COUNT_MAX_NOTE", 500),
		},
		Sync: SyncConfig{
			Schedule: getString(v, "SYNC_SCHEDULE", "*/30 * * * *"),
			Shifts:   shifts,
		},
	}
	if cfg.Count.CutoffHour < 0 || cfg.Count.CutoffHour > 23 {
		return nil, fmt.Errorf("COUNT_OVERNIGHT_CUTOFF_HOUR fuera de rango: %d", cfg.Count.CutoffHour)
	}
	// Una zona inválida correría todas las fechas operativas.
	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil || cfg.App.Timezone == "" {
		return nil, fmt.Errorf("APP_TIMEZONE inválido: %q", cfg.App.Timezone)
	}
	cfg.App.location = loc
	return cfg, nil
}

// parseShifts interpreta "1,2,3".
func parseShifts(s string) ([]int, error) {
	var out []int
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 || n > 3 {
			return nil, fmt.Errorf("SYNC_SHIFTS inválido: %q", s)
		}
		out = append(out, n)
	}
	return out, nil
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
			n, err := strconv.Atoi(v.GetString(key))
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
