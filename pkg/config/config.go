package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env string

	Portal    PortalConfig
	DevServer DevServerConfig
	Log       LogConfig
	Metrics   MetricsConfig
}

// PortalConfig points the client at the remote portal service.
type PortalConfig struct {
	BaseURL string
}

// DevServerConfig controls the in-memory fake of the portal service.
type DevServerConfig struct {
	Port             int
	UploadDir        string
	Seed             bool
	AllowedFileTypes []string
	AllowedOrigins   []string
}

type LogConfig struct {
	Level  string
	Format string
}

// MetricsConfig names the Prometheus namespace used by request collectors.
type MetricsConfig struct {
	Namespace string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.Portal = PortalConfig{
		BaseURL: strings.TrimRight(v.GetString("PORTAL_BASE_URL"), "/"),
	}

	cfg.DevServer = DevServerConfig{
		Port:             v.GetInt("DEVSERVER_PORT"),
		UploadDir:        v.GetString("DEVSERVER_UPLOAD_DIR"),
		Seed:             v.GetBool("DEVSERVER_SEED"),
		AllowedFileTypes: splitAndTrim(v.GetString("DEVSERVER_ALLOWED_FILE_TYPES")),
		AllowedOrigins:   splitAndTrim(v.GetString("DEVSERVER_ALLOWED_ORIGINS")),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Metrics = MetricsConfig{
		Namespace: v.GetString("METRICS_NAMESPACE"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("PORTAL_BASE_URL", "http://localhost:5000")

	v.SetDefault("DEVSERVER_PORT", 5000)
	v.SetDefault("DEVSERVER_UPLOAD_DIR", "uploads")
	v.SetDefault("DEVSERVER_SEED", true)
	v.SetDefault("DEVSERVER_ALLOWED_FILE_TYPES", "pdf,png,jpg,jpeg,doc,docx")
	v.SetDefault("DEVSERVER_ALLOWED_ORIGINS", "")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("METRICS_NAMESPACE", "portal")
}

// isMissingFile reports whether viper failed only because .env is absent.
// SetConfigFile bypasses the ConfigFileNotFoundError path.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
