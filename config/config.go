package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// ConfigPathEnvVar overrides the location of the YAML config file
	ConfigPathEnvVar = "CONFIG_PATH"

	StorageTypeDisk = "disk"
	StorageTypeS3   = "s3"

	ImageFormatWebP = "webp"
	ImageFormatJPEG = "jpeg"
)

var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/portfolio/config.yaml",
}

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Storage  StorageConfig  `koanf:"storage"`
	Image    ImageConfig    `koanf:"image"`
	Upload   UploadConfig   `koanf:"upload"`
	Log      LogConfig      `koanf:"log"`
	Admin    AdminConfig    `koanf:"admin"`
	Metrics  MetricsConfig  `koanf:"metrics"`
}

type ServerConfig struct {
	BindAddress   string   `koanf:"bind_address" validate:"required"`
	TLSDomains    string   `koanf:"tls_domains"` // e.g. "example.com,example2.com"
	DebugMode     bool     `koanf:"debug_mode"`
	SessionSecret string   `koanf:"session_secret" validate:"required,min=16"`
	CORSOrigins   []string `koanf:"cors_origins"`
}

// DatabaseConfig: MySQL is used if MySQLDSN is set, SQLite otherwise
type DatabaseConfig struct {
	MySQLDSN   string `koanf:"mysql_dsn"`
	SQLiteFile string `koanf:"sqlite_file" validate:"required_without=MySQLDSN"`
}

type StorageConfig struct {
	Type        string `koanf:"type" validate:"oneof=disk s3"`
	UploadDir   string `koanf:"upload_dir" validate:"required_if=Type disk"`
	S3Bucket    string `koanf:"s3_bucket" validate:"required_if=Type s3"`
	S3Region    string `koanf:"s3_region"`
	S3Endpoint  string `koanf:"s3_endpoint"`
	S3AccessKey string `koanf:"s3_access_key"`
	S3SecretKey string `koanf:"s3_secret_key"`
	S3Prefix    string `koanf:"s3_prefix"`
}

type ImageConfig struct {
	Format       string `koanf:"format" validate:"oneof=webp jpeg"`
	Quality      int    `koanf:"quality" validate:"min=1,max=100"`
	MaxDimension uint   `koanf:"max_dimension"` // 0 keeps the original size
}

type UploadConfig struct {
	Directory    string   `koanf:"directory"`
	MaxSize      int64    `koanf:"max_size" validate:"min=1"`
	AllowedTypes []string `koanf:"allowed_types" validate:"min=1"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// AdminConfig is used to bootstrap the site owner account on first start
type AdminConfig struct {
	Name     string `koanf:"name"`
	Email    string `koanf:"email" validate:"omitempty,email"`
	Password string `koanf:"password" validate:"required_with=Email"`
}

type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BindAddress: "0.0.0.0:8080",
			DebugMode:   false,
			CORSOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			SQLiteFile: "portfolio.db",
		},
		Storage: StorageConfig{
			Type:      StorageTypeDisk,
			UploadDir: "public",
			S3Region:  "us-east-1",
		},
		Image: ImageConfig{
			Format:  ImageFormatWebP,
			Quality: 80,
		},
		Upload: UploadConfig{
			Directory:    "uploads/",
			MaxSize:      2 * 1024 * 1024,
			AllowedTypes: []string{"image/webp", "image/jpeg", "image/png"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Admin: AdminConfig{
			Name: "Administrator",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// envMappings keeps the flat variable names used in deployments
var envMappings = map[string]string{
	"bind_address":        "server.bind_address",
	"tls_domains":         "server.tls_domains",
	"debug_mode":          "server.debug_mode",
	"session_secret":      "server.session_secret",
	"cors_origins":        "server.cors_origins",
	"mysql_dsn":           "database.mysql_dsn",
	"sqlite_file":         "database.sqlite_file",
	"storage_type":        "storage.type",
	"upload_dir":          "storage.upload_dir",
	"s3_bucket":           "storage.s3_bucket",
	"s3_region":           "storage.s3_region",
	"s3_endpoint":         "storage.s3_endpoint",
	"s3_access_key":       "storage.s3_access_key",
	"s3_secret_key":       "storage.s3_secret_key",
	"s3_prefix":           "storage.s3_prefix",
	"media_dir":           "upload.directory",
	"max_upload_size":     "upload.max_size",
	"allowed_types":       "upload.allowed_types",
	"image_format":        "image.format",
	"image_quality":       "image.quality",
	"image_max_dimension": "image.max_dimension",
	"log_level":           "log.level",
	"log_format":          "log.format",
	"admin_name":          "admin.name",
	"admin_email":         "admin.email",
	"admin_password":      "admin.password",
	"metrics_enabled":     "metrics.enabled",
}

var sliceConfigPaths = []string{
	"server.cors_origins",
	"upload.allowed_types",
}

// Load reads defaults, then the optional YAML file, then the environment
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := splitSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envTransform returns "" for unknown variables so koanf skips them
func envTransform(key string) string {
	return envMappings[strings.ToLower(key)]
}

// splitSliceFields turns comma separated env values into lists
func splitSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		parts := []string{}
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}
