package config

import (
	"errors"
	"fmt"
	"os"

	"bookman/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Admin      AdminConfig      `yaml:"admin"`
	Nonce      NonceConfig      `yaml:"nonce"`
	Form       FormConfig       `yaml:"form"`
	Notify     NotifyConfig     `yaml:"notify"`
	Google     GoogleConfig     `yaml:"google"`
	Logging    LoggingConfig    `yaml:"logging"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type ServerConfig struct {
	Port    int    `yaml:"port"`
	BaseURL string `yaml:"base_url"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type AdminConfig struct {
	// Token grants administrative capability when presented as the
	// bm_admin_token cookie or the X-Admin-Token header.
	Token string `yaml:"token"`
}

type NonceConfig struct {
	TTLMinutes int `yaml:"ttl_minutes"`
}

type FormConfig struct {
	Title        string `yaml:"title"`
	ServicesPath string `yaml:"services_path"`
}

type NotifyConfig struct {
	AdminEmail string               `yaml:"admin_email"`
	SMTP       SMTPConfig           `yaml:"smtp"`
	Telegram   TelegramNotifyConfig `yaml:"telegram"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type TelegramNotifyConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type GoogleConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	SpreadsheetID   string `yaml:"spreadsheet_id"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional; system environment wins either way.
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}

	if c.Admin.Token == "" || c.Admin.Token == "CHANGE_ME" {
		return errors.New("admin token is required")
	}

	if c.Notify.SMTP.Host != "" && c.Notify.AdminEmail == "" {
		return errors.New("notify.admin_email is required when smtp is configured")
	}

	if c.Google.SpreadsheetID != "" && c.Google.CredentialsFile == "" {
		return errors.New("google.credentials_file is required when spreadsheet_id is set")
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = fmt.Sprintf("http://localhost:%d", c.Server.Port)
	}
	if c.Nonce.TTLMinutes == 0 {
		c.Nonce.TTLMinutes = 15
	}
	if c.Form.Title == "" {
		c.Form.Title = models.DefaultFormTitle
	}
	if c.Notify.SMTP.Port == 0 {
		c.Notify.SMTP.Port = 587
	}
	if c.Notify.SMTP.From == "" {
		c.Notify.SMTP.From = c.Notify.AdminEmail
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
}
