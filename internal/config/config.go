package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Config 应用程序配置结构
type Config struct {
	Server   Server   `yaml:"server"`
	Database Database `yaml:"database"`
	AI       AI       `yaml:"ai"`
	Crawl    Crawl    `yaml:"crawl"`
	Telegram Telegram `yaml:"telegram"`
	App      App      `yaml:"app"`
}

// Server HTTP服务配置
type Server struct {
	Listen string `yaml:"listen"`
}

// Database 数据库配置（host为空时使用内存存储）
type Database struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Username        string        `yaml:"username"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"database"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// Model AI模型注册项
type Model struct {
	ID          string `yaml:"id" json:"modelId"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// AI 外部模型服务配置
type AI struct {
	BaseURL      string           `yaml:"base_url"`
	APIKey       string           `yaml:"api_key"`
	DefaultModel string           `yaml:"default_model"`
	Timeout      time.Duration    `yaml:"timeout"`
	MaxTokens    int              `yaml:"max_tokens"`
	Temperature  float64          `yaml:"temperature"`
	Models       map[string]Model `yaml:"models"`
}

// Crawl 开奖数据抓取配置
type Crawl struct {
	SiteURL      string        `yaml:"site_url"`
	APIURL       string        `yaml:"api_url"`
	Timeout      time.Duration `yaml:"timeout"`
	RetryCount   int           `yaml:"retry_count"`
	RetryDelay   time.Duration `yaml:"retry_delay"`
	HistoryDelay time.Duration `yaml:"history_delay"`
}

// Telegram Bot配置（token为空时不启用）
type Telegram struct {
	Token            string        `yaml:"token"`
	Timeout          time.Duration `yaml:"timeout"`
	BroadcastChatIDs []int64       `yaml:"broadcast_chat_ids"`
}

// App 应用程序配置
type App struct {
	LogLevel          string        `yaml:"log_level"`
	DefaultWindowDays int           `yaml:"default_window_days"`
	CacheTTL          time.Duration `yaml:"cache_ttl"`
}

// LoadConfig 加载配置文件并填充默认值
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %v", err)
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Listen == "" {
		c.Server.Listen = ":3001"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 3306
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.AI.BaseURL == "" {
		c.AI.BaseURL = "http://localhost:8317/v1"
	}
	if c.AI.DefaultModel == "" {
		c.AI.DefaultModel = "claude-opus"
	}
	if c.AI.Timeout == 0 {
		c.AI.Timeout = 120 * time.Second
	}
	if c.AI.MaxTokens == 0 {
		c.AI.MaxTokens = 2048
	}
	if c.AI.Temperature == 0 {
		c.AI.Temperature = 0.7
	}
	if c.Crawl.SiteURL == "" {
		c.Crawl.SiteURL = "https://xskt.com.vn/xsmb"
	}
	if c.Crawl.APIURL == "" {
		c.Crawl.APIURL = "https://api-xsmb-today.onrender.com/api/v1"
	}
	if c.Crawl.Timeout == 0 {
		c.Crawl.Timeout = 15 * time.Second
	}
	if c.Crawl.RetryCount == 0 {
		c.Crawl.RetryCount = 2
	}
	if c.Crawl.RetryDelay == 0 {
		c.Crawl.RetryDelay = 3 * time.Second
	}
	if c.Crawl.HistoryDelay == 0 {
		c.Crawl.HistoryDelay = time.Second
	}
	if c.Telegram.Timeout == 0 {
		c.Telegram.Timeout = 30 * time.Second
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.DefaultWindowDays == 0 {
		c.App.DefaultWindowDays = 30
	}
	if c.App.CacheTTL == 0 {
		c.App.CacheTTL = 5 * time.Minute
	}
}

// GetDSN 获取数据库连接字符串
func (d *Database) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}
