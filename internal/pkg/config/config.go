package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Backend      BackendConfig      `mapstructure:"backend"`
	State        StateConfig        `mapstructure:"state"`
	Log          LogConfig          `mapstructure:"log"`
	Scheduler    SchedulerConfig    `mapstructure:"scheduler"`
	Notification NotificationConfig `mapstructure:"notification"`
}

// ServerConfig 控制台网关服务配置
type ServerConfig struct {
	Name        string   `mapstructure:"name"`
	Host        string   `mapstructure:"host"`
	Port        int      `mapstructure:"port"`
	Mode        string   `mapstructure:"mode"` // debug, release
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// BackendConfig 迁移后端 REST API 配置
type BackendConfig struct {
	BaseURL    string `mapstructure:"base_url"`    // 不含 /api 后缀
	Timeout    string `mapstructure:"timeout"`     // 单次请求超时
	RetryDelay string `mapstructure:"retry_delay"` // 读请求重试前等待
	Debug      bool   `mapstructure:"debug"`
}

// StateConfig 本地持久化状态（当前项目、侧边栏、分页大小）
type StateConfig struct {
	Driver          string `mapstructure:"driver"` // sqlite, mysql
	Path            string `mapstructure:"path"`   // sqlite 文件路径
	Watch           bool   `mapstructure:"watch"`  // 监听其他进程写入
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Database        string `mapstructure:"database"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 秒
	LogLevel        string `mapstructure:"log_level"`         // SQL日志级别: silent/error/warn/info
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string `mapstructure:"level"`  // debug, info, warn, error
	Format   string `mapstructure:"format"` // json, console
	Output   string `mapstructure:"output"` // stdout, file
	FilePath string `mapstructure:"file_path"`

	// 按大小滚动，仅 output=file 时生效
	MaxSizeMB  int `mapstructure:"max_size_mb"`
	MaxBackups int `mapstructure:"max_backups"`
	MaxAgeDays int `mapstructure:"max_age_days"`
}

// SchedulerConfig 定时任务配置
type SchedulerConfig struct {
	WavePollCron      string `mapstructure:"wave_poll_cron"`
	SelectionSyncCron string `mapstructure:"selection_sync_cron"`
}

// NotificationConfig 通知配置
type NotificationConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	LarkWebhook string `mapstructure:"lark_webhook"`
}

// Load 加载配置
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	// MIGCONSOLE_BACKEND_BASE_URL 覆盖 backend.base_url
	v.SetEnvPrefix("MIGCONSOLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.name", "migration-console")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("backend.timeout", "30s")
	v.SetDefault("backend.retry_delay", "500ms")
	v.SetDefault("state.driver", "sqlite")
	v.SetDefault("state.path", "data/console-state.db")
	v.SetDefault("state.watch", true)
	v.SetDefault("state.max_idle_conns", 2)
	v.SetDefault("state.max_open_conns", 4)
	v.SetDefault("state.conn_max_lifetime", 3600)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("scheduler.wave_poll_cron", "@every 10s")
	v.SetDefault("scheduler.selection_sync_cron", "@every 5s")
}

// Validate 校验必填项
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url 不能为空")
	}
	if _, err := c.Backend.GetTimeout(); err != nil {
		return fmt.Errorf("backend.timeout 格式错误: %w", err)
	}
	switch c.State.Driver {
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("不支持的 state.driver: %s", c.State.Driver)
	}
	return nil
}

// GetTimeout 请求超时
func (c *BackendConfig) GetTimeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 30 * time.Second, nil
	}
	return time.ParseDuration(c.Timeout)
}

// GetRetryDelay 读请求重试间隔，解析失败时退回默认值
func (c *BackendConfig) GetRetryDelay() time.Duration {
	d, err := time.ParseDuration(c.RetryDelay)
	if err != nil || d < 0 {
		return 500 * time.Millisecond
	}
	return d
}

// GetDSN 获取 MySQL DSN
func (c *StateConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.Username,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}
