package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置。优先级：环境变量 > 配置文件 > 默认值。
type Config struct {
	// Gemini（主AI）：主密钥 + 编号备用密钥组成密钥池
	GeminiAPIKey    string   `mapstructure:"gemini_api_key"`
	GeminiExtraKeys []string `mapstructure:"gemini_extra_keys"`
	GeminiModel     string   `mapstructure:"gemini_model"`

	// Groq（备AI）
	GroqAPIKey      string  `mapstructure:"groq_api_key"`
	GroqModel       string  `mapstructure:"groq_model"`
	GroqTemperature float32 `mapstructure:"groq_temperature"`
	GroqMaxTokens   int     `mapstructure:"groq_max_tokens"`

	// 翻译行为
	TargetLanguage string        `mapstructure:"target_language"`
	ChunkMaxLines  int           `mapstructure:"chunk_max_lines"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelay     time.Duration `mapstructure:"retry_delay"`
	KeyCooldown    time.Duration `mapstructure:"key_cooldown"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxConcurrent  int           `mapstructure:"max_concurrent"`

	// 数据文件
	StatsPath      string `mapstructure:"stats_path"`
	DictionaryPath string `mapstructure:"dictionary_path"`

	// 调试日志
	Debug bool `mapstructure:"debug"`
}

// Load 加载配置。cfgFile 为空时只用环境变量和默认值。
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)
	bindEnv(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// 编号备用密钥：GEMINI_API_KEY_2 .. GEMINI_API_KEY_9
	for i := 2; i <= 9; i++ {
		if key := v.GetString("gemini_api_key_" + strconv.Itoa(i)); key != "" {
			cfg.GeminiExtraKeys = append(cfg.GeminiExtraKeys, key)
		}
	}

	return &cfg, nil
}

// GeminiKeys 返回密钥池的完整密钥列表（主密钥在前）
func (c *Config) GeminiKeys() []string {
	var keys []string
	if c.GeminiAPIKey != "" {
		keys = append(keys, c.GeminiAPIKey)
	}
	return append(keys, c.GeminiExtraKeys...)
}

// HasAICredentials 是否配置了至少一个AI提供商
func (c *Config) HasAICredentials() bool {
	return c.GeminiAPIKey != "" || len(c.GeminiExtraKeys) > 0 || c.GroqAPIKey != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("gemini_model", "gemini-2.5-flash")
	v.SetDefault("groq_model", "llama-3.3-70b-versatile")
	v.SetDefault("groq_temperature", 0.3)
	v.SetDefault("groq_max_tokens", 2048)
	v.SetDefault("target_language", "Arabic")
	v.SetDefault("chunk_max_lines", 5)
	v.SetDefault("max_retries", 3)
	v.SetDefault("retry_delay", 500*time.Millisecond)
	v.SetDefault("key_cooldown", 5*time.Minute)
	v.SetDefault("request_timeout", 30*time.Second)
	v.SetDefault("max_concurrent", 8)
	v.SetDefault("stats_path", "data/usage_stats.json")
	v.SetDefault("dictionary_path", "")
	v.SetDefault("debug", false)
}

// bindEnv 绑定环境变量（沿用原始部署的变量名）
func bindEnv(v *viper.Viper) {
	v.BindEnv("gemini_api_key", "GEMINI_API_KEY")
	for i := 2; i <= 9; i++ {
		n := strconv.Itoa(i)
		v.BindEnv("gemini_api_key_"+n, "GEMINI_API_KEY_"+n)
	}
	v.BindEnv("gemini_model", "GEMINI_MODEL")
	v.BindEnv("groq_api_key", "GROQ_API_KEY")
	v.BindEnv("groq_model", "GROQ_MODEL")
	v.BindEnv("target_language", "TARGET_LANGUAGE")
	v.BindEnv("stats_path", "STATS_PATH")
	v.BindEnv("dictionary_path", "DICTIONARY_PATH")
	v.BindEnv("debug", "DEBUG")
}
