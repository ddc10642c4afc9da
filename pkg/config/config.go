package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	SQLite    SQLiteConfig
	Redis     RedisConfig
	LLM       LLMConfig
	Knowledge KnowledgeConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host               string
	Port               int
	ReadTimeout        int
	WriteTimeout       int
	BodyLimit          int
	Environment        string
	AllowedOrigins     []string
	RateLimitPerMinute int
}

type SQLiteConfig struct {
	Path string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	TTLSec   int
}

type LLMConfig struct {
	APIKey       string
	ChatModel    string
	CaseGenModel string
	EvalModel    string
	Temperature  float32
	MaxTokens    int
	TimeoutSec   int
}

// KnowledgeConfig bounds how much reference-document text is folded into a
// system prompt: at most MaxDocs excerpts of ExcerptChars characters each.
type KnowledgeConfig struct {
	MaxDocs      int
	ExcerptChars int
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/clinsim")

	viper.SetEnvPrefix("CLINSIM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.readTimeout", 60)
	viper.SetDefault("server.writeTimeout", 60)
	viper.SetDefault("server.bodyLimit", 10485760)
	viper.SetDefault("server.environment", "development")
	viper.SetDefault("server.allowedOrigins", []string{})
	viper.SetDefault("server.rateLimitPerMinute", 60)

	viper.SetDefault("sqlite.path", "./data/clinsim.db")

	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.ttlSec", 3600)

	viper.SetDefault("llm.chatModel", "gpt-4o-mini")
	viper.SetDefault("llm.caseGenModel", "gpt-4o")
	viper.SetDefault("llm.evalModel", "gpt-4o-mini")
	viper.SetDefault("llm.temperature", 0.7)
	viper.SetDefault("llm.maxTokens", 4000)
	viper.SetDefault("llm.timeoutSec", 60)

	viper.SetDefault("knowledge.maxDocs", 3)
	viper.SetDefault("knowledge.excerptChars", 2000)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.outputPath", "stdout")
}
