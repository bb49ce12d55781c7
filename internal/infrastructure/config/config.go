package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	domainQuery "github.com/logisense/backend/internal/domain/query"
	applog "github.com/logisense/backend/internal/infrastructure/log"
)

// 环境变量名
const (
	EnvConfigPath    = "LOGISENSE_CONFIG"
	EnvHTTPPort      = "LOGISENSE_HTTP_PORT"
	EnvPublicURL     = "LOGISENSE_PUBLIC_URL"
	EnvLLMAPIKey     = "OPENROUTER_API_KEY"
	EnvLLMURL        = "LLM_API_URL"
	EnvLLMModel      = "LLM_MODEL"
	EnvEmbeddingKey  = "EMBEDDING_API_KEY"
	EnvEmbeddingURL  = "EMBEDDING_API_URL"
	EnvEmbeddingName = "EMBEDDING_MODEL"
	EnvQdrantHost    = "QDRANT_HOST"
	EnvQdrantPort    = "QDRANT_PORT"
	EnvQdrantAPIKey  = "QDRANT_API_KEY"
	EnvSessionStore  = "SESSION_STORE"
	EnvRedisAddr     = "REDIS_ADDR"
)

// 分类失败处理模式
const (
	ClassifierFailureDegrade = "degrade"
	ClassifierFailureFail    = "fail"
)

// 会话存储类型
const (
	SessionStoreMemory = "memory"
	SessionStoreSQLite = "sqlite"
	SessionStoreRedis  = "redis"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig             `yaml:"server"`
	Log       applog.Config            `yaml:"log"`
	Qdrant    QdrantConfig             `yaml:"qdrant"`
	Embedding EmbeddingConfig          `yaml:"embedding"`
	LLM       LLMConfig                `yaml:"llm"`
	Pipeline  PipelineConfig           `yaml:"pipeline"`
	Intent    domainQuery.IntentConfig `yaml:"intent"`
	Spatial   SpatialConfig            `yaml:"spatial"`
	Session   SessionConfig            `yaml:"session"`

	// Path 配置文件来源（为空表示仅使用默认值和环境变量）
	Path string `yaml:"-"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTPPort    string   `yaml:"http_port"` // 固定端口，用于单例锁
	MCPEnabled  bool     `yaml:"mcp_enabled"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// QdrantConfig 向量库配置
type QdrantConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"` // gRPC 端口
	APIKey     string `yaml:"api_key"`
	UseTLS     bool   `yaml:"use_tls"`
	Collection string `yaml:"collection"`
}

// EmbeddingConfig Embedding API 配置（OpenAI 兼容）
type EmbeddingConfig struct {
	URL     string        `yaml:"url"`
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// LLMConfig Chat API 配置（OpenAI 兼容）
type LLMConfig struct {
	URL         string        `yaml:"url"`
	APIKey      string        `yaml:"api_key"`
	Model       string        `yaml:"model"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

// PipelineConfig 查询流水线配置
type PipelineConfig struct {
	ClassifyTimeout   time.Duration `yaml:"classify_timeout"`
	RetrieveTimeout   time.Duration `yaml:"retrieve_timeout"`
	SynthesizeTimeout time.Duration `yaml:"synthesize_timeout"`
	// ClassifierFailure 分类失败处理：degrade（降级为 UNKNOWN）或 fail（中止）
	ClassifierFailure string `yaml:"classifier_failure"`
}

// SpatialConfig 地图输出配置
type SpatialConfig struct {
	OutputDir      string `yaml:"output_dir"`
	PublicBaseURL  string `yaml:"public_base_url"` // 对外暴露的静态文件前缀
	Format         string `yaml:"format"`          // html / png
	SummaryPattern string `yaml:"summary_pattern"` // 为空使用默认模式
}

// SessionConfig 会话上下文存储配置
type SessionConfig struct {
	Store         string        `yaml:"store"` // memory / sqlite / redis
	SQLitePath    string        `yaml:"sqlite_path"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	TTL           time.Duration `yaml:"ttl"`
}

// NewConfig 创建配置（默认值 + 环境变量覆盖）
func NewConfig() *Config {
	cfg := defaultConfig()
	cfg.applyEnv()
	return cfg
}

// defaultConfig 默认配置
func defaultConfig() *Config {
	dataDir := GetDataDir()
	return &Config{
		Server: ServerConfig{
			HTTPPort:    ":8000",
			MCPEnabled:  true,
			CORSOrigins: []string{"*"},
		},
		Log: *applog.NewConfigFromEnv(),
		Qdrant: QdrantConfig{
			Host:       "localhost",
			Port:       6334,
			Collection: "telemetry_docs",
		},
		Embedding: EmbeddingConfig{
			URL:     "http://localhost:8080/v1",
			Model:   "all-MiniLM-L6-v2",
			Timeout: 30 * time.Second,
		},
		LLM: LLMConfig{
			URL:         "https://openrouter.ai/api/v1",
			Model:       "mistralai/mistral-7b-instruct",
			Temperature: 0.7,
			Timeout:     60 * time.Second,
		},
		Pipeline: PipelineConfig{
			ClassifyTimeout:   30 * time.Second,
			RetrieveTimeout:   30 * time.Second,
			SynthesizeTimeout: 60 * time.Second,
			ClassifierFailure: ClassifierFailureDegrade,
		},
		Intent: domainQuery.DefaultIntentConfig(),
		Spatial: SpatialConfig{
			OutputDir:     filepath.Join(dataDir, "static"),
			PublicBaseURL: "", // 为空时由 server.http_port 推导
			Format:        "html",
		},
		Session: SessionConfig{
			Store:      SessionStoreMemory,
			SQLitePath: filepath.Join(dataDir, "sessions.db"),
			RedisAddr:  "localhost:6379",
			TTL:        24 * time.Hour,
		},
	}
}

// Load 加载配置：.env -> 默认值 -> YAML 文件 -> 环境变量
// path 为空时按 ./logisense.yaml、./configs/logisense.yaml、<data dir>/config.yaml 搜索
func Load(path string) (*Config, error) {
	// .env 文件可选
	_ = godotenv.Load()

	cfg := defaultConfig()

	resolved, err := resolvePath(path)
	if err != nil {
		return nil, err
	}
	if resolved != "" {
		data, err := os.ReadFile(resolved)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", resolved, err)
		}
		cfg.Path = resolved
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	switch c.Pipeline.ClassifierFailure {
	case ClassifierFailureDegrade, ClassifierFailureFail:
	default:
		return fmt.Errorf("invalid pipeline.classifier_failure %q (supported: degrade, fail)", c.Pipeline.ClassifierFailure)
	}
	switch c.Session.Store {
	case SessionStoreMemory, SessionStoreSQLite, SessionStoreRedis:
	default:
		return fmt.Errorf("invalid session.store %q (supported: memory, sqlite, redis)", c.Session.Store)
	}
	switch c.Spatial.Format {
	case "html", "png":
	default:
		return fmt.Errorf("invalid spatial.format %q (supported: html, png)", c.Spatial.Format)
	}
	if c.Qdrant.Collection == "" {
		return errors.New("qdrant.collection cannot be empty")
	}
	return nil
}

// resolvePath 查找配置文件，显式指定但不存在时报错
func resolvePath(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config file not found: %w", err)
		}
		return path, nil
	}

	candidates := []string{
		"logisense.yaml",
		filepath.Join("configs", "logisense.yaml"),
		filepath.Join(GetDataDir(), "config.yaml"),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", nil
}

// applyEnv 环境变量覆盖
func (c *Config) applyEnv() {
	setString(&c.Server.HTTPPort, EnvHTTPPort)
	setString(&c.Spatial.PublicBaseURL, EnvPublicURL)
	setString(&c.LLM.APIKey, EnvLLMAPIKey)
	setString(&c.LLM.URL, EnvLLMURL)
	setString(&c.LLM.Model, EnvLLMModel)
	setString(&c.Embedding.APIKey, EnvEmbeddingKey)
	setString(&c.Embedding.URL, EnvEmbeddingURL)
	setString(&c.Embedding.Model, EnvEmbeddingName)
	setString(&c.Qdrant.Host, EnvQdrantHost)
	setString(&c.Qdrant.APIKey, EnvQdrantAPIKey)
	setString(&c.Session.Store, EnvSessionStore)
	setString(&c.Session.RedisAddr, EnvRedisAddr)

	if v := os.Getenv(EnvQdrantPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Qdrant.Port = port
		}
	}

	if c.Spatial.PublicBaseURL == "" {
		c.Spatial.PublicBaseURL = staticURLFor(c.Server.HTTPPort)
	}
}

// staticURLFor 由监听地址推导静态文件前缀，通配地址映射为 localhost
func staticURLFor(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		host, port = "", addr
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "localhost"
	}
	if port == "" {
		port = "8000"
	}
	return "http://" + net.JoinHostPort(host, port) + "/static"
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// NewServerConfig 创建服务器配置
func NewServerConfig(cfg *Config) *ServerConfig {
	return &cfg.Server
}

// NewPipelineConfig 创建流水线配置
func NewPipelineConfig(cfg *Config) *PipelineConfig {
	return &cfg.Pipeline
}

// NewSpatialConfig 创建地图配置
func NewSpatialConfig(cfg *Config) *SpatialConfig {
	return &cfg.Spatial
}

// NewSessionConfig 创建会话存储配置
func NewSessionConfig(cfg *Config) *SessionConfig {
	return &cfg.Session
}
