package log

import (
	"os"
	"strconv"
	"strings"
)

// envPrefix 带前缀的变量优先于通用变量（LOGISENSE_LOG_LEVEL > LOG_LEVEL）
const envPrefix = "LOGISENSE_"

// Config 日志配置
type Config struct {
	// Level debug, info, warn, error
	Level string `yaml:"level" json:"level"`
	// Format console, text, json
	Format string `yaml:"format" json:"format"`
	// Output stdout, stderr, file:/path/to/log
	Output    string `yaml:"output" json:"output"`
	AddSource bool   `yaml:"add_source" json:"add_source"`
}

// NewConfigFromEnv 从环境变量创建配置，开发环境强制 debug + console
func NewConfigFromEnv() *Config {
	cfg := &Config{
		Level:     lookupEnv("LOG_LEVEL", "info"),
		Format:    lookupEnv("LOG_FORMAT", "console"),
		Output:    lookupEnv("LOG_OUTPUT", "stdout"),
		AddSource: getEnvBool(envPrefix+"LOG_ADD_SOURCE", getEnvBool("LOG_ADD_SOURCE", false)),
	}

	if isDevelopment() {
		cfg.Level = "debug"
		cfg.Format = "console"
		cfg.AddSource = true
	}
	return cfg
}

func isDevelopment() bool {
	return strings.EqualFold(lookupEnv("ENV", "production"), "development")
}

// lookupEnv 依次读取 LOGISENSE_<key> 与 <key>
func lookupEnv(key, defaultValue string) string {
	if value := os.Getenv(envPrefix + key); value != "" {
		return value
	}
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolValue
}
