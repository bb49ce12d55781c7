package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/logisense/backend/internal/infrastructure/config"
)

// GetDBPath 获取默认数据库路径
// Windows: %USERPROFILE%\.logisense\sessions.db
// macOS/Linux: ~/.logisense/sessions.db
func GetDBPath() string {
	return filepath.Join(config.GetDataDir(), "sessions.db")
}

// OpenDB 打开数据库连接，path 为空时使用默认路径
func OpenDB(path string) (*sql.DB, error) {
	if path == "" {
		path = GetDBPath()
	}

	// 确保目录存在
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// 单写者，避免 SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := InitDatabase(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// InitDatabase 初始化表结构
func InitDatabase(db *sql.DB) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS conversation_contexts (
		session_id TEXT PRIMARY KEY,
		last_query TEXT NOT NULL,
		last_documents TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);`

	if _, err := db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to create conversation_contexts table: %w", err)
	}

	createIndexSQL := `
	CREATE INDEX IF NOT EXISTS idx_conversation_contexts_updated ON conversation_contexts(updated_at);`

	if _, err := db.Exec(createIndexSQL); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	return nil
}

// ProvideDB 根据会话配置打开数据库
func ProvideDB(cfg *config.SessionConfig) (*sql.DB, error) {
	return OpenDB(cfg.SQLitePath)
}
