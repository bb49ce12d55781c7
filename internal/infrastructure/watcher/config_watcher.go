package watcher

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/logisense/backend/internal/infrastructure/log"
)

// DefaultDebounceDelay 默认防抖延迟
const DefaultDebounceDelay = 500 * time.Millisecond

// ConfigWatcher 监听配置文件变更，防抖后触发回调
// 监听的是文件所在目录：编辑器常以“写临时文件再重命名”的方式保存
type ConfigWatcher struct {
	path     string
	debounce time.Duration
	onChange func(path string)
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	// 防抖相关
	timer   *time.Timer
	timerMu sync.Mutex

	// 控制
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewConfigWatcher 创建配置文件监听器
func NewConfigWatcher(path string, debounce time.Duration, onChange func(path string)) (*ConfigWatcher, error) {
	if path == "" {
		return nil, fmt.Errorf("config path cannot be empty")
	}
	if onChange == nil {
		return nil, fmt.Errorf("onChange callback required")
	}
	if debounce <= 0 {
		debounce = DefaultDebounceDelay
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &ConfigWatcher{
		path:     abs,
		debounce: debounce,
		onChange: onChange,
		watcher:  w,
		logger:   log.NewModuleLogger("watcher", "config"),
		stopCh:   make(chan struct{}),
	}, nil
}

// Start 启动监听
func (cw *ConfigWatcher) Start() error {
	dir := filepath.Dir(cw.path)
	if err := cw.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	cw.logger.Info("Watching config file", "path", cw.path)

	cw.wg.Add(1)
	go cw.watchLoop()
	return nil
}

// Stop 停止监听
func (cw *ConfigWatcher) Stop() {
	cw.stopOnce.Do(func() {
		close(cw.stopCh)
		cw.watcher.Close()
		cw.wg.Wait()

		cw.timerMu.Lock()
		if cw.timer != nil {
			cw.timer.Stop()
		}
		cw.timerMu.Unlock()

		cw.logger.Info("Config watcher stopped")
	})
}

func (cw *ConfigWatcher) watchLoop() {
	defer cw.wg.Done()

	for {
		select {
		case <-cw.stopCh:
			return

		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if cw.isConfigEvent(event) {
				cw.schedule()
			}

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.logger.Error("Watcher error", "error", err)
		}
	}
}

// isConfigEvent 只关心目标文件的写入/创建/重命名
func (cw *ConfigWatcher) isConfigEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != cw.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

func (cw *ConfigWatcher) schedule() {
	cw.timerMu.Lock()
	defer cw.timerMu.Unlock()

	if cw.timer != nil {
		cw.timer.Stop()
	}
	cw.timer = time.AfterFunc(cw.debounce, func() {
		select {
		case <-cw.stopCh:
			return
		default:
		}
		cw.logger.Info("Config file changed", "path", cw.path)
		cw.onChange(cw.path)
	})
}
