package tokenizer

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// 在包初始化时设置离线加载器
func init() {
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
}

// Encoding 默认编码
const Encoding = "cl100k_base"

// Estimator 使用 tiktoken 估算 prompt 的 Token 数量
type Estimator struct {
	encoding *tiktoken.Tiktoken
	mu       sync.Mutex
}

var (
	instance *Estimator
	once     sync.Once
	initErr  error
)

// GetEstimator 获取 Estimator 单例，避免重复加载编码文件
func GetEstimator() (*Estimator, error) {
	once.Do(func() {
		enc, err := tiktoken.GetEncoding(Encoding)
		if err != nil {
			initErr = err
			return
		}
		instance = &Estimator{encoding: enc}
	})

	if initErr != nil {
		return nil, initErr
	}
	return instance, nil
}

// CountTokens 计算文本的 Token 数量
func (e *Estimator) CountTokens(text string) int {
	if text == "" {
		return 0
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.encoding.Encode(text, nil, nil))
}

// CountTokensBatch 批量计算多个文本的 Token 数量
func (e *Estimator) CountTokensBatch(texts []string) int {
	total := 0
	for _, text := range texts {
		total += e.CountTokens(text)
	}
	return total
}
