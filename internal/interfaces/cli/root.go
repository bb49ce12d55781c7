package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	appQuery "github.com/logisense/backend/internal/application/query"
	domainQuery "github.com/logisense/backend/internal/domain/query"
	"github.com/logisense/backend/internal/infrastructure/config"
	applog "github.com/logisense/backend/internal/infrastructure/log"
	"github.com/logisense/backend/internal/wire"
)

var (
	cfgFile   string
	sessionID string
	verbose   bool
	cfg       *config.Config
)

// errReported 错误信息已输出给用户，只需以非零状态退出
var errReported = errors.New("reported")

// rootCmd 没有子命令时调用的基础命令
var rootCmd = &cobra.Command{
	Use:   "logisense",
	Short: "logisense 物流遥测问答助手",
	Long: `logisense 基于已入库的物流遥测摘要回答自然语言问题：
分类 -> 向量检索 -> LLM 生成，支持"展示前 N 条记录"追问和地图绘制。`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if !verbose && cmd.Name() != "serve" {
			loaded.Log.Level = "warn"
			loaded.Log.Output = "stderr"
		}
		applog.Init(&loaded.Log)
		cfg = loaded
		return nil
	},
}

// Execute 执行根命令，由 main 调用
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", os.Getenv(config.EnvConfigPath), "配置文件（默认按 ./logisense.yaml、./configs/logisense.yaml、~/.logisense/config.yaml 搜索）")
	rootCmd.PersistentFlags().StringVar(&sessionID, "session", domainQuery.DefaultSessionID, "会话 ID，追问复用同一会话的上一轮结果")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出 info 级别日志")
}

// newAssistant 创建 CLI 使用的查询服务
// 内存存储无法跨进程保留上下文，CLI 改用 SQLite
func newAssistant() (*appQuery.AssistantService, func(), error) {
	cliCfg := *cfg
	if cliCfg.Session.Store == config.SessionStoreMemory {
		cliCfg.Session.Store = config.SessionStoreSQLite
	}
	return wire.InitializeAssistant(&cliCfg)
}
