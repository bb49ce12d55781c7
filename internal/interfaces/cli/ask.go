package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <query>",
	Short: "执行一次查询",
	Long: `执行一次完整查询并输出回答。
"show top 3 records" 之类的追问复用同一会话上一轮的检索结果；
查询中包含 map / plot 时额外生成地图文件。`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		assistant, cleanup, err := newAssistant()
		if err != nil {
			return err
		}
		defer cleanup()

		query := normalizeQuotes(strings.Join(args, " "))
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Query: %s\n", query)

		answer, err := assistant.Ask(cmd.Context(), sessionID, query)
		if err != nil {
			return err
		}
		printAnswer(out, answer)
		return nil
	},
}

// normalizeQuotes 替换中英文弯引号并去除首尾空白
func normalizeQuotes(s string) string {
	return strings.TrimSpace(strings.NewReplacer("“", `"`, "”", `"`, "‘", "'", "’", "'").Replace(s))
}

func init() {
	rootCmd.AddCommand(askCmd)
}
