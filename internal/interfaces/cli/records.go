package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	appQuery "github.com/logisense/backend/internal/application/query"
	domainQuery "github.com/logisense/backend/internal/domain/query"
)

// NoContextMessage 会话中没有上一轮结果时的提示
const NoContextMessage = "No previous query context found. Please run a primary query first."

// RecordShower 独立追问
type RecordShower interface {
	ShowRecords(ctx context.Context, sessionID, query string) (*appQuery.Answer, error)
}

var recordsCmd = &cobra.Command{
	Use:   "records [query]",
	Short: "展示上一轮查询的支撑记录",
	Long: `只读取会话中保存的上一轮检索结果，不触发新的检索。
查询中的第一个数字作为条数，默认 5 条。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		assistant, cleanup, err := newAssistant()
		if err != nil {
			return err
		}
		defer cleanup()

		return showRecords(cmd.Context(), assistant, sessionID, normalizeQuotes(strings.Join(args, " ")), cmd.OutOrStdout())
	},
}

func showRecords(ctx context.Context, shower RecordShower, sessionID, query string, out io.Writer) error {
	answer, err := shower.ShowRecords(ctx, sessionID, query)
	if errors.Is(err, domainQuery.ErrNoPriorContext) {
		fmt.Fprintln(out, NoContextMessage)
		return errReported
	}
	if err != nil {
		return err
	}
	printAnswer(out, answer)
	return nil
}

func init() {
	rootCmd.AddCommand(recordsCmd)
}
