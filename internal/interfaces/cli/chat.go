package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "进入交互式对话模式",
	Long: `进入控制台 REPL，逐条输入问题。
同一会话内的追问复用上一轮结果，输入 exit/quit 退出。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigChan)
		go func() {
			select {
			case <-sigChan:
				cancel()
			case <-ctx.Done():
			}
		}()

		assistant, cleanup, err := newAssistant()
		if err != nil {
			return err
		}
		defer cleanup()

		return runChat(ctx, assistant, sessionID, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

// runChat 控制台对话循环，单轮失败只输出错误并继续
func runChat(ctx context.Context, asker Asker, sessionID string, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)

	fmt.Fprintln(out, "Logisense chatbot ready.")
	fmt.Fprintln(out, "Type your query (or 'exit' to quit)")
	for {
		if ctx.Err() != nil {
			fmt.Fprintln(out, "Exiting chatbot.")
			return nil
		}

		fmt.Fprint(out, "\nYou: ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			fmt.Fprintln(out, "\nExiting chatbot.")
			return nil
		}

		line := normalizeQuotes(scanner.Text())
		if line == "" {
			continue
		}
		switch strings.ToLower(line) {
		case "exit", "quit":
			fmt.Fprintln(out, "Exiting chatbot.")
			return nil
		}

		answer, err := asker.Ask(ctx, sessionID, line)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		printAnswer(out, answer)
	}
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
