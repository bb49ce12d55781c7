package cli

import (
	"context"
	"fmt"
	"io"

	appQuery "github.com/logisense/backend/internal/application/query"
)

// Asker 单轮查询
type Asker interface {
	Ask(ctx context.Context, sessionID, query string) (*appQuery.Answer, error)
}

// printAnswer 输出一轮回答
func printAnswer(out io.Writer, answer *appQuery.Answer) {
	if answer.FollowUp {
		fmt.Fprintf(out, "\n%s\n", answer.Response)
	} else {
		if answer.Category != "" {
			fmt.Fprintf(out, "Route: %s\n", answer.Category)
		}
		fmt.Fprintf(out, "\nFinal Response:\n%s\n", answer.Response)
	}

	if answer.MapRequested {
		if answer.MapURL != "" {
			fmt.Fprintf(out, "\nMap saved to %s (%s)\n", answer.MapPath, answer.MapURL)
		} else {
			fmt.Fprintln(out, "\nMap could not be generated: no valid geospatial records.")
		}
	}
}
