package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	appQuery "github.com/logisense/backend/internal/application/query"
	domainQuery "github.com/logisense/backend/internal/domain/query"
	"github.com/logisense/backend/internal/infrastructure/log"
)

// AskInput ask_logistics 工具输入
type AskInput struct {
	Query     string `json:"query" jsonschema:"Logistics question in natural language (required)"`
	SessionID string `json:"session_id,omitempty" jsonschema:"Conversation session ID, defaults to the shared default session"`
}

// ShowRecordsInput show_records 工具输入
type ShowRecordsInput struct {
	Query     string `json:"query,omitempty" jsonschema:"Follow-up text containing the number of records, e.g. show top 3 records"`
	SessionID string `json:"session_id,omitempty" jsonschema:"Conversation session ID used by ask_logistics"`
}

// AnswerOutput 工具输出
type AnswerOutput struct {
	Response   string               `json:"response" jsonschema:"Answer text or record table"`
	TopRecords []domainQuery.Record `json:"top_records" jsonschema:"Supporting structured records"`
	MapURL     string               `json:"map_url,omitempty" jsonschema:"URL of the generated map, when one was requested and could be drawn"`
	Category   string               `json:"category,omitempty" jsonschema:"Advisory query category"`
	FollowUp   bool                 `json:"follow_up" jsonschema:"Whether the answer reused the previous documents"`
	SessionID  string               `json:"session_id" jsonschema:"Session the answer belongs to"`
}

func (s *MCPServer) askTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AnswerOutput, error) {
	if input.Query == "" {
		return nil, AnswerOutput{}, fmt.Errorf("query is required")
	}

	answer, err := s.assistant.Ask(ctx, input.SessionID, input.Query)
	if err != nil {
		log.FromContext(ctx, s.logger).Warn("ask_logistics failed", "error", err)
		return nil, AnswerOutput{}, err
	}
	return nil, toOutput(answer), nil
}

func (s *MCPServer) showRecordsTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ShowRecordsInput,
) (*mcp.CallToolResult, AnswerOutput, error) {
	answer, err := s.assistant.ShowRecords(ctx, input.SessionID, input.Query)
	if err != nil {
		return nil, AnswerOutput{}, err
	}
	return nil, toOutput(answer), nil
}

func toOutput(answer *appQuery.Answer) AnswerOutput {
	records := answer.TopRecords
	if records == nil {
		records = []domainQuery.Record{}
	}
	return AnswerOutput{
		Response:   answer.Response,
		TopRecords: records,
		MapURL:     answer.MapURL,
		Category:   string(answer.Category),
		FollowUp:   answer.FollowUp,
		SessionID:  answer.SessionID,
	}
}
