package store

import (
	"context"
	"time"
)

// QueryOpts filters QueryLLMEvents. Zero fields do not filter; Limit 0
// returns everything.
type QueryOpts struct {
	Limit     int
	Purpose   string
	StudentID string
	From      time.Time
	To        time.Time
}

// LLMRequestEventData is one model call as the audit log stores it.
// StudentID is empty for calls not made on behalf of a student.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	StudentID    string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

type LLMEventRecord struct {
	ID        string
	Timestamp time.Time
	LLMRequestEventData
}

// LLMPurposeUsage totals the calls made for one agent purpose.
type LLMPurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
	Failures     int
}

// LLMModelUsage totals the calls served by one model, for cost estimates.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo is the audit log of model calls. Query results are newest
// first; GetLLMEvent accepts an unambiguous id prefix.
type EventRepo interface {
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)
	GetLLMEvent(ctx context.Context, id string) (*LLMEventRecord, error)
	LLMUsageByPurpose(ctx context.Context) ([]LLMPurposeUsage, error)
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)
}
