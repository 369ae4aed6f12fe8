package store

import (
	"context"
	"time"

	"github.com/abhisek/skillpulse/internal/analytics"
)

// QueryOpts configures history and event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
	Desc   bool      // newest first
}

// ReportFilter narrows a history listing to one learner and/or program.
type ReportFilter struct {
	LearnerID string
	ProgramID string
	QueryOpts
}

// SavedReport is a report persisted with the identity of the tree it was
// computed from.
type SavedReport struct {
	ID          string
	Sequence    int64
	CreatedAt   time.Time
	LearnerID   string
	ProgramID   string
	ProgramName string
	Source      string
	Report      analytics.Report
}

// ReportSummary is the listing view of a saved report; it omits the body.
type ReportSummary struct {
	ID                string
	Sequence          int64
	CreatedAt         time.Time
	LearnerID         string
	ProgramID         string
	ProgramName       string
	Source            string
	OverallCompletion float64
	AverageScore      float64
}

// ReportRepo manages saved reports.
type ReportRepo interface {
	// Save stores a new report. It assigns ID, Sequence and, when unset,
	// CreatedAt on rep.
	Save(ctx context.Context, rep *SavedReport) error

	// Get returns the report with id, or ErrNotFound.
	Get(ctx context.Context, id string) (*SavedReport, error)

	// List returns summaries, newest first.
	List(ctx context.Context, f ReportFilter) ([]ReportSummary, error)

	// Latest returns the newest report for the learner and program, or nil
	// if none exist. Anonymous input has no history, so an empty learner or
	// program ID always yields nil.
	Latest(ctx context.Context, learnerID, programID string) (*SavedReport, error)

	// Prune deletes all but the keep most recent reports and returns how
	// many were removed.
	Prune(ctx context.Context, keep int) (int64, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage is aggregated token usage for one purpose or model.
type LLMUsage struct {
	Key          string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMRequests returns events in sequence order, or newest first
	// when opts.Desc is set.
	QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMRequest returns the event with the given sequence, or ErrNotFound.
	GetLLMRequest(ctx context.Context, sequence int64) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates usage per request purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}
