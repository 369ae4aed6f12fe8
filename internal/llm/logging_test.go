package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/abhisek/skillpulse/internal/store"
)

type recordingRepo struct {
	store.EventRepo
	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, data)
	return r.err
}

func bufferLogger(buf *bytes.Buffer) *zap.Logger {
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(buf), zapcore.DebugLevel))
}

func TestLoggingProvider_RecordsSuccess(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"skill":"Reading","score":80}`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 4},
	})
	p := WithLogging(mock, ProviderMock, repo, nil)

	ctx := WithPurpose(context.Background(), PurposeCoach)
	req := UserPrompt("sys", "hello", testSchema(), 100)
	if _, err := p.Generate(ctx, req); err != nil {
		t.Fatalf("generate: %v", err)
	}

	if len(repo.events) != 1 {
		t.Fatalf("events = %d, want 1", len(repo.events))
	}
	ev := repo.events[0]
	if ev.Provider != "mock" || ev.Purpose != "coach" || !ev.Success {
		t.Errorf("event = %+v", ev)
	}
	if ev.InputTokens != 12 || ev.OutputTokens != 4 {
		t.Errorf("tokens = %d/%d, want 12/4", ev.InputTokens, ev.OutputTokens)
	}
	if !strings.Contains(ev.RequestBody, "[schema: test-skill-note]") {
		t.Errorf("request body missing schema: %q", ev.RequestBody)
	}
	if ev.ResponseBody != `{"skill":"Reading","score":80}` {
		t.Errorf("response body = %q", ev.ResponseBody)
	}
}

func TestLoggingProvider_RecordsFailureAndLogs(t *testing.T) {
	var buf bytes.Buffer
	repo := &recordingRepo{err: errors.New("disk full")}
	p := WithLogging(NewMockProvider(), ProviderMock, repo, bufferLogger(&buf))

	_, err := p.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error from empty mock")
	}
	if len(repo.events) != 1 || repo.events[0].Success {
		t.Fatalf("events = %+v, want one failure", repo.events)
	}
	out := buf.String()
	if !strings.Contains(out, "llm request failed") {
		t.Errorf("missing failure log: %q", out)
	}
	if !strings.Contains(out, "failed to record LLM request event") {
		t.Errorf("missing repo failure log: %q", out)
	}
}

func TestLoggingProvider_NilRepo(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	p := WithLogging(mock, ProviderMock, nil, nil)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Errorf("model = %q", p.ModelID())
	}
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: ProviderMock}, nil, nil)
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if _, ok := p.(*MockProvider); !ok {
		t.Errorf("provider = %T, want *MockProvider", p)
	}

	if _, err := NewProvider(context.Background(), Config{Provider: ProviderOpenAI}, nil, nil); err == nil {
		t.Error("expected error for missing key")
	}

	cfg := DefaultConfig()
	cfg.Provider = ProviderOpenAI
	cfg.OpenAI.APIKey = "sk-test"
	p, err = NewProvider(context.Background(), cfg, nil, nil)
	if err != nil {
		t.Fatalf("NewProvider openai: %v", err)
	}
	tp, ok := p.(*TimeoutProvider)
	if !ok {
		t.Fatalf("provider = %T, want *TimeoutProvider", p)
	}
	if _, ok := tp.inner.(*RetryProvider); !ok {
		t.Errorf("inner = %T, want *RetryProvider", tp.inner)
	}
	if p.ModelID() != "gpt-4o-mini" {
		t.Errorf("model = %q", p.ModelID())
	}
}
