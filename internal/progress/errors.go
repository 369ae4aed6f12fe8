package progress

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownShape       = errors.New("input is neither a progress tree nor a concept list")
	ErrUnsupportedVersion = errors.New("unsupported schema version")
)

// DecodeError reports input that could not be read as the detected shape.
type DecodeError struct {
	Kind Kind
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("decode progress: %v", e.Err)
	}
	return fmt.Sprintf("decode %s progress: %v", e.Kind, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IssueKind classifies a value that was repaired during decoding.
type IssueKind string

const (
	IssueMissingDefault IssueKind = "missing-default"
	IssueClamped        IssueKind = "clamped"
	IssueBadNumber      IssueKind = "bad-number"
	IssueBadTimestamp   IssueKind = "bad-timestamp"
)

// Issue records one repaired value. Decoding never fails on these.
type Issue struct {
	Kind   IssueKind
	Path   string
	Detail string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s at %s: %s", i.Kind, i.Path, i.Detail)
}
