package progress

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Wire types mirror the JSON produced by the progress report endpoint.
// Numeric fields arrive as numbers, numeric strings or null, so they are
// decoded through the flex types below and repaired during conversion.

type wireEnvelope struct {
	Kind          Kind            `json:"kind"`
	SchemaVersion string          `json:"schemaVersion"`
	Tree          json.RawMessage `json:"tree"`
	Concepts      json.RawMessage `json:"concepts"`
}

type wireTree struct {
	SchemaVersion string      `json:"schemaVersion"`
	ProgramID     flexString  `json:"programId"`
	ProgramName   string      `json:"programName"`
	LearnerID     flexString  `json:"learnerId"`
	Stages        []wireStage `json:"stages"`
}

type wireStage struct {
	StageName string     `json:"stageName"`
	Units     []wireUnit `json:"units"`
}

type wireUnit struct {
	UnitName    string           `json:"unitName"`
	Subconcepts []wireSubconcept `json:"subconcepts"`
}

type wireSubconcept struct {
	SubconceptID       flexString    `json:"subconceptId"`
	SubconceptDesc     string        `json:"subconceptDesc"`
	SubconceptMaxscore flexNumber    `json:"subconceptMaxscore"`
	HighestScore       flexNumber    `json:"highestScore"`
	Completed          flexBool      `json:"completed"`
	Attempts           []wireAttempt `json:"attempts"`
	Concept            *wireConcept  `json:"concept"`
}

type wireAttempt struct {
	EndTimestamp flexTime   `json:"endTimestamp"`
	Score        flexNumber `json:"score"`
}

type wireConcept struct {
	ConceptID     flexString `json:"conceptId"`
	ConceptName   string     `json:"conceptName"`
	ConceptSkill1 string     `json:"conceptSkill1"`
	ConceptSkill2 string     `json:"conceptSkill2"`
}

type wireFlatConcept struct {
	ConceptID            flexString `json:"conceptId"`
	ConceptName          string     `json:"conceptName"`
	TotalMaxScore        flexNumber `json:"totalMaxScore"`
	UserTotalScore       flexNumber `json:"userTotalScore"`
	CompletedSubconcepts flexNumber `json:"completedSubconcepts"`
	TotalSubconcepts     flexNumber `json:"totalSubconcepts"`
	Skill1               string     `json:"skill1"`
	Skill2               string     `json:"skill2"`
}

// flexNumber accepts a JSON number, a numeric string, or null.
type flexNumber struct {
	Value float64
	Set   bool
	Bad   bool
	Raw   string
}

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil
		}
	}
	n.Raw = raw
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		n.Bad = true
		return nil
	}
	n.Value, n.Set = v, true
	return nil
}

// flexString accepts a JSON string or number (IDs are often numeric).
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	*s = flexString(b)
	return nil
}

// flexBool accepts true/false, 0/1, and "true"/"false"/"1"/"0".
type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	s := strings.ToLower(strings.Trim(string(b), `"`))
	switch s {
	case "true", "1", "yes":
		*f = true
	default:
		*f = false
	}
	return nil
}

// flexTime accepts RFC 3339 strings, "YYYY-MM-DD HH:MM:SS", or epoch
// seconds/milliseconds.
type flexTime struct {
	Value time.Time
	Bad   bool
	Raw   string
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

func (t *flexTime) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		t.Raw = s
		for _, layout := range timeLayouts {
			if v, err := time.Parse(layout, s); err == nil {
				t.Value = v.UTC()
				return nil
			}
		}
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			t.Value = epoch(n)
			return nil
		}
		t.Bad = true
		return nil
	}
	t.Raw = string(b)
	n, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		t.Bad = true
		return nil
	}
	t.Value = epoch(n)
	return nil
}

// epoch converts seconds or milliseconds since the Unix epoch.
// Values above 1e12 are taken as milliseconds.
func epoch(n float64) time.Time {
	if n > 1e12 {
		return time.UnixMilli(int64(n)).UTC()
	}
	return time.Unix(int64(n), 0).UTC()
}
