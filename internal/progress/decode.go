package progress

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"golang.org/x/mod/semver"
)

// SupportedMajor is the schema major version this decoder understands.
const SupportedMajor = "v1"

// Decoded is the result of reading a progress document.
type Decoded struct {
	Input         Input
	SchemaVersion string
	Issues        []Issue
}

// Read decodes a progress document from r. See Decode.
func Read(r io.Reader) (*Decoded, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read progress: %w", err)
	}
	return Decode(data)
}

// Decode detects the document shape (tree, flat list, or tagged envelope),
// validates its structure, and converts it to a typed Input. Missing or
// malformed values are repaired and reported as Issues rather than errors.
// Empty documents and a literal null decode to an empty tree.
func Decode(data []byte) (*Decoded, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return &Decoded{
			Input:  FromTree(Tree{}),
			Issues: []Issue{{Kind: IssueMissingDefault, Path: "$", Detail: "no document, using empty tree"}},
		}, nil
	}

	var doc any
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, &DecodeError{Err: err}
	}

	switch v := doc.(type) {
	case []any:
		return decodeFlat(trimmed, doc, "")
	case map[string]any:
		if _, ok := v["kind"]; ok {
			return decodeEnvelope(trimmed, doc)
		}
		if _, ok := v["stages"]; ok {
			return decodeTree(trimmed, doc)
		}
		if c, ok := v["concepts"]; ok {
			return decodeFlat(mustMarshal(c), c, versionOf(v))
		}
	}
	return nil, ErrUnknownShape
}

func decodeEnvelope(raw []byte, doc any) (*Decoded, error) {
	if err := validate("envelope", envelopeSchema, doc); err != nil {
		return nil, &DecodeError{Err: err}
	}
	var env wireEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &DecodeError{Err: err}
	}

	switch env.Kind {
	case KindFlat:
		body := env.Concepts
		if len(bytes.TrimSpace(body)) == 0 || bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
			body = []byte("[]")
		}
		var inner any
		if err := json.Unmarshal(body, &inner); err != nil {
			return nil, &DecodeError{Kind: KindFlat, Err: err}
		}
		return decodeFlat(body, inner, env.SchemaVersion)
	default:
		body := env.Tree
		if len(bytes.TrimSpace(body)) == 0 || bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
			body = []byte(`{"stages":[]}`)
		}
		var inner any
		if err := json.Unmarshal(body, &inner); err != nil {
			return nil, &DecodeError{Kind: KindTree, Err: err}
		}
		d, err := decodeTree(body, inner)
		if err != nil {
			return nil, err
		}
		if d.SchemaVersion == "" {
			d.SchemaVersion = env.SchemaVersion
			if err := checkVersion(d.SchemaVersion); err != nil {
				return nil, err
			}
		}
		return d, nil
	}
}

func decodeTree(raw []byte, doc any) (*Decoded, error) {
	if err := validate("tree", treeSchema, doc); err != nil {
		return nil, &DecodeError{Kind: KindTree, Err: err}
	}
	var wt wireTree
	if err := json.Unmarshal(raw, &wt); err != nil {
		return nil, &DecodeError{Kind: KindTree, Err: err}
	}
	if err := checkVersion(wt.SchemaVersion); err != nil {
		return nil, err
	}

	c := &converter{}
	tree := c.tree(wt)
	return &Decoded{
		Input:         FromTree(tree),
		SchemaVersion: wt.SchemaVersion,
		Issues:        c.issues,
	}, nil
}

func decodeFlat(raw []byte, doc any, version string) (*Decoded, error) {
	if err := checkVersion(version); err != nil {
		return nil, err
	}
	if err := validate("flat", flatSchema, doc); err != nil {
		return nil, &DecodeError{Kind: KindFlat, Err: err}
	}
	var wf []wireFlatConcept
	if err := json.Unmarshal(raw, &wf); err != nil {
		return nil, &DecodeError{Kind: KindFlat, Err: err}
	}

	c := &converter{}
	flat := make([]FlatConcept, 0, len(wf))
	for i, w := range wf {
		flat = append(flat, c.flatConcept(fmt.Sprintf("$[%d]", i), w))
	}
	return &Decoded{
		Input:         FromFlat(flat),
		SchemaVersion: version,
		Issues:        c.issues,
	}, nil
}

// checkVersion accepts an empty version or any valid semver with the
// supported major. A bare "1" or "1.2" is read as "v1" / "v1.2".
func checkVersion(v string) error {
	if v == "" {
		return nil
	}
	sv := v
	if !strings.HasPrefix(sv, "v") {
		sv = "v" + sv
	}
	if !semver.IsValid(sv) {
		return fmt.Errorf("%w: %q is not a semantic version", ErrUnsupportedVersion, v)
	}
	if semver.Major(sv) != SupportedMajor {
		return fmt.Errorf("%w: %s (want %s.x)", ErrUnsupportedVersion, v, SupportedMajor)
	}
	return nil
}

func versionOf(m map[string]any) string {
	if s, ok := m["schemaVersion"].(string); ok {
		return s
	}
	return ""
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return []byte("null")
	}
	return b
}

// converter turns wire values into the typed model, recording repairs.
type converter struct {
	issues []Issue
}

func (c *converter) note(kind IssueKind, path, format string, args ...any) {
	c.issues = append(c.issues, Issue{Kind: kind, Path: path, Detail: fmt.Sprintf(format, args...)})
}

func (c *converter) number(path string, n flexNumber) float64 {
	if n.Bad {
		c.note(IssueBadNumber, path, "unparsable value %q, using 0", n.Raw)
		return 0
	}
	if !n.Set {
		c.note(IssueMissingDefault, path, "missing, using 0")
		return 0
	}
	return n.Value
}

// MaxCount bounds subconcept counts so they always fit in an int.
const MaxCount = math.MaxInt32

func (c *converter) count(path string, n flexNumber) int {
	v := c.number(path, n)
	switch {
	case v > MaxCount:
		c.note(IssueClamped, path, "count %v clamped to %d", v, MaxCount)
		return MaxCount
	case v < 0:
		c.note(IssueClamped, path, "negative count %v clamped to 0", v)
		return 0
	}
	if v != math.Trunc(v) {
		c.note(IssueClamped, path, "fractional count %v truncated", v)
	}
	return int(v)
}

func (c *converter) tree(wt wireTree) Tree {
	t := Tree{
		ProgramID:   string(wt.ProgramID),
		ProgramName: wt.ProgramName,
		LearnerID:   string(wt.LearnerID),
		Stages:      make([]Stage, 0, len(wt.Stages)),
	}
	for si, ws := range wt.Stages {
		st := Stage{Name: ws.StageName, Units: make([]Unit, 0, len(ws.Units))}
		for ui, wu := range ws.Units {
			u := Unit{Name: wu.UnitName, Subconcepts: make([]Subconcept, 0, len(wu.Subconcepts))}
			for ci, wsc := range wu.Subconcepts {
				path := fmt.Sprintf("$.stages[%d].units[%d].subconcepts[%d]", si, ui, ci)
				u.Subconcepts = append(u.Subconcepts, c.subconcept(path, wsc))
			}
			st.Units = append(st.Units, u)
		}
		t.Stages = append(t.Stages, st)
	}
	return t
}

func (c *converter) subconcept(path string, w wireSubconcept) Subconcept {
	maxScore := DefaultMaxScore
	switch {
	case w.SubconceptMaxscore.Bad:
		c.note(IssueBadNumber, path+".subconceptMaxscore", "unparsable value %q, using %v", w.SubconceptMaxscore.Raw, DefaultMaxScore)
	case !w.SubconceptMaxscore.Set:
		c.note(IssueMissingDefault, path+".subconceptMaxscore", "missing, using %v", DefaultMaxScore)
	default:
		maxScore = w.SubconceptMaxscore.Value
	}

	var highest float64
	if w.HighestScore.Bad {
		c.note(IssueBadNumber, path+".highestScore", "unparsable value %q, using 0", w.HighestScore.Raw)
	} else {
		highest = w.HighestScore.Value
	}

	score, maxScore2, changed := ClampScore(highest, maxScore)
	if changed {
		c.note(IssueClamped, path, "score %v/%v clamped to %v/%v", highest, maxScore, score, maxScore2)
	}

	sc := Subconcept{
		ID:           string(w.SubconceptID),
		Description:  w.SubconceptDesc,
		MaxScore:     maxScore2,
		HighestScore: score,
		Completed:    bool(w.Completed),
		Attempts:     make([]Attempt, 0, len(w.Attempts)),
	}
	for ai, wa := range w.Attempts {
		apath := fmt.Sprintf("%s.attempts[%d]", path, ai)
		if wa.EndTimestamp.Bad {
			c.note(IssueBadTimestamp, apath+".endTimestamp", "unparsable timestamp %q", wa.EndTimestamp.Raw)
		}
		s := wa.Score.Value
		if wa.Score.Bad {
			c.note(IssueBadNumber, apath+".score", "unparsable value %q, using 0", wa.Score.Raw)
			s = 0
		}
		sc.Attempts = append(sc.Attempts, Attempt{EndTimestamp: wa.EndTimestamp.Value, Score: finiteNonNeg(s)})
	}
	if w.Concept != nil {
		sc.Concept = Concept{
			ID:     string(w.Concept.ConceptID),
			Name:   w.Concept.ConceptName,
			Skill1: strings.TrimSpace(w.Concept.ConceptSkill1),
			Skill2: strings.TrimSpace(w.Concept.ConceptSkill2),
		}
	} else {
		c.note(IssueMissingDefault, path+".concept", "missing concept, grouped as unassigned")
	}
	return sc
}

func (c *converter) flatConcept(path string, w wireFlatConcept) FlatConcept {
	maxScore := c.number(path+".totalMaxScore", w.TotalMaxScore)
	user := c.number(path+".userTotalScore", w.UserTotalScore)
	score, maxScore2, changed := ClampScore(user, maxScore)
	if changed {
		c.note(IssueClamped, path, "score %v/%v clamped to %v/%v", user, maxScore, score, maxScore2)
	}

	completed := c.count(path+".completedSubconcepts", w.CompletedSubconcepts)
	total := c.count(path+".totalSubconcepts", w.TotalSubconcepts)
	completed2, total2, changed := ClampCounts(completed, total)
	if changed {
		c.note(IssueClamped, path, "completed %d/%d clamped to %d/%d", completed, total, completed2, total2)
	}

	return FlatConcept{
		ConceptID:            string(w.ConceptID),
		ConceptName:          w.ConceptName,
		TotalMaxScore:        maxScore2,
		UserTotalScore:       score,
		CompletedSubconcepts: completed2,
		TotalSubconcepts:     total2,
		Skill1:               strings.TrimSpace(w.Skill1),
		Skill2:               strings.TrimSpace(w.Skill2),
	}
}
