package progress

import "time"

// DefaultMaxScore is the max score assumed for a subconcept that does not declare one.
const DefaultMaxScore = 5.0

// Kind tags which shape an Input carries.
type Kind string

const (
	KindTree Kind = "tree"
	KindFlat Kind = "flat"
)

// Input is the validated engine input: either a full progress tree or a flat
// list of pre-rolled concept totals. The zero Input is an empty tree.
type Input struct {
	Kind Kind
	Tree *Tree
	Flat []FlatConcept
}

// FromTree wraps a tree as engine input.
func FromTree(t Tree) Input {
	return Input{Kind: KindTree, Tree: &t}
}

// FromFlat wraps pre-rolled concept totals as engine input.
func FromFlat(concepts []FlatConcept) Input {
	return Input{Kind: KindFlat, Flat: concepts}
}

// IsEmpty reports whether the input holds no subconcepts or concepts.
func (in Input) IsEmpty() bool {
	switch in.Kind {
	case KindFlat:
		return len(in.Flat) == 0
	default:
		if in.Tree == nil {
			return true
		}
		for _, st := range in.Tree.Stages {
			for _, u := range st.Units {
				if len(u.Subconcepts) > 0 {
					return false
				}
			}
		}
		return true
	}
}

// Tree is one learner's progress through one program.
type Tree struct {
	ProgramID   string
	ProgramName string
	LearnerID   string
	Stages      []Stage
}

// Stage groups units within a program.
type Stage struct {
	Name  string
	Units []Unit
}

// Unit groups subconcepts within a stage.
type Unit struct {
	Name        string
	Subconcepts []Subconcept
}

// Subconcept is the smallest assessable activity.
type Subconcept struct {
	ID           string
	Description  string
	MaxScore     float64
	HighestScore float64
	Completed    bool
	Attempts     []Attempt
	Concept      Concept
}

// Attempt is one scored try at a subconcept.
type Attempt struct {
	EndTimestamp time.Time
	Score        float64
}

// Concept is the pedagogical grouping a subconcept belongs to, tagged with
// up to two raw skill labels.
type Concept struct {
	ID     string
	Name   string
	Skill1 string
	Skill2 string
}

// Key identifies the concept for aggregation: ID, then name.
// Returns "" when the concept carries neither.
func (c Concept) Key() string {
	if c.ID != "" {
		return c.ID
	}
	return c.Name
}

// FlatConcept carries already-summed totals for one concept.
type FlatConcept struct {
	ConceptID            string
	ConceptName          string
	TotalMaxScore        float64
	UserTotalScore       float64
	CompletedSubconcepts int
	TotalSubconcepts     int
	Skill1               string
	Skill2               string
}
