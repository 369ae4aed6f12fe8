package taxonomy

// Skill is an umbrella skill category. Every raw skill label attached to a
// concept is mapped onto exactly one Skill.
type Skill string

const (
	Speaking         Skill = "Speaking"
	Grammar          Skill = "Grammar"
	Vocabulary       Skill = "Vocabulary"
	Reading          Skill = "Reading"
	Writing          Skill = "Writing"
	Listening        Skill = "Listening"
	CriticalThinking Skill = "Critical Thinking"
	SkillDevelopment Skill = "Skill Development" // Catch-all for unrecognized labels
)

// AllSkills returns every umbrella skill in canonical display order.
// Chart axes are laid out in this order, so it must never change between calls.
func AllSkills() []Skill {
	return []Skill{
		Speaking,
		Grammar,
		Vocabulary,
		Reading,
		Writing,
		Listening,
		CriticalThinking,
		SkillDevelopment,
	}
}

// IsUmbrella reports whether s is one of the umbrella skills.
func IsUmbrella(s Skill) bool {
	for _, u := range AllSkills() {
		if u == s {
			return true
		}
	}
	return false
}

// Index returns the position of s in canonical order, or -1.
func Index(s Skill) int {
	for i, u := range AllSkills() {
		if u == s {
			return i
		}
	}
	return -1
}

// ShortName returns a compact label for narrow chart axes.
func (s Skill) ShortName() string {
	switch s {
	case Speaking:
		return "Speak"
	case Grammar:
		return "Gram"
	case Vocabulary:
		return "Vocab"
	case Reading:
		return "Read"
	case Writing:
		return "Write"
	case Listening:
		return "Listen"
	case CriticalThinking:
		return "Think"
	case SkillDevelopment:
		return "Other"
	default:
		return string(s)
	}
}
