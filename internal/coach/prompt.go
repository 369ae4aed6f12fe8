package coach

import (
	"fmt"
	"strings"

	"github.com/abhisek/skillpulse/internal/analytics"
)

const systemPrompt = `You are an encouraging English language coach. You read a learner's skill report and write short, specific coaching notes. Refer only to skills and concepts that appear in the report.`

func buildUserMessage(input Input, cfg Config) string {
	var b strings.Builder
	r := input.Report

	if input.ProgramName != "" {
		fmt.Fprintf(&b, "Program: %s\n", input.ProgramName)
	}
	fmt.Fprintf(&b, "Overall completion: %.0f%%\n", r.OverallCompletion)
	fmt.Fprintf(&b, "Average score: %.1f / 5\n", r.AverageScore)
	fmt.Fprintf(&b, "Total score: %.0f of %.0f\n", r.TotalScore, r.TotalMaxScore)

	b.WriteString("\nSkill scores:\n")
	if len(r.SkillScores) == 0 {
		b.WriteString("None yet\n")
	}
	for _, s := range r.SkillScores {
		fmt.Fprintf(&b, "- %s: %d%% (%d/%d subconcepts completed)\n",
			s.Skill, s.Score, s.CompletedCount, s.TotalCount)
	}

	if deltas := Deltas(input.Previous, r); len(deltas) > 0 {
		b.WriteString("\nChange since last report:\n")
		for _, d := range deltas {
			fmt.Fprintf(&b, "- %s: %d%% -> %d%% (%+d)\n", d.Skill, d.Previous, d.Current, d.Change())
		}
	}

	writeConcepts(&b, "Strengths", r.Strengths, cfg.MaxConcepts)
	writeConcepts(&b, "Areas to improve", r.AreasToImprove, cfg.MaxConcepts)

	b.WriteString(`
Instructions:
1. Summarize progress in 3-4 sentences. Mention the strongest and weakest skill by name.
2. List 1-3 strengths, each tied to a concept or skill from the report.
3. Pick 1-3 focus areas from "Areas to improve" (or the lowest skills if that list is empty). Use the concept name exactly as written and suggest one concrete practice activity for each.
4. Give 2-3 next steps for the coming week.
5. Plain text only. No markdown, no emoji.`)

	return b.String()
}

func writeConcepts(b *strings.Builder, title string, concepts []analytics.ConceptProgress, limit int) {
	fmt.Fprintf(b, "\n%s:\n", title)
	if len(concepts) == 0 {
		b.WriteString("None\n")
		return
	}
	for i, c := range concepts {
		if limit > 0 && i >= limit {
			fmt.Fprintf(b, "- (%d more)\n", len(concepts)-limit)
			break
		}
		skills := make([]string, len(c.Skills))
		for j, s := range c.Skills {
			skills[j] = string(s)
		}
		fmt.Fprintf(b, "- %s [%s]: %.0f%%\n", conceptLabel(c), strings.Join(skills, ", "), c.Ratio()*100)
	}
}

func conceptLabel(c analytics.ConceptProgress) string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}
