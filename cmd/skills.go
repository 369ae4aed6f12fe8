package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/skillpulse/internal/taxonomy"
	"github.com/abhisek/skillpulse/internal/ui/theme"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "List umbrella skills and the labels that map to them",
	RunE: func(cmd *cobra.Command, args []string) error {
		showAliases, _ := cmd.Flags().GetBool("aliases")
		canon, err := loadCanonicalizer(cmd)
		if err != nil {
			return err
		}

		bySkill := make(map[taxonomy.Skill][]string)
		for _, a := range canon.Aliases() {
			bySkill[a.Skill] = append(bySkill[a.Skill], a.Label)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-18s  %-8s  %7s\n", "Skill", "Color", "Aliases")
		fmt.Fprintln(out, strings.Repeat("─", 37))
		for _, s := range taxonomy.AllSkills() {
			name := string(s)
			if s == canon.Fallback() {
				name += " *"
			}
			swatch := lipgloss.NewStyle().Foreground(theme.SkillColor(canon, s)).Render("■")
			lipgloss.Fprintf(out, "%-18s  %s %-6s  %7d\n", name, swatch, canon.Color(s), len(bySkill[s]))
			if showAliases && len(bySkill[s]) > 0 {
				fmt.Fprintf(out, "    %s\n", strings.Join(bySkill[s], ", "))
			}
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, "* catch-all for labels that match nothing")
		return nil
	},
}

var skillsResolveCmd = &cobra.Command{
	Use:   "resolve <label> [second-label]",
	Short: "Show which umbrella skill a label pair resolves to",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		canon, err := loadCanonicalizer(cmd)
		if err != nil {
			return err
		}

		raw1, raw2 := args[0], ""
		if len(args) == 2 {
			raw2 = args[1]
		}
		res := resolution{
			Labels:     args,
			Skill:      canon.Canonicalize(raw1, raw2),
			Contribute: canon.Resolve(raw1, raw2),
		}
		for _, l := range args {
			if !canon.Known(l) {
				res.Unknown = append(res.Unknown, l)
			}
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		fmt.Fprintf(out, "Skill:        %s\n", res.Skill)
		names := make([]string, len(res.Contribute))
		for i, s := range res.Contribute {
			names[i] = string(s)
		}
		fmt.Fprintf(out, "Counts under: %s\n", strings.Join(names, ", "))
		if len(res.Unknown) > 0 {
			fmt.Fprintf(out, "Unrecognized: %s (falls back to %s)\n", strings.Join(res.Unknown, ", "), canon.Fallback())
		}
		return nil
	},
}

type resolution struct {
	Labels     []string         `json:"labels"`
	Skill      taxonomy.Skill   `json:"skill"`
	Contribute []taxonomy.Skill `json:"contributesTo"`
	Unknown    []string         `json:"unrecognized,omitempty"`
}

func init() {
	skillsCmd.Flags().Bool("aliases", false, "Also print every alias per skill")
	skillsResolveCmd.Flags().Bool("json", false, "Print the resolution as JSON")
	skillsCmd.AddCommand(skillsResolveCmd)
}
