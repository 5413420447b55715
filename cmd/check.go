package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Tenjin25/ARRealignment/internal/election"
	"github.com/Tenjin25/ARRealignment/internal/results"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Print county results from a built document",
	Long: `Reads the output document and prints the two-party votes, shares, margin and
competitiveness band of each requested county for one year. Category and contest
narrow the search; when omitted the first match in key order is shown.`,
	Example: `  realign check --year 2024 --category presidential --county Polk,Fulton`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		input := cfg.Output.Path
		if v, _ := cmd.Flags().GetString("input"); v != "" {
			input = v
		}
		year, _ := cmd.Flags().GetString("year")
		category, _ := cmd.Flags().GetString("category")
		contest, _ := cmd.Flags().GetString("contest")
		counties, _ := cmd.Flags().GetStringSlice("county")
		if year == "" || len(counties) == 0 {
			return eris.New("check: --year and --county are required")
		}

		doc, err := results.Read(input)
		if err != nil {
			return eris.Wrap(err, "check")
		}

		p := message.NewPrinter(language.English)
		out := cmd.OutOrStdout()
		missing := 0
		for _, c := range counties {
			county := election.NormalizeCounty(c)
			r, ok := doc.Lookup(year, category, contest, county)
			if !ok {
				missing++
				_, _ = fmt.Fprintf(out, "%s: no result for %s\n\n", county, year)
				continue
			}
			_, _ = fmt.Fprintln(out, renderCounty(r, p))
		}
		if missing == len(counties) {
			return eris.Errorf("check: none of %d county(ies) found for %s", missing, year)
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().String("input", "", "results JSON path (default: output path from config)")
	checkCmd.Flags().String("year", "", "election year")
	checkCmd.Flags().String("category", "", "office category, e.g. presidential, us_senate")
	checkCmd.Flags().String("contest", "", "contest key, e.g. us_president")
	checkCmd.Flags().StringSlice("county", nil, "county name(s), comma-separated")
	rootCmd.AddCommand(checkCmd)
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Faint(true).Width(16)
	cellStyle  = lipgloss.NewStyle().Padding(0, 1)
	sepStyle   = lipgloss.NewStyle().Faint(true)
)

// renderCounty formats one record as a small card: a candidate table followed
// by the winner, margin and band.
func renderCounty(r results.Record, p *message.Printer) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("%s County %s: %s", r.County, r.Year, r.Contest)))
	sb.WriteString("\n")

	rows := [][]string{
		{"Candidate", "Party", "Votes", "Two-party"},
		{candidate(r.DemCandidate), "DEM", p.Sprintf("%d", r.DemVotes), share(p, r.DemVotes, r.TwoPartyTotal)},
		{candidate(r.RepCandidate), "REP", p.Sprintf("%d", r.RepVotes), share(p, r.RepVotes, r.TwoPartyTotal)},
		{"Other", "", p.Sprintf("%d", r.OtherVotes), ""},
	}
	sb.WriteString(renderTable(rows))

	band := r.Competitiveness.Category
	if r.Competitiveness.Color != "" {
		swatch := lipgloss.NewStyle().Background(lipgloss.Color(r.Competitiveness.Color)).Render("  ")
		band = swatch + " " + band
	}
	for _, kv := range [][2]string{
		{"Total votes", p.Sprintf("%d", r.TotalVotes)},
		{"Winner", r.Winner},
		{"Margin", p.Sprintf("%s (%d votes)", r.MarginDisplay, r.Margin)},
		{"Competitiveness", band},
	} {
		sb.WriteString(labelStyle.Render(kv[0]))
		sb.WriteString(kv[1])
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderTable pads every column to its widest cell. The first row is the header.
func renderTable(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell)+2)
			}
		}
	}

	var sb strings.Builder
	for n, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			style := cellStyle.Width(widths[i])
			if n == 0 {
				style = style.Bold(true)
			}
			sb.WriteString(style.Render(cell))
			if i < len(widths)-1 {
				sb.WriteString(sepStyle.Render("|"))
			}
		}
		sb.WriteString("\n")
		if n == 0 {
			total := len(widths) - 1
			for _, w := range widths {
				total += w
			}
			sb.WriteString(sepStyle.Render(strings.Repeat("-", total)))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func candidate(name *string) string {
	if name == nil || *name == "" {
		return "(none)"
	}
	return *name
}

func share(p *message.Printer, votes, twoParty int64) string {
	if twoParty == 0 {
		return "-"
	}
	return p.Sprintf("%.1f%%", float64(votes)/float64(twoParty)*100)
}
