// Package render formats search state for the terminal.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/naka-gawa/gh-search/internal/domain"
)

// maxTopics is how many topics a result row shows.
const maxTopics = 3

// FormatNumber abbreviates counts of a thousand or more, e.g. 1234 -> "1.2k".
func FormatNumber(n int) string {
	if n >= 1000 {
		return fmt.Sprintf("%.1fk", float64(n)/1000)
	}
	return strconv.Itoa(n)
}

// FormatDate renders t as a local calendar date. The zero time renders empty.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func topics(ts []string) string {
	if len(ts) > maxTopics {
		ts = ts[:maxTopics]
	}
	return strings.Join(ts, ", ")
}

// Table writes repos as a table to w.
func Table(w io.Writer, repos []domain.Repository) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Repository", "Stars", "Forks", "Language", "Updated", "Topics"})
	table.SetAutoWrapText(false)
	for _, r := range repos {
		table.Append([]string{
			r.FullName,
			FormatNumber(r.Stars),
			FormatNumber(r.Forks),
			deref(r.Language),
			FormatDate(r.UpdatedAt),
			topics(r.Topics),
		})
	}
	table.Render()
}

// StateView writes the query label followed by the error or the results.
func StateView(w io.Writer, st domain.State) {
	if st.CurrentQuery != "" {
		fmt.Fprintf(w, "Results for %q\n", st.CurrentQuery)
	}
	if st.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", st.Error)
		return
	}
	if len(st.SearchResults) == 0 {
		fmt.Fprintln(w, "No repositories found")
		return
	}
	Table(w, st.SearchResults)
}

// Details writes the full record of a single repository.
func Details(w io.Writer, r domain.Repository) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})
	rows := [][]string{
		{"Name", r.FullName},
		{"Description", deref(r.Description)},
		{"URL", r.URL},
		{"Owner", r.Owner.Login},
		{"Stars", FormatNumber(r.Stars)},
		{"Forks", FormatNumber(r.Forks)},
		{"Language", deref(r.Language)},
		{"License", deref(r.License)},
		{"Default branch", r.DefaultBranch},
		{"Created", FormatDate(r.CreatedAt)},
		{"Updated", FormatDate(r.UpdatedAt)},
		{"Topics", strings.Join(r.Topics, ", ")},
	}
	table.AppendBulk(rows)
	table.Render()
}

// Stats writes a result summary.
func Stats(w io.Writer, s domain.ResultStats) {
	fmt.Fprintf(w, "%d repositories, %s stars total (mean %.1f, median %.1f), mean forks %.1f\n",
		s.Count, FormatNumber(s.TotalStars), s.MeanStars, s.MedianStars, s.MeanForks)
	langs := make([]string, 0, len(s.Languages))
	for lang := range s.Languages {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool {
		if s.Languages[langs[i]] != s.Languages[langs[j]] {
			return s.Languages[langs[i]] > s.Languages[langs[j]]
		}
		return langs[i] < langs[j]
	})
	for _, lang := range langs {
		fmt.Fprintf(w, "  %-12s %d\n", lang, s.Languages[lang])
	}
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
