package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/brogergvhs/mangagrab/internal/util"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

type Summary struct {
	Chapters int
	Units    int
	Images   int64
	Bytes    int64
	Rounds   int
	Attempts int64
	Elapsed  time.Duration
}

// FailedRow is one permanently failed page as shown to the user.
type FailedRow struct {
	Chapter string
	Page    string
	Kind    string
	Reason  string
}

func PrintSummary(w io.Writer, s Summary, failed []FailedRow) {
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Download Summary:")
	_, _ = fmt.Fprintf(w, "Chapters: %d\n", s.Chapters)
	_, _ = fmt.Fprintf(w, "Pages:    %d/%d\n", s.Images, s.Units)
	_, _ = fmt.Fprintf(w, "Rounds:   %d (%d attempts)\n", s.Rounds, s.Attempts)
	_, _ = fmt.Fprintf(w, "Data:     %s\n", util.Human(s.Bytes))
	_, _ = fmt.Fprintf(w, "Time:     %s\n", s.Elapsed.Round(time.Second))

	if len(failed) == 0 {
		_, _ = fmt.Fprintln(w, "\nAll done.")
		return
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("%d pages failed permanently:", len(failed))))
	_, _ = fmt.Fprintln(w, FailedTable(failed))
}

func FailedTable(rows []FailedRow) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("CHAPTER", "PAGE", "KIND", "REASON").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, r := range rows {
		t.Row(r.Chapter, r.Page, r.Kind, truncate(r.Reason, 60))
	}

	return t.String()
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len([]rune(s)) <= n {
		return s
	}

	return string([]rune(s)[:n-1]) + "…"
}
