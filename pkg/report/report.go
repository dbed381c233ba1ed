// Package report renders analysis results for the terminal. Plain text and
// JSON come out of the same result rows; the styled path is for humans, the
// JSON path for scripts.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/schollz/progressbar/v3"
)

// Colors (Swiss minimal)
var (
	accent  = lipgloss.Color("#FF0000")
	muted   = lipgloss.Color("#666666")
	success = lipgloss.Color("#00CC66")
	white   = lipgloss.Color("#FFFFFF")
)

// Styles
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(white)
	accentStyle  = lipgloss.NewStyle().Foreground(accent).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	successStyle = lipgloss.NewStyle().Foreground(success).Bold(true)
)

// Row is one analyzed log in a report.
type Row struct {
	File      string `json:"file"`
	Encounter string `json:"encounter"`
	Outcome   string `json:"outcome"`
	Challenge string `json:"challenge"`
	Players   int    `json:"players"`
	Error     string `json:"error,omitempty"`
}

// Report is a batch of analyzed logs plus run metadata.
type Report struct {
	RunID    string        `json:"run_id"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
	Rows     []Row         `json:"logs"`
}

// WriteJSON renders the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteTable renders the report as a styled table. With color disabled the
// styles degrade to plain text.
func (r *Report) WriteTable(w io.Writer, color bool) {
	render := func(s lipgloss.Style, text string) string {
		if !color {
			return text
		}
		return s.Render(text)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, render(titleStyle, "  EVTCFLOW")+render(mutedStyle, "  run "+r.RunID))
	fmt.Fprintln(w)

	widths := []int{40, 26, 8, 9}
	header := []string{"FILE", "ENCOUNTER", "OUTCOME", "CHALLENGE"}
	var b strings.Builder
	for i, h := range header {
		fmt.Fprintf(&b, "%-*s  ", widths[i], h)
	}
	fmt.Fprintln(w, render(mutedStyle, "  "+b.String()))

	for _, row := range r.Rows {
		if row.Error != "" {
			fmt.Fprintf(w, "  %-*s  %s\n", widths[0], trim(row.File, widths[0]),
				render(accentStyle, "✗ "+row.Error))
			continue
		}
		outcome := row.Outcome
		if color {
			switch row.Outcome {
			case "success":
				outcome = successStyle.Render(row.Outcome)
			case "failure":
				outcome = accentStyle.Render(row.Outcome)
			default:
				outcome = mutedStyle.Render(row.Outcome)
			}
		}
		fmt.Fprintf(w, "  %-*s  %-*s  %s%-*s  %-*s\n",
			widths[0], trim(row.File, widths[0]),
			widths[1], trim(row.Encounter, widths[1]),
			outcome, widths[2]-len(row.Outcome), "",
			widths[3], row.Challenge)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", render(mutedStyle,
		fmt.Sprintf("%d logs in %s", len(r.Rows), r.Duration.Round(time.Millisecond))))
}

func trim(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "…" + s[len(s)-max+1:]
}

// Progress creates a progress bar for a batch run.
func Progress(total int64, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowBytes(false),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "",
			BarEnd:        "",
		}),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}
