package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/edakit/columnist/internal/core/port"
)

// MarkdownReport assembles a markdown document section by section.
// Metadata keeps insertion order so reports are byte-stable for the
// same inputs (generated_at aside).
type MarkdownReport struct {
	title    string
	metadata []port.Stat
	sections []string
}

func New(title string) *MarkdownReport {
	return &MarkdownReport{
		title: title,
		metadata: []port.Stat{
			{Name: "generated_at", Value: time.Now().UTC().Format("2006-01-02 15:04:05 UTC")},
		},
	}
}

func (r *MarkdownReport) AddMetadata(key, value string) {
	r.metadata = append(r.metadata, port.Stat{Name: key, Value: value})
}

func (r *MarkdownReport) AddSection(heading, content string, level int) {
	if level < 1 || level > 6 {
		level = 2
	}
	prefix := strings.Repeat("#", level)
	r.sections = append(r.sections, fmt.Sprintf("%s %s\n\n%s", prefix, heading, content))
}

func (r *MarkdownReport) AddText(text string) {
	r.sections = append(r.sections, text)
}

func (r *MarkdownReport) AddCodeBlock(code, language string) {
	r.sections = append(r.sections, fmt.Sprintf("```%s\n%s\n```", language, code))
}

func (r *MarkdownReport) AddTable(headers []string, rows [][]string, alignments []string) {
	var b strings.Builder

	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")

	sep := make([]string, len(headers))
	for i := range headers {
		align := "left"
		if i < len(alignments) {
			align = alignments[i]
		}
		switch align {
		case "center":
			sep[i] = ":---:"
		case "right":
			sep[i] = "---:"
		default:
			sep[i] = "---"
		}
	}
	b.WriteString("| " + strings.Join(sep, " | ") + " |")

	for _, row := range rows {
		b.WriteString("\n| " + strings.Join(row, " | ") + " |")
	}

	r.sections = append(r.sections, b.String())
}

func (r *MarkdownReport) AddSummaryStats(stats []port.Stat) {
	lines := make([]string, 0, len(stats))
	for _, s := range stats {
		lines = append(lines, fmt.Sprintf("- **%s**: %s", s.Name, formatStat(s.Value)))
	}
	r.sections = append(r.sections, strings.Join(lines, "\n"))
}

func (r *MarkdownReport) Build() string {
	parts := []string{fmt.Sprintf("# %s\n", r.title)}

	if len(r.metadata) > 0 {
		lines := make([]string, 0, len(r.metadata))
		for _, m := range r.metadata {
			lines = append(lines, fmt.Sprintf("- **%s**: %v", m.Name, m.Value))
		}
		parts = append(parts, strings.Join(lines, "\n"), "")
	}

	parts = append(parts, r.sections...)
	return strings.Join(parts, "\n\n")
}

// Write renders the report to path, or to stdout when path is empty.
func (r *MarkdownReport) Write(path string) error {
	content := r.Build()

	if path == "" {
		_, err := fmt.Fprintln(os.Stdout, content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

func formatStat(v any) string {
	switch n := v.(type) {
	case int:
		return groupThousands(int64(n))
	case int64:
		return groupThousands(n)
	case float64:
		return fmt.Sprintf("%.4f", n)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// groupThousands renders an integer with comma separators (1234567 ->
// "1,234,567").
func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	var b strings.Builder
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
