package report

import (
	"fmt"

	"github.com/edakit/columnist/internal/core/port"
)

// ColumnReport renders an analysis result as a markdown report. The
// caller applies any redaction to the result before rendering; this
// layer only formats.
func ColumnReport(result *port.AnalysisResult) *MarkdownReport {
	r := New(fmt.Sprintf("Column Distribution: %s", result.Column))
	r.AddMetadata("source", result.Source)
	r.AddMetadata("column", result.Column)
	r.AddMetadata("source_type", string(result.SourceType))

	s := result.Summary
	r.AddSection("Summary", "", 2)
	r.AddSummaryStats([]port.Stat{
		{Name: "Total rows", Value: s.Total},
		{Name: "Null/missing", Value: fmt.Sprintf("%s (%.2f%%)", groupThousands(s.Nulls), s.NullPct)},
		{Name: "Non-null rows", Value: s.NonNull},
		{Name: "Unique values", Value: s.UniqueCount},
		{Name: "Cardinality", Value: string(s.Cardinality)},
	})

	r.AddSection("Distribution", "", 2)
	if s.UniqueCount > int64(result.Limit) {
		r.AddText(fmt.Sprintf("*Showing top %d of %d unique values*", result.Limit, s.UniqueCount))
	}

	rows := make([][]string, 0, len(result.Distribution))
	for _, e := range result.Distribution {
		rows = append(rows, []string{
			e.Display(),
			groupThousands(e.Count),
			fmt.Sprintf("%.2f%%", e.Percentage),
			fmt.Sprintf("%.2f%%", e.CumulativePct),
		})
	}
	r.AddTable(
		[]string{"Value", "Count", "Percentage", "Cumulative"},
		rows,
		[]string{"left", "right", "right", "right"},
	)

	if len(result.Observations) > 0 {
		r.AddSection("Observations", "", 2)
		for _, obs := range result.Observations {
			r.AddText(fmt.Sprintf("- %s", obs))
		}
	}

	return r
}

// InspectReport renders a source inspection as a markdown report.
func InspectReport(info *port.SourceInfo) *MarkdownReport {
	r := New(fmt.Sprintf("Source Inspection: %s", info.Source))
	r.AddMetadata("source", info.Source)
	r.AddMetadata("source_type", string(info.SourceType))

	stats := []port.Stat{
		{Name: "Rows", Value: info.RowCount},
		{Name: "Columns", Value: info.ColumnCount},
	}
	if info.FileSizeBytes > 0 {
		stats = append(stats, port.Stat{
			Name:  "File size",
			Value: formatFileSize(info.FileSizeBytes),
		})
	}
	r.AddSection("Summary", "", 2)
	r.AddSummaryStats(stats)

	r.AddSection("Schema", "", 2)
	rows := make([][]string, 0, len(info.Columns))
	for _, c := range info.Columns {
		rows = append(rows, []string{c.Name, c.DataType})
	}
	r.AddTable([]string{"Column", "Type"}, rows, []string{"left", "left"})

	return r
}

// formatFileSize renders a byte count in human-readable units.
func formatFileSize(bytes int64) string {
	size := float64(bytes)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if size < 1024 {
			return fmt.Sprintf("%.2f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.2f TB", size)
}

// QueryReport renders raw query results as a markdown report. Column
// order follows the first row's keys as given; callers pass an ordered
// header list when they have one.
func QueryReport(sql string, headers []string, rows []map[string]any) *MarkdownReport {
	r := New("Query Results")
	r.AddSection("Query", "", 2)
	r.AddCodeBlock(sql, "sql")

	r.AddSection("Results", "", 2)
	r.AddText(fmt.Sprintf("*%d rows*", len(rows)))

	if len(headers) == 0 || len(rows) == 0 {
		return r
	}

	tableRows := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, 0, len(headers))
		for _, h := range headers {
			v, ok := row[h]
			if !ok || v == nil {
				cells = append(cells, "")
				continue
			}
			cells = append(cells, fmt.Sprintf("%v", v))
		}
		tableRows = append(tableRows, cells)
	}
	r.AddTable(headers, tableRows, nil)

	return r
}
