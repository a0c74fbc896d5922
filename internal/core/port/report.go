package port

// Stat is one named statistic in a report summary block. An ordered
// slice rather than a map so summaries render in a stable order.
type Stat struct {
	Name  string
	Value any
}

// Report assembles a markdown document section by section.
type Report interface {
	AddMetadata(key, value string)
	AddSection(heading, content string, level int)
	AddTable(headers []string, rows [][]string, alignments []string)
	AddSummaryStats(stats []Stat)
	AddText(text string)
	AddCodeBlock(code, language string)
	Build() string
	// Write renders the report to path, or to stdout when path is empty.
	Write(path string) error
}
