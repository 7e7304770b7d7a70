package extract

import (
	"sort"
	"strings"
)

// indentUnit is the indentation of declarations inside a rule block
const indentUnit = "  "

// applyReplacements swaps each replacement range for a single-quoted class
// name. Ranges are applied from the highest start offset down, so offsets
// not yet applied stay valid. Replacements must not overlap.
func applyReplacements(source string, replacements []Replacement) string {
	sorted := make([]Replacement, len(replacements))
	copy(sorted, replacements)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start > sorted[j].Start
	})

	out := source
	for _, r := range sorted {
		out = out[:r.Start] + "'" + r.ClassName + "'" + out[r.End:]
	}
	return out
}

// renderStyleText sorts records by source position and renders one rule
// block per non-empty record, separated by a blank line
func renderStyleText(records []Record) string {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Position < records[j].Position
	})

	blocks := make([]string, 0, len(records))
	for _, r := range records {
		if r.CSS == "" {
			continue
		}
		blocks = append(blocks, renderBlock(r.ClassName, r.CSS))
	}

	if len(blocks) == 0 {
		return ""
	}
	return strings.Join(blocks, "\n\n") + "\n"
}

// renderBlock renders ".className {\n  content\n}"
func renderBlock(className, content string) string {
	var b strings.Builder
	b.WriteString(".")
	b.WriteString(className)
	b.WriteString(" {\n")
	b.WriteString(indent(content))
	b.WriteString("\n}")
	return b.String()
}

// indent removes the common indentation of the continuation lines of
// trimmed content and indents every non-blank line by one level
func indent(content string) string {
	lines := strings.Split(content, "\n")

	common := -1
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if common == -1 || n < common {
			common = n
		}
	}

	for i, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			lines[i] = ""
			continue
		}
		if i > 0 && common > 0 {
			line = line[common:]
		}
		lines[i] = indentUnit + line
	}

	return strings.Join(lines, "\n")
}
