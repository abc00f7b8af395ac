package layout

import (
	"math"
	"sort"
	"strings"
)

// Label is a located header label: a column name and the left edge of the
// label's bounding box.
type Label struct {
	Name string
	Left float64
}

// Column is a named horizontal interval [Left, Right).
type Column struct {
	Name  string
	Left  float64
	Right float64
}

// Contains reports whether x falls inside the column.
func (c Column) Contains(x float64) bool {
	return x >= c.Left && x < c.Right
}

// InferColumns turns header label positions into column intervals. Each
// column spans from its label's left edge minus margin up to the next label's
// left edge minus margin; the right-most column is open ended.
func InferColumns(labels []Label, margin float64) []Column {
	if len(labels) == 0 {
		return nil
	}

	sorted := make([]Label, len(labels))
	copy(sorted, labels)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Left < sorted[j].Left
	})

	cols := make([]Column, len(sorted))
	for i, l := range sorted {
		right := math.Inf(1)
		if i+1 < len(sorted) {
			right = sorted[i+1].Left - margin
		}
		cols[i] = Column{Name: l.Name, Left: l.Left - margin, Right: right}
	}
	return cols
}

// Assign buckets the row's words into columns by horizontal centre and returns
// the space-joined text per column name. Words left of the first column belong
// to the first column.
func Assign(row Row, cols []Column) map[string]string {
	if len(cols) == 0 {
		return map[string]string{}
	}
	cells := make(map[string][]string, len(cols))

	for _, w := range row.Words {
		x := w.CenterX()
		name := ""
		if x < cols[0].Left {
			name = cols[0].Name
		} else {
			for _, c := range cols {
				if c.Contains(x) {
					name = c.Name
					break
				}
			}
		}
		if name != "" {
			cells[name] = append(cells[name], w.Text)
		}
	}

	out := make(map[string]string, len(cols))
	for _, c := range cols {
		out[c.Name] = strings.Join(cells[c.Name], " ")
	}
	return out
}

// FindPhrase looks for consecutive words in the row spelling out phrase
// (case-insensitive, trailing ". : #" ignored) and returns the index of the
// first word of every occurrence.
func FindPhrase(row Row, phrase string) []int {
	want := strings.Fields(strings.ToLower(phrase))
	if len(want) == 0 {
		return nil
	}

	var hits []int
	for i := 0; i+len(want) <= len(row.Words); i++ {
		ok := true
		for j, token := range want {
			if labelToken(row.Words[i+j].Text) != labelToken(token) {
				ok = false
				break
			}
		}
		if ok {
			hits = append(hits, i)
		}
	}
	return hits
}

func labelToken(s string) string {
	return strings.TrimRight(strings.ToLower(strings.TrimSpace(s)), ".:#")
}
