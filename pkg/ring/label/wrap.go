package label

import "strings"

// Wrap greedily breaks text into lines no wider than maxWidth. A word wider
// than maxWidth gets a line of its own. Empty text yields a single empty
// line.
func Wrap(text string, maxWidth, fontSize float64, m Measurer) []string {
	if m == nil {
		m = Heuristic{}
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	lines := make([]string, 0, 4)
	cur := words[0]
	for _, w := range words[1:] {
		next := cur + " " + w
		if m.Width(next, fontSize) <= maxWidth {
			cur = next
			continue
		}
		lines = append(lines, cur)
		cur = w
	}
	return append(lines, cur)
}

func truncate(lines []string, n int) []string {
	if n > 0 && len(lines) > n {
		return lines[:n]
	}
	return lines
}
