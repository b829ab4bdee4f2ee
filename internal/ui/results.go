package ui

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// panelRow is one rendered line of the results panel. item is the suggestion
// index the row shows, or -1 for the scroll indicators.
type panelRow struct {
	item int
	text string
}

// visibleWindow returns the slice [start, end) of suggestions to draw so that
// cursor stays on screen, showing at most limit rows.
func visibleWindow(cursor, total, limit int) (start, end int) {
	if limit < 1 {
		limit = 1
	}
	if total <= limit {
		return 0, total
	}
	if cursor >= limit {
		start = cursor - limit + 1
	}
	if start > total-limit {
		start = total - limit
	}
	return start, start + limit
}

// renderResults lays out the suggestion list. Titles are drawn in the order
// given; only the emphasis of matched characters depends on query.
func renderResults(titles []string, highlight int, query string, limit int) []panelRow {
	if len(titles) == 0 {
		return nil
	}

	cursor := highlight
	if cursor < 0 {
		cursor = 0
	}
	start, end := visibleWindow(cursor, len(titles), limit)
	matched := matchIndexes(query, titles)

	rows := make([]panelRow, 0, end-start+2)
	if start > 0 {
		rows = append(rows, panelRow{item: -1, text: ResultMore.Render("  ↑ more above")})
	}
	for i := start; i < end; i++ {
		var line string
		if i == highlight {
			line = ResultSelected.Render("› ") +
				emphasize(titles[i], matched[i], ResultSelected.Render, ResultSelectedMatch.Render)
		} else {
			line = ResultItem.Render("  ") +
				emphasize(titles[i], matched[i], ResultItem.Render, ResultMatch.Render)
		}
		rows = append(rows, panelRow{item: i, text: line})
	}
	if end < len(titles) {
		rows = append(rows, panelRow{item: -1, text: ResultMore.Render("  ↓ more below")})
	}
	return rows
}

// matchIndexes maps title index to the byte offsets fuzzy-matched by query.
func matchIndexes(query string, titles []string) map[int][]int {
	query = strings.TrimSpace(query)
	out := make(map[int][]int, len(titles))
	if query == "" {
		return out
	}
	for _, m := range fuzzy.Find(query, titles) {
		out[m.Index] = m.MatchedIndexes
	}
	return out
}

// emphasize renders s with the bytes at idx drawn by match and the rest by
// base. Consecutive runs share one render call.
func emphasize(s string, idx []int, base, match func(...string) string) string {
	if len(idx) == 0 {
		return base(s)
	}
	hit := make(map[int]bool, len(idx))
	for _, i := range idx {
		hit[i] = true
	}

	var b strings.Builder
	var run strings.Builder
	runHit := false
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if runHit {
			b.WriteString(match(run.String()))
		} else {
			b.WriteString(base(run.String()))
		}
		run.Reset()
	}
	for i, r := range s {
		if hit[i] != runHit {
			flush()
			runHit = hit[i]
		}
		run.WriteRune(r)
	}
	flush()
	return b.String()
}
