package fieldclip

import (
	"bufio"
	"io"
	"strings"
)

// ParseFieldList reads one field name per line. Lines are trimmed, blank
// lines are dropped and only the first occurrence of a name is kept.
func ParseFieldList(r io.Reader) ([]string, error) {
	var names []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		names = append(names, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return NormalizeFieldNames(names), nil
}

// NormalizeFieldNames trims names, drops blanks and removes duplicates
// while keeping the first occurrence of each name.
func NormalizeFieldNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
