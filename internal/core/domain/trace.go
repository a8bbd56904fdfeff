package domain

import "strings"

// ParseIncludeLine recognizes one line of a compiler include trace: a run of
// dots giving the inclusion depth, a single space, then the header identity.
// ok is false for every other line, which the compiler uses for unrelated
// diagnostics.
func ParseIncludeLine(line string) (depth int, header string, ok bool) {
	line = strings.TrimSuffix(line, "\r")

	for depth < len(line) && line[depth] == '.' {
		depth++
	}
	if depth == 0 || depth >= len(line) || line[depth] != ' ' {
		return 0, "", false
	}

	header = line[depth+1:]
	if header == "" || header[0] == ' ' {
		return 0, "", false
	}
	return depth, header, true
}

// IncludedHeaders returns the distinct headers named by trace, in the order
// they first appear.
func IncludedHeaders(trace []byte) []string {
	var headers []string
	seen := make(map[string]struct{})
	for line := range strings.Lines(string(trace)) {
		_, header, ok := ParseIncludeLine(strings.TrimSuffix(line, "\n"))
		if !ok {
			continue
		}
		if _, dup := seen[header]; dup {
			continue
		}
		seen[header] = struct{}{}
		headers = append(headers, header)
	}
	return headers
}
