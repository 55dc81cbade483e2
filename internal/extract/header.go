package extract

import "strings"

// Header returns the value of the first header line named name in block.
//
// The lookup is case-insensitive on the header name. Continuation lines
// (lines starting with a space or tab) are appended to the value with their
// indentation removed and a single space as separator. Trailing carriage
// returns are stripped. The boolean result reports whether the header was
// present at all; absence is not an error.
func Header(block, name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}

	lines := strings.Split(block, "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, "\r")
		if isContinuation(line) {
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(strings.TrimRight(key, " \t"), name) {
			continue
		}

		value = strings.TrimSpace(value)
		for _, next := range lines[i+1:] {
			next = strings.TrimRight(next, "\r")
			if !isContinuation(next) {
				break
			}
			folded := strings.TrimLeft(next, " \t")
			if folded == "" {
				continue
			}
			if value == "" {
				value = folded
				continue
			}
			value += " " + folded
		}
		return value, true
	}
	return "", false
}

// isContinuation reports whether line is a folded continuation of the
// previous header line.
func isContinuation(line string) bool {
	return line != "" && (line[0] == ' ' || line[0] == '\t')
}

// urlWrappers are the delimiter pairs some servers put around URL values.
var urlWrappers = [][2]byte{
	{'<', '>'},
	{'"', '"'},
	{'\'', '\''},
}

// NormalizeURL strips surrounding whitespace and one layer of angle
// brackets or quotes from a header URL value.
func NormalizeURL(raw string) string {
	s := strings.TrimSpace(raw)
	if len(s) < 2 {
		return s
	}
	for _, w := range urlWrappers {
		if s[0] == w[0] && s[len(s)-1] == w[1] {
			return strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}
