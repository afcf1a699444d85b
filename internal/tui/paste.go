package tui

import (
	"net/url"
	"os"
	"strings"
)

// parsePaths splits pasted text into paths. Terminals deliver dragged
// files as space-separated paths, quoted or backslash-escaped, sometimes
// as file:// URLs.
func parsePaths(text string) []string {
	var (
		paths   []string
		cur     strings.Builder
		quote   rune
		escaped bool
		inToken bool
	)

	flush := func() {
		if inToken {
			p := cur.String()
			if strings.HasPrefix(p, "file://") {
				if u, err := url.Parse(p); err == nil {
					p = u.Path
				}
			}
			paths = append(paths, p)
		}
		cur.Reset()
		inToken = false
	}

	for _, r := range text {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inToken = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inToken = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			cur.WriteRune(r)
			inToken = true
		}
	}
	flush()
	return paths
}

// allExist reports whether paths is non-empty and every entry exists
func allExist(paths []string) bool {
	if len(paths) == 0 {
		return false
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return false
		}
	}
	return true
}
