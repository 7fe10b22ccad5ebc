package fixers

import (
	"context"
	"strings"

	"github.com/fulmenhq/nazna/pkg/work"
)

// IgnoreFile returns the .gitignore fixer. Existing lines keep their order,
// repeated patterns collapse onto their first occurrence (comments are left
// alone) and missing required patterns are appended. It never fails.
func IgnoreFile(required []string) work.Fixer {
	return func(_ context.Context, current string) (string, error) {
		return mergeIgnore(current, required), nil
	}
}

func mergeIgnore(current string, required []string) string {
	lines := strings.Split(strings.ReplaceAll(current, "\r\n", "\n"), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	seen := map[string]bool{}
	out := make([]string, 0, len(lines)+len(required))
	for _, line := range lines {
		key := strings.TrimSpace(line)
		// Blank lines and comments may repeat
		if key == "" || strings.HasPrefix(key, "#") {
			out = append(out, line)
			continue
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, line)
	}
	for _, pattern := range required {
		if !seen[pattern] {
			seen[pattern] = true
			out = append(out, pattern)
		}
	}

	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, "\n") + "\n"
}
