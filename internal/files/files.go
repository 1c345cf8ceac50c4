// Package files expands the user's path arguments into a de-duplicated list of work items.
package files

import (
	"fmt"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
)

// Expand resolves every pattern (plain paths and globs, "**" included) and returns the
// union in first-seen order. Paths are cleaned so "./a.png" and "a.png" collapse.
// Directories are kept; the task body rejects them with a hint.
func Expand(patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string

	for _, p := range patterns {
		matches, err := doublestar.FilepathGlob(p)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", p, err)
		}
		if len(matches) == 0 {
			zap.S().Named("files").Debugw("pattern matched nothing", "pattern", p)
		}
		for _, m := range matches {
			m = filepath.Clean(m)
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}

	return out, nil
}
