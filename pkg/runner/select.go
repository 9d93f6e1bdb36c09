package runner

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Select returns the paths that lie under one of opts.Paths and pass the
// include and exclude globs. Globs match the path relative to the working
// directory; a glob without a slash matches the base name alone. The
// order of paths is kept.
func Select(paths []string, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	roots := make([]string, 0, len(opts.Paths))
	for _, p := range opts.Paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(workDir, p)
		}
		roots = append(roots, filepath.Clean(p))
	}

	var out []string
	for _, p := range paths {
		if !underAny(p, roots) {
			continue
		}
		rel, err := filepath.Rel(workDir, p)
		if err != nil {
			rel = p
		}
		if matchAny(rel, opts.ExcludeGlobs) {
			continue
		}
		if len(opts.IncludeGlobs) > 0 && !matchAny(rel, opts.IncludeGlobs) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		return os.Getwd()
	}
	return filepath.Abs(workDir)
}

func underAny(p string, roots []string) bool {
	if len(roots) == 0 {
		return true
	}
	for _, root := range roots {
		if p == root || strings.HasPrefix(p, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func matchAny(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if matchGlob(rel, pattern) {
			return true
		}
	}
	return false
}

// matchGlob supports path.Match syntax per segment plus "**" for any
// number of segments.
func matchGlob(name, pattern string) bool {
	name = filepath.ToSlash(name)
	pattern = filepath.ToSlash(pattern)

	if !strings.Contains(pattern, "/") {
		ok, err := path.Match(pattern, path.Base(name))
		return err == nil && ok
	}
	return matchSegments(strings.Split(pattern, "/"), strings.Split(name, "/"))
}

func matchSegments(pattern, segs []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			for i := 0; i <= len(segs); i++ {
				if matchSegments(pattern[1:], segs[i:]) {
					return true
				}
			}
			return false
		}
		if len(segs) == 0 {
			return false
		}
		if ok, err := path.Match(pattern[0], segs[0]); err != nil || !ok {
			return false
		}
		pattern, segs = pattern[1:], segs[1:]
	}
	return len(segs) == 0
}
