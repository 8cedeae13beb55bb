package filter

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"
)

// Chain holds exclusion rules applied by the locator on top of the
// extension set. Rules can only remove candidates, never add them.
type Chain struct {
	patterns []pattern
	ignore   gitignore.IgnoreMatcher
	root     string
}

// NewChain creates an empty chain.
func NewChain() *Chain {
	return &Chain{}
}

// AddExclude adds a glob pattern. A pattern without a slash matches the
// base name at any depth; one with a slash matches the whole path relative
// to the source root, where "**" spans any number of directories. A
// trailing slash limits the pattern to directories.
func (c *Chain) AddExclude(p string) error {
	cp, err := compilePattern(p)
	if err != nil {
		return err
	}
	c.patterns = append(c.patterns, cp)
	return nil
}

// LoadGitignore reads root/.gitignore. A missing file leaves the chain
// unchanged.
func (c *Chain) LoadGitignore(root string) error {
	file := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(file); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", file, err)
	}
	m, err := gitignore.NewGitIgnore(file, root)
	if err != nil {
		return fmt.Errorf("parse %s: %w", file, err)
	}
	c.ignore = m
	c.root = root
	return nil
}

// Empty reports whether the chain has no rules.
func (c *Chain) Empty() bool {
	return c == nil || (len(c.patterns) == 0 && c.ignore == nil)
}

// Excluded reports whether relPath (slash or OS separated, relative to the
// source root) should be skipped. For directories the whole subtree is
// skipped.
func (c *Chain) Excluded(relPath string, isDir bool) bool {
	if c.Empty() {
		return false
	}
	rel := filepath.ToSlash(relPath)
	for _, p := range c.patterns {
		if p.match(rel, isDir) {
			return true
		}
	}
	if c.ignore != nil && c.ignore.Match(filepath.Join(c.root, relPath), isDir) {
		return true
	}
	return false
}

type pattern struct {
	original string
	segments []string
	anchored bool
	dirOnly  bool
}

func compilePattern(p string) (pattern, error) {
	cp := pattern{original: p}
	p = strings.TrimSpace(p)
	if strings.HasSuffix(p, "/") {
		cp.dirOnly = true
		p = strings.TrimRight(p, "/")
	}
	if strings.Contains(p, "/") {
		cp.anchored = true
		p = strings.TrimPrefix(p, "/")
	}
	if p == "" {
		return pattern{}, fmt.Errorf("empty exclude pattern %q", cp.original)
	}
	cp.segments = strings.Split(p, "/")
	for _, seg := range cp.segments {
		if seg == "**" {
			continue
		}
		if _, err := path.Match(seg, ""); err != nil {
			return pattern{}, fmt.Errorf("exclude pattern %q: %w", cp.original, err)
		}
	}
	return cp, nil
}

func (p pattern) match(rel string, isDir bool) bool {
	if p.dirOnly && !isDir {
		return false
	}
	if !p.anchored {
		ok, _ := path.Match(p.segments[0], path.Base(rel))
		return ok
	}
	return matchSegments(p.segments, strings.Split(rel, "/"))
}

func matchSegments(pat, name []string) bool {
	for len(pat) > 0 {
		if pat[0] == "**" {
			rest := pat[1:]
			if len(rest) == 0 {
				return true
			}
			for i := range name {
				if matchSegments(rest, name[i:]) {
					return true
				}
			}
			return false
		}
		if len(name) == 0 {
			return false
		}
		if ok, _ := path.Match(pat[0], name[0]); !ok {
			return false
		}
		pat, name = pat[1:], name[1:]
	}
	return len(name) == 0
}
