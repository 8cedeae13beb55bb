package filter

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultExtensions is the extension list used when none is configured.
var DefaultExtensions = []string{".php", ".js", ".py", ".html", ".css", ".txt"}

// ErrNoExtensions is returned when a format list normalizes to nothing.
var ErrNoExtensions = errors.New("no file extensions given")

// ExtensionSet is a case-insensitive set of file extensions, each stored
// lower-cased with a leading dot. It implements pflag.Value so it can be
// bound directly to a comma-separated flag.
type ExtensionSet struct {
	order []string
	set   map[string]struct{}
}

// NewExtensionSet builds a set from individual extensions. Entries are
// normalized the same way as ParseExtensions.
func NewExtensionSet(exts ...string) (ExtensionSet, error) {
	var e ExtensionSet
	for _, ext := range exts {
		e.add(ext)
	}
	if e.Len() == 0 {
		return ExtensionSet{}, ErrNoExtensions
	}
	return e, nil
}

// ParseExtensions parses a comma-separated list such as "php, .JS,py".
// Missing dots are added, blanks are dropped and duplicates collapse.
func ParseExtensions(s string) (ExtensionSet, error) {
	set, err := NewExtensionSet(strings.Split(s, ",")...)
	if err != nil {
		return ExtensionSet{}, fmt.Errorf("parse formats %q: %w", s, err)
	}
	return set, nil
}

func (e *ExtensionSet) add(ext string) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || ext == "." {
		return
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if e.set == nil {
		e.set = make(map[string]struct{})
	}
	if _, ok := e.set[ext]; ok {
		return
	}
	e.set[ext] = struct{}{}
	e.order = append(e.order, ext)
}

// Match reports whether the file name's extension is in the set.
func (e ExtensionSet) Match(name string) bool {
	_, ext := SplitExt(name)
	if ext == "" {
		return false
	}
	_, ok := e.set[strings.ToLower(ext)]
	return ok
}

// Len returns the number of distinct extensions.
func (e ExtensionSet) Len() int { return len(e.order) }

// List returns the extensions in the order they were first given.
func (e ExtensionSet) List() []string {
	return append([]string(nil), e.order...)
}

// String returns the comma-joined list, suitable as a flag default.
func (e *ExtensionSet) String() string {
	return strings.Join(e.order, ",")
}

// Set replaces the set with the parsed value of s.
func (e *ExtensionSet) Set(s string) error {
	parsed, err := ParseExtensions(s)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

func (*ExtensionSet) Type() string { return "list" }

// SplitExt splits a base name into stem and extension. The extension
// starts at the last dot, but leading dots belong to the stem, so
// ".bashrc" has no extension and "archive.tar.gz" splits into
// "archive.tar" and ".gz".
func SplitExt(name string) (stem, ext string) {
	dot := strings.LastIndexByte(name, '.')
	if dot <= 0 {
		return name, ""
	}
	if strings.TrimLeft(name[:dot], ".") == "" {
		return name, ""
	}
	return name[:dot], name[dot:]
}
