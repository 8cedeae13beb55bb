package ui

import (
	"fmt"
	"io"
	"strings"
)

const bannerWidth = 60

// WriteBanner prints the run header: source, destination and formats
// between two rules.
func WriteBanner(w io.Writer, color bool, src, dst string, formats []string) {
	s := newStyles(w, color)
	rule := s.dim.Render(strings.Repeat("=", bannerWidth))

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, s.header.Render("COPY FILES WITH .txt SUFFIX"))
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%s %s\n", s.label.Render("Source directory:"), src)
	fmt.Fprintf(w, "%s %s\n", s.label.Render("Destination directory:"), dst)
	fmt.Fprintf(w, "%s %s\n", s.label.Render("File formats:"), FormatList(formats))
	fmt.Fprintln(w, rule)
}
