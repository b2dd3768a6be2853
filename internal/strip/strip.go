// Package strip removes hardcoded CJK text from elements that carry a
// data-i18n marker, leaving the marker and an empty element in place so
// the text can come from a translation table instead.
package strip

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/net/html"
)

// ErrMarkerLost means a transformation would have changed the set of
// markers in the document. The file is left untouched.
var ErrMarkerLost = errors.New("transformation would alter i18n markers")

// Result describes one transformation.
type Result struct {
	Content string
	Changes int  // matches removed across all passes
	Changed bool // Content differs from the input
}

// Marker is a data-i18n attribute found in a document.
type Marker struct {
	Tag string
	Key string
}

// Content runs the pipeline over s until nothing more matches. Every
// replacement shortens the text, so the loop ends, and its output is a
// fixed point: running Content again changes nothing.
func Content(s string) Result {
	res := Result{Content: s}
	for {
		n := pass(&res.Content)
		if n == 0 {
			break
		}
		res.Changes += n
	}
	res.Changed = res.Content != s
	return res
}

// pass applies every rule and then every literal once, returning the
// number of matches.
func pass(content *string) int {
	changes := 0
	for _, r := range rules {
		matches := r.pattern.FindAllStringIndex(*content, -1)
		if len(matches) == 0 {
			continue
		}
		next := r.pattern.ReplaceAllString(*content, r.replace)
		if next != *content {
			changes += len(matches)
			*content = next
		}
	}
	for _, l := range literals {
		if strings.Contains(*content, l.old) {
			*content = strings.ReplaceAll(*content, l.old, l.new)
			changes++
		}
	}
	return changes
}

// Markers lists the data-i18n attributes of s in document order.
func Markers(s string) []Marker {
	var markers []Marker
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return markers
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if string(key) == MarkerAttr {
					markers = append(markers, Marker{Tag: string(name), Key: string(val)})
				}
			}
		}
	}
}

// File transforms the file at path in place. It writes only when the
// content changed and the markers are exactly preserved. A missing file
// yields an error matching fs.ErrNotExist.
func File(fsys afero.Fs, path string) (Result, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		return Result{}, fmt.Errorf("stat %s: %w", path, err)
	}
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", path, err)
	}

	original := string(data)
	res := Content(original)
	if !res.Changed {
		return res, nil
	}

	if !slices.Equal(Markers(original), Markers(res.Content)) {
		return Result{Content: original}, fmt.Errorf("%s: %w", path, ErrMarkerLost)
	}

	if err := afero.WriteFile(fsys, path, []byte(res.Content), info.Mode().Perm()); err != nil {
		return Result{}, fmt.Errorf("write %s: %w", path, err)
	}
	return res, nil
}
