package source

import (
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/vango-dev/abs/internal/errors"
)

// Expand resolves glob patterns to local files. Remote references and
// plain paths pass through unchanged. The result is sorted and free of
// duplicates.
func Expand(refs []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(ref string) {
		if !seen[ref] {
			seen[ref] = true
			out = append(out, ref)
		}
	}

	for _, ref := range refs {
		if scheme(ref) != "" || !hasMeta(ref) {
			add(ref)
			continue
		}
		if !doublestar.ValidatePattern(filepath.ToSlash(ref)) {
			return nil, errors.New("A030").
				WithSubject(ref).
				WithDetail("The pattern is not a valid glob.")
		}
		matches, err := doublestar.FilepathGlob(ref, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.New("A020").WithSubject(ref).Wrap(err)
		}
		for _, m := range matches {
			add(m)
		}
	}

	sort.Strings(out)
	return out, nil
}

func hasMeta(p string) bool {
	for _, c := range p {
		switch c {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
