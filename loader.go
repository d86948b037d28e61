package sci

import (
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Resource is one resource found by a Loader: either a loose patch file or
// an entry of an archive.
type Resource struct {
	Name    string
	Path    string
	Archive Archive
}

// Patch reports whether the resource comes from a loose file.
func (r Resource) Patch() bool { return r.Archive == nil }

// Bytes returns the resource as it would appear in a patch file: the type
// tag followed by the payload.
func (r Resource) Bytes() ([]byte, error) {
	if r.Archive != nil {
		return r.Archive.Fetch(r.Name)
	}
	data, err := os.ReadFile(r.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return data, nil
}

// Loader merges the loose patch files of a game directory with the
// contents of its archive. The first source to provide a name wins: patch
// directories in order, then the game directory itself, then the archive.
type Loader struct {
	Dir string

	// Patches are directories, relative to Dir, searched before Dir.
	Patches []string
	// NoFiles skips loose files entirely.
	NoFiles bool

	// Maps are tried in order; only the first one that exists is read.
	Maps []string
	// OpenArchive opens a map file. A Loader without one only yields loose
	// files.
	OpenArchive func(mapPath string) (Archive, error)

	// Patterns filter names with path.Match syntax. Empty means all.
	Patterns []string
}

func NewLoader(dir string) *Loader {
	return &Loader{
		Dir:         dir,
		Maps:        DefaultMaps,
		OpenArchive: Open,
		Patterns:    []string{"*"},
	}
}

// Resources yields every resource once, in priority order. Opening the
// archive or reading a directory may fail; the failure is yielded and ends
// the sequence. Fetch errors are left to Resource.Bytes so that one bad
// resource never stops the others.
func (l *Loader) Resources() iter.Seq2[Resource, error] {
	return func(yield func(Resource, error) bool) {
		patterns := l.Patterns
		if len(patterns) == 0 {
			patterns = []string{"*"}
		}
		seen := make(map[string]bool)

		if !l.NoFiles {
			dirs := append(append([]string(nil), l.Patches...), ".")
			for _, dir := range dirs {
				for _, pattern := range patterns {
					matches, err := filepath.Glob(filepath.Join(l.Dir, dir, pattern))
					if err != nil {
						yield(Resource{}, fmt.Errorf("patch pattern %q: %w", pattern, err))
						return
					}
					for _, m := range matches {
						name := filepath.Base(m)
						key := strings.ToLower(name)
						if seen[key] || l.archiveFile(name) {
							continue
						}
						if info, err := os.Stat(m); err != nil || info.IsDir() {
							continue
						}
						seen[key] = true
						if !yield(Resource{Name: name, Path: m}, nil) {
							return
						}
					}
				}
			}
		}

		for _, m := range l.Maps {
			if l.OpenArchive == nil {
				slog.Warn("sci: archive support is disabled, loading loose files only", "map", m)
				return
			}
			mapPath := filepath.Join(l.Dir, m)
			if _, err := os.Stat(mapPath); err != nil {
				continue
			}

			a, err := l.OpenArchive(mapPath)
			if err != nil {
				yield(Resource{}, err)
				return
			}
			for _, pattern := range patterns {
				names, err := a.Names(pattern)
				if err != nil {
					yield(Resource{}, fmt.Errorf("archive pattern %q: %w", pattern, err))
					return
				}
				for _, name := range names {
					key := strings.ToLower(name)
					if seen[key] {
						continue
					}
					seen[key] = true
					if !yield(Resource{Name: name, Archive: a}, nil) {
						return
					}
				}
			}
			return
		}
	}
}

// archiveFile reports whether name is one of the map files or a volume
// that belongs to one, which a wide pattern would otherwise pick up as
// loose files.
func (l *Loader) archiveFile(name string) bool {
	stem, ext, _ := strings.Cut(strings.ToUpper(name), ".")
	if stem == "RESSCI" && numeric(ext) {
		return true
	}
	for _, m := range l.Maps {
		if strings.EqualFold(m, name) {
			return true
		}
		mapStem, _, _ := strings.Cut(strings.ToUpper(m), ".")
		if stem == mapStem && numeric(ext) {
			return true
		}
	}
	return false
}

func numeric(ext string) bool {
	if len(ext) != 3 {
		return false
	}
	for _, c := range ext {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
