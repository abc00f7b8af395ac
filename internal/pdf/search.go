package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Search discovers quote PDFs in a directory tree.
type Search struct {
	validator *Validator
}

// NewSearch creates a new PDF search handler with the specified constraints
func NewSearch(maxFileSize int64) *Search {
	return &Search{validator: NewValidator(maxFileSize)}
}

// FindPDFs walks directory and returns every PDF whose name matches query
// (all query words must appear in the file name; an empty query matches all).
// Hidden directories and files failing the quick validation are skipped.
// Results are sorted by path so batch output order is stable.
func (s *Search) FindPDFs(directory, query string) ([]FileInfo, error) {
	return s.walk(directory, query, true)
}

// ListPDFs returns every PDF under directory, sorted by path, without the
// size and emptiness checks FindPDFs applies. Callers that read each file
// get those errors per document instead.
func (s *Search) ListPDFs(directory string) ([]FileInfo, error) {
	return s.walk(directory, "", false)
}

func (s *Search) walk(directory, query string, validate bool) ([]FileInfo, error) {
	if directory == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}

	absDirectory, err := filepath.Abs(directory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory path: %w", err)
	}
	if info, err := os.Stat(absDirectory); err != nil {
		return nil, fmt.Errorf("cannot access directory: %w", err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", directory)
	}

	query = strings.ToLower(strings.TrimSpace(query))
	var files []FileInfo

	err = filepath.WalkDir(absDirectory, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			// Continue walking even if we encounter an error with a specific file
			return nil
		}

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != absDirectory {
				return filepath.SkipDir
			}
			return nil
		}

		if within, err := IsWithinDirectory(path, absDirectory); err != nil || !within {
			return nil
		}

		if !IsPDFName(d.Name()) || !matchesQuery(d.Name(), query) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if validate {
			if err := s.validator.ValidateFileInfo(path, info); err != nil {
				return nil
			}
		}

		files = append(files, FileInfo{
			Path:         path,
			Name:         info.Name(),
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// matchesQuery checks that every query word occurs in the file name.
func matchesQuery(filename, query string) bool {
	if query == "" {
		return true
	}
	name := strings.TrimSuffix(strings.ToLower(filename), ".pdf")
	if strings.Contains(name, query) {
		return true
	}
	for _, word := range splitIntoWords(query) {
		if !strings.Contains(name, word) {
			return false
		}
	}
	return true
}

// splitIntoWords splits a string into words using common separators
func splitIntoWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return strings.ContainsRune(" _-.()[]", r)
	})
}
