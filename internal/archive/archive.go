// Package archive loads raw class records out of the supported container
// forms: JAR/ZIP archives, directory trees, and single .class files. It
// hands back bytes only; validation and decoding happen downstream.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"classlens/internal/errors"
)

const classSuffix = ".class"

// Record is one raw class record with the entry name it was loaded under.
type Record struct {
	Name string
	Data []byte
}

// Matcher filters entry names against compiled glob patterns.
type Matcher struct {
	patterns []glob.Glob
}

func NewMatcher(patterns []string) (*Matcher, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeValidationError, fmt.Sprintf("exclude pattern %q", p))
		}
		compiled = append(compiled, g)
	}
	return &Matcher{patterns: compiled}, nil
}

func (m *Matcher) Match(name string) bool {
	if m == nil {
		return false
	}
	for _, g := range m.patterns {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Read loads every class record under path, which may be an archive, a
// directory tree or a single .class file. Records come back sorted by name
// so repeated runs see identical input ordering.
func Read(path string, exclude *Matcher) ([]Record, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.CodeNotFound, "archive path %q does not exist", path)
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "stat archive path")
	}

	var records []Record
	switch {
	case info.IsDir():
		records, err = readDir(path, exclude)
	case isArchiveName(path):
		records, err = readZip(path, exclude)
	case strings.HasSuffix(path, classSuffix):
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, errors.Wrap(readErr, errors.CodeInternal, "read class file")
		}
		records = []Record{{Name: filepath.Base(path), Data: data}}
	default:
		return nil, errors.Newf(errors.CodeValidationError, "unsupported input %q: want a directory, .jar/.zip/.war archive or .class file", path)
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })
	return records, nil
}

func isArchiveName(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jar", ".zip", ".war":
		return true
	}
	return false
}

func readZip(path string, exclude *Matcher) ([]Record, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeParsing, fmt.Sprintf("open archive %q", path))
	}
	defer zr.Close()

	var records []Record
	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() || !strings.HasSuffix(entry.Name, classSuffix) {
			continue
		}
		if exclude.Match(entry.Name) {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeParsing, fmt.Sprintf("open entry %q", entry.Name))
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeParsing, fmt.Sprintf("read entry %q", entry.Name))
		}
		records = append(records, Record{Name: entry.Name, Data: data})
	}
	return records, nil
}

func readDir(root string, exclude *Matcher) ([]Record, error) {
	var records []Record
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, classSuffix) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if exclude.Match(name) {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		records = append(records, Record{Name: name, Data: data})
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, fmt.Sprintf("walk %q", root))
	}
	return records, nil
}
