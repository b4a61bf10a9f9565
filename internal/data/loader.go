// Package data loads the declarative game content: enemies with their
// abilities, trinkets, affixes, card tags, narrative events, acts and
// classes.
package data

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrLoad marks a data file that is missing or malformed.
var ErrLoad = errors.New("data load error")

//go:embed defaults/*.yaml
var defaults embed.FS

// fileNames are the data files, in load order.
var fileNames = []string{
	"enemies.yaml",
	"trinkets.yaml",
	"affixes.yaml",
	"tags.yaml",
	"events.yaml",
	"acts.yaml",
	"classes.yaml",
}

// Loader handles reading records from the read-only data layer
type Loader struct {
	dataDirs []string
}

// NewLoader initializes a new Data Loader with the given data directory fallback hierarchy.
// Files missing from every directory come from the embedded defaults.
func NewLoader(dataDirs []string) *Loader {
	return &Loader{
		dataDirs: dataDirs,
	}
}

// LoadFiles decodes every data file into raw records.
func (l *Loader) LoadFiles() (*Files, error) {
	var f Files
	for _, name := range fileNames {
		if err := l.load(name, &f); err != nil {
			return nil, err
		}
	}
	return &f, nil
}

// Load decodes and converts every data file into game content.
func (l *Loader) Load() (*Content, error) {
	f, err := l.LoadFiles()
	if err != nil {
		return nil, err
	}
	return Build(f)
}

func (l *Loader) load(ref string, target interface{}) error {
	for _, dir := range l.dataDirs {
		path := filepath.Join(dir, ref)
		f, err := os.Open(path)
		if err == nil {
			defer f.Close()
			return decode(ref, f, target)
		}
	}
	f, err := defaults.Open("defaults/" + ref)
	if err != nil {
		return fmt.Errorf("%w: could not find or open reference %s in any available data directory", ErrLoad, ref)
	}
	defer f.Close()
	return decode(ref, f, target)
}

func decode(ref string, r io.Reader, target interface{}) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: failed to decode yaml reference %s: %v", ErrLoad, ref, err)
	}
	return nil
}
