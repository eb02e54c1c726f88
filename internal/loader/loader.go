// Package loader materializes directive definitions from JSON files on
// disk into a catalog. It is the external collaborator the engine core
// depends on only at the registration boundary: every record still goes
// through Register and its invariant checks.
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	wefterrors "github.com/weft-lang/weft/engine/errors"
	"github.com/weft-lang/weft/engine/registry"
)

// Loader reads directive definition files from one or more directories.
type Loader struct {
	log   *zap.Logger
	paths []string
}

// New creates a loader over the given search paths.
func New(log *zap.Logger, paths ...string) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{log: log, paths: paths}
}

// document is the shape of a definition file: either a single definition
// object or a collection under "directives".
type document struct {
	Directives []json.RawMessage `json:"directives"`
}

// Load walks every search path for .json files and registers their
// definitions into catalog. Files that fail to decode or register are
// collected so one bad file does not hide the rest; the returned count
// is the number of definitions successfully registered.
func (l *Loader) Load(catalog *registry.Catalog) (int, error) {
	errs := wefterrors.NewList()
	loaded := 0

	for _, root := range l.paths {
		walkErr := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(path, ".json") {
				return nil
			}
			n, err := l.LoadFile(catalog, path)
			loaded += n
			if err != nil {
				errs.Add(err)
			}
			return nil
		})
		if walkErr != nil {
			errs.Add(wefterrors.New(wefterrors.PhaseRegistry, wefterrors.ErrInvalidDefinition,
				fmt.Sprintf("walking %s: %v", root, walkErr)))
		}
	}

	l.log.Info("directive definitions loaded",
		zap.Int("count", loaded),
		zap.Int("errors", errs.Count()),
		zap.Strings("paths", l.paths))
	return loaded, errs.ErrOrNil()
}

// LoadFile registers the definitions in a single file and returns how
// many were registered.
func (l *Loader) LoadFile(catalog *registry.Catalog, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, wefterrors.New(wefterrors.PhaseRegistry, wefterrors.ErrInvalidDefinition,
			fmt.Sprintf("reading %s: %v", path, err))
	}

	docs, err := splitDocument(data)
	if err != nil {
		return 0, wefterrors.New(wefterrors.PhaseRegistry, wefterrors.ErrInvalidDefinition,
			fmt.Sprintf("%s: %v", path, err))
	}

	errs := wefterrors.NewList()
	loaded := 0
	for _, raw := range docs {
		if err := catalog.RegisterJSON(raw); err != nil {
			errs.Add(err)
			continue
		}
		loaded++
	}

	l.log.Debug("definition file processed",
		zap.String("path", path),
		zap.Int("loaded", loaded),
		zap.Int("errors", errs.Count()))
	return loaded, errs.ErrOrNil()
}

// splitDocument accepts either a single definition object or a
// {"directives": [...]} collection.
func splitDocument(data []byte) ([]json.RawMessage, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, fmt.Errorf("empty definition file")
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err == nil && len(doc.Directives) > 0 {
		return doc.Directives, nil
	}

	var single map[string]any
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("not a definition object or collection: %w", err)
	}
	return []json.RawMessage{json.RawMessage(data)}, nil
}
