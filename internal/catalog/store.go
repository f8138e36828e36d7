// Package catalog owns the on-disk hunt catalog: read-only bundled hunts plus
// a writable root of imported and authored hunts, laid out as
//
//	<root>/<hunt-id>/hunt.json
//	<root>/<hunt-id>/images/...
//	<root>/<hunt-id>.json        (legacy, read and delete only)
//
// Every mutation reloads the catalog, which is replaced wholesale and never
// modified in place.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/playperu/wayward/internal/hunt"
)

const (
	DocumentName = "hunt.json"
	MediaDir     = "images"

	BundleExt   = ".wwh"
	ArchiveExt  = ".zip"
	DocumentExt = ".json"
)

var (
	ErrNotFound          = errors.New("hunt not found")
	ErrUnsupportedFormat = errors.New("unsupported import format")
	ErrMissingManifest   = errors.New("bundle has no " + DocumentName)
	ErrBadBundle         = errors.New("unreadable bundle")
	ErrInvalidMediaName  = errors.New("invalid media name")
	ErrReadOnly          = errors.New("hunt is bundled and read-only")
)

type Options struct {
	// Bundled holds read-only hunt documents at its top level and optional
	// media under images/. May be nil.
	Bundled fs.FS
	// Root is the writable hunts directory; created if missing.
	Root string
	// ExportDir receives bundles written by ExportBundle.
	ExportDir string
	// MaxBundleBytes caps the total decompressed size of one imported
	// bundle. Zero means DefaultMaxBundleBytes.
	MaxBundleBytes int64
	Logger         *slog.Logger
}

const DefaultMaxBundleBytes int64 = 1 << 30

type Store struct {
	bundled   fs.FS
	root      string
	exportDir string
	maxBundle int64
	logger    *slog.Logger

	// writeMu serializes filesystem mutations.
	writeMu sync.Mutex

	mu        sync.RWMutex
	hunts     []hunt.Hunt
	bundledID map[string]bool
	completed map[string]bool
	listeners []func([]hunt.Hunt)
}

// New prepares the writable root and performs the first load.
func New(opts Options) (*Store, error) {
	if opts.Root == "" {
		return nil, errors.New("catalog root is required")
	}
	if err := os.MkdirAll(opts.Root, 0o755); err != nil {
		return nil, fmt.Errorf("creating hunts root: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	maxBundle := opts.MaxBundleBytes
	if maxBundle <= 0 {
		maxBundle = DefaultMaxBundleBytes
	}

	s := &Store{
		bundled:   opts.Bundled,
		root:      opts.Root,
		exportDir: opts.ExportDir,
		maxBundle: maxBundle,
		logger:    logger,
		completed: make(map[string]bool),
	}
	s.LoadAll()
	return s, nil
}

// Root returns the writable hunts directory.
func (s *Store) Root() string { return s.root }

// LoadAll rebuilds the catalog from the bundled source followed by the
// writable root. The first hunt seen for an id wins; malformed documents are
// logged and skipped.
func (s *Store) LoadAll() []hunt.Hunt {
	bundled := s.loadBundled()
	var all []hunt.Hunt
	all = append(all, bundled...)
	all = append(all, s.loadImported()...)

	seen := make(map[string]bool, len(all))
	hunts := make([]hunt.Hunt, 0, len(all))
	bundledID := make(map[string]bool, len(bundled))
	for _, h := range bundled {
		bundledID[h.ID] = true
	}

	s.mu.Lock()
	for _, h := range all {
		if seen[h.ID] {
			s.logger.Debug("dropping duplicate hunt", "hunt_id", h.ID)
			continue
		}
		seen[h.ID] = true
		if s.completed[h.ID] {
			h.IsEditable = true
		}
		hunts = append(hunts, h)
	}
	s.hunts = hunts
	s.bundledID = bundledID
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	s.logger.Debug("catalog loaded", "hunts", len(hunts))
	notify(listeners, hunts)
	return slices.Clone(hunts)
}

// Hunts returns the current catalog.
func (s *Store) Hunts() []hunt.Hunt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.hunts)
}

func (s *Store) Get(id string) (hunt.Hunt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, h := range s.hunts {
		if h.ID == id {
			return h, nil
		}
	}
	return hunt.Hunt{}, ErrNotFound
}

// IsBundled reports whether the visible entry for id comes from the bundled
// source. Such a hunt stays read-only even once completed, because a copy
// under the root would be hidden behind it.
func (s *Store) IsBundled(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bundledID[id]
}

// OnChange registers fn to receive the catalog after every reload.
func (s *Store) OnChange(fn func([]hunt.Hunt)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// MarkEditable makes id author-editable in this store's view from now on,
// surviving later reloads.
func (s *Store) MarkEditable(id string) {
	s.mu.Lock()
	s.completed[id] = true
	hunts := slices.Clone(s.hunts)
	changed := false
	for i := range hunts {
		if hunts[i].ID == id && !hunts[i].IsEditable {
			hunts[i].IsEditable = true
			changed = true
		}
	}
	if changed {
		s.hunts = hunts
	}
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	if changed {
		notify(listeners, hunts)
	}
}

func notify(listeners []func([]hunt.Hunt), hunts []hunt.Hunt) {
	for _, fn := range listeners {
		fn(slices.Clone(hunts))
	}
}

func (s *Store) loadBundled() []hunt.Hunt {
	if s.bundled == nil {
		return nil
	}
	entries, err := fs.ReadDir(s.bundled, ".")
	if err != nil {
		s.logger.Warn("reading bundled hunts", "error", err)
		return nil
	}

	var hunts []hunt.Hunt
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != DocumentExt {
			continue
		}
		data, err := fs.ReadFile(s.bundled, e.Name())
		if err != nil {
			s.logger.Warn("reading bundled hunt", "file", e.Name(), "error", err)
			continue
		}
		h, err := hunt.Decode(data)
		if err != nil {
			s.logger.Warn("skipping bundled hunt", "file", e.Name(), "error", err)
			continue
		}
		hunts = append(hunts, h)
	}
	return hunts
}

func (s *Store) loadImported() []hunt.Hunt {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		s.logger.Warn("reading hunts root", "root", s.root, "error", err)
		return nil
	}

	var hunts []hunt.Hunt
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		var file string
		switch {
		case e.IsDir():
			file = filepath.Join(s.root, name, DocumentName)
		case filepath.Ext(name) == DocumentExt:
			file = filepath.Join(s.root, name)
		default:
			continue
		}

		h, err := readHunt(file)
		if err != nil {
			s.logger.Warn("skipping stored hunt", "path", file, "error", err)
			continue
		}
		h.IsEditable = true
		hunts = append(hunts, h)
	}
	return hunts
}

func readHunt(file string) (hunt.Hunt, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return hunt.Hunt{}, err
	}
	return hunt.Decode(data)
}

func (s *Store) huntDir(id string) string {
	return filepath.Join(s.root, id)
}

// storedDir returns the hunt's directory under the writable root, or
// ErrNotFound when there is none.
func (s *Store) storedDir(id string) (string, error) {
	if err := hunt.CheckID(id); err != nil {
		return "", fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	dir := s.huntDir(id)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", ErrNotFound
	}
	return dir, nil
}
