package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/playperu/wayward/internal/hunt"
)

// SaveHunt normalizes h, validates it and writes it as <root>/<id>/hunt.json.
// Media files are written into images/ additively; files not named in media
// are left alone. Validation failures come back as *hunt.ValidationError and
// a bundled id as ErrReadOnly; neither touches the disk.
func (s *Store) SaveHunt(h hunt.Hunt, media map[string][]byte) error {
	h = hunt.Normalize(h)
	if findings := hunt.Validate(h); len(findings) > 0 {
		return &hunt.ValidationError{Findings: findings}
	}
	if s.IsBundled(h.ID) {
		return fmt.Errorf("saving %s: %w", h.ID, ErrReadOnly)
	}
	for name := range media {
		if err := checkMediaName(name); err != nil {
			return fmt.Errorf("saving %s: %q: %w", h.ID, name, err)
		}
	}

	data, err := hunt.Encode(h)
	if err != nil {
		return fmt.Errorf("saving %s: %w", h.ID, err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	dir := s.huntDir(h.ID)
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		err = s.updateHunt(dir, data, media)
	} else {
		err = s.createHunt(h.ID, data, media)
	}
	if err != nil {
		return fmt.Errorf("saving %s: %w", h.ID, err)
	}

	s.logger.Info("saved hunt", "hunt_id", h.ID, "clues", len(h.Clues), "media", len(media))
	s.LoadAll()
	return nil
}

// createHunt stages the document and media in scratch and renames the whole
// directory into place.
func (s *Store) createHunt(id string, doc []byte, media map[string][]byte) error {
	scratch, cleanup, err := s.scratch()
	if err != nil {
		return err
	}
	defer cleanup()

	staged := filepath.Join(scratch, "stage")
	if err := os.MkdirAll(filepath.Join(staged, MediaDir), 0o755); err != nil {
		return fmt.Errorf("creating stage dir: %w", err)
	}
	for _, name := range sortedKeys(media) {
		if err := os.WriteFile(filepath.Join(staged, MediaDir, name), media[name], 0o644); err != nil {
			return fmt.Errorf("staging %s: %w", name, err)
		}
	}
	if err := os.WriteFile(filepath.Join(staged, DocumentName), doc, 0o644); err != nil {
		return fmt.Errorf("staging document: %w", err)
	}
	return s.install(id, staged, scratch)
}

// updateHunt writes media first and the document last, each atomically, so
// the stored document never references media that failed to land.
func (s *Store) updateHunt(dir string, doc []byte, media map[string][]byte) error {
	if len(media) > 0 {
		if err := os.MkdirAll(filepath.Join(dir, MediaDir), 0o755); err != nil {
			return fmt.Errorf("creating media dir: %w", err)
		}
	}
	for _, name := range sortedKeys(media) {
		if err := writeFileAtomic(filepath.Join(dir, MediaDir, name), media[name], 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	return writeFileAtomic(filepath.Join(dir, DocumentName), doc, 0o644)
}

// DeleteHunt removes the hunt's directory and any legacy <id>.json, then
// reloads. Deleting a hunt with nothing on disk is not an error.
func (s *Store) DeleteHunt(id string) error {
	if err := hunt.CheckID(id); err != nil {
		return fmt.Errorf("deleting %q: %w", id, err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := os.RemoveAll(s.huntDir(id)); err != nil {
		return fmt.Errorf("deleting %s: %w", id, err)
	}
	if err := os.Remove(filepath.Join(s.root, id+DocumentExt)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting legacy %s: %w", id, err)
	}

	s.logger.Info("deleted hunt", "hunt_id", id)
	s.LoadAll()
	return nil
}

// checkMediaName accepts plain file names only.
func checkMediaName(name string) error {
	if name == "" || name == "." || name == ".." || strings.HasPrefix(name, ".") ||
		strings.ContainsAny(name, "/\\:\x00") {
		return ErrInvalidMediaName
	}
	return nil
}

func sortedKeys(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
