package catalog

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/playperu/wayward/internal/hunt"
)

// Import copies a bundle (.wwh, .zip) or a standalone hunt document (.json)
// into the writable root and reloads. A failed import leaves no partial hunt
// directory behind.
func (s *Store) Import(src string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var err error
	switch strings.ToLower(filepath.Ext(src)) {
	case BundleExt, ArchiveExt:
		err = s.importBundle(src)
	case DocumentExt:
		err = s.importDocument(src)
	default:
		err = ErrUnsupportedFormat
	}
	if err != nil {
		return fmt.Errorf("importing %s: %w", filepath.Base(src), err)
	}

	s.LoadAll()
	return nil
}

// ImportReader spools r to a scratch file named like filename and imports it.
// The extension of filename selects the format.
func (s *Store) ImportReader(filename string, r io.Reader) error {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case BundleExt, ArchiveExt, DocumentExt:
	default:
		return fmt.Errorf("importing %s: %w", filepath.Base(filename), ErrUnsupportedFormat)
	}

	f, err := os.CreateTemp(s.root, ".upload-*"+ext)
	if err != nil {
		return fmt.Errorf("spooling upload: %w", err)
	}
	defer os.Remove(f.Name())

	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("spooling upload: %w", err)
	}
	s.logger.Debug("received upload", "filename", filename, "size", humanize.Bytes(uint64(n)))

	return s.Import(f.Name())
}

func (s *Store) importBundle(src string) error {
	scratch, cleanup, err := s.scratch()
	if err != nil {
		return err
	}
	defer cleanup()

	extracted := filepath.Join(scratch, "extract")
	if err := extractZip(src, extracted, s.maxBundle); err != nil {
		return err
	}

	data, err := os.ReadFile(filepath.Join(extracted, DocumentName))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrMissingManifest
	}
	if err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}
	h, err := hunt.Decode(data)
	if err != nil {
		return err
	}

	staged := filepath.Join(scratch, "stage")
	if err := os.Mkdir(staged, 0o755); err != nil {
		return fmt.Errorf("creating stage dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(staged, DocumentName), data, 0o644); err != nil {
		return fmt.Errorf("staging manifest: %w", err)
	}
	if info, err := os.Stat(filepath.Join(extracted, MediaDir)); err == nil && info.IsDir() {
		if err := os.Rename(filepath.Join(extracted, MediaDir), filepath.Join(staged, MediaDir)); err != nil {
			return fmt.Errorf("staging media: %w", err)
		}
	}

	if err := s.install(h.ID, staged, scratch); err != nil {
		return err
	}
	s.logger.Info("imported hunt bundle", "hunt_id", h.ID, "title", h.Title)
	return nil
}

// importDocument installs a bare hunt document. Media already stored for the
// same id is kept.
func (s *Store) importDocument(src string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}
	h, err := hunt.Decode(data)
	if err != nil {
		return err
	}

	if info, err := os.Stat(s.huntDir(h.ID)); err == nil && info.IsDir() {
		if err := writeFileAtomic(filepath.Join(s.huntDir(h.ID), DocumentName), data, 0o644); err != nil {
			return err
		}
	} else {
		scratch, cleanup, err := s.scratch()
		if err != nil {
			return err
		}
		defer cleanup()

		staged := filepath.Join(scratch, "stage")
		if err := os.Mkdir(staged, 0o755); err != nil {
			return fmt.Errorf("creating stage dir: %w", err)
		}
		if err := os.WriteFile(filepath.Join(staged, DocumentName), data, 0o644); err != nil {
			return fmt.Errorf("staging document: %w", err)
		}
		if err := s.install(h.ID, staged, scratch); err != nil {
			return err
		}
	}

	s.logger.Info("imported hunt document", "hunt_id", h.ID, "title", h.Title)
	return nil
}
