package catalog

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

// ExportBundle zips the hunt's directory into <export dir>/<id>.wwh and
// returns the bundle path. Bundled-only hunts have no directory and fail with
// ErrNotFound.
func (s *Store) ExportBundle(id string) (string, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	dir, err := s.storedDir(id)
	if err != nil {
		return "", fmt.Errorf("exporting %s: %w", id, err)
	}
	if s.exportDir == "" {
		return "", fmt.Errorf("exporting %s: no export directory configured", id)
	}
	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}

	var buf bytes.Buffer
	if err := writeZip(&buf, dir); err != nil {
		return "", fmt.Errorf("exporting %s: %w", id, err)
	}

	out := filepath.Join(s.exportDir, id+BundleExt)
	if err := writeFileAtomic(out, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("exporting %s: %w", id, err)
	}
	s.logger.Info("exported hunt", "hunt_id", id, "path", out, "size", humanize.Bytes(uint64(buf.Len())))
	return out, nil
}

// WriteBundle streams the hunt's bundle to w.
func (s *Store) WriteBundle(w io.Writer, id string) error {
	dir, err := s.storedDir(id)
	if err != nil {
		return fmt.Errorf("exporting %s: %w", id, err)
	}
	return writeZip(w, dir)
}

// writeZip archives dir with paths relative to it, so hunt.json sits at the
// archive root.
func writeZip(w io.Writer, dir string) error {
	zw := zip.NewWriter(w)

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		hdr, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		hdr.Method = zip.Deflate

		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return err
		}
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(fw, f)
		return err
	})
	if err != nil {
		zw.Close()
		return fmt.Errorf("writing bundle: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finishing bundle: %w", err)
	}
	return nil
}

// extractZip unpacks src into dest, refusing entries that would land outside
// dest and archives that expand past budget bytes in total.
func extractZip(src, dest string, budget int64) error {
	zr, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBadBundle, err)
	}
	defer zr.Close()

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("creating extract dir: %w", err)
	}

	for _, f := range zr.File {
		target, err := entryPath(dest, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("extracting %s: %w", f.Name, err)
			}
			continue
		}
		n, err := extractFile(f, target, budget)
		if err != nil {
			return fmt.Errorf("extracting %s: %w", f.Name, err)
		}
		budget -= n
	}
	return nil
}

func entryPath(dest, name string) (string, error) {
	if strings.Contains(name, `\`) || filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: entry %q escapes the bundle", ErrBadBundle, name)
	}
	target := filepath.Join(dest, filepath.FromSlash(name))
	rel, err := filepath.Rel(dest, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: entry %q escapes the bundle", ErrBadBundle, name)
	}
	return target, nil
}

// extractFile writes one entry and returns its size. Headers can lie about
// sizes, so the limit is enforced on the bytes actually inflated.
func extractFile(f *zip.File, target string, limit int64) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return 0, err
	}
	rc, err := f.Open()
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(out, io.LimitReader(rc, limit+1))
	if err != nil {
		out.Close()
		return n, err
	}
	if n > limit {
		out.Close()
		return n, fmt.Errorf("%w: expands past %s", ErrBadBundle, humanize.IBytes(uint64(limit)))
	}
	return n, out.Close()
}
