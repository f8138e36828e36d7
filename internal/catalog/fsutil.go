package catalog

import (
	"fmt"
	"os"
	"path/filepath"
)

// writeFileAtomic writes data to a temp file in the target directory and
// renames it into place, so readers never observe a partial file.
func writeFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err = tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("renaming into place: %w", err)
	}
	return nil
}

// scratch creates a hidden working directory under the hunts root. Living on
// the same filesystem lets staged hunts be renamed into place.
func (s *Store) scratch() (string, func(), error) {
	dir, err := os.MkdirTemp(s.root, ".scratch-")
	if err != nil {
		return "", nil, fmt.Errorf("creating scratch dir: %w", err)
	}
	cleanup := func() {
		if err := os.RemoveAll(dir); err != nil {
			s.logger.Warn("removing scratch dir", "dir", dir, "error", err)
		}
	}
	return dir, cleanup, nil
}

// install moves a fully staged hunt directory to <root>/<id>, replacing any
// existing directory. The replaced directory is parked inside scratch and
// restored if the swap fails.
func (s *Store) install(id, staged, scratch string) error {
	dest := s.huntDir(id)
	parked := filepath.Join(scratch, "previous")

	hadPrevious := false
	if _, err := os.Stat(dest); err == nil {
		if err := os.Rename(dest, parked); err != nil {
			return fmt.Errorf("moving existing hunt aside: %w", err)
		}
		hadPrevious = true
	}

	if err := os.Rename(staged, dest); err != nil {
		if hadPrevious {
			if rerr := os.Rename(parked, dest); rerr != nil {
				s.logger.Error("restoring previous hunt", "hunt_id", id, "error", rerr)
			}
		}
		return fmt.Errorf("installing hunt: %w", err)
	}
	return nil
}
