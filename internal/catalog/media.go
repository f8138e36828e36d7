package catalog

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// Probe order for extensionless media names.
var mediaExtensions = []string{
	"jpg", "jpeg", "png", "heic",
	"JPG", "JPEG", "PNG", "HEIC",
}

// Media is a resolved media file.
type Media struct {
	// Name is the file name that matched, extension included.
	Name string
	// Bundled is set when the file came from the read-only source.
	Bundled bool

	fsys fs.FS
	path string
}

func (m Media) Open() (fs.File, error) { return m.fsys.Open(m.path) }

func (m Media) ReadAll() ([]byte, error) { return fs.ReadFile(m.fsys, m.path) }

// ResolveMedia finds name for huntID. The hunt's images/ directory is probed
// with each known extension, then with the literal name; the bundled images/
// directory is tried last.
func (s *Store) ResolveMedia(name, huntID string) (Media, bool) {
	if checkMediaName(name) != nil {
		return Media{}, false
	}
	candidates := make([]string, 0, len(mediaExtensions)+1)
	for _, ext := range mediaExtensions {
		candidates = append(candidates, name+"."+ext)
	}
	candidates = append(candidates, name)

	if huntID != "" && checkMediaName(huntID) == nil {
		dir := os.DirFS(filepath.Join(s.root, huntID, MediaDir))
		for _, c := range candidates {
			if isFile(dir, c) {
				return Media{Name: c, fsys: dir, path: c}, true
			}
		}
	}

	if s.bundled != nil {
		for _, c := range candidates {
			p := path.Join(MediaDir, c)
			if isFile(s.bundled, p) {
				return Media{Name: c, Bundled: true, fsys: s.bundled, path: p}, true
			}
		}
	}
	return Media{}, false
}

func isFile(fsys fs.FS, name string) bool {
	info, err := fs.Stat(fsys, name)
	return err == nil && info.Mode().IsRegular()
}
