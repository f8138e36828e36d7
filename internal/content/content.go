// Package content ships the read-only hunts compiled into the binary.
package content

import (
	"embed"
	"io/fs"
)

//go:embed bundled
var bundled embed.FS

// Bundled returns the packaged hunts: documents at the top level and any
// media under images/.
func Bundled() fs.FS {
	sub, err := fs.Sub(bundled, "bundled")
	if err != nil {
		panic(err)
	}
	return sub
}
