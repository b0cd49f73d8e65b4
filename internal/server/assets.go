package server

import (
	"io/fs"
	"path"
	"strings"
)

// assetFS exposes files of a directory tree but hides dotfiles and
// directories that have no index.html, so http.FileServerFS answers 404
// instead of serving or listing them.
type assetFS struct {
	fsys fs.FS
}

// Open implements fs.FS.
func (a assetFS) Open(name string) (fs.File, error) {
	if isHidden(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	f, err := a.fsys.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if !info.IsDir() {
		return f, nil
	}

	index, err := fs.Stat(a.fsys, path.Join(name, "index.html"))
	if err != nil || index.IsDir() {
		_ = f.Close()
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return f, nil
}

// isHidden reports whether any element of name starts with a dot.
// The root "." itself is not hidden.
func isHidden(name string) bool {
	if name == "." {
		return false
	}
	for part := range strings.SplitSeq(name, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
