package panel

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
)

//go:embed web/*
var content embed.FS

// Handler returns an http.Handler serving the node view.
//
// A non-empty dir that exists overrides the embedded assets, so the view
// can be edited without rebuilding the binary. Requests for files that
// do not exist get index.html; requests under /api never reach here.
func Handler(dir string) (http.Handler, error) {
	fsys, err := assets(dir)
	if err != nil {
		return nil, err
	}
	fileServer := http.FileServer(http.FS(fsys))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Values change under the page; never let a browser pin old script.
		w.Header().Set("Cache-Control", "no-cache, must-revalidate")

		name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
		if name == "" || name == "." {
			fileServer.ServeHTTP(w, r)
			return
		}
		if _, err := fs.Stat(fsys, name); err != nil {
			r.URL.Path = "/"
		}
		fileServer.ServeHTTP(w, r)
	}), nil
}

func assets(dir string) (fs.FS, error) {
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return os.DirFS(dir), nil
		}
	}
	sub, err := fs.Sub(content, "web")
	if err != nil {
		return nil, fmt.Errorf("panel: loading embedded assets: %w", err)
	}
	return sub, nil
}
