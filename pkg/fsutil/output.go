package fsutil

import (
	"fmt"
	"path/filepath"
	"strings"
)

// OutputPath maps a source document to the path of its converted file.
// The source extension is replaced by ext. When outDir is empty the output
// sits next to the source; otherwise the source's location relative to
// baseDir is recreated below outDir. Sources outside baseDir are placed
// directly in outDir.
func OutputPath(src, baseDir, outDir, ext string) (string, error) {
	name := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)) + ext
	if outDir == "" {
		return filepath.Join(filepath.Dir(src), name), nil
	}

	rel, err := filepath.Rel(baseDir, filepath.Dir(src))
	if err != nil {
		return "", fmt.Errorf("relative path of %s: %w", src, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = "."
	}
	return filepath.Join(outDir, rel, name), nil
}
