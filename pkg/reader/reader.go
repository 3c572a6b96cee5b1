package reader

import (
	"io/fs"
	"os"
	"path/filepath"
)

// DocumentFile is one file found under the course document directory.
type DocumentFile struct {
	Name string // base filename, the identity used by the freshness snapshot
	Path string // full path for reading
}

// ListFiles enumerates every regular file under root, recursively. Hidden
// files are skipped so editor droppings don't poison the freshness snapshot.
func ListFiles(root string) ([]DocumentFile, error) {
	var files []DocumentFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() != "." && len(d.Name()) > 1 && d.Name()[0] == '.' {
				return filepath.SkipDir
			}
			return nil
		}
		if len(d.Name()) > 0 && d.Name()[0] == '.' {
			return nil
		}
		files = append(files, DocumentFile{
			Name: d.Name(),
			Path: path,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// FileNameSet returns the filename set used by the freshness comparison.
func FileNameSet(files []DocumentFile) map[string]struct{} {
	set := make(map[string]struct{}, len(files))
	for _, f := range files {
		set[f.Name] = struct{}{}
	}
	return set
}

// ReadText reads a document's content as text. Course material is treated as
// plain text; binary formats should be converted before upload.
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
