package ingestion

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Document is raw resume text and where it came from.
type Document struct {
	Text   string
	Source string
}

// TextExtensions are the file extensions LoadDocuments reads.
var TextExtensions = []string{".txt", ".text", ".md"}

// LoadDocuments reads resume files. Directories are walked recursively and
// only files with one of TextExtensions are read from them; files named
// directly are always read. Documents come back in path order.
func LoadDocuments(paths ...string) ([]Document, error) {
	var docs []Document
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			doc, err := readDocument(root)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !isText(path) {
				return nil
			}
			doc, err := readDocument(path)
			if err != nil {
				return err
			}
			docs = append(docs, doc)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return docs, nil
}

func readDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Document{Text: string(data), Source: path}, nil
}

func isText(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range TextExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
