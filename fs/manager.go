package fs

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Fixed layout of a generated site inside the archive.
const (
	SiteRoot       = "website_folder"
	MarkupFile     = "index.html"
	StylesheetFile = "styles.css"
	ScriptFile     = "script.js"
)

// FileSystem wraps the Afero Fs interface
type FileSystem struct {
	Fs afero.Fs
}

// NewMemoryFileSystem creates a new in-memory file system
func NewMemoryFileSystem() *FileSystem {
	return &FileSystem{
		Fs: afero.NewMemMapFs(),
	}
}

// NewOsFileSystem creates a new OS-based file system
func NewOsFileSystem() *FileSystem {
	return &FileSystem{
		Fs: afero.NewOsFs(),
	}
}

// WriteFile creates a new file with the given content or overwrites an existing file with the content
func (fs *FileSystem) WriteFile(path string, content string) error {
	err := afero.WriteFile(fs.Fs, path, []byte(content), 0644)
	if err != nil {
		return fmt.Errorf("error writing file %s: %w", path, err)
	}
	return nil
}

// WriteSite writes the three site artifacts under SiteRoot, always in the
// same order and under the same names.
func (fs *FileSystem) WriteSite(markup, stylesheet, script string) error {
	entries := []struct {
		name    string
		content string
	}{
		{MarkupFile, markup},
		{StylesheetFile, stylesheet},
		{ScriptFile, script},
	}
	for _, e := range entries {
		if err := fs.WriteFile(filepath.Join(SiteRoot, e.name), e.content); err != nil {
			return err
		}
	}
	return nil
}

// IsDir checks if a path is a directory
func (fs *FileSystem) IsDir(path string) bool {
	info, err := fs.Fs.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// ZipBytes zips every file in the file system into an in-memory archive.
// Entry paths mirror the file paths; directories get no entries of their
// own. Afero walks lexicographically, so entry order is stable.
func (fs *FileSystem) ZipBytes() ([]byte, error) {
	var buf bytes.Buffer
	zipWriter := zip.NewWriter(&buf)

	fileCount := 0
	err := afero.Walk(fs.Fs, ".", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		entry := strings.TrimPrefix(filepath.ToSlash(path), "/")
		writer, err := zipWriter.Create(entry)
		if err != nil {
			return fmt.Errorf("error creating zip entry for file %s: %w", entry, err)
		}

		file, err := fs.Fs.Open(path)
		if err != nil {
			return fmt.Errorf("error opening file %s: %w", path, err)
		}
		defer file.Close()

		if _, err = io.Copy(writer, file); err != nil {
			return fmt.Errorf("error writing file %s to zip: %w", path, err)
		}

		fileCount++
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking file system: %w", err)
	}

	if fileCount == 0 {
		return nil, fmt.Errorf("no files to zip")
	}

	if err := zipWriter.Close(); err != nil {
		return nil, fmt.Errorf("error closing zip writer: %w", err)
	}

	return buf.Bytes(), nil
}
