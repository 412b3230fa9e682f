package fs

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func listEntries(t *testing.T, data []byte) ([]string, map[string]string) {
	t.Helper()
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	assert.NoError(t, err)

	var names []string
	contents := make(map[string]string)
	for _, f := range reader.File {
		rc, err := f.Open()
		assert.NoError(t, err)
		body, err := io.ReadAll(rc)
		assert.NoError(t, err)
		rc.Close()
		names = append(names, f.Name)
		contents[f.Name] = string(body)
	}
	return names, contents
}

func TestWriteFile(t *testing.T) {
	fs := NewMemoryFileSystem()

	err := fs.WriteFile("hello.txt", "hello")
	assert.NoError(t, err)

	err = fs.WriteFile("hello.txt", "overwritten")
	assert.NoError(t, err)

	content, err := fs.Fs.Open("hello.txt")
	assert.NoError(t, err)
	body, err := io.ReadAll(content)
	assert.NoError(t, err)
	assert.Equal(t, "overwritten", string(body))
}

func TestWriteSite(t *testing.T) {
	fs := NewMemoryFileSystem()

	err := fs.WriteSite("<p>hi</p>", "p{color:red}", "console.log(1)")
	assert.NoError(t, err)
	assert.True(t, fs.IsDir(SiteRoot))

	archive, err := fs.ZipBytes()
	assert.NoError(t, err)

	names, contents := listEntries(t, archive)
	assert.Equal(t, []string{
		"website_folder/index.html",
		"website_folder/script.js",
		"website_folder/styles.css",
	}, names)
	assert.Equal(t, "<p>hi</p>", contents["website_folder/index.html"])
	assert.Equal(t, "p{color:red}", contents["website_folder/styles.css"])
	assert.Equal(t, "console.log(1)", contents["website_folder/script.js"])
}

func TestZipBytes_Deterministic(t *testing.T) {
	build := func() []byte {
		fs := NewMemoryFileSystem()
		assert.NoError(t, fs.WriteSite("<p>hi</p>", "p{color:red}", "console.log(1)"))
		archive, err := fs.ZipBytes()
		assert.NoError(t, err)
		return archive
	}

	firstNames, firstContents := listEntries(t, build())
	secondNames, secondContents := listEntries(t, build())
	assert.Equal(t, firstNames, secondNames)
	assert.Equal(t, firstContents, secondContents)
}

func TestZipBytes_Empty(t *testing.T) {
	fs := NewMemoryFileSystem()

	archive, err := fs.ZipBytes()
	assert.Nil(t, archive)
	assert.EqualError(t, err, "no files to zip")
}

func TestIsDir(t *testing.T) {
	fs := NewMemoryFileSystem()
	assert.NoError(t, fs.WriteFile("dir/file.txt", "x"))

	assert.True(t, fs.IsDir("dir"))
	assert.False(t, fs.IsDir("dir/file.txt"))
	assert.False(t, fs.IsDir("missing"))
}
