package ingest

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()

	for _, ext := range []string{".txt", ".md", ".markdown", ".docx", ".pdf"} {
		t.Run(ext, func(t *testing.T) {
			_, err := r.Lookup("doc" + ext)
			assert.NoError(t, err)
		})
	}

	t.Run("case insensitive", func(t *testing.T) {
		_, err := r.Lookup("REQUIREMENTS.TXT")
		assert.NoError(t, err)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := r.Lookup("doc.odt")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}

func TestRegistryExtensions(t *testing.T) {
	exts := NewRegistry().Extensions()
	assert.Equal(t, []string{".docx", ".markdown", ".md", ".pdf", ".txt"}, exts)
}

func TestTextParser(t *testing.T) {
	path := writeFile(t, "doc.txt", "Login flow\n- click the login button\n")

	text, err := NewRegistry().Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "Login flow\n- click the login button\n", text)
}

func TestTextParser_MissingFile(t *testing.T) {
	_, err := NewRegistry().Parse(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestMarkdownParser(t *testing.T) {
	md := `# Login flow

A user signs in.

- click the login button
- type the user name

Expected: dashboard is shown
`
	path := writeFile(t, "doc.md", md)

	text, err := NewRegistry().Parse(path)
	require.NoError(t, err)

	assert.Contains(t, text, "Login flow")
	assert.Contains(t, text, "A user signs in.")
	assert.Contains(t, text, "- click the login button")
	assert.Contains(t, text, "- type the user name")
}

func TestMarkdownParser_FencedCode(t *testing.T) {
	md := "```\nrobot --version\n```\n"
	path := writeFile(t, "doc.md", md)

	text, err := NewRegistry().Parse(path)
	require.NoError(t, err)
	assert.Contains(t, text, "robot --version")
}

func writeDocx(t *testing.T, documentXML string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.docx")

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	return path
}

func TestDocxParser(t *testing.T) {
	doc := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Login flow</w:t></w:r></w:p>
    <w:p><w:r><w:t>- click the </w:t></w:r><w:r><w:t>login button</w:t></w:r></w:p>
  </w:body>
</w:document>`
	path := writeDocx(t, doc)

	text, err := NewRegistry().Parse(path)
	require.NoError(t, err)
	assert.Contains(t, text, "Login flow\n")
	assert.Contains(t, text, "- click the login button\n")
}

func TestDocxParser_NotAnArchive(t *testing.T) {
	path := writeFile(t, "doc.docx", "just text")
	_, err := NewRegistry().Parse(path)
	assert.Error(t, err)
}

func TestDocxParser_MissingBody(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	_, err = zw.Create("word/other.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	_, err = NewRegistry().Parse(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "word/document.xml")
}

func TestParseAll(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(a, []byte("first"), 0644))
	require.NoError(t, os.WriteFile(b, []byte("second"), 0644))

	docs, err := NewRegistry().ParseAll(context.Background(), []string{a, b})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, Document{Path: a, Text: "first"}, docs[0])
	assert.Equal(t, Document{Path: b, Text: "second"}, docs[1])
}

func TestParseAll_FailsOnUnsupported(t *testing.T) {
	path := writeFile(t, "a.txt", "ok")

	_, err := NewRegistry().ParseAll(context.Background(), []string{path, "doc.odt"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
