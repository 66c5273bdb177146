package textextract

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPlainText(t *testing.T) {
	data := []byte("Hello, this is plain text.\nSecond line.")
	got, err := Extract(bytes.NewReader(data), int64(len(data)), "text/plain")

	require.NoError(t, err)
	assert.Equal(t, "Hello, this is plain text.\nSecond line.", got.Content)
	assert.Equal(t, 1, got.Pages)
}

func TestExtractMarkdownByExtension(t *testing.T) {
	data := []byte("# Title\n\nSome body text.")
	got, err := Extract(bytes.NewReader(data), int64(len(data)), ".md")

	require.NoError(t, err)
	assert.Contains(t, got.Content, "Some body text.")
}

func TestExtractDOCX(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(`<w:document><w:body><w:p><w:t>Hello from</w:t><w:t>a docx file.</w:t></w:p></w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	data := buf.Bytes()
	got, err := Extract(bytes.NewReader(data), int64(len(data)), "docx")

	require.NoError(t, err)
	assert.Contains(t, got.Content, "Hello from")
	assert.Contains(t, got.Content, "a docx file.")
	assert.NotContains(t, got.Content, "<w:")
}

func TestExtractUnsupportedType(t *testing.T) {
	data := []byte("binary junk")
	_, err := Extract(bytes.NewReader(data), int64(len(data)), "application/x-msdownload")
	assert.Error(t, err)
}

func TestStripXMLTags(t *testing.T) {
	got := stripXMLTags(`<a><b attr="x">one</b> <c>two</c></a>`)
	assert.Equal(t, "one two", got)
}
