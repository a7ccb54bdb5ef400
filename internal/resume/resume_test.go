package resume

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControls_Toggle(t *testing.T) {
	c := NewControls()
	v := c.View()
	assert.Equal(t, English, v.Language)
	assert.Equal(t, "Joe_Yaochen_Resume.pdf", v.Filename)
	assert.Equal(t, "Downloading Joe_Yaochen_Resume.pdf...", v.Toast)

	require.NoError(t, c.Select(Chinese))
	v = c.View()
	assert.Equal(t, "Joe_Yaochen_Resume_CN.pdf", v.Filename)
	assert.Equal(t, "Downloading Joe_Yaochen_Resume_CN.pdf...", v.Toast)

	var active []Language
	for _, l := range v.Languages {
		if l.Active {
			active = append(active, l.Code)
		}
	}
	assert.Equal(t, []Language{Chinese}, active)
}

func TestControls_UnknownLanguage(t *testing.T) {
	c := NewControls()
	err := c.Select("fr")
	assert.ErrorIs(t, err, ErrUnknownLanguage)
	assert.Equal(t, English, c.Language())

	_, err = Filename("de")
	assert.ErrorIs(t, err, ErrUnknownLanguage)
}

// minimalPDF builds a valid PDF with the given number of empty pages.
func minimalPDF(pages int) []byte {
	var objs []string
	kids := ""
	for i := 0; i < pages; i++ {
		kids += fmt.Sprintf("%d 0 R ", 3+i)
	}
	objs = append(objs,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, pages),
	)
	for i := 0; i < pages; i++ {
		objs = append(objs, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>")
	}

	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(objs)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return b.Bytes()
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, Filenames[English])
	require.NoError(t, os.WriteFile(p, minimalPDF(2), 0o644))

	info, err := Inspect(p)
	require.NoError(t, err)
	assert.Equal(t, 2, info.Pages)
	assert.Positive(t, info.Size)
	assert.Equal(t, p, info.Path)

	b, err := json.Marshal(info)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "path")
	assert.NotContains(t, string(b), dir)
}

func TestInspect_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Inspect(filepath.Join(dir, "missing.pdf"))
	assert.Error(t, err)

	junk := filepath.Join(dir, "junk.pdf")
	require.NoError(t, os.WriteFile(junk, []byte("not a pdf"), 0o644))
	_, err = Inspect(junk)
	assert.Error(t, err)
}

func TestLocate(t *testing.T) {
	dir := t.TempDir()

	_, err := Locate(dir, English)
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, os.WriteFile(filepath.Join(dir, Filenames[Chinese]), minimalPDF(1), 0o644))
	p, err := Locate(dir, Chinese)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Joe_Yaochen_Resume_CN.pdf"), p)

	_, err = Locate(dir, "xx")
	assert.ErrorIs(t, err, ErrUnknownLanguage)
}
