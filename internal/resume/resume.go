// Package resume holds the resume language toggle and the download
// metadata of the resume PDFs.
package resume

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ledongthuc/pdf"
)

type Language string

const (
	English Language = "en"
	Chinese Language = "cn"
)

var ErrUnknownLanguage = errors.New("unknown resume language")

// Filenames maps each language to its download name.
var Filenames = map[Language]string{
	English: "Joe_Yaochen_Resume.pdf",
	Chinese: "Joe_Yaochen_Resume_CN.pdf",
}

var labels = []struct {
	lang  Language
	label string
}{
	{English, "English"},
	{Chinese, "中文"},
}

// Filename returns the download name for lang.
func Filename(lang Language) (string, error) {
	name, ok := Filenames[lang]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	return name, nil
}

// Toast is the notification shown when a download starts.
func Toast(filename string) string {
	return fmt.Sprintf("Downloading %s...", filename)
}

// Controls tracks which resume version is showing.
type Controls struct {
	mu   sync.Mutex
	lang Language
}

func NewControls() *Controls {
	return &Controls{lang: English}
}

func (c *Controls) Select(lang Language) error {
	if _, ok := Filenames[lang]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lang = lang
	return nil
}

func (c *Controls) Language() Language {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lang
}

type LanguageView struct {
	Code   Language `json:"code"`
	Label  string   `json:"label"`
	Active bool     `json:"active"`
}

type View struct {
	Language  Language       `json:"language"`
	Languages []LanguageView `json:"languages"`
	Filename  string         `json:"filename"`
	Toast     string         `json:"toast"`
}

func (c *Controls) View() View {
	lang := c.Language()
	v := View{Language: lang, Filename: Filenames[lang]}
	v.Toast = Toast(v.Filename)
	for _, l := range labels {
		v.Languages = append(v.Languages, LanguageView{Code: l.lang, Label: l.label, Active: l.lang == lang})
	}
	return v
}

// Info describes a resume PDF on disk. Path stays server-side.
type Info struct {
	Path  string `json:"-"`
	Size  int64  `json:"size"`
	Pages int    `json:"pages"`
}

// Inspect opens the PDF at path and reports its page count.
func Inspect(path string) (Info, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open resume %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return Info{}, fmt.Errorf("stat resume: %w", err)
	}
	return Info{Path: path, Size: st.Size(), Pages: r.NumPage()}, nil
}

// Locate returns the path of the PDF for lang inside dir, or an error
// wrapping os.ErrNotExist when the file is missing.
func Locate(dir string, lang Language) (string, error) {
	name, err := Filename(lang)
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, name)
	st, err := os.Stat(p)
	if err != nil {
		return "", err
	}
	if st.IsDir() {
		return "", fmt.Errorf("%s: %w", p, os.ErrNotExist)
	}
	return p, nil
}
