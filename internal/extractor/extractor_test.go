package extractor

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lshigami/nexera-quiz/internal/apperr"
)

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(docxBodyPart)
	if err != nil {
		t.Fatalf("zip create failed: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("zip write failed: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close failed: %v", err)
	}
	return buf.Bytes()
}

func TestExtractTextReturnsOriginalContent(t *testing.T) {
	inputs := []string{
		"Photosynthesis converts light into energy.",
		"  leading and trailing whitespace is kept \n",
		"multi\nline\ttext with ünïcode ✓",
	}
	for _, input := range inputs {
		got, err := Extract([]byte(input), TypeText)
		if err != nil {
			t.Fatalf("Extract(%q) returned error: %v", input, err)
		}
		if got != input {
			t.Fatalf("Extract(%q) = %q, want exact input", input, got)
		}
	}
}

func TestExtractTextWhitespaceOnlyIsEmptyContent(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t \r\n"} {
		_, err := Extract([]byte(input), TypeText)
		if !errors.Is(err, apperr.ErrEmptyContent) {
			t.Fatalf("Extract(%q) error = %v, want ErrEmptyContent", input, err)
		}
	}
}

func TestExtractTextRejectsInvalidUTF8(t *testing.T) {
	_, err := Extract([]byte{0xff, 0xfe, 'h', 'i'}, TypeText)
	if !errors.Is(err, apperr.ErrUnsupportedEncoding) {
		t.Fatalf("expected ErrUnsupportedEncoding, got %v", err)
	}
}

func TestExtractDOCXJoinsParagraphs(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Cells need</w:t></w:r><w:r><w:t xml:space="preserve"> energy.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Mitochondria</w:t><w:tab/><w:t>help.</w:t></w:r></w:p>
  </w:body>
</w:document>`

	got, err := Extract(buildDOCX(t, doc), TypeDOCX)
	if err != nil {
		t.Fatalf("Extract docx failed: %v", err)
	}
	want := "Cells need energy.\nMitochondria\thelp."
	if got != want {
		t.Fatalf("Extract docx = %q, want %q", got, want)
	}
}

func TestExtractDOCXKeepsTextAroundTextBox(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p>
      <w:r><w:t xml:space="preserve">Before box. </w:t></w:r>
      <w:r><w:pict><w:txbxContent><w:p><w:r><w:t>Inside box.</w:t></w:r></w:p></w:txbxContent></w:pict></w:r>
      <w:r><w:t>After box.</w:t></w:r>
    </w:p>
    <w:p><w:r><w:t>Next paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`

	got, err := Extract(buildDOCX(t, doc), TypeDOCX)
	if err != nil {
		t.Fatalf("Extract docx failed: %v", err)
	}
	want := "Inside box.\nBefore box. After box.\nNext paragraph."
	if got != want {
		t.Fatalf("Extract docx = %q, want %q", got, want)
	}
}

func TestExtractDOCXWithoutTextIsEmptyContent(t *testing.T) {
	doc := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p></w:p></w:body></w:document>`
	_, err := Extract(buildDOCX(t, doc), TypeDOCX)
	if !errors.Is(err, apperr.ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}
}

func TestExtractCorruptDocuments(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		kind DocumentType
	}{
		{name: "docx not a zip", data: []byte("definitely not a zip"), kind: TypeDOCX},
		{name: "pdf garbage", data: []byte("%PDF-1.4 garbage without xref"), kind: TypePDF},
		{name: "pdf empty", data: nil, kind: TypePDF},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Extract(tc.data, tc.kind)
			if !errors.Is(err, apperr.ErrCorruptDocument) {
				t.Fatalf("expected ErrCorruptDocument, got %v", err)
			}
		})
	}
}

func TestExtractDOCXMissingBodyIsCorrupt(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	if _, err := zw.Create("word/styles.xml"); err != nil {
		t.Fatalf("zip create failed: %v", err)
	}
	_ = zw.Close()

	_, err := Extract(buf.Bytes(), TypeDOCX)
	if !errors.Is(err, apperr.ErrCorruptDocument) {
		t.Fatalf("expected ErrCorruptDocument, got %v", err)
	}
}

func TestExtractFileReadsFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("Water boils at 100C."), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	got, err := ExtractFile(path, TypeText)
	if err != nil || got != "Water boils at 100C." {
		t.Fatalf("ExtractFile = (%q, %v)", got, err)
	}
}

func TestDetectType(t *testing.T) {
	cases := map[string]DocumentType{
		"notes.TXT":    TypeText,
		"lecture.pdf":  TypePDF,
		"summary.docx": TypeDOCX,
	}
	for name, want := range cases {
		got, _, err := DetectType(name)
		if err != nil || got != want {
			t.Fatalf("DetectType(%q) = (%q, %v), want %q", name, got, err, want)
		}
	}

	for _, name := range []string{"image.png", "archive.zip", "noext", "old.doc"} {
		if _, _, err := DetectType(name); !errors.Is(err, apperr.ErrUnsupportedType) {
			t.Fatalf("DetectType(%q) error = %v, want ErrUnsupportedType", name, err)
		}
	}
}
