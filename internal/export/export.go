// Package export renders AI results into portable documents. Every
// function here is a pure function of its inputs: no network, no state.
package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"cogniflow/internal/workflow"
)

// Format selects an export rendering.
type Format string

const (
	FormatText Format = "text"
	FormatPDF  Format = "pdf"
)

const (
	docTitle = "CogniFlow AI Result"

	// FallbackName is used when the source text yields an empty slug.
	FallbackName = "cogniflow-export"

	maxNameLen = 48
)

// FileName derives a filesystem-safe name from the source text: lower
// case, every run of non [a-z0-9] characters collapsed to a single
// hyphen, no leading or trailing hyphens, at most 48 characters.
func FileName(source string) string {
	var b strings.Builder
	pendingHyphen := false

	for _, r := range strings.ToLower(source) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			pendingHyphen = b.Len() > 0
			continue
		}
		if pendingHyphen {
			b.WriteByte('-')
			pendingHyphen = false
		}
		b.WriteRune(r)
	}

	name := b.String()
	if len(name) > maxNameLen {
		name = strings.TrimRight(name[:maxNameLen], "-")
	}
	if name == "" {
		return FallbackName
	}
	return name
}

// PlainText renders the result with a deterministic three-line header
// (title, generation timestamp, mode), a blank line, then the verbatim
// result text.
func PlainText(result string, mode workflow.Mode, generatedAt time.Time) []byte {
	var b bytes.Buffer
	fmt.Fprintln(&b, docTitle)
	fmt.Fprintf(&b, "Generated: %s\n", generatedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Mode: %s\n", mode)
	fmt.Fprintln(&b)
	b.WriteString(result)
	return b.Bytes()
}

// PDF renders the result as a paginated A4 document: a title and
// metadata block followed by the word-wrapped body, split across pages
// automatically. The creation and modification dates are pinned to
// generatedAt so the output depends only on its inputs.
func PDF(result string, mode workflow.Mode, generatedAt time.Time) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCreationDate(generatedAt)
	doc.SetModificationDate(generatedAt)
	doc.SetTitle(docTitle, false)
	doc.SetAutoPageBreak(true, 15)
	doc.AddPage()

	translate := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(0, 10, docTitle, "", 1, "L", false, 0, "")

	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 6, "Generated: "+generatedAt.UTC().Format(time.RFC3339), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 6, "Mode: "+string(mode), "", 1, "L", false, 0, "")
	doc.Ln(4)

	doc.SetFont("Helvetica", "", 11)
	doc.MultiCell(0, 5, translate(result), "", "L", false)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders result in the given format and writes it into dir under
// a name derived from source. Returns the full path written.
func Write(dir, source, result string, mode workflow.Mode, format Format, generatedAt time.Time) (string, error) {
	var (
		data []byte
		ext  string
		err  error
	)
	switch format {
	case FormatText:
		data = PlainText(result, mode, generatedAt)
		ext = ".txt"
	case FormatPDF:
		data, err = PDF(result, mode, generatedAt)
		if err != nil {
			return "", err
		}
		ext = ".pdf"
	default:
		return "", fmt.Errorf("unknown export format %q (want text or pdf)", format)
	}

	path := filepath.Join(dir, FileName(source)+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
