package export

import (
	"context"
	"fmt"
	"html/template"
	"strings"
)

// LetterMargins are the cover letter page margins in inches.
const LetterMargins = 1.0

var letterTemplate = template.Must(template.New("letter").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>{{.Title}}</title>
<style>
body { font-family: Georgia, serif; font-size: 11pt; line-height: 1.5; color: #222; }
p { margin: 0 0 1em 0; white-space: pre-wrap; }
</style></head>
<body>{{range .Paragraphs}}<p>{{.}}</p>
{{end}}</body></html>`))

// LetterFilename builds "Cover_Letter_<Subject_Name>.pdf".
func LetterFilename(subjectName string) string {
	name := strings.Join(strings.Fields(subjectName), "_")
	if name == "" {
		return "Cover_Letter.pdf"
	}
	return "Cover_Letter_" + name + ".pdf"
}

// LetterOptions returns the print options of a cover letter.
func LetterOptions(subjectName string) Options {
	opts := DefaultOptions()
	opts.Margins = LetterMargins
	opts.Filename = LetterFilename(subjectName)
	return opts
}

// LetterHTML lays out plain letter text as a printable page, one paragraph
// per blank-line separated block.
func LetterHTML(title, text string) (string, error) {
	var paragraphs []string
	for _, block := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		if block = strings.TrimSpace(block); block != "" {
			paragraphs = append(paragraphs, block)
		}
	}

	var sb strings.Builder
	err := letterTemplate.Execute(&sb, struct {
		Title      string
		Paragraphs []string
	}{title, paragraphs})
	if err != nil {
		return "", fmt.Errorf("failed to lay out letter: %w", err)
	}
	return sb.String(), nil
}

// RenderLetter prints a cover letter through r. The letter does not touch
// any section state, so it bypasses the export gate.
func RenderLetter(ctx context.Context, r Renderer, subjectName, text string) (*Document, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &CaptureError{Message: "cover letter is empty"}
	}
	html, err := LetterHTML(LetterFilename(subjectName), text)
	if err != nil {
		return nil, &CaptureError{Message: "failed to lay out letter", Cause: err}
	}
	opts := LetterOptions(subjectName)
	doc, err := r.Render(ctx, html, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", opts.Filename, err)
	}
	if doc.Filename == "" {
		doc.Filename = opts.Filename
	}
	return doc, nil
}
