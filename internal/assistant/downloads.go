package assistant

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/jonathan/resume-studio/internal/types"
)

// Download formats
const (
	FormatText = "txt"
	FormatJSON = "json"
	FormatDoc  = "doc"
	FormatPDF  = "pdf"
)

// AnalysisLabels are the localized headings of an analysis report.
type AnalysisLabels struct {
	Title            string
	MatchScoreTitle  string
	MatchScoreLabel  string
	GapsTitle        string
	NoGapsFound      string
	SuggestionsTitle string
	SummaryTitle     string
}

// File is a downloadable job result.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// ErrNothingToDownload is returned when the job holds no result.
var ErrNothingToDownload = errors.New("no result to download")

// ErrUnsupportedFormat is returned for a format the job kind cannot be downloaded in.
var ErrUnsupportedFormat = errors.New("unsupported download format")

// FormatAnalysisText renders an analysis as a plain text report.
func FormatAnalysisText(result *types.SkillGapResult, labels AnalysisLabels) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\n", labels.Title)
	fmt.Fprintf(&sb, "--- %s ---\n", labels.MatchScoreTitle)
	fmt.Fprintf(&sb, "%s%% %s\n\n", formatPercent(result.MatchPercentage), labels.MatchScoreLabel)

	fmt.Fprintf(&sb, "--- %s ---\n", labels.GapsTitle)
	if len(result.SkillGaps) == 0 {
		fmt.Fprintf(&sb, "%s\n", labels.NoGapsFound)
	}
	for _, gap := range result.SkillGaps {
		fmt.Fprintf(&sb, "- %s: %s\n", gap.Skill, gap.Reason)
	}

	fmt.Fprintf(&sb, "\n--- %s ---\n", labels.SuggestionsTitle)
	for _, s := range result.Suggestions {
		fmt.Fprintf(&sb, "- %s\n", s)
	}
	return sb.String()
}

func formatPercent(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

var docTemplate = template.Must(template.New("doc").Parse(`<html xmlns:o="urn:schemas-microsoft-com:office:office" xmlns:w="urn:schemas-microsoft-com:office:word">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body style="font-family: Calibri, sans-serif; line-height: 1.5">
{{- range .Paragraphs}}
<p>{{.}}</p>
{{- end}}
</body>
</html>
`))

// wordDocument wraps text paragraphs in HTML that word processors open as a document.
func wordDocument(title, text string) ([]byte, error) {
	paragraphs := strings.Split(text, "\n")
	var sb strings.Builder
	if err := docTemplate.Execute(&sb, struct {
		Title      string
		Paragraphs []string
	}{title, paragraphs}); err != nil {
		return nil, fmt.Errorf("failed to render document: %w", err)
	}
	return []byte(sb.String()), nil
}

// Download renders the held result of state in format.
func Download(state JobState, format string, labels AnalysisLabels) (*File, error) {
	switch state.Kind {
	case types.JobSkillGap:
		if state.Status != StatusSuccess || state.Analysis == nil {
			return nil, ErrNothingToDownload
		}
		switch format {
		case FormatText, "":
			return &File{
				Name:        "skill_gap_analysis.txt",
				ContentType: "text/plain; charset=utf-8",
				Data:        []byte(FormatAnalysisText(state.Analysis, labels)),
			}, nil
		case FormatJSON:
			data, err := json.MarshalIndent(state.Analysis, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to encode analysis: %w", err)
			}
			return &File{Name: "skill_gap_analysis.json", ContentType: "application/json", Data: data}, nil
		case FormatDoc:
			data, err := wordDocument(labels.Title, FormatAnalysisText(state.Analysis, labels))
			if err != nil {
				return nil, err
			}
			return &File{Name: "skill_gap_analysis.doc", ContentType: "application/msword", Data: data}, nil
		}

	case types.JobCoverLetter, types.JobSummary:
		if state.Status != StatusSuccess || state.Text == "" {
			return nil, ErrNothingToDownload
		}
		base := "cover_letter"
		if state.Kind == types.JobSummary {
			base = "skill_gap_summary"
		}
		switch format {
		case FormatText, "":
			return &File{Name: base + ".txt", ContentType: "text/plain; charset=utf-8", Data: []byte(state.Text)}, nil
		case FormatDoc:
			data, err := wordDocument(labels.Title, state.Text)
			if err != nil {
				return nil, err
			}
			return &File{Name: base + ".doc", ContentType: "application/msword", Data: data}, nil
		}
	}

	return nil, fmt.Errorf("%w %q for %s", ErrUnsupportedFormat, format, state.Kind)
}
