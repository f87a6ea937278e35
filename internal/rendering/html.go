package rendering

import (
	"embed"
	"html/template"
	"strings"

	"github.com/jonathan/resume-studio/internal/content"
	"github.com/jonathan/resume-studio/internal/filter"
	"github.com/jonathan/resume-studio/internal/sections"
	"github.com/jonathan/resume-studio/internal/types"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

// TabLink is one entry in the tab navigation.
type TabLink struct {
	ID     types.Tab
	Title  string
	Active bool
}

// SectionBlock is one visible section and its collapse flag.
type SectionBlock struct {
	ID        string
	Title     string
	Collapsed bool
}

// Labels are the localized fixed strings of the page.
type Labels struct {
	FitnessAchievements      string
	ProfessionalAchievements string
	UnderDevelopment         string
}

// PageData is the template input.
type PageData struct {
	Language         string
	Name             string
	Headline         string
	Summary          string
	Tabs             []TabLink
	Sections         []SectionBlock
	Skills           []types.Skill
	Experiences      []types.WorkExperience
	Education        []types.Education
	References       []types.Reference
	UnderDevelopment bool
	Labels           Labels
}

// CollapseState reports whether a section is collapsed.
type CollapseState interface {
	IsCollapsed(id string) bool
}

// BuildPageData assembles the template input for view.
func BuildPageData(bundle *content.Bundle, view filter.View, collapse CollapseState, underDevelopment bool) PageData {
	data := PageData{
		Language:         bundle.Language,
		Name:             bundle.Profile.Name,
		Headline:         view.Headline,
		Summary:          view.Summary,
		Skills:           view.Skills,
		Experiences:      view.Experiences,
		Education:        bundle.Profile.Education,
		References:       bundle.Profile.References,
		UnderDevelopment: underDevelopment,
		Labels: Labels{
			FitnessAchievements:      bundle.Sections["fitness_achievements"],
			ProfessionalAchievements: bundle.Sections["professional_achievements"],
			UnderDevelopment:         bundle.Sections["under_development"],
		},
	}

	for _, tab := range types.AllTabs() {
		data.Tabs = append(data.Tabs, TabLink{ID: tab, Title: bundle.Tabs[tab], Active: tab == view.Tab})
	}
	for _, id := range sections.VisibleSections(view.Tab) {
		data.Sections = append(data.Sections, SectionBlock{
			ID:        id,
			Title:     bundle.Sections[id],
			Collapsed: collapse.IsCollapsed(id),
		})
	}
	return data
}

// RenderPage executes the page template.
func RenderPage(data PageData) (string, error) {
	var out strings.Builder
	if err := pageTemplate.Execute(&out, data); err != nil {
		return "", &TemplateError{Message: "failed to execute page template", Cause: err}
	}
	return out.String(), nil
}
