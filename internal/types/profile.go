// Package types provides type definitions for structured data used throughout the resume-studio system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "fmt"

// Tab is one of the fixed résumé views a visitor can select.
type Tab string

// Tab constants define the selectable views
const (
	TabFull            Tab = "full"
	TabFitness         Tab = "fitness"
	TabTech            Tab = "tech"
	TabManagement      Tab = "management"
	TabContentCreation Tab = "content-creation"
	TabReferences      Tab = "references"
)

// AllTabs returns every tab in navigation order.
func AllTabs() []Tab {
	return []Tab{TabFull, TabFitness, TabTech, TabManagement, TabContentCreation, TabReferences}
}

// RoleTabs returns the tabs that filter by category (everything except full and references).
func RoleTabs() []Tab {
	return []Tab{TabFitness, TabTech, TabManagement, TabContentCreation}
}

// ParseTab converts a string into a known Tab.
func ParseTab(s string) (Tab, error) {
	for _, tab := range AllTabs() {
		if string(tab) == s {
			return tab, nil
		}
	}
	return "", fmt.Errorf("unknown tab: %q", s)
}

// WorkCategory tags an experience for tab filtering.
type WorkCategory string

// WorkCategory constants used by the résumé data
const (
	CategoryFitnessCoaching     WorkCategory = "Fitness Coaching"
	CategoryFitnessManagement   WorkCategory = "Fitness Management"
	CategoryHospitality         WorkCategory = "Hospitality & Service"
	CategoryProjectManagement   WorkCategory = "Project Management"
	CategorySoftwareDevelopment WorkCategory = "Software Development"
	CategoryContentCreation     WorkCategory = "Content Creation"
)

// Skill is a named skill belonging to exactly one role tab.
type Skill struct {
	Name     string `json:"name" yaml:"name"`
	Category Tab    `json:"category" yaml:"category"`
}

// Achievements holds the two independently ordered bullet lists of an experience.
type Achievements struct {
	Fitness      []string `json:"fitness" yaml:"fitness"`
	Professional []string `json:"professional" yaml:"professional"`
}

// WorkExperience is one language-resolved position in the work history.
type WorkExperience struct {
	ID           string         `json:"id"`
	Role         string         `json:"role"`
	Company      string         `json:"company"`
	Duration     string         `json:"duration"`
	Location     string         `json:"location"`
	Categories   []WorkCategory `json:"categories"`
	Achievements Achievements   `json:"achievements"`
}

// HasAnyCategory reports whether the experience carries at least one of the given categories.
func (w WorkExperience) HasAnyCategory(set []WorkCategory) bool {
	for _, own := range w.Categories {
		for _, want := range set {
			if own == want {
				return true
			}
		}
	}
	return false
}

// Reference is a person listed on the references tab.
type Reference struct {
	Name    string `json:"name" yaml:"name"`
	Role    string `json:"role" yaml:"role"`
	Contact string `json:"contact" yaml:"contact"`
}

// Education is a single education entry.
type Education struct {
	Duration    string `json:"duration" yaml:"duration"`
	Institution string `json:"institution" yaml:"institution"`
	Location    string `json:"location" yaml:"location"`
	Degree      string `json:"degree" yaml:"degree"`
}

// ResumeProfile is the full résumé resolved for one language.
// Summary and Headline are keyed by tab and always contain TabFull.
type ResumeProfile struct {
	Language    string         `json:"language"`
	Name        string         `json:"name"`
	Headline    map[Tab]string `json:"headline"`
	Summary     map[Tab]string `json:"summary"`
	Experiences []WorkExperience
	Skills      []Skill
	References  []Reference
	Education   []Education
}

// TextFor returns the per-tab text from table, falling back to the full text.
func TextFor(table map[Tab]string, tab Tab) string {
	if text, ok := table[tab]; ok && text != "" {
		return text
	}
	return table[TabFull]
}
