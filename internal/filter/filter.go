// Package filter derives the per-tab view of a résumé profile.
package filter

import (
	"sync"

	"github.com/jonathan/resume-studio/internal/types"
)

// FilterMap maps a role tab to the work categories it shows.
type FilterMap map[types.Tab][]types.WorkCategory

// DefaultFilterMap returns the static tab → category table.
// Fitness Management appears under both fitness and management.
func DefaultFilterMap() FilterMap {
	return FilterMap{
		types.TabFitness: {
			types.CategoryFitnessCoaching,
			types.CategoryFitnessManagement,
			types.CategoryHospitality,
		},
		types.TabTech:            {types.CategorySoftwareDevelopment},
		types.TabManagement:      {types.CategoryProjectManagement, types.CategoryFitnessManagement},
		types.TabContentCreation: {types.CategoryContentCreation},
	}
}

// View is the filtered content shown for one tab.
type View struct {
	Tab         types.Tab              `json:"tab"`
	Headline    string                 `json:"headline"`
	Summary     string                 `json:"summary"`
	Skills      []types.Skill          `json:"skills"`
	Experiences []types.WorkExperience `json:"experiences"`
}

// Apply computes the view of profile for tab. The result keeps profile order.
func Apply(tab types.Tab, profile *types.ResumeProfile, fm FilterMap) View {
	view := View{
		Tab:      tab,
		Headline: types.TextFor(profile.Headline, tab),
		Summary:  types.TextFor(profile.Summary, tab),
	}

	switch tab {
	case types.TabFull, types.TabReferences:
		view.Skills = append([]types.Skill(nil), profile.Skills...)
		view.Experiences = append([]types.WorkExperience(nil), profile.Experiences...)
		return view
	}

	view.Skills = make([]types.Skill, 0)
	for _, skill := range profile.Skills {
		if skill.Category == tab {
			view.Skills = append(view.Skills, skill)
		}
	}

	view.Experiences = make([]types.WorkExperience, 0)
	categories := fm[tab]
	for _, exp := range profile.Experiences {
		if exp.HasAnyCategory(categories) {
			view.Experiences = append(view.Experiences, exp)
		}
	}
	return view
}

// Unreachable returns the categories used by profile that no role tab shows.
func Unreachable(profile *types.ResumeProfile, fm FilterMap) []types.WorkCategory {
	reachable := make(map[types.WorkCategory]bool)
	for tab, categories := range fm {
		if tab == types.TabFull {
			continue
		}
		for _, c := range categories {
			reachable[c] = true
		}
	}

	seen := make(map[types.WorkCategory]bool)
	var missing []types.WorkCategory
	for _, exp := range profile.Experiences {
		for _, c := range exp.Categories {
			if !reachable[c] && !seen[c] {
				seen[c] = true
				missing = append(missing, c)
			}
		}
	}
	return missing
}

type memoKey struct {
	tab     types.Tab
	profile *types.ResumeProfile
}

// Memo caches views per (tab, profile). Profiles are immutable once loaded,
// so pointer identity is a sufficient key.
type Memo struct {
	mu    sync.Mutex
	fm    FilterMap
	views map[memoKey]View
}

// NewMemo creates a Memo over fm.
func NewMemo(fm FilterMap) *Memo {
	return &Memo{fm: fm, views: make(map[memoKey]View)}
}

// View returns the cached view, computing it on first use.
func (m *Memo) View(tab types.Tab, profile *types.ResumeProfile) View {
	key := memoKey{tab: tab, profile: profile}

	m.mu.Lock()
	defer m.mu.Unlock()

	if view, ok := m.views[key]; ok {
		return view
	}
	view := Apply(tab, profile, m.fm)
	m.views[key] = view
	return view
}

// Len returns the number of cached views.
func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.views)
}
