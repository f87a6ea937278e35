package content

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jonathan/resume-studio/internal/types"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFiles embed.FS

// DefaultLanguage is used when no language is requested.
const DefaultLanguage = "en"

// baseFile holds language-independent skills and work data
type baseFile struct {
	Skills []types.Skill `yaml:"skills"`
	Work   []baseWork    `yaml:"work"`
}

type baseWork struct {
	ID         string               `yaml:"id"`
	Company    string               `yaml:"company"`
	Duration   string               `yaml:"duration"`
	Location   string               `yaml:"location"`
	Categories []types.WorkCategory `yaml:"categories"`
}

// localeFile is one language's text table
type localeFile struct {
	LanguageName string                      `yaml:"language_name"`
	Name         string                      `yaml:"name"`
	Headline     map[types.Tab]string        `yaml:"headline"`
	Summary      map[types.Tab]string        `yaml:"summary"`
	Tabs         map[types.Tab]string        `yaml:"tabs"`
	Sections     map[string]string           `yaml:"sections"`
	Experience   map[string]localeExperience `yaml:"experience"`
	References   []types.Reference           `yaml:"references"`
	Education    []types.Education           `yaml:"education"`
	Assistant    AssistantText               `yaml:"assistant"`
}

type localeExperience struct {
	Role         string             `yaml:"role"`
	Achievements types.Achievements `yaml:"achievements"`
}

// AssistantText holds the localized labels and fallback messages of the assistant.
type AssistantText struct {
	Title            string                   `yaml:"title"`
	MatchScoreTitle  string                   `yaml:"match_score_title"`
	MatchScoreLabel  string                   `yaml:"match_score_label"`
	GapsTitle        string                   `yaml:"gaps_title"`
	NoGapsFound      string                   `yaml:"no_gaps_found"`
	SuggestionsTitle string                   `yaml:"suggestions_title"`
	SummaryTitle     string                   `yaml:"summary_title"`
	Errors           map[types.JobKind]string `yaml:"errors"`
}

// Bundle is everything the presentation layer needs for one language.
type Bundle struct {
	Language     string
	LanguageName string
	Profile      *types.ResumeProfile
	Tabs         map[types.Tab]string
	Sections     map[string]string
	Assistant    AssistantText
}

// Loader resolves and caches bundles per language.
type Loader struct {
	mu    sync.RWMutex
	cache map[string]*Bundle
	base  *baseFile
}

// NewLoader creates a Loader over the embedded content.
func NewLoader() *Loader {
	return &Loader{cache: make(map[string]*Bundle)}
}

// Languages returns the language codes with an embedded locale table.
func Languages() []string {
	entries, err := dataFiles.ReadDir("data")
	if err != nil {
		return nil
	}
	var langs []string
	for _, entry := range entries {
		name := entry.Name()
		if name == "base.yaml" || !strings.HasSuffix(name, ".yaml") {
			continue
		}
		langs = append(langs, strings.TrimSuffix(name, ".yaml"))
	}
	sort.Strings(langs)
	return langs
}

// Load returns the bundle for lang. Bundles are immutable and shared.
func (l *Loader) Load(lang string) (*Bundle, error) {
	if lang == "" {
		lang = DefaultLanguage
	}
	lang = strings.ToLower(lang)

	l.mu.RLock()
	if bundle, ok := l.cache[lang]; ok {
		l.mu.RUnlock()
		return bundle, nil
	}
	l.mu.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()

	if bundle, ok := l.cache[lang]; ok {
		return bundle, nil
	}

	if l.base == nil {
		base, err := readBase()
		if err != nil {
			return nil, err
		}
		l.base = base
	}

	locale, err := readLocale(lang)
	if err != nil {
		return nil, err
	}

	bundle, err := resolve(lang, l.base, locale)
	if err != nil {
		return nil, err
	}
	l.cache[lang] = bundle
	return bundle, nil
}

func readBase() (*baseFile, error) {
	data, err := dataFiles.ReadFile("data/base.yaml")
	if err != nil {
		return nil, &LoadError{Message: "failed to read base data", Cause: err}
	}
	var base baseFile
	if err := yaml.Unmarshal(data, &base); err != nil {
		return nil, &LoadError{Message: "failed to parse base data", Cause: err}
	}
	return &base, nil
}

func readLocale(lang string) (*localeFile, error) {
	data, err := dataFiles.ReadFile("data/" + lang + ".yaml")
	if err != nil {
		return nil, &LoadError{Message: fmt.Sprintf("unsupported language %q", lang), Cause: err}
	}
	var locale localeFile
	if err := yaml.Unmarshal(data, &locale); err != nil {
		return nil, &LoadError{Message: fmt.Sprintf("failed to parse locale %q", lang), Cause: err}
	}
	return &locale, nil
}

// resolve joins base work data with the locale text table
func resolve(lang string, base *baseFile, locale *localeFile) (*Bundle, error) {
	if locale.Headline[types.TabFull] == "" || locale.Summary[types.TabFull] == "" {
		return nil, &LoadError{Message: fmt.Sprintf("locale %q is missing the full headline or summary", lang)}
	}

	experiences := make([]types.WorkExperience, 0, len(base.Work))
	for _, work := range base.Work {
		text, ok := locale.Experience[work.ID]
		if !ok {
			return nil, &LoadError{Message: fmt.Sprintf("locale %q has no text for experience %q", lang, work.ID)}
		}
		if len(work.Categories) == 0 {
			return nil, &LoadError{Message: fmt.Sprintf("experience %q has no categories", work.ID)}
		}
		experiences = append(experiences, types.WorkExperience{
			ID:           work.ID,
			Role:         text.Role,
			Company:      work.Company,
			Duration:     work.Duration,
			Location:     work.Location,
			Categories:   work.Categories,
			Achievements: text.Achievements,
		})
	}

	return &Bundle{
		Language:     lang,
		LanguageName: locale.LanguageName,
		Profile: &types.ResumeProfile{
			Language:    lang,
			Name:        locale.Name,
			Headline:    locale.Headline,
			Summary:     locale.Summary,
			Experiences: experiences,
			Skills:      base.Skills,
			References:  locale.References,
			Education:   locale.Education,
		},
		Tabs:      locale.Tabs,
		Sections:  locale.Sections,
		Assistant: locale.Assistant,
	}, nil
}

// ErrorMessage returns the localized fallback error text for a job kind.
func (b *Bundle) ErrorMessage(kind types.JobKind) string {
	if msg := b.Assistant.Errors[kind]; msg != "" {
		return msg
	}
	return "Something went wrong. Please try again."
}
