package content

import (
	"testing"

	"github.com/jonathan/resume-studio/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanguages(t *testing.T) {
	assert.Equal(t, []string{"da", "en", "sv"}, Languages())
}

func TestLoad_English(t *testing.T) {
	loader := NewLoader()

	bundle, err := loader.Load("en")
	require.NoError(t, err)

	profile := bundle.Profile
	assert.Equal(t, "Ronny Christensen", profile.Name)
	assert.Equal(t, "English", bundle.LanguageName)
	assert.Len(t, profile.Experiences, 10)
	assert.Len(t, profile.Skills, 24)
	assert.NotEmpty(t, profile.Summary[types.TabFull])

	first := profile.Experiences[0]
	assert.Equal(t, "kraftvrk", first.ID)
	assert.Equal(t, "Kraftværk Gym", first.Company)
	assert.Equal(t, []types.WorkCategory{types.CategoryFitnessCoaching, types.CategoryContentCreation}, first.Categories)
	assert.Len(t, first.Achievements.Fitness, 2)
	assert.Len(t, first.Achievements.Professional, 2)
}

func TestLoad_CachesBundles(t *testing.T) {
	loader := NewLoader()

	a, err := loader.Load("da")
	require.NoError(t, err)
	b, err := loader.Load("DA")
	require.NoError(t, err)

	assert.Same(t, a, b)
}

func TestLoad_DefaultLanguage(t *testing.T) {
	bundle, err := NewLoader().Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultLanguage, bundle.Language)
}

func TestLoad_UnknownLanguage(t *testing.T) {
	_, err := NewLoader().Load("de")
	require.Error(t, err)

	var loadErr *LoadError
	assert.ErrorAs(t, err, &loadErr)
	assert.Contains(t, err.Error(), "unsupported language")
}

func TestLoad_LanguageIndependentIDs(t *testing.T) {
	loader := NewLoader()
	for _, lang := range Languages() {
		bundle, err := loader.Load(lang)
		require.NoError(t, err, lang)

		en, err := loader.Load("en")
		require.NoError(t, err)
		require.Len(t, bundle.Profile.Experiences, len(en.Profile.Experiences))
		for i := range en.Profile.Experiences {
			assert.Equal(t, en.Profile.Experiences[i].ID, bundle.Profile.Experiences[i].ID)
			assert.NotEmpty(t, bundle.Profile.Experiences[i].Role, "%s/%s", lang, en.Profile.Experiences[i].ID)
		}
	}
}

func TestBundle_ErrorMessage(t *testing.T) {
	bundle, err := NewLoader().Load("sv")
	require.NoError(t, err)

	assert.Contains(t, bundle.ErrorMessage(types.JobSkillGap), "jobbannonsen")

	empty := &Bundle{}
	assert.NotEmpty(t, empty.ErrorMessage(types.JobSummary))
}
