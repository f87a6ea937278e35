package filter

import (
	"testing"

	"github.com/jonathan/resume-studio/internal/content"
	"github.com/jonathan/resume-studio/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProfile() *types.ResumeProfile {
	return &types.ResumeProfile{
		Name: "Test Person",
		Headline: map[types.Tab]string{
			types.TabFull: "Generalist",
			types.TabTech: "Developer",
		},
		Summary: map[types.Tab]string{
			types.TabFull:    "Full summary",
			types.TabFitness: "Fitness summary",
		},
		Skills: []types.Skill{
			{Name: "Boxing", Category: types.TabFitness},
			{Name: "Go", Category: types.TabTech},
			{Name: "Budgeting", Category: types.TabManagement},
			{Name: "Kettlebells", Category: types.TabFitness},
		},
		Experiences: []types.WorkExperience{
			{ID: "gym", Categories: []types.WorkCategory{types.CategoryFitnessCoaching}},
			{ID: "chain", Categories: []types.WorkCategory{types.CategoryFitnessManagement}},
			{ID: "agency", Categories: []types.WorkCategory{types.CategorySoftwareDevelopment, types.CategoryContentCreation}},
			{ID: "hotel", Categories: []types.WorkCategory{types.CategoryHospitality}},
		},
	}
}

func ids(exps []types.WorkExperience) []string {
	out := make([]string, len(exps))
	for i, e := range exps {
		out[i] = e.ID
	}
	return out
}

func TestApply_Full(t *testing.T) {
	p := testProfile()
	view := Apply(types.TabFull, p, DefaultFilterMap())

	assert.Equal(t, types.TabFull, view.Tab)
	assert.Equal(t, "Generalist", view.Headline)
	assert.Equal(t, "Full summary", view.Summary)
	assert.Len(t, view.Skills, 4)
	assert.Equal(t, []string{"gym", "chain", "agency", "hotel"}, ids(view.Experiences))
}

func TestApply_Fitness(t *testing.T) {
	view := Apply(types.TabFitness, testProfile(), DefaultFilterMap())

	assert.Equal(t, "Fitness summary", view.Summary)
	assert.Equal(t, "Generalist", view.Headline, "falls back to full headline")
	assert.Equal(t, []types.Skill{
		{Name: "Boxing", Category: types.TabFitness},
		{Name: "Kettlebells", Category: types.TabFitness},
	}, view.Skills)
	assert.Equal(t, []string{"gym", "chain", "hotel"}, ids(view.Experiences))
}

func TestApply_ManagementSharesFitnessManagement(t *testing.T) {
	view := Apply(types.TabManagement, testProfile(), DefaultFilterMap())

	assert.Equal(t, []string{"chain"}, ids(view.Experiences))
	assert.Equal(t, "Full summary", view.Summary)
}

func TestApply_Tech(t *testing.T) {
	view := Apply(types.TabTech, testProfile(), DefaultFilterMap())

	assert.Equal(t, "Developer", view.Headline)
	assert.Equal(t, []string{"agency"}, ids(view.Experiences))
	require.Len(t, view.Skills, 1)
	assert.Equal(t, "Go", view.Skills[0].Name)
}

func TestApply_References(t *testing.T) {
	view := Apply(types.TabReferences, testProfile(), DefaultFilterMap())

	assert.Len(t, view.Skills, 4)
	assert.Len(t, view.Experiences, 4)
	assert.Equal(t, "Full summary", view.Summary)
}

func TestApply_EmptyResultIsNotNil(t *testing.T) {
	view := Apply(types.TabContentCreation, &types.ResumeProfile{
		Summary: map[types.Tab]string{types.TabFull: "s"},
	}, DefaultFilterMap())

	assert.NotNil(t, view.Skills)
	assert.NotNil(t, view.Experiences)
	assert.Empty(t, view.Experiences)
}

func TestApply_Deterministic(t *testing.T) {
	p := testProfile()
	fm := DefaultFilterMap()
	for _, tab := range types.AllTabs() {
		assert.Equal(t, Apply(tab, p, fm), Apply(tab, p, fm), tab)
	}
}

func TestUnreachable(t *testing.T) {
	p := testProfile()
	assert.Empty(t, Unreachable(p, DefaultFilterMap()))

	fm := FilterMap{types.TabTech: {types.CategorySoftwareDevelopment}}
	assert.Equal(t, []types.WorkCategory{
		types.CategoryFitnessCoaching,
		types.CategoryFitnessManagement,
		types.CategoryContentCreation,
		types.CategoryHospitality,
	}, Unreachable(p, fm))
}

func TestUnreachable_EmbeddedContent(t *testing.T) {
	loader := content.NewLoader()
	for _, lang := range content.Languages() {
		bundle, err := loader.Load(lang)
		require.NoError(t, err)
		assert.Empty(t, Unreachable(bundle.Profile, DefaultFilterMap()), lang)
	}
}

func TestMemo(t *testing.T) {
	memo := NewMemo(DefaultFilterMap())
	p := testProfile()

	first := memo.View(types.TabFitness, p)
	second := memo.View(types.TabFitness, p)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, memo.Len())

	memo.View(types.TabTech, p)
	memo.View(types.TabFitness, testProfile())
	assert.Equal(t, 3, memo.Len())
}
