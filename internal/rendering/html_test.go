package rendering

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/resume-studio/internal/content"
	"github.com/jonathan/resume-studio/internal/filter"
	"github.com/jonathan/resume-studio/internal/sections"
	"github.com/jonathan/resume-studio/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, lang string, tab types.Tab, store *sections.Store, dev bool) *goquery.Document {
	t.Helper()
	bundle, err := content.NewLoader().Load(lang)
	require.NoError(t, err)

	view := filter.Apply(tab, bundle.Profile, filter.DefaultFilterMap())
	page, err := RenderPage(BuildPageData(bundle, view, store, dev))
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

func TestRenderPage_Full(t *testing.T) {
	doc := render(t, "en", types.TabFull, sections.NewStore(nil), false)

	assert.Equal(t, "Ronny Christensen", doc.Find("#resume-container h1").Text())
	assert.Equal(t, 4, doc.Find("#resume-container section").Length())
	assert.Equal(t, 10, doc.Find("#experience article").Length())
	assert.Equal(t, 0, doc.Find("#references").Length())
	assert.Equal(t, 0, doc.Find(".notice").Length())
	assert.Equal(t, "Full Resume", doc.Find("#tabs a.active").Text())
}

func TestRenderPage_TechFiltersExperience(t *testing.T) {
	doc := render(t, "en", types.TabTech, sections.NewStore(nil), false)

	assert.Equal(t, 1, doc.Find("#experience article").Length())
	assert.Equal(t, "exp-bookingboard", doc.Find("#experience article").AttrOr("id", ""))
	assert.Equal(t, 6, doc.Find(".skills span").Length())
}

func TestRenderPage_CollapsedSections(t *testing.T) {
	store := sections.NewStore(nil)
	store.Toggle(sections.Skills)

	doc := render(t, "en", types.TabFull, store, false)
	assert.True(t, doc.Find("#skills").HasClass("collapsed"))
	assert.False(t, doc.Find("#summary").HasClass("collapsed"))
}

func TestRenderPage_References(t *testing.T) {
	doc := render(t, "da", types.TabReferences, sections.NewStore(nil), true)

	assert.Equal(t, 1, doc.Find("#resume-container section").Length())
	assert.Equal(t, 2, doc.Find("#references article").Length())
	assert.Equal(t, 1, doc.Find(".notice").Length())
	assert.Equal(t, "da", doc.Find("html").AttrOr("lang", ""))
}

func TestRenderPage_EscapesContent(t *testing.T) {
	data := PageData{Name: "<script>alert(1)</script>"}
	page, err := RenderPage(data)
	require.NoError(t, err)
	assert.NotContains(t, page, "<script>alert(1)</script>")
	assert.Contains(t, page, "&lt;script&gt;")
}
