package sections

import (
	"sync"
	"testing"

	"github.com/jonathan/resume-studio/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestNewStore_Defaults(t *testing.T) {
	s := NewStore(map[string]bool{Education: true})

	assert.False(t, s.IsCollapsed(Summary))
	assert.True(t, s.IsCollapsed(Education))
	assert.False(t, s.IsCollapsed("unknown"))
}

func TestToggle(t *testing.T) {
	s := NewStore(nil)

	assert.True(t, s.Toggle(Skills))
	assert.True(t, s.IsCollapsed(Skills))
	assert.False(t, s.Toggle(Skills))
	assert.False(t, s.IsCollapsed(Skills))
}

func TestVisibleSections(t *testing.T) {
	assert.Equal(t, []string{References}, VisibleSections(types.TabReferences))
	for _, tab := range []types.Tab{types.TabFull, types.TabFitness, types.TabTech} {
		assert.Equal(t, []string{Summary, Skills, Experience, Education}, VisibleSections(tab))
	}
}

func TestToggleAll(t *testing.T) {
	t.Run("collapses when any visible section is expanded", func(t *testing.T) {
		s := NewStore(nil)
		s.Toggle(Summary)

		assert.True(t, s.ToggleAll(types.TabFull))
		assert.True(t, s.AllCollapsed(types.TabFull))
		assert.False(t, s.IsCollapsed(References), "references is not visible on full")
	})

	t.Run("expands when all visible sections are collapsed", func(t *testing.T) {
		s := NewStore(nil)
		s.ToggleAll(types.TabTech)

		assert.False(t, s.ToggleAll(types.TabTech))
		for _, id := range VisibleSections(types.TabTech) {
			assert.False(t, s.IsCollapsed(id))
		}
	})

	t.Run("references tab only touches references", func(t *testing.T) {
		s := NewStore(map[string]bool{Skills: true})

		assert.True(t, s.ToggleAll(types.TabReferences))
		assert.True(t, s.IsCollapsed(References))
		assert.True(t, s.IsCollapsed(Skills))
		assert.False(t, s.IsCollapsed(Summary))
	})
}

func TestSnapshotRestore(t *testing.T) {
	s := NewStore(nil)
	s.Toggle(Experience)
	s.Toggle(References)

	snap := s.Snapshot()
	s.ExpandAll()
	for _, id := range All() {
		assert.False(t, s.IsCollapsed(id))
	}

	s.Restore(snap)
	assert.True(t, s.IsCollapsed(Experience))
	assert.True(t, s.IsCollapsed(References))
	assert.False(t, s.IsCollapsed(Summary))

	snap[Summary] = true
	assert.False(t, s.IsCollapsed(Summary), "restore copies the snapshot")
}

func TestStore_Concurrent(t *testing.T) {
	s := NewStore(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Toggle(Skills)
			s.ToggleAll(types.TabFull)
			_ = s.Snapshot()
		}()
	}
	wg.Wait()
	_ = s.AllCollapsed(types.TabFull)
}
