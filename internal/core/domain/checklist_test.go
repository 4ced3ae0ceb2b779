package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-constellation/internal/core/domain"
)

func TestNewChecklist(t *testing.T) {
	base := time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC)
	first := &domain.Habit{ID: "h-b", Name: "Read", CreatedAt: base}
	second := &domain.Habit{ID: "h-a", Name: "Run", CreatedAt: base.Add(time.Hour)}
	third := &domain.Habit{ID: "h-c", Name: "Sleep", CreatedAt: base.Add(2 * time.Hour)}

	t.Run("Zips due habits with the completed set in creation order", func(t *testing.T) {
		list := domain.NewChecklist("2024-02-05",
			[]*domain.Habit{third, first, second},
			map[string]bool{"h-a": true},
		)

		assert.Equal(t, domain.ChecklistReady, list.State)
		assert.Equal(t, "2024-02-05", list.Date)
		require.Len(t, list.Entries, 3)
		assert.Equal(t, domain.ChecklistEntry{HabitID: "h-b", Name: "Read", Completed: false}, list.Entries[0])
		assert.Equal(t, domain.ChecklistEntry{HabitID: "h-a", Name: "Run", Completed: true}, list.Entries[1])
		assert.Equal(t, domain.ChecklistEntry{HabitID: "h-c", Name: "Sleep", Completed: false}, list.Entries[2])
		assert.InDelta(t, 33.33, list.Progress, 0.01)
	})

	t.Run("Empty list has zero progress", func(t *testing.T) {
		list := domain.NewChecklist("2024-02-05", nil, map[string]bool{"h-a": true})

		assert.Empty(t, list.Entries)
		assert.Equal(t, 0.0, list.Progress)
	})

	t.Run("Completions for habits not due are ignored", func(t *testing.T) {
		list := domain.NewChecklist("2024-02-05", []*domain.Habit{first}, map[string]bool{"other": true})

		require.Len(t, list.Entries, 1)
		assert.False(t, list.Entries[0].Completed)
	})
}

func TestFailedChecklist(t *testing.T) {
	list := domain.FailedChecklist("2024-02-05")

	assert.Equal(t, domain.ChecklistFailed, list.State)
	require.Len(t, list.Entries, 1)
	assert.Equal(t, domain.FailedEntryID, list.Entries[0].HabitID)
	assert.False(t, list.Entries[0].Completed)
}

func TestChecklist_Entry(t *testing.T) {
	list := domain.NewChecklist("2024-02-05", []*domain.Habit{{ID: "h1", Name: "Run"}}, nil)

	e, ok := list.Entry("h1")
	assert.True(t, ok)
	assert.Equal(t, "Run", e.Name)

	_, ok = list.Entry("missing")
	assert.False(t, ok)
}
