package domain

import (
	"context"
	"sort"
)

type ChecklistState string

const (
	ChecklistLoading ChecklistState = "loading"
	ChecklistReady   ChecklistState = "ready"
	ChecklistFailed  ChecklistState = "failed"
	ChecklistMarking ChecklistState = "marking"
)

const (
	FailedEntryID   = "err"
	FailedEntryName = "failed to load data"
)

type ChecklistEntry struct {
	HabitID   string `json:"habit_id"`
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

// Checklist is the set of habits due on one date with their completion status.
type Checklist struct {
	Date     string           `json:"date"`
	State    ChecklistState   `json:"state"`
	Entries  []ChecklistEntry `json:"entries"`
	Progress float64          `json:"progress"`
}

// NewChecklist zips the due habits with the set of completed habit ids.
// Entries are ordered by creation time so repeated reads render the same way.
func NewChecklist(date string, due []*Habit, completed map[string]bool) *Checklist {
	ordered := make([]*Habit, len(due))
	copy(ordered, due)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].ID < ordered[j].ID
		}
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	entries := make([]ChecklistEntry, 0, len(ordered))
	done := 0
	for _, h := range ordered {
		isDone := completed[h.ID]
		if isDone {
			done++
		}
		entries = append(entries, ChecklistEntry{
			HabitID:   h.ID,
			Name:      h.Name,
			Completed: isDone,
		})
	}

	progress := 0.0
	if len(entries) > 0 {
		progress = float64(done) / float64(len(entries)) * 100
	}

	return &Checklist{
		Date:     date,
		State:    ChecklistReady,
		Entries:  entries,
		Progress: progress,
	}
}

// FailedChecklist is the placeholder shown when the store could not be read.
func FailedChecklist(date string) *Checklist {
	return &Checklist{
		Date:  date,
		State: ChecklistFailed,
		Entries: []ChecklistEntry{
			{HabitID: FailedEntryID, Name: FailedEntryName, Completed: false},
		},
	}
}

func (c *Checklist) Entry(habitID string) (ChecklistEntry, bool) {
	for _, e := range c.Entries {
		if e.HabitID == habitID {
			return e, true
		}
	}
	return ChecklistEntry{}, false
}

// ToggleEvent describes a completed toggle for observers that refresh derived state.
type ToggleEvent struct {
	UserID    string
	HabitID   string
	Date      string
	Completed bool
}

type ToggleObserver interface {
	OnToggle(ctx context.Context, event ToggleEvent)
}
