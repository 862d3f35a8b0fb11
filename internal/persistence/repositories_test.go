package persistence

import (
	"testing"
	"time"
)

func TestSortHomeworks(t *testing.T) {
	base := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	list := []Homework{
		{ID: "c", DueDate: base.AddDate(0, 0, 7), CreatedAt: base},
		{ID: "b", DueDate: base.AddDate(0, 0, 2), CreatedAt: base.Add(time.Hour)},
		{ID: "a", DueDate: base.AddDate(0, 0, 2), CreatedAt: base.Add(time.Hour)},
		{ID: "d", DueDate: base.AddDate(0, 0, 2), CreatedAt: base},
	}

	SortHomeworks(list)

	want := []string{"d", "a", "b", "c"}
	for i, id := range want {
		if list[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, list[i].ID)
		}
	}
}
