package pipeline

import (
	"reflect"
	"testing"
)

func TestDenseRankTies(t *testing.T) {
	items := []Ranked{
		{Entity: "C", Metric: 8},
		{Entity: "A", Metric: 10},
		{Entity: "B", Metric: 10},
	}

	got := DenseRank(items)
	want := []Ranked{
		{Entity: "A", Metric: 10, Rank: 1},
		{Entity: "B", Metric: 10, Rank: 1},
		{Entity: "C", Metric: 8, Rank: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DenseRank = %+v, want %+v", got, want)
	}
}

func TestDenseRankNoGaps(t *testing.T) {
	items := []Ranked{
		{Entity: "A", Metric: 30},
		{Entity: "B", Metric: 20},
		{Entity: "C", Metric: 20},
		{Entity: "D", Metric: 10},
	}

	got := DenseRank(items)
	if got[3].Rank != 3 {
		t.Errorf("rank after a tie = %d, want 3 (dense, no gap)", got[3].Rank)
	}
}

func TestDenseRankDoesNotMutateInput(t *testing.T) {
	items := []Ranked{
		{Entity: "B", Metric: 1},
		{Entity: "A", Metric: 2},
	}
	_ = DenseRank(items)
	if items[0].Entity != "B" || items[0].Rank != 0 {
		t.Error("DenseRank mutated its input slice")
	}
}

func TestWindowIncludesBoundaryTies(t *testing.T) {
	// Six distinct metrics except a tie at rank 5: requesting ranks 1-5
	// must return 6 rows.
	items := []Ranked{
		{Entity: "A", Metric: 60},
		{Entity: "B", Metric: 50},
		{Entity: "C", Metric: 40},
		{Entity: "D", Metric: 30},
		{Entity: "E", Metric: 20},
		{Entity: "F", Metric: 20},
		{Entity: "G", Metric: 10},
	}

	got := Window(DenseRank(items), 1, 5)
	if len(got) != 6 {
		t.Fatalf("window 1-5 with boundary tie returned %d rows, want 6", len(got))
	}
	for _, r := range got {
		if r.Entity == "G" {
			t.Error("window included entity beyond the boundary tie")
		}
	}
}

func TestWindowInnerRange(t *testing.T) {
	items := DenseRank([]Ranked{
		{Entity: "A", Metric: 3},
		{Entity: "B", Metric: 2},
		{Entity: "C", Metric: 1},
	})

	got := Window(items, 2, 3)
	want := []Ranked{
		{Entity: "B", Metric: 2, Rank: 2},
		{Entity: "C", Metric: 1, Rank: 3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Window(2,3) = %+v, want %+v", got, want)
	}
}

func TestDenseRankEmpty(t *testing.T) {
	if got := DenseRank(nil); len(got) != 0 {
		t.Errorf("DenseRank(nil) = %+v, want empty", got)
	}
	if got := Window(nil, 1, 5); got != nil {
		t.Errorf("Window(nil) = %+v, want nil", got)
	}
}
