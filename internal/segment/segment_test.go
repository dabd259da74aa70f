package segment

import (
	"reflect"
	"testing"

	"ridefile/internal/ride"
)

func TestBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		samples []ride.Sample
		want    []Boundary
	}{
		{
			name: "empty",
		},
		{
			name:    "single run at zero label",
			samples: []ride.Sample{{Secs: 0}, {Secs: 1}, {Secs: 2}},
			want:    []Boundary{{Label: 0, BeginSecs: 0, EndSecs: 2}},
		},
		{
			name:    "first run begins at zero even when samples start later",
			samples: []ride.Sample{{Secs: 4}, {Secs: 5}},
			want:    []Boundary{{Label: 0, BeginSecs: 0, EndSecs: 5}},
		},
		{
			name: "transition begins at triggering sample",
			samples: []ride.Sample{
				{Secs: 0.0, Interval: 1},
				{Secs: 5.0, Interval: 1},
				{Secs: 5.1, Interval: 2},
			},
			want: []Boundary{
				{Label: 0, BeginSecs: 0, EndSecs: 0},
				{Label: 1, BeginSecs: 0, EndSecs: 5.0},
				{Label: 2, BeginSecs: 5.1, EndSecs: 5.1},
			},
		},
		{
			name: "label reused after another run",
			samples: []ride.Sample{
				{Secs: 0, Interval: 0},
				{Secs: 1, Interval: 3},
				{Secs: 2, Interval: 0},
			},
			want: []Boundary{
				{Label: 0, BeginSecs: 0, EndSecs: 0},
				{Label: 3, BeginSecs: 1, EndSecs: 1},
				{Label: 0, BeginSecs: 2, EndSecs: 2},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Boundaries(tt.samples)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Boundaries() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBoundariesRecordCountAndCoverage(t *testing.T) {
	samples := []ride.Sample{
		{Secs: 0, Interval: 0},
		{Secs: 1, Interval: 0},
		{Secs: 2, Interval: 1},
		{Secs: 3, Interval: 1},
		{Secs: 4, Interval: 2},
		{Secs: 5, Interval: 0},
		{Secs: 6, Interval: 0},
	}
	changes := 0
	for i := 1; i < len(samples); i++ {
		if samples[i].Interval != samples[i-1].Interval {
			changes++
		}
	}

	got := Boundaries(samples)
	if len(got) != changes+1 {
		t.Fatalf("got %d boundaries, want %d", len(got), changes+1)
	}
	if got[0].BeginSecs != 0 {
		t.Fatalf("first boundary begins at %v, want 0", got[0].BeginSecs)
	}
	if last := got[len(got)-1]; last.EndSecs != samples[len(samples)-1].Secs {
		t.Fatalf("last boundary ends at %v, want %v", last.EndSecs, samples[len(samples)-1].Secs)
	}
	for i := 1; i < len(got); i++ {
		if got[i].BeginSecs < got[i-1].EndSecs {
			t.Fatalf("boundary %d overlaps previous: %+v after %+v", i, got[i], got[i-1])
		}
	}
}

func TestObservePanicsOnNegativeTime(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for negative time")
		}
	}()
	var s Segmenter
	s.Observe(ride.Sample{Secs: -0.5})
}
