package story

import (
	"slices"
	"testing"
)

func TestSplitDurations(t *testing.T) {
	tests := []struct {
		name  string
		total int
		max   int
		want  []int
	}{
		{"one minute", 60, 8, []int{8, 8, 8, 8, 8, 8, 8, 4}},
		{"exactly max", 8, 8, []int{8}},
		{"below max", 5, 8, []int{5}},
		{"multiple of max", 24, 8, []int{8, 8, 8}},
		{"zero max uses default", 17, 0, []int{8, 8, 1}},
		{"zero total", 0, 8, nil},
		{"negative total", -4, 8, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitDurations(tt.total, tt.max)
			if !slices.Equal(got, tt.want) {
				t.Errorf("SplitDurations(%d, %d) = %v, want %v", tt.total, tt.max, got, tt.want)
			}
		})
	}
}

func TestSplitDurationsProperties(t *testing.T) {
	for total := -3; total <= 700; total++ {
		clamped := ClampTotal(total, MinTotalSeconds, MaxTotalSeconds)
		got := SplitDurations(clamped, MaxSceneSeconds)
		sum := 0
		for i, d := range got {
			if d <= 0 || d > MaxSceneSeconds {
				t.Fatalf("total %d: segment %d = %d out of (0, %d]", total, i, d, MaxSceneSeconds)
			}
			if i < len(got)-1 && d != MaxSceneSeconds {
				t.Fatalf("total %d: non-final segment %d = %d", total, i, d)
			}
			sum += d
		}
		if sum != clamped {
			t.Fatalf("total %d: sum %d != clamped %d", total, sum, clamped)
		}
	}
}

func TestClampTotal(t *testing.T) {
	tests := []struct {
		total, min, max, want int
	}{
		{0, 1, 600, 1},
		{601, 1, 600, 600},
		{60, 1, 600, 60},
		{5, 10, 1200, 10},
		{5000, 10, 1200, 1200},
	}
	for _, tt := range tests {
		if got := ClampTotal(tt.total, tt.min, tt.max); got != tt.want {
			t.Errorf("ClampTotal(%d, %d, %d) = %d, want %d", tt.total, tt.min, tt.max, got, tt.want)
		}
	}
}

func TestWeightedBeats(t *testing.T) {
	tests := []struct {
		name  string
		beats int
		total int
		want  []int
	}{
		{"six beats one minute", 6, 60, []int{7, 11, 12, 12, 11, 7}},
		{"floored at minimum", 6, 10, []int{3, 3, 3, 3, 3, 3}},
		{"cycles weights", 8, 100, []int{12, 18, 20, 20, 18, 12, 12, 18}},
		{"no beats", 0, 60, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeightedBeats(tt.beats, tt.total)
			if !slices.Equal(got, tt.want) {
				t.Errorf("WeightedBeats(%d, %d) = %v, want %v", tt.beats, tt.total, got, tt.want)
			}
		})
	}
}
