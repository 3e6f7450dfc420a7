package story

import (
	"math"

	"github.com/sagan/laras/util"
)

const (
	MaxSceneSeconds = 8
	MinBeatSeconds  = 3
	MinTotalSeconds = 1
	MaxTotalSeconds = 600
	// story (beats) mode range
	MinStorySeconds = 10
	MaxStorySeconds = 1200
)

var beatWeights = []float64{0.12, 0.18, 0.2, 0.2, 0.18, 0.12}

// ClampTotal limits a requested total duration to [min, max].
func ClampTotal(total, min, max int) int {
	return util.Clamp(total, min, max)
}

// SplitDurations greedily splits total seconds into scenes of at most maxPerScene seconds.
// All segments but the last equal maxPerScene. A non-positive total returns nil,
// a non-positive maxPerScene is treated as MaxSceneSeconds.
func SplitDurations(total, maxPerScene int) []int {
	if total <= 0 {
		return nil
	}
	if maxPerScene <= 0 {
		maxPerScene = MaxSceneSeconds
	}
	durations := make([]int, 0, (total+maxPerScene-1)/maxPerScene)
	for remain := total; remain > 0; remain -= maxPerScene {
		durations = append(durations, min(remain, maxPerScene))
	}
	return durations
}

// WeightedBeats spreads total seconds over beats pacing segments following a
// rise-and-fall weight curve. Each beat gets at least MinBeatSeconds; the sum
// may drift from total by rounding.
func WeightedBeats(beats, total int) []int {
	if beats <= 0 {
		return nil
	}
	seconds := make([]int, beats)
	for i := range beats {
		v := int(math.Round(float64(total) * beatWeights[i%len(beatWeights)]))
		seconds[i] = max(v, MinBeatSeconds)
	}
	return seconds
}
