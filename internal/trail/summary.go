package trail

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Summary aggregates one session's trail.
type Summary struct {
	Samples      int
	Duration     time.Duration
	PathLength   float64 // metres travelled along the trail
	Displacement float64 // straight-line start-to-end distance, metres
	SpeedP50     float64 // m/s
	SpeedP95     float64
	SpeedMax     float64
}

// Summarize computes trail statistics from time-ordered samples. Speeds
// are finite differences between consecutive samples; percentiles use
// the empirical quantile.
func Summarize(samples []Sample) Summary {
	sum := Summary{Samples: len(samples)}
	if len(samples) < 2 {
		return sum
	}

	sum.Duration = time.Duration(samples[len(samples)-1].UnixNanos - samples[0].UnixNanos)

	speeds := make([]float64, 0, len(samples)-1)
	for i := 1; i < len(samples); i++ {
		prev, cur := samples[i-1], samples[i]
		dx := cur.Pose.X.Metres() - prev.Pose.X.Metres()
		dy := cur.Pose.Y.Metres() - prev.Pose.Y.Metres()
		d := math.Hypot(dx, dy)
		sum.PathLength += d

		dt := float64(cur.UnixNanos-prev.UnixNanos) / 1e9
		if dt > 0 {
			v := d / dt
			speeds = append(speeds, v)
			if v > sum.SpeedMax {
				sum.SpeedMax = v
			}
		}
	}

	first, last := samples[0].Pose, samples[len(samples)-1].Pose
	sum.Displacement = math.Hypot(
		last.X.Metres()-first.X.Metres(),
		last.Y.Metres()-first.Y.Metres())

	if len(speeds) > 0 {
		sort.Float64s(speeds)
		sum.SpeedP50 = stat.Quantile(0.50, stat.Empirical, speeds, nil)
		sum.SpeedP95 = stat.Quantile(0.95, stat.Empirical, speeds, nil)
	}
	return sum
}
