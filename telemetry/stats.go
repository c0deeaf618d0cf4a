package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated sensor statistics for a time window.
type WindowStats struct {
	RunID           string  `csv:"run_id"`
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`
	Ticks           int     `csv:"ticks"`

	// Population at window end
	Entities  int `csv:"entities"`
	Observers int `csv:"observers"`

	// Detection
	DetectedTicks int `csv:"detected_ticks"` // sum over ticks of detected entities
	Entered       int `csv:"entered"`
	Exited        int `csv:"exited"`
	MaxConcurrent int `csv:"max_concurrent"`

	// Player pie slice, mean activation per tick
	FrontMean    float64 `csv:"front_mean"`
	RightMean    float64 `csv:"right_mean"`
	BackMean     float64 `csv:"back_mean"`
	LeftMean     float64 `csv:"left_mean"`
	CautionTicks int     `csv:"caution_ticks"` // worst boundary was caution
	AlertTicks   int     `csv:"alert_ticks"`   // any boundary was alert

	// Player wall sensor, shortest ray per tick
	WallMean         float64 `csv:"wall_mean"`
	WallStd          float64 `csv:"wall_std"`
	WallMin          float64 `csv:"wall_min"`
	WallP10          float64 `csv:"wall_p10"`
	WallContactTicks int     `csv:"wall_contact_ticks"`

	// Player motion
	Distance       float64 `csv:"distance"`
	DegenerateAims int     `csv:"degenerate_aims"`
}

// QuadrantMeans returns the four mean activations indexed by quadrant.
func (s WindowStats) QuadrantMeans() [4]float64 {
	return [4]float64{s.FrontMean, s.RightMean, s.BackMean, s.LeftMean}
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeWallStats calculates mean, population std, min and p10 of the values.
func ComputeWallStats(values []float64) (mean, std, minV, p10 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	mean, std = stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	return mean, std, sorted[0], Percentile(sorted, 0.10)
}

// Mean returns the arithmetic mean, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("run_id", s.RunID),
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("ticks", s.Ticks),
		slog.Int("entities", s.Entities),
		slog.Int("observers", s.Observers),
		slog.Int("detected_ticks", s.DetectedTicks),
		slog.Int("entered", s.Entered),
		slog.Int("exited", s.Exited),
		slog.Int("max_concurrent", s.MaxConcurrent),
		slog.Float64("front_mean", s.FrontMean),
		slog.Float64("right_mean", s.RightMean),
		slog.Float64("back_mean", s.BackMean),
		slog.Float64("left_mean", s.LeftMean),
		slog.Int("caution_ticks", s.CautionTicks),
		slog.Int("alert_ticks", s.AlertTicks),
		slog.Float64("wall_mean", s.WallMean),
		slog.Float64("wall_std", s.WallStd),
		slog.Float64("wall_min", s.WallMin),
		slog.Float64("wall_p10", s.WallP10),
		slog.Int("wall_contact_ticks", s.WallContactTicks),
		slog.Float64("distance", s.Distance),
		slog.Int("degenerate_aims", s.DegenerateAims),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"entities", s.Entities,
		"entered", s.Entered,
		"exited", s.Exited,
		"max_concurrent", s.MaxConcurrent,
		"front_mean", s.FrontMean,
		"right_mean", s.RightMean,
		"back_mean", s.BackMean,
		"left_mean", s.LeftMean,
		"alert_ticks", s.AlertTicks,
		"wall_min", s.WallMin,
		"distance", s.Distance,
	)
}
