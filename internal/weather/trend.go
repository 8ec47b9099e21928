package weather

import "github.com/i474232898/climate-dashboard/internal/common"

// DefaultSeriesLength is how many recent snapshots the trends chart plots.
const DefaultSeriesLength = 30

// ComputeTrend compares the newest snapshot with the oldest one.
// Fewer than two snapshots yield zero deltas.
func ComputeTrend(history []Snapshot) TrendStats {
	if len(history) < 2 {
		return TrendStats{}
	}
	first, last := history[0], history[len(history)-1]
	return TrendStats{
		TemperatureDelta: common.RoundTo(last.Temperature-first.Temperature, 1),
		CloudCoverDelta:  common.RoundTo(last.CloudCoverPercent-first.CloudCoverPercent, 1),
	}
}

// RecentSeries returns the last n snapshots without copying.
func RecentSeries(history []Snapshot, n int) []Snapshot {
	if n <= 0 || len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

// Summarize derives the trends view. The trend and averages cover the whole
// history; only Series is limited to the last seriesLen entries.
func Summarize(location string, history []Snapshot, seriesLen int) HistorySummary {
	sum := HistorySummary{
		Location: location,
		Days:     len(history),
		Trend:    ComputeTrend(history),
		Series:   RecentSeries(history, seriesLen),
	}
	if sum.Series == nil {
		sum.Series = []Snapshot{}
	}
	if len(history) == 0 {
		return sum
	}

	var sumTemp, sumCloud float64
	for _, s := range history {
		sumTemp += s.Temperature
		sumCloud += s.CloudCoverPercent
	}
	n := float64(len(history))
	sum.AverageTemperature = common.RoundTo(sumTemp/n, 1)
	sum.AverageCloudCover = common.RoundTo(sumCloud/n, 1)
	return sum
}
