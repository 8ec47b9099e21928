package weather

import (
	"fmt"
	"testing"
)

func TestComputeTrend(t *testing.T) {
	tests := []struct {
		name    string
		history []Snapshot
		want    TrendStats
	}{
		{name: "empty", history: nil, want: TrendStats{}},
		{name: "single", history: []Snapshot{{Date: "2024-01-01", Temperature: 20, CloudCoverPercent: 30}}, want: TrendStats{}},
		{
			name: "two entries",
			history: []Snapshot{
				{Date: "2024-01-01", Temperature: 20, CloudCoverPercent: 30},
				{Date: "2024-01-02", Temperature: 22.5, CloudCoverPercent: 25},
			},
			want: TrendStats{TemperatureDelta: 2.5, CloudCoverDelta: -5},
		},
		{
			name: "middle entries ignored",
			history: []Snapshot{
				{Date: "2024-01-01", Temperature: 10, CloudCoverPercent: 0},
				{Date: "2024-01-02", Temperature: 40, CloudCoverPercent: 100},
				{Date: "2024-01-03", Temperature: 9.96, CloudCoverPercent: 12.34},
			},
			want: TrendStats{TemperatureDelta: 0, CloudCoverDelta: 12.3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeTrend(tt.history); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	var history []Snapshot
	for i := 0; i < 40; i++ {
		history = append(history, Snapshot{
			Date:              fmt.Sprintf("2024-01-%02d", i+1),
			Temperature:       float64(i),
			CloudCoverPercent: 50,
		})
	}

	sum := Summarize("Paris", history, DefaultSeriesLength)
	if sum.Days != 40 {
		t.Errorf("expected 40 days, got %d", sum.Days)
	}
	if len(sum.Series) != 30 || sum.Series[0].Temperature != 10 {
		t.Errorf("expected last 30 entries, got %d starting at %v", len(sum.Series), sum.Series[0].Temperature)
	}
	// Trend spans the whole history, not just the plotted series.
	if sum.Trend.TemperatureDelta != 39 {
		t.Errorf("expected delta 39, got %v", sum.Trend.TemperatureDelta)
	}
	if sum.AverageTemperature != 19.5 || sum.AverageCloudCover != 50 {
		t.Errorf("unexpected averages %v / %v", sum.AverageTemperature, sum.AverageCloudCover)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	sum := Summarize("Paris", nil, DefaultSeriesLength)
	if sum.Days != 0 || sum.Series == nil || len(sum.Series) != 0 {
		t.Errorf("unexpected empty summary %+v", sum)
	}
	if sum.Trend != (TrendStats{}) {
		t.Errorf("expected zero trend, got %+v", sum.Trend)
	}
}
