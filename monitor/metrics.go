package monitor

import "time"

type IngestMetrics struct {
	Documents     int           `json:"documents"`
	Chunks        int           `json:"chunks"`
	TotalDuration time.Duration `json:"total_duration"`
}

type AskMetrics struct {
	Questions     int           `json:"questions"`
	Failures      int           `json:"failures"`
	TokensIn      int           `json:"tokens_in"`
	TokensOut     int           `json:"tokens_out"`
	TotalDuration time.Duration `json:"total_duration"`
}

// EngineMetrics is a point-in-time snapshot of engine activity since start.
type EngineMetrics struct {
	Ingest    IngestMetrics `json:"ingest"`
	Ask       AskMetrics    `json:"ask"`
	StartTime time.Time     `json:"start_time"`
}

// AvgAskLatencyMs returns the mean answer latency in milliseconds.
func (m EngineMetrics) AvgAskLatencyMs() float64 {
	if m.Ask.Questions == 0 {
		return 0
	}
	return float64(m.Ask.TotalDuration.Milliseconds()) / float64(m.Ask.Questions)
}
