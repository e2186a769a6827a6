package monitor

import (
	"sync"
	"time"
)

type Collector interface {
	RecordIngest(chunks int, elapsed time.Duration)
	RecordAsk(tokensIn, tokensOut int, elapsed time.Duration, failed bool)
	Snapshot() EngineMetrics
}

type InMemoryCollector struct {
	mu        sync.RWMutex
	ingest    IngestMetrics
	ask       AskMetrics
	startTime time.Time
}

func NewInMemoryCollector() *InMemoryCollector {
	return &InMemoryCollector{
		startTime: time.Now(),
	}
}

func (c *InMemoryCollector) RecordIngest(chunks int, elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ingest.Documents++
	c.ingest.Chunks += chunks
	c.ingest.TotalDuration += elapsed
}

func (c *InMemoryCollector) RecordAsk(tokensIn, tokensOut int, elapsed time.Duration, failed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ask.Questions++
	if failed {
		c.ask.Failures++
	}
	c.ask.TokensIn += tokensIn
	c.ask.TokensOut += tokensOut
	c.ask.TotalDuration += elapsed
}

func (c *InMemoryCollector) Snapshot() EngineMetrics {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return EngineMetrics{
		Ingest:    c.ingest,
		Ask:       c.ask,
		StartTime: c.startTime,
	}
}

func (c *InMemoryCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ingest = IngestMetrics{}
	c.ask = AskMetrics{}
	c.startTime = time.Now()
}

type NoOpCollector struct{}

func NewNoOpCollector() *NoOpCollector {
	return &NoOpCollector{}
}

func (c *NoOpCollector) RecordIngest(chunks int, elapsed time.Duration) {}

func (c *NoOpCollector) RecordAsk(tokensIn, tokensOut int, elapsed time.Duration, failed bool) {}

func (c *NoOpCollector) Snapshot() EngineMetrics {
	return EngineMetrics{}
}
