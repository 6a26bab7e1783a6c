package metrics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// tokenUsageMetricName is the OTel metric name CLEO sums when a file
// export is configured (spec.md §4.9).
const tokenUsageMetricName = "claude_code.token.usage"

// otelAttr mirrors attribute.KeyValue's JSON shape as produced by OTel's
// file/stdout metric exporters.
type otelAttr struct {
	Key   attribute.Key `json:"Key"`
	Value struct {
		Type  string `json:"Type"`
		Value any    `json:"Value"`
	} `json:"Value"`
}

type otelDataPoint struct {
	Attributes []otelAttr `json:"Attributes"`
	Value      float64    `json:"Value"`
}

type otelMetricData struct {
	DataPoints []otelDataPoint `json:"DataPoints"`
}

type otelMetric struct {
	Name string         `json:"Name"`
	Data otelMetricData `json:"Data"`
}

type otelScopeMetrics struct {
	Metrics []otelMetric `json:"Metrics"`
}

type otelResourceMetrics struct {
	ScopeMetrics []otelScopeMetrics `json:"ScopeMetrics"`
}

// MeasuredUsage totals the token.usage data points of the most recent
// exporter file in dir, keyed by the "type" (or "attribute") attribute value
// (input/output/cacheRead/cacheCreation).
func MeasuredUsage(dir string) (map[string]int, error) {
	path, err := latestExportFile(dir)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read otel export %s: %w", path, err)
	}
	var export otelResourceMetrics
	if err := json.Unmarshal(raw, &export); err != nil {
		return nil, fmt.Errorf("parse otel export %s: %w", path, err)
	}

	totals := make(map[string]int)
	for _, scope := range export.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != tokenUsageMetricName {
				continue
			}
			for _, dp := range m.Data.DataPoints {
				attr := attributeValue(dp.Attributes)
				totals[attr] += int(dp.Value)
			}
		}
	}
	return totals, nil
}

func attributeValue(attrs []otelAttr) string {
	for _, a := range attrs {
		if string(a.Key) == "attribute" || string(a.Key) == "type" {
			if s, ok := a.Value.Value.(string); ok {
				return s
			}
		}
	}
	return "unknown"
}

func latestExportFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read otel export dir %s: %w", dir, err)
	}
	type candidate struct {
		path    string
		modTime time.Time
	}
	var candidates []candidate
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{path: filepath.Join(dir, e.Name()), modTime: info.ModTime()})
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no otel export files in %s", dir)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].modTime.After(candidates[j].modTime) })
	return candidates[0].path, nil
}
