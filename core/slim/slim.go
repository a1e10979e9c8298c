// Package slim compacts raw incident records down to the minimal field set
// the dashboard consumes. The transform is pure and positional: every input
// maps to exactly one output at the same index, nothing is filtered or
// reordered.
package slim

import (
	"encoding/json"
	"fmt"
)

// Stats describes the size reduction achieved by a batch run. Sizes are
// approximate, based on the JSON-encoded length of each record; diagnostic
// output only.
type Stats struct {
	Count         int
	OriginalBytes int64
	SlimmedBytes  int64
}

func (s Stats) ReductionPct() float64 {
	if s.OriginalBytes == 0 {
		return 0
	}
	return (1 - float64(s.SlimmedBytes)/float64(s.OriginalBytes)) * 100
}

func (s Stats) String() string {
	return fmt.Sprintf("%d incidents: %.2f MB -> %.2f MB (%.1f%% reduction)",
		s.Count,
		float64(s.OriginalBytes)/1024/1024,
		float64(s.SlimmedBytes)/1024/1024,
		s.ReductionPct())
}

// Incidents slims every record in the list, preserving length and order.
func Incidents(incidents []any) ([]any, Stats) {
	stats := Stats{Count: len(incidents)}
	if len(incidents) == 0 {
		return incidents, stats
	}
	out := make([]any, len(incidents))
	for i, inc := range incidents {
		stats.OriginalBytes += approxSize(inc)
		out[i] = Incident(inc)
		stats.SlimmedBytes += approxSize(out[i])
	}
	return out, stats
}

// Incident prunes a single raw incident to id, type and the minimal
// attribute set. Non-mapping inputs pass through unchanged. Attributes whose
// value is null are omitted entirely, so the output key set is
// data-dependent.
func Incident(v any) any {
	inc, ok := v.(map[string]any)
	if !ok || inc == nil {
		return v
	}
	attrs, _ := inc["attributes"].(map[string]any)

	slimmed := map[string]any{}
	put := func(key string, val any) {
		if val != nil {
			slimmed[key] = val
		}
	}

	put("sequential_id", attrs["sequential_id"])
	put("title", attrs["title"])
	put("summary", attrs["summary"])
	put("status", attrs["status"])
	put("severity", SeverityName(attrs["severity"]))

	put("created_at", attrs["created_at"])
	put("started_at", attrs["started_at"])
	put("acknowledged_at", attrs["acknowledged_at"])
	put("mitigated_at", attrs["mitigated_at"])
	put("resolved_at", attrs["resolved_at"])

	put("user", UserRef(attrs["user"]))
	put("started_by", UserRef(attrs["started_by"]))
	put("resolved_by", UserRef(attrs["resolved_by"]))
	put("mitigated_by", UserRef(attrs["mitigated_by"]))

	put("slack_channel_id", attrs["slack_channel_id"])
	put("slack_channel_name", attrs["slack_channel_name"])
	put("slack_channel_url", attrs["slack_channel_url"])
	put("slack_channel_deep_link", attrs["slack_channel_deep_link"])

	return map[string]any{
		"id":         inc["id"],
		"type":       inc["type"],
		"attributes": slimmed,
	}
}

func approxSize(v any) int64 {
	data, err := json.Marshal(v)
	if err != nil {
		return int64(len(fmt.Sprint(v)))
	}
	return int64(len(data))
}
