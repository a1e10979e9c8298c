package slim

// Document applies the transform to analysis.results.raw_incident_data
// inside a decoded template document, replacing the list in place. The
// second return is false when the expected keys are absent; the document is
// then left untouched so the caller can warn and move on.
func Document(doc map[string]any) (Stats, bool) {
	analysis, ok := doc["analysis"].(map[string]any)
	if !ok {
		return Stats{}, false
	}
	results, ok := analysis["results"].(map[string]any)
	if !ok {
		return Stats{}, false
	}
	raw, ok := results["raw_incident_data"].([]any)
	if !ok {
		return Stats{}, false
	}
	slimmed, stats := Incidents(raw)
	results["raw_incident_data"] = slimmed
	return stats, true
}
