// slim-template rewrites a template dataset file in place, passing every
// raw incident record through the compaction transform and reporting the
// size reduction. Operator tooling; not part of the request path.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"burnout-board/core/slim"
)

func main() {
	path := flag.String("file", "data/mock_analysis_data.json", "template JSON file to slim in place")
	flag.Parse()

	info, err := os.Stat(*path)
	if err != nil {
		log.Fatalf("stat %s: %v", *path, err)
	}
	fmt.Printf("loading template data from %s (%.2f MB)\n", *path, mb(info.Size()))

	raw, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("read %s: %v", *path, err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		log.Fatalf("parse %s: %v", *path, err)
	}

	stats, ok := slim.Document(doc)
	if !ok {
		// Lenient on unexpected structure: warn and leave the file alone.
		fmt.Println("warning: no analysis.results.raw_incident_data found, nothing to slim")
		return
	}
	fmt.Println(stats.String())

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		log.Fatalf("encode: %v", err)
	}
	if err := os.WriteFile(*path, out, 0o644); err != nil {
		log.Fatalf("write %s: %v", *path, err)
	}

	after, err := os.Stat(*path)
	if err != nil {
		log.Fatalf("stat %s: %v", *path, err)
	}
	fmt.Printf("new file size: %.2f MB (was %.2f MB)\n", mb(after.Size()), mb(info.Size()))
}

func mb(n int64) float64 {
	return float64(n) / 1024 / 1024
}
