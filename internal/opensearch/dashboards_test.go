package opensearch

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestBuildDashboard(t *testing.T) {
	objects := BuildDashboard("ocsf-1.1.0-4001-network_activity-*")

	// Index pattern, five visualizations, one dashboard.
	if len(objects) != 7 {
		t.Fatalf("objects = %d, want 7", len(objects))
	}

	ip := objects[0]
	if ip.ID != "index-pattern:ocsf-1.1.0-4001-network_activity-*" {
		t.Errorf("index pattern id = %q", ip.ID)
	}
	pattern := ip.Source["index-pattern"].(map[string]any)
	if pattern["timeFieldName"] != "time_dt" {
		t.Errorf("timeFieldName = %v", pattern["timeFieldName"])
	}

	for _, obj := range objects[1:6] {
		if !strings.HasPrefix(obj.ID, "visualization:viz-") {
			t.Errorf("visualization id = %q", obj.ID)
		}
		viz := obj.Source["visualization"].(map[string]any)
		var visState map[string]any
		if err := json.Unmarshal([]byte(viz["visState"].(string)), &visState); err != nil {
			t.Errorf("visState of %s not valid JSON: %v", obj.ID, err)
		}
	}

	dash := objects[6]
	if !strings.HasPrefix(dash.ID, "dashboard:ocsf-network-activity-dashboard-") {
		t.Errorf("dashboard id = %q", dash.ID)
	}
	board := dash.Source["dashboard"].(map[string]any)
	var panels []map[string]any
	if err := json.Unmarshal([]byte(board["panelsJSON"].(string)), &panels); err != nil {
		t.Fatalf("panelsJSON: %v", err)
	}
	if len(panels) != 5 {
		t.Errorf("panels = %d, want 5", len(panels))
	}

	// Every panel must reference one of the emitted visualizations.
	vizIDs := make(map[string]bool)
	for _, obj := range objects[1:6] {
		vizIDs[strings.TrimPrefix(obj.ID, "visualization:")] = true
	}
	for _, p := range panels {
		if !vizIDs[p["id"].(string)] {
			t.Errorf("panel references unknown visualization %v", p["id"])
		}
	}
}

func TestWriteNDJSON(t *testing.T) {
	objects := BuildDashboard("test-*")

	var buf bytes.Buffer
	if err := WriteNDJSON(&buf, objects); err != nil {
		t.Fatalf("WriteNDJSON: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(objects) {
		t.Fatalf("lines = %d, want %d", len(lines), len(objects))
	}
	for i, line := range lines {
		var obj map[string]any
		if err := json.Unmarshal([]byte(line), &obj); err != nil {
			t.Errorf("line %d not valid JSON: %v", i, err)
		}
	}
}
