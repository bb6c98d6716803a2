package opensearch

import (
	"testing"
)

func TestNormalizeTimestampRepair(t *testing.T) {
	doc := map[string]any{
		"@timestamp":        "2023-07-21T16:52:08.000Z",
		"observedTimestamp": "2023-07-21:16:52:08",
	}
	out := Normalize(doc)
	if got := out["observedTimestamp"]; got != "2023-07-21T16:52:08" {
		t.Errorf("observedTimestamp = %q", got)
	}
}

func TestNormalizeTimestampLeavesShortValues(t *testing.T) {
	doc := map[string]any{
		"@timestamp":        "2023-07-21T16:52:08.000Z",
		"observedTimestamp": "12:30",
	}
	out := Normalize(doc)
	if got := out["observedTimestamp"]; got != "12:30" {
		t.Errorf("observedTimestamp = %q, want untouched", got)
	}
}

func TestNormalizeSeverityFlatten(t *testing.T) {
	doc := map[string]any{
		"@timestamp": "2023-07-21T16:52:08.000Z",
		"severity":   map[string]any{"text": "error", "number": 17},
	}
	out := Normalize(doc)
	if got := out["severity"]; got != "error" {
		t.Errorf("severity = %v", got)
	}
}

func TestNormalizePassthrough(t *testing.T) {
	doc := map[string]any{
		"@timestamp": "2023-07-21T16:52:08.000Z",
		"event":      map[string]any{"category": "web"},
	}
	out := Normalize(doc)
	if _, ok := out["metadata"]; ok {
		t.Error("already-shaped document gained metadata")
	}
	if _, ok := out["traceId"]; ok {
		t.Error("already-shaped document gained traceId")
	}
}

func TestNormalizeScaffolding(t *testing.T) {
	out := Normalize(map[string]any{"message": "raw line"})

	if _, ok := out["@timestamp"]; !ok {
		t.Error("no @timestamp")
	}
	md, ok := out["metadata"].(map[string]any)
	if !ok {
		t.Fatal("no metadata")
	}
	product := md["product"].(map[string]any)
	if product["name"] != "Custom Logger" || product["vendor_name"] != "LocalSystem" {
		t.Errorf("product = %v", product)
	}
	event := out["event"].(map[string]any)
	if event["category"] != "logs" || event["type"] != "raw" {
		t.Errorf("event = %v", event)
	}
	if out["traceId"] == "" {
		t.Error("no traceId")
	}
	if out["message"] != "raw line" {
		t.Error("original fields lost")
	}
}

func TestRouteIndex(t *testing.T) {
	cases := []struct {
		name string
		doc  map[string]any
		want string
	}{
		{
			"default",
			map[string]any{},
			"ocsf-1.1.0-4002-http_activity",
		},
		{
			"web access",
			map[string]any{"event": map[string]any{"category": "web", "type": "access"}},
			"ocsf-1.1.0-4002-http_activity",
		},
		{
			"authentication",
			map[string]any{"event": map[string]any{"category": "authentication"}},
			"ocsf-1.1.0-3002-authentication",
		},
		{
			"network",
			map[string]any{"event": map[string]any{"category": "network"}},
			"ocsf-1.1.0-4001-network_activity",
		},
		{
			"connection",
			map[string]any{"event": map[string]any{"category": "connection"}},
			"ocsf-1.1.0-4001-network_activity",
		},
		{
			"security error",
			map[string]any{
				"event":   map[string]any{"type": "error"},
				"message": "security alert triggered",
			},
			"ocsf-1.1.0-2004-detection_finding",
		},
		{
			"plain error",
			map[string]any{"event": map[string]any{"type": "error"}},
			"ocsf-1.1.0-4002-http_activity",
		},
		{
			"api category",
			map[string]any{"event": map[string]any{"category": "api"}},
			"ocsf-1.1.0-6003-api_activity",
		},
		{
			"dns marker wins",
			map[string]any{
				"event":   map[string]any{"category": "network"},
				"message": "DNS query for example.com",
			},
			"ocsf-1.1.0-4003-dns_activity",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RouteIndex(tc.doc); got != tc.want {
				t.Errorf("RouteIndex = %q, want %q", got, tc.want)
			}
		})
	}
}
