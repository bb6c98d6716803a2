package opensearch

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// SavedObject is one OpenSearch Dashboards saved object in the NDJSON
// import format.
type SavedObject struct {
	ID     string         `json:"_id"`
	Type   string         `json:"_type"`
	Source map[string]any `json:"_source"`
}

// shortID returns an 8-hex-char suffix for saved object IDs.
func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// mustJSON renders v as a JSON string for the stringified sub-documents
// Dashboards expects (visState, searchSourceJSON, panelsJSON).
func mustJSON(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		// Only map/slice/string literals flow in here.
		panic(err)
	}
	return string(raw)
}

func searchSource(indexPattern string) map[string]any {
	return map[string]any{
		"searchSourceJSON": mustJSON(map[string]any{
			"index":  indexPattern,
			"filter": []any{},
			"query":  map[string]any{"query": "", "language": "lucene"},
		}),
	}
}

func termsAgg(field string, size int) []any {
	return []any{
		map[string]any{
			"id": "1", "enabled": true, "type": "count",
			"schema": "metric", "params": map[string]any{},
		},
		map[string]any{
			"id": "2", "enabled": true, "type": "terms", "schema": "segment",
			"params": map[string]any{
				"field": field, "size": size, "order": "desc", "orderBy": "1",
			},
		},
	}
}

func visualization(title, description, visState, indexPattern string) map[string]any {
	return map[string]any{
		"visualization": map[string]any{
			"title":                 title,
			"visState":              visState,
			"uiStateJSON":           "{}",
			"description":           description,
			"version":               1,
			"kibanaSavedObjectMeta": searchSource(indexPattern),
		},
		"type": "visualization",
	}
}

// BuildDashboard assembles the saved objects for a network activity
// dashboard over the given index pattern: the index pattern itself, a
// status code pie, a traffic-over-time line, a user agent histogram, a
// top source IPs table, an HTTP methods donut, and the dashboard panel
// layout tying them together.
func BuildDashboard(indexPattern string) []SavedObject {
	objects := []SavedObject{{
		ID:   "index-pattern:" + indexPattern,
		Type: "doc",
		Source: map[string]any{
			"index-pattern": map[string]any{
				"title":         indexPattern,
				"timeFieldName": "time_dt",
			},
			"type": "index-pattern",
		},
	}}

	statusID := "viz-http-status-" + shortID()
	objects = append(objects, SavedObject{
		ID:   "visualization:" + statusID,
		Type: "doc",
		Source: visualization(
			"HTTP Status Code Distribution",
			"Distribution of HTTP status codes",
			mustJSON(map[string]any{
				"title": "HTTP Status Code Distribution",
				"type":  "pie",
				"params": map[string]any{
					"type": "pie", "addTooltip": true, "addLegend": true,
					"legendPosition": "right",
				},
				"aggs": termsAgg("proxy_http_response.code", 10),
			}),
			indexPattern,
		),
	})

	agentsID := "viz-user-agents-" + shortID()
	objects = append(objects, SavedObject{
		ID:   "visualization:" + agentsID,
		Type: "doc",
		Source: visualization(
			"Top User Agents",
			"Top 10 user agents by request count",
			mustJSON(map[string]any{
				"title":  "Top User Agents",
				"type":   "histogram",
				"params": map[string]any{"type": "histogram"},
				"aggs":   termsAgg("src_endpoint.user_agent.keyword", 10),
			}),
			indexPattern,
		),
	})

	trafficID := "viz-traffic-time-" + shortID()
	objects = append(objects, SavedObject{
		ID:   "visualization:" + trafficID,
		Type: "doc",
		Source: visualization(
			"Traffic Over Time",
			"Network traffic over time",
			mustJSON(map[string]any{
				"title": "Traffic Over Time",
				"type":  "line",
				"params": map[string]any{
					"type": "line", "addTooltip": true, "addLegend": true,
					"legendPosition": "right",
				},
				"aggs": []any{
					map[string]any{
						"id": "1", "enabled": true, "type": "count",
						"schema": "metric", "params": map[string]any{},
					},
					map[string]any{
						"id": "2", "enabled": true, "type": "date_histogram",
						"schema": "segment",
						"params": map[string]any{
							"field": "time_dt", "interval": "auto",
							"min_doc_count": 1, "extended_bounds": map[string]any{},
						},
					},
				},
			}),
			indexPattern,
		),
	})

	ipsID := "viz-source-ips-" + shortID()
	objects = append(objects, SavedObject{
		ID:   "visualization:" + ipsID,
		Type: "doc",
		Source: visualization(
			"Top Source IPs",
			"Top 20 source IP addresses by request count",
			mustJSON(map[string]any{
				"title": "Top Source IPs",
				"type":  "table",
				"params": map[string]any{
					"perPage": 10, "showPartialRows": false, "showTotal": false,
					"totalFunc": "sum",
				},
				"aggs": termsAgg("src_endpoint.ip", 20),
			}),
			indexPattern,
		),
	})

	methodsID := "viz-http-methods-" + shortID()
	objects = append(objects, SavedObject{
		ID:   "visualization:" + methodsID,
		Type: "doc",
		Source: visualization(
			"HTTP Methods Distribution",
			"Distribution of HTTP methods",
			mustJSON(map[string]any{
				"title": "HTTP Methods Distribution",
				"type":  "pie",
				"params": map[string]any{
					"type": "pie", "addTooltip": true, "addLegend": true,
					"legendPosition": "right", "isDonut": true,
				},
				"aggs": termsAgg("proxy_http_request.http_method", 10),
			}),
			indexPattern,
		),
	})

	panel := func(index string, x, y, w, h int, id string) map[string]any {
		return map[string]any{
			"panelIndex": index,
			"gridData": map[string]any{
				"x": x, "y": y, "w": w, "h": h, "i": index,
			},
			"id":      id,
			"type":    "visualization",
			"version": "6.8.2",
		}
	}

	dashboardID := "ocsf-network-activity-dashboard-" + shortID()
	objects = append(objects, SavedObject{
		ID:   "dashboard:" + dashboardID,
		Type: "doc",
		Source: map[string]any{
			"dashboard": map[string]any{
				"title":       "OCSF Network Activity Dashboard",
				"hits":        0,
				"description": "Comprehensive view of network activity from Apache logs",
				"panelsJSON": mustJSON([]any{
					panel("1", 0, 0, 24, 8, trafficID),
					panel("2", 0, 8, 12, 10, statusID),
					panel("3", 12, 8, 12, 10, methodsID),
					panel("4", 0, 18, 24, 10, agentsID),
					panel("5", 0, 28, 24, 10, ipsID),
				}),
				"optionsJSON": mustJSON(map[string]any{
					"darkTheme": false, "hidePanelTitles": false, "useMargins": true,
				}),
				"version":     1,
				"timeRestore": false,
				"kibanaSavedObjectMeta": map[string]any{
					"searchSourceJSON": mustJSON(map[string]any{
						"query":  map[string]any{"language": "lucene", "query": ""},
						"filter": []any{},
					}),
				},
			},
			"type": "dashboard",
		},
	})

	return objects
}

// WriteNDJSON writes saved objects one JSON document per line, the
// format the Dashboards saved-objects import API accepts.
func WriteNDJSON(w io.Writer, objects []SavedObject) error {
	enc := json.NewEncoder(w)
	for _, obj := range objects {
		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("encode saved object %s: %w", obj.ID, err)
		}
	}
	return nil
}
