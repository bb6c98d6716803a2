package opensearch

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mranv/ocsf-opensearch/internal/ocsf"
)

// Normalize fixes up a loosely structured sample document in place and
// returns it: timestamp format repair, severity flattening, and default
// OCSF scaffolding for documents that lack it.
func Normalize(doc map[string]any) map[string]any {
	// Timestamps like "2023-07-21:16:52:08" get the first colon replaced
	// with a T to become ISO format. Values with fewer than two colons are
	// not date-time shaped and stay as they are.
	if ts, ok := doc["observedTimestamp"].(string); ok {
		if strings.Count(ts, ":") >= 2 && !strings.Contains(ts, "T") {
			doc["observedTimestamp"] = strings.Replace(ts, ":", "T", 1)
		}
	}

	// Severity occasionally arrives as {"text": "..."}.
	if sev, ok := doc["severity"].(map[string]any); ok {
		if text, ok := sev["text"]; ok {
			doc["severity"] = text
		}
	}

	// Already OCSF-shaped; leave it alone.
	if _, ok := doc["@timestamp"]; ok {
		return doc
	}

	now := time.Now().Format(time.RFC3339Nano)
	base := map[string]any{
		"@timestamp":        now,
		"observedTimestamp": now,
		"metadata": map[string]any{
			"product": map[string]any{
				"name":        "Custom Logger",
				"vendor_name": "LocalSystem",
			},
			"version":  "1.0.0",
			"profiles": []any{"ocsf"},
		},
	}
	for k, v := range doc {
		base[k] = v
	}

	if _, ok := base["event"]; !ok {
		base["event"] = map[string]any{"category": "logs", "type": "raw"}
	}
	if _, ok := base["traceId"]; !ok {
		base["traceId"] = uuid.NewString()
	}
	return base
}

// RouteIndex inspects a document and picks the index family it belongs
// to. Defaults to the HTTP activity index.
func RouteIndex(doc map[string]any) string {
	index := ocsf.HTTPActivity.IndexBase()

	lowered := loweredJSON(doc)

	if event, ok := doc["event"].(map[string]any); ok {
		category, _ := event["category"].(string)
		typeValue, _ := event["type"].(string)

		switch {
		case category == "web" && typeValue == "access":
			index = ocsf.HTTPActivity.IndexBase()
		case category == "authentication":
			index = ocsf.Authentication.IndexBase()
		case category == "network" || category == "connection":
			index = ocsf.NetworkActivity.IndexBase()
		case typeValue == "error" || category == "error":
			if strings.Contains(lowered, "security") {
				index = ocsf.DetectionFinding.IndexBase()
			} else {
				index = ocsf.HTTPActivity.IndexBase()
			}
		case category == "api" || strings.Contains(lowered, "api"):
			index = ocsf.APIActivity.IndexBase()
		}
	}

	// DNS markers anywhere in the document win.
	if strings.Contains(lowered, "dns") {
		index = ocsf.DNSActivity.IndexBase()
	}

	return index
}

// loweredJSON renders the document as lowercase JSON for substring
// content inspection.
func loweredJSON(doc map[string]any) string {
	raw, err := json.Marshal(doc)
	if err != nil {
		return ""
	}
	return strings.ToLower(string(raw))
}
