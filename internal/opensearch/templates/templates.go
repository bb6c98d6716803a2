// Package templates holds the index template bodies, shared component
// templates, and the ISM lifecycle policy installed by cluster
// provisioning.
package templates

import (
	"github.com/mranv/ocsf-opensearch/internal/ocsf"
)

// PolicyID is the name of the installed ISM policy.
const PolicyID = "rollover-expiration-policy"

// ISMPolicy returns the lifecycle policy: daily (or 40gb) rollover, then
// deletion once an index is 15 days old. Applies to all ocsf-* indices.
func ISMPolicy() map[string]any {
	retry := map[string]any{
		"count":   3,
		"backoff": "exponential",
		"delay":   "1h",
	}
	return map[string]any{
		"policy": map[string]any{
			"policy_id":     PolicyID,
			"description":   "Rolls the index over daily or at 40gb and expires indices older than 15 days",
			"default_state": "rollover",
			"states": []any{
				map[string]any{
					"name": "rollover",
					"actions": []any{
						map[string]any{
							"retry": retry,
							"rollover": map[string]any{
								"min_size":      "40gb",
								"min_index_age": "1d",
								"copy_alias":    false,
							},
						},
					},
					"transitions": []any{
						map[string]any{"state_name": "hot"},
					},
				},
				map[string]any{
					"name":    "hot",
					"actions": []any{},
					"transitions": []any{
						map[string]any{
							"state_name": "delete",
							"conditions": map[string]any{"min_index_age": "15d"},
						},
					},
				},
				map[string]any{
					"name": "delete",
					"actions": []any{
						map[string]any{
							"timeout": "5h",
							"retry":   retry,
							"delete":  map[string]any{},
						},
					},
					"transitions": []any{},
				},
			},
			"ism_template": []any{
				map[string]any{
					"index_patterns": []any{"ocsf-*"},
					"priority":       9,
				},
			},
		},
	}
}

// Component template names shared across the per-class index templates.
const (
	ActorTemplateName   = "ocsf_1_1_0_actor"
	AnswersTemplateName = "ocsf_1_1_0_answers"
)

// Actor returns the shared actor component template.
func Actor() map[string]any {
	return map[string]any{
		"template": map[string]any{
			"mappings": map[string]any{
				"properties": map[string]any{
					"actor": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"user":    map[string]any{"type": "object"},
							"process": map[string]any{"type": "object"},
							"session": map[string]any{"type": "object"},
						},
					},
				},
			},
		},
	}
}

// Answers returns the shared DNS answers component template.
func Answers() map[string]any {
	return map[string]any{
		"template": map[string]any{
			"mappings": map[string]any{
				"properties": map[string]any{
					"answers": map[string]any{
						"type": "nested",
						"properties": map[string]any{
							"data": map[string]any{"type": "keyword"},
							"type": map[string]any{"type": "keyword"},
						},
					},
				},
			},
		},
	}
}

// Index returns the index template body for one event class: the family
// pattern, the common field mappings, and the rollover alias wiring.
func Index(c ocsf.Class) map[string]any {
	composedOf := []any{ActorTemplateName}
	if c == ocsf.DNSActivity {
		composedOf = append(composedOf, AnswersTemplateName)
	}

	return map[string]any{
		"index_patterns": []any{c.Pattern()},
		"priority":       200,
		"composed_of":    composedOf,
		"template": map[string]any{
			"settings": map[string]any{
				"index": map[string]any{
					"number_of_shards":   1,
					"number_of_replicas": 1,
					"plugins": map[string]any{
						"index_state_management": map[string]any{
							"rollover_alias": c.IndexBase(),
						},
					},
				},
			},
			"mappings": map[string]any{
				"properties": commonMappings(),
			},
		},
	}
}

// commonMappings covers the base OCSF fields every class emits. Class
// specific sub-objects stay dynamically mapped.
func commonMappings() map[string]any {
	keyword := map[string]any{"type": "keyword"}
	integer := map[string]any{"type": "integer"}

	return map[string]any{
		"class_uid":     integer,
		"class_name":    keyword,
		"category_uid":  integer,
		"category_name": keyword,
		"activity_id":   integer,
		"activity_name": keyword,
		"type_uid":      integer,
		"type_name":     keyword,
		"time":          map[string]any{"type": "date", "format": "epoch_millis"},
		"time_dt":       map[string]any{"type": "date"},
		"status":        keyword,
		"status_id":     integer,
		"severity":      keyword,
		"severity_id":   integer,
		"message":       map[string]any{"type": "text"},
		"metadata": map[string]any{
			"properties": map[string]any{
				"version": keyword,
				"uid":     keyword,
				"product": map[string]any{
					"properties": map[string]any{
						"name":        keyword,
						"vendor_name": keyword,
						"version":     keyword,
					},
				},
			},
		},
		"src_endpoint": endpointMapping(),
		"dst_endpoint": endpointMapping(),
	}
}

func endpointMapping() map[string]any {
	keyword := map[string]any{"type": "keyword"}
	return map[string]any{
		"properties": map[string]any{
			"ip":       map[string]any{"type": "ip"},
			"port":     map[string]any{"type": "integer"},
			"hostname": keyword,
			"geo": map[string]any{
				"properties": map[string]any{
					"country":      keyword,
					"country_code": keyword,
					"city":         keyword,
					"location":     map[string]any{"type": "geo_point"},
				},
			},
		},
	}
}
