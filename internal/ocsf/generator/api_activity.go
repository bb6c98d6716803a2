package generator

import (
	"fmt"
	"math/rand/v2"

	"github.com/mranv/ocsf-opensearch/internal/ocsf"
)

type apiStatus struct {
	code    int
	status  string
	message string
}

type apiService struct {
	name    string
	version string
}

// APIActivity generates OCSF API Activity (6003) events.
type APIActivity struct {
	pools *AttributePools

	endpoints []string
	methods   []string
	statuses  []apiStatus
	users     []string
	services  []apiService
}

// NewAPIActivity creates an API Activity generator.
func NewAPIActivity(pools *AttributePools) *APIActivity {
	return &APIActivity{
		pools: pools,
		endpoints: []string{
			"/api/v1/users", "/api/v1/resources", "/api/v2/data",
			"/api/v1/auth", "/api/v1/config", "/api/v2/metrics",
			"/api/v1/events", "/api/v2/analytics",
		},
		methods: []string{"GET", "POST", "PUT", "DELETE", "PATCH"},
		statuses: []apiStatus{
			{200, "Success", "OK"},
			{201, "Success", "Created"},
			{400, "Failure", "Bad Request"},
			{401, "Failure", "Unauthorized"},
			{403, "Failure", "Forbidden"},
			{404, "Failure", "Not Found"},
			{500, "Error", "Internal Server Error"},
		},
		users: []string{
			"api_user", "service_account", "admin",
			"system", "app_client", "integration_user",
		},
		services: []apiService{
			{"UserManagement", "2.1.0"},
			{"ResourceService", "1.5.2"},
			{"AuthService", "3.0.1"},
			{"DataProcessor", "2.2.0"},
			{"ConfigManager", "1.1.0"},
			{"AnalyticsEngine", "2.0.0"},
		},
	}
}

func (g *APIActivity) Class() ocsf.Class { return ocsf.APIActivity }

type apiRequest struct {
	Method   string            `json:"method"`
	Path     string            `json:"path"`
	Version  string            `json:"version"`
	Headers  map[string]string `json:"headers"`
	BodySize int               `json:"body_size,omitempty"`
}

type apiResponse struct {
	StatusCode int               `json:"status_code"`
	Message    string            `json:"message"`
	Headers    map[string]string `json:"headers"`
}

type apiServiceDetail struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type apiDetail struct {
	Request  apiRequest       `json:"request"`
	Response apiResponse      `json:"response"`
	Service  apiServiceDetail `json:"service"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
}

type apiActivityEvent struct {
	ocsf.BaseEvent

	API         apiDetail      `json:"api"`
	Actor       ocsf.Actor     `json:"actor"`
	SrcEndpoint ocsf.Endpoint  `json:"src_endpoint"`
	DstEndpoint ocsf.Endpoint  `json:"dst_endpoint"`
	Error       *apiError      `json:"error,omitempty"`
	Unmapped    map[string]any `json:"unmapped"`
}

func (g *APIActivity) Generate(rng *rand.Rand) any {
	ts := g.pools.pastTime(rng)
	method := pick(rng, g.methods)
	endpoint := pick(rng, g.endpoints)
	st := pick(rng, g.statuses)
	svc := pick(rng, g.services)

	severity, severityID := "Info", 1
	statusID := 1
	switch st.status {
	case "Failure":
		severity, severityID = "High", 4
		statusID = 2
	case "Error":
		severity, severityID = "High", 4
		statusID = 3
	}

	ev := &apiActivityEvent{
		BaseEvent: ocsf.BaseEvent{
			ClassUID:     ocsf.APIActivity.UID,
			ClassName:    ocsf.APIActivity.Name,
			Time:         ocsf.Timestamp(ts),
			ActivityID:   1,
			ActivityName: method,
			Status:       st.status,
			StatusID:     statusID,
			Severity:     severity,
			SeverityID:   severityID,
			Metadata:     ocsf.NewMetadata("API Gateway", ocsf.Timestamp(ts)),
		},
		API: apiDetail{
			Request: apiRequest{
				Method:  method,
				Path:    endpoint,
				Version: "1.1",
				Headers: map[string]string{
					"Authorization": "Bearer " + newUID(rng),
					"Content-Type":  "application/json",
					"X-Request-ID":  newUID(rng),
				},
			},
			Response: apiResponse{
				StatusCode: st.code,
				Message:    st.message,
				Headers: map[string]string{
					"Content-Type":    "application/json",
					"X-Response-Time": fmt.Sprintf("%dms", 1+rng.IntN(500)),
				},
			},
			Service: apiServiceDetail{
				Name:    svc.name,
				Version: svc.version,
			},
		},
		Actor: ocsf.Actor{
			User: &ocsf.User{
				Name: pick(rng, g.users),
				UID:  newUID(rng),
				Type: "Service Account",
			},
		},
		SrcEndpoint: ocsf.Endpoint{
			IP:       randIPv4(rng),
			Hostname: pick(rng, g.pools.Hostnames),
		},
		DstEndpoint: ocsf.Endpoint{
			IP:       randInternalIP(rng),
			Hostname: fmt.Sprintf("api-server-%d", 1+rng.IntN(10)),
			Port:     443,
		},
		Unmapped: map[string]any{
			"latency":    1 + rng.IntN(500),
			"client_id":  newUID(rng),
			"api_key_id": fmt.Sprintf("key-%d", 1000+rng.IntN(9000)),
		},
	}

	switch method {
	case "POST", "PUT", "PATCH":
		ev.API.Request.BodySize = 100 + rng.IntN(9901)
	}

	if st.status != "Success" {
		ev.Error = &apiError{
			Code:    fmt.Sprintf("ERR_%d", st.code),
			Message: st.message,
			Details: fmt.Sprintf("Request to %s failed with status %d", endpoint, st.code),
		}
	}

	return ev
}
