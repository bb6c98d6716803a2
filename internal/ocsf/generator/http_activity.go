package generator

import (
	"fmt"
	"math/rand/v2"
	"strings"

	ua "github.com/mileusna/useragent"

	"github.com/mranv/ocsf-opensearch/internal/ocsf"
)

type httpStatus struct {
	code    int
	status  string
	message string
}

// HTTPActivity generates OCSF HTTP Activity (4002) events.
type HTTPActivity struct {
	pools *AttributePools

	methods      []string
	statuses     []httpStatus
	paths        []string
	userAgents   []string
	contentTypes []string
	protocols    []string
}

// NewHTTPActivity creates an HTTP Activity generator.
func NewHTTPActivity(pools *AttributePools) *HTTPActivity {
	return &HTTPActivity{
		pools:   pools,
		methods: []string{"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS", "PATCH"},
		statuses: []httpStatus{
			{200, "Success", "OK"},
			{201, "Success", "Created"},
			{301, "Redirect", "Moved Permanently"},
			{302, "Redirect", "Found"},
			{400, "Client Error", "Bad Request"},
			{401, "Client Error", "Unauthorized"},
			{403, "Client Error", "Forbidden"},
			{404, "Client Error", "Not Found"},
			{500, "Server Error", "Internal Server Error"},
			{503, "Server Error", "Service Unavailable"},
		},
		paths: []string{
			"/api/v1/users", "/login", "/assets/images", "/products",
			"/cart", "/checkout", "/admin", "/docs", "/health",
		},
		userAgents: []string{
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			"Mozilla/5.0 (iPhone; CPU iPhone OS 14_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.1.1 Mobile/15E148 Safari/604.1",
			"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.1.1 Safari/605.1.15",
			"curl/7.64.1",
			"PostmanRuntime/7.28.0",
			"python-requests/2.26.0",
		},
		contentTypes: []string{
			"application/json", "text/html", "application/xml",
			"text/plain", "application/x-www-form-urlencoded",
		},
		protocols: []string{"HTTP/1.1", "HTTP/2.0"},
	}
}

func (g *HTTPActivity) Class() ocsf.Class { return ocsf.HTTPActivity }

type httpRequest struct {
	Method      string            `json:"method"`
	URL         ocsf.URL          `json:"url"`
	Headers     map[string]string `json:"headers"`
	Version     string            `json:"version"`
	Bytes       int               `json:"bytes"`
	ContentType string            `json:"content_type,omitempty"`
}

type httpResponse struct {
	StatusCode int               `json:"status_code"`
	Message    string            `json:"message"`
	Headers    map[string]string `json:"headers"`
	Bytes      int               `json:"bytes"`
}

type httpError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
}

type httpActivityEvent struct {
	ocsf.BaseEvent

	SrcEndpoint ocsf.Endpoint  `json:"src_endpoint"`
	DstEndpoint ocsf.Endpoint  `json:"dst_endpoint"`
	Request     httpRequest    `json:"http_request"`
	Response    httpResponse   `json:"http_response"`
	UserAgent   ocsf.UserAgent `json:"user_agent"`
	Error       *httpError     `json:"error,omitempty"`
}

func (g *HTTPActivity) Generate(rng *rand.Rand) any {
	ts := g.pools.pastTime(rng)
	method := pick(rng, g.methods)
	st := pick(rng, g.statuses)
	path := pick(rng, g.paths)
	agent := pick(rng, g.userAgents)
	parsed := ua.Parse(agent)

	statusID, severity, severityID := 1, "Info", 1
	switch {
	case st.code >= 500:
		statusID, severity, severityID = 3, "High", 4
	case st.code >= 400:
		statusID, severity, severityID = 2, "Medium", 3
	}

	deviceType := "Desktop"
	if parsed.Mobile || parsed.Tablet {
		deviceType = "Mobile"
	}

	query := ""
	if strings.Contains(path, "api") {
		query = "page=1&limit=10"
	}

	reqBytes := 0
	if method == "POST" || method == "PUT" || method == "PATCH" {
		reqBytes = 100 + rng.IntN(901)
	}

	ev := &httpActivityEvent{
		BaseEvent: ocsf.BaseEvent{
			ClassUID:     ocsf.HTTPActivity.UID,
			ClassName:    ocsf.HTTPActivity.Name,
			Time:         ocsf.Timestamp(ts),
			ActivityID:   1, // HTTP Request
			ActivityName: "HTTP_REQUEST",
			Status:       st.status,
			StatusID:     statusID,
			Severity:     severity,
			SeverityID:   severityID,
			Metadata:     ocsf.NewMetadata("Web Server", ocsf.Timestamp(ts)),
		},
		SrcEndpoint: ocsf.Endpoint{
			IP:   randIPv4(rng),
			Port: 10000 + rng.IntN(55536),
			Geo: &ocsf.Geo{
				Country:     "United States",
				CountryCode: "US",
				City:        "New York",
				Location:    &ocsf.Location{Lat: 40.7128, Lon: -74.0060},
			},
		},
		DstEndpoint: ocsf.Endpoint{
			IP:       randIPv4(rng),
			Port:     443,
			Hostname: "api.example.com",
		},
		Request: httpRequest{
			Method: method,
			URL: ocsf.URL{
				Path:  path,
				Full:  "https://api.example.com" + path,
				Query: query,
			},
			Headers: map[string]string{
				"user-agent":   agent,
				"content-type": pick(rng, g.contentTypes),
				"accept":       "*/*",
			},
			Version: pick(rng, g.protocols),
			Bytes:   reqBytes,
		},
		Response: httpResponse{
			StatusCode: st.code,
			Message:    st.message,
			Headers: map[string]string{
				"content-type": pick(rng, g.contentTypes),
				"server":       "nginx/1.19.0",
			},
			Bytes: 100 + rng.IntN(9901),
		},
		UserAgent: ocsf.UserAgent{
			Original: agent,
			Device:   &ocsf.UADevice{Name: parsed.Device, Type: deviceType},
			Browser:  &ocsf.UAVersionedSub{Name: parsed.Name, Version: parsed.Version},
			OS:       &ocsf.UAVersionedSub{Name: parsed.OS, Version: parsed.OSVersion},
		},
	}

	if reqBytes > 0 {
		ev.Request.ContentType = pick(rng, g.contentTypes)
	}
	if st.code >= 400 {
		ev.Error = &httpError{
			Code:    fmt.Sprintf("%d", st.code),
			Message: st.message,
			Details: fmt.Sprintf("Failed to %s %s", method, path),
		}
	}

	return ev
}
