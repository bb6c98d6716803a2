package apache

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	ua "github.com/mileusna/useragent"

	"github.com/mranv/ocsf-opensearch/internal/ocsf"
)

type connectionInfo struct {
	Direction    string `json:"direction"`
	DirectionID  int    `json:"direction_id"`
	ProtocolName string `json:"protocol_name"`
	ProtocolVer  string `json:"protocol_ver,omitempty"`
	UID          string `json:"uid"`
}

type proxyHTTPRequest struct {
	HTTPMethod string   `json:"http_method"`
	Referrer   string   `json:"referrer,omitempty"`
	UserAgent  string   `json:"user_agent,omitempty"`
	URL        ocsf.URL `json:"url"`
}

type proxyHTTPResponse struct {
	Code   int    `json:"code"`
	Length int    `json:"length"`
	Status string `json:"status"`
}

type trafficStats struct {
	BytesIn  int `json:"bytes_in"`
	BytesOut int `json:"bytes_out"`
}

// Event is the OCSF Network Activity (4001) document built from one
// access log entry.
type Event struct {
	ocsf.BaseEvent

	ConnectionInfo connectionInfo    `json:"connection_info"`
	SrcEndpoint    ocsf.Endpoint     `json:"src_endpoint"`
	DstEndpoint    ocsf.Endpoint     `json:"dst_endpoint"`
	URL            ocsf.URL          `json:"url"`
	Request        proxyHTTPRequest  `json:"proxy_http_request"`
	Response       proxyHTTPResponse `json:"proxy_http_response"`
	Traffic        trafficStats      `json:"traffic"`
	UserAgent      *ocsf.UserAgent   `json:"user_agent,omitempty"`
}

// MapEvent converts a parsed log entry to an OCSF Network Activity event
// and the dated index it belongs in. The index date comes from the event
// timestamp, not the ingestion time, so replayed history lands in the
// right indices.
func MapEvent(e *Entry) (*Event, string) {
	status, statusID := "Failure", 2
	if e.Status >= 200 && e.Status < 400 {
		status, statusID = "Success", 1
	}

	severity, severityID := "Informational", 1
	switch {
	case e.Status >= 500:
		severity, severityID = "Error", 3
	case e.Status >= 400:
		severity, severityID = "Warning", 2
	}

	ev := &Event{
		BaseEvent: ocsf.BaseEvent{
			ClassUID:     ocsf.NetworkActivity.UID,
			ClassName:    ocsf.NetworkActivity.Name,
			CategoryUID:  4,
			CategoryName: "Network Activity",
			ActivityID:   1,
			ActivityName: "HTTP Request",
			TypeUID:      400101,
			TypeName:     "HTTP Request",
			Time:         ocsf.Timestamp(e.Time),
			TimeDT:       ocsf.TimestampDT(e.Time),
			Status:       status,
			StatusID:     statusID,
			Severity:     severity,
			SeverityID:   severityID,
			Metadata: ocsf.Metadata{
				Version: ocsf.SchemaVersion,
				UID:     uuid.NewString(),
			},
		},
		ConnectionInfo: connectionInfo{
			Direction:    "Inbound",
			DirectionID:  1,
			ProtocolName: "HTTP",
			ProtocolVer:  e.Version,
			UID:          uuid.NewString(),
		},
		SrcEndpoint: ocsf.Endpoint{
			IP:        e.IP,
			UserAgent: e.UserAgent,
		},
		DstEndpoint: ocsf.Endpoint{
			Port: 80,
		},
		URL: decomposeURL(e.URL),
		Request: proxyHTTPRequest{
			HTTPMethod: e.Method,
			Referrer:   e.Referrer,
			UserAgent:  e.UserAgent,
		},
		Response: proxyHTTPResponse{
			Code:   e.Status,
			Length: e.Bytes,
			Status: status,
		},
		Traffic: trafficStats{
			BytesIn:  0, // not recorded in access logs
			BytesOut: e.Bytes,
		},
	}
	ev.Request.URL = ev.URL

	if e.UserAgent != "" && e.UserAgent != "-" {
		parsed := ua.Parse(e.UserAgent)
		ev.UserAgent = &ocsf.UserAgent{
			Original: e.UserAgent,
			Browser:  &ocsf.UAVersionedSub{Name: parsed.Name, Version: parsed.Version},
			OS:       &ocsf.UAVersionedSub{Name: parsed.OS, Version: parsed.OSVersion},
		}
		if parsed.Device != "" {
			ev.UserAgent.Device = &ocsf.UADevice{Name: parsed.Device}
		}
	}

	return ev, ocsf.NetworkActivity.Index(e.Time)
}

// decomposeURL splits a request URL into the OCSF url object. Relative
// request paths (the common case in access logs) get the http scheme and
// no hostname.
func decomposeURL(raw string) ocsf.URL {
	if raw == "" {
		return ocsf.URL{}
	}

	u := ocsf.URL{Scheme: "http"}
	rest := raw
	if i := strings.Index(raw, "://"); i >= 0 {
		u.Scheme = raw[:i]
		rest = raw[i+3:]
	} else if strings.HasPrefix(raw, "/") {
		// Path-only request line.
		u.Path = raw
		if q := strings.IndexByte(u.Path, '?'); q >= 0 {
			u.QueryString = u.Path[q+1:]
			u.Path = u.Path[:q]
		}
		return u
	}

	host, path := rest, "/"
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		host, path = rest[:i], rest[i:]
	}
	if q := strings.IndexByte(path, '?'); q >= 0 {
		u.QueryString = path[q+1:]
		path = path[:q]
	}
	if i := strings.IndexByte(host, ':'); i >= 0 {
		if port, err := strconv.Atoi(host[i+1:]); err == nil {
			u.Port = port
		}
		host = host[:i]
	}
	u.Hostname = host
	u.Path = path
	return u
}
