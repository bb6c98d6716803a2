// Package apache parses Apache Combined Log Format access logs and maps
// each line to an OCSF Network Activity event.
package apache

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// combinedLog matches the Apache Combined Log Format. The ident and userid
// columns are matched but not captured.
var combinedLog = regexp.MustCompile(
	`^(?P<ip>\S+)\s+` +
		`\S+\s+\S+\s+` +
		`\[(?P<timestamp>[^\]]+)\]\s+` +
		`"(?P<request>[^"]*)"\s+` +
		`(?P<status>\d{3})\s+` +
		`(?P<bytes>\S+)\s+` +
		`"(?P<referrer>[^"]*)"\s+` +
		`"(?P<useragent>[^"]*)"`,
)

var ipPattern = regexp.MustCompile(`^[\d\.]+$`)

// apacheTimeLayout is the CLF timestamp format, e.g. "17/May/2015:10:05:03 +0000".
const apacheTimeLayout = "02/Jan/2006:15:04:05 -0700"

// Entry is one parsed and sanitized access log line.
type Entry struct {
	IP        string
	Time      time.Time
	Method    string
	URL       string
	Version   string
	Status    int
	Bytes     int
	Referrer  string
	UserAgent string

	// Raw is the original log line, kept for diagnostics.
	Raw string
}

// ParseLine parses one Combined Log Format line. Lines that do not match
// the format at all are an error; recognizable lines with hostile or
// malformed field values are sanitized instead of rejected.
func ParseLine(line string) (*Entry, error) {
	m := combinedLog.FindStringSubmatch(line)
	if m == nil {
		return nil, fmt.Errorf("line does not match combined log format")
	}

	fields := make(map[string]string, len(m))
	for i, name := range combinedLog.SubexpNames() {
		if name != "" {
			fields[name] = m[i]
		}
	}
	sanitize(fields)

	ts, err := time.Parse(apacheTimeLayout, fields["timestamp"])
	if err != nil {
		// Unparseable timestamps fall back to now so the event is not lost.
		ts = time.Now().UTC()
	}

	method, url, version := splitRequest(fields["request"])

	status, _ := strconv.Atoi(fields["status"])
	size := 0
	if b := fields["bytes"]; b != "-" {
		size, _ = strconv.Atoi(b)
	}

	return &Entry{
		IP:        fields["ip"],
		Time:      ts,
		Method:    method,
		URL:       url,
		Version:   version,
		Status:    status,
		Bytes:     size,
		Referrer:  fields["referrer"],
		UserAgent: fields["useragent"],
		Raw:       line,
	}, nil
}

// sanitize rewrites field values that look malformed or injected rather
// than dropping the whole line.
func sanitize(fields map[string]string) {
	if !ipPattern.MatchString(fields["ip"]) {
		fields["ip"] = "0.0.0.0"
	}
	if req := fields["request"]; strings.ContainsAny(req, ";|>") {
		fields["request"] = "INVALID_REQUEST"
	}
	if _, err := strconv.Atoi(fields["status"]); err != nil {
		fields["status"] = "0"
	}
	if b := fields["bytes"]; b != "-" {
		if _, err := strconv.Atoi(b); err != nil {
			fields["bytes"] = "0"
		}
	}
}

// splitRequest breaks a request line into method, URL, and HTTP version.
// Anything that is not exactly three tokens yields empty strings.
func splitRequest(request string) (method, url, version string) {
	parts := strings.Fields(request)
	if len(parts) != 3 {
		return "", "", ""
	}
	return parts[0], parts[1], parts[2]
}
