package apache

import (
	"strings"
	"testing"
	"time"
)

const sampleLine = `83.149.9.216 - - [17/May/2015:10:05:03 +0000] "GET /presentations/logstash-monitorama-2013/images/kibana-search.png HTTP/1.1" 200 203023 "http://semicomplete.com/presentations/logstash-monitorama-2013/" "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_9_1) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/32.0.1700.77 Safari/537.36"`

func TestParseLine(t *testing.T) {
	e, err := ParseLine(sampleLine)
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}

	if e.IP != "83.149.9.216" {
		t.Errorf("IP = %q", e.IP)
	}
	if e.Method != "GET" {
		t.Errorf("Method = %q", e.Method)
	}
	if e.URL != "/presentations/logstash-monitorama-2013/images/kibana-search.png" {
		t.Errorf("URL = %q", e.URL)
	}
	if e.Version != "HTTP/1.1" {
		t.Errorf("Version = %q", e.Version)
	}
	if e.Status != 200 {
		t.Errorf("Status = %d", e.Status)
	}
	if e.Bytes != 203023 {
		t.Errorf("Bytes = %d", e.Bytes)
	}
	if !strings.Contains(e.Referrer, "semicomplete.com") {
		t.Errorf("Referrer = %q", e.Referrer)
	}
	if !strings.HasPrefix(e.UserAgent, "Mozilla/5.0") {
		t.Errorf("UserAgent = %q", e.UserAgent)
	}

	want := time.Date(2015, time.May, 17, 10, 5, 3, 0, time.UTC)
	if !e.Time.Equal(want) {
		t.Errorf("Time = %v, want %v", e.Time, want)
	}
}

func TestParseLineMalformed(t *testing.T) {
	for _, line := range []string{
		"",
		"not a log line",
		`83.149.9.216 - - [17/May/2015:10:05:03 +0000] "GET / HTTP/1.1" 200`,
	} {
		if _, err := ParseLine(line); err == nil {
			t.Errorf("ParseLine(%q): expected error", line)
		}
	}
}

func TestParseLineSanitization(t *testing.T) {
	t.Run("invalid ip", func(t *testing.T) {
		line := `evil-host - - [17/May/2015:10:05:03 +0000] "GET / HTTP/1.1" 200 512 "-" "curl/7.64.1"`
		e, err := ParseLine(line)
		if err != nil {
			t.Fatalf("ParseLine: %v", err)
		}
		if e.IP != "0.0.0.0" {
			t.Errorf("IP = %q, want 0.0.0.0", e.IP)
		}
	})

	t.Run("injected request", func(t *testing.T) {
		line := `10.0.0.1 - - [17/May/2015:10:05:03 +0000] "GET /x;rm -rf / HTTP/1.1" 200 512 "-" "curl/7.64.1"`
		e, err := ParseLine(line)
		if err != nil {
			t.Fatalf("ParseLine: %v", err)
		}
		// The whole request line is replaced, so method/URL/version split fails.
		if e.Method != "" || e.URL != "" {
			t.Errorf("request not sanitized: method=%q url=%q", e.Method, e.URL)
		}
	})

	t.Run("dash bytes", func(t *testing.T) {
		line := `10.0.0.1 - - [17/May/2015:10:05:03 +0000] "HEAD / HTTP/1.1" 304 - "-" "curl/7.64.1"`
		e, err := ParseLine(line)
		if err != nil {
			t.Fatalf("ParseLine: %v", err)
		}
		if e.Bytes != 0 {
			t.Errorf("Bytes = %d, want 0", e.Bytes)
		}
	})
}

func TestMapEvent(t *testing.T) {
	e, err := ParseLine(sampleLine)
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}

	ev, index := MapEvent(e)

	if index != "ocsf-1.1.0-4001-network_activity-2015.05.17-000000" {
		t.Errorf("index = %q", index)
	}
	if ev.ClassUID != 4001 {
		t.Errorf("ClassUID = %d", ev.ClassUID)
	}
	if ev.TypeUID != 400101 {
		t.Errorf("TypeUID = %d", ev.TypeUID)
	}
	if ev.Status != "Success" || ev.StatusID != 1 {
		t.Errorf("status = %s/%d", ev.Status, ev.StatusID)
	}
	if ev.Severity != "Informational" || ev.SeverityID != 1 {
		t.Errorf("severity = %s/%d", ev.Severity, ev.SeverityID)
	}
	if ev.SrcEndpoint.IP != "83.149.9.216" {
		t.Errorf("src ip = %q", ev.SrcEndpoint.IP)
	}
	if ev.DstEndpoint.Port != 80 {
		t.Errorf("dst port = %d", ev.DstEndpoint.Port)
	}
	if ev.Response.Code != 200 || ev.Response.Length != 203023 {
		t.Errorf("response = %+v", ev.Response)
	}
	if ev.Traffic.BytesOut != 203023 {
		t.Errorf("bytes_out = %d", ev.Traffic.BytesOut)
	}
	if ev.URL.Path != "/presentations/logstash-monitorama-2013/images/kibana-search.png" {
		t.Errorf("url path = %q", ev.URL.Path)
	}
	if ev.UserAgent == nil || ev.UserAgent.Browser == nil || ev.UserAgent.Browser.Name == "" {
		t.Error("user agent not parsed")
	}
	if ev.TimeDT == "" || !strings.HasPrefix(ev.TimeDT, "2015-05-17T10:05:03.000") {
		t.Errorf("time_dt = %q", ev.TimeDT)
	}
	if ev.Metadata.Version != "1.1.0" || ev.Metadata.UID == "" {
		t.Errorf("metadata = %+v", ev.Metadata)
	}
}

func TestMapEventSeverity(t *testing.T) {
	cases := []struct {
		status     int
		wantStatus string
		wantSev    string
	}{
		{200, "Success", "Informational"},
		{301, "Success", "Informational"},
		{404, "Failure", "Warning"},
		{500, "Failure", "Error"},
		{503, "Failure", "Error"},
	}
	for _, tc := range cases {
		ev, _ := MapEvent(&Entry{Status: tc.status, Time: time.Now()})
		if ev.Status != tc.wantStatus {
			t.Errorf("status %d: Status = %q, want %q", tc.status, ev.Status, tc.wantStatus)
		}
		if ev.Severity != tc.wantSev {
			t.Errorf("status %d: Severity = %q, want %q", tc.status, ev.Severity, tc.wantSev)
		}
	}
}

func TestDecomposeURL(t *testing.T) {
	cases := []struct {
		in   string
		want struct {
			scheme, host, path, query string
			port                      int
		}
	}{
		{"/index.html", struct {
			scheme, host, path, query string
			port                      int
		}{"http", "", "/index.html", "", 0}},
		{"/search?q=go&page=2", struct {
			scheme, host, path, query string
			port                      int
		}{"http", "", "/search", "q=go&page=2", 0}},
		{"https://example.com:8443/a/b?x=1", struct {
			scheme, host, path, query string
			port                      int
		}{"https", "example.com", "/a/b", "x=1", 8443}},
		{"http://example.com", struct {
			scheme, host, path, query string
			port                      int
		}{"http", "example.com", "/", "", 0}},
	}

	for _, tc := range cases {
		u := decomposeURL(tc.in)
		if u.Scheme != tc.want.scheme || u.Hostname != tc.want.host ||
			u.Path != tc.want.path || u.QueryString != tc.want.query || u.Port != tc.want.port {
			t.Errorf("decomposeURL(%q) = %+v", tc.in, u)
		}
	}
}
