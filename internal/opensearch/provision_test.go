package opensearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/mranv/ocsf-opensearch/internal/logging"
	"github.com/mranv/ocsf-opensearch/internal/ocsf"
)

func TestProvisionerInit(t *testing.T) {
	var mu sync.Mutex
	var calls []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls = append(calls, r.Method+" "+r.URL.Path)
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"acknowledged":true}`))
	}))
	defer srv.Close()

	p := NewProvisioner(testClient(t, srv), logging.Discard(),
		[]ocsf.Class{ocsf.HTTPActivity, ocsf.DNSActivity})
	p.now = func() time.Time {
		return time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC)
	}

	if err := p.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	want := map[string]bool{
		"PUT /_plugins/_ism/policies/rollover-expiration-policy":       false,
		"PUT /_component_template/ocsf_1_1_0_actor":                    false,
		"PUT /_component_template/ocsf_1_1_0_answers":                  false,
		"PUT /_index_template/ocsf-1.1.0-4002-http_activity":           false,
		"PUT /_index_template/ocsf-1.1.0-4003-dns_activity":            false,
		"PUT /ocsf-1.1.0-4002-http_activity-2026.08.28-000000":         false,
		"PUT /ocsf-1.1.0-4003-dns_activity-2026.08.28-000000":          false,
		"PUT /ocsf-1.1.0-4002-http_activity-*/_alias/ocsf-1.1.0-4002-http_activity": false,
		"PUT /ocsf-1.1.0-4003-dns_activity-*/_alias/ocsf-1.1.0-4003-dns_activity":   false,
	}

	mu.Lock()
	defer mu.Unlock()
	for _, call := range calls {
		if _, ok := want[call]; ok {
			want[call] = true
		}
	}
	for call, seen := range want {
		if !seen {
			t.Errorf("missing call %q (got %v)", call, calls)
		}
	}
}

func TestProvisionerInitConflictContinues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Everything already exists.
		http.Error(w, `{"error":"resource_already_exists_exception"}`, http.StatusConflict)
	}))
	defer srv.Close()

	p := NewProvisioner(testClient(t, srv), logging.Discard(), []ocsf.Class{ocsf.HTTPActivity})

	// Conflicts are logged, never fatal.
	if err := p.Init(context.Background()); err != nil {
		t.Fatalf("Init on conflicts: %v", err)
	}
}
