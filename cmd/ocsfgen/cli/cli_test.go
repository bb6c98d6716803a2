package cli

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/mranv/ocsf-opensearch/internal/logging"
	"github.com/mranv/ocsf-opensearch/internal/opensearch"
)

func TestNewRNGDeterministic(t *testing.T) {
	a, b := newRNG(42), newRNG(42)
	for i := range 10 {
		if x, y := a.Uint64(), b.Uint64(); x != y {
			t.Fatalf("sequence diverged at %d: %d vs %d", i, x, y)
		}
	}
}

func TestWriteNDJSONFileGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.ndjson.gz")
	docs := []opensearch.Doc{
		{Body: map[string]any{"class_uid": 4002}},
		{Body: map[string]any{"class_uid": 4003}},
	}

	if err := writeNDJSONFile(path, docs); err != nil {
		t.Fatalf("writeNDJSONFile: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	raw, err := io.ReadAll(gz)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	for i, line := range lines {
		var doc map[string]any
		if err := json.Unmarshal([]byte(line), &doc); err != nil {
			t.Errorf("line %d not valid JSON: %v", i, err)
		}
	}
}

func TestReadSampleDocs(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		return path
	}

	t.Run("array", func(t *testing.T) {
		docs, err := readSampleDocs(write("array.json", `[{"a":1},{"b":2}]`))
		if err != nil {
			t.Fatalf("readSampleDocs: %v", err)
		}
		if len(docs) != 2 {
			t.Errorf("docs = %d, want 2", len(docs))
		}
	})

	t.Run("single object", func(t *testing.T) {
		docs, err := readSampleDocs(write("single.json", `{"a":1}`))
		if err != nil {
			t.Fatalf("readSampleDocs: %v", err)
		}
		if len(docs) != 1 {
			t.Errorf("docs = %d, want 1", len(docs))
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := readSampleDocs(write("bad.json", `not json`)); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestMapLineCountsParseFailures(t *testing.T) {
	ing := &apacheIngestor{logger: logging.Discard()}

	if _, ok := ing.mapLine("definitely not an access log line"); ok {
		t.Error("unparseable line produced a document")
	}
	if ing.parseFailures != 1 {
		t.Errorf("parseFailures = %d, want 1", ing.parseFailures)
	}

	line := `83.149.9.216 - - [17/May/2015:10:05:03 +0000] "GET /presentations/logstash.png HTTP/1.1" 200 52878 "http://semicomplete.com/" "Mozilla/5.0"`
	doc, ok := ing.mapLine(line)
	if !ok {
		t.Fatal("valid line rejected")
	}
	if doc.ID == "" || doc.Index == "" {
		t.Errorf("doc = %+v, want id and index set", doc)
	}
	if ing.parseFailures != 1 {
		t.Errorf("parseFailures = %d, want 1", ing.parseFailures)
	}
}
