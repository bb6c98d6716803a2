package opensearch

import "testing"

func TestDocIDDeterministic(t *testing.T) {
	doc := map[string]any{"b": 2, "a": 1, "nested": map[string]any{"z": "x", "y": "w"}}

	id1, err := DocID(doc)
	if err != nil {
		t.Fatalf("DocID: %v", err)
	}
	id2, err := DocID(doc)
	if err != nil {
		t.Fatalf("DocID: %v", err)
	}
	if id1 != id2 {
		t.Errorf("ids differ: %q vs %q", id1, id2)
	}
	if len(id1) != 32 {
		t.Errorf("id length = %d, want 32 hex chars", len(id1))
	}
}

func TestDocIDStructMapEquivalence(t *testing.T) {
	type doc struct {
		A int    `json:"a"`
		B string `json:"b"`
	}

	fromStruct, err := DocID(doc{A: 1, B: "x"})
	if err != nil {
		t.Fatalf("DocID: %v", err)
	}
	fromMap, err := DocID(map[string]any{"b": "x", "a": 1})
	if err != nil {
		t.Fatalf("DocID: %v", err)
	}
	if fromStruct != fromMap {
		t.Errorf("struct id %q != map id %q", fromStruct, fromMap)
	}
}

func TestDocIDContentSensitive(t *testing.T) {
	id1, _ := DocID(map[string]any{"a": 1})
	id2, _ := DocID(map[string]any{"a": 2})
	if id1 == id2 {
		t.Error("different content produced the same id")
	}
}
