package db

import "testing"

func TestIndexBuilder_Build(t *testing.T) {
	def, err := NewIndex("mediadex:record:idx").
		OnJSON().
		WithPrefix("mediadex:record:").
		TextField("$.file_name", "file_name").
		TextField("$.caption", "caption").
		TagField("$.file_type", "file_type").
		NumericField("$.seq", "seq").Sortable().
		NumericField("$.indexed_at", "indexed_at").Sortable().
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if def.StorageType != StorageJSON {
		t.Errorf("storage = %q, want JSON", def.StorageType)
	}
	if len(def.Prefixes) != 1 || def.Prefixes[0] != "mediadex:record:" {
		t.Errorf("unexpected prefixes: %v", def.Prefixes)
	}
	if len(def.Fields) != 5 {
		t.Fatalf("fields = %d, want 5", len(def.Fields))
	}
	if !def.Fields[3].Sortable || !def.Fields[4].Sortable {
		t.Error("numeric fields should be sortable")
	}
	if def.Fields[0].Sortable {
		t.Error("text field should not be sortable")
	}
}

func TestIndexBuilder_ValidationErrors(t *testing.T) {
	if _, err := NewIndex("").TextField("$.x", "x").Build(); err == nil {
		t.Error("expected error for empty index name")
	}
	if _, err := NewIndex("idx").Build(); err == nil {
		t.Error("expected error for no fields")
	}
	if _, err := NewIndex("bad name").TextField("$.x", "x").Build(); err == nil {
		t.Error("expected error for invalid identifier")
	}
	if _, err := NewIndex("idx").
		TextField("$.x", "x").
		TagField("$.y", "x").
		Build(); err == nil {
		t.Error("expected error for duplicate alias")
	}
}

func TestIsValidIdentifier(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"mediadex:record:idx", true},
		{"idx_1-a", true},
		{"", false},
		{"has space", false},
		{"semi;colon", false},
	}
	for _, tc := range cases {
		if got := IsValidIdentifier(tc.in); got != tc.want {
			t.Errorf("IsValidIdentifier(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
