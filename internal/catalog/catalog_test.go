package catalog

import "testing"

func TestNormalizeAliases(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Plumbing", "plumbing"},
		{"plumber", "plumbing"},
		{"  Electrician ", "electrical"},
		{"air conditioning", "hvac"},
		{"handyman", "general"},
		{"snowplowing", "snowplowing"}, // unknown passes through
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestKnown(t *testing.T) {
	if !Known("roofer") {
		t.Error("expected roofer to resolve to a catalog entry")
	}
	if Known("underwater basket weaving") {
		t.Error("expected unknown label to report false")
	}
}

func TestAllReturnsCopy(t *testing.T) {
	a := All()
	if len(a) == 0 {
		t.Fatal("expected non-empty catalog")
	}
	a[0].Slug = "mutated"
	if All()[0].Slug == "mutated" {
		t.Error("expected All to return a copy")
	}
}
