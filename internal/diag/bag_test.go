package diag

import "testing"

func TestBagLimitKeepsErrors(t *testing.T) {
	b := NewBag(1)
	if !b.Add(Diagnostic{Severity: SevWarning, Code: ModelOverlappingFields}) {
		t.Fatal("first diagnostic rejected")
	}
	if b.Add(Diagnostic{Severity: SevInfo, Code: ModelNoAccessors}) {
		t.Fatal("info accepted past the limit")
	}
	if !b.Add(Diagnostic{Severity: SevError, Code: ModelBadBitRange}) {
		t.Fatal("error dropped past the limit")
	}
	if !b.HasErrors() || b.Len() != 2 {
		t.Fatalf("HasErrors=%v Len=%d", b.HasErrors(), b.Len())
	}
}

func TestBagSortAndMerge(t *testing.T) {
	a := NewBag(4)
	a.Add(Diagnostic{Severity: SevWarning, Code: ModelOverlappingFields, Primary: Location{File: "b.toml", Register: "R"}})
	a.Add(Diagnostic{Severity: SevInfo, Code: ModelNoAccessors, Primary: Location{File: "a.toml", Register: "R", Field: "x"}})

	other := NewBag(4)
	other.Add(Diagnostic{Severity: SevError, Code: ModelBadName, Primary: Location{File: "a.toml", Register: "R", Field: "x"}})
	a.Merge(other)
	a.Sort()

	items := a.Items()
	if len(items) != 3 {
		t.Fatalf("len = %d, want 3", len(items))
	}
	if items[0].Code != ModelBadName || items[1].Code != ModelNoAccessors || items[2].Code != ModelOverlappingFields {
		t.Fatalf("unexpected order: %+v", items)
	}
}

func TestCodeID(t *testing.T) {
	if got := ModelBadBitRange.ID(); got != "MOD1004" {
		t.Fatalf("ID = %q", got)
	}
	if got := IOLoadFileError.ID(); got != "IO4001" {
		t.Fatalf("ID = %q", got)
	}
	if got := Code(9999).Title(); got != "Unknown error" {
		t.Fatalf("Title = %q", got)
	}
}
