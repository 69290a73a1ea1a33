package envfile

import "testing"

func TestClassifyCaseInsensitiveAndDisabled(t *testing.T) {
	entries := []Entry{
		{ID: "1", Kind: KindVariable, Key: "A", Enabled: true},
		{ID: "2", Kind: KindVariable, Key: "a", Enabled: true},
		{ID: "3", Kind: KindVariable, Key: "A", Enabled: false},
	}
	got := Classify(entries)
	want := map[string]DuplicateStatus{"1": DupFirst, "2": DupDuplicate, "3": DupNone}
	for id, status := range want {
		if got[id] != status {
			t.Fatalf("status[%s] = %v, want %v", id, got[id], status)
		}
	}
}

func TestClassifyIgnoresCommentsAndEmptyKeys(t *testing.T) {
	entries := []Entry{
		{ID: "c1", Kind: KindComment, Key: "A", Enabled: true},
		{ID: "v1", Kind: KindVariable, Key: " A ", Enabled: true},
		{ID: "v2", Kind: KindVariable, Key: "", Enabled: true},
		{ID: "v3", Kind: KindVariable, Key: "  ", Enabled: true},
		{ID: "v4", Kind: KindVariable, Key: "B", Enabled: true},
		{ID: "v5", Kind: KindVariable, Key: "b ", Enabled: true},
		{ID: "v6", Kind: KindVariable, Key: "B", Enabled: true},
	}
	got := Classify(entries)
	want := map[string]DuplicateStatus{
		"c1": DupNone,
		"v1": DupNone,
		"v2": DupNone,
		"v3": DupNone,
		"v4": DupFirst,
		"v5": DupDuplicate,
		"v6": DupDuplicate,
	}
	for id, status := range want {
		if got[id] != status {
			t.Fatalf("status[%s] = %v, want %v", id, got[id], status)
		}
	}
}

func TestClassifyRecomputesAfterReorder(t *testing.T) {
	entries := []Entry{
		{ID: "1", Kind: KindVariable, Key: "K", Enabled: true},
		{ID: "2", Kind: KindVariable, Key: "K", Enabled: true},
	}
	moved := Move(entries, 1, 0)
	got := Classify(moved)
	if got["2"] != DupFirst || got["1"] != DupDuplicate {
		t.Fatalf("expected classification to follow order, got %+v", got)
	}
}

func TestDuplicateGroups(t *testing.T) {
	entries := Parse("B=1\nA=1\nb=2\n#A=3\nA=4\nC=1")
	groups := DuplicateGroups(entries)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %+v", groups)
	}
	if groups[0].Key != "B" || len(groups[0].Entries) != 2 {
		t.Fatalf("unexpected first group %+v", groups[0])
	}
	if groups[1].Key != "A" || len(groups[1].Entries) != 2 {
		t.Fatalf("unexpected second group %+v", groups[1])
	}
	if DupDuplicate.String() != "duplicate" || DupFirst.String() != "first" || DupNone.String() != "none" {
		t.Fatalf("unexpected status names")
	}
}
