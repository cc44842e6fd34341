package models

import "testing"

func TestCategorySetAddDuplicate(t *testing.T) {
	cs := &CategorySet{Scope: CategoryScopeAgent}

	if err := cs.Add("VIP"); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := cs.Add("VIP"); err != ErrDuplicateCategory {
		t.Fatalf("expected ErrDuplicateCategory, got %v", err)
	}

	count := 0
	for _, name := range cs.Names {
		if name == "VIP" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one VIP entry, got %d", count)
	}
}

func TestCategorySetAddTrimsAndIsCaseSensitive(t *testing.T) {
	cs := &CategorySet{Scope: CategoryScopeCandidate}

	if err := cs.Add("  Music  "); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := cs.Add("Music"); err != ErrDuplicateCategory {
		t.Fatalf("trimmed duplicate must be rejected, got %v", err)
	}
	// Different case is a different label.
	if err := cs.Add("music"); err != nil {
		t.Fatalf("case-sensitive add: %v", err)
	}
	if err := cs.Add(""); err == nil {
		t.Fatal("empty name must be rejected")
	}
	if err := cs.Add("   "); err == nil {
		t.Fatal("blank name must be rejected")
	}
}

func TestNormalizeCategories(t *testing.T) {
	got := NormalizeCategories([]string{" VIP ", "VIP", "", "Music", "  ", "Music"})
	if len(got) != 2 || got[0] != "VIP" || got[1] != "Music" {
		t.Fatalf("unexpected normalized set: %v", got)
	}
}

func TestMatchesAnyCategory(t *testing.T) {
	account := []string{"VIP", "Music"}

	if !MatchesAnyCategory(account, []string{"Music", "Film"}) {
		t.Fatal("expected non-empty intersection to match")
	}
	if MatchesAnyCategory(account, []string{"Film"}) {
		t.Fatal("expected disjoint sets not to match")
	}
	if !MatchesAnyCategory(account, nil) {
		t.Fatal("empty filter must match everything")
	}
	if MatchesAnyCategory(nil, []string{"VIP"}) {
		t.Fatal("untagged account must not match a non-empty filter")
	}
}
