package utils

import "testing"

func TestSanitizeInputNeutralizesScriptTags(t *testing.T) {
	got := SanitizeInput("hello <script>alert(1)</script>world")
	if got != "hello &lt;script&gt;alert(1)&lt;/script&gt;world" {
		t.Errorf("expected script tag escaped, got %q", got)
	}
}

func TestSanitizeInputDropsControlCharacters(t *testing.T) {
	got := SanitizeInput("line\x00one")
	if got != "lineone" {
		t.Errorf("expected control characters removed, got %q", got)
	}
}

func TestSanitizeInputEscapesHTML(t *testing.T) {
	got := SanitizeInput("a < b & c")
	if got != "a &lt; b &amp; c" {
		t.Errorf("expected escaped output, got %q", got)
	}
}

func TestSanitizeEmail(t *testing.T) {
	got, err := SanitizeEmail("  User@Example.COM ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "user@example.com" {
		t.Errorf("expected lowercased trimmed email, got %q", got)
	}

	if _, err := SanitizeEmail("not-an-email"); err == nil {
		t.Error("expected error for malformed email")
	}
}

func TestSanitizePhone(t *testing.T) {
	got, err := SanitizePhone("961 70-123 456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "+96170123456" {
		t.Errorf("expected normalized phone, got %q", got)
	}

	if got, err := SanitizePhone("   "); err != nil || got != "" {
		t.Errorf("expected empty phone accepted, got %q, %v", got, err)
	}

	if _, err := SanitizePhone("123"); err == nil {
		t.Error("expected error for too-short phone")
	}
}

func TestValidateWorkingHours(t *testing.T) {
	if err := ValidateWorkingHours("09:00", "17:30"); err != nil {
		t.Errorf("expected valid window, got %v", err)
	}
	if err := ValidateWorkingHours("17:00", "09:00"); err == nil {
		t.Error("expected error when start is after end")
	}
	if err := ValidateWorkingHours("9:00", "17:00"); err == nil {
		t.Error("expected error for non-padded hour")
	}
	if err := ValidateWorkingHours("09:00", "24:00"); err == nil {
		t.Error("expected error for out-of-range hour")
	}
}
