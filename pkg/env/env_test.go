package env

import "testing"

func TestGetPrefersFirstKey(t *testing.T) {
	t.Setenv("FOODHUB_LOG_FORMAT", "console")
	t.Setenv("LOG_FORMAT", "json")
	if got := Get("json", "FOODHUB_LOG_FORMAT", "LOG_FORMAT"); got != "console" {
		t.Fatalf("expected console, got %q", got)
	}
}

func TestGetFallsBack(t *testing.T) {
	t.Setenv("FOODHUB_LOG_FORMAT", " ")
	if got := Get("json", "FOODHUB_LOG_FORMAT"); got != "json" {
		t.Fatalf("expected fallback, got %q", got)
	}
}

func TestBool(t *testing.T) {
	t.Setenv("FOODHUB_LOG_COLOR", "true")
	t.Setenv("FOODHUB_LOG_BROKEN", "maybe")
	if !Bool(false, "FOODHUB_LOG_COLOR") {
		t.Fatalf("expected true")
	}
	if Bool(false, "FOODHUB_LOG_BROKEN") {
		t.Fatalf("expected fallback for unparseable value")
	}
}
