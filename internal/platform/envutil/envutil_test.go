package envutil

import (
	"testing"
	"time"
)

func TestParsersFallBackToDefault(t *testing.T) {
	t.Setenv("SEO_TEST_INT", "nope")
	t.Setenv("SEO_TEST_FLOAT", "")
	t.Setenv("SEO_TEST_BOOL", "maybe")
	t.Setenv("SEO_TEST_DUR", "later")

	if got := Int("SEO_TEST_INT", 7); got != 7 {
		t.Fatalf("Int: want=7 got=%d", got)
	}
	if got := Float("SEO_TEST_FLOAT", 1.5); got != 1.5 {
		t.Fatalf("Float: want=1.5 got=%v", got)
	}
	if got := Bool("SEO_TEST_BOOL", true); !got {
		t.Fatalf("Bool: want=true got=%v", got)
	}
	if got := Duration("SEO_TEST_DUR", time.Minute); got != time.Minute {
		t.Fatalf("Duration: want=1m got=%v", got)
	}
}

func TestParsersReadValues(t *testing.T) {
	t.Setenv("SEO_TEST_INT", " 42 ")
	t.Setenv("SEO_TEST_BOOL", "off")
	t.Setenv("SEO_TEST_DUR", "90")
	t.Setenv("SEO_TEST_STR", "  redis://localhost:6379 ")

	if got := Int("SEO_TEST_INT", 0); got != 42 {
		t.Fatalf("Int: want=42 got=%d", got)
	}
	if got := Bool("SEO_TEST_BOOL", true); got {
		t.Fatalf("Bool: want=false got=%v", got)
	}
	if got := Duration("SEO_TEST_DUR", 0); got != 90*time.Second {
		t.Fatalf("Duration: want=90s got=%v", got)
	}
	if got := String("SEO_TEST_STR", ""); got != "redis://localhost:6379" {
		t.Fatalf("String: want=redis://localhost:6379 got=%q", got)
	}
}
