package logger

import "testing"

func TestRedactKVsMasksSecretKeys(t *testing.T) {
	in := []interface{}{"llm_api_key", "sk-123", "city", "austin", "REDIS_PASSWORD", "hunter2", "dangling"}
	out := redactKVs(in)
	if len(out) != len(in) {
		t.Fatalf("len: want=%d got=%d", len(in), len(out))
	}
	if out[1] != "[REDACTED]" {
		t.Fatalf("api key: want=[REDACTED] got=%v", out[1])
	}
	if out[3] != "austin" {
		t.Fatalf("city: want=austin got=%v", out[3])
	}
	if out[5] != "[REDACTED]" {
		t.Fatalf("password: want=[REDACTED] got=%v", out[5])
	}
	if out[6] != "dangling" {
		t.Fatalf("dangling key: want=dangling got=%v", out[6])
	}
}

func TestNopLoggerWith(t *testing.T) {
	log := Nop().With("service", "Test")
	log.Info("hello", "k", "v")
	log.Sync()
}
