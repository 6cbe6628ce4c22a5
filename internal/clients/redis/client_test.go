package redis

import "testing"

func TestOptionsFromURL(t *testing.T) {
	opt, err := options(Config{URL: "redis://:pw@cache.internal:6380/2"})
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if opt.Addr != "cache.internal:6380" || opt.DB != 2 || opt.Password != "pw" {
		t.Fatalf("unexpected options: addr=%q db=%d", opt.Addr, opt.DB)
	}
}

func TestOptionsFromAddr(t *testing.T) {
	opt, err := options(Config{Addr: "localhost:6379", DB: 1})
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if opt.Addr != "localhost:6379" || opt.DB != 1 {
		t.Fatalf("unexpected options: addr=%q db=%d", opt.Addr, opt.DB)
	}
	if opt.DialTimeout == 0 {
		t.Fatalf("dial timeout not set")
	}
}

func TestOptionsRequiresAddress(t *testing.T) {
	if _, err := options(Config{}); err == nil {
		t.Fatalf("want error for empty config")
	}
}
