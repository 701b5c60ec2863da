package config

import (
	"testing"
)

func TestDomainPriorities(t *testing.T) {
	cfg := Config{DedupeDomainPriorities: "www.a.org=0, b.org=2,"}
	priorities, err := cfg.DomainPriorities()
	if err != nil {
		t.Fatalf("DomainPriorities: %v", err)
	}
	if priorities["www.a.org"] != 0 || priorities["b.org"] != 2 {
		t.Fatalf("priorities = %v", priorities)
	}

	bad := Config{DedupeDomainPriorities: "www.a.org"}
	if _, err := bad.DomainPriorities(); err == nil {
		t.Fatalf("expected error for entry without rank")
	}
}

func TestRequiredDomainPair(t *testing.T) {
	cfg := Config{DedupeRequiredDomains: "A.org, b.org"}
	pair, err := cfg.RequiredDomainPair()
	if err != nil {
		t.Fatalf("RequiredDomainPair: %v", err)
	}
	if pair != [2]string{"a.org", "b.org"} {
		t.Fatalf("pair = %v", pair)
	}

	empty := Config{}
	pair, err = empty.RequiredDomainPair()
	if err != nil {
		t.Fatalf("RequiredDomainPair empty: %v", err)
	}
	if pair != [2]string{} {
		t.Fatalf("expected empty pair, got %v", pair)
	}

	one := Config{DedupeRequiredDomains: "a.org"}
	if _, err := one.RequiredDomainPair(); err == nil {
		t.Fatalf("expected error for single host")
	}
}

func TestValidateConnBounds(t *testing.T) {
	cfg := Config{DBMinConns: 4, DBMaxConns: 2}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for min > max")
	}
}
