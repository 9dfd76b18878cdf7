package main

import "testing"

func TestTransportValue(t *testing.T) {
	var transport string
	v := newTransportValue(transportStdio, &transport)

	if transport != "stdio" {
		t.Errorf("default = %q", transport)
	}

	if err := v.Set("sse"); err != nil {
		t.Fatalf("Set(sse): %v", err)
	}
	if transport != "sse" || v.String() != "sse" {
		t.Errorf("transport = %q", transport)
	}

	if err := v.Set("streamable-http"); err == nil {
		t.Error("expected error for unsupported transport")
	}
	if transport != "sse" {
		t.Errorf("failed Set must not change the value, got %q", transport)
	}
}
