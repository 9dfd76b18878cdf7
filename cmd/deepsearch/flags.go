package main

import "fmt"

const (
	transportStdio = "stdio"
	transportSSE   = "sse"
)

// transportValue is a pflag value restricted to the supported MCP
// transports.
type transportValue string

func newTransportValue(def string, p *string) *transportValue {
	*p = def
	return (*transportValue)(p)
}

func (t *transportValue) Set(val string) error {
	switch val {
	case transportStdio, transportSSE:
		*t = transportValue(val)
		return nil
	}
	return fmt.Errorf("invalid transport: %v. supported: %s, %s", val, transportStdio, transportSSE)
}

func (t *transportValue) String() string { return string(*t) }
func (t *transportValue) Type() string   { return "string" }
