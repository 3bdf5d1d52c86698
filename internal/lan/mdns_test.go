package lan

import (
	"net"
	"testing"

	"github.com/hashicorp/mdns"
)

func TestEntryAddr(t *testing.T) {
	tests := []struct {
		name  string
		entry *mdns.ServiceEntry
		want  string
		ok    bool
	}{
		{"nil", nil, "", false},
		{"no port", &mdns.ServiceEntry{AddrV4: net.IPv4(10, 0, 0, 2)}, "", false},
		{"no address", &mdns.ServiceEntry{Port: 8080}, "", false},
		{"ipv4", &mdns.ServiceEntry{AddrV4: net.IPv4(192, 168, 1, 122), Port: 8080}, "192.168.1.122:8080", true},
		{"ipv6 fallback", &mdns.ServiceEntry{AddrV6: net.ParseIP("fe80::1"), Port: 9000}, "[fe80::1]:9000", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := entryAddr(tt.entry)
			if got != tt.want || ok != tt.ok {
				t.Fatalf("entryAddr = %q, %v; want %q, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestAdvertise_InvalidPort(t *testing.T) {
	if _, err := Advertise("test", 0); err == nil {
		t.Fatalf("Advertise with port 0 returned nil error")
	}
}

func TestAdvertiser_CloseNil(t *testing.T) {
	var a *Advertiser
	if err := a.Close(); err != nil {
		t.Fatalf("Close on nil advertiser = %v", err)
	}
}
