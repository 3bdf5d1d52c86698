// Package lan advertises and finds penplot relays on the local network.
package lan

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/mdns"
)

// ServiceType is the mDNS service a relay registers under.
const ServiceType = "_penplot._tcp"

// DefaultTimeout bounds a discovery query.
const DefaultTimeout = 3 * time.Second

// ErrNotFound is returned when no relay answered in time.
var ErrNotFound = errors.New("no penplot relay found on the network")

// Advertiser keeps a relay announced until closed.
type Advertiser struct {
	server *mdns.Server
}

// Advertise announces a relay listening on port. An empty instance uses the
// host name.
func Advertise(instance string, port int) (*Advertiser, error) {
	if port <= 0 {
		return nil, fmt.Errorf("advertise: invalid port %d", port)
	}
	if instance == "" {
		host, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("could not get hostname: %w", err)
		}
		instance = host
	}

	service, err := mdns.NewMDNSService(instance, ServiceType, "", "", port, nil, []string{"penplot relay"})
	if err != nil {
		return nil, fmt.Errorf("create mDNS service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("start mDNS server: %w", err)
	}
	return &Advertiser{server: server}, nil
}

// Close stops answering queries.
func (a *Advertiser) Close() error {
	if a == nil || a.server == nil {
		return nil
	}
	return a.server.Shutdown()
}

// Browse reports every relay address seen within timeout.
func Browse(ctx context.Context, timeout time.Duration, found func(addr string)) error {
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan error, 1)
	go func() {
		done <- query(timeout, entries)
	}()

	for {
		select {
		case e := <-entries:
			if addr, ok := entryAddr(e); ok {
				found(addr)
			}
		case err := <-done:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Discover returns the first relay address that answers.
func Discover(ctx context.Context, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var addr string
	err := Browse(ctx, timeout, func(a string) {
		if addr == "" {
			addr = a
			cancel()
		}
	})
	if addr != "" {
		return addr, nil
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return "", fmt.Errorf("discover relay: %w", err)
	}
	return "", ErrNotFound
}

func query(timeout time.Duration, entries chan<- *mdns.ServiceEntry) error {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	params := mdns.DefaultParams(ServiceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	return mdns.Query(params)
}

func entryAddr(e *mdns.ServiceEntry) (string, bool) {
	if e == nil || e.Port == 0 {
		return "", false
	}
	ip := e.AddrV4
	if ip == nil {
		ip = e.AddrV6
	}
	if ip == nil {
		return "", false
	}
	return net.JoinHostPort(ip.String(), strconv.Itoa(e.Port)), true
}
