package net

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"time"

	"github.com/hashicorp/mdns"
)

const serviceType = "_studiointake._tcp"

// Advertise announces the desk on the LAN so kiosks can find it.
func Advertise(port int) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	info := []string{"StudioIntake desk"}
	// Advertise the outgoing address instead of resolving the hostname.
	ips := []net.IP{net.ParseIP(OutgoingIP())}
	service, err := mdns.NewMDNSService(host, serviceType, "", "", port, ips, info)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	log.Printf("[DESK] Advertising %s on port %d", serviceType, port)
	return server, nil
}

// Discover returns the address of the first desk that answers within
// timeout.
func Discover(ctx context.Context, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	entries := make(chan *mdns.ServiceEntry, 8)
	found := make(chan string, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			select {
			case found <- fmt.Sprintf("%s:%d", e.AddrV4.String(), e.Port):
				cancel()
			default:
			}
		}
	}()

	params := mdns.DefaultParams(serviceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	err := mdns.QueryContext(ctx, params)
	close(entries)
	<-done

	select {
	case addr := <-found:
		log.Printf("[KIOSK] Discovered desk at %s", addr)
		return addr, nil
	default:
	}
	if err != nil && ctx.Err() == nil {
		return "", fmt.Errorf("mdns lookup: %w", err)
	}
	return "", fmt.Errorf("no desk found on the local network")
}
