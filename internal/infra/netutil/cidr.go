package netutil

import (
	"fmt"
	"net"
)

// ParseCIDRs parses CIDR strings into []*net.IPNet. The first invalid entry
// is reported.
func ParseCIDRs(cidrs []string) ([]*net.IPNet, error) {
	out := make([]*net.IPNet, 0, len(cidrs))
	for _, s := range cidrs {
		_, n, err := net.ParseCIDR(s)
		if err != nil {
			return nil, fmt.Errorf("netutil: %w", err)
		}
		out = append(out, n)
	}
	return out, nil
}

// MustParseCIDRs is ParseCIDRs for validated input; invalid entries are ignored.
func MustParseCIDRs(cidrs []string) (out []*net.IPNet) {
	for _, s := range cidrs {
		_, n, err := net.ParseCIDR(s)
		if err == nil && n != nil {
			out = append(out, n)
		}
	}
	return
}

// Contains reports whether ip falls in any of nets.
func Contains(nets []*net.IPNet, ip net.IP) bool {
	for _, n := range nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
