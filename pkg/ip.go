package pkg

import (
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"
)

var (
	localDockerIpRegex = regexp.MustCompile(`^172\.\d{1,3}\.0\.1:\d{1,5}`)
)

func isLocalAddr(ipAddr string) bool {
	// used in local development ?
	if strings.HasPrefix(ipAddr, "127.0.0.1:") {
		return true
	}

	// user within docker container ?
	return localDockerIpRegex.MatchString(ipAddr)
}

// TrustedProxies are the networks allowed to report the client address
// through the X-Real-Ip and X-Forwarded-For headers. A nil value trusts nobody.
type TrustedProxies struct {
	nets []*net.IPNet
}

// ParseTrustedProxies accepts single IPs and CIDR ranges.
func ParseTrustedProxies(entries []string) (*TrustedProxies, error) {
	p := &TrustedProxies{}
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("trusted proxy %s is invalid", entry)
			}
			bits := 8 * net.IPv4len
			if ip.To4() == nil {
				bits = 8 * net.IPv6len
			}
			p.nets = append(p.nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, ipNet, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %s: %w", entry, err)
		}
		p.nets = append(p.nets, ipNet)
	}
	return p, nil
}

func (p *TrustedProxies) trusts(ip net.IP) bool {
	if p == nil || ip == nil {
		return false
	}
	for _, ipNet := range p.nets {
		if ipNet.Contains(ip) {
			return true
		}
	}
	return false
}

// ReadUserIP returns the client IP. Proxy headers are only read when the
// request comes straight from a trusted proxy; otherwise the remote address wins.
func ReadUserIP(r *http.Request, proxies *TrustedProxies) (string, error) {
	remoteHost := r.RemoteAddr
	if host, _, err := net.SplitHostPort(remoteHost); err == nil {
		remoteHost = host
	}

	if proxies.trusts(net.ParseIP(remoteHost)) {
		if ipAddr := forwardedClientIP(r, proxies); ipAddr != "" {
			return ipAddr, nil
		}
	}

	if isLocalAddr(r.RemoteAddr) {
		return "localhost", nil
	}

	if ip := net.ParseIP(remoteHost); ip == nil {
		return "", fmt.Errorf("ip addr %s is invalid", remoteHost)
	}

	return remoteHost, nil
}

// forwardedClientIP walks X-Forwarded-For from the nearest hop and returns the
// first address that is not a trusted proxy. Hops left of it are client controlled.
func forwardedClientIP(r *http.Request, proxies *TrustedProxies) string {
	if realIP := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-Ip"))); realIP != nil {
		return realIP.String()
	}

	var hops []string
	for _, fwd := range r.Header.Values("X-Forwarded-For") {
		hops = append(hops, strings.Split(fwd, ",")...)
	}

	var last string
	for i := len(hops) - 1; i >= 0; i-- {
		ip := net.ParseIP(strings.TrimSpace(hops[i]))
		if ip == nil {
			return last
		}
		last = ip.String()
		if !proxies.trusts(ip) {
			return last
		}
	}
	return last
}
