package security

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
)

// probePatterns are path/query fragments that only show up in vulnerability
// scans, never in legitimate API traffic.
var probePatterns = []string{
	"../", "..\\", ".env", ".git", ".ssh",
	"wp-admin", "phpmyadmin", "admin.php", "config.php",
	"eval(", "javascript:", "<script", "union select",
	"etc/passwd", "cmd.exe",
}

// scannerAgents are User-Agent fragments of well-known scanning tools.
var scannerAgents = []string{
	"sqlmap", "nmap", "nikto", "gobuster", "dirb",
	"scanner", "crawler", "spider", "scraper",
}

// maxURLLength caps how long a URL can be before it counts as a probe.
const maxURLLength = 2048

// Detector classifies incoming requests and resolves the real client IP
// behind trusted reverse proxies.
type Detector struct {
	trusted    []*net.IPNet
	suspicious atomic.Int64
}

// NewDetector returns a detector that trusts loopback and RFC 1918 ranges as
// reverse proxies.
func NewDetector() *Detector {
	d := &Detector{}
	for _, cidr := range []string{"127.0.0.0/8", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"} {
		if err := d.AddTrustedProxy(cidr); err != nil {
			panic(err)
		}
	}
	return d
}

// AddTrustedProxy adds a network whose forwarded headers will be honored.
func (d *Detector) AddTrustedProxy(cidr string) error {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		return fmt.Errorf("invalid trusted proxy CIDR %s: %w", cidr, err)
	}
	d.trusted = append(d.trusted, network)
	return nil
}

// Flag reports whether the request looks like a scan or probe rather than a
// real client. Flagged requests are counted but not blocked; blocking is the
// caller's call.
func (d *Detector) Flag(r *http.Request) bool {
	flagged := d.isProbe(r)
	if flagged {
		d.suspicious.Add(1)
	}
	return flagged
}

func (d *Detector) isProbe(r *http.Request) bool {
	target := strings.ToLower(r.URL.Path + "?" + r.URL.RawQuery)
	for _, p := range probePatterns {
		if strings.Contains(target, p) {
			return true
		}
	}

	agent := strings.ToLower(r.Header.Get("User-Agent"))
	for _, a := range scannerAgents {
		if strings.Contains(agent, a) {
			return true
		}
	}

	switch r.Method {
	case "TRACE", "TRACK", "DEBUG", "CONNECT":
		return true
	}

	if len(r.URL.String()) > maxURLLength {
		return true
	}

	// A long proxy chain in X-Forwarded-For usually means header spoofing.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" && strings.Count(xff, ",") > 5 {
		return true
	}

	return false
}

// SuspiciousCount returns how many requests have been flagged since startup.
func (d *Detector) SuspiciousCount() int64 {
	return d.suspicious.Load()
}

// ExtractClientIP resolves the originating client IP. Forwarded headers are
// only honored when the direct peer is a trusted proxy; otherwise anyone
// could spoof their address.
func (d *Detector) ExtractClientIP(r *http.Request) string {
	direct, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		direct = r.RemoteAddr
	}

	peer := net.ParseIP(direct)
	if peer == nil || !d.isTrustedProxy(peer) {
		return direct
	}

	if forwarded := forwardedIP(r); forwarded != "" {
		return forwarded
	}
	return direct
}

// forwardedIP returns the first valid IP claimed by X-Forwarded-For, falling
// back to X-Real-IP.
func forwardedIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
		if net.ParseIP(first) != nil {
			return first
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if net.ParseIP(xri) != nil {
			return xri
		}
	}
	return ""
}

func (d *Detector) isTrustedProxy(ip net.IP) bool {
	for _, network := range d.trusted {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
