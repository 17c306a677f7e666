package source

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ErrUnsafeURL is returned for upstream URLs pointing at local or private
// hosts, or using a scheme the downloader does not speak.
var ErrUnsafeURL = errors.New("unsafe upstream URL")

var (
	cgnat    = mustCIDR("100.64.0.0/10")
	v6unique = mustCIDR("fc00::/7")
)

func mustCIDR(s string) *net.IPNet {
	_, n, err := net.ParseCIDR(s)
	if err != nil {
		panic("invalid CIDR " + s + ": " + err.Error())
	}
	return n
}

// ValidateFileURL checks a configured upstream URL. Sources publish over
// http or https on public hosts; anything else in a config file is a typo or
// an attempt to reach internal services.
func ValidateFileURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsafeURL, err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("%w: scheme %q in %s", ErrUnsafeURL, u.Scheme, redact(raw))
	}

	host := strings.ToLower(u.Hostname())
	switch {
	case host == "":
		return fmt.Errorf("%w: no host in %s", ErrUnsafeURL, redact(raw))
	case host == "localhost",
		strings.HasSuffix(host, ".local"),
		strings.HasSuffix(host, ".internal"):
		return fmt.Errorf("%w: local host %s", ErrUnsafeURL, host)
	}
	if ip := net.ParseIP(host); ip != nil && IsPrivateIP(ip) {
		return fmt.Errorf("%w: private address %s", ErrUnsafeURL, host)
	}
	return nil
}

// IsPrivateIP reports loopback, private, link-local, CGNAT and IPv6 unique
// local addresses. IPv4-mapped IPv6 addresses are checked as IPv4.
func IsPrivateIP(ip net.IP) bool {
	if v4 := ip.To4(); v4 != nil {
		ip = v4
	}
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsUnspecified() {
		return true
	}
	return cgnat.Contains(ip) || v6unique.Contains(ip)
}
