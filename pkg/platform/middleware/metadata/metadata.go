package metadata

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"pwpolicy/pkg/requestcontext"
)

// UnknownClientIP is recorded when no address can be derived from the request.
const UnknownClientIP = "unknown"

// ParseTrustedProxies parses addresses and CIDR ranges like "10.0.0.0/8" or
// "192.0.2.1". Blank entries are skipped.
func ParseTrustedProxies(values []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if strings.Contains(v, "/") {
			p, err := netip.ParsePrefix(v)
			if err != nil {
				return nil, fmt.Errorf("parse trusted proxy %q: %w", v, err)
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(v)
		if err != nil {
			return nil, fmt.Errorf("parse trusted proxy %q: %w", v, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// ClientMetadata extracts client IP address and User-Agent from the request
// and adds them to the context. The policy service records the IP alongside
// every stored password fingerprint, so this middleware must run before it.
//
// Forwarding headers are honored only when the direct peer is in trusted.
func ClientMetadata(trusted []netip.Prefix) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithClientMetadata(r.Context(), ClientIPFromRequest(r, trusted), r.Header.Get("User-Agent"))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClientIPFromRequest returns the caller's address. When the peer is a trusted
// proxy, X-Forwarded-For is walked right to left and the first hop that is not
// itself a trusted proxy wins; X-Real-IP is used when X-Forwarded-For is absent.
func ClientIPFromRequest(r *http.Request, trusted []netip.Prefix) string {
	peer := remoteHost(r.RemoteAddr)
	if peer == "" {
		return UnknownClientIP
	}
	if !isTrusted(peer, trusted) {
		return peer
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop == "" {
				continue
			}
			if !isTrusted(hop, trusted) {
				return hop
			}
		}
		// every hop is a proxy we run; the leftmost is the closest to the client
		if first := strings.TrimSpace(hops[0]); first != "" {
			return first
		}
	}

	// Used by nginx and other proxies
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return peer
}

func remoteHost(addr string) string {
	if addr == "" {
		return ""
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

func isTrusted(ip string, trusted []netip.Prefix) bool {
	if len(trusted) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
