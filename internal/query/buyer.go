package query

import (
	"net"
	"net/http"
	"strings"
)

// LoopbackAddress is the buyer address used when nothing better is known.
const LoopbackAddress = "::1"

// BuyerIPHeaders lists the forwarding headers probed for the buyer address,
// highest priority first.
var BuyerIPHeaders = []string{
	"X-Forwarded-For",
	"CF-Connecting-IP",
	"X-Real-IP",
	"X-Client-IP",
	"X-Cluster-Client-IP",
	"X-Forwarded",
	"Forwarded-For",
	"Forwarded",
}

// ResolveBuyerIP returns the first non-empty of explicit, clientAddr and the
// forwarding headers in BuyerIPHeaders order, or LoopbackAddress.
func ResolveBuyerIP(explicit, clientAddr string, h http.Header) string {
	if v := strings.TrimSpace(explicit); v != "" {
		return v
	}
	if v := strings.TrimSpace(clientAddr); v != "" {
		return v
	}
	for _, name := range BuyerIPHeaders {
		if v := strings.TrimSpace(h.Get(name)); v != "" {
			return v
		}
	}
	return LoopbackAddress
}

// ClientAddr extracts the host part of an http.Request RemoteAddr.
func ClientAddr(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
