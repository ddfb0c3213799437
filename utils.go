package main

import (
	"net"
	"net/netip"
	"os"
	"regexp"
	"strconv"
	"strings"
)

func SliceContains[T string | int | uint | int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 |
	float32 | float64](s []T, e T) bool {

	for _, a := range s {
		if a == e {
			return true
		}
	}
	return false
}

func ConcatSlices[T any](first []T, second []T) []T {
	n := len(first)
	return append(first[:n:n], second...)
}

func PathExists(filePath string) bool {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return false
	}
	return true
}

func ListenAddrPortAvailable(addrPort string) bool {
	if _, err := netip.ParseAddrPort(addrPort); err == nil {
		return true
	}
	// Match :port pattern.
	pattern_, _ := regexp.Compile(`:[1-9][0-9]+`)
	if matched_ := pattern_.Match([]byte(addrPort)); matched_ {
		port_ := strings.TrimLeft(addrPort, ":")
		if portNum, err := strconv.Atoi(port_); err == nil && portNum > 0 && portNum < 65536 {
			return true
		}
	}
	return false
}

// ObtainIPFromString parses a literal IPv4 or IPv6 address, returning nil
// for anything that still needs a lookup. It doubles as the resolver's
// literal-address predicate.
func ObtainIPFromString(ipStr string) net.IP {
	trimmedIPStr_ := strings.TrimSpace(ipStr)
	if ip, _, err := net.ParseCIDR(trimmedIPStr_); err == nil {
		return ip
	} else if ip := net.ParseIP(trimmedIPStr_); ip != nil {
		return ip
	} else {
		return nil
	}
}
