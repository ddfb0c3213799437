package main

import (
	"fmt"
	"math"

	"github.com/miekg/dns"
)

// ForeverTTL marks synthetic records for literal-address lookups, which
// never go stale.
const ForeverTTL uint32 = math.MaxInt32

type Mode uint8

const (
	ModeIPv4 Mode = iota + 1
	ModeIPv6
	ModeDual
	ModeSrv
)

func (m Mode) wantA() bool {
	return m == ModeIPv4 || m == ModeDual
}

func (m Mode) wantAAAA() bool {
	return m == ModeIPv6 || m == ModeDual
}

func (m Mode) String() string {
	switch m {
	case ModeIPv4:
		return "ipv4"
	case ModeIPv6:
		return "ipv6"
	case ModeDual:
		return "ip"
	case ModeSrv:
		return "srv"
	default:
		return "unknown"
	}
}

// Question is one elementary query sent to a single endpoint. A fresh ID
// is minted for every attempt, including retries against another endpoint.
type Question struct {
	ID   uint64
	Name string
	Kind uint16 // dns.TypeA, dns.TypeAAAA or dns.TypeSRV
}

// Reply carries an endpoint's answer (or explicit failure) back to the
// resolver, tagged with the question's correlation id.
type Reply struct {
	ID         uint64
	Records    []dns.RR
	Additional []dns.RR
	Err        error
}

// ResolvedAnswer is the terminal success value of one resolution; it is
// also what the cache stores. Additional holds glue records, e.g. A
// records for SRV targets.
type ResolvedAnswer struct {
	Name       string
	Records    []dns.RR
	Additional []dns.RR
}

// ObtainMinimalTTL returns the smallest record TTL in the answer, floored
// at a reasonable initial value so empty or zero-TTL answers still cache
// briefly.
func (answer *ResolvedAnswer) ObtainMinimalTTL() (ttl uint32) {
	var initTTL uint32 = 15
	var minTTLInAnswer uint32 = 0
	for _, r_ := range ConcatSlices(answer.Records, answer.Additional) {
		if minTTLInAnswer == 0 || r_.Header().Ttl < minTTLInAnswer {
			minTTLInAnswer = r_.Header().Ttl
		}
	}
	if minTTLInAnswer < initTTL {
		minTTLInAnswer = initTTL
	}
	return minTTLInAnswer
}

func ResolveCacheKey(name string, mode Mode) string {
	return fmt.Sprintf("NAME[%s]MODE[%d]", name, mode)
}
