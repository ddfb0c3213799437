package main

import (
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"
)

// ResolveError is the terminal failure of one resolution, raised after
// every configured endpoint failed or timed out for a required question.
type ResolveError struct {
	Name string
	Kind uint16
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve %s: all endpoints failed or timed out for %s question",
		e.Name, dns.TypeToString[e.Kind])
}

// FallbackResolver drives one resolution from request to terminal answer
// or failure: literal-address short circuit, cache lookup, then elementary
// questions swept over the endpoint list in priority order.
type FallbackResolver struct {
	endpoints    []Endpoint
	cache        Cache
	useCache     bool
	timeout      time.Duration
	parseLiteral func(string) net.IP
}

func NewFallbackResolver(endpoints []Endpoint, timeout time.Duration,
	useCache bool, cacheOptions *CacheOptions) (rsv *FallbackResolver) {

	if len(endpoints) == 0 {
		panic("no endpoints configured, need at least one like udp://9.9.9.11:53")
	}
	rsv = &FallbackResolver{
		endpoints:    endpoints,
		timeout:      timeout,
		useCache:     useCache,
		parseLiteral: ObtainIPFromString,
	}
	if rsv.useCache {
		if cacheOptions.cacheType == CacheTypeRedis {
			rsv.cache = NewCacheRedis(cacheOptions.redisURI)
		} else {
			rsv.cache = NewCacheInternal()
		}
	}
	return
}

// Resolve is safe for concurrent callers; each call is an independent
// sequential flow with its own correlation id sequence.
func (rsv *FallbackResolver) Resolve(name string, mode Mode) (answer *ResolvedAnswer, err error) {
	// Literal addresses resolve to themselves, no endpoint and no cache
	// entry involved.
	if ip_ := rsv.parseLiteral(name); ip_ != nil {
		return literalAnswer(name, ip_), nil
	}

	cacheKey_ := ResolveCacheKey(name, mode)
	if rsv.useCache {
		if cached_, ok_ := rsv.cache.Get(cacheKey_); ok_ {
			log.Debugf("cache hit: %s", cacheKey_)
			return cached_, nil
		}
	}

	log.Debugf("resolving %s [%v] over %d endpoints", name, mode, len(rsv.endpoints))
	gen_ := &correlationGen{}
	// Buffered for every reply this resolution could ever receive, so a
	// late endpoint goroutine never blocks on an abandoned attempt.
	replyCh_ := make(chan Reply, 2*len(rsv.endpoints)+1)

	answer = &ResolvedAnswer{Name: name}
	if mode == ModeSrv {
		rpl_, errSrv_ := rsv.sweep(name, dns.TypeSRV, gen_, replyCh_)
		if errSrv_ != nil {
			return nil, errSrv_
		}
		answer.Records = rpl_.Records
		answer.Additional = rpl_.Additional
	} else {
		// A before AAAA; the second family is only queried after the
		// first has terminated, and the first sweep failing fails the
		// whole resolution.
		if mode.wantA() {
			rpl_, errA_ := rsv.sweep(name, dns.TypeA, gen_, replyCh_)
			if errA_ != nil {
				return nil, errA_
			}
			answer.Records = ConcatSlices(answer.Records, rpl_.Records)
		}
		if mode.wantAAAA() {
			rpl_, errAAAA_ := rsv.sweep(name, dns.TypeAAAA, gen_, replyCh_)
			if errAAAA_ != nil {
				return nil, errAAAA_
			}
			answer.Records = ConcatSlices(answer.Records, rpl_.Records)
		}
	}

	if rsv.useCache {
		rsv.cache.Set(cacheKey_, answer, answer.ObtainMinimalTTL())
	}
	return answer, nil
}

// sweep runs one elementary question across the endpoint list in priority
// order. Every attempt gets a fresh correlation id and a full timeout
// window; an explicit failure or a timeout advances to the next endpoint,
// a reply with a mismatched id is a leftover of an abandoned attempt and
// is discarded without consuming the current one.
func (rsv *FallbackResolver) sweep(name string, kind uint16,
	gen *correlationGen, replyCh chan Reply) (rpl Reply, err error) {

attemptLoop:
	for _, ep_ := range rsv.endpoints {
		id_ := gen.Next()
		log.Debugf("asking %s: %s %s id=%d", ep_.Name(), name, dns.TypeToString[kind], id_)
		ep_.Ask(Question{ID: id_, Name: name, Kind: kind}, replyCh)
		timer_ := time.NewTimer(rsv.timeout)
		for {
			select {
			case rpl = <-replyCh:
				if rpl.ID != id_ {
					log.Debugf("discarding stale reply id=%d while awaiting id=%d", rpl.ID, id_)
					continue
				}
				timer_.Stop()
				if rpl.Err != nil {
					log.Warnf("endpoint %s failed for %s %s: %v",
						ep_.Name(), name, dns.TypeToString[kind], rpl.Err)
					continue attemptLoop
				}
				return rpl, nil
			case <-timer_.C:
				log.Warnf("endpoint %s timed out for %s %s after %v",
					ep_.Name(), name, dns.TypeToString[kind], rsv.timeout)
				continue attemptLoop
			}
		}
	}
	return Reply{}, &ResolveError{Name: name, Kind: kind}
}

func literalAnswer(name string, ip net.IP) (answer *ResolvedAnswer) {
	hdr_ := dns.RR_Header{Name: dns.Fqdn(name), Class: dns.ClassINET, Ttl: ForeverTTL}
	var rec_ dns.RR
	if ip4_ := ip.To4(); ip4_ != nil {
		hdr_.Rrtype = dns.TypeA
		rec_ = &dns.A{Hdr: hdr_, A: ip4_}
	} else {
		hdr_.Rrtype = dns.TypeAAAA
		rec_ = &dns.AAAA{Hdr: hdr_, AAAA: ip.To16()}
	}
	return &ResolvedAnswer{Name: name, Records: []dns.RR{rec_}}
}
