package main

import (
	"testing"

	"github.com/miekg/dns"
)

func TestCacheInternal_GetSet(t *testing.T) {
	cache_ := NewCacheInternal()

	if _, ok := cache_.Get(ResolveCacheKey("t.tt", ModeIPv4)); ok {
		t.Fatal("Get() on empty cache returned an answer")
	}

	answer_ := &ResolvedAnswer{
		Name:    "t.tt",
		Records: []dns.RR{aRecord("t.tt", "192.0.2.20", 300)},
	}
	cache_.Set(ResolveCacheKey("t.tt", ModeIPv4), answer_, 60)

	got_, ok := cache_.Get(ResolveCacheKey("t.tt", ModeIPv4))
	if !ok {
		t.Fatal("Get() missed a freshly stored entry")
	}
	if got_.Records[0].String() != answer_.Records[0].String() {
		t.Errorf("Get() = %v, want %v", got_.Records, answer_.Records)
	}
	if _, ok := cache_.Get(ResolveCacheKey("t.tt", ModeSrv)); ok {
		t.Error("ip-mode entry served for an srv-mode key")
	}
}

func TestCacheInternal_LastWriterWins(t *testing.T) {
	cache_ := NewCacheInternal()
	key_ := ResolveCacheKey("t.tt", ModeIPv4)

	cache_.Set(key_, &ResolvedAnswer{Name: "t.tt",
		Records: []dns.RR{aRecord("t.tt", "192.0.2.21", 300)}}, 60)
	cache_.Set(key_, &ResolvedAnswer{Name: "t.tt",
		Records: []dns.RR{aRecord("t.tt", "192.0.2.22", 300)}}, 60)

	got_, ok := cache_.Get(key_)
	if !ok {
		t.Fatal("Get() missed after overwrite")
	}
	if a_ := got_.Records[0].(*dns.A); a_.A.String() != "192.0.2.22" {
		t.Errorf("Get() address = %s, want the later write 192.0.2.22", a_.A.String())
	}
}
