package main

import (
	"testing"

	"github.com/miekg/dns"
)

func TestResolvedAnswer_ObtainMinimalTTL(t *testing.T) {
	tests := []struct {
		name   string
		answer *ResolvedAnswer
		want   uint32
	}{
		{
			name: "minimum_across_records",
			answer: &ResolvedAnswer{Records: []dns.RR{
				aRecord("t.tt", "192.0.2.30", 300),
				aaaaRecord("t.tt", "2001:db8::30", 120),
			}},
			want: 120,
		},
		{
			name: "additional_counts",
			answer: &ResolvedAnswer{
				Records:    []dns.RR{srvRecord("t.tt", "node1.t.tt", 8080)},
				Additional: []dns.RR{aRecord("node1.t.tt", "192.0.2.31", 30)},
			},
			want: 30,
		},
		{
			name:   "empty_answer_floors",
			answer: &ResolvedAnswer{},
			want:   15,
		},
		{
			name: "low_ttl_floors",
			answer: &ResolvedAnswer{Records: []dns.RR{
				aRecord("t.tt", "192.0.2.32", 2),
			}},
			want: 15,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got_ := tt.answer.ObtainMinimalTTL(); got_ != tt.want {
				t.Errorf("ObtainMinimalTTL() = %d, want %d", got_, tt.want)
			}
		})
	}
}

func TestResolveCacheKey_ModeDistinct(t *testing.T) {
	keys_ := map[string]bool{}
	for _, mode_ := range []Mode{ModeIPv4, ModeIPv6, ModeDual, ModeSrv} {
		keys_[ResolveCacheKey("t.tt", mode_)] = true
	}
	if len(keys_) != 4 {
		t.Errorf("cache keys collide across modes: %v", keys_)
	}
	if ResolveCacheKey("a.tt", ModeIPv4) == ResolveCacheKey("b.tt", ModeIPv4) {
		t.Error("cache keys collide across names")
	}
}
