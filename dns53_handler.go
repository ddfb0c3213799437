package main

import (
	"github.com/miekg/dns"
)

type Dns53Handler struct {
	Resolver *FallbackResolver
}

func NewDns53Handler(rsv *FallbackResolver) (h *Dns53Handler) {
	return &Dns53Handler{Resolver: rsv}
}

// ServeDNS answers A, AAAA and SRV questions through the fallback
// resolver; anything else is refused. Resolution exhaustion maps to
// SERVFAIL.
func (h *Dns53Handler) ServeDNS(w dns.ResponseWriter, msgReq *dns.Msg) {
	var question_ dns.Question
	if len(msgReq.Question) > 0 {
		question_ = msgReq.Question[0]
	} else {
		h.refuse(w, msgReq, dns.RcodeFormatError)
		return
	}
	var mode_ Mode
	switch question_.Qtype {
	case dns.TypeA:
		mode_ = ModeIPv4
	case dns.TypeAAAA:
		mode_ = ModeIPv6
	case dns.TypeSRV:
		mode_ = ModeSrv
	default:
		h.refuse(w, msgReq, dns.RcodeRefused)
		return
	}
	answer_, err := h.Resolver.Resolve(dns.Fqdn(question_.Name), mode_)
	if err != nil {
		log.Error(err)
		h.refuse(w, msgReq, dns.RcodeServerFailure)
		return
	}
	msgRsp_ := new(dns.Msg)
	msgRsp_.SetReply(msgReq)
	msgRsp_.RecursionAvailable = true
	msgRsp_.Answer = answer_.Records
	msgRsp_.Extra = answer_.Additional
	if err = w.WriteMsg(msgRsp_); err != nil {
		log.Error(err)
	}
}

func (h *Dns53Handler) refuse(w dns.ResponseWriter, msgReq *dns.Msg, rcode int) {
	msgRsp_ := new(dns.Msg)
	msgRsp_.SetRcode(msgReq, rcode)
	if err := w.WriteMsg(msgRsp_); err != nil {
		log.Error(err)
	}
}
