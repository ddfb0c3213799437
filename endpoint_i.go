package main

import (
	"fmt"

	"github.com/miekg/dns"
)

// Endpoint is one configured upstream nameserver client.
type Endpoint interface {
	Name() string
	// Ask sends one question upstream without blocking; the answer or an
	// explicit failure comes back on replyCh tagged with q.ID. Never
	// replying at all is a valid outcome, the caller owns the timeout.
	Ask(q Question, replyCh chan<- Reply)
}

// replyFromMsg maps an upstream dns message to a Reply. SERVFAIL and
// REFUSED are explicit endpoint failures; NOERROR and NXDOMAIN are
// success, NXDOMAIN simply carrying no records.
func replyFromMsg(epName string, q Question, msgRsp *dns.Msg) (rpl Reply) {
	rpl = Reply{ID: q.ID}
	switch msgRsp.Rcode {
	case dns.RcodeServerFailure, dns.RcodeRefused:
		rpl.Err = fmt.Errorf("endpoint %s answered %s for %s %s",
			epName, dns.RcodeToString[msgRsp.Rcode], q.Name, dns.TypeToString[q.Kind])
	default:
		rpl.Records = msgRsp.Answer
		rpl.Additional = msgRsp.Extra
	}
	return
}
