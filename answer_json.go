package main

import (
	"fmt"

	"github.com/miekg/dns"
)

type JsonRecordModel struct {
	Name string `json:"name"`
	Type uint16 `json:"type"`
	TTL  uint32 `json:"TTL"`
	Data string `json:"data"`
}

type JsonAnswerModel struct {
	Name       string            `json:"name"`
	Records    []JsonRecordModel `json:"records"`
	Additional []JsonRecordModel `json:"additional,omitempty"`
}

func JsonModelFromAnswer(answer *ResolvedAnswer) (model *JsonAnswerModel) {
	model = &JsonAnswerModel{
		Name:    answer.Name,
		Records: make([]JsonRecordModel, len(answer.Records)),
	}
	for i_, r_ := range answer.Records {
		model.Records[i_] = jsonRecordFromRR(r_)
	}
	for _, r_ := range answer.Additional {
		model.Additional = append(model.Additional, jsonRecordFromRR(r_))
	}
	return
}

func jsonRecordFromRR(r dns.RR) (rec JsonRecordModel) {
	rec = JsonRecordModel{
		Name: r.Header().Name,
		Type: r.Header().Rrtype,
		TTL:  r.Header().Ttl,
	}
	switch rr := r.(type) {
	case *dns.A:
		rec.Data = rr.A.String()
	case *dns.AAAA:
		rec.Data = rr.AAAA.String()
	case *dns.SRV:
		rec.Data = fmt.Sprintf("%d %d %d %s", rr.Priority, rr.Weight, rr.Port, rr.Target)
	default:
		rec.Data = r.String()
	}
	return
}
