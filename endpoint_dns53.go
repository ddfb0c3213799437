package main

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/buraksezer/connpool"
	"github.com/miekg/dns"
)

// Dns53Endpoint is a single plain-DNS nameserver reachable over udp or
// tcp. TCP endpoints keep a small connection pool.
type Dns53Endpoint struct {
	addr    string
	network string
	client  *dns.Client
	pool    connpool.Pool
}

func NewDns53Endpoint(endpoint string) (ep *Dns53Endpoint) {
	url_, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil {
		panic(err)
	}
	scheme_ := strings.ToLower(url_.Scheme)
	if (scheme_ != "udp" && scheme_ != "tcp") || !ListenAddrPortAvailable(url_.Host) {
		panic(fmt.Sprintf("endpoint not usable, should be like udp://8.8.8.8:53 or tcp://8.8.8.8:53, got %s", endpoint))
	}
	ep = &Dns53Endpoint{
		addr:    url_.Host,
		network: scheme_,
		client:  &dns.Client{Net: scheme_},
	}
	if scheme_ == "tcp" {
		factory_ := func() (net.Conn, error) {
			log.Infof("new connection to: %s", ep.addr)
			return net.Dial("tcp", ep.addr)
		}
		pool_, errPool_ := connpool.NewChannelPool(2, 32, factory_)
		if errPool_ != nil {
			panic(errPool_)
		}
		ep.pool = pool_
	}
	return
}

func (ep *Dns53Endpoint) Name() string {
	return ep.network + "://" + ep.addr
}

func (ep *Dns53Endpoint) Ask(q Question, replyCh chan<- Reply) {
	go func() {
		msgRsp_, err := ep.exchange(q)
		if err != nil {
			replyCh <- Reply{ID: q.ID, Err: err}
			return
		}
		replyCh <- replyFromMsg(ep.Name(), q, msgRsp_)
	}()
}

func (ep *Dns53Endpoint) exchange(q Question) (msgRsp *dns.Msg, err error) {
	msgReq_ := new(dns.Msg)
	msgReq_.SetQuestion(dns.Fqdn(q.Name), q.Kind)
	msgReq_.RecursionDesired = true
	if ep.pool == nil {
		msgRsp, _, err = ep.client.Exchange(msgReq_, ep.addr)
		return
	}
	netCon_, err := ep.pool.Get(context.Background())
	if err != nil {
		return nil, err
	}
	msgRsp, rtt_, err := ep.client.ExchangeWithConn(msgReq_, &dns.Conn{Conn: netCon_})
	if err != nil {
		if pc_, ok := netCon_.(*connpool.PoolConn); ok {
			pc_.MarkUnusable()
			if errClose_ := pc_.Close(); errClose_ != nil {
				log.Error(errClose_)
			}
		}
		return nil, err
	}
	if errClose_ := netCon_.Close(); errClose_ != nil {
		log.Error(errClose_)
	}
	log.Debugf("got reply to question: %s, %s, %+v", q.Name, dns.TypeToString[q.Kind], rtt_)
	return
}
