package main

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gojek/heimdall/v7"
	"github.com/gojek/heimdall/v7/hystrix"
	"github.com/miekg/dns"
	"github.com/quic-go/quic-go/http3"
)

const HttpClientMaxConcurrency = 64

// DohEndpoint is a single DNS-over-HTTPS nameserver. Retries and backoff
// inside one attempt belong to the http client; failing the whole attempt
// hands control back to the resolver's fallback sweep.
type DohEndpoint struct {
	url        string
	httpClient *hystrix.Client
}

func NewDohEndpoint(endpoint string, ifHttp3 bool) (ep *DohEndpoint) {
	httpClient_ := &http.Client{}
	if ifHttp3 {
		httpClient_.Transport = &http3.RoundTripper{}
	}
	ep = &DohEndpoint{
		url: strings.TrimSpace(endpoint),
		httpClient: hystrix.NewClient(
			hystrix.WithHTTPClient(httpClient_),
			hystrix.WithHTTPTimeout(9*time.Second),
			hystrix.WithHystrixTimeout(15*time.Second),
			hystrix.WithMaxConcurrentRequests(HttpClientMaxConcurrency),
			hystrix.WithRequestVolumeThreshold(40),
			hystrix.WithErrorPercentThreshold(50),
			hystrix.WithSleepWindow(8),
			hystrix.WithRetryCount(2),
			hystrix.WithRetrier(heimdall.NewRetrier(heimdall.NewExponentialBackoff(
				time.Millisecond*50, time.Second*1, 1.8, time.Millisecond*20,
			))),
		),
	}
	return
}

func (ep *DohEndpoint) Name() string {
	return ep.url
}

func (ep *DohEndpoint) Ask(q Question, replyCh chan<- Reply) {
	go func() {
		msgRsp_, err := ep.exchange(q)
		if err != nil {
			replyCh <- Reply{ID: q.ID, Err: err}
			return
		}
		replyCh <- replyFromMsg(ep.Name(), q, msgRsp_)
	}()
}

func (ep *DohEndpoint) exchange(q Question) (msgRsp *dns.Msg, err error) {
	msgReq_ := new(dns.Msg)
	msgReq_.SetQuestion(dns.Fqdn(q.Name), q.Kind)
	msgReq_.RecursionDesired = true
	msgBytes_, err := msgReq_.Pack()
	if err != nil {
		return
	}
	msgBase64_ := base64.RawURLEncoding.EncodeToString(msgBytes_)
	httpRsp_, err := ep.httpClient.Get(
		fmt.Sprintf("%s?dns=%s", ep.url, msgBase64_),
		http.Header{"Accept": []string{"application/dns-message"}},
	)
	defer func() {
		if httpRsp_ != nil && httpRsp_.Body != nil {
			_ = httpRsp_.Body.Close()
		}
	}()
	if err != nil {
		return
	}
	if httpRsp_.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("endpoint %s answered http status %s", ep.url, httpRsp_.Status)
	}
	buf_, err := io.ReadAll(httpRsp_.Body)
	if err != nil {
		return
	}
	msgRsp = new(dns.Msg)
	err = msgRsp.Unpack(buf_)
	if err != nil {
		return nil, err
	}
	log.Tracef("got reply from upstream: %v", msgRsp.String())
	return
}
