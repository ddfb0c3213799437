package main

import (
	"flag"
	"fmt"
	"github.com/gin-gonic/gin"
	"github.com/miekg/dns"
	logger "github.com/sirupsen/logrus"
	"net/url"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"
)

const CurrentVersion = "v0.3.0"
const DefaultHttpListen = "127.0.0.1:15380"

var (
	configFileFlag = flag.String(
		"config",
		"",
		"use config file (yaml format)",
	)
	upstreamFlag = flag.String(
		"upstream",
		"udp://9.9.9.11:53,udp://149.112.112.11:53",
		"Upstream nameserver endpoints in priority order, first entry is tried first, "+
			"e.g. udp://9.9.9.11:53,tcp://149.112.112.11:53",
	)
	upstreamDohFlag = flag.Bool(
		"upstream-doh",
		false,
		"If upstream endpoints are DNS-over-HTTPS urls, e.g. https://9.9.9.11/dns-query.",
	)
	upstreamHttp3Flag = flag.Bool(
		"upstream-http3",
		false,
		"If DoH upstream endpoints transfer over HTTP/3.",
	)
	resolveTimeoutMsFlag = flag.Int(
		"resolve-timeout-ms",
		DefaultResolveTimeoutMs,
		"Per-attempt resolve timeout in milliseconds; each endpoint gets a fresh full window.",
	)
	dns53Flag = flag.Bool(
		"dns53", false, "Enable dns53 service.",
	)
	dns53ListenFlag = flag.String(
		"dns53-listen",
		"udp://:53,tcp://:53", "Set dns53 service listen port.",
	)
	httpFlag = flag.Bool(
		"http",
		false,
		"Enable http lookup service.",
	)
	httpListenFlag = flag.String(
		"http-listen",
		DefaultHttpListen, "Set http lookup service listen port.",
	)
	httpPathFlag = flag.String(
		"http-path",
		"/resolve",
		"Http lookup endpoint path.",
	)
	httpTlsFlag = flag.Bool(
		"http-tls",
		false,
		"Enable http lookup service over TLS, default on clear http.",
	)
	httpTlsCertFlag = flag.String(
		"http-tls-cert",
		"",
		"Specify tls cert path.",
	)
	httpTlsKeyFlag = flag.String(
		"http-tls-key",
		"",
		"Specify tls key path.",
	)
	cacheFlag = flag.Bool(
		"cache",
		true,
		"Enable cache for resolved answers.",
	)
	cacheBackendFLag = flag.String(
		"cache-backend",
		CacheTypeInternal,
		"Specify cache backend",
	)
	redisURIFLag = flag.String(
		"redis-uri",
		"",
		"Specify redis uri for caching",
	)
	logLevelFlag = flag.String(
		"loglevel",
		"info",
		"Set log level.",
	)
	versionFlag = flag.Bool(
		"version",
		false,
		"Print version info.",
	)
)

var log = &logger.Logger{
	Out: os.Stdout,
	Formatter: &logger.TextFormatter{
		CallerPrettyfier: func(caller *runtime.Frame) (function string, file string) {
			function = ""
			_, filename_ := path.Split(caller.File)
			file = fmt.Sprintf("%s:%d", filename_, caller.Line)
			return
		},
		TimestampFormat: "2006-01-02T15:04:05",
	},
	Level:        logger.DebugLevel,
	ReportCaller: true,
}

var ExecResolver *FallbackResolver

func printVersion() {
	fmt.Println(CurrentVersion)
}

func fillExecConfigFromFlags() {
	ExecConfig.Upstream = *upstreamFlag
	if *upstreamDohFlag {
		ExecConfig.UpstreamProto = UpstreamProtoDoh
	} else {
		ExecConfig.UpstreamProto = UpstreamProtoDns53
	}
	ExecConfig.UpstreamHttp3 = *upstreamHttp3Flag
	ExecConfig.ResolveTimeoutMs = *resolveTimeoutMsFlag

	ExecConfig.Dns53Config.Enabled = *dns53Flag
	ExecConfig.Dns53Config.Listen = *dns53ListenFlag

	ExecConfig.HttpConfig.Enabled = *httpFlag
	ExecConfig.HttpConfig.Listen = *httpListenFlag
	ExecConfig.HttpConfig.Path = *httpPathFlag
	ExecConfig.HttpConfig.UseTls = *httpTlsFlag
	ExecConfig.HttpConfig.TLSCertFile = *httpTlsCertFlag
	ExecConfig.HttpConfig.TLSKeyFile = *httpTlsKeyFlag

	ExecConfig.CacheEnabled = *cacheFlag
	ExecConfig.CacheBackend = *cacheBackendFLag
	ExecConfig.RedisURI = *redisURIFLag
	ExecConfig.LogLevel = *logLevelFlag
}

func main() {

	// Exit on some signals.
	termSig_ := make(chan os.Signal, 1)
	signal.Notify(termSig_, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig_ := <-termSig_
		fmt.Printf("*** Terminating from signal [%+v] ***\n", sig_)
		os.Exit(0)
	}()

	flag.Usage = func() {
		_, execPath_ := filepath.Split(os.Args[0])
		_, _ = fmt.Fprint(os.Stderr, "Failover stub DNS resolver.\n\n")
		_, _ = fmt.Fprint(os.Stderr, "Version: "+CurrentVersion+".\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage:\n\n  %s [options]\n\nOptions:\n\n", execPath_)
		flag.PrintDefaults()
	}
	flag.Parse()
	if *configFileFlag != "" && PathExists(*configFileFlag) {
		ReadConfigFromFile(*configFileFlag)
	} else {
		fillExecConfigFromFlags()
	}

	if *versionFlag {
		printVersion()
		return
	}

	fmt.Println("*** Starting ***")

	// Set the loglevel
	logLevel_, err := logger.ParseLevel(ExecConfig.LogLevel)
	if err != nil {
		log.Warnf("invalid log level: %v", err)
	}
	log.SetLevel(logLevel_)

	initExecResolver()

	chHttpSvc_, chDns53Svc_ := make(chan error), make(chan error)

	if ExecConfig.HttpConfig.Enabled {
		go serveHttpSvc(chHttpSvc_)
	}

	if ExecConfig.Dns53Config.Enabled {
		go serveDns53Svc(chDns53Svc_)
	}

	// Log services exit errors.
	if ExecConfig.HttpConfig.Enabled {
		serveHttpErr_ := <-chHttpSvc_
		log.Infof("http lookup service exit: %+v", serveHttpErr_)
	}
	if ExecConfig.Dns53Config.Enabled {
		serveDns53Err_ := <-chDns53Svc_
		log.Infof("dns53 service exit: %+v", serveDns53Err_)
	}
	os.Exit(0)
}

// initExecResolver builds the endpoint list in configured priority order
// and wires it with the cache into the shared resolver.
func initExecResolver() {
	if !SliceContains([]string{UpstreamProtoDns53, UpstreamProtoDoh}, ExecConfig.UpstreamProto) {
		log.Warnf("unknown upstream_proto %q, using %s", ExecConfig.UpstreamProto, UpstreamProtoDns53)
		ExecConfig.UpstreamProto = UpstreamProtoDns53
	}
	var endpoints_ []Endpoint
	for _, edp := range strings.Split(ExecConfig.Upstream, ",") {
		edp = strings.TrimSpace(edp)
		if edp == "" {
			continue
		}
		if ExecConfig.UpstreamProto == UpstreamProtoDoh {
			endpoints_ = append(endpoints_, NewDohEndpoint(edp, ExecConfig.UpstreamHttp3))
		} else {
			endpoints_ = append(endpoints_, NewDns53Endpoint(edp))
		}
	}
	cacheOptions_ := &CacheOptions{cacheType: ExecConfig.CacheBackend, redisURI: ExecConfig.RedisURI}
	ExecResolver = NewFallbackResolver(endpoints_,
		time.Duration(ExecConfig.ResolveTimeoutMs)*time.Millisecond,
		ExecConfig.CacheEnabled, cacheOptions_)
}

func serveHttpSvc(c chan error) {
	// Set Gin mode referred to loglevel.
	var err error
	if logLevel_, err := logger.ParseLevel(ExecConfig.LogLevel); err == nil && logLevel_ >= logger.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router_ := gin.Default()
	err = router_.SetTrustedProxies([]string{"0.0.0.0/0", "::/0"})
	if err != nil {
		c <- err
		return
	}
	router_.RemoteIPHeaders = []string{"X-Real-IP"}

	lookupHandler_ := NewHttpLookupHandler(ExecResolver)

	// Routes.
	router_.GET(ExecConfig.HttpConfig.Path, lookupHandler_.ResolveGetHandler)
	router_.GET("/healthz", func(context *gin.Context) {
		context.String(200, "ok")
	})

	listenAddr_ := DefaultHttpListen
	if ExecConfig.HttpConfig.Listen != "" && !ListenAddrPortAvailable(ExecConfig.HttpConfig.Listen) {
		c <- fmt.Errorf("http listen config invalid: %s", ExecConfig.HttpConfig.Listen)
		return
	} else {
		listenAddr_ = ExecConfig.HttpConfig.Listen
	}
	if ExecConfig.HttpConfig.UseTls {
		if !PathExists(ExecConfig.HttpConfig.TLSCertFile) || !PathExists(ExecConfig.HttpConfig.TLSKeyFile) {
			c <- fmt.Errorf("missing tls cert or key")
			return
		}
		err = router_.RunTLS(listenAddr_,
			ExecConfig.HttpConfig.TLSCertFile,
			ExecConfig.HttpConfig.TLSKeyFile,
		)
		c <- err
		return
	}
	err = router_.Run(listenAddr_)
	c <- err
}

func serveDns53Svc(c chan error) {
	dns53Handler_ := NewDns53Handler(ExecResolver)
	dns.HandleFunc(".", dns53Handler_.ServeDNS)
	dns53ListenAddrs_ := strings.Split(ExecConfig.Dns53Config.Listen, ",")
	var dns53CHs_ []chan error
	for i := range dns53ListenAddrs_ {
		url_, err := url.Parse(strings.TrimSpace(dns53ListenAddrs_[i]))
		if err != nil {
			c <- err
			return
		}
		if !ListenAddrPortAvailable(url_.Host) {
			continue
		}
		if strings.ToLower(url_.Scheme) == "udp" {
			c_ := make(chan error)
			dns53CHs_ = append(dns53CHs_, c_)
			go serveDns53UDP(url_.Host, c_)
			log.Infof("dns53 listening on %s", url_.String())
		} else if strings.ToLower(url_.Scheme) == "tcp" {
			c_ := make(chan error)
			dns53CHs_ = append(dns53CHs_, c_)
			go serveDns53TCP(url_.Host, c_)
			log.Infof("dns53 listening on %s", url_.String())
		}
	}
	// Collect dns53 services errors.
	var errs_ []error
	for _, c_ := range dns53CHs_ {
		if err_ := <-c_; err_ != nil {
			errs_ = append(errs_, err_)
		}
	}
	if len(errs_) > 0 {
		c <- fmt.Errorf("%+v", errs_)
		return
	}
	c <- nil
}

func serveDns53TCP(addr string, c chan error) {
	server := &dns.Server{Addr: addr, Net: "tcp", Handler: nil, TsigSecret: nil}
	if err := server.ListenAndServe(); err != nil {
		log.Errorf("Failed to setup the %s dns53 server on %s: %v", "tcp", addr, err)
	}
	c <- nil
}

func serveDns53UDP(addr string, c chan error) {
	server := &dns.Server{Addr: addr, Net: "udp", Handler: nil, TsigSecret: nil}
	if err := server.ListenAndServe(); err != nil {
		log.Errorf("Failed to setup the %s dns53 server on %s: %v", "udp", addr, err)
	}
	c <- nil
}
