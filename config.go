package main

import (
	"fmt"
	"gopkg.in/yaml.v3"
	"os"
)

var ExecConfig = ConfigModel{
	Dns53Config: Dns53SvcConfigModel{
		Enabled: false,
		Listen:  "udp://:53,tcp://:53",
	},
	HttpConfig: HttpSvcConfigModel{
		Enabled:     false,
		Listen:      DefaultHttpListen,
		Path:        "/resolve",
		UseTls:      false,
		TLSCertFile: "",
		TLSKeyFile:  "",
	},
	Upstream:         "udp://9.9.9.11:53,udp://149.112.112.11:53",
	UpstreamProto:    UpstreamProtoDns53,
	UpstreamHttp3:    false,
	ResolveTimeoutMs: DefaultResolveTimeoutMs,
	CacheEnabled:     true,
	CacheBackend:     CacheTypeInternal,
	RedisURI:         "",
	LogLevel:         "info",
}

const (
	UpstreamProtoDns53 = "dns53"
	UpstreamProtoDoh   = "doh"

	DefaultResolveTimeoutMs = 5000
)

type Dns53SvcConfigModel struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

type HttpSvcConfigModel struct {
	Enabled     bool   `yaml:"enabled"`
	Listen      string `yaml:"listen"`
	Path        string `yaml:"path"`
	UseTls      bool   `yaml:"use_tls"`
	TLSCertFile string `yaml:"tls_cert_file"`
	TLSKeyFile  string `yaml:"tls_key_file"`
}

type ConfigModel struct {
	Dns53Config Dns53SvcConfigModel `yaml:"dns53"`
	HttpConfig  HttpSvcConfigModel  `yaml:"http"`
	// Upstream is the comma separated endpoint list in priority order;
	// fallback always sweeps it front to back.
	Upstream         string `yaml:"upstream"`
	UpstreamProto    string `yaml:"upstream_proto"`
	UpstreamHttp3    bool   `yaml:"upstream_http3"`
	ResolveTimeoutMs int    `yaml:"resolve_timeout_ms"`
	CacheEnabled     bool   `yaml:"cache_enabled"`
	CacheBackend     string `yaml:"cache_backend"`
	RedisURI         string `yaml:"redis_uri"`
	LogLevel         string `yaml:"log_level"`
}

func ReadConfigFromFile(path string) (config ConfigModel) {
	file, err := os.ReadFile(path)
	if err != nil {
		fmt.Println("Read file error:", err)
		panic(err)
	}
	err = yaml.Unmarshal(file, &config)
	if err != nil {
		fmt.Println("Unmarshal config file error:", err)
		panic(err)
	}
	if config.ResolveTimeoutMs <= 0 {
		config.ResolveTimeoutMs = DefaultResolveTimeoutMs
	}
	ExecConfig = config
	return
}
