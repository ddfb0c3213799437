package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/miekg/dns"
	"github.com/redis/go-redis/v9"
)

type CacheRedis struct {
	rds *redis.Client
}

func NewCacheRedis(redisURI string) (cache *CacheRedis) {
	opts_, err := redis.ParseURL(redisURI)
	if err != nil {
		log.Errorf("redis uri not usable, should be like redis://localhost:6379: %v", err)
		panic(err)
	}
	return &CacheRedis{rds: redis.NewClient(opts_)}
}

// redisAnswerModel carries a ResolvedAnswer through redis with records in
// presentation format, parsed back with dns.NewRR.
type redisAnswerModel struct {
	Name       string   `json:"name"`
	Records    []string `json:"records"`
	Additional []string `json:"additional,omitempty"`
}

func (cache *CacheRedis) Get(key string) (answer *ResolvedAnswer, ok bool) {
	bytes_, err := cache.rds.Get(context.Background(), key).Bytes()
	if err != nil {
		return nil, false
	}
	var model_ redisAnswerModel
	if err = json.Unmarshal(bytes_, &model_); err != nil {
		log.Errorf("broken cache entry %s: %v", key, err)
		return nil, false
	}
	answer = &ResolvedAnswer{Name: model_.Name}
	if answer.Records, err = parseRRStrings(model_.Records); err != nil {
		log.Errorf("broken cache entry %s: %v", key, err)
		return nil, false
	}
	if answer.Additional, err = parseRRStrings(model_.Additional); err != nil {
		log.Errorf("broken cache entry %s: %v", key, err)
		return nil, false
	}
	return answer, true
}

func (cache *CacheRedis) Set(key string, answer *ResolvedAnswer, ttl uint32) {
	model_ := redisAnswerModel{Name: answer.Name}
	for _, r_ := range answer.Records {
		model_.Records = append(model_.Records, r_.String())
	}
	for _, r_ := range answer.Additional {
		model_.Additional = append(model_.Additional, r_.String())
	}
	bytes_, err := json.Marshal(&model_)
	if err != nil {
		log.Error(err)
		return
	}
	err = cache.rds.SetArgs(context.Background(), key, bytes_,
		redis.SetArgs{TTL: time.Second * time.Duration(ttl)}).Err()
	if err != nil {
		log.Error(err)
	}
}

func parseRRStrings(strs []string) (records []dns.RR, err error) {
	for _, s_ := range strs {
		rr_, errParse_ := dns.NewRR(s_)
		if errParse_ != nil {
			return nil, errParse_
		}
		if rr_ != nil {
			records = append(records, rr_)
		}
	}
	return records, nil
}
