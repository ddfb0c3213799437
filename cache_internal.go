package main

import (
	"github.com/ReneKroon/ttlcache"
	"time"
)

type CacheInternal struct {
	cacher *ttlcache.Cache
}

func NewCacheInternal() (cache *CacheInternal) {
	cacher := ttlcache.NewCache()
	cacher.SkipTtlExtensionOnHit(true)
	cache = &CacheInternal{cacher: cacher}
	return
}

func (cache *CacheInternal) Get(key string) (answer *ResolvedAnswer, ok bool) {
	val_, ok := cache.cacher.Get(key)
	if !ok {
		return nil, false
	}
	return val_.(*ResolvedAnswer), true
}

func (cache *CacheInternal) Set(key string, answer *ResolvedAnswer, ttl uint32) {
	cache.cacher.SetWithTTL(key, answer, time.Second*time.Duration(ttl))
}
