package main

var (
	CacheTypeInternal = "internal"
	CacheTypeRedis    = "redis"
)

type CacheOptions struct {
	cacheType string
	redisURI  string
}

// Cache maps a resolved query key to its answer. Implementations must be
// safe under concurrent access; Set is a single-key upsert, last writer
// wins.
type Cache interface {
	Get(key string) (answer *ResolvedAnswer, ok bool)
	Set(key string, answer *ResolvedAnswer, ttl uint32)
}
