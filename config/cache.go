package config

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

// NewStationCache returns the cache used for station-by-code lookups. Stations are
// immutable reference data, so a zero ttl keeps entries forever.
func NewStationCache(ttl time.Duration) *cache.Cache {
	if ttl <= 0 {
		return cache.New(cache.NoExpiration, 0)
	}
	return cache.New(ttl, 2*ttl)
}

func GetCacheKey(prefix string, params ...interface{}) string {
	key := prefix
	for _, param := range params {
		key += ":" + fmt.Sprintf("%v", param)
	}
	return key
}
