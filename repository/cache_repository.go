package repository

import "time"

// CacheRepository is a string cache placed in front of slow upstream
// lookups such as the rate source. A miss is never an error.
type CacheRepository interface {
	Get(key string) (string, bool)
	Set(key string, value string, ttl time.Duration) error
}
