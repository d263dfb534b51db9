package cache

import (
	"strings"
	"time"
)

// Trim, drop empties and deduplicate keys while preserving order.
func uniqueKeys(keys []string) []string {
	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}

		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
	}
	return uniq
}

// Oldest updated_at (unix seconds) still considered fresh. Zero ttl keeps everything.
func freshSince(now time.Time, ttl time.Duration) int64 {
	if ttl <= 0 {
		return 0
	}
	return now.Add(-ttl).Unix()
}
