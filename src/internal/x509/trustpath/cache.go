// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package trustpath

import (
	"crypto/sha256"
	"crypto/x509"
	"sync"
	"sync/atomic"
)

// linkKey identifies a (subject, issuer) certificate pair by fingerprint.
type linkKey struct {
	subject [sha256.Size]byte
	issuer  [sha256.Size]byte
}

// LinkCacheConfig holds configuration for the verified-link cache.
type LinkCacheConfig struct {
	MaxSize int // Maximum number of link results to cache (0 = unlimited, but not recommended)
}

// LinkCacheMetrics tracks cache performance and usage.
type LinkCacheMetrics struct {
	Size      int64 // Current number of cached link results
	Hits      int64 // Number of cache hits
	Misses    int64 // Number of cache misses
	Evictions int64 // Number of LRU evictions
}

// Default link cache configuration
var defaultLinkCacheConfig = LinkCacheConfig{
	MaxSize: 1024,
}

// linkCache memoizes signature verification outcomes per certificate pair.
// Certificates are immutable once parsed, so an outcome never goes stale;
// entries are only ever dropped by LRU eviction. Signature checks dominate
// the search cost, and cross-signed graphs revisit the same pair on every
// backtrack, which is what makes this worth caching.
var linkCache = make(map[linkKey]bool)
var linkCacheMutex sync.RWMutex
var linkCacheOrder []linkKey // Maintains access order for LRU eviction
var linkCacheConfig atomic.Value
var linkCacheMetrics LinkCacheMetrics

func init() {
	linkCacheConfig.Store(&defaultLinkCacheConfig)
}

// SetLinkCacheConfig sets the verified-link cache configuration and prunes
// the cache down to the new maximum if needed.
func SetLinkCacheConfig(config *LinkCacheConfig) {
	cfg := &LinkCacheConfig{MaxSize: defaultLinkCacheConfig.MaxSize}
	if config != nil {
		cfg.MaxSize = config.MaxSize
	}
	if cfg.MaxSize < 0 {
		cfg.MaxSize = 0 // 0 means unlimited, but not recommended
	}

	// Store a copy to prevent external mutation
	linkCacheConfig.Store(&LinkCacheConfig{MaxSize: cfg.MaxSize})

	pruneLinkCache(cfg.MaxSize)
}

// GetLinkCacheConfig returns the current verified-link cache configuration.
func GetLinkCacheConfig() *LinkCacheConfig {
	config := linkCacheConfig.Load().(*LinkCacheConfig)
	return &LinkCacheConfig{MaxSize: config.MaxSize}
}

// GetLinkCacheMetrics returns current cache metrics.
func GetLinkCacheMetrics() LinkCacheMetrics {
	linkCacheMutex.RLock()
	defer linkCacheMutex.RUnlock()

	metrics := LinkCacheMetrics{
		Hits:      atomic.LoadInt64(&linkCacheMetrics.Hits),
		Misses:    atomic.LoadInt64(&linkCacheMetrics.Misses),
		Evictions: atomic.LoadInt64(&linkCacheMetrics.Evictions),
	}
	metrics.Size = int64(len(linkCache))
	return metrics
}

// ResetLinkCache drops every cached link result and zeroes the metrics.
// Intended for tests.
func ResetLinkCache() {
	linkCacheMutex.Lock()
	defer linkCacheMutex.Unlock()

	linkCache = make(map[linkKey]bool)
	linkCacheOrder = nil
	atomic.StoreInt64(&linkCacheMetrics.Hits, 0)
	atomic.StoreInt64(&linkCacheMetrics.Misses, 0)
	atomic.StoreInt64(&linkCacheMetrics.Evictions, 0)
}

func pruneLinkCache(maxSize int) {
	if maxSize <= 0 {
		return
	}

	linkCacheMutex.Lock()
	defer linkCacheMutex.Unlock()

	removed := int64(0)
	for len(linkCache) > maxSize && len(linkCacheOrder) > 0 {
		lru := linkCacheOrder[0]
		delete(linkCache, lru)
		linkCacheOrder = linkCacheOrder[1:]
		removed++
	}

	if removed > 0 {
		atomic.AddInt64(&linkCacheMetrics.Evictions, removed)
	}
}

// lookupLink retrieves a cached link outcome and updates the access order.
func lookupLink(subjectCert, issuerCert *x509.Certificate) (ok, hit bool) {
	key := linkKey{
		subject: sha256.Sum256(subjectCert.Raw),
		issuer:  sha256.Sum256(issuerCert.Raw),
	}

	linkCacheMutex.Lock()
	defer linkCacheMutex.Unlock()

	ok, hit = linkCache[key]
	if !hit {
		atomic.AddInt64(&linkCacheMetrics.Misses, 1)
		return false, false
	}

	atomic.AddInt64(&linkCacheMetrics.Hits, 1)
	updateLinkOrder(key)
	return ok, true
}

// storeLink records a link outcome, evicting the least recently used entry
// when the cache is full.
func storeLink(subjectCert, issuerCert *x509.Certificate, ok bool) {
	key := linkKey{
		subject: sha256.Sum256(subjectCert.Raw),
		issuer:  sha256.Sum256(issuerCert.Raw),
	}

	maxSize := GetLinkCacheConfig().MaxSize

	linkCacheMutex.Lock()
	defer linkCacheMutex.Unlock()

	if _, exists := linkCache[key]; !exists && maxSize > 0 && len(linkCache) >= maxSize {
		if len(linkCacheOrder) > 0 {
			lru := linkCacheOrder[0]
			delete(linkCache, lru)
			linkCacheOrder = linkCacheOrder[1:]
			atomic.AddInt64(&linkCacheMetrics.Evictions, 1)
		}
	}

	linkCache[key] = ok
	updateLinkOrder(key)
}

// updateLinkOrder moves a key to the most-recently-used position.
// Caller must hold linkCacheMutex.
func updateLinkOrder(key linkKey) {
	for i, k := range linkCacheOrder {
		if k == key {
			linkCacheOrder = append(linkCacheOrder[:i], linkCacheOrder[i+1:]...)
			break
		}
	}
	linkCacheOrder = append(linkCacheOrder, key)
}
