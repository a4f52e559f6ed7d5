// Package cache is a small in-process key/value store with per-key TTLs.
// PixMill runs as a single local process, so the store lives in memory and
// expired entries are dropped lazily on access.
package cache

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"
)

// ErrCacheMiss is returned when a key is absent or its entry has expired.
var ErrCacheMiss = errors.New("cache: key not found")

type entry struct {
	value     string
	expiresAt time.Time // zero means no expiration
}

var (
	mu      sync.RWMutex
	entries = make(map[string]entry)
)

// Set stores a value under the given key with an expiration time. A zero or
// negative expiration keeps the entry until it is deleted.
func Set(key string, value interface{}, expiration time.Duration) error {
	var strValue string
	switch v := value.(type) {
	case string:
		strValue = v
	case int:
		strValue = strconv.Itoa(v)
	case int64:
		strValue = strconv.FormatInt(v, 10)
	case bool:
		strValue = strconv.FormatBool(v)
	default:
		strValue = fmt.Sprint(v)
	}

	e := entry{value: strValue}
	if expiration > 0 {
		e.expiresAt = time.Now().Add(expiration)
	}

	mu.Lock()
	entries[key] = e
	mu.Unlock()
	return nil
}

// Get retrieves a value by key.
func Get(key string) (string, error) {
	mu.RLock()
	e, ok := entries[key]
	mu.RUnlock()

	if !ok {
		return "", ErrCacheMiss
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		mu.Lock()
		delete(entries, key)
		mu.Unlock()
		return "", ErrCacheMiss
	}
	return e.value, nil
}

// GetInt retrieves an integer value by key.
func GetInt(key string) (int, error) {
	val, err := Get(key)
	if err != nil {
		return 0, err
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, errors.New("cache: value is not an integer")
	}
	return i, nil
}

// Delete removes a value by key.
func Delete(key string) error {
	mu.Lock()
	delete(entries, key)
	mu.Unlock()
	return nil
}

// Flush drops every entry. Mainly useful between tests.
func Flush() {
	mu.Lock()
	entries = make(map[string]entry)
	mu.Unlock()
}
