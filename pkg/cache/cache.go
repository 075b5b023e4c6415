// Package cache persists raw API responses as JSON files on disk.
// The file modification time is the freshness clock: an entry older
// than the caller's max age counts as a miss and gets overwritten
// after the next live fetch.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// ListsKey is the single cache slot shared by all "get all lists" calls.
const ListsKey = "lists"

var whitespaceRe = regexp.MustCompile(`\s+`)

type Store struct {
	Dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Store{Dir: dir}, nil
}

// TaskKey derives the cache key for a task query. Filter strings that
// differ only in whitespace map to the same entry.
func TaskKey(filter string) string {
	normalized := whitespaceRe.ReplaceAllString(filter, " ")
	return "tasks-" + MD5Hex(normalized)
}

// MD5Hex returns the lowercase hex MD5 digest of s.
func MD5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func (s *Store) path(key string) string {
	return filepath.Join(s.Dir, key+".json")
}

// Get returns the cached payload for key if it is younger than maxAge.
// The second return value reports whether the entry was usable.
func (s *Store) Get(key string, maxAge time.Duration) ([]byte, bool, error) {
	path := s.path(key)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if time.Since(info.ModTime()) >= maxAge {
		return nil, false, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (s *Store) Put(key string, payload []byte) error {
	if err := os.WriteFile(s.path(key), payload, 0600); err != nil {
		return fmt.Errorf("failed to write cache entry %s: %w", key, err)
	}
	return nil
}

// Purge deletes entries older than ceiling. It runs once at process
// start as housekeeping, independent of the per-read freshness check.
func (s *Store) Purge(ceiling time.Duration) error {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) > ceiling {
			os.Remove(filepath.Join(s.Dir, e.Name()))
		}
	}
	return nil
}
