package ocs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// MessageTable maps a message to its translations by language code.
type MessageTable map[string]map[string]string

// Translate returns the translation of message into language, or message
// itself when there is none.
func (t MessageTable) Translate(message, language string) string {
	if language == "" || t == nil {
		return message
	}
	if translated, ok := t[message][language]; ok {
		return translated
	}
	return message
}

// fixtureCache is the part of cache.Cache used to load fixtures once.
type fixtureCache interface {
	GetOrSet(ctx context.Context, key string, ttl time.Duration, loader func() (any, error)) (any, error)
}

// MessageLoader reads multi-language fixtures, loading each path once.
type MessageLoader struct {
	cache fixtureCache
}

func NewMessageLoader(cache fixtureCache) *MessageLoader {
	return &MessageLoader{cache: cache}
}

func (l *MessageLoader) Load(ctx context.Context, path string) (MessageTable, error) {
	if l.cache == nil {
		return ReadMessageTable(path)
	}
	v, err := l.cache.GetOrSet(ctx, "messages:"+path, 0, func() (any, error) {
		return ReadMessageTable(path)
	})
	if err != nil {
		return nil, err
	}
	return v.(MessageTable), nil
}

// ReadMessageTable parses a multi-language fixture file.
func ReadMessageTable(path string) (MessageTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading message fixture: %w", err)
	}
	var table MessageTable
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("decoding message fixture %s: %w", path, err)
	}
	return table, nil
}
