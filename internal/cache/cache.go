// Package cache stores computed Blueprints keyed by input fingerprint.
package cache

import (
	"context"
	"time"

	"cosmic-blueprint/internal/domain"
)

// KeyPrefix prefixes every cache key.
const KeyPrefix = "blueprint:"

// DefaultTTL is used when a cache is created with a non-positive TTL.
const DefaultTTL = 24 * time.Hour

// BlueprintCache stores Blueprints by idhash.InputFingerprint.
// A miss is (nil, false, nil).
type BlueprintCache interface {
	Get(ctx context.Context, fingerprint string) (*domain.Blueprint, bool, error)
	Set(ctx context.Context, fingerprint string, bp *domain.Blueprint) error
}

// Key returns the cache key of a fingerprint.
func Key(fingerprint string) string {
	return KeyPrefix + fingerprint
}
