/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package resolver turns content references into playable URLs.
package resolver

import (
	"context"
	"strings"
	"time"

	"github.com/carverauto/adscreen/pkg/logger"
)

//go:generate mockgen -destination=mock_resolver.go -package=resolver github.com/carverauto/adscreen/pkg/resolver Signer

const (
	// DefaultTTL is the lifetime requested for signed URLs.
	DefaultTTL = 600 * time.Second
	// DefaultBucket is the storage bucket holding private media.
	DefaultBucket = "media"

	storageScheme = "storage://"
)

// Signer issues time-limited URLs for private storage objects.
type Signer interface {
	SignURL(ctx context.Context, bucket, path string, ttl time.Duration) (string, error)
}

// Resolver maps a content reference to a URL the player can fetch.
type Resolver struct {
	signer Signer
	bucket string
	ttl    time.Duration
	logger logger.Logger
}

// New creates a Resolver. Empty bucket and non-positive ttl take the defaults.
func New(signer Signer, bucket string, ttl time.Duration, log logger.Logger) *Resolver {
	if bucket == "" {
		bucket = DefaultBucket
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Resolver{signer: signer, bucket: bucket, ttl: ttl, logger: log}
}

// Resolve returns a playable URL for ref. Absolute http(s) URLs pass through
// unchanged; anything else is treated as a storage path and signed. Any
// failure yields ("", false) so the caller keeps its current content.
func (r *Resolver) Resolve(ctx context.Context, ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}

	if isAbsoluteHTTP(ref) {
		return ref, true
	}

	path := r.storagePath(ref)
	if path == "" {
		r.logger.Warn().Str("ref", ref).Msg("Content reference has no storage path")
		return "", false
	}

	signed, err := r.signer.SignURL(ctx, r.bucket, path, r.ttl)
	if err != nil {
		r.logger.Warn().Err(err).Str("ref", ref).Msg("Failed to sign content URL")
		return "", false
	}

	if signed == "" {
		r.logger.Warn().Str("ref", ref).Msg("Signer returned an empty URL")
		return "", false
	}

	return signed, true
}

func (r *Resolver) storagePath(ref string) string {
	path := strings.TrimPrefix(ref, storageScheme)
	path = strings.TrimLeft(path, "/")
	path = strings.TrimPrefix(path, r.bucket+"/")

	return path
}

func isAbsoluteHTTP(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
