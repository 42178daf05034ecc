// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package cachekey derives the cache scope of a job instance.
//
// A key is composed of segments joined by "/":
//
//	[prefix/][job cache key/]platform[/axis=value...]
//
// Axis segments follow declared axis order. Every segment is query-escaped,
// so neither "/" nor "=" can appear inside one and the composition is
// injective: two instances share a key only if their platform, cache key and
// every assigned value are equal. Resolution is a pure function and performs
// no I/O against any cache store.
package cachekey

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"

	"github.com/specialistvlad/burstmatrix/internal/model"
)

// Delimiter separates key segments.
const Delimiter = "/"

// Key is a resolved cache key.
type Key string

// String returns the key as a string.
func (k Key) String() string { return string(k) }

// Digest returns the hex SHA-256 of the key, for stores that restrict key
// length or charset.
func (k Key) Digest() string {
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:])
}

// Resolver computes cache keys. The zero value is usable and applies no
// prefix.
type Resolver struct {
	prefix string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithPrefix sets a prefix applied to every key, typically a cache version
// such as "v1" used to invalidate all caches at once.
func WithPrefix(prefix string) Option {
	return func(r *Resolver) {
		r.prefix = prefix
	}
}

// NewResolver creates a Resolver.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the key for inst. cache is the job's cache declaration and
// may be nil.
func (r *Resolver) Resolve(inst model.JobInstance, cache *model.Cache) Key {
	return Key(strings.Join(r.segments(inst, cache), Delimiter))
}

// RestoreKeys returns fallback keys for inst, longest first. Each one drops
// the last axis segment of the previous; the platform segment is never
// dropped. The exact key itself is not included.
func (r *Resolver) RestoreKeys(inst model.JobInstance, cache *model.Cache) []string {
	segs := r.segments(inst, cache)
	axisCount := len(inst.Assignment)
	out := make([]string, 0, axisCount)
	for n := len(segs) - 1; n >= len(segs)-axisCount; n-- {
		out = append(out, strings.Join(segs[:n], Delimiter)+Delimiter)
	}
	return out
}

func (r *Resolver) segments(inst model.JobInstance, cache *model.Cache) []string {
	segs := make([]string, 0, len(inst.Assignment)+3)
	if r.prefix != "" {
		segs = append(segs, escape(r.prefix))
	}
	if cache != nil && cache.Key != "" {
		segs = append(segs, escape(cache.Key))
	}
	segs = append(segs, escape(inst.Platform))
	for _, av := range inst.Assignment {
		segs = append(segs, escape(av.Axis)+"="+escape(av.Value))
	}
	return segs
}

func escape(s string) string {
	return url.QueryEscape(s)
}
