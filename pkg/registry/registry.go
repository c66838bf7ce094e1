// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/NVIDIA/cmdexplain/pkg/defaults"
	cnserrors "github.com/NVIDIA/cmdexplain/pkg/errors"
	"github.com/NVIDIA/cmdexplain/pkg/spec"
)

// Result is a resolved spec and where it came from.
type Result struct {
	Program string            `json:"program" yaml:"program"`
	Source  string            `json:"source" yaml:"source"`
	Spec    *spec.CommandSpec `json:"-" yaml:"-"`
}

// Entry is one row of a registry listing.
type Entry struct {
	Program string `json:"program" yaml:"program"`
	Source  string `json:"source" yaml:"source"`
}

type cacheEntry struct {
	result *Result
	err    error // only ErrCodeNotFound is cached
}

// Registry resolves programs against an ordered list of sources.
// It is safe for concurrent use.
type Registry struct {
	sources []Source
	noCache bool

	mu    sync.RWMutex
	cache map[string]cacheEntry
	gens  map[string]uint64
	epoch uint64
	group singleflight.Group
}

// generation identifies the cache state a lookup started from. Invalidate
// and Reset move it on so results loaded before them are not stored.
type generation struct {
	epoch uint64
	n     uint64
}

// Option is a functional option for configuring a Registry.
type Option func(*Registry)

// WithSources appends sources in lookup order.
func WithSources(sources ...Source) Option {
	return func(r *Registry) {
		r.sources = append(r.sources, sources...)
	}
}

// WithoutCache disables result caching.
func WithoutCache() Option {
	return func(r *Registry) {
		r.noCache = true
	}
}

// New creates a Registry. Without sources it serves the builtin specs.
func New(opts ...Option) *Registry {
	r := &Registry{
		cache: make(map[string]cacheEntry),
		gens:  make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(r)
	}
	if len(r.sources) == 0 {
		r.sources = []Source{NewEmbeddedSource()}
	}
	return r
}

// Sources returns the source names in lookup order.
func (r *Registry) Sources() []string {
	names := make([]string, 0, len(r.sources))
	for _, s := range r.sources {
		names = append(names, s.Name())
	}
	return names
}

// Get resolves program to a validated spec. The first source that has the
// program wins. When no source has it the error carries ErrCodeNotFound;
// that outcome is cached like a hit. Concurrent calls for one program share
// a single lookup that runs detached from any one caller's cancellation;
// each caller still stops waiting when its own ctx is done.
func (r *Registry) Get(ctx context.Context, program string) (*Result, error) {
	if err := ValidateProgramName(program); err != nil {
		return nil, err
	}

	if !r.noCache {
		r.mu.RLock()
		entry, ok := r.cache[program]
		r.mu.RUnlock()
		if ok {
			specCacheTotal.WithLabelValues("hit").Inc()
			return entry.result, entry.err
		}
		specCacheTotal.WithLabelValues("miss").Inc()
	}

	ch := r.group.DoChan(program, func() (any, error) {
		return r.resolve(context.WithoutCancel(ctx), program)
	})
	select {
	case res := <-ch:
		if res.Shared {
			slog.Debug("spec lookup shared", "program", program)
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Result), nil
	case <-ctx.Done():
		return nil, cnserrors.Wrap(cnserrors.ErrCodeTimeout,
			fmt.Sprintf("spec lookup for %q", program), ctx.Err())
	}
}

func (r *Registry) generation(program string) generation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return generation{epoch: r.epoch, n: r.gens[program]}
}

func (r *Registry) resolve(ctx context.Context, program string) (*Result, error) {
	start := time.Now()
	defer func() {
		specLoadDuration.Observe(time.Since(start).Seconds())
	}()

	gen := r.generation(program)

	ctx, cancel := context.WithTimeout(ctx, defaults.SpecLoadTimeout)
	defer cancel()

	var firstErr error
	for _, src := range r.sources {
		cs, err := src.Load(ctx, program)
		switch {
		case err == nil:
			specLoadTotal.WithLabelValues(src.Name(), loadStatusFound).Inc()
			slog.Debug("spec resolved", "program", program, "source", src.Name())
			res := &Result{Program: program, Source: src.Name(), Spec: cs}
			r.store(program, gen, cacheEntry{result: res})
			return res, nil

		case cnserrors.IsCode(err, cnserrors.ErrCodeNotFound):
			specLoadTotal.WithLabelValues(src.Name(), loadStatusNotFound).Inc()

		default:
			specLoadTotal.WithLabelValues(src.Name(), loadStatusError).Inc()
			slog.Warn("spec source failed", "program", program, "source", src.Name(), "error", err)
			if firstErr == nil {
				firstErr = err
			}
			if ctx.Err() != nil {
				return nil, cnserrors.Wrap(cnserrors.ErrCodeTimeout,
					fmt.Sprintf("spec lookup for %q", program), ctx.Err())
			}
		}
	}

	// a failing source may hold the spec, so only a clean miss is cached
	if firstErr != nil {
		return nil, firstErr
	}
	miss := cnserrors.NewWithContext(cnserrors.ErrCodeNotFound,
		fmt.Sprintf("no spec available for %q", program),
		map[string]any{"program": program, "sources": r.Sources()})
	r.store(program, gen, cacheEntry{err: miss})
	return nil, miss
}

// store caches e unless program was invalidated after gen was taken.
func (r *Registry) store(program string, gen generation, e cacheEntry) {
	if r.noCache {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.epoch != gen.epoch || r.gens[program] != gen.n {
		slog.Debug("discarding stale spec lookup", "program", program)
		return
	}
	r.cache[program] = e
}

// Invalidate drops the cached result for program.
func (r *Registry) Invalidate(program string) {
	r.mu.Lock()
	delete(r.cache, program)
	r.gens[program]++
	r.mu.Unlock()
	r.group.Forget(program)
}

// Reset drops every cached result.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.cache = make(map[string]cacheEntry)
	r.gens = make(map[string]uint64)
	r.epoch++
	r.mu.Unlock()
}

// List returns the programs available across all sources, filtered by the
// wildcard patterns. Programs present in several sources are reported once,
// with the source a Get would use. A failing source is skipped unless every
// source fails.
func (r *Registry) List(ctx context.Context, patterns ...string) ([]Entry, error) {
	seen := make(map[string]struct{})
	entries := []Entry{}
	var failures int
	var lastErr error

	for _, src := range r.sources {
		names, err := src.List(ctx)
		if err != nil {
			failures++
			lastErr = err
			slog.Warn("spec source listing failed", "source", src.Name(), "error", err)
			continue
		}
		for _, n := range names {
			if _, dup := seen[n]; dup || !MatchesAny(n, patterns) {
				continue
			}
			seen[n] = struct{}{}
			entries = append(entries, Entry{Program: n, Source: src.Name()})
		}
	}

	if failures == len(r.sources) && lastErr != nil {
		return nil, lastErr
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Program < entries[j].Program })
	return entries, nil
}

// Watch invalidates cached programs when files in watchable directory
// sources change. It blocks until ctx is done and returns nil when no
// source can be watched.
func (r *Registry) Watch(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, src := range r.sources {
		ds, ok := src.(*DirSource)
		if !ok || ds.root == "" {
			continue
		}
		g.Go(func() error {
			return ds.Watch(ctx, func(program string) {
				slog.Info("spec changed, invalidating", "program", program, "source", ds.Name())
				r.Invalidate(program)
			})
		})
	}
	return g.Wait()
}
