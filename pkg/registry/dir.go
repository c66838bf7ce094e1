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
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"

	"github.com/NVIDIA/cmdexplain/pkg/defaults"
	cnserrors "github.com/NVIDIA/cmdexplain/pkg/errors"
	"github.com/NVIDIA/cmdexplain/pkg/spec"
)

// DirSource serves spec files found anywhere below a directory.
type DirSource struct {
	fs   afero.Fs
	root string // OS path, used for watching; empty for in-memory trees
}

// NewDirSource returns a source rooted at dir on the OS file system.
func NewDirSource(dir string) *DirSource {
	return &DirSource{
		fs:   afero.NewBasePathFs(afero.NewOsFs(), dir),
		root: dir,
	}
}

// NewFsSource returns a source over an arbitrary file system, rooted at its
// top level. It cannot be watched.
func NewFsSource(fsys afero.Fs) *DirSource {
	return &DirSource{fs: fsys}
}

// Name implements Source.
func (s *DirSource) Name() string {
	if s.root != "" {
		return "dir:" + s.root
	}
	return "dir"
}

// Load implements Source. When a program has several files the shallowest
// path wins, then the extension order yaml, yml, json, jsonc.
func (s *DirSource) Load(ctx context.Context, program string) (*spec.CommandSpec, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pattern := fmt.Sprintf("**/%s.{%s}", program, strings.Join(spec.Extensions, ","))
	matches, err := doublestar.Glob(afero.NewIOFS(s.fs), pattern)
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to search spec directory", err)
	}
	if len(matches) == 0 {
		return nil, notFound(s.Name(), program)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		di, dj := strings.Count(matches[i], "/"), strings.Count(matches[j], "/")
		if di != dj {
			return di < dj
		}
		return extRank(matches[i]) < extRank(matches[j])
	})
	file := matches[0]

	info, err := s.fs.Stat(file)
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInternal, fmt.Sprintf("failed to stat %s", file), err)
	}
	if info.Size() > defaults.MaxSpecBytes {
		return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest,
			fmt.Sprintf("spec file %s exceeds %d bytes", file, defaults.MaxSpecBytes))
	}

	data, err := afero.ReadFile(s.fs, file)
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInternal, fmt.Sprintf("failed to read %s", file), err)
	}

	slog.Debug("spec file found", "source", s.Name(), "program", program, "file", file)
	return DecodeFile(file, data)
}

// List implements Source.
func (s *DirSource) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var names []string
	pattern := fmt.Sprintf("**/*.{%s}", strings.Join(spec.Extensions, ","))
	err := doublestar.GlobWalk(afero.NewIOFS(s.fs), pattern, func(p string, d fs.DirEntry) error {
		if d.IsDir() {
			return nil
		}
		if program, ok := programFromFile(p); ok {
			names = append(names, program)
		}
		return nil
	})
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to list spec directory", err)
	}
	return sortedUnique(names), nil
}

// Watch calls onChange with the program name whenever a spec file below the
// root is created, written, removed or renamed. It blocks until ctx is done.
// Directories created after Watch starts are added to the watch set.
func (s *DirSource) Watch(ctx context.Context, onChange func(program string)) error {
	if s.root == "" {
		return cnserrors.New(cnserrors.ErrCodeInvalidRequest, "source has no directory to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	err = filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(p)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", s.root, err)
	}

	slog.Info("watching spec directory", "dir", s.root)

	recent := make(map[string]time.Time)
	for {
		select {
		case <-ctx.Done():
			slog.Debug("spec directory watch stopped", "dir", s.root)
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create == fsnotify.Create {
				if fi, err := s.statOS(ev.Name); err == nil && fi.IsDir() {
					if err := watcher.Add(ev.Name); err != nil {
						slog.Warn("failed to watch new directory", "dir", ev.Name, "error", err)
					}
					continue
				}
			}
			program, ok := programFromFile(filepath.ToSlash(ev.Name))
			if !ok {
				continue
			}
			if last, seen := recent[ev.Name]; seen && time.Since(last) < defaults.SpecWatchDebounce {
				continue
			}
			recent[ev.Name] = time.Now()

			slog.Debug("spec file changed", "file", ev.Name, "op", ev.Op.String(), "program", program)
			onChange(program)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("spec directory watcher error", "dir", s.root, "error", err)
		}
	}
}

func (s *DirSource) statOS(name string) (fs.FileInfo, error) {
	rel, err := filepath.Rel(s.root, name)
	if err != nil {
		return nil, err
	}
	return s.fs.Stat(rel)
}

func extRank(file string) int {
	ext := strings.TrimPrefix(filepath.Ext(file), ".")
	for i, e := range spec.Extensions {
		if e == ext {
			return i
		}
	}
	return len(spec.Extensions)
}
