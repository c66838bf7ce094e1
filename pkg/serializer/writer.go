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

// Package serializer writes cmdexplain documents as JSON, YAML or a
// field/value table to stdout, files or Kubernetes ConfigMaps, and answers
// HTTP requests with JSON bodies.
package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Serializer encodes a value to some destination.
type Serializer interface {
	Serialize(ctx context.Context, data any) error
}

// Closer is implemented by serializers that hold resources.
type Closer interface {
	Close() error
}

// Writer serializes values to an io.Writer in a fixed format.
type Writer struct {
	format Format
	output io.Writer
	closer io.Closer

	mu     sync.Mutex
	closed bool
}

// NewWriter returns a Writer for output. Unknown formats fall back to JSON.
func NewWriter(format Format, output io.Writer) *Writer {
	if format.IsUnknown() {
		slog.Warn("unknown output format, using json", "format", format)
		format = FormatJSON
	}
	if output == nil {
		output = os.Stdout
	}
	w := &Writer{format: format, output: output}
	if c, ok := output.(io.Closer); ok && output != os.Stdout && output != os.Stderr {
		w.closer = c
	}
	return w
}

// NewStdoutWriter returns a Writer bound to stdout.
func NewStdoutWriter(format Format) *Writer {
	return NewWriter(format, os.Stdout)
}

// NewFileWriterOrStdout returns a serializer for path. An empty path or "-"
// selects stdout, a cm://namespace/name URI selects a ConfigMap, anything
// else is created as a file.
func NewFileWriterOrStdout(format Format, path string) (Serializer, error) {
	path = strings.TrimSpace(path)
	if path == "" || path == StdoutURI {
		return NewStdoutWriter(format), nil
	}

	if strings.HasPrefix(path, ConfigMapURIScheme) {
		namespace, name, err := ParseConfigMapURI(path)
		if err != nil {
			return nil, err
		}
		return NewConfigMapWriter(format, namespace, name, nil), nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	return NewWriter(format, f), nil
}

// Serialize encodes data in the writer's format.
func (w *Writer) Serialize(ctx context.Context, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return fmt.Errorf("writer is closed")
	}

	b, err := Marshal(w.format, data)
	if err != nil {
		return err
	}
	if _, err := w.output.Write(b); err != nil {
		return fmt.Errorf("failed to write %s output: %w", w.format, err)
	}
	return nil
}

// Close releases the underlying file, if any. It is safe to call more than once.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closer == nil || w.closed {
		return nil
	}
	w.closed = true
	return w.closer.Close()
}

// Marshal encodes data in format. Unknown formats encode as JSON.
func Marshal(format Format, data any) ([]byte, error) {
	switch format {
	case FormatYAML:
		b, err := yaml.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize to yaml: %w", err)
		}
		return b, nil
	case FormatTable:
		var sb strings.Builder
		if err := writeTable(&sb, data); err != nil {
			return nil, fmt.Errorf("failed to serialize to table: %w", err)
		}
		return []byte(sb.String()), nil
	default:
		b, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to serialize to json: %w", err)
		}
		return append(b, '\n'), nil
	}
}

func marshalCompactJSON(data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
