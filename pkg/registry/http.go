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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/cenkalti/backoff/v4"

	"github.com/NVIDIA/cmdexplain/pkg/defaults"
	cnserrors "github.com/NVIDIA/cmdexplain/pkg/errors"
	"github.com/NVIDIA/cmdexplain/pkg/spec"
)

// HTTPIndexFile is the optional listing of programs served next to the specs.
const HTTPIndexFile = "index.json"

// maxHTTPRetries bounds attempts per file on top of the elapsed-time cap.
const maxHTTPRetries = 3

// errHTTPNotFound marks a 404, which is not retried.
var errHTTPNotFound = errors.New("not found")

// HTTPSource fetches <base>/<program>.<ext> over HTTP(S).
type HTTPSource struct {
	base   *url.URL
	client *http.Client
}

// HTTPOption configures an HTTPSource.
type HTTPOption func(*HTTPSource)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		if c != nil {
			s.client = c
		}
	}
}

// NewHTTPSource returns a source for the base URL.
func NewHTTPSource(base string, opts ...HTTPOption) (*HTTPSource, error) {
	u, err := url.Parse(strings.TrimSuffix(base, "/"))
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, fmt.Sprintf("invalid spec URL %q", base), err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest, fmt.Sprintf("invalid spec URL %q: expected http(s)://host/path", base))
	}

	s := &HTTPSource{
		base:   u,
		client: &http.Client{Timeout: defaults.HTTPClientTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Name implements Source.
func (s *HTTPSource) Name() string { return s.base.String() }

// Load implements Source. Extensions are tried in order; a 404 moves on to
// the next one.
func (s *HTTPSource) Load(ctx context.Context, program string) (*spec.CommandSpec, error) {
	for _, file := range specFileNames(program) {
		data, err := s.fetch(ctx, file)
		if errors.Is(err, errHTTPNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return DecodeFile(file, data)
	}
	return nil, notFound(s.Name(), program)
}

// List implements Source using the optional index.json (a JSON array of
// program names). A missing index lists nothing.
func (s *HTTPSource) List(ctx context.Context) ([]string, error) {
	data, err := s.fetch(ctx, HTTPIndexFile)
	if errors.Is(err, errHTTPNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInternal, "invalid spec index", err)
	}
	valid := names[:0]
	for _, n := range names {
		if ValidateProgramName(n) == nil {
			valid = append(valid, n)
		}
	}
	return sortedUnique(valid), nil
}

// fetch GETs one file below the base, retrying transport errors and 5xx
// responses with exponential backoff.
func (s *HTTPSource) fetch(ctx context.Context, file string) ([]byte, error) {
	target := s.base.JoinPath(file).String()

	var body []byte
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/yaml, application/json;q=0.9, */*;q=0.1")

		resp, err := s.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			slog.Debug("spec fetch failed, retrying", "url", target, "error", err)
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(errHTTPNotFound)
		case resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests:
			slog.Debug("spec server error, retrying", "url", target, "status", resp.StatusCode)
			return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, target)
		case resp.StatusCode != http.StatusOK:
			return backoff.Permanent(fmt.Errorf("unexpected status %d from %s", resp.StatusCode, target))
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, defaults.MaxSpecBytes+1))
		if err != nil {
			return err
		}
		if int64(len(data)) > defaults.MaxSpecBytes {
			return backoff.Permanent(fmt.Errorf("%s exceeds %d bytes", target, defaults.MaxSpecBytes))
		}
		body = data
		return nil
	}

	if err := backoff.Retry(op, s.newBackOff(ctx)); err != nil {
		if errors.Is(err, errHTTPNotFound) {
			return nil, errHTTPNotFound
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, cnserrors.Wrap(cnserrors.ErrCodeTimeout, fmt.Sprintf("fetching %s", target), err)
		}
		return nil, cnserrors.Wrap(cnserrors.ErrCodeUnavailable, fmt.Sprintf("failed to fetch %s", target), err)
	}
	return body, nil
}

func (s *HTTPSource) newBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = defaults.SpecRetryInitialInterval
	b.MaxElapsedTime = defaults.SpecRetryMaxElapsed
	b.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(b, maxHTTPRetries), ctx)
}
