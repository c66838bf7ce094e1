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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	loadStatusFound    = "found"
	loadStatusNotFound = "not_found"
	loadStatusError    = "error"
)

var (
	specLoadTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cmdexplain_spec_load_total",
			Help: "Total number of spec lookups per source",
		},
		[]string{"source", "status"}, // found, not_found or error
	)

	specCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cmdexplain_spec_cache_total",
			Help: "Spec cache lookups",
		},
		[]string{"result"}, // hit or miss
	)

	specLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cmdexplain_spec_load_duration_seconds",
			Help:    "Time to resolve a spec across all sources on a cache miss",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 15},
		},
	)
)
