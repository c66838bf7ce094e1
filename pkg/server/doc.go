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

/*
Package server provides the HTTP server shared by the cmdexplain API.

The server wraps a net/http ServeMux with a middleware chain (request ID,
API version negotiation, panic recovery, rate limiting, per-request timeout,
request logging and Prometheus metrics) and exposes /health, /ready and
/metrics. Run blocks until the context is canceled or SIGINT/SIGTERM is
received, then shuts down gracefully. When started by systemd with
Type=notify, readiness and shutdown are reported with sd_notify.

# Errors

Handlers report failures with WriteError or WriteErrorFromErr. Structured
errors from pkg/errors map to HTTP status codes and a retryable flag:

	INVALID_REQUEST      400  no
	UNAUTHORIZED         401  no
	NOT_FOUND            404  no
	METHOD_NOT_ALLOWED   405  no
	RATE_LIMIT_EXCEEDED  429  yes
	SERVICE_UNAVAILABLE  503  yes
	TIMEOUT              504  yes
	INTERNAL             500  yes

# Configuration

DefaultConfig reads PORT, LOG_LEVEL, CMDEXPLAIN_SOURCES and
CMDEXPLAIN_CONFIG. The latter names a TOML file:

	port = 8080
	log_level = "info"
	sources = ["builtin", "/etc/cmdexplain/specs"]
	watch = true
	rate_limit = 100
	rate_limit_burst = 200
	request_timeout = "30s"
*/
package server
