/*
 * Copyright 2022 ByteDance Inc.
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

package debug

import (
	"github.com/docker/go-metrics"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cloudwego/cfgssa/internal/ssa"
)

// Collector returns the Prometheus collector for pass timings, internal
// faults and Phi counts.
func Collector() prometheus.Collector {
	return ssa.MetricsNamespace
}

// RegisterMetrics registers the collector with the default Prometheus registry.
func RegisterMetrics() {
	metrics.Register(ssa.MetricsNamespace)
}
