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

package ssa

import (
    `github.com/docker/go-metrics`
)

var (
    MetricsNamespace *metrics.Namespace

    passTimer    metrics.LabeledTimer
    faultCounter metrics.LabeledCounter
    phiCounter   metrics.LabeledCounter
)

func init() {
    MetricsNamespace = metrics.NewNamespace("cfgssa", "ssa", nil)
    passTimer = MetricsNamespace.NewLabeledTimer("pass", "The number of seconds it takes to run an SSA pass", "pass")
    faultCounter = MetricsNamespace.NewLabeledCounter("faults", "The number of internal faults raised by an SSA pass", "pass")
    phiCounter = MetricsNamespace.NewLabeledCounter("phi", "The number of Phi nodes placed or eliminated", "action")
}
