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
	"sync/atomic"

	"github.com/cloudwego/cfgssa/internal/ssa"
)

// A Stats records statistics about the SSA construction.
type Stats struct {
	Methods int
	Faults  int
	Phi     PhiStats
	Splits  int
}

// A PhiStats records statistics about Phi nodes.
type PhiStats struct {
	Placed     int
	Eliminated int
}

// GetStats returns statistics of the SSA construction since the process started.
func GetStats() Stats {
	return Stats{
		Methods: int(atomic.LoadInt64(&ssa.MethodCount)),
		Faults:  int(atomic.LoadInt64(&ssa.FaultCount)),
		Splits:  int(atomic.LoadInt64(&ssa.SplitCount)),
		Phi: PhiStats{
			Placed:     int(atomic.LoadInt64(&ssa.PhiCount)),
			Eliminated: int(atomic.LoadInt64(&ssa.PhiElimCount)),
		},
	}
}
