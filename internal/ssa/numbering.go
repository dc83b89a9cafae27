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
    `github.com/cloudwego/cfgssa/internal/ir`
)

// Numbering assigns every node a dense ID in list order. It starts a new
// numbering epoch, so every annotation keyed by the previous IDs is dropped.
type Numbering struct{}

func (Numbering) Apply(cfg *CFG) {
    cfg.Discard(_M_idkeyed)
    cfg.nodes = make([]*ir.Node, len(cfg.Graph.Nodes))

    /* assign IDs in list order */
    for i, p := range cfg.Graph.Nodes {
        p.Id = i
        cfg.nodes[i] = p
    }

    /* start a new epoch */
    cfg.epoch++
    cfg.Mark(M_numbered)
}
