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
    `sync/atomic`

    `github.com/cloudwego/cfgssa/internal/ir`
)

// Normalize rewrites the graph so that Phi operands can be attached to
// unambiguous edges:
//
//   - a node with more than one predecessor and more than one successor gets
//     a new unique predecessor taking all of its in-edges;
//   - an edge into a merge point whose source ends with a control transfer
//     that uses a value gets a pass-through node, except when the destination
//     is an exception dispatch or a multi-way branch node, where the source is
//     split at its control transfer instead;
//   - every in-edge of a merging exception landing node gets a pass-through
//     node.
//
// Running it on a normalized graph does nothing.
type Normalize struct{}

func (Normalize) Apply(cfg *CFG) {
    if cfg.Has(M_normalized) {
        return
    }

    /* the phases must observe each other's output */
    g := cfg.Graph
    nb := splitPredecessors(g)

    /* splitting a tail hands its in-edges to a new node, which may need
     * splitting in turn */
    for n := splitSuccessors(g); n != 0; n = splitSuccessors(g) {
        nb += n
    }

    /* any structural change invalidates the node IDs */
    if nb != 0 {
        cfg.Discard(_M_idkeyed)
        atomic.AddInt64(&SplitCount, int64(nb))
    }

    /* mark as normalized */
    cfg.Mark(M_normalized)
}

func isSpecialTarget(p *ir.Node) bool {
    return p.Kind == ir.K_dispatch || p.Kind == ir.K_switch
}

func usesValue(p *ir.Node) bool {
    if tr := p.Term(); tr == nil {
        return false
    } else {
        return ir.TouchesValue(tr)
    }
}

func splitPredecessors(g *ir.Graph) int {
    rq := g.NewRequest()

    /* find all the nodes that both merge and branch */
    for _, p := range g.Nodes {
        if p != g.Entry && p != g.Exit && len(p.Pred) > 1 && len(p.Succ) > 1 {
            rq.SplitPreds(p)
        }
    }

    /* apply the changes */
    return len(rq.Commit())
}

func splitSuccessors(g *ir.Graph) int {
    rq := g.NewRequest()

    /* check every edge */
    for _, p := range g.Nodes {
        nth := make(map[*ir.Node]int, len(p.Succ))

        /* parallel edges are told apart by their ordinal */
        for _, q := range p.Succ {
            k := nth[q]
            nth[q] = k + 1

            /* the exit node never holds Phi nodes */
            if q == g.Exit || len(q.Pred) < 2 {
                continue
            }

            /* merging landing nodes get every in-edge routed through a
             * single-predecessor pass-through node */
            if q.IsLanding() {
                if len(p.Pred) != 1 || !p.IsPassThrough() {
                    rq.SplitEdge(p, q, k)
                }
                continue
            }

            /* control transfers that do not touch any value are fine */
            if !usesValue(p) {
                continue
            }

            /* edges into dispatch or multi-way branch nodes cannot be split,
             * leave the source with nothing but the control transfer instead */
            if !isSpecialTarget(q) {
                rq.SplitEdge(p, q, k)
            } else if len(p.Ins) > 1 && len(p.Pred) != 0 {
                rq.SplitTail(p)
            }
        }
    }

    /* apply the changes */
    return len(rq.Commit())
}
