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

    `github.com/bits-and-blooms/bitset`
    `github.com/cloudwego/cfgssa/internal/ir`
    `github.com/oleiade/lane`
)

// PlacePhi inserts Phi nodes on the iterated dominance frontier of the
// definition sites of every variable, as described in section 19.6 of
// "Modern Compiler Implementation" by Andrew Appel. The dominance frontier
// is released afterwards.
type PlacePhi struct{}

func definitionSites(cfg *CFG) []*bitset.BitSet {
    nb := uint(cfg.Size())
    defs := make([]*bitset.BitSet, len(cfg.Vars))

    /* mark all the definition sites */
    for _, p := range cfg.nodes {
        if cfg.Reachable(p) {
            for _, ins := range p.Ins {
                for _, d := range ir.Defs(ins) {
                    if i := d.Var.Index; defs[i] == nil {
                        defs[i] = bitset.New(nb).Set(uint(p.Id))
                    } else {
                        defs[i].Set(uint(p.Id))
                    }
                }
            }
        }
    }
    return defs
}

func (PlacePhi) Apply(cfg *CFG) {
    if cfg.Has(M_phi) {
        panic("ssa: Phi nodes have already been placed")
    }

    /* the graph must be normalized, and the frontier must be ready */
    cfg.require(M_normalized | M_frontier)
    nb := 0
    q := lane.NewQueue()
    phi := bitset.New(uint(cfg.Size()))
    defs := definitionSites(cfg)

    /* insert Phi node for every variable */
    for i, orig := range defs {
        if orig == nil {
            continue
        }

        /* start from the definition sites */
        vv := cfg.Vars[i]
        phi.ClearAll()

        /* add all the definition sites to the work list */
        for id, ok := orig.NextSet(0); ok; id, ok = orig.NextSet(id + 1) {
            q.Enqueue(cfg.nodes[id])
        }

        /* iterate until the frontier closes */
        for !q.Empty() {
            p := q.Dequeue().(*ir.Node)
            df := cfg.Frontier(p)

            /* insert Phi nodes */
            for id, ok := df.NextSet(0); ok; id, ok = df.NextSet(id + 1) {
                y := cfg.nodes[id]

                /* the exit node never holds Phi nodes */
                if phi.Test(id) || y == cfg.Graph.Exit {
                    continue
                }

                /* build the Phi node args, all of them are placeholders for now */
                args := make([]ir.Ref, len(y.Pred))
                for j := range args {
                    args[j] = ir.R(vv)
                }

                /* insert a new Phi node */
                nb++
                phi.Set(id)
                y.Phi = append(y.Phi, &ir.IrPhi { R: ir.R(vv), V: args })

                /* a node may contain both an ordinary definition and a
                 * Phi node for the same variable */
                if !orig.Test(id) {
                    q.Enqueue(y)
                }
            }
        }
    }

    /* the dominance frontier is no longer needed */
    cfg.Discard(M_frontier)
    cfg.Mark(M_phi)
    atomic.AddInt64(&PhiCount, int64(nb))
    phiCounter.WithValues("placed").Inc(float64(nb))
}
