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
    `github.com/oleiade/lane`
)

// PhiElim removes the Phi nodes whose result is never used, then closes
// every version 0 operand left by renaming with a reference to the Phi node
// itself, meaning the variable is uninitialized along that edge. Parameters
// are left alone, since their version 0 is the value passed in.
type PhiElim struct{}

type _PhiUses struct {
    uses map[ir.Ref]int
    defs map[ir.Ref]*ir.IrPhi
}

func (self _PhiUses) add(r ir.Ref) {
    self.uses[r]++
}

func (self _PhiUses) scan(cfg *CFG) {
    for _, p := range cfg.Preorder() {
        for _, phi := range p.Phi {
            self.defs[phi.R] = phi
            for _, v := range phi.V {
                if v != phi.R {
                    self.add(v)
                }
            }
        }
        for _, ins := range p.Ins {
            for _, u := range ir.Uses(ins) {
                self.add(*u)
            }
        }
    }
}

func (PhiElim) Apply(cfg *CFG) {
    if cfg.Has(M_phielim) {
        panic("ssa: Phi nodes have already been eliminated")
    }

    /* the variables must be renamed */
    cfg.require(M_renamed | M_domtree)
    nb := 0
    q := lane.NewQueue()
    dead := make(map[*ir.IrPhi]bool)

    /* count the usages of every version */
    pu := _PhiUses {
        uses: make(map[ir.Ref]int),
        defs: make(map[ir.Ref]*ir.IrPhi),
    }

    /* find all the unused Phi nodes */
    pu.scan(cfg)
    for r, phi := range pu.defs {
        if pu.uses[r] == 0 {
            q.Enqueue(phi)
        }
    }

    /* removing a Phi node may leave its operands unused */
    for !q.Empty() {
        phi := q.Dequeue().(*ir.IrPhi)
        if dead[phi] {
            continue
        }

        /* mark as dead and release the operands */
        dead[phi] = true
        for _, v := range phi.V {
            if v != phi.R {
                if pu.uses[v]--; pu.uses[v] == 0 {
                    if pp, ok := pu.defs[v]; ok && !dead[pp] {
                        q.Enqueue(pp)
                    }
                }
            }
        }
    }

    /* filter the Phi nodes */
    for _, p := range cfg.Preorder() {
        phi := p.Phi
        p.Phi = p.Phi[:0]

        /* close the uninitialized paths of the survivors */
        for _, v := range phi {
            if dead[v] {
                nb++
                continue
            }
            if !v.R.Var.IsParam() {
                for i, r := range v.V {
                    if r.IsEntry() {
                        v.V[i] = v.R
                    }
                }
            }
            p.Phi = append(p.Phi, v)
        }
    }

    /* mark as done */
    cfg.Mark(M_phielim)
    atomic.AddInt64(&PhiElimCount, int64(nb))
    phiCounter.WithValues("eliminated").Inc(float64(nb))
}
