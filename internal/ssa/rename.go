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

// Rename rewrites every definition and use into a versioned reference, as
// described in section 19.7 of "Modern Compiler Implementation" by Andrew
// Appel, with the version stacks flattened into one mapping table per node.
//
// Nodes are visited in dominator tree preorder. Each node starts with the
// table its immediate dominator ended with, so every use sees the closest
// dominating definition. Version 0 is the value on entry to the method.
type Rename struct{}

type _Renamer struct {
    cfg  *CFG
    next []int
    maps [][]int
}

func newRenamer(cfg *CFG) *_Renamer {
    nv := len(cfg.Vars)
    ret := &_Renamer {
        cfg  : cfg,
        next : make([]int, nv),
        maps : make([][]int, cfg.Size()),
    }

    /* version 0 is reserved for the entry state */
    for i := range ret.next {
        ret.next[i] = 1
    }

    /* the entry node starts with every variable at version 0 */
    ret.maps[cfg.Graph.Entry.Id] = make([]int, nv)
    return ret
}

func (self *_Renamer) alloc(r *ir.Ref, tab []int) {
    i := r.Var.Index
    *r = r.Derive(self.next[i])
    tab[i] = self.next[i]
    self.next[i]++
}

func (self *_Renamer) renameuses(ins ir.IrNode, tab []int) {
    for _, u := range ir.Uses(ins) {
        *u = u.Derive(tab[u.Var.Index])
    }
}

func (self *_Renamer) renamedefs(ins ir.IrNode, tab []int) {
    for _, d := range ir.Defs(ins) {
        self.alloc(d, tab)
    }
}

func (self *_Renamer) renameblock(bb *ir.Node) {
    tab := self.maps[bb.Id]
    self.maps[bb.Id] = nil

    /* the parent must have handed over its table */
    if tab == nil {
        panic("ssa: node " + bb.String() + " is renamed before its immediate dominator")
    }

    /* rename Phi nodes */
    for _, phi := range bb.Phi {
        self.alloc(&phi.R, tab)
    }

    /* rename body */
    for _, ins := range bb.Ins {
        self.renameuses(ins, tab)
        self.renamedefs(ins, tab)
    }

    /* fill in the Phi operands of the successors, a variable still at
     * version 0 was never assigned along this edge, leave it alone */
    for _, s := range bb.Succ {
        for _, j := range s.PredIndex(bb) {
            for _, phi := range s.Phi {
                if ver := tab[phi.R.Var.Index]; ver != 0 {
                    phi.V[j] = phi.V[j].Derive(ver)
                }
            }
        }
    }

    /* children mutate their tables independently, the last one takes ours */
    ch := self.cfg.Children(bb)
    for i, p := range ch {
        if i == len(ch) - 1 {
            self.maps[p.Id] = tab
        } else {
            self.maps[p.Id] = append([]int(nil), tab...)
        }
    }
}

func (Rename) Apply(cfg *CFG) {
    if cfg.Has(M_renamed) {
        panic("ssa: variables have already been renamed")
    }

    /* Phi nodes must be in place */
    cfg.require(M_phi | M_domtree)
    rr := newRenamer(cfg)

    /* parameters enter the method at version 0 */
    cfg.EntryState = cfg.EntryState[:0]
    for _, v := range cfg.Params() {
        cfg.EntryState = append(cfg.EntryState, ir.R(v))
    }

    /* rename every node in dominator tree preorder */
    DomTreeOrder(cfg).ForEach(rr.renameblock)
    cfg.Mark(M_renamed)
}
