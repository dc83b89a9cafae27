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
    `github.com/bits-and-blooms/bitset`
    `github.com/cloudwego/cfgssa/internal/ir`
)

// DomTree builds the dominator tree from the immediate dominators, along with
// its preorder.
type DomTree struct{}

func (DomTree) Apply(cfg *CFG) {
    cfg.require(M_dominators)
    cfg.children = make([][]*ir.Node, cfg.Size())

    /* every node with an immediate dominator is a child of it */
    for _, p := range cfg.nodes {
        if cfg.dom.reach.Test(uint(p.Id)) {
            if d := cfg.dom.idom[p.Id]; d != nil {
                cfg.children[d.Id] = append(cfg.children[d.Id], p)
            }
        }
    }

    /* dump the tree in preorder */
    cfg.preorder = domTreePreorder(cfg)
    cfg.Mark(M_domtree)
}

// Frontier computes the dominance frontier of every node, with the algorithm
// from "A Simple, Fast Dominance Algorithm" by Cooper, Harvey and Kennedy.
type Frontier struct{}

func (Frontier) Apply(cfg *CFG) {
    nb := cfg.Size()
    df := make([]*bitset.BitSet, nb)

    /* a frontier may hold any node */
    for i := range df {
        df[i] = bitset.New(uint(nb))
    }

    /* only merge points can be in a frontier */
    for _, p := range cfg.nodes {
        if len(p.Pred) < 2 || !cfg.Reachable(p) {
            continue
        }

        /* walk up the dominator tree from every predecessor */
        id := uint(p.Id)
        stop := cfg.Idom(p)

        /* stop at the immediate dominator, or where this node is already in the frontier */
        for _, q := range p.Pred {
            if cfg.Reachable(q) {
                for r := q; r != stop && !df[r.Id].Test(id); r = cfg.Idom(r) {
                    df[r.Id].Set(id)
                }
            }
        }
    }

    /* mark as computed */
    cfg.frontier = df
    cfg.Mark(M_frontier)
}
