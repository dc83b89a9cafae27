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

/** This is an implementation of the Lengauer-Tarjan algorithm described in
 *  https://doi.org/10.1145%2F357062.357071
 *
 *  The simple version of LINK and EVAL is used (path compression without
 *  balancing), both the depth-first search and the path compression are
 *  iterative, so deep graphs do not exhaust the goroutine stack.
 */

package ssa

import (
    `github.com/bits-and-blooms/bitset`
    `github.com/cloudwego/cfgssa/internal/ir`
)

type Direction uint8

const (
    Forward Direction = iota
    Backward
)

type _LtNode struct {
    semi     int
    node     *ir.Node
    dom      *_LtNode
    label    *_LtNode
    parent   *_LtNode
    ancestor *_LtNode
    pred     []*_LtNode
    bucket   []*_LtNode
}

type _LengauerTarjan struct {
    nodes  []*_LtNode
    vertex []int
    stack  []*_LtNode
}

func newLengauerTarjan(n int) *_LengauerTarjan {
    ret := &_LengauerTarjan {
        nodes  : make([]*_LtNode, 0, n),
        vertex : make([]int, n),
    }
    for i := range ret.vertex {
        ret.vertex[i] = -1
    }
    return ret
}

func (self *_LengauerTarjan) visit(p *ir.Node, parent *_LtNode) *_LtNode {
    i := len(self.nodes)
    self.vertex[p.Id] = i

    /* create a new node */
    q := &_LtNode {
        semi   : i,
        node   : p,
        parent : parent,
    }

    /* add to node list */
    q.label = q
    self.nodes = append(self.nodes, q)
    return q
}

/* Step 1: Carry out a depth-first search of the problem graph. Number the
 * vertices as they are reached during the search. */
func (self *_LengauerTarjan) dfs(root *ir.Node, next func(*ir.Node) []*ir.Node) {
    type _Frame struct {
        p *_LtNode
        i int
    }

    /* visit the root */
    stack := []_Frame {{ p: self.visit(root, nil) }}

    /* scan until the stack is empty */
    for len(stack) != 0 {
        f := &stack[len(stack) - 1]
        out := next(f.p.node)

        /* all the successors are visited */
        if f.i >= len(out) {
            stack = stack[:len(stack) - 1]
            continue
        }

        /* move to the next successor */
        w := out[f.i]
        v := f.p
        f.i++

        /* not visited yet */
        idx := self.vertex[w.Id]
        if idx < 0 {
            stack = append(stack, _Frame { p: self.visit(w, v) })
            idx = self.vertex[w.Id]
        }

        /* add predecessors */
        q := self.nodes[idx]
        q.pred = append(q.pred, v)
    }
}

func (self *_LengauerTarjan) eval(p *_LtNode) *_LtNode {
    if p.ancestor == nil {
        return p
    } else {
        self.compress(p)
        return p.label
    }
}

func (self *_LengauerTarjan) link(p *_LtNode, q *_LtNode) {
    q.ancestor = p
}

func (self *_LengauerTarjan) compress(p *_LtNode) {
    s := self.stack[:0]

    /* find the path towards the root of the forest */
    for v := p; v.ancestor.ancestor != nil; v = v.ancestor {
        s = append(s, v)
    }

    /* compress from the top down */
    for i := len(s) - 1; i >= 0; i-- {
        v := s[i]
        if v.ancestor.label.semi < v.label.semi { v.label = v.ancestor.label }
        v.ancestor = v.ancestor.ancestor
    }

    /* keep the buffer for later */
    self.stack = s
}

func (self *_LengauerTarjan) solve() {
    /* perform Step 2 and Step 3 simultaneously */
    for i := len(self.nodes) - 1; i > 0; i-- {
        p := self.nodes[i]
        q := (*_LtNode)(nil)

        /* Step 2: Compute the semidominators of all vertices by applying Theorem 4.
         * Carry out the computation vertex by vertex in decreasing order by number. */
        for _, v := range p.pred {
            q = self.eval(v)
            p.semi = minint(p.semi, q.semi)
        }

        /* link the ancestor */
        self.link(p.parent, p)
        self.nodes[p.semi].bucket = append(self.nodes[p.semi].bucket, p)

        /* Step 3: Implicitly define the immediate dominator of each vertex by applying Corollary 1 */
        for _, v := range p.parent.bucket {
            if q = self.eval(v); q.semi < v.semi {
                v.dom = q
            } else {
                v.dom = p.parent
            }
        }

        /* clear the bucket */
        p.parent.bucket = p.parent.bucket[:0]
    }

    /* Step 4: Explicitly define the immediate dominator of each vertex, carrying out the
     * computation vertex by vertex in increasing order by number. */
    for _, p := range self.nodes[1:] {
        if p.dom == nil {
            panic("ssa: missing immediate dominator for node " + p.node.String())
        }
        if p.dom != self.nodes[p.semi] {
            p.dom = p.dom.dom
        }
    }
}

// Dominators computes the immediate dominator of every node reachable from
// the entry node, or the immediate post-dominator of every node that reaches
// the exit node.
type Dominators struct {
    Dir Direction
}

func (self Dominators) Apply(cfg *CFG) {
    var mark Marker
    var root *ir.Node
    var info *_DomInfo
    var next func(*ir.Node) []*ir.Node

    /* select the direction */
    switch self.Dir {
        case Forward  : mark, root, info, next = M_dominators, cfg.Graph.Entry, &cfg.dom, succs
        case Backward : mark, root, info, next = M_postdominators, cfg.Graph.Exit, &cfg.pdom, preds
        default       : panic("ssa: invalid dominator direction")
    }

    /* run the algorithm */
    nb := cfg.Size()
    lt := newLengauerTarjan(nb)
    lt.dfs(root, next)
    lt.solve()

    /* map the dominator relations */
    *info = _DomInfo {
        root  : root,
        idom  : make([]*ir.Node, nb),
        reach : bitset.New(uint(nb)),
    }

    /* the root is reachable but has no dominator */
    for _, p := range lt.nodes {
        info.reach.Set(uint(p.node.Id))
        if p.dom != nil {
            info.idom[p.node.Id] = p.dom.node
        }
    }

    /* mark as computed */
    cfg.Mark(mark)
}
