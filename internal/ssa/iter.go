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
    `github.com/oleiade/lane`
)

type _Frame struct {
    p *ir.Node
    i int
}

func succs(p *ir.Node) []*ir.Node { return p.Succ }
func preds(p *ir.Node) []*ir.Node { return p.Pred }

/* walk is an iterative depth-first search. Visited nodes are tracked by
 * their creation serial, so it works before the nodes are numbered. */
func walk(g *ir.Graph, root *ir.Node, next func(*ir.Node) []*ir.Node, pre func(*ir.Node), post func(*ir.Node)) {
    s := lane.NewStack()
    v := bitset.New(uint(g.MaxSeq() + 1))

    /* start from the root */
    v.Set(uint(root.Seq))
    s.Push(&_Frame { p: root })

    /* visit the root */
    if pre != nil {
        pre(root)
    }

    /* scan until the stack is empty */
    for !s.Empty() {
        f := s.Head().(*_Frame)
        out := next(f.p)

        /* all the successors are visited, pop the current node */
        if f.i >= len(out) {
            if s.Pop(); post != nil {
                post(f.p)
            }
            continue
        }

        /* move to the next successor */
        w := out[f.i]
        f.i++

        /* not visited yet */
        if !v.Test(uint(w.Seq)) {
            if v.Set(uint(w.Seq)); pre != nil {
                pre(w)
            }
            s.Push(&_Frame { p: w })
        }
    }
}

// BlockIter iterates over a fixed sequence of nodes.
type BlockIter struct {
    i  int
    b  *ir.Node
    bb []*ir.Node
}

func newBlockIter(bb []*ir.Node) *BlockIter {
    return &BlockIter { bb: bb }
}

func (self *BlockIter) Next() bool {
    if self.i >= len(self.bb) {
        self.b = nil
        return false
    } else {
        self.b = self.bb[self.i]
        self.i++
        return true
    }
}

func (self *BlockIter) Block() *ir.Node {
    return self.b
}

func (self *BlockIter) ForEach(action func(bb *ir.Node)) {
    for self.Next() {
        action(self.b)
    }
}

// Reversed returns the remaining nodes in reverse order.
func (self *BlockIter) Reversed() []*ir.Node {
    ret := make([]*ir.Node, 0, len(self.bb) - self.i)
    for self.Next() {
        ret = append(ret, self.b)
    }
    blockreverse(ret)
    return ret
}

func blockreverse(s []*ir.Node) {
    for i, j := 0, len(s) - 1; i < j; i, j = i + 1, j - 1 {
        s[i], s[j] = s[j], s[i]
    }
}

// PreOrder visits the nodes reachable from the entry node in depth-first
// preorder.
func PreOrder(g *ir.Graph) *BlockIter {
    var ret []*ir.Node
    walk(g, g.Entry, succs, func(p *ir.Node) { ret = append(ret, p) }, nil)
    return newBlockIter(ret)
}

// PostOrder visits the nodes reachable from the entry node in depth-first
// postorder.
func PostOrder(g *ir.Graph) *BlockIter {
    var ret []*ir.Node
    walk(g, g.Entry, succs, nil, func(p *ir.Node) { ret = append(ret, p) })
    return newBlockIter(ret)
}

// ReversePostOrder lists the nodes reachable from the entry node so that
// every node comes before its successors, back edges aside.
func ReversePostOrder(g *ir.Graph) []*ir.Node {
    return PostOrder(g).Reversed()
}

// BackwardPostOrder visits the nodes that reach the exit node, walking the
// predecessor edges from the exit node.
func BackwardPostOrder(g *ir.Graph) *BlockIter {
    var ret []*ir.Node
    walk(g, g.Exit, preds, nil, func(p *ir.Node) { ret = append(ret, p) })
    return newBlockIter(ret)
}

// DomTreeOrder visits the reachable nodes in dominator tree preorder.
func DomTreeOrder(cfg *CFG) *BlockIter {
    return newBlockIter(cfg.Preorder())
}

func domTreePreorder(cfg *CFG) []*ir.Node {
    s := lane.NewStack()
    ret := make([]*ir.Node, 0, len(cfg.nodes))

    /* children are pushed in reverse, so they pop in list order */
    for s.Push(cfg.Graph.Entry); !s.Empty(); {
        p := s.Pop().(*ir.Node)
        ret = append(ret, p)
        for i := len(cfg.children[p.Id]) - 1; i >= 0; i-- {
            s.Push(cfg.children[p.Id][i])
        }
    }
    return ret
}
