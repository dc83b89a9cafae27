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

package ir

import (
    `fmt`

    `github.com/deckarep/golang-set/v2`
)

type EditKind uint8

const (
    E_split_edge EditKind = iota
    E_split_preds
    E_split_tail
)

// Edit is a single pending structural rewrite. Nth tells apart parallel
// edges between the same pair of nodes.
type Edit struct {
    Kind EditKind
    From *Node
    To   *Node
    Nth  int
}

func (self Edit) String() string {
    switch self.Kind {
        case E_split_edge  : return fmt.Sprintf("split-edge %s -> %s #%d", self.From, self.To, self.Nth)
        case E_split_preds : return fmt.Sprintf("split-preds %s", self.To)
        case E_split_tail  : return fmt.Sprintf("split-tail %s", self.From)
        default            : return fmt.Sprintf("Edit(%d)", uint8(self.Kind))
    }
}

// Request batches structural rewrites so that passes can discover them while
// iterating over the graph, and apply them once the iteration is over.
type Request struct {
    g     *Graph
    seen  mapset.Set[Edit]
    edits []Edit
}

func (self *Graph) NewRequest() *Request {
    return &Request {
        g    : self,
        seen : mapset.NewThreadUnsafeSet[Edit](),
    }
}

func (self *Request) add(e Edit) {
    if self.seen.Add(e) {
        self.edits = append(self.edits, e)
    }
}

// SplitEdge inserts a pass-through node on the nth edge from -> to.
func (self *Request) SplitEdge(from *Node, to *Node, nth int) {
    self.add(Edit { Kind: E_split_edge, From: from, To: to, Nth: nth })
}

// SplitPreds gives p a new unique predecessor that takes all of its in-edges.
func (self *Request) SplitPreds(p *Node) {
    self.add(Edit { Kind: E_split_preds, To: p })
}

// SplitTail moves everything but the control transfer of p into a new node
// that takes all of its in-edges, leaving p with the control transfer only.
func (self *Request) SplitTail(p *Node) {
    self.add(Edit { Kind: E_split_tail, From: p })
}

func (self *Request) Len() int {
    return len(self.edits)
}

func (self *Request) Edits() []Edit {
    return self.edits
}

func (self *Request) validate() {
    edges := make(map[[2]*Node]int)
    preds := make(map[*Node]bool)
    targets := make(map[*Node]bool)

    /* check every edit against the current shape */
    for _, e := range self.edits {
        switch e.Kind {
            default: {
                panic("ir: invalid edit kind: " + e.String())
            }

            /* the edge must exist, as many times as it is split */
            case E_split_edge: {
                k := [2]*Node { e.From, e.To }
                edges[k]++
                targets[e.To] = true
                if e.To == self.g.Entry || e.From == self.g.Exit {
                    panic("ir: invalid edge: " + e.String())
                }
                if e.From.countSucc(e.To) < edges[k] || e.To.countPred(e.From) < edges[k] {
                    panic("ir: edge does not exist: " + e.String())
                }
            }

            /* only ordinary nodes can be split */
            case E_split_preds: {
                preds[e.To] = true
                if e.To == self.g.Entry || e.To == self.g.Exit || len(e.To.Pred) == 0 {
                    panic("ir: cannot split predecessors: " + e.String())
                }
            }

            /* the node must have something to move */
            case E_split_tail: {
                if e.From.Term() == nil || len(e.From.Ins) < 2 || len(e.From.Pred) == 0 {
                    panic("ir: cannot split tail: " + e.String())
                }
            }
        }
    }

    /* edge splits that target a node whose predecessors are also being split
     * would observe a different graph depending on the order */
    for p := range preds {
        if targets[p] {
            panic(fmt.Sprintf("ir: conflicting edits on node %s", p))
        }
    }
}

// Commit validates every pending edit against the current graph, then
// applies them all. It returns the nodes created.
func (self *Request) Commit() (ret []*Node) {
    self.validate()

    /* edge splits go first, since the other edits move in-edges around */
    for _, e := range self.edits {
        if e.Kind == E_split_edge {
            ret = append(ret, self.g.splitEdge(e.From, e.To))
        }
    }

    /* then the node splits, in request order */
    for _, e := range self.edits {
        switch e.Kind {
            case E_split_preds : ret = append(ret, self.g.splitPreds(e.To))
            case E_split_tail  : ret = append(ret, self.g.splitTail(e.From))
        }
    }

    /* reset the request */
    self.edits = nil
    self.seen.Clear()
    return
}

func (self *Graph) splitEdge(from *Node, to *Node) *Node {
    i := indexOf(from.Succ, to)
    j := indexOf(to.Pred, from)
    p := self.createNear(from, true)

    /* the new node sits on the same operand position */
    p.Ins = []IrNode { new(IrGoto) }
    p.Pred = []*Node { from }
    p.Succ = []*Node { to }
    from.Succ[i] = p
    to.Pred[j] = p
    return p
}

/* redirect moves every in-edge of p to q, keeping the predecessor order */
func (self *Graph) redirect(p *Node, q *Node) {
    done := make(map[*Node]bool, len(p.Pred))
    q.Pred = p.Pred
    q.Phi = p.Phi

    /* update the predecessors */
    for _, v := range q.Pred {
        if !done[v] {
            done[v] = true
            for i, s := range v.Succ {
                if s == p {
                    v.Succ[i] = q
                }
            }
        }
    }

    /* p is now only reachable through q */
    p.Phi = nil
    p.Pred = []*Node { q }
    q.Succ = []*Node { p }
}

func (self *Graph) splitPreds(p *Node) *Node {
    q := self.createNear(p, false)
    q.Ins = []IrNode { new(IrGoto) }
    self.redirect(p, q)
    return q
}

func (self *Graph) splitTail(p *Node) *Node {
    n := len(p.Ins) - 1
    q := self.createNear(p, false)

    /* move the body into the new node */
    q.Ins = make([]IrNode, 0, n + 1)
    q.Ins = append(q.Ins, p.Ins[:n]...)
    q.Ins = append(q.Ins, new(IrGoto))
    p.Ins = p.Ins[n:]

    /* the new node is not a pure pass-through */
    q.Synthetic = false
    self.redirect(p, q)
    return q
}
