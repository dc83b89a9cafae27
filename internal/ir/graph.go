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

    `github.com/pkg/errors`
)

// Graph is the control-flow graph of one method body. Nodes keeps the entry
// node first and the exit node last.
type Graph struct {
    Entry *Node
    Exit  *Node
    Nodes []*Node
    seq   int
}

func NewGraph() *Graph {
    g := new(Graph)
    g.Entry = g.newNode(K_entry)
    g.Exit = g.newNode(K_exit)
    g.Entry.Name = "entry"
    g.Exit.Name = "exit"
    g.Nodes = []*Node { g.Entry, g.Exit }
    return g
}

func (self *Graph) newNode(kind NodeKind) *Node {
    self.seq++
    return &Node {
        Id   : -1,
        Seq  : self.seq,
        Kind : kind,
    }
}

// CreateNode adds a new node right before the exit node.
func (self *Graph) CreateNode(kind NodeKind) *Node {
    if kind == K_entry || kind == K_exit {
        panic("ir: a graph has exactly one entry and one exit node")
    }
    p := self.newNode(kind)
    self.insertAt(len(self.Nodes) - 1, p)
    return p
}

func (self *Graph) createNear(at *Node, after bool) *Node {
    i := indexOf(self.Nodes, at)
    p := self.newNode(K_normal)

    /* never place anything before the entry or after the exit */
    if after {
        i++
    }
    if i <= 0 {
        i = 1
    } else if i >= len(self.Nodes) {
        i = len(self.Nodes) - 1
    }

    /* mark as synthetic pass-through */
    p.Synthetic = true
    self.insertAt(i, p)
    return p
}

func (self *Graph) insertAt(i int, p *Node) {
    self.Nodes = append(self.Nodes, nil)
    copy(self.Nodes[i + 1:], self.Nodes[i:])
    self.Nodes[i] = p
}

// MaxSeq returns the largest creation serial handed out so far.
func (self *Graph) MaxSeq() int {
    return self.seq
}

// AddEdge connects from to to. Parallel edges are only allowed out of nodes
// with a multi-way control transfer.
func (self *Graph) AddEdge(from *Node, to *Node) {
    if from == self.Exit {
        panic("ir: the exit node cannot have successors")
    }
    if to == self.Entry {
        panic("ir: the entry node cannot have predecessors")
    }
    if !from.multiway() && from.countSucc(to) != 0 {
        panic(fmt.Sprintf("ir: duplicated edge %s -> %s", from, to))
    }
    from.Succ = append(from.Succ, to)
    to.addPred(from)
}

// RemoveEdge removes one edge from -> to, along with the matching Phi operands.
func (self *Graph) RemoveEdge(from *Node, to *Node) {
    i := indexOf(from.Succ, to)
    j := indexOf(to.Pred, from)

    /* the edge must exist on both sides */
    if i < 0 || j < 0 {
        panic(fmt.Sprintf("ir: edge %s -> %s does not exist", from, to))
    }

    /* remove from both sides */
    from.Succ = append(from.Succ[:i], from.Succ[i + 1:]...)
    to.dropPred(j)
}

// RemoveNode removes p from the graph, and cleans up every edge that
// touches it.
func (self *Graph) RemoveNode(p *Node) {
    if p == self.Entry || p == self.Exit {
        panic("ir: cannot remove the entry or exit node")
    }

    /* remove from the node list */
    if i := indexOf(self.Nodes, p); i < 0 {
        panic(fmt.Sprintf("ir: node %s does not belong to this graph", p))
    } else {
        self.Nodes = append(self.Nodes[:i], self.Nodes[i + 1:]...)
    }

    /* unlink from the successors */
    for _, s := range p.Succ {
        if s != p {
            for i := indexOf(s.Pred, p); i >= 0; i = indexOf(s.Pred, p) {
                s.dropPred(i)
            }
        }
    }

    /* unlink from the predecessors */
    for _, q := range p.Pred {
        if q != p {
            succ := q.Succ[:0]
            for _, s := range q.Succ {
                if s != p {
                    succ = append(succ, s)
                }
            }
            q.Succ = succ
        }
    }

    /* clear the edges */
    p.Succ = nil
    p.Pred = nil
}

// ReplaceSuccessor redirects every edge p -> old to p -> to.
func (self *Graph) ReplaceSuccessor(p *Node, old *Node, to *Node) {
    if to == self.Entry {
        panic("ir: the entry node cannot have predecessors")
    }
    if to == old {
        return
    }
    for i, s := range p.Succ {
        if s == old {
            p.Succ[i] = to
            old.dropPred(indexOf(old.Pred, p))
            to.addPred(p)
        }
    }
}

// Check validates the structural invariants of the graph.
func (self *Graph) Check() error {
    if len(self.Nodes) < 2 || self.Nodes[0] != self.Entry || self.Nodes[len(self.Nodes) - 1] != self.Exit {
        return errors.New("entry and exit must be the first and last node")
    }
    if len(self.Entry.Pred) != 0 {
        return errors.New("entry node has predecessors")
    }
    if len(self.Exit.Succ) != 0 {
        return errors.New("exit node has successors")
    }

    /* check every node */
    for _, p := range self.Nodes {
        if err := self.checkNode(p); err != nil {
            return errors.Wrapf(err, "node %s", p)
        }
    }
    return nil
}

func (self *Graph) checkNode(p *Node) error {
    for _, s := range p.Succ {
        if s.countPred(p) != p.countSucc(s) {
            return errors.Errorf("edge to %s is not mutual", s)
        }
    }
    for _, q := range p.Pred {
        if q.countSucc(p) != p.countPred(q) {
            return errors.Errorf("edge from %s is not mutual", q)
        }
    }

    /* control transfers may only appear last */
    for i, v := range p.Ins {
        if _, ok := v.(IrTerminator); ok && i != len(p.Ins) - 1 {
            return errors.Errorf("control transfer %q is not the last element", v)
        }
        if _, ok := v.(*IrCatch); ok && i != 0 {
            return errors.Errorf("exception landing %q is not the first element", v)
        }
        if _, ok := v.(*IrPhi); ok {
            return errors.Errorf("phi %q found in the element list", v)
        }
    }

    /* the control transfer must agree with the successors */
    if tr := p.Term(); tr != nil && tr.Arity() != len(p.Succ) {
        return errors.Errorf("%q expects %d successors, got %d", tr, tr.Arity(), len(p.Succ))
    }

    /* every Phi node has one operand per predecessor */
    for _, phi := range p.Phi {
        if len(phi.V) != len(p.Pred) {
            return errors.Errorf("%q has %d operands but the node has %d predecessors", phi, len(phi.V), len(p.Pred))
        }
    }
    return nil
}
