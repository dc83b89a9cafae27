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
    `fmt`
    `strings`

    `github.com/bits-and-blooms/bitset`
    `github.com/cloudwego/cfgssa/internal/ir`
)

// Marker identifies an annotation attached to a CFG, or a pass that has
// completed on it.
type Marker uint32

const (
    M_numbered Marker = 1 << iota
    M_dominators
    M_postdominators
    M_domtree
    M_frontier
    M_normalized
    M_phi
    M_renamed
    M_phielim
)

/* annotations keyed by the dense node ID */
const _M_idkeyed = M_numbered | M_dominators | M_postdominators | M_domtree | M_frontier

var _MarkerNames = [...]string {
    "numbered",
    "dominators",
    "post-dominators",
    "dominator-tree",
    "dominance-frontier",
    "normalized",
    "phi-placed",
    "renamed",
    "phi-eliminated",
}

func (self Marker) String() string {
    var buf []string
    for i, s := range _MarkerNames {
        if self & (1 << i) != 0 {
            buf = append(buf, s)
        }
    }
    return strings.Join(buf, "|")
}

type _DomInfo struct {
    root  *ir.Node
    idom  []*ir.Node
    reach *bitset.BitSet
}

// CFG carries one method through the SSA construction, along with the side
// tables computed by each pass. Side tables are indexed by the dense node ID.
type CFG struct {
    *ir.Method
    marks    Marker
    epoch    int
    nodes    []*ir.Node
    dom      _DomInfo
    pdom     _DomInfo
    children [][]*ir.Node
    preorder []*ir.Node
    frontier []*bitset.BitSet
}

func NewCFG(m *ir.Method) *CFG {
    return &CFG { Method: m }
}

func (self *CFG) Has(m Marker) bool {
    return self.marks & m == m
}

func (self *CFG) Mark(m Marker) {
    self.marks |= m
}

func (self *CFG) Marks() Marker {
    return self.marks
}

// Discard drops the annotations named by m, freeing the side tables.
func (self *CFG) Discard(m Marker) {
    if m & M_numbered != 0 { self.nodes = nil }
    if m & M_dominators != 0 { self.dom = _DomInfo{} }
    if m & M_postdominators != 0 { self.pdom = _DomInfo{} }
    if m & M_domtree != 0 { self.children, self.preorder = nil, nil }
    if m & M_frontier != 0 { self.frontier = nil }
    self.marks &^= m
}

func (self *CFG) require(m Marker) {
    if !self.Has(m) {
        panic(fmt.Sprintf("ssa: annotation %s is queried before it was computed", m &^ self.marks))
    }
}

func (self *CFG) checkid(p *ir.Node) {
    if p.Id < 0 || p.Id >= len(self.nodes) || self.nodes[p.Id] != p {
        panic(fmt.Sprintf("ssa: node %s is not numbered in epoch %d", p, self.epoch))
    }
}

// Epoch returns the numbering epoch. Annotations computed under different
// epochs must never be mixed.
func (self *CFG) Epoch() int {
    return self.epoch
}

// Size returns the number of numbered nodes.
func (self *CFG) Size() int {
    self.require(M_numbered)
    return len(self.nodes)
}

// Node returns the node numbered id.
func (self *CFG) Node(id int) *ir.Node {
    self.require(M_numbered)
    return self.nodes[id]
}

func (self *CFG) Nodes() []*ir.Node {
    self.require(M_numbered)
    return self.nodes
}

func (self *CFG) dominfo(m Marker) *_DomInfo {
    self.require(m)
    if m == M_dominators {
        return &self.dom
    } else {
        return &self.pdom
    }
}

func (self *_DomInfo) lookup(p *ir.Node, what string) *ir.Node {
    if !self.reach.Test(uint(p.Id)) {
        panic(fmt.Sprintf("ssa: %s of unreachable node %s is queried", what, p))
    } else {
        return self.idom[p.Id]
    }
}

// Reachable tells whether p is reachable from the entry node.
func (self *CFG) Reachable(p *ir.Node) bool {
    self.checkid(p)
    return self.dominfo(M_dominators).reach.Test(uint(p.Id))
}

// Idom returns the immediate dominator of p, or nil for the entry node.
func (self *CFG) Idom(p *ir.Node) *ir.Node {
    self.checkid(p)
    return self.dominfo(M_dominators).lookup(p, "dominator")
}

// PostIdom returns the immediate post-dominator of p, or nil for the exit node.
func (self *CFG) PostIdom(p *ir.Node) *ir.Node {
    self.checkid(p)
    return self.dominfo(M_postdominators).lookup(p, "post-dominator")
}

// Dominates tells whether every path from the entry node to b passes through a.
func (self *CFG) Dominates(a *ir.Node, b *ir.Node) bool {
    for p := b; p != nil; p = self.Idom(p) {
        if p == a {
            return true
        }
    }
    return false
}

func (self *CFG) StrictlyDominates(a *ir.Node, b *ir.Node) bool {
    return a != b && self.Dominates(a, b)
}

// Children returns the children of p in the dominator tree.
func (self *CFG) Children(p *ir.Node) []*ir.Node {
    self.require(M_domtree)
    self.checkid(p)
    return self.children[p.Id]
}

// Preorder returns the reachable nodes in dominator tree preorder.
func (self *CFG) Preorder() []*ir.Node {
    self.require(M_domtree)
    return self.preorder
}

// Frontier returns the dominance frontier of p as a set of node IDs.
func (self *CFG) Frontier(p *ir.Node) *bitset.BitSet {
    self.require(M_frontier)
    self.checkid(p)
    return self.frontier[p.Id]
}

// String dumps the graph with the annotations currently attached.
func (self *CFG) String() string {
    return ir.Dot(self.Graph, self.annotations)
}

func (self *CFG) annotations(p *ir.Node) []string {
    var ret []string
    if !self.Has(M_numbered) || p.Id < 0 || p.Id >= len(self.nodes) || self.nodes[p.Id] != p {
        return nil
    }

    /* node ID */
    ret = append(ret, fmt.Sprintf("id = %d", p.Id))

    /* immediate dominator */
    if self.Has(M_dominators) && self.dom.reach.Test(uint(p.Id)) {
        if d := self.dom.idom[p.Id]; d != nil {
            ret = append(ret, fmt.Sprintf("idom = %s", d))
        }
    }

    /* dominance frontier */
    if self.Has(M_frontier) {
        var df []string
        for i, ok := self.frontier[p.Id].NextSet(0); ok; i, ok = self.frontier[p.Id].NextSet(i + 1) {
            df = append(df, self.nodes[i].String())
        }
        ret = append(ret, fmt.Sprintf("df = {%s}", strings.Join(df, ", ")))
    }
    return ret
}
