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
    `testing`

    `github.com/cloudwego/cfgssa/internal/ir`
    `github.com/stretchr/testify/require`
    `gonum.org/v1/gonum/graph`
    `gonum.org/v1/gonum/graph/flow`
    `gonum.org/v1/gonum/graph/simple`
    `pgregory.net/rapid`
)

/* newGraph creates n nodes between the entry and the exit node, the entry
 * node is numbered 0 and the exit node is numbered n + 1 */
func newGraph(n int, edges [][2]int) (*ir.Graph, []*ir.Node) {
    g := ir.NewGraph()
    nodes := []*ir.Node { g.Entry }
    for i := 0; i < n; i++ {
        nodes = append(nodes, g.CreateNode(ir.K_normal))
    }
    nodes = append(nodes, g.Exit)
    for _, e := range edges {
        g.AddEdge(nodes[e[0]], nodes[e[1]])
    }
    return g, nodes
}

func dominate(g *ir.Graph, dir Direction) *CFG {
    cfg := NewCFG(&ir.Method { Name: "test", Graph: g })
    Numbering{}.Apply(cfg)
    Dominators { Dir: dir }.Apply(cfg)
    return cfg
}

func TestDominators_Diamond(t *testing.T) {
    g, n := newGraph(4, [][2]int {
        {0, 1},
        {1, 2}, {1, 3},
        {2, 4}, {3, 4},
        {4, 5},
    })
    cfg := dominate(g, Forward)
    require.Nil(t, cfg.Idom(n[0]))
    require.Equal(t, n[0], cfg.Idom(n[1]))
    require.Equal(t, n[1], cfg.Idom(n[2]))
    require.Equal(t, n[1], cfg.Idom(n[3]))
    require.Equal(t, n[1], cfg.Idom(n[4]))
    require.Equal(t, n[4], cfg.Idom(n[5]))
    require.True(t, cfg.Dominates(n[1], n[4]))
    require.True(t, cfg.Dominates(n[4], n[4]))
    require.False(t, cfg.StrictlyDominates(n[4], n[4]))
    require.False(t, cfg.Dominates(n[2], n[4]))
    require.True(t, cfg.Has(M_dominators))
    require.False(t, cfg.Has(M_postdominators))
}

func TestDominators_PostDominators(t *testing.T) {
    g, n := newGraph(4, [][2]int {
        {0, 1},
        {1, 2}, {1, 3},
        {2, 4}, {3, 4},
        {4, 5},
    })
    cfg := dominate(g, Backward)
    require.Nil(t, cfg.PostIdom(n[5]))
    require.Equal(t, n[5], cfg.PostIdom(n[4]))
    require.Equal(t, n[4], cfg.PostIdom(n[3]))
    require.Equal(t, n[4], cfg.PostIdom(n[2]))
    require.Equal(t, n[4], cfg.PostIdom(n[1]))
    require.Equal(t, n[1], cfg.PostIdom(n[0]))
    require.Panics(t, func() { cfg.Idom(n[1]) })
}

func TestDominators_Loop(t *testing.T) {
    g, n := newGraph(4, [][2]int {
        {0, 1},
        {1, 2},
        {2, 3}, {2, 4},
        {3, 1},
        {4, 5},
    })
    cfg := dominate(g, Forward)
    require.Equal(t, n[1], cfg.Idom(n[2]))
    require.Equal(t, n[2], cfg.Idom(n[3]))
    require.Equal(t, n[2], cfg.Idom(n[4]))
    require.True(t, cfg.Dominates(n[1], n[3]))
    require.False(t, cfg.Dominates(n[3], n[1]))
}

func TestDominators_Unreachable(t *testing.T) {
    g, n := newGraph(3, [][2]int {
        {0, 1},
        {1, 3},
        {2, 3},
        {3, 4},
    })
    cfg := dominate(g, Forward)
    require.True(t, cfg.Reachable(n[3]))
    require.False(t, cfg.Reachable(n[2]))
    require.Equal(t, n[1], cfg.Idom(n[3]))
    require.PanicsWithValue(t, "ssa: dominator of unreachable node " + n[2].String() + " is queried", func() {
        cfg.Idom(n[2])
    })
}

func TestDominators_Uncomputed(t *testing.T) {
    g, n := newGraph(1, [][2]int { {0, 1}, {1, 2} })
    cfg := NewCFG(&ir.Method { Graph: g })
    require.Panics(t, func() { cfg.Size() })
    Numbering{}.Apply(cfg)
    require.PanicsWithValue(t, "ssa: annotation dominators is queried before it was computed", func() {
        cfg.Idom(n[1])
    })
}

func TestDominators_StaleNumbering(t *testing.T) {
    g, n := newGraph(1, [][2]int { {0, 1}, {1, 2} })
    cfg := dominate(g, Forward)
    p := g.CreateNode(ir.K_normal)
    g.AddEdge(n[1], p)
    require.Panics(t, func() { cfg.Reachable(p) })
    Numbering{}.Apply(cfg)
    require.Equal(t, 2, cfg.Epoch())
    require.False(t, cfg.Has(M_dominators))
    require.Panics(t, func() { cfg.Reachable(p) })
}

func TestDominators_DeepChain(t *testing.T) {
    const N = 200000
    edges := make([][2]int, 0, N + 1)
    for i := 0; i <= N; i++ {
        edges = append(edges, [2]int { i, i + 1 })
    }
    g, n := newGraph(N, edges)
    cfg := dominate(g, Forward)
    for i := 1; i <= N + 1; i++ {
        if cfg.Idom(n[i]) != n[i - 1] {
            t.Fatalf("idom(%s) = %s, expected %s", n[i], cfg.Idom(n[i]), n[i - 1])
        }
    }
    cfg = dominate(g, Backward)
    require.Equal(t, n[N + 1], cfg.PostIdom(n[N]))
    require.Equal(t, n[1], cfg.PostIdom(n[0]))
}

/* oracle builds the same graph in gonum, dropping self loops, which never
 * affect dominance */
func oracle(cfg *CFG, dir Direction) flow.DominatorTree {
    gg := simple.NewDirectedGraph()
    for _, p := range cfg.Nodes() {
        gg.AddNode(simple.Node(p.Id))
    }
    for _, p := range cfg.Nodes() {
        for _, q := range p.Succ {
            u, v := int64(p.Id), int64(q.Id)
            if dir == Backward {
                u, v = v, u
            }
            if u != v && !gg.HasEdgeFromTo(u, v) {
                gg.SetEdge(gg.NewEdge(simple.Node(u), simple.Node(v)))
            }
        }
    }
    root := cfg.Graph.Entry
    if dir == Backward {
        root = cfg.Graph.Exit
    }
    return flow.Dominators(simple.Node(root.Id), gg)
}

func checkOracle(t require.TestingT, cfg *CFG, dir Direction) {
    info := cfg.dominfo(M_dominators)
    if dir == Backward {
        info = cfg.dominfo(M_postdominators)
    }
    dt := oracle(cfg, dir)
    for _, p := range cfg.Nodes() {
        var d graph.Node
        if p == info.root {
            continue
        }
        if d = dt.DominatorOf(int64(p.Id)); !info.reach.Test(uint(p.Id)) {
            require.Nil(t, d, "unreachable node %s", p)
        } else {
            require.NotNil(t, d, "reachable node %s", p)
            require.Equal(t, int(d.ID()), info.idom[p.Id].Id, "dominator of %s", p)
        }
    }
}

func TestDominators_MatchesReference(t *testing.T) {
    rapid.Check(t, func(t *rapid.T) {
        g := genGraph(_RapidSource { t }, rapid.IntRange(1, 40).Draw(t, "nodes"))
        cfg := dominate(g, Forward)
        checkOracle(t, cfg, Forward)
        Dominators { Dir: Backward }.Apply(cfg)
        checkOracle(t, cfg, Backward)
    })
}

func TestDominators_TreeProperties(t *testing.T) {
    rapid.Check(t, func(t *rapid.T) {
        g := genGraph(_RapidSource { t }, rapid.IntRange(1, 40).Draw(t, "nodes"))
        cfg := dominate(g, Forward)
        for _, p := range cfg.Nodes() {
            if !cfg.Reachable(p) || p == g.Entry {
                continue
            }

            /* the dominator chain ends at the entry node */
            n := 0
            d := p
            for ; cfg.Idom(d) != nil; d = cfg.Idom(d) {
                n++
                require.LessOrEqual(t, n, cfg.Size(), "dominator chain of %s is cyclic", p)
            }
            require.Equal(t, g.Entry, d)

            /* the immediate dominator dominates every reachable predecessor */
            for _, q := range p.Pred {
                if cfg.Reachable(q) {
                    require.True(t, cfg.Dominates(cfg.Idom(p), q), "%s -> %s", q, p)
                }
            }
        }
    })
}
