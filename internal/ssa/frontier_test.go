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

    `github.com/bits-and-blooms/bitset`
    `github.com/cloudwego/cfgssa/internal/ir`
    `github.com/stretchr/testify/require`
    `pgregory.net/rapid`
)

func members(b *bitset.BitSet) []int {
    ret := make([]int, 0, b.Count())
    for i, ok := b.NextSet(0); ok; i, ok = b.NextSet(i + 1) {
        ret = append(ret, int(i))
    }
    return ret
}

/* naiveFrontier computes DF(d) straight from the definition */
func naiveFrontier(cfg *CFG, d *ir.Node) []int {
    ret := []int{}
    for _, p := range cfg.Nodes() {
        if !cfg.Reachable(p) || cfg.StrictlyDominates(d, p) {
            continue
        }
        for _, q := range p.Pred {
            if cfg.Reachable(q) && cfg.Dominates(d, q) {
                ret = append(ret, p.Id)
                break
            }
        }
    }
    return ret
}

func frontier(g *ir.Graph) *CFG {
    cfg := dominate(g, Forward)
    DomTree{}.Apply(cfg)
    Frontier{}.Apply(cfg)
    return cfg
}

func TestFrontier_Diamond(t *testing.T) {
    g, n := newGraph(4, [][2]int {
        {0, 1},
        {1, 2}, {1, 3},
        {2, 4}, {3, 4},
        {4, 5},
    })
    cfg := frontier(g)
    require.Empty(t, members(cfg.Frontier(n[1])))
    require.Equal(t, []int { n[4].Id }, members(cfg.Frontier(n[2])))
    require.Equal(t, []int { n[4].Id }, members(cfg.Frontier(n[3])))
    require.Empty(t, members(cfg.Frontier(n[4])))
}

func TestFrontier_Loop(t *testing.T) {
    g, n := newGraph(4, [][2]int {
        {0, 1},
        {1, 2},
        {2, 3}, {2, 4},
        {3, 1},
        {4, 5},
    })
    cfg := frontier(g)
    require.Equal(t, []int { n[1].Id }, members(cfg.Frontier(n[1])))
    require.Equal(t, []int { n[1].Id }, members(cfg.Frontier(n[2])))
    require.Equal(t, []int { n[1].Id }, members(cfg.Frontier(n[3])))
    require.Empty(t, members(cfg.Frontier(n[4])))
}

func TestFrontier_SelfLoop(t *testing.T) {
    g, n := newGraph(2, [][2]int {
        {0, 1},
        {1, 2},
        {2, 2}, {2, 3},
    })
    cfg := frontier(g)
    require.Equal(t, []int { n[2].Id }, members(cfg.Frontier(n[2])))
    require.Empty(t, members(cfg.Frontier(n[1])))
}

func TestDomTree_Children(t *testing.T) {
    g, n := newGraph(4, [][2]int {
        {0, 1},
        {1, 2}, {1, 3},
        {2, 4}, {3, 4},
        {4, 5},
    })
    cfg := frontier(g)
    require.Equal(t, []*ir.Node { n[1] }, cfg.Children(n[0]))
    require.Equal(t, []*ir.Node { n[2], n[3], n[4] }, cfg.Children(n[1]))
    require.Equal(t, []*ir.Node { n[5] }, cfg.Children(n[4]))
    require.Empty(t, cfg.Children(n[2]))
    require.Equal(t, n, cfg.Preorder())
}

func TestFrontier_MatchesDefinition(t *testing.T) {
    rapid.Check(t, func(t *rapid.T) {
        g := genGraph(_RapidSource { t }, rapid.IntRange(1, 32).Draw(t, "nodes"))
        cfg := frontier(g)
        for _, p := range cfg.Nodes() {
            if cfg.Reachable(p) {
                require.Equal(t, naiveFrontier(cfg, p), members(cfg.Frontier(p)), "DF(%s)", p)
            } else {
                require.Empty(t, members(cfg.Frontier(p)), "DF(%s)", p)
            }
        }
    })
}

func TestDomTree_PreorderVisitsParentsFirst(t *testing.T) {
    rapid.Check(t, func(t *rapid.T) {
        g := genGraph(_RapidSource { t }, rapid.IntRange(1, 32).Draw(t, "nodes"))
        cfg := frontier(g)
        seen := make(map[*ir.Node]bool)
        nb := 0
        for _, p := range cfg.Preorder() {
            require.True(t, cfg.Reachable(p))
            if d := cfg.Idom(p); d != nil {
                require.True(t, seen[d], "%s is visited before %s", p, d)
            }
            seen[p] = true
        }
        for _, p := range cfg.Nodes() {
            if cfg.Reachable(p) {
                nb++
            }
        }
        require.Len(t, cfg.Preorder(), nb)
    })
}
