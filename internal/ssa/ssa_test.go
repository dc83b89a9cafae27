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
    `github.com/cloudwego/cfgssa/fuzz`
    `github.com/cloudwego/cfgssa/internal/ir`
    `github.com/cloudwego/cfgssa/internal/opts`
    `github.com/davecgh/go-spew/spew`
    `github.com/sirupsen/logrus`
    `pgregory.net/rapid`
)

type _RapidSource struct {
    t *rapid.T
}

func (self _RapidSource) Int(n int) int {
    return rapid.IntRange(0, n - 1).Draw(self.t, "n")
}

type _Fataler interface {
    Fatalf(format string, args ...interface{})
}

func testOptions() opts.Options {
    log := logrus.New()
    log.SetLevel(logrus.DebugLevel)
    return opts.Options {
        Verify     : true,
        MaxWorkers : 1,
        Logger     : log,
    }
}

/* runUntil runs the SSA passes, stopping right after the named one */
func runUntil(t _Fataler, m *ir.Method, last string) *CFG {
    cfg := NewCFG(m)
    for _, p := range Passes {
        p.Pass.Apply(cfg)
        if p.Name == last {
            return cfg
        }
    }
    t.Fatalf("no such pass: %s", last)
    return nil
}

func findNode(t _Fataler, g *ir.Graph, name string) *ir.Node {
    for _, p := range g.Nodes {
        if p.Name == name {
            return p
        }
    }
    t.Fatalf("no such node: %s", name)
    return nil
}

func phiOf(p *ir.Node, v *ir.Variable) []*ir.IrPhi {
    var ret []*ir.IrPhi
    for _, phi := range p.Phi {
        if phi.R.Var == v {
            ret = append(ret, phi)
        }
    }
    return ret
}

func dump(v ...interface{}) string {
    return spew.Sdump(v...)
}

/* genGraph builds a random graph without any elements */
func genGraph(src fuzz.Source, nb int) *ir.Graph {
    g := ir.NewGraph()
    nodes := []*ir.Node { g.Entry }
    edges := make(map[[2]*ir.Node]bool)

    /* create all the nodes */
    for i := 0; i < nb; i++ {
        nodes = append(nodes, g.CreateNode(ir.K_normal))
    }

    /* the entry leads to the first node */
    nodes = append(nodes, g.Exit)
    g.AddEdge(g.Entry, nodes[1])

    /* add random edges between the nodes */
    for i := 1; i <= nb; i++ {
        for k := src.Int(3) + 1; k > 0; k-- {
            to := nodes[src.Int(nb + 1) + 1]
            if e := [2]*ir.Node { nodes[i], to }; !edges[e] {
                edges[e] = true
                g.AddEdge(nodes[i], to)
            }
        }
    }
    return g
}

func genMethodRapid(t *rapid.T) *ir.Method {
    nb := rapid.IntRange(1, 24).Draw(t, "blocks")
    nv := rapid.IntRange(1, 5).Draw(t, "vars")
    return fuzz.GenMethod(_RapidSource { t }, nb, nv)
}
