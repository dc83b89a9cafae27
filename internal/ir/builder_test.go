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
    `strings`
    `testing`

    `github.com/stretchr/testify/require`
)

func TestBuilder_Build(t *testing.T) {
    b := CreateBuilder("build")
    c := b.Param("c")
    x := b.Local("x")
    e := b.CatchVar("e")
    b.Const(x, 1)
    b.Label("loop").If(c, "body", "done")
    b.Label("body").Binary(OpAdd, x, x, c).Invoke("f", "loop", "D", x)
    b.Label("done").Switch(x, []int32 { 1, 2 }, []string { "loop", "done" }, "")
    b.Dispatch("D", "h")
    b.Label("h").Catch(e, "Exception").Throw(e, "")
    m := b.Build()

    /* variables */
    require.Equal(t, "build", m.Name)
    require.Equal(t, []*Variable { c }, m.Params())
    require.Equal(t, K_catch, e.Kind)
    require.Equal(t, 2, e.Index)

    /* node layout */
    g := m.Graph
    require.Len(t, g.Nodes, 8)
    require.Equal(t, "_0", g.Nodes[1].String())
    require.Equal(t, []*Node { g.Nodes[1] }, g.Entry.Succ)

    /* the implicit block falls through into the label */
    loop := g.Nodes[2]
    require.Equal(t, "loop", loop.String())
    require.Equal(t, []*Node { loop }, g.Nodes[1].Succ)
    require.IsType(t, new(IrGoto), g.Nodes[1].Term())

    /* every kind of control transfer */
    body, done, d, h := g.Nodes[3], g.Nodes[4], g.Nodes[5], g.Nodes[6]
    require.Equal(t, []*Node { body, done }, loop.Succ)
    require.Equal(t, []*Node { loop, d }, body.Succ)
    require.Equal(t, K_switch, done.Kind)
    require.Equal(t, []*Node { loop, done, g.Exit }, done.Succ)
    require.Equal(t, K_dispatch, d.Kind)
    require.Empty(t, d.Ins)
    require.Equal(t, []*Node { h }, d.Succ)
    require.True(t, h.IsLanding())
    require.Equal(t, []*Node { g.Exit }, h.Succ)
    require.Equal(t, []*Node { g.Nodes[1], body, done }, loop.Pred)
    require.NoError(t, g.Check())
}

func TestBuilder_Errors(t *testing.T) {
    require.PanicsWithValue(t, "ir: empty method", func() {
        CreateBuilder("empty").Build()
    })
    require.PanicsWithValue(t, "ir: undefined label: nowhere", func() {
        CreateBuilder("undefined").Label("a").Goto("nowhere").Build()
    })
    require.PanicsWithValue(t, "ir: block a does not terminate", func() {
        CreateBuilder("open").Label("a").Build()
    })
    require.PanicsWithValue(t, "ir: label redefined: a", func() {
        CreateBuilder("twice").Label("a").Return(nil).Label("a")
    })
    require.Panics(t, func() {
        b := CreateBuilder("switch")
        b.Switch(b.Local("x"), []int32 { 1 }, nil, "")
    })
    require.PanicsWithValue(t, "ir: dispatch nodes cannot be fallen into: D", func() {
        CreateBuilder("dispatch").Label("a").Dispatch("D")
    })
}

func TestElements_String(t *testing.T) {
    m := NewMethod("strings")
    x := m.NewVar("x", K_local)
    y := m.NewVar("", K_local)
    rx, ry := R(x).Derive(1), R(y).Derive(2)
    require.Equal(t, "x.1", rx.String())
    require.Equal(t, "v1.2", ry.String())
    require.Equal(t, "<nil>", Ref{}.String())

    /* a Phi node lists its operands in predecessor order */
    phi := &IrPhi { R: rx, V: []Ref { R(x), rx } }
    require.Contains(t, phi.String(), "x.1")
    require.Len(t, Uses(phi), 2)
    require.Len(t, Defs(phi), 1)

    /* control transfers never define anything */
    for _, tr := range []IrTerminator {
        new(IrGoto),
        &IrIf { Cond: rx },
        &IrSwitch { Key: rx, Cases: []int32 { 1 } },
        &IrReturn {},
        &IrThrow { Value: rx },
        &IrInvoke { Fn: "f", In: []Ref { rx, ry } },
    } {
        require.Empty(t, Defs(tr), "%s", tr)
    }
    require.False(t, TouchesValue(new(IrGoto)))
    require.True(t, TouchesValue(&IrThrow { Value: rx }))
}

func TestDot(t *testing.T) {
    b := CreateBuilder("dot")
    c := b.Param("c")
    b.Label("a").If(c, "b", "")
    b.Label("b").Return(c)
    m := b.Build()
    out := Dot(m.Graph, func(p *Node) []string { return []string { "seq = " + p.String() } })
    require.True(t, strings.HasPrefix(out, "digraph CFG {"))
    require.Contains(t, out, "#&nbsp;seq&nbsp;=&nbsp;a")
    require.Contains(t, out, `bb_3 -> bb_4 [ label = "0" ]`)
    require.Contains(t, out, `bb_4 -> bb_2`)
    t.Log(out)
}
