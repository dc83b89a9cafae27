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
)

type _Block struct {
    node *Node
    term IrTerminator
    next []string
}

// Builder assembles a method body from labelled blocks. An empty label as a
// branch target stands for the exit node.
type Builder struct {
    m     *Method
    cur   *_Block
    refs  map[string]*_Block
    order []*_Block
}

func CreateBuilder(name string) *Builder {
    return &Builder {
        m    : NewMethod(name),
        refs : make(map[string]*_Block),
    }
}

func (self *Builder) Param(name string) *Variable {
    return self.m.NewVar(name, K_param)
}

func (self *Builder) Local(name string) *Variable {
    return self.m.NewVar(name, K_local)
}

func (self *Builder) CatchVar(name string) *Variable {
    return self.m.NewVar(name, K_catch)
}

func (self *Builder) block(name string) *_Block {
    if bb, ok := self.refs[name]; ok {
        return bb
    }

    /* create a new block */
    bb := &_Block { node: self.m.Graph.CreateNode(K_normal) }
    bb.node.Name = name

    /* add to block list */
    self.refs[name] = bb
    self.order = append(self.order, bb)
    return bb
}

func (self *Builder) current() *_Block {
    if self.cur == nil {
        self.cur = self.block(fmt.Sprintf("_%d", len(self.order)))
    }
    return self.cur
}

func (self *Builder) emit(p IrNode) *Builder {
    bb := self.current()
    bb.node.Ins = append(bb.node.Ins, p)
    return self
}

func (self *Builder) terminate(tr IrTerminator, kind NodeKind, next ...string) *Builder {
    bb := self.current()
    bb.term = tr
    bb.next = next
    bb.node.Kind = kind
    self.cur = nil
    return self
}

// Label starts a new block. The current block, if still open, falls
// through into it.
func (self *Builder) Label(name string) *Builder {
    if self.cur != nil {
        self.Goto(name)
    }
    bb := self.block(name)
    if bb.term != nil || len(bb.node.Ins) != 0 {
        panic("ir: label redefined: " + name)
    }
    self.cur = bb
    return self
}

func (self *Builder) Const(r *Variable, v int64) *Builder {
    return self.emit(&IrConst { R: R(r), V: v })
}

func (self *Builder) Copy(r *Variable, v *Variable) *Builder {
    return self.emit(&IrCopy { R: R(r), V: R(v) })
}

func (self *Builder) Unary(op UnaryOp, r *Variable, v *Variable) *Builder {
    return self.emit(&IrUnary { R: R(r), V: R(v), Op: op })
}

func (self *Builder) Binary(op BinaryOp, r *Variable, x *Variable, y *Variable) *Builder {
    return self.emit(&IrBinary { R: R(r), X: R(x), Y: R(y), Op: op })
}

// Call emits a call that cannot throw. out may be nil.
func (self *Builder) Call(fn string, out *Variable, in ...*Variable) *Builder {
    p := &IrCall { Fn: fn, In: refs(in) }
    if out != nil {
        r := R(out)
        p.Out = &r
    }
    return self.emit(p)
}

func (self *Builder) MoveResult(r *Variable) *Builder {
    return self.emit(&IrMoveResult { R: R(r) })
}

func (self *Builder) Catch(r *Variable, typ string) *Builder {
    return self.emit(&IrCatch { R: R(r), Type: typ })
}

func (self *Builder) Goto(to string) *Builder {
    return self.terminate(new(IrGoto), K_normal, to)
}

func (self *Builder) If(cond *Variable, then string, otherwise string) *Builder {
    return self.terminate(&IrIf { Cond: R(cond) }, K_normal, then, otherwise)
}

// Switch ends the block with a multi-way branch, targets[i] is taken for
// cases[i], and def for anything else.
func (self *Builder) Switch(key *Variable, cases []int32, targets []string, def string) *Builder {
    if len(cases) != len(targets) {
        panic("ir: mismatched switch cases and targets")
    }
    next := append(append([]string(nil), targets...), def)
    return self.terminate(&IrSwitch { Key: R(key), Cases: cases }, K_switch, next...)
}

// Return ends the block. v may be nil.
func (self *Builder) Return(v *Variable) *Builder {
    p := new(IrReturn)
    if v != nil {
        r := R(v)
        p.Value = &r
    }
    return self.terminate(p, K_normal, "")
}

// Throw ends the block, handing v to the dispatch node labelled handler, or
// leaving the method if handler is empty.
func (self *Builder) Throw(v *Variable, handler string) *Builder {
    return self.terminate(&IrThrow { Value: R(v) }, K_normal, handler)
}

func (self *Builder) Invoke(fn string, normal string, handler string, in ...*Variable) *Builder {
    return self.terminate(&IrInvoke { Fn: fn, In: refs(in) }, K_normal, normal, handler)
}

// Dispatch defines an exception dispatch node routing to the handlers.
func (self *Builder) Dispatch(name string, handlers ...string) *Builder {
    if self.cur != nil {
        panic("ir: dispatch nodes cannot be fallen into: " + name)
    }
    bb := self.block(name)
    bb.next = handlers
    bb.node.Kind = K_dispatch
    return self
}

func (self *Builder) target(name string) *Node {
    if name == "" {
        return self.m.Graph.Exit
    } else if bb, ok := self.refs[name]; !ok {
        panic("ir: undefined label: " + name)
    } else {
        return bb.node
    }
}

// Build resolves every label and returns the method.
func (self *Builder) Build() *Method {
    g := self.m.Graph

    /* the current block must be closed */
    if self.cur != nil {
        panic(fmt.Sprintf("ir: block %s does not terminate", self.cur.node))
    }
    if len(self.order) == 0 {
        panic("ir: empty method")
    }

    /* the first block follows the entry */
    g.AddEdge(g.Entry, self.order[0].node)

    /* attach the control transfers and edges */
    for _, bb := range self.order {
        if bb.node.Kind != K_dispatch {
            if bb.term == nil {
                panic(fmt.Sprintf("ir: block %s does not terminate", bb.node))
            }
            bb.node.Ins = append(bb.node.Ins, bb.term)
        }
        for _, to := range bb.next {
            g.AddEdge(bb.node, self.target(to))
        }
    }
    return self.m
}

func refs(v []*Variable) []Ref {
    r := make([]Ref, len(v))
    for i, x := range v { r[i] = R(x) }
    return r
}
