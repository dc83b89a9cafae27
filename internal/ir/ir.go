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
    `strings`
)

type (
    UnaryOp  string
    BinaryOp string
)

const (
    OpNeg UnaryOp = "neg"
    OpNot UnaryOp = "not"
)

const (
    OpAdd BinaryOp = "add"
    OpSub BinaryOp = "sub"
    OpMul BinaryOp = "mul"
    OpDiv BinaryOp = "div"
    OpAnd BinaryOp = "and"
    OpOr  BinaryOp = "or"
    OpCmp BinaryOp = "cmp"
)

type IrNode interface {
    fmt.Stringer
    irnode()
}

type IrUsages interface {
    IrNode
    Usages() []*Ref
}

type IrDefinitions interface {
    IrNode
    Definitions() []*Ref
}

// IrTerminator is a control-transfer element. It is always the last element
// of a node, and it never defines a variable.
type IrTerminator interface {
    IrNode
    Arity() int
    terminator()
}

func (*IrConst)      irnode() {}
func (*IrCopy)       irnode() {}
func (*IrUnary)      irnode() {}
func (*IrBinary)     irnode() {}
func (*IrCall)       irnode() {}
func (*IrMoveResult) irnode() {}
func (*IrCatch)      irnode() {}
func (*IrPhi)        irnode() {}
func (*IrGoto)       irnode() {}
func (*IrIf)         irnode() {}
func (*IrSwitch)     irnode() {}
func (*IrReturn)     irnode() {}
func (*IrThrow)      irnode() {}
func (*IrInvoke)     irnode() {}

func (*IrGoto)   terminator() {}
func (*IrIf)     terminator() {}
func (*IrSwitch) terminator() {}
func (*IrReturn) terminator() {}
func (*IrThrow)  terminator() {}
func (*IrInvoke) terminator() {}

type IrConst struct {
    R Ref
    V int64
}

func (self *IrConst) String() string {
    return fmt.Sprintf("%s = const %d", self.R, self.V)
}

func (self *IrConst) Definitions() []*Ref {
    return []*Ref { &self.R }
}

type IrCopy struct {
    R Ref
    V Ref
}

func (self *IrCopy) String() string {
    return fmt.Sprintf("%s = %s", self.R, self.V)
}

func (self *IrCopy) Usages() []*Ref {
    return []*Ref { &self.V }
}

func (self *IrCopy) Definitions() []*Ref {
    return []*Ref { &self.R }
}

type IrUnary struct {
    R  Ref
    V  Ref
    Op UnaryOp
}

func (self *IrUnary) String() string {
    return fmt.Sprintf("%s = %s %s", self.R, self.Op, self.V)
}

func (self *IrUnary) Usages() []*Ref {
    return []*Ref { &self.V }
}

func (self *IrUnary) Definitions() []*Ref {
    return []*Ref { &self.R }
}

type IrBinary struct {
    R  Ref
    X  Ref
    Y  Ref
    Op BinaryOp
}

func (self *IrBinary) String() string {
    return fmt.Sprintf("%s = %s %s, %s", self.R, self.Op, self.X, self.Y)
}

func (self *IrBinary) Usages() []*Ref {
    return []*Ref { &self.X, &self.Y }
}

func (self *IrBinary) Definitions() []*Ref {
    return []*Ref { &self.R }
}

// IrCall is a call that cannot throw. Out is nil for calls without a result.
type IrCall struct {
    Fn  string
    In  []Ref
    Out *Ref
}

func (self *IrCall) String() string {
    if self.Out == nil {
        return fmt.Sprintf("call %s(%s)", self.Fn, strings.Join(refstr(self.In), ", "))
    } else {
        return fmt.Sprintf("%s = call %s(%s)", *self.Out, self.Fn, strings.Join(refstr(self.In), ", "))
    }
}

func (self *IrCall) Usages() []*Ref {
    return refptrs(self.In)
}

func (self *IrCall) Definitions() []*Ref {
    if self.Out == nil {
        return nil
    } else {
        return []*Ref { self.Out }
    }
}

// IrMoveResult receives the result of the IrInvoke that ended the
// predecessor, on the normal path.
type IrMoveResult struct {
    R Ref
}

func (self *IrMoveResult) String() string {
    return fmt.Sprintf("%s = move-result", self.R)
}

func (self *IrMoveResult) Definitions() []*Ref {
    return []*Ref { &self.R }
}

// IrCatch is the exception landing element. It must be the first element
// of its node.
type IrCatch struct {
    R    Ref
    Type string
}

func (self *IrCatch) String() string {
    if self.Type == "" {
        return fmt.Sprintf("%s = catch", self.R)
    } else {
        return fmt.Sprintf("%s = catch %s", self.R, self.Type)
    }
}

func (self *IrCatch) Definitions() []*Ref {
    return []*Ref { &self.R }
}

// IrPhi has exactly one operand per predecessor of its node, in predecessor
// order.
type IrPhi struct {
    R Ref
    V []Ref
}

func (self *IrPhi) String() string {
    return fmt.Sprintf("%s = φ(%s)", self.R, strings.Join(refstr(self.V), ", "))
}

func (self *IrPhi) Usages() []*Ref {
    return refptrs(self.V)
}

func (self *IrPhi) Definitions() []*Ref {
    return []*Ref { &self.R }
}

type IrGoto struct{}

func (*IrGoto) Arity() int {
    return 1
}

func (*IrGoto) String() string {
    return "goto"
}

// IrIf transfers to successor 0 when Cond is non-zero, successor 1 otherwise.
type IrIf struct {
    Cond Ref
}

func (*IrIf) Arity() int {
    return 2
}

func (self *IrIf) String() string {
    return fmt.Sprintf("if %s", self.Cond)
}

func (self *IrIf) Usages() []*Ref {
    return []*Ref { &self.Cond }
}

// IrSwitch transfers to successor i when Key equals Cases[i], and to the
// last successor otherwise.
type IrSwitch struct {
    Key   Ref
    Cases []int32
}

func (self *IrSwitch) Arity() int {
    return len(self.Cases) + 1
}

func (self *IrSwitch) String() string {
    buf := make([]string, len(self.Cases))
    for i, v := range self.Cases { buf[i] = fmt.Sprint(v) }
    return fmt.Sprintf("switch %s [%s]", self.Key, strings.Join(buf, ", "))
}

func (self *IrSwitch) Usages() []*Ref {
    return []*Ref { &self.Key }
}

type IrReturn struct {
    Value *Ref
}

func (*IrReturn) Arity() int {
    return 1
}

func (self *IrReturn) String() string {
    if self.Value == nil {
        return "return"
    } else {
        return fmt.Sprintf("return %s", *self.Value)
    }
}

func (self *IrReturn) Usages() []*Ref {
    if self.Value == nil {
        return nil
    } else {
        return []*Ref { self.Value }
    }
}

type IrThrow struct {
    Value Ref
}

func (*IrThrow) Arity() int {
    return 1
}

func (self *IrThrow) String() string {
    return fmt.Sprintf("throw %s", self.Value)
}

func (self *IrThrow) Usages() []*Ref {
    return []*Ref { &self.Value }
}

// IrInvoke is a call that may throw. Successor 0 is the normal path, which
// picks up the result with IrMoveResult, successor 1 is the exception path.
type IrInvoke struct {
    Fn string
    In []Ref
}

func (*IrInvoke) Arity() int {
    return 2
}

func (self *IrInvoke) String() string {
    return fmt.Sprintf("invoke %s(%s)", self.Fn, strings.Join(refstr(self.In), ", "))
}

func (self *IrInvoke) Usages() []*Ref {
    return refptrs(self.In)
}

// Uses returns the use references of p, or nil if it has none.
func Uses(p IrNode) []*Ref {
    if u, ok := p.(IrUsages); ok {
        return u.Usages()
    } else {
        return nil
    }
}

// Defs returns the definition references of p, or nil if it has none.
func Defs(p IrNode) []*Ref {
    if d, ok := p.(IrDefinitions); ok {
        return d.Definitions()
    } else {
        return nil
    }
}

// TouchesValue tells whether renaming rewrites anything in p.
func TouchesValue(p IrNode) bool {
    return len(Uses(p)) != 0 || len(Defs(p)) != 0
}
