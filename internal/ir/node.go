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

type NodeKind uint8

const (
    K_entry NodeKind = iota
    K_exit
    K_normal
    K_dispatch
    K_switch
)

func (self NodeKind) String() string {
    switch self {
        case K_entry    : return "entry"
        case K_exit     : return "exit"
        case K_normal   : return "normal"
        case K_dispatch : return "dispatch"
        case K_switch   : return "switch"
        default         : return fmt.Sprintf("NodeKind(%d)", uint8(self))
    }
}

// Node is a basic block. Id is the dense number assigned by the SSA
// numbering pass and is -1 until then; Seq is the creation serial and
// never changes.
type Node struct {
    Id        int
    Seq       int
    Kind      NodeKind
    Name      string
    Phi       []*IrPhi
    Ins       []IrNode
    Succ      []*Node
    Pred      []*Node
    Synthetic bool
}

func (self *Node) String() string {
    if self.Name != "" {
        return self.Name
    } else {
        return fmt.Sprintf("bb_%d", self.Seq)
    }
}

// Term returns the control-transfer element ending the node, or nil.
func (self *Node) Term() IrTerminator {
    if n := len(self.Ins); n == 0 {
        return nil
    } else if tr, ok := self.Ins[n - 1].(IrTerminator); ok {
        return tr
    } else {
        return nil
    }
}

// Body returns the elements before the control transfer.
func (self *Node) Body() []IrNode {
    if self.Term() == nil {
        return self.Ins
    } else {
        return self.Ins[:len(self.Ins) - 1]
    }
}

// IsLanding tells whether the node begins with an exception landing element.
func (self *Node) IsLanding() bool {
    if len(self.Ins) == 0 {
        return false
    } else {
        _, ok := self.Ins[0].(*IrCatch)
        return ok
    }
}

// IsPassThrough tells whether the node only forwards control to a single
// successor.
func (self *Node) IsPassThrough() bool {
    if len(self.Succ) != 1 || len(self.Phi) != 0 || len(self.Ins) != 1 {
        return false
    } else {
        _, ok := self.Ins[0].(*IrGoto)
        return ok
    }
}

// PredIndex returns every position of p in the predecessor list.
func (self *Node) PredIndex(p *Node) (r []int) {
    for i, v := range self.Pred {
        if v == p {
            r = append(r, i)
        }
    }
    return
}

func (self *Node) countSucc(p *Node) (n int) {
    for _, v := range self.Succ {
        if v == p {
            n++
        }
    }
    return
}

func (self *Node) countPred(p *Node) (n int) {
    for _, v := range self.Pred {
        if v == p {
            n++
        }
    }
    return
}

func (self *Node) multiway() bool {
    if self.Kind == K_switch {
        return true
    } else if tr := self.Term(); tr != nil {
        return tr.Arity() > 1
    } else {
        return false
    }
}

/* dropPred removes the predecessor at position i along with the matching
 * Phi operand of every Phi node */
func (self *Node) dropPred(i int) {
    self.Pred = append(self.Pred[:i], self.Pred[i + 1:]...)
    for _, phi := range self.Phi {
        phi.V = append(phi.V[:i], phi.V[i + 1:]...)
    }
}

/* addPred appends a predecessor along with a placeholder Phi operand for
 * every Phi node */
func (self *Node) addPred(p *Node) {
    self.Pred = append(self.Pred, p)
    for _, phi := range self.Phi {
        phi.V = append(phi.V, R(phi.R.Var))
    }
}

func indexOf(buf []*Node, p *Node) int {
    for i, v := range buf {
        if v == p {
            return i
        }
    }
    return -1
}
