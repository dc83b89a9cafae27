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

type VarKind uint8

const (
    K_param VarKind = iota
    K_local
    K_catch
)

func (self VarKind) String() string {
    switch self {
        case K_param : return "param"
        case K_local : return "local"
        case K_catch : return "catch"
        default      : return fmt.Sprintf("VarKind(%d)", uint8(self))
    }
}

// Variable is a logical storage slot of a method. Index is dense and stable
// for the duration of one method's SSA construction.
type Variable struct {
    Index int
    Name  string
    Kind  VarKind
}

func (self *Variable) IsParam() bool {
    return self.Kind == K_param
}

func (self *Variable) String() string {
    if self.Name != "" {
        return self.Name
    } else {
        return fmt.Sprintf("v%d", self.Index)
    }
}

// Ref is a (variable, version) pair. Version 0 is the value on entry to the
// method, before any assignment.
type Ref struct {
    Var *Variable
    Ver int
}

func R(v *Variable) Ref {
    return Ref { Var: v }
}

func (self Ref) Derive(ver int) Ref {
    return Ref { Var: self.Var, Ver: ver }
}

func (self Ref) IsEntry() bool {
    return self.Ver == 0
}

func (self Ref) String() string {
    if self.Var == nil {
        return "<nil>"
    } else {
        return fmt.Sprintf("%s.%d", self.Var, self.Ver)
    }
}

func refptrs(v []Ref) (r []*Ref) {
    r = make([]*Ref, len(v))
    for i := range v { r[i] = &v[i] }
    return
}

func refstr(v []Ref) []string {
    r := make([]string, len(v))
    for i, x := range v { r[i] = x.String() }
    return r
}
