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

// Method is one method body being transformed. EntryState holds the
// version-zero definition of every parameter once renaming is done.
type Method struct {
    Name       string
    Vars       []*Variable
    Graph      *Graph
    EntryState []Ref
}

func NewMethod(name string) *Method {
    return &Method {
        Name  : name,
        Graph : NewGraph(),
    }
}

func (self *Method) NewVar(name string, kind VarKind) *Variable {
    v := &Variable {
        Name  : name,
        Kind  : kind,
        Index : len(self.Vars),
    }
    self.Vars = append(self.Vars, v)
    return v
}

func (self *Method) Params() (r []*Variable) {
    for _, v := range self.Vars {
        if v.IsParam() {
            r = append(r, v)
        }
    }
    return
}
