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
    `runtime/debug`
    `sync/atomic`
    `time`

    `github.com/cloudwego/cfgssa/internal/ir`
    `github.com/cloudwego/cfgssa/internal/opts`
    `github.com/sirupsen/logrus`
)

type Pass interface {
    Apply(*CFG)
}

type PassDescriptor struct {
    Pass Pass
    Name string
}

var Passes = [...]PassDescriptor {
    { Name: "Control-Flow Normalization" , Pass: new(Normalize) },
    { Name: "Node Numbering"             , Pass: new(Numbering) },
    { Name: "Dominators"                 , Pass: &Dominators { Dir: Forward } },
    { Name: "Dominator Tree"             , Pass: new(DomTree) },
    { Name: "Dominance Frontier"         , Pass: new(Frontier) },
    { Name: "Phi Placement"              , Pass: new(PlacePhi) },
    { Name: "SSA Renaming"               , Pass: new(Rename) },
    { Name: "Phi Elimination"            , Pass: new(PhiElim) },
}

const (
    _VerifierPass = "SSA Verification"
)

// Fault is an internal compiler error raised while transforming a method.
// It aborts the method, not the process.
type Fault struct {
    Pass   string
    Reason interface{}
    Stack  []byte
}

func (self *Fault) Error() string {
    return fmt.Sprintf("ssa: internal fault in %s: %v", self.Pass, self.Reason)
}

func executeSSAPasses(cfg *CFG, log logrus.FieldLogger, stage *string) {
    for _, p := range Passes {
        *stage = p.Name
        ts := time.Now()
        p.Pass.Apply(cfg)
        passTimer.WithValues(p.Name).UpdateSince(ts)
        log.WithField("pass", p.Name).Debugf("pass done in %s", time.Since(ts))
    }
}

// Compile converts the method into SSA form in place. Violated invariants
// are reported as a *Fault.
func Compile(m *ir.Method, o opts.Options) (cfg *CFG, err error) {
    stage := ""
    cfg = NewCFG(m)
    log := o.Logger.WithField("method", m.Name)

    /* turn internal faults into errors */
    defer func() {
        if v := recover(); v != nil {
            atomic.AddInt64(&FaultCount, 1)
            faultCounter.WithValues(stage).Inc()
            err = &Fault { Pass: stage, Reason: v, Stack: debug.Stack() }
            log.WithField("pass", stage).Warnf("internal fault: %v", v)
        }
    }()

    /* run all the passes */
    executeSSAPasses(cfg, log, &stage)
    atomic.AddInt64(&MethodCount, 1)

    /* verify the result if needed */
    if o.Verify {
        stage = _VerifierPass
        if e := Verify(cfg); e != nil {
            panic(e)
        }
    }
    return
}
