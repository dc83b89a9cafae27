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
    `github.com/cloudwego/cfgssa/internal/ir`
    `github.com/deckarep/golang-set/v2`
    `github.com/pkg/errors`
)

type _DefSite struct {
    node *ir.Node
    pos  int
}

// Verify checks that the renamed graph is in SSA form: every version is
// defined exactly once, and every definition dominates its uses. Phi
// operands are checked at the end of the matching predecessor.
func Verify(cfg *CFG) error {
    cfg.require(M_renamed | M_dominators | M_domtree)
    seen := mapset.NewThreadUnsafeSet[ir.Ref]()
    defs := make(map[ir.Ref]_DefSite)

    /* parameters are defined on entry */
    for _, r := range cfg.EntryState {
        seen.Add(r)
    }

    /* find all the definitions, Phi nodes come before any element */
    define := func(r ir.Ref, p *ir.Node, pos int) error {
        if r.IsEntry() {
            return errors.Errorf("%s defines version 0 of %s", p, r.Var)
        }
        if !seen.Add(r) {
            return errors.Errorf("%s is defined more than once", r)
        }
        defs[r] = _DefSite { node: p, pos: pos }
        return nil
    }

    /* scan every reachable node */
    for _, p := range cfg.Preorder() {
        for _, phi := range p.Phi {
            if len(phi.V) != len(p.Pred) {
                return errors.Errorf("%q in %s has %d operands but %d predecessors", phi, p, len(phi.V), len(p.Pred))
            }
            if err := define(phi.R, p, -1); err != nil {
                return err
            }
        }
        for i, ins := range p.Ins {
            for _, d := range ir.Defs(ins) {
                if err := define(*d, p, i); err != nil {
                    return err
                }
            }
        }
    }

    /* check every use */
    for _, p := range cfg.Preorder() {
        for _, phi := range p.Phi {
            for j, v := range phi.V {
                if err := checkPhiOperand(cfg, defs, phi, v, p.Pred[j]); err != nil {
                    return errors.Wrapf(err, "%q in %s", phi, p)
                }
            }
        }
        for i, ins := range p.Ins {
            for _, u := range ir.Uses(ins) {
                if err := checkUse(cfg, defs, *u, p, i); err != nil {
                    return errors.Wrapf(err, "%q in %s", ins, p)
                }
            }
        }
    }
    return nil
}

func checkUse(cfg *CFG, defs map[ir.Ref]_DefSite, r ir.Ref, p *ir.Node, pos int) error {
    if r.IsEntry() {
        return nil
    }

    /* find the definition */
    d, ok := defs[r]
    if !ok {
        return errors.Errorf("use of undefined version %s", r)
    }

    /* definitions in the same node must come first */
    if d.node == p {
        if d.pos >= pos {
            return errors.Errorf("%s is used before its definition", r)
        }
        return nil
    }

    /* otherwise the definition must dominate the use */
    if !cfg.Dominates(d.node, p) {
        return errors.Errorf("definition of %s in %s does not dominate the use", r, d.node)
    }
    return nil
}

func checkPhiOperand(cfg *CFG, defs map[ir.Ref]_DefSite, phi *ir.IrPhi, r ir.Ref, pred *ir.Node) error {
    if r.Var != phi.R.Var {
        return errors.Errorf("operand %s does not belong to variable %s", r, phi.R.Var)
    }

    /* uninitialized along this edge */
    if r.IsEntry() || r == phi.R {
        return nil
    }

    /* find the definition */
    d, ok := defs[r]
    if !ok {
        return errors.Errorf("use of undefined version %s", r)
    }

    /* the definition must reach the end of the predecessor */
    if !cfg.Reachable(pred) {
        return errors.Errorf("operand %s comes from unreachable node %s", r, pred)
    }
    if !cfg.Dominates(d.node, pred) {
        return errors.Errorf("definition of %s in %s does not reach the end of %s", r, d.node, pred)
    }
    return nil
}
