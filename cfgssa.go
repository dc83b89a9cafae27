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

package cfgssa

import (
	"context"

	"github.com/cloudwego/cfgssa/internal/ir"
	"github.com/cloudwego/cfgssa/internal/opts"
	"github.com/cloudwego/cfgssa/internal/ssa"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

type (
	Method   = ir.Method
	Builder  = ir.Builder
	Graph    = ir.Graph
	Node     = ir.Node
	Variable = ir.Variable
	Ref      = ir.Ref
)

// CreateBuilder starts building the body of a method.
func CreateBuilder(name string) *Builder {
	return ir.CreateBuilder(name)
}

func makeOptions(options []Option) opts.Options {
	o := opts.GetDefaultOptions()
	for _, fn := range options {
		fn(&o)
	}
	return o
}

func transform(m *Method, o opts.Options) error {
	if _, err := ssa.Compile(m, o); err == nil {
		return nil
	} else if f, ok := err.(*ssa.Fault); ok {
		return InternalError{Method: m.Name, Pass: f.Pass, Reason: f.Reason, Stack: f.Stack}
	} else {
		return errors.Wrapf(err, "transform %s", m.Name)
	}
}

// Transform converts the control-flow graph of m into SSA form, in place.
//
// A failure means an internal invariant was violated while transforming m,
// it is reported as an InternalError and leaves m in an unspecified state.
func Transform(m *Method, options ...Option) error {
	return transform(m, makeOptions(options))
}

// TransformAll transforms every method concurrently, with at most
// WithMaxWorkers methods in flight. The first failure stops the remaining
// methods from being started, and is returned.
func TransformAll(ctx context.Context, methods []*Method, options ...Option) error {
	o := makeOptions(options)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.Workers(len(methods)))

	/* every method owns its own graph, nothing is shared */
	for _, m := range methods {
		m := m
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return transform(m, o)
		})
	}
	return g.Wait()
}
