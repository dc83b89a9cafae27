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
	"fmt"

	"github.com/cloudwego/cfgssa/internal/opts"
	"github.com/sirupsen/logrus"
)

// Option is the property setter function for opts.Options.
type Option func(*opts.Options)

// WithVerify runs the SSA verifier after the transformation. A method that
// fails verification is reported as an InternalError.
//
// This value can also be configured with the `CFGSSA_VERIFY` environment
// variable.
//
// The default value of this option is "false".
func WithVerify(v bool) Option {
	return func(o *opts.Options) { o.Verify = v }
}

// WithMaxWorkers limits how many methods TransformAll transforms at the same
// time.
//
// Set this option to "0" to transform every method at once.
//
// This value can also be configured with the `CFGSSA_MAX_WORKERS`
// environment variable.
//
// The default value of this option is the number of CPUs.
func WithMaxWorkers(n int) Option {
	if n < 0 {
		panic(fmt.Sprintf("cfgssa: invalid worker count: %d", n))
	} else {
		return func(o *opts.Options) { o.MaxWorkers = n }
	}
}

// WithLogger sets the logger used to trace the passes.
//
// The default logger writes to stderr at the level given by the
// `CFGSSA_LOG_LEVEL` environment variable, "warning" if not set.
func WithLogger(log logrus.FieldLogger) Option {
	if log == nil {
		panic("cfgssa: nil logger")
	} else {
		return func(o *opts.Options) { o.Logger = log }
	}
}

// SetDefaultVerify sets whether every transformation from now on is
// verified, unless overridden with WithVerify.
//
// Returns the old value.
func SetDefaultVerify(v bool) bool {
	v, opts.Verify = opts.Verify, v
	return v
}

// SetDefaultMaxWorkers sets the default worker count for TransformAll from
// now on.
//
// Returns the old value.
func SetDefaultMaxWorkers(n int) int {
	if n < 0 {
		panic(fmt.Sprintf("cfgssa: invalid worker count: %d", n))
	}
	n, opts.MaxWorkers = opts.MaxWorkers, n
	return n
}
