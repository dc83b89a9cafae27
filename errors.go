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
)

// InternalError occurs when an invariant of the SSA construction is violated,
// which means a bug in an earlier pass or in whatever built the graph.
type InternalError struct {
	Method string
	Pass   string
	Reason interface{}
	Stack  []byte
}

func (self InternalError) Error() string {
	if self.Pass != "" {
		return fmt.Sprintf("InternalError(%s): %s: %v", self.Method, self.Pass, self.Reason)
	} else {
		return fmt.Sprintf("InternalError(%s): %v", self.Method, self.Reason)
	}
}

// Unwrap returns the underlying error, if the fault was raised with one.
func (self InternalError) Unwrap() error {
	if err, ok := self.Reason.(error); ok {
		return err
	} else {
		return nil
	}
}
