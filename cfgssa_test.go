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
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetLevel(logrus.DebugLevel)
	return log
}

/* loopMethod builds a counting loop with n conditional updates in its body */
func loopMethod(name string, n int) *Method {
	b := CreateBuilder(name)
	c := b.Param("c")
	i := b.Local("i")
	b.Const(i, 0)
	b.Label("header").Binary("cmp", c, i, c).If(c, "body", "done")
	b.Label("body")
	for k := 0; k < n; k++ {
		skip := fmt.Sprintf("skip%d", k)
		b.If(c, fmt.Sprintf("inc%d", k), skip)
		b.Label(fmt.Sprintf("inc%d", k)).Binary("add", i, i, c).Goto(skip)
		b.Label(skip)
	}
	b.Goto("header")
	b.Label("done").Return(i)
	return b.Build()
}

func countPhi(m *Method) (n int) {
	for _, p := range m.Graph.Nodes {
		n += len(p.Phi)
	}
	return
}

func faultyMethod(name string) *Method {
	b := CreateBuilder(name)
	bogus := &Variable{Index: 42, Name: "bogus"}
	b.Label("head").Const(bogus, 1).Return(nil)
	return b.Build()
}

func TestTransform(t *testing.T) {
	m := loopMethod("transform", 2)
	require.NoError(t, Transform(m, WithVerify(true), WithLogger(testLogger())))
	require.NotZero(t, countPhi(m))
	require.NoError(t, m.Graph.Check())
	require.Len(t, m.EntryState, 1)
}

func TestTransform_InternalError(t *testing.T) {
	err := Transform(faultyMethod("faulty"), WithLogger(testLogger()))
	require.Error(t, err)

	var ie InternalError
	require.True(t, errors.As(err, &ie))
	require.Equal(t, "faulty", ie.Method)
	require.Equal(t, "Phi Placement", ie.Pass)
	require.NotEmpty(t, ie.Stack)
	require.Contains(t, ie.Error(), "InternalError(faulty): Phi Placement: ")
	require.NotNil(t, ie.Unwrap())
}

func TestTransformAll(t *testing.T) {
	var methods []*Method
	for i := 0; i < 64; i++ {
		methods = append(methods, loopMethod(fmt.Sprintf("method_%d", i), i%5))
	}
	require.NoError(t, TransformAll(context.Background(), methods, WithMaxWorkers(4), WithVerify(true)))
	for _, m := range methods {
		require.NoError(t, m.Graph.Check(), "%s", m.Name)
		require.NotZero(t, countPhi(m), "%s", m.Name)
	}
}

func TestTransformAll_Empty(t *testing.T) {
	require.NoError(t, TransformAll(context.Background(), nil))
}

func TestTransformAll_Failure(t *testing.T) {
	methods := []*Method{
		loopMethod("good", 1),
		faultyMethod("bad"),
	}
	err := TransformAll(context.Background(), methods, WithMaxWorkers(1), WithLogger(testLogger()))
	require.Error(t, err)
	require.IsType(t, InternalError{}, err)
	require.Equal(t, "bad", err.(InternalError).Method)
}

func TestTransformAll_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := TransformAll(ctx, []*Method{loopMethod("canceled", 1)})
	require.ErrorIs(t, err, context.Canceled)
}

func TestOptions(t *testing.T) {
	require.Panics(t, func() { WithMaxWorkers(-1) })
	require.Panics(t, func() { WithLogger(nil) })
	require.Panics(t, func() { SetDefaultMaxWorkers(-1) })

	/* defaults can be swapped and restored */
	old := SetDefaultVerify(true)
	require.True(t, makeOptions(nil).Verify)
	require.False(t, makeOptions([]Option{WithVerify(false)}).Verify)
	require.True(t, SetDefaultVerify(old))

	/* explicit options override the defaults */
	n := SetDefaultMaxWorkers(3)
	require.Equal(t, 3, makeOptions(nil).MaxWorkers)
	require.Equal(t, 7, makeOptions([]Option{WithMaxWorkers(7)}).MaxWorkers)
	require.Equal(t, 3, SetDefaultMaxWorkers(n))

	/* zero lifts the limit, the same as CFGSSA_MAX_WORKERS=0 */
	n = SetDefaultMaxWorkers(0)
	require.Equal(t, 0, makeOptions(nil).MaxWorkers)
	require.Equal(t, 0, makeOptions([]Option{WithMaxWorkers(0)}).MaxWorkers)
	require.Equal(t, 0, SetDefaultMaxWorkers(n))
}
