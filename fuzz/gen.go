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

package fuzz

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/cloudwego/cfgssa/internal/ir"
)

// Source supplies the random choices made while generating a method.
// Int returns a value in [0, n).
type Source interface {
	Int(n int) int
}

// ByteSource draws the choices from a fuzzer input. It keeps returning 0
// once the input is exhausted.
type ByteSource struct {
	buf []byte
}

func NewByteSource(buf []byte) *ByteSource {
	return &ByteSource{buf: buf}
}

func (s *ByteSource) Int(n int) int {
	if len(s.buf) == 0 || n <= 1 {
		return 0
	}
	v := int(s.buf[0])
	s.buf = s.buf[1:]
	return v % n
}

// FakeSource draws the choices from a seeded faker.
type FakeSource struct {
	F *gofakeit.Faker
}

func NewFakeSource(seed int64) FakeSource {
	return FakeSource{F: gofakeit.New(seed)}
}

func (s FakeSource) Int(n int) int {
	return s.F.Number(0, n-1)
}

// GenMethod builds a random method body with nb blocks over nv variables.
// It uses every kind of control transfer, exception dispatch included, and
// may leave some blocks unreachable.
func GenMethod(src Source, nb int, nv int) *ir.Method {
	b := ir.CreateBuilder("random")
	vars := make([]*ir.Variable, 0, nv)
	label := func(i int) string { return fmt.Sprintf("L%d", i) }

	/* some of the variables are parameters */
	np := src.Int(nv)
	for i := 0; i < nv; i++ {
		if i < np {
			vars = append(vars, b.Param(fmt.Sprintf("p%d", i)))
		} else {
			vars = append(vars, b.Local(fmt.Sprintf("x%d", i)))
		}
	}

	/* pick some landing blocks */
	ev := b.CatchVar("e")
	landing := []string(nil)
	isLanding := make([]bool, nb)
	for i := 1; i < nb; i++ {
		if src.Int(5) == 0 {
			isLanding[i] = true
			landing = append(landing, label(i))
		}
	}

	/* dispatch nodes route to one or two landing blocks */
	dispatch := []string(nil)
	if len(landing) != 0 {
		for i := src.Int(3) + 1; i > 0; i-- {
			dispatch = append(dispatch, fmt.Sprintf("D%d", len(dispatch)))
		}
	}

	/* random helpers */
	anyvar := func() *ir.Variable { return vars[src.Int(len(vars))] }
	anyblock := func() string { return label(src.Int(nb)) }
	handler := func() string {
		if len(dispatch) == 0 {
			return ""
		}
		return dispatch[src.Int(len(dispatch))]
	}

	/* generate every block */
	for i := 0; i < nb; i++ {
		b.Label(label(i))
		if isLanding[i] {
			b.Catch(ev, "Exception")
		}

		/* block body */
		for k := src.Int(4); k > 0; k-- {
			switch src.Int(6) {
			case 0:
				b.Const(anyvar(), int64(k))
			case 1:
				b.Copy(anyvar(), anyvar())
			case 2:
				b.Binary(ir.OpAdd, anyvar(), anyvar(), anyvar())
			case 3:
				b.Unary(ir.OpNeg, anyvar(), anyvar())
			case 4:
				b.Call("f", anyvar(), anyvar())
			case 5:
				b.Call("g", nil, anyvar(), anyvar())
			}
		}

		/* control transfer */
		switch src.Int(7) {
		case 0:
			b.Goto(anyblock())
		case 1:
			b.If(anyvar(), anyblock(), anyblock())
		case 2:
			b.Switch(anyvar(), []int32{1, 2}, []string{anyblock(), anyblock()}, anyblock())
		case 3:
			b.Return(anyvar())
		case 4:
			b.Throw(anyvar(), handler())
		case 5:
			if h := handler(); h == "" {
				b.Goto(anyblock())
			} else {
				b.Invoke("h", anyblock(), h, anyvar())
			}
		case 6:
			if i+1 < nb {
				b.Goto(label(i + 1))
			} else {
				b.Return(nil)
			}
		}
	}

	/* dispatch nodes come last */
	for _, d := range dispatch {
		h := landing[src.Int(len(landing))]
		if o := landing[src.Int(len(landing))]; o != h {
			b.Dispatch(d, h, o)
		} else {
			b.Dispatch(d, h)
		}
	}
	return b.Build()
}
