/*
Copyright © 2023 Jeff Berkowitz (pdxjjb@gmail.com)

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

package bf

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
)

// A Target that writes down what it was asked to emit.
type recorder struct {
	ops    []string
	labels int
}

func (r *recorder) add(format string, args ...interface{}) {
	r.ops = append(r.ops, fmt.Sprintf(format, args...))
}

func (r *recorder) Alloc(cells int) { r.add("alloc %d", cells) }
func (r *recorder) ResetPointer() { r.add("reset") }
func (r *recorder) OpenInput() { r.add("open") }
func (r *recorder) Load() { r.add("load") }
func (r *recorder) Store() { r.add("store") }
func (r *recorder) Add(n int) { r.add("add %d", n) }
func (r *recorder) Sub(n int) { r.add("sub %d", n) }
func (r *recorder) Step(delta int) { r.add("step %d", delta) }
func (r *recorder) Move(delta int) { r.add("move %d", delta) }
func (r *recorder) Mark(l Label) { r.add("L%d:", l) }
func (r *recorder) Jump(l Label) { r.add("jmp L%d", l) }
func (r *recorder) JumpIfZero(l Label) { r.add("jz L%d", l) }
func (r *recorder) ReadChar() { r.add("getc") }
func (r *recorder) WriteChar() { r.add("putc") }
func (r *recorder) Halt() { r.add("halt") }
func (r *recorder) NewLabel() Label {
	r.labels++
	return Label(r.labels - 1)
}

var prelude = []string{"alloc 30000", "reset", "open"}

func compileString(t *testing.T, src string) (*recorder, error) {
	t.Helper()
	r := &recorder{}
	err := Compile(ScanString(src), r)
	return r, err
}

func mustCompile(t *testing.T, src string) []string {
	t.Helper()
	r, err := compileString(t, src)
	if !assert.Nil(t, err) {
		t.FailNow()
	}
	return r.ops
}

func body(ops ...string) []string {
	result := append([]string{}, prelude...)
	result = append(result, ops...)
	return append(result, "halt")
}

func TestCompileEmpty(t *testing.T) {
	ops := mustCompile(t, "")
	assert.Equal(t, body(), ops)
	ops = mustCompile(t, "nothing to see here\n")
	assert.Equal(t, body(), ops)
}

func TestCompileIncrementRun(t *testing.T) {
	ops := mustCompile(t, "+++.")
	assert.Equal(t, body("load", "add 3", "store", "load", "putc"), ops, spew.Sdump(ops))
}

func TestCompileDecrementRun(t *testing.T) {
	ops := mustCompile(t, "--")
	assert.Equal(t, body("load", "sub 2", "store"), ops, spew.Sdump(ops))
}

func TestCompileRunsBrokenByOtherKinds(t *testing.T) {
	ops := mustCompile(t, "++-+")
	assert.Equal(t, body(
		"load", "add 2", "store",
		"load", "sub 1", "store",
		"load", "add 1", "store"), ops, spew.Sdump(ops))
}

func TestCompileRunsSpanComments(t *testing.T) {
	// Comments produce no tokens, so the run continues across them.
	ops := mustCompile(t, "+ + \n +")
	assert.Equal(t, body("load", "add 3", "store"), ops, spew.Sdump(ops))
}

func TestCompileLongRun(t *testing.T) {
	ops := mustCompile(t, strings.Repeat("+", 1000))
	assert.Equal(t, body("load", "add 1000", "store"), ops)
}

func TestCompileSingleStep(t *testing.T) {
	ops := mustCompile(t, ">")
	assert.Equal(t, body("step 1"), ops)
	ops = mustCompile(t, "<")
	assert.Equal(t, body("step -1"), ops)
	ops = mustCompile(t, "><")
	assert.Equal(t, body("step 1", "step -1"), ops)
}

func TestCompileMoveRun(t *testing.T) {
	ops := mustCompile(t, ">>>><<")
	assert.Equal(t, body("move 4", "move -2"), ops, spew.Sdump(ops))
}

func TestCompileIO(t *testing.T) {
	ops := mustCompile(t, ",.")
	assert.Equal(t, body("getc", "store", "load", "putc"), ops)
}

func TestCompileLoop(t *testing.T) {
	ops := mustCompile(t, "+[-]")
	assert.Equal(t, body(
		"load", "add 1", "store",
		"L0:", "load", "jz L1",
		"load", "sub 1", "store",
		"jmp L0", "L1:"), ops, spew.Sdump(ops))
}

func TestCompileNestedLoops(t *testing.T) {
	ops := mustCompile(t, "[>[<]]")
	assert.Equal(t, body(
		"L0:", "load", "jz L1",
		"step 1",
		"L2:", "load", "jz L3",
		"step -1",
		"jmp L2", "L3:",
		"jmp L0", "L1:"), ops, spew.Sdump(ops))
}

func TestCompileSiblingLoops(t *testing.T) {
	ops := mustCompile(t, "[][]")
	assert.Equal(t, body(
		"L0:", "load", "jz L1", "jmp L0", "L1:",
		"L2:", "load", "jz L3", "jmp L2", "L3:"), ops)
}

func TestCompileDeepNesting(t *testing.T) {
	const depth = 100000
	src := strings.Repeat("[", depth) + "+" + strings.Repeat("]", depth)
	r, err := compileString(t, src)
	assert.Nil(t, err)
	assert.Equal(t, 2*depth, r.labels)
	assert.Equal(t, "halt", r.ops[len(r.ops)-1])
}

func TestCompileStrayLoopEnd(t *testing.T) {
	_, err := compileString(t, "+\n+\n]")
	var se *SyntaxError
	if assert.True(t, errors.As(err, &se)) {
		assert.Equal(t, 3, se.Line)
		assert.Equal(t, "line 3: unmatched ']'", se.Error())
	}
}

func TestCompileStrayLoopEndAfterLoop(t *testing.T) {
	_, err := compileString(t, "[]\n]")
	var se *SyntaxError
	if assert.True(t, errors.As(err, &se)) {
		assert.Equal(t, 2, se.Line)
	}
}

func TestCompileUnmatchedLoopBegin(t *testing.T) {
	_, err := compileString(t, "+\n[\n-")
	var se *SyntaxError
	if assert.True(t, errors.As(err, &se)) {
		assert.Equal(t, 2, se.Line)
		assert.Equal(t, "line 2: unmatched '['", se.Error())
	}
}

func TestCompileUnmatchedReportsInnermost(t *testing.T) {
	_, err := compileString(t, "[\n[\n[]\n")
	var se *SyntaxError
	if assert.True(t, errors.As(err, &se)) {
		assert.Equal(t, 2, se.Line)
	}
}

func TestCompileBadSequence(t *testing.T) {
	r := &recorder{}
	assert.Equal(t, ErrBadSequence, Compile(nil, r))
	assert.Equal(t, ErrBadSequence, Compile([]Token{{Increment, '+', 1}}, r))
	assert.Empty(t, r.ops)

	tokens := []Token{{End, 0, 1}, {Increment, '+', 1}, {End, 0, 1}}
	assert.Equal(t, ErrBadSequence, Compile(tokens, &recorder{}))
}

func TestCompileUnknownKind(t *testing.T) {
	tokens := []Token{{Kind(99), '?', 4}, {End, 0, 4}}
	err := Compile(tokens, &recorder{})
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "line 4")
}
