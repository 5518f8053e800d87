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

package obj

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gmofishsauce/bfc/pkg/bf"
)

const unmarked = -1

// A jump whose target address is filled in once all labels
// have been marked.
type fixup struct {
	location int // of the operand
	label    bf.Label
}

// Assembler is the byte code bf.Target. Emit into it, then call
// Program. The first error encountered is kept and every later
// emit is ignored; Program returns that error.
type Assembler struct {
	code   []byte
	labels []int // code address of each label, or unmarked
	fixups []fixup
	err    error
}

var _ bf.Target = (*Assembler)(nil)

func NewAssembler() *Assembler {
	return &Assembler{}
}

// Program resolves the jumps and returns the finished program.
func (a *Assembler) Program() (*Program, error) {
	if a.err != nil {
		return nil, a.err
	}
	for _, fx := range a.fixups {
		addr := a.labels[fx.label]
		if addr == unmarked {
			return nil, fmt.Errorf("label %d: jump to unmarked label", fx.label)
		}
		binary.LittleEndian.PutUint32(a.code[fx.location:], uint32(addr))
	}
	a.fixups = nil
	return &Program{Version, a.code}, nil
}

func (a *Assembler) Alloc(cells int) {
	if cells < 0 || uint64(cells) > math.MaxUint32 {
		a.fail(fmt.Errorf("alloc: %d cells out of range", cells))
		return
	}
	a.emitU32(OpAlloc, uint32(cells))
}

func (a *Assembler) ResetPointer() { a.emit(OpReset) }
func (a *Assembler) OpenInput() { a.emit(OpOpen) }
func (a *Assembler) Load() { a.emit(OpLoad) }
func (a *Assembler) Store() { a.emit(OpStore) }
func (a *Assembler) ReadChar() { a.emit(OpGetc) }
func (a *Assembler) WriteChar() { a.emit(OpPutc) }
func (a *Assembler) Halt() { a.emit(OpHalt) }

// Only the low 8 bits of the count matter to the result, so the
// operand is the count modulo 2^32.
func (a *Assembler) Add(n int) {
	a.emitU32(OpAdd, uint32(n))
}

func (a *Assembler) Sub(n int) {
	a.emitU32(OpSub, uint32(n))
}

func (a *Assembler) Step(delta int) {
	switch delta {
	case 1:
		a.emit(OpFwd)
	case -1:
		a.emit(OpBack)
	default:
		a.fail(fmt.Errorf("step: delta must be 1 or -1, got %d", delta))
	}
}

func (a *Assembler) Move(delta int) {
	if delta < math.MinInt32 || delta > math.MaxInt32 {
		a.fail(fmt.Errorf("move: delta %d out of range", delta))
		return
	}
	a.emitU32(OpMove, uint32(int32(delta)))
}

func (a *Assembler) NewLabel() bf.Label {
	a.labels = append(a.labels, unmarked)
	return bf.Label(len(a.labels) - 1)
}

func (a *Assembler) Mark(l bf.Label) {
	if !a.valid(l) {
		return
	}
	if a.labels[l] != unmarked {
		a.fail(fmt.Errorf("label %d marked twice", l))
		return
	}
	a.labels[l] = len(a.code)
}

func (a *Assembler) Jump(l bf.Label) {
	a.jump(OpJmp, l)
}

func (a *Assembler) JumpIfZero(l bf.Label) {
	a.jump(OpJz, l)
}

func (a *Assembler) jump(op byte, l bf.Label) {
	if !a.valid(l) {
		return
	}
	a.emitU32(op, 0)
	a.fixups = append(a.fixups, fixup{len(a.code) - operandSize, l})
}

func (a *Assembler) valid(l bf.Label) bool {
	if l < 0 || int(l) >= len(a.labels) {
		a.fail(fmt.Errorf("label %d: not created by this assembler", l))
		return false
	}
	return true
}

func (a *Assembler) emit(op byte) {
	if a.err != nil {
		return
	}
	a.code = append(a.code, op)
}

func (a *Assembler) emitU32(op byte, operand uint32) {
	if a.err != nil {
		return
	}
	a.code = append(a.code, op, 0, 0, 0, 0)
	binary.LittleEndian.PutUint32(a.code[len(a.code)-operandSize:], operand)
}

func (a *Assembler) fail(err error) {
	if a.err == nil {
		a.err = err
	}
}
