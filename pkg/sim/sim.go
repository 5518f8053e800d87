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

// Package sim defines the machine that runs bf.bin files.
//
// The machine has a code memory, a cell memory allocated by the
// program itself, a pointer register, and an 8-bit accumulator.
// Moving the pointer is never checked. Loading or storing through
// a pointer outside the cell memory is undefined in the language;
// this machine stops with ErrPointerRange rather than clamping or
// wrapping the pointer.
package sim

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/gmofishsauce/bfc/pkg/obj"
)

// Largest cell memory a program may allocate.
const MaxCells = 1 << 24

var (
	ErrNoInput      = errors.New("no input token available")
	ErrInputClosed  = errors.New("input read before it was opened")
	ErrPointerRange = errors.New("pointer outside cell memory")
	ErrNoMemory     = errors.New("cell memory not allocated or too large")
	ErrBadOpcode    = errors.New("illegal opcode")
	ErrTruncated    = errors.New("pc or operand outside code")
)

// OpNone is not an opcode. It is the Op of a Fault raised before an
// instruction could be fetched.
const OpNone byte = 0xFF

// Fault is a runtime error of the program being simulated.
type Fault struct {
	PC  int
	Op  byte
	Err error
}

func (f *Fault) Error() string {
	name := obj.Mnemonic(f.Op)
	if name == "" {
		name = fmt.Sprintf("0x%02X", f.Op)
	}
	return fmt.Sprintf("pc 0x%04X (%s): %v", f.PC, name, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// Mem is a byte addressed memory, either code or cells.
type Mem []byte

type Engine struct {
	code Mem // program, read only
	ram  Mem // cells, nil until ALLOC

	pc  int   // code address of the next instruction
	ptr int   // pointer register
	acc uint8 // accumulator

	input io.Reader
	words *bufio.Scanner // nil until OPEN
	out   *bufio.Writer

	// If not nil, Prompt receives "? " before each input read.
	Prompt io.Writer
}

func NewEngine(p *obj.Program, in io.Reader, out io.Writer) *Engine {
	return &Engine{
		code:  p.Code,
		input: in,
		out:   bufio.NewWriter(out),
	}
}

// Pointer returns the pointer register.
func (e *Engine) Pointer() int {
	return e.ptr
}

// Memory returns the cell memory, nil before the program allocates it.
func (e *Engine) Memory() Mem {
	return e.ram
}

// Run executes from the current pc until HALT or a fault. Output
// is flushed before Run returns, in both cases.
func (e *Engine) Run() (err error) {
	defer func() {
		if ferr := e.out.Flush(); err == nil && ferr != nil {
			err = ferr
		}
	}()

	for {
		if e.pc < 0 || e.pc >= len(e.code) {
			return &Fault{e.pc, OpNone, ErrTruncated}
		}
		op := e.code[e.pc]
		n := obj.Length(op)
		if n == 0 {
			return e.fault(op, ErrBadOpcode)
		}
		if e.pc+n > len(e.code) {
			return e.fault(op, ErrTruncated)
		}
		var arg uint32
		if n > 1 {
			arg = binary.LittleEndian.Uint32(e.code[e.pc+1:])
		}
		next := e.pc + n

		switch op {
		case obj.OpHalt:
			return nil
		case obj.OpAlloc:
			if arg > MaxCells {
				return e.fault(op, ErrNoMemory)
			}
			e.ram = make(Mem, arg)
		case obj.OpReset:
			e.ptr = 0
		case obj.OpOpen:
			e.words = bufio.NewScanner(e.input)
			e.words.Split(bufio.ScanWords)
		case obj.OpLoad:
			if !e.inRange() {
				return e.fault(op, e.rangeErr())
			}
			e.acc = e.ram[e.ptr]
		case obj.OpStore:
			if !e.inRange() {
				return e.fault(op, e.rangeErr())
			}
			e.ram[e.ptr] = e.acc
		case obj.OpAdd:
			e.acc += uint8(arg)
		case obj.OpSub:
			e.acc -= uint8(arg)
		case obj.OpFwd:
			e.ptr++
		case obj.OpBack:
			e.ptr--
		case obj.OpMove:
			e.ptr += int(int32(arg))
		case obj.OpJmp:
			next = int(arg)
		case obj.OpJz:
			if e.acc == 0 {
				next = int(arg)
			}
		case obj.OpGetc:
			if err := e.getc(); err != nil {
				return e.fault(op, err)
			}
		case obj.OpPutc:
			if err := e.out.WriteByte(e.acc); err != nil {
				return e.fault(op, err)
			}
		default:
			return e.fault(op, ErrBadOpcode)
		}
		e.pc = next
	}
}

func (e *Engine) fault(op byte, err error) error {
	return &Fault{e.pc, op, err}
}

func (e *Engine) inRange() bool {
	return e.ptr >= 0 && e.ptr < len(e.ram)
}

func (e *Engine) rangeErr() error {
	if e.ram == nil {
		return ErrNoMemory
	}
	return fmt.Errorf("%w: %d not in [0, %d)", ErrPointerRange, e.ptr, len(e.ram))
}

// Read the next whitespace-delimited token and keep its first
// character, truncated to 8 bits.
func (e *Engine) getc() error {
	if e.words == nil {
		return ErrInputClosed
	}
	if err := e.out.Flush(); err != nil {
		return err
	}
	if e.Prompt != nil {
		fmt.Fprint(e.Prompt, "? ")
	}
	if !e.words.Scan() {
		if err := e.words.Err(); err != nil {
			return err
		}
		return ErrNoInput
	}
	r, _ := utf8.DecodeRune(e.words.Bytes())
	e.acc = uint8(r)
	return nil
}
