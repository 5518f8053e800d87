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

// Label is a jump target handed out by a Target. Labels are only
// meaningful to the Target that created them.
type Label int

// Target is the set of operations the compiler emits. A Target
// models a machine with a byte buffer, a pointer register that
// indexes it, and an 8-bit accumulator. The compiler depends on
// nothing else, so a byte code assembler, an interpreter, or a
// native code generator can all sit behind it.
//
// Pointer arithmetic is unchecked. What happens when a program
// reads or writes a cell outside the buffer is up to the runtime
// behind the Target; the compiler never guards it.
type Target interface {
	// Allocate a zeroed buffer of the given number of cells.
	Alloc(cells int)
	// Set the pointer register to cell 0.
	ResetPointer()
	// Prepare standard input for ReadChar.
	OpenInput()

	// Load the cell under the pointer into the accumulator.
	Load()
	// Store the accumulator into the cell under the pointer.
	Store()
	// Add n to the accumulator, truncating to 8 bits.
	Add(n int)
	// Subtract n from the accumulator, truncating to 8 bits.
	Sub(n int)

	// Step moves the pointer by exactly +1 or -1. Targets may
	// encode it more compactly than Move.
	Step(delta int)
	// Move the pointer by delta cells.
	Move(delta int)

	NewLabel() Label
	// Mark binds l to the current position. Each label is
	// marked exactly once.
	Mark(l Label)
	Jump(l Label)
	// Jump to l if the accumulator is zero.
	JumpIfZero(l Label)

	// Read the first character of the next whitespace-delimited
	// input token into the accumulator.
	ReadChar()
	// Write the accumulator to standard output as one byte.
	WriteChar()
	Halt()
}
