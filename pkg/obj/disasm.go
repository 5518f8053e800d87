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
	"io"
)

// Disassemble writes one line per instruction in code to w:
//
//	0x0000  ALLOC 30000
//	0x0005  RESET
//	0x0008  JZ 0x0014
func Disassemble(w io.Writer, code []byte) error {
	for pc := 0; pc < len(code); {
		op := code[pc]
		n := Length(op)
		if n == 0 {
			return fmt.Errorf("0x%04X: unknown opcode 0x%02X", pc, op)
		}
		if pc+n > len(code) {
			return fmt.Errorf("0x%04X: %s: truncated operand", pc, Mnemonic(op))
		}
		var err error
		if n == 1 {
			_, err = fmt.Fprintf(w, "0x%04X  %s\n", pc, Mnemonic(op))
		} else {
			_, err = fmt.Fprintf(w, "0x%04X  %s %s\n", pc, Mnemonic(op), operandString(op, code[pc+1:pc+n]))
		}
		if err != nil {
			return err
		}
		pc += n
	}
	return nil
}

func operandString(op byte, b []byte) string {
	v := binary.LittleEndian.Uint32(b)
	switch op {
	case OpJmp, OpJz:
		return fmt.Sprintf("0x%04X", v)
	case OpMove:
		return fmt.Sprintf("%d", int32(v))
	}
	return fmt.Sprintf("%d", v)
}
