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

// Opcodes. Every instruction is one opcode byte, followed by a
// 4-byte little endian operand for the ops that take one.
const (
	OpHalt  byte = 0x00
	OpAlloc byte = 0x01 // u32 cell count
	OpReset byte = 0x02
	OpOpen  byte = 0x03
	OpLoad  byte = 0x04
	OpStore byte = 0x05
	OpAdd   byte = 0x06 // u32, result truncated to 8 bits
	OpSub   byte = 0x07 // u32, result truncated to 8 bits
	OpFwd   byte = 0x08
	OpBack  byte = 0x09
	OpMove  byte = 0x0A // i32 pointer delta
	OpJmp   byte = 0x0B // u32 code address
	OpJz    byte = 0x0C // u32 code address
	OpGetc  byte = 0x0D
	OpPutc  byte = 0x0E
)

const operandSize = 4

type opInfo struct {
	mnemonic string
	operand  bool
}

var opTable = map[byte]opInfo{
	OpHalt:  {"HALT", false},
	OpAlloc: {"ALLOC", true},
	OpReset: {"RESET", false},
	OpOpen:  {"OPEN", false},
	OpLoad:  {"LOAD", false},
	OpStore: {"STORE", false},
	OpAdd:   {"ADD", true},
	OpSub:   {"SUB", true},
	OpFwd:   {"FWD", false},
	OpBack:  {"BACK", false},
	OpMove:  {"MOVE", true},
	OpJmp:   {"JMP", true},
	OpJz:    {"JZ", true},
	OpGetc:  {"GETC", false},
	OpPutc:  {"PUTC", false},
}

// Length returns the encoded length of the instruction starting
// with op, or 0 if op is not an opcode.
func Length(op byte) int {
	info, ok := opTable[op]
	if !ok {
		return 0
	}
	if info.operand {
		return 1 + operandSize
	}
	return 1
}

// Mnemonic returns the assembler name of op, or "" if op is not
// an opcode.
func Mnemonic(op byte) string {
	return opTable[op].mnemonic
}
