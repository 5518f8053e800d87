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

import "fmt"

// Kind is the type of a token.
type Kind int

// Token kinds
const (
	End Kind = iota
	Increment
	Decrement
	MoveForward
	MoveBackward
	Output
	Input
	LoopBegin
	LoopEnd
)

var kindToString = []string{
	"End",
	"Increment",
	"Decrement",
	"MoveForward",
	"MoveBackward",
	"Output",
	"Input",
	"LoopBegin",
	"LoopEnd",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindToString) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindToString[k]
}

// The eight meaningful characters. Everything else is a comment.
var charToKind = map[byte]Kind{
	'+': Increment,
	'-': Decrement,
	'>': MoveForward,
	'<': MoveBackward,
	'.': Output,
	',': Input,
	'[': LoopBegin,
	']': LoopEnd,
}

// A Token is immutable once scanned. Char is 0 for the End token.
type Token struct {
	Kind Kind
	Char byte
	Line int
}

func (t Token) String() string {
	if t.Kind == End {
		return fmt.Sprintf("{%s line %d}", t.Kind, t.Line)
	}
	return fmt.Sprintf("{%s '%c' line %d}", t.Kind, t.Char, t.Line)
}
