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

// Package bf scans and compiles programs in the eight-character
// tape language. The compiler makes a single forward pass over the
// tokens, folding runs of identical operations as it emits them,
// and emits into a Target.
package bf

import (
	"errors"
	"fmt"
	"log"
)

// The number of cells every compiled program allocates.
const MemorySize = 30000

var debug = false

// ErrBadSequence is returned for a token sequence that is not
// terminated by exactly one End token at its tail.
var ErrBadSequence = errors.New("token sequence not terminated by a single End")

// SyntaxError reports an unmatched loop bracket.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// The pair of jump targets bracketing an open loop body.
type loop struct {
	start Label
	end   Label
	line  int
}

type compiler struct {
	tokens  []Token
	current int
	target  Target
	loops   []loop // open loops, innermost last
}

// Compile emits the program in tokens into t. On error the content
// of t is incomplete and must be discarded.
func Compile(tokens []Token, t Target) error {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != End {
		return ErrBadSequence
	}
	c := &compiler{tokens: tokens, target: t}
	return c.compile()
}

func (c *compiler) compile() error {
	c.prelude()
	for {
		tk := c.advance()
		switch tk.Kind {
		case Increment:
			c.target.Load()
			c.target.Add(c.run(Increment))
			c.target.Store()
		case Decrement:
			c.target.Load()
			c.target.Sub(c.run(Decrement))
			c.target.Store()
		case MoveForward:
			c.move(MoveForward, 1)
		case MoveBackward:
			c.move(MoveBackward, -1)
		case Output:
			c.target.Load()
			c.target.WriteChar()
		case Input:
			c.target.ReadChar()
			c.target.Store()
		case LoopBegin:
			c.beginLoop(tk)
		case LoopEnd:
			if err := c.endLoop(tk); err != nil {
				return err
			}
		case End:
			return c.finish()
		default:
			return fmt.Errorf("line %d: unknown token %s", tk.Line, tk)
		}
	}
}

func (c *compiler) prelude() {
	c.target.Alloc(MemorySize)
	c.target.ResetPointer()
	c.target.OpenInput()
}

func (c *compiler) finish() error {
	if n := len(c.loops); n > 0 {
		return &SyntaxError{c.loops[n-1].line, "unmatched '['"}
	}
	if c.current != len(c.tokens) {
		return ErrBadSequence
	}
	c.target.Halt()
	return nil
}

// The triggering token has been consumed. A lone step gets the
// compact encoding; a run is folded into one move.
func (c *compiler) move(kind Kind, dir int) {
	if !c.check(kind) {
		c.target.Step(dir)
		return
	}
	c.target.Move(dir * c.run(kind))
}

func (c *compiler) beginLoop(tk Token) {
	l := loop{c.target.NewLabel(), c.target.NewLabel(), tk.Line}
	c.loops = append(c.loops, l)
	if debug {
		log.Printf("loop open at line %d, depth %d\n", tk.Line, len(c.loops))
	}
	c.target.Mark(l.start)
	c.target.Load()
	c.target.JumpIfZero(l.end)
}

func (c *compiler) endLoop(tk Token) error {
	n := len(c.loops)
	if n == 0 {
		return &SyntaxError{tk.Line, "unmatched ']'"}
	}
	l := c.loops[n-1]
	c.loops = c.loops[:n-1]
	c.target.Jump(l.start)
	c.target.Mark(l.end)
	return nil
}

// Count the token just consumed plus every following token of
// the same kind, consuming them.
func (c *compiler) run(kind Kind) int {
	n := 1
	for c.match(kind) {
		n++
	}
	return n
}

func (c *compiler) match(kind Kind) bool {
	if c.check(kind) {
		c.current++
		return true
	}
	return false
}

func (c *compiler) check(kind Kind) bool {
	return c.current < len(c.tokens) && c.tokens[c.current].Kind == kind
}

// Return the token under the cursor and move past it. Compile has
// already checked that the sequence ends with End, and compile()
// returns when it sees End, so the cursor never runs off the end.
func (c *compiler) advance() Token {
	tk := c.tokens[c.current]
	c.current++
	return tk
}
