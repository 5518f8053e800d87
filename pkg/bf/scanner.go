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
	"io"
	"strings"
)

// A byte reader that knows the line number of the byte it
// will return next. The line advances after a newline has
// been returned, so a newline belongs to the line it ends.
type lineByteReader struct {
	source io.ByteReader
	ln     int
}

func newLineByteReader(r io.ByteReader) *lineByteReader {
	return &lineByteReader{r, 1}
}

func (lr *lineByteReader) line() int {
	return lr.ln
}

func (lr *lineByteReader) ReadByte() (byte, error) {
	b, err := lr.source.ReadByte()
	if err != nil {
		return 0, err
	}
	if b == '\n' {
		lr.ln++
	}
	return b, nil
}

// Scan reads r to EOF and returns the token sequence, always
// terminated by exactly one End token. Bytes that are not one of
// the eight language characters are discarded. The only possible
// error is a read error other than io.EOF from r.
func Scan(r io.ByteReader) ([]Token, error) {
	lr := newLineByteReader(r)
	var tokens []Token
	for {
		line := lr.line()
		b, err := lr.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if kind, ok := charToKind[b]; ok {
			tokens = append(tokens, Token{kind, b, line})
		}
	}
	return append(tokens, Token{End, 0, lr.line()}), nil
}

// ScanString is Scan for source already in memory. It cannot fail.
func ScanString(src string) []Token {
	tokens, _ := Scan(strings.NewReader(src))
	return tokens
}
