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

// Package obj defines the bf.bin artifact: the byte code
// instruction set, the file layout, an assembler that implements
// bf.Target, and a disassembler.
//
// The file is a 12 byte header followed by the code:
//
//	0   4  magic "BFX1"
//	4   2  version, little endian
//	6   2  reserved, zero
//	8   4  code length, little endian
//	12  n  code
package obj

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const Version = 1

// Largest code section we will read back.
const MaxCodeSize = 1 << 30

var magic = [4]byte{'B', 'F', 'X', '1'}

var ErrBadMagic = errors.New("not a bf.bin file")

type header struct {
	Magic    [4]byte
	Version  uint16
	Reserved uint16
	CodeLen  uint32
}

const headerSize = 12

// Program is a loaded or freshly assembled artifact.
type Program struct {
	Version uint16
	Code    []byte
}

// WriteTo writes the header and code to w.
func (p *Program) WriteTo(w io.Writer) (int64, error) {
	h := header{magic, p.Version, 0, uint32(len(p.Code))}
	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return 0, err
	}
	n, err := w.Write(p.Code)
	return int64(headerSize + n), err
}

// Read loads a program written by WriteTo.
func Read(r io.Reader) (*Program, error) {
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		if err == io.EOF {
			return nil, ErrBadMagic
		}
		return nil, err
	}
	if h.Magic != magic {
		return nil, ErrBadMagic
	}
	if h.Version != Version {
		return nil, fmt.Errorf("unsupported version %d", h.Version)
	}
	if h.CodeLen > MaxCodeSize {
		return nil, fmt.Errorf("code section too large: %d bytes", h.CodeLen)
	}
	code := make([]byte, h.CodeLen)
	if _, err := io.ReadFull(r, code); err != nil {
		return nil, fmt.Errorf("reading code section: %w", err)
	}
	return &Program{h.Version, code}, nil
}

// ReadFile loads the program stored at path.
func ReadFile(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(bufio.NewReader(f))
}

// WriteFile writes p to path as a single unit. The bytes go to a
// temporary file in the same directory which is renamed over path
// only after everything has been written and synced, so path is
// either the complete new program or untouched.
func WriteFile(path string, p *Program) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	if _, err = p.WriteTo(w); err != nil {
		return err
	}
	if err = w.Flush(); err != nil {
		return err
	}
	if err = tmp.Chmod(0644); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
