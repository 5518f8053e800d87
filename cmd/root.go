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
package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/gmofishsauce/bfc/pkg/bf"
	"github.com/gmofishsauce/bfc/pkg/obj"
	"github.com/gmofishsauce/bfc/pkg/sim"
)

// The compiler always writes its output here, in the working directory.
const ArtifactName = "bf.bin"

// Exit codes, from sysexits.h
const (
	exitFailure   = 1
	exitUsage     = 64
	exitDataErr   = 65
	exitNoInput   = 66
	exitSoftware  = 70
	exitCantCreat = 73
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bfc sourceFile",
	Short: "Ahead of time compiler for the eight-character tape language",
	Long: `Bfc compiles a program written in the eight-character tape
language (+ - > < . , [ ]) to a byte code file named bf.bin in the
current directory. Every other character in the source is a comment.

Exactly one source file must be given. Nothing is written unless the
whole program compiles. The result is run with "bfc run" and can be
listed with "bfc dis". A source file named run or dis must be given
as ./run or ./dis. The program takes no flags other than --help.
`,

	Args:          usageArgs(cobra.ExactArgs(1)),
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return compileFile(cmd.OutOrStdout(), args[0], ArtifactName)
	},
}

// Execute adds all child commands to the root command and runs it.
// This is called by main.main(). It only needs to happen once.
func Execute() {
	log.SetFlags(log.Lmsgprefix | log.Lmicroseconds)
	log.SetPrefix("bfc: ")

	if err := rootCmd.Execute(); err != nil {
		log.Println(err)
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	// A source file named help is compiled like any other; --help
	// still prints usage.
	rootCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	// There are no flags, so an unknown one is a usage error.
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &UsageError{err}
	})
}

// Compile the source at path and write the program to out.
func compileFile(w io.Writer, path string, out string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return &SourceReadError{path, err}
	}

	a := obj.NewAssembler()
	if err := bf.Compile(bf.ScanString(string(source)), a); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	p, err := a.Program()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := obj.WriteFile(out, p); err != nil {
		return &ArtifactWriteError{out, err}
	}
	fmt.Fprintf(w, "Wrote %d bytes of code to %s\n", len(p.Code), out)
	return nil
}

// UsageError is a command invoked with the wrong arguments.
type UsageError struct {
	Err error
}

func (u *UsageError) Error() string { return u.Err.Error() }
func (u *UsageError) Unwrap() error { return u.Err }

// SourceReadError is an input file that could not be read.
type SourceReadError struct {
	Path string
	Err  error
}

func (s *SourceReadError) Error() string {
	return fmt.Sprintf("reading %s: %v", s.Path, s.Err)
}

func (s *SourceReadError) Unwrap() error { return s.Err }

// ArtifactWriteError is an output file that could not be written.
type ArtifactWriteError struct {
	Path string
	Err  error
}

func (a *ArtifactWriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", a.Path, a.Err)
}

func (a *ArtifactWriteError) Unwrap() error { return a.Err }

func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &UsageError{err}
		}
		return nil
	}
}

func exitCode(err error) int {
	var usage *UsageError
	var syntax *bf.SyntaxError
	var read *SourceReadError
	var write *ArtifactWriteError
	var fault *sim.Fault

	switch {
	case errors.As(err, &usage):
		return exitUsage
	case errors.As(err, &syntax):
		return exitDataErr
	case errors.As(err, &read):
		return exitNoInput
	case errors.As(err, &write):
		return exitCantCreat
	case errors.As(err, &fault):
		return exitSoftware
	}
	return exitFailure
}
