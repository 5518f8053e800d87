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
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gmofishsauce/bfc/pkg/obj"
	"github.com/gmofishsauce/bfc/pkg/sim"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [binFile]",
	Short: "Run a compiled program",
	Long: `Run loads a byte code file ("./bf.bin" unless another is
named) and executes it. Each input operation reads one whitespace
delimited word from standard input and keeps its first character.
Each output operation writes one byte to standard output. When
standard input is a terminal, a "? " prompt is written to standard
error before each read.
`,

	Args: usageArgs(cobra.MaximumNArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		in := cmd.InOrStdin()
		return runFile(binFileArg(args), in, cmd.OutOrStdout(), promptFor(in, os.Stderr))
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runFile(binFile string, in io.Reader, out io.Writer, prompt io.Writer) error {
	p, err := obj.ReadFile(binFile)
	if err != nil {
		return &SourceReadError{binFile, err}
	}
	e := sim.NewEngine(p, in, out)
	e.Prompt = prompt
	return e.Run()
}

// Prompt on w only when in is an interactive terminal.
func promptFor(in io.Reader, w io.Writer) io.Writer {
	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return nil
	}
	return w
}

func binFileArg(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return "./" + ArtifactName
}
