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
	"bufio"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gmofishsauce/bfc/pkg/obj"
)

// disCmd represents the dis command
var disCmd = &cobra.Command{
	Use:   "dis [binFile]",
	Short: "List the byte code in a compiled program",
	Long: `Dis prints the instructions in a byte code file ("./bf.bin"
unless another is named), one per line, with their code addresses.
`,

	Args: usageArgs(cobra.MaximumNArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return disFile(cmd.OutOrStdout(), binFileArg(args))
	},
}

func init() {
	rootCmd.AddCommand(disCmd)
}

func disFile(w io.Writer, binFile string) error {
	p, err := obj.ReadFile(binFile)
	if err != nil {
		return &SourceReadError{binFile, err}
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s: version %d, %d bytes of code\n", binFile, p.Version, len(p.Code))
	if err := obj.Disassemble(bw, p.Code); err != nil {
		bw.Flush()
		return fmt.Errorf("%s: %w", binFile, err)
	}
	return bw.Flush()
}
