/*
Copyright © 2022 Jeff Berkowitz (pdxjjb@gmail.com)

This program is free software: you can redistribute it and/or modify it
under the terms of the GNU Affero General Public License as published
by the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful, but
WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public
License along with this program. If not, see
<http://www.gnu.org/licenses/>.
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CoffeeShop-Development/estros/internal/xlog"
)

var xl = xlog.New("asm")

var debugFlag bool

var rootCmd = &cobra.Command{
	Use:   "asm <source> <output>",
	Short: "Two-pass assembler for the XM register machine",
	// A missing source or output path exits 1, distinct from the exit 2
	// that main uses for an assembly diagnostic.
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(2)(cmd, args); err != nil {
			fmt.Fprintln(os.Stderr, err)
			cmd.Usage()
			os.Exit(1)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		xlog.Debug = debugFlag
		return assembleFile(args[0], args[1])
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&debugFlag, "debug", "d", false, "enable debug tracing")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

// assembleFile runs the lexer/parser over srcPath and writes the
// assembled image to outPath. Any diagnostic aborts the assembly and is
// returned to the caller unchanged; main reports it and exits 2.
func assembleFile(srcPath, outPath string) error {
	lx, err := MakeFileLexer(srcPath)
	if err != nil {
		return fmt.Errorf("open source file %s: %w", srcPath, err)
	}
	defer lx.Close()

	_, code, err := parseAssembly(lx)
	if err != nil {
		return err
	}

	xl.Dbg("assembled %d bytes from %s", len(code), srcPath)

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file %s: %w", outPath, err)
	}
	defer out.Close()

	if _, err := out.Write(code); err != nil {
		return fmt.Errorf("write output file %s: %w", outPath, err)
	}
	return nil
}
