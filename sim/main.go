package main

// main.go - the sim command line, grounded on the teacher's func/func.go
// main() (flag.Parse, load, run, usage-on-missing-args) but rebuilt on
// cobra/pflag to match this repository's other three commands (§6.1), and
// on the cobra flag set z80opt wires up for its own multi-flag commands.

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CoffeeShop-Development/estros/internal/xlog"
	"github.com/CoffeeShop-Development/estros/isa"
)

var xl = xlog.New("sim")

var (
	quietFlag    bool
	testFlag     bool
	traceMemFlag bool
	debugFlag    bool
	setT0Flag    bool
	setRAFlag    bool
	ticksFlag    uint64
	a0Flag       int64
	a1Flag       int64
	a2Flag       int64
	a3Flag       int64
)

var rootCmd = &cobra.Command{
	Use:   "sim [flags] <rom-file>",
	Short: "Instruction-set simulator for the XM register machine",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		xlog.Debug = debugFlag
		return runSim(args[0])
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.BoolVarP(&quietFlag, "quiet", "q", false, "suppress per-tick dump")
	flags.BoolVar(&testFlag, "test", false, "print final register state for scripted checks")
	flags.BoolVar(&traceMemFlag, "trace-mem", false, "print each translated address with R/W/X markers")
	flags.BoolVarP(&debugFlag, "debug", "d", false, "enable debug tracing")
	flags.BoolVar(&setT0Flag, "t0", false, "initialize r[T0] to the RAM base")
	flags.BoolVar(&setRAFlag, "ra", false, "initialize r[RA] to the ROM base")
	flags.Uint64Var(&ticksFlag, "ticks", 25, "tick budget")
	flags.Int64Var(&a0Flag, "a0", 0, "initial value of r[A0]")
	flags.Int64Var(&a1Flag, "a1", 0, "initial value of r[A1]")
	flags.Int64Var(&a2Flag, "a2", 0, "initial value of r[A2]")
	flags.Int64Var(&a3Flag, "a3", 0, "initial value of r[A3]")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

// runSim loads the ROM image, wires up optional tracing and initial
// register values, and runs fetch/decode/execute to HALT, an
// undefined-opcode trap, or the tick budget (§4.4.6).
func runSim(romPath string) error {
	rom, err := os.ReadFile(romPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", romPath, err)
	}
	if len(rom) > isa.RomSize {
		return fmt.Errorf("rom image is %d bytes, exceeds %d-byte ROM", len(rom), isa.RomSize)
	}

	cpu := NewCPU()
	for i := range cpu.Mem.Rom {
		cpu.Mem.Rom[i] = 0xFF
	}
	copy(cpu.Mem.Rom, rom)
	cpu.PC = isa.RomBase

	if traceMemFlag {
		cpu.Mem.Tracer = NewMemTracer(os.Stdout)
	}
	if setT0Flag {
		cpu.R[isa.AbiT0] = isa.RamBase
	}
	if setRAFlag {
		cpu.R[isa.AbiRA] = isa.RomBase
	}
	cpu.R[isa.AbiA0] = uint32(a0Flag)
	cpu.R[isa.AbiA1] = uint32(a1Flag)
	cpu.R[isa.AbiA2] = uint32(a2Flag)
	cpu.R[isa.AbiA3] = uint32(a3Flag)

	for cpu.Perf.Ticks < ticksFlag {
		result, stepErr := cpu.Step()
		if !quietFlag {
			xl.Pr(fmt.Sprintf("tick %d: pc=%08x flags=%02x", cpu.Perf.Ticks, cpu.PC, cpu.Flags))
		}
		switch result {
		case StepHalt:
			xl.Pr(fmt.Sprintf("halt at pc=0x%08x after %d ticks", cpu.PC, cpu.Perf.Ticks))
			printTestState(cpu)
			return nil
		case StepTrap:
			xl.Pr(stepErr.Error())
			printTestState(cpu)
			os.Exit(1)
		}
	}

	xl.Pr(fmt.Sprintf("tick budget of %d exhausted at pc=0x%08x", ticksFlag, cpu.PC))
	printTestState(cpu)
	return nil
}

func printTestState(cpu *CPU) {
	if !testFlag {
		return
	}
	fmt.Printf("pc=0x%08x flags=0x%02x ticks=%d reads=%d writes=%d jumps=%d taken=%d misses=%d faults=%d\n",
		cpu.PC, cpu.Flags, cpu.Perf.Ticks, cpu.Perf.Reads, cpu.Perf.Writes,
		cpu.Perf.Jumps, cpu.Perf.BranchTaken, cpu.Perf.BranchMisses, cpu.Perf.DecodeFaults)
	for i, v := range cpu.R {
		fmt.Printf("r%d=%d\n", i, v)
	}
}
