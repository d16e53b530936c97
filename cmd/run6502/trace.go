package main

import (
    "fmt"
    "io"

    "github.com/fatih/color"
    cpu6502 "github.com/kazzmir/cpu6502/lib"
)

/* prints one line per instruction, before it executes */
type ColorTracer struct {
    Output io.Writer
    official func(a ...interface{}) string
    undocumented func(a ...interface{}) string
    illegal func(a ...interface{}) string
    address func(a ...interface{}) string
}

func MakeColorTracer(output io.Writer) *ColorTracer {
    return &ColorTracer{
        Output: output,
        official: color.New(color.FgCyan).SprintFunc(),
        undocumented: color.New(color.FgYellow).SprintFunc(),
        illegal: color.New(color.FgRed, color.Bold).SprintFunc(),
        address: color.New(color.FgHiBlack).SprintFunc(),
    }
}

func (tracer *ColorTracer) colorize(class cpu6502.OpcodeClass, text string) string {
    switch class {
        case cpu6502.ClassOfficial: return tracer.official(text)
        case cpu6502.ClassUndocumented: return tracer.undocumented(text)
    }
    return tracer.illegal(text)
}

func (tracer *ColorTracer) Trace(cpu *cpu6502.CPUState, instruction cpu6502.Instruction){
    /* pad before coloring so the escape codes do not break the columns */
    text := fmt.Sprintf("%-14v", instruction.Format(cpu.PC))
    fmt.Fprintf(tracer.Output, "%v  %-8v  %v  A:%02X X:%02X Y:%02X P:%v SP:%02X CYC:%v\n",
                tracer.address(fmt.Sprintf("$%04X", cpu.PC)), instruction.Hex(),
                tracer.colorize(instruction.Class, text),
                cpu.A, cpu.X, cpu.Y, cpu.Status.String(), cpu.SP, cpu.Cycle)
}
