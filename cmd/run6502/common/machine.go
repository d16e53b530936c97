package common

import (
    "context"
    "errors"
    "fmt"
    "io"
    "log"

    cpu6502 "github.com/kazzmir/cpu6502/lib"
)

/* a cpu, its memory and the devices mapped into it */
type Machine struct {
    CPU *cpu6502.CPUState
    Memory *cpu6502.Memory
    Keyboard *cpu6502.Keyboard
    Output *cpu6502.ConsoleOutput
}

func SetupMachine(image []byte, config ConfigData, output io.Writer, debug bool) (*Machine, error) {
    if len(image) > cpu6502.MemorySize {
        return nil, fmt.Errorf("image is %v bytes, larger than the address space", len(image))
    }

    policy, err := cpu6502.ParseIllegalPolicy(config.Policy)
    if err != nil {
        return nil, err
    }

    memory := cpu6502.NewMemory()
    memory.Copy(config.LoadAddress, image)

    if config.ResetVector != 0 {
        memory.Store(cpu6502.ResetVector, byte(config.ResetVector))
        memory.Store(cpu6502.ResetVector + 1, byte(config.ResetVector >> 8))
    } else if memory.LoadWord(cpu6502.ResetVector) == 0 {
        memory.Store(cpu6502.ResetVector, byte(config.LoadAddress))
        memory.Store(cpu6502.ResetVector + 1, byte(config.LoadAddress >> 8))
    }

    keyboard := cpu6502.MakeKeyboard(config.KeyBuffer)
    err = keyboard.Map(memory, config.KeyboardAddress)
    if err != nil {
        return nil, err
    }

    console := cpu6502.MakeConsoleOutput(output)
    err = console.Map(memory, config.OutputAddress)
    if err != nil {
        return nil, err
    }

    cpu := cpu6502.NewCPU(memory)
    cpu.Policy = policy
    if debug {
        cpu.Debug = 1
    }

    cpu.Reset()

    return &Machine{
        CPU: cpu,
        Memory: memory,
        Keyboard: keyboard,
        Output: console,
    }, nil
}

var MaxCyclesReached error = errors.New("maximum cycles reached")

/* free run until the program traps, quit is cancelled or maxCycles is
 * reached. maxCycles of 0 means no limit.
 */
func RunMachine(quit context.Context, machine *Machine, maxCycles uint64, verbose int) error {
    cpu := machine.CPU

    stop := cpu6502.StopOnTrap()
    if maxCycles > 0 {
        stop = cpu6502.StopAny(stop, cpu6502.StopAtCycle(maxCycles))
    }

    err := cpu.Run(quit, stop)
    if err != nil {
        return err
    }

    if cpu.PC == cpu.LastPC() {
        if verbose > 0 {
            log.Printf("Trapped at 0x%04x after %v cycles", cpu.PC, cpu.Cycle)
        }
        return nil
    }

    if verbose > 0 {
        log.Printf("Maximum cycles %v reached", maxCycles)
    }
    return MaxCyclesReached
}
