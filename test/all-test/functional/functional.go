package functional

import (
    "context"
    "fmt"
    "log"
    "os"

    cpu6502 "github.com/kazzmir/cpu6502/lib"
    test_utils "github.com/kazzmir/cpu6502/test/all-test/utils"
)

/* Run Klaus Dormann's 6502 functional test. Assemble it with the default
 * settings and put the binary at 'test-roms/6502_functional_test.bin'.
 * The image covers the whole address space, execution starts at 0x400 and
 * a passing run traps at SuccessAddress.
 */

const StartAddress = 0x0400
const SuccessAddress = 0x3469
const RomPath = "test-roms/6502_functional_test.bin"

/* the full suite needs roughly 96 million cycles */
const MaxCycles = 200_000_000

func doTest(path string, debug bool) (bool, error) {
    image, err := os.ReadFile(path)
    if err != nil {
        return false, err
    }

    memory := cpu6502.NewMemory()
    memory.Copy(0x0000, image)

    cpu := cpu6502.NewCPU(memory)
    cpu.PC = StartAddress
    if debug {
        cpu.Debug = 1
    }

    err = cpu.Run(context.Background(), cpu6502.StopAny(cpu6502.StopOnTrap(), cpu6502.StopAtCycle(MaxCycles)))
    if err != nil {
        return false, err
    }

    if cpu.PC != SuccessAddress {
        log.Printf("Functional test trapped at 0x%04x after %v cycles", cpu.PC, cpu.Cycle)
        return false, nil
    }

    return true, nil
}

func Run(debug bool) (bool, error) {
    ok, err := doTest(RomPath, debug)
    if err != nil {
        return false, fmt.Errorf("functional test: %w", err)
    }

    if ok {
        log.Print(test_utils.Success("6502 functional test"))
    } else {
        log.Print(test_utils.Failure("6502 functional test"))
    }

    return ok, nil
}
