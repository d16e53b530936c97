package decimal

import (
    "context"
    "fmt"
    "log"
    "os"

    cpu6502 "github.com/kazzmir/cpu6502/lib"
    test_utils "github.com/kazzmir/cpu6502/test/all-test/utils"
)

/* Run Klaus Dormann's decimal mode test, assembled for NMOS with all
 * flags checked, from 'test-roms/6502_decimal_test.bin'.
 * The image is loaded and started at 0x200. It ends in a trap and leaves
 * 0 in ErrorAddress when every ADC and SBC result matched.
 */

const LoadAddress = 0x0200
const ErrorAddress = 0x000b
const RomPath = "test-roms/6502_decimal_test.bin"

const MaxCycles = 100_000_000

/* builds that end with brk land on a jmp * here */
const BreakTrap = 0xfff0

func doTest(path string) (bool, error) {
    image, err := os.ReadFile(path)
    if err != nil {
        return false, err
    }

    memory := cpu6502.NewMemory()
    memory.Copy(LoadAddress, image)
    memory.Copy(BreakTrap, []byte{0x4c, byte(BreakTrap & 0xff), byte(BreakTrap >> 8)})
    memory.Store(cpu6502.IRQVector, byte(BreakTrap & 0xff))
    memory.Store(cpu6502.IRQVector + 1, byte(BreakTrap >> 8))

    cpu := cpu6502.NewCPU(memory)
    cpu.PC = LoadAddress

    err = cpu.Run(context.Background(), cpu6502.StopAny(cpu6502.StopOnTrap(), cpu6502.StopAtCycle(MaxCycles)))
    if err != nil {
        return false, err
    }

    if cpu.PC != cpu.LastPC() {
        log.Printf("Decimal test did not finish after %v cycles", cpu.Cycle)
        return false, nil
    }

    result := memory.Load(ErrorAddress)
    if result != 0 {
        log.Printf("Decimal test reported error 0x%x", result)
    }

    return result == 0, nil
}

func Run(debug bool) (bool, error) {
    ok, err := doTest(RomPath)
    if err != nil {
        return false, fmt.Errorf("decimal test: %w", err)
    }

    if ok {
        log.Print(test_utils.Success("6502 decimal test"))
    } else {
        log.Print(test_utils.Failure("6502 decimal test"))
    }

    return ok, nil
}
