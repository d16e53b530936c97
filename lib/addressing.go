package lib

/* https://www.masswerk.at/6502/6502_instruction_set.html
 * A = accumulator
 * abs = absolute
 * # = immediate
 * impl = implied
 * ind = indirect
 * rel = relative
 * zpg = zeropage
 */

type AddressMode int

const (
    ModeImplied AddressMode = iota
    ModeAccumulator
    ModeImmediate
    ModeZeroPage
    ModeZeroPageX
    ModeZeroPageY
    ModeAbsolute
    ModeAbsoluteX
    ModeAbsoluteY
    ModeIndirect
    ModeIndirectX
    ModeIndirectY
    ModeRelative
)

/* number of bytes following the opcode */
func (mode AddressMode) Operands() byte {
    switch mode {
        case ModeImplied, ModeAccumulator:
            return 0
        case ModeAbsolute, ModeAbsoluteX, ModeAbsoluteY, ModeIndirect:
            return 2
        default:
            return 1
    }
}

func (mode AddressMode) String() string {
    switch mode {
        case ModeImplied: return "impl"
        case ModeAccumulator: return "A"
        case ModeImmediate: return "#"
        case ModeZeroPage: return "zpg"
        case ModeZeroPageX: return "zpg,X"
        case ModeZeroPageY: return "zpg,Y"
        case ModeAbsolute: return "abs"
        case ModeAbsoluteX: return "abs,X"
        case ModeAbsoluteY: return "abs,Y"
        case ModeIndirect: return "ind"
        case ModeIndirectX: return "X,ind"
        case ModeIndirectY: return "ind,Y"
        case ModeRelative: return "rel"
    }
    return "?"
}

/* the resolved operand of one instruction. For immediate mode Value holds the
 * operand itself, for every memory mode Address is the effective address.
 */
type Operand struct {
    Mode AddressMode
    Address uint16
    Value byte
    PageCrossed bool
}

func pageCrossed(a uint16, b uint16) bool {
    return (a >> 8) != (b >> 8)
}

/* read a pointer out of the zero page. The high byte comes from zero+1
 * and wraps within page 0.
 */
func (cpu *CPUState) loadZeroPageWord(zero byte) uint16 {
    low := uint16(cpu.LoadMemory(uint16(zero)))
    high := uint16(cpu.LoadMemory(uint16(zero + 1)))
    return (high << 8) | low
}

/* The 6502 never carries into the high byte of the pointer when fetching an
 * indirect jump target, so JMP ($30FF) reads its high byte from $3000.
 */
func (cpu *CPUState) ComputeIndirect(pointer uint16) uint16 {
    low := uint16(cpu.LoadMemory(pointer))
    high := uint16(cpu.LoadMemory((pointer & 0xff00) | ((pointer + 1) & 0x00ff)))
    return (high << 8) | low
}

/* ($zero,X): the pointer is pre-indexed and stays in page 0 */
func (cpu *CPUState) ComputeIndirectX(zero byte) uint16 {
    return cpu.loadZeroPageWord(zero + cpu.X)
}

/* returns a new address and whether a page boundary was crossed */
func (cpu *CPUState) ComputeIndirectY(zero byte) (uint16, bool) {
    address := cpu.loadZeroPageWord(zero)
    out := address + uint16(cpu.Y)
    return out, pageCrossed(address, out)
}

/* relative to the address of the next instruction */
func ComputeRelative(next uint16, offset byte) uint16 {
    return next + uint16(int16(int8(offset)))
}

/* Reads the operand bytes that follow the opcode at pc and computes the
 * effective address. pc itself is not modified.
 */
func (cpu *CPUState) resolveOperand(mode AddressMode, pc uint16) Operand {
    operand := Operand{Mode: mode}

    switch mode {
        case ModeImplied, ModeAccumulator:
        case ModeImmediate:
            operand.Value = cpu.LoadMemory(pc + 1)
            operand.Address = pc + 1
        case ModeZeroPage:
            operand.Address = uint16(cpu.LoadMemory(pc + 1))
        case ModeZeroPageX:
            /* keeping the sum as a byte keeps the address in the zero page */
            operand.Address = uint16(cpu.LoadMemory(pc + 1) + cpu.X)
        case ModeZeroPageY:
            operand.Address = uint16(cpu.LoadMemory(pc + 1) + cpu.Y)
        case ModeAbsolute:
            operand.Address = cpu.loadWord(pc + 1)
        case ModeAbsoluteX:
            base := cpu.loadWord(pc + 1)
            operand.Address = base + uint16(cpu.X)
            operand.PageCrossed = pageCrossed(base, operand.Address)
        case ModeAbsoluteY:
            base := cpu.loadWord(pc + 1)
            operand.Address = base + uint16(cpu.Y)
            operand.PageCrossed = pageCrossed(base, operand.Address)
        case ModeIndirect:
            operand.Address = cpu.ComputeIndirect(cpu.loadWord(pc + 1))
        case ModeIndirectX:
            operand.Address = cpu.ComputeIndirectX(cpu.LoadMemory(pc + 1))
        case ModeIndirectY:
            operand.Address, operand.PageCrossed = cpu.ComputeIndirectY(cpu.LoadMemory(pc + 1))
        case ModeRelative:
            operand.Value = cpu.LoadMemory(pc + 1)
            next := pc + 2
            operand.Address = ComputeRelative(next, operand.Value)
            operand.PageCrossed = pageCrossed(next, operand.Address)
    }

    return operand
}
