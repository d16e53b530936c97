package lib

type operationFunc func(cpu *CPUState, operand *Operand)

/* indexed by Operation, dispatch is a single array lookup */
var operations = [operationCount]operationFunc{
    OpADC: (*CPUState).opADC,
    OpAND: (*CPUState).opAND,
    OpASL: (*CPUState).opASL,
    OpBCC: (*CPUState).opBCC,
    OpBCS: (*CPUState).opBCS,
    OpBEQ: (*CPUState).opBEQ,
    OpBIT: (*CPUState).opBIT,
    OpBMI: (*CPUState).opBMI,
    OpBNE: (*CPUState).opBNE,
    OpBPL: (*CPUState).opBPL,
    OpBRK: (*CPUState).opBRK,
    OpBVC: (*CPUState).opBVC,
    OpBVS: (*CPUState).opBVS,
    OpCLC: (*CPUState).opCLC,
    OpCLD: (*CPUState).opCLD,
    OpCLI: (*CPUState).opCLI,
    OpCLV: (*CPUState).opCLV,
    OpCMP: (*CPUState).opCMP,
    OpCPX: (*CPUState).opCPX,
    OpCPY: (*CPUState).opCPY,
    OpDEC: (*CPUState).opDEC,
    OpDEX: (*CPUState).opDEX,
    OpDEY: (*CPUState).opDEY,
    OpEOR: (*CPUState).opEOR,
    OpINC: (*CPUState).opINC,
    OpINX: (*CPUState).opINX,
    OpINY: (*CPUState).opINY,
    OpJMP: (*CPUState).opJMP,
    OpJSR: (*CPUState).opJSR,
    OpLDA: (*CPUState).opLDA,
    OpLDX: (*CPUState).opLDX,
    OpLDY: (*CPUState).opLDY,
    OpLSR: (*CPUState).opLSR,
    OpNOP: (*CPUState).opNOP,
    OpORA: (*CPUState).opORA,
    OpPHA: (*CPUState).opPHA,
    OpPHP: (*CPUState).opPHP,
    OpPLA: (*CPUState).opPLA,
    OpPLP: (*CPUState).opPLP,
    OpROL: (*CPUState).opROL,
    OpROR: (*CPUState).opROR,
    OpRTI: (*CPUState).opRTI,
    OpRTS: (*CPUState).opRTS,
    OpSBC: (*CPUState).opSBC,
    OpSEC: (*CPUState).opSEC,
    OpSED: (*CPUState).opSED,
    OpSEI: (*CPUState).opSEI,
    OpSTA: (*CPUState).opSTA,
    OpSTX: (*CPUState).opSTX,
    OpSTY: (*CPUState).opSTY,
    OpTAX: (*CPUState).opTAX,
    OpTAY: (*CPUState).opTAY,
    OpTSX: (*CPUState).opTSX,
    OpTXA: (*CPUState).opTXA,
    OpTXS: (*CPUState).opTXS,
    OpTYA: (*CPUState).opTYA,

    OpSLO: (*CPUState).opSLO,
    OpRLA: (*CPUState).opRLA,
    OpSRE: (*CPUState).opSRE,
    OpRRA: (*CPUState).opRRA,
    OpSAX: (*CPUState).opSAX,
    OpLAX: (*CPUState).opLAX,
    OpDCP: (*CPUState).opDCP,
    OpISC: (*CPUState).opISC,
    OpANC: (*CPUState).opANC,
    OpALR: (*CPUState).opALR,
    OpARR: (*CPUState).opARR,
    OpAXS: (*CPUState).opAXS,

    /* the policy check in Step never lets these through */
    OpUnstable: (*CPUState).opNOP,
    OpJam: (*CPUState).opNOP,
}

func (cpu *CPUState) read(operand *Operand) byte {
    switch operand.Mode {
        case ModeImmediate:
            return operand.Value
        case ModeAccumulator:
            return cpu.A
    }
    return cpu.LoadMemory(operand.Address)
}

func (cpu *CPUState) write(operand *Operand, value byte) {
    if operand.Mode == ModeAccumulator {
        cpu.A = value
        return
    }
    cpu.StoreMemory(operand.Address, value)
}

func (cpu *CPUState) loadA(value byte){
    cpu.A = value
    cpu.Status.UpdateZeroNegative(value)
}

func (cpu *CPUState) loadX(value byte){
    cpu.X = value
    cpu.Status.UpdateZeroNegative(value)
}

func (cpu *CPUState) loadY(value byte){
    cpu.Y = value
    cpu.Status.UpdateZeroNegative(value)
}

/* a subtraction that only keeps the flags */
func (cpu *CPUState) compare(register byte, value byte){
    cpu.Status.Carry = register >= value
    cpu.Status.UpdateZeroNegative(register - value)
}

func (cpu *CPUState) doAsl(value byte) byte {
    out := value << 1
    cpu.Status.Carry = value & 0x80 != 0
    cpu.Status.UpdateZeroNegative(out)
    return out
}

func (cpu *CPUState) doLsr(value byte) byte {
    out := value >> 1
    cpu.Status.Carry = value & 1 == 1
    cpu.Status.UpdateZeroNegative(out)
    return out
}

/* the old carry goes into bit 0, bit 7 becomes the new carry */
func (cpu *CPUState) doRol(value byte) byte {
    var carryBit byte
    if cpu.Status.Carry {
        carryBit = 1
    }
    out := (value << 1) | carryBit
    cpu.Status.Carry = value & 0x80 != 0
    cpu.Status.UpdateZeroNegative(out)
    return out
}

/* the old carry goes into bit 7, bit 0 becomes the new carry */
func (cpu *CPUState) doRor(value byte) byte {
    var carryBit byte
    if cpu.Status.Carry {
        carryBit = 0x80
    }
    out := (value >> 1) | carryBit
    cpu.Status.Carry = value & 1 == 1
    cpu.Status.UpdateZeroNegative(out)
    return out
}

/* Decimal mode follows the NMOS 6502, including the flags it produces for
 * invalid bcd input.
 * http://www.6502.org/tutorials/decimal_mode.html#A
 */
func (cpu *CPUState) doAdc(value byte){
    if !cpu.Status.Decimal {
        cpu.loadA(cpu.Status.UpdateCarryOverflowAdd(cpu.A, value))
        return
    }

    var carry int
    if cpu.Status.Carry {
        carry = 1
    }

    a := int(cpu.A)
    b := int(value)

    /* the zero flag comes from the binary sum */
    binary := byte(a + b + carry)

    low := (a & 0x0f) + (b & 0x0f) + carry
    if low >= 0x0a {
        low = ((low + 0x06) & 0x0f) + 0x10
    }

    /* n and v are computed before the high nibble is adjusted, as signed values */
    signed := int(int8(byte(a & 0xf0))) + int(int8(byte(b & 0xf0))) + low

    sum := (a & 0xf0) + (b & 0xf0) + low
    if sum >= 0xa0 {
        sum += 0x60
    }

    cpu.A = byte(sum)
    cpu.Status.Carry = sum >= 0x100
    cpu.Status.Zero = binary == 0
    cpu.Status.Negative = signed & 0x80 != 0
    cpu.Status.Overflow = signed < -128 || signed > 127
}

/* in decimal mode the flags are the same as for a binary subtract */
func (cpu *CPUState) doSbc(value byte){
    var carry int
    if cpu.Status.Carry {
        carry = 1
    }
    a := int(cpu.A)
    b := int(value)

    binary := cpu.Status.UpdateCarryOverflowSubtract(cpu.A, value)
    cpu.Status.UpdateZeroNegative(binary)

    if !cpu.Status.Decimal {
        cpu.A = binary
        return
    }

    low := (a & 0x0f) - (b & 0x0f) + carry - 1
    if low < 0 {
        low = ((low - 0x06) & 0x0f) - 0x10
    }

    result := (a & 0xf0) - (b & 0xf0) + low
    if result < 0 {
        result -= 0x60
    }

    cpu.A = byte(result)
}

func (cpu *CPUState) branch(operand *Operand, condition bool){
    if !condition {
        return
    }

    /* one cycle for taking the branch, another if the target is on a
     * different page than the next instruction
     */
    cpu.extraCycles += 1
    if operand.PageCrossed {
        cpu.extraCycles += 1
    }
    cpu.PC = operand.Address
}

func (cpu *CPUState) opADC(operand *Operand){
    cpu.doAdc(cpu.read(operand))
}

func (cpu *CPUState) opSBC(operand *Operand){
    cpu.doSbc(cpu.read(operand))
}

func (cpu *CPUState) opAND(operand *Operand){
    cpu.loadA(cpu.A & cpu.read(operand))
}

func (cpu *CPUState) opORA(operand *Operand){
    cpu.loadA(cpu.A | cpu.read(operand))
}

func (cpu *CPUState) opEOR(operand *Operand){
    cpu.loadA(cpu.A ^ cpu.read(operand))
}

func (cpu *CPUState) opASL(operand *Operand){
    cpu.write(operand, cpu.doAsl(cpu.read(operand)))
}

func (cpu *CPUState) opLSR(operand *Operand){
    cpu.write(operand, cpu.doLsr(cpu.read(operand)))
}

func (cpu *CPUState) opROL(operand *Operand){
    cpu.write(operand, cpu.doRol(cpu.read(operand)))
}

func (cpu *CPUState) opROR(operand *Operand){
    cpu.write(operand, cpu.doRor(cpu.read(operand)))
}

func (cpu *CPUState) opBIT(operand *Operand){
    value := cpu.read(operand)
    cpu.Status.Zero = cpu.A & value == 0
    cpu.Status.Negative = value & 0x80 != 0
    cpu.Status.Overflow = value & 0x40 != 0
}

func (cpu *CPUState) opBCC(operand *Operand){
    cpu.branch(operand, !cpu.Status.Carry)
}

func (cpu *CPUState) opBCS(operand *Operand){
    cpu.branch(operand, cpu.Status.Carry)
}

func (cpu *CPUState) opBEQ(operand *Operand){
    cpu.branch(operand, cpu.Status.Zero)
}

func (cpu *CPUState) opBNE(operand *Operand){
    cpu.branch(operand, !cpu.Status.Zero)
}

func (cpu *CPUState) opBMI(operand *Operand){
    cpu.branch(operand, cpu.Status.Negative)
}

func (cpu *CPUState) opBPL(operand *Operand){
    cpu.branch(operand, !cpu.Status.Negative)
}

func (cpu *CPUState) opBVC(operand *Operand){
    cpu.branch(operand, !cpu.Status.Overflow)
}

func (cpu *CPUState) opBVS(operand *Operand){
    cpu.branch(operand, cpu.Status.Overflow)
}

func (cpu *CPUState) opBRK(operand *Operand){
    cpu.BRK()
}

func (cpu *CPUState) opCLC(operand *Operand){
    cpu.Status.Carry = false
}

func (cpu *CPUState) opCLD(operand *Operand){
    cpu.Status.Decimal = false
}

func (cpu *CPUState) opCLI(operand *Operand){
    cpu.Status.InterruptDisable = false
}

func (cpu *CPUState) opCLV(operand *Operand){
    cpu.Status.Overflow = false
}

func (cpu *CPUState) opSEC(operand *Operand){
    cpu.Status.Carry = true
}

func (cpu *CPUState) opSED(operand *Operand){
    cpu.Status.Decimal = true
}

func (cpu *CPUState) opSEI(operand *Operand){
    cpu.Status.InterruptDisable = true
}

func (cpu *CPUState) opCMP(operand *Operand){
    cpu.compare(cpu.A, cpu.read(operand))
}

func (cpu *CPUState) opCPX(operand *Operand){
    cpu.compare(cpu.X, cpu.read(operand))
}

func (cpu *CPUState) opCPY(operand *Operand){
    cpu.compare(cpu.Y, cpu.read(operand))
}

func (cpu *CPUState) opINC(operand *Operand){
    value := cpu.read(operand) + 1
    cpu.write(operand, value)
    cpu.Status.UpdateZeroNegative(value)
}

func (cpu *CPUState) opDEC(operand *Operand){
    value := cpu.read(operand) - 1
    cpu.write(operand, value)
    cpu.Status.UpdateZeroNegative(value)
}

func (cpu *CPUState) opINX(operand *Operand){
    cpu.loadX(cpu.X + 1)
}

func (cpu *CPUState) opINY(operand *Operand){
    cpu.loadY(cpu.Y + 1)
}

func (cpu *CPUState) opDEX(operand *Operand){
    cpu.loadX(cpu.X - 1)
}

func (cpu *CPUState) opDEY(operand *Operand){
    cpu.loadY(cpu.Y - 1)
}

func (cpu *CPUState) opJMP(operand *Operand){
    cpu.PC = operand.Address
}

/* pc already points past the jsr, push the address of its last byte */
func (cpu *CPUState) opJSR(operand *Operand){
    cpu.PushWord(cpu.PC - 1)
    cpu.PC = operand.Address
}

func (cpu *CPUState) opRTS(operand *Operand){
    cpu.PC = cpu.PopWord() + 1
}

func (cpu *CPUState) opRTI(operand *Operand){
    cpu.Status.SetByte(cpu.PopStack())
    cpu.PC = cpu.PopWord()
}

func (cpu *CPUState) opLDA(operand *Operand){
    cpu.loadA(cpu.read(operand))
}

func (cpu *CPUState) opLDX(operand *Operand){
    cpu.loadX(cpu.read(operand))
}

func (cpu *CPUState) opLDY(operand *Operand){
    cpu.loadY(cpu.read(operand))
}

func (cpu *CPUState) opSTA(operand *Operand){
    cpu.write(operand, cpu.A)
}

func (cpu *CPUState) opSTX(operand *Operand){
    cpu.write(operand, cpu.X)
}

func (cpu *CPUState) opSTY(operand *Operand){
    cpu.write(operand, cpu.Y)
}

func (cpu *CPUState) opNOP(operand *Operand){
}

func (cpu *CPUState) opPHA(operand *Operand){
    cpu.PushStack(cpu.A)
}

/* the pushed copy always has B and U set */
func (cpu *CPUState) opPHP(operand *Operand){
    cpu.PushStack(cpu.Status.Byte() | FlagBreak | FlagUnused)
}

func (cpu *CPUState) opPLA(operand *Operand){
    cpu.loadA(cpu.PopStack())
}

func (cpu *CPUState) opPLP(operand *Operand){
    cpu.Status.SetByte(cpu.PopStack())
}

func (cpu *CPUState) opTAX(operand *Operand){
    cpu.loadX(cpu.A)
}

func (cpu *CPUState) opTAY(operand *Operand){
    cpu.loadY(cpu.A)
}

func (cpu *CPUState) opTXA(operand *Operand){
    cpu.loadA(cpu.X)
}

func (cpu *CPUState) opTYA(operand *Operand){
    cpu.loadA(cpu.Y)
}

func (cpu *CPUState) opTSX(operand *Operand){
    cpu.loadX(cpu.SP)
}

/* no flags */
func (cpu *CPUState) opTXS(operand *Operand){
    cpu.SP = cpu.X
}

/* illegal opcode that combines shift left with or */
func (cpu *CPUState) opSLO(operand *Operand){
    value := cpu.doAsl(cpu.read(operand))
    cpu.write(operand, value)
    /* carry stays as the shift left it */
    cpu.loadA(cpu.A | value)
}

/* illegal opcode that combines ROL with 'and' */
func (cpu *CPUState) opRLA(operand *Operand){
    value := cpu.doRol(cpu.read(operand))
    cpu.write(operand, value)
    cpu.loadA(cpu.A & value)
}

/* illegal opcode that combines right-shift with xor */
func (cpu *CPUState) opSRE(operand *Operand){
    value := cpu.doLsr(cpu.read(operand))
    cpu.write(operand, value)
    cpu.loadA(cpu.A ^ value)
}

/* illegal opcode that combines ROR with adc, the adc sees the carry from the ror */
func (cpu *CPUState) opRRA(operand *Operand){
    value := cpu.doRor(cpu.read(operand))
    cpu.write(operand, value)
    cpu.doAdc(value)
}

func (cpu *CPUState) opSAX(operand *Operand){
    cpu.write(operand, cpu.A & cpu.X)
}

func (cpu *CPUState) opLAX(operand *Operand){
    value := cpu.read(operand)
    cpu.A = value
    cpu.loadX(value)
}

/* illegal opcode that combines dec with cmp */
func (cpu *CPUState) opDCP(operand *Operand){
    value := cpu.read(operand) - 1
    cpu.write(operand, value)
    cpu.compare(cpu.A, value)
}

/* illegal opcode that combines inc with sbc */
func (cpu *CPUState) opISC(operand *Operand){
    value := cpu.read(operand) + 1
    cpu.write(operand, value)
    cpu.doSbc(value)
}

/* and, then copy the negative flag into carry */
func (cpu *CPUState) opANC(operand *Operand){
    cpu.loadA(cpu.A & cpu.read(operand))
    cpu.Status.Carry = cpu.Status.Negative
}

/* and then lsr of the accumulator */
func (cpu *CPUState) opALR(operand *Operand){
    cpu.A = cpu.doLsr(cpu.A & cpu.read(operand))
}

/* and then ror of the accumulator, with carry and overflow taken from
 * bits 6 and 5 of the result. Decimal mode is not modeled here.
 */
func (cpu *CPUState) opARR(operand *Operand){
    value := cpu.doRor(cpu.A & cpu.read(operand))
    cpu.A = value
    cpu.Status.Carry = value & 0x40 != 0
    cpu.Status.Overflow = ((value >> 6) ^ (value >> 5)) & 1 == 1
}

/* x = (a and x) - immediate, without borrow, setting carry like cmp */
func (cpu *CPUState) opAXS(operand *Operand){
    value := cpu.read(operand)
    both := cpu.A & cpu.X
    cpu.Status.Carry = both >= value
    cpu.loadX(both - value)
}
