package lib

import (
    "fmt"
)

/* opcode references
 * http://wiki.nesdev.com/w/index.php/CPU_unofficial_opcodes -- nice table of opcodes
 * http://www.oxyron.de/html/opcodes02.html -- has illegal opcodes and their semantics
 * https://www.masswerk.at/6502/6502_instruction_set.html
 * http://www.6502.org/tutorials/6502opcodes.html
 */

type InstructionType byte

/* opcodes that other code refers to by name */
const (
    Instruction_BRK InstructionType = 0x00
    Instruction_ORA_immediate InstructionType = 0x09
    Instruction_BPL InstructionType = 0x10
    Instruction_JSR InstructionType = 0x20
    Instruction_PLP InstructionType = 0x28
    Instruction_RTI InstructionType = 0x40
    Instruction_PHA InstructionType = 0x48
    Instruction_JMP_absolute InstructionType = 0x4c
    Instruction_RTS InstructionType = 0x60
    Instruction_ADC_immediate InstructionType = 0x69
    Instruction_JMP_indirect InstructionType = 0x6c
    Instruction_STY_absolute InstructionType = 0x8c
    Instruction_STA_absolute InstructionType = 0x8d
    Instruction_STX_absolute InstructionType = 0x8e
    Instruction_TXA InstructionType = 0x8a
    Instruction_LDY_immediate InstructionType = 0xa0
    Instruction_LDX_immediate InstructionType = 0xa2
    Instruction_LDA_immediate InstructionType = 0xa9
    Instruction_TAY InstructionType = 0xa8
    Instruction_TAX InstructionType = 0xaa
    Instruction_CPX_immediate InstructionType = 0xe0
    Instruction_DEX InstructionType = 0xca
    Instruction_INX InstructionType = 0xe8
    Instruction_SBC_immediate InstructionType = 0xe9
    Instruction_NOP InstructionType = 0xea
    Instruction_BNE InstructionType = 0xd0
    Instruction_BEQ InstructionType = 0xf0
)

/* what an opcode does, independent of how it finds its operand */
type Operation int

const (
    OpADC Operation = iota
    OpAND
    OpASL
    OpBCC
    OpBCS
    OpBEQ
    OpBIT
    OpBMI
    OpBNE
    OpBPL
    OpBRK
    OpBVC
    OpBVS
    OpCLC
    OpCLD
    OpCLI
    OpCLV
    OpCMP
    OpCPX
    OpCPY
    OpDEC
    OpDEX
    OpDEY
    OpEOR
    OpINC
    OpINX
    OpINY
    OpJMP
    OpJSR
    OpLDA
    OpLDX
    OpLDY
    OpLSR
    OpNOP
    OpORA
    OpPHA
    OpPHP
    OpPLA
    OpPLP
    OpROL
    OpROR
    OpRTI
    OpRTS
    OpSBC
    OpSEC
    OpSED
    OpSEI
    OpSTA
    OpSTX
    OpSTY
    OpTAX
    OpTAY
    OpTSX
    OpTXA
    OpTXS
    OpTYA

    /* undocumented but stable */
    OpSLO
    OpRLA
    OpSRE
    OpRRA
    OpSAX
    OpLAX
    OpDCP
    OpISC
    OpANC
    OpALR
    OpARR
    OpAXS

    /* never executed, see OpcodeClass */
    OpUnstable
    OpJam

    operationCount
)

type OpcodeClass int

const (
    /* documented by MOS */
    ClassOfficial OpcodeClass = iota
    /* undocumented, but every NMOS part behaves the same way */
    ClassUndocumented
    /* undocumented and dependent on analog effects (XAA, AHX, TAS, ...) */
    ClassUnstable
    /* halts the processor */
    ClassJam
)

func (class OpcodeClass) String() string {
    switch class {
        case ClassOfficial: return "official"
        case ClassUndocumented: return "undocumented"
        case ClassUnstable: return "unstable"
        case ClassJam: return "jam"
    }
    return "unknown"
}

type InstructionDescription struct {
    Name string
    Operation Operation
    Mode AddressMode
    /* base cycle count */
    Cycles byte
    /* one more cycle if the effective address crosses a page */
    PageCross bool
    Class OpcodeClass
}

func (description *InstructionDescription) Length() uint16 {
    return 1 + uint16(description.Mode.Operands())
}

func official(name string, operation Operation, mode AddressMode, cycles byte) InstructionDescription {
    return InstructionDescription{Name: name, Operation: operation, Mode: mode, Cycles: cycles, Class: ClassOfficial}
}

/* official, with a page cross penalty */
func officialP(name string, operation Operation, mode AddressMode, cycles byte) InstructionDescription {
    out := official(name, operation, mode, cycles)
    out.PageCross = true
    return out
}

func undocumented(name string, operation Operation, mode AddressMode, cycles byte) InstructionDescription {
    return InstructionDescription{Name: name, Operation: operation, Mode: mode, Cycles: cycles, Class: ClassUndocumented}
}

func undocumentedP(name string, operation Operation, mode AddressMode, cycles byte) InstructionDescription {
    out := undocumented(name, operation, mode, cycles)
    out.PageCross = true
    return out
}

func unstable(name string, mode AddressMode, cycles byte) InstructionDescription {
    return InstructionDescription{Name: name, Operation: OpUnstable, Mode: mode, Cycles: cycles, Class: ClassUnstable}
}

func jam() InstructionDescription {
    return InstructionDescription{Name: "KIL", Operation: OpJam, Mode: ModeImplied, Cycles: 2, Class: ClassJam}
}

/* every one of the 256 entries must be listed, checked in init() */
var instructionTable = [256]InstructionDescription{
    0x00: official("BRK", OpBRK, ModeImplied, 7),
    0x01: official("ORA", OpORA, ModeIndirectX, 6),
    0x02: jam(),
    0x03: undocumented("SLO", OpSLO, ModeIndirectX, 8),
    0x04: undocumented("NOP", OpNOP, ModeZeroPage, 3),
    0x05: official("ORA", OpORA, ModeZeroPage, 3),
    0x06: official("ASL", OpASL, ModeZeroPage, 5),
    0x07: undocumented("SLO", OpSLO, ModeZeroPage, 5),
    0x08: official("PHP", OpPHP, ModeImplied, 3),
    0x09: official("ORA", OpORA, ModeImmediate, 2),
    0x0a: official("ASL", OpASL, ModeAccumulator, 2),
    0x0b: undocumented("ANC", OpANC, ModeImmediate, 2),
    0x0c: undocumented("NOP", OpNOP, ModeAbsolute, 4),
    0x0d: official("ORA", OpORA, ModeAbsolute, 4),
    0x0e: official("ASL", OpASL, ModeAbsolute, 6),
    0x0f: undocumented("SLO", OpSLO, ModeAbsolute, 6),

    0x10: official("BPL", OpBPL, ModeRelative, 2),
    0x11: officialP("ORA", OpORA, ModeIndirectY, 5),
    0x12: jam(),
    0x13: undocumented("SLO", OpSLO, ModeIndirectY, 8),
    0x14: undocumented("NOP", OpNOP, ModeZeroPageX, 4),
    0x15: official("ORA", OpORA, ModeZeroPageX, 4),
    0x16: official("ASL", OpASL, ModeZeroPageX, 6),
    0x17: undocumented("SLO", OpSLO, ModeZeroPageX, 6),
    0x18: official("CLC", OpCLC, ModeImplied, 2),
    0x19: officialP("ORA", OpORA, ModeAbsoluteY, 4),
    0x1a: undocumented("NOP", OpNOP, ModeImplied, 2),
    0x1b: undocumented("SLO", OpSLO, ModeAbsoluteY, 7),
    0x1c: undocumentedP("NOP", OpNOP, ModeAbsoluteX, 4),
    0x1d: officialP("ORA", OpORA, ModeAbsoluteX, 4),
    0x1e: official("ASL", OpASL, ModeAbsoluteX, 7),
    0x1f: undocumented("SLO", OpSLO, ModeAbsoluteX, 7),

    0x20: official("JSR", OpJSR, ModeAbsolute, 6),
    0x21: official("AND", OpAND, ModeIndirectX, 6),
    0x22: jam(),
    0x23: undocumented("RLA", OpRLA, ModeIndirectX, 8),
    0x24: official("BIT", OpBIT, ModeZeroPage, 3),
    0x25: official("AND", OpAND, ModeZeroPage, 3),
    0x26: official("ROL", OpROL, ModeZeroPage, 5),
    0x27: undocumented("RLA", OpRLA, ModeZeroPage, 5),
    0x28: official("PLP", OpPLP, ModeImplied, 4),
    0x29: official("AND", OpAND, ModeImmediate, 2),
    0x2a: official("ROL", OpROL, ModeAccumulator, 2),
    0x2b: undocumented("ANC", OpANC, ModeImmediate, 2),
    0x2c: official("BIT", OpBIT, ModeAbsolute, 4),
    0x2d: official("AND", OpAND, ModeAbsolute, 4),
    0x2e: official("ROL", OpROL, ModeAbsolute, 6),
    0x2f: undocumented("RLA", OpRLA, ModeAbsolute, 6),

    0x30: official("BMI", OpBMI, ModeRelative, 2),
    0x31: officialP("AND", OpAND, ModeIndirectY, 5),
    0x32: jam(),
    0x33: undocumented("RLA", OpRLA, ModeIndirectY, 8),
    0x34: undocumented("NOP", OpNOP, ModeZeroPageX, 4),
    0x35: official("AND", OpAND, ModeZeroPageX, 4),
    0x36: official("ROL", OpROL, ModeZeroPageX, 6),
    0x37: undocumented("RLA", OpRLA, ModeZeroPageX, 6),
    0x38: official("SEC", OpSEC, ModeImplied, 2),
    0x39: officialP("AND", OpAND, ModeAbsoluteY, 4),
    0x3a: undocumented("NOP", OpNOP, ModeImplied, 2),
    0x3b: undocumented("RLA", OpRLA, ModeAbsoluteY, 7),
    0x3c: undocumentedP("NOP", OpNOP, ModeAbsoluteX, 4),
    0x3d: officialP("AND", OpAND, ModeAbsoluteX, 4),
    0x3e: official("ROL", OpROL, ModeAbsoluteX, 7),
    0x3f: undocumented("RLA", OpRLA, ModeAbsoluteX, 7),

    0x40: official("RTI", OpRTI, ModeImplied, 6),
    0x41: official("EOR", OpEOR, ModeIndirectX, 6),
    0x42: jam(),
    0x43: undocumented("SRE", OpSRE, ModeIndirectX, 8),
    0x44: undocumented("NOP", OpNOP, ModeZeroPage, 3),
    0x45: official("EOR", OpEOR, ModeZeroPage, 3),
    0x46: official("LSR", OpLSR, ModeZeroPage, 5),
    0x47: undocumented("SRE", OpSRE, ModeZeroPage, 5),
    0x48: official("PHA", OpPHA, ModeImplied, 3),
    0x49: official("EOR", OpEOR, ModeImmediate, 2),
    0x4a: official("LSR", OpLSR, ModeAccumulator, 2),
    0x4b: undocumented("ALR", OpALR, ModeImmediate, 2),
    0x4c: official("JMP", OpJMP, ModeAbsolute, 3),
    0x4d: official("EOR", OpEOR, ModeAbsolute, 4),
    0x4e: official("LSR", OpLSR, ModeAbsolute, 6),
    0x4f: undocumented("SRE", OpSRE, ModeAbsolute, 6),

    0x50: official("BVC", OpBVC, ModeRelative, 2),
    0x51: officialP("EOR", OpEOR, ModeIndirectY, 5),
    0x52: jam(),
    0x53: undocumented("SRE", OpSRE, ModeIndirectY, 8),
    0x54: undocumented("NOP", OpNOP, ModeZeroPageX, 4),
    0x55: official("EOR", OpEOR, ModeZeroPageX, 4),
    0x56: official("LSR", OpLSR, ModeZeroPageX, 6),
    0x57: undocumented("SRE", OpSRE, ModeZeroPageX, 6),
    0x58: official("CLI", OpCLI, ModeImplied, 2),
    0x59: officialP("EOR", OpEOR, ModeAbsoluteY, 4),
    0x5a: undocumented("NOP", OpNOP, ModeImplied, 2),
    0x5b: undocumented("SRE", OpSRE, ModeAbsoluteY, 7),
    0x5c: undocumentedP("NOP", OpNOP, ModeAbsoluteX, 4),
    0x5d: officialP("EOR", OpEOR, ModeAbsoluteX, 4),
    0x5e: official("LSR", OpLSR, ModeAbsoluteX, 7),
    0x5f: undocumented("SRE", OpSRE, ModeAbsoluteX, 7),

    0x60: official("RTS", OpRTS, ModeImplied, 6),
    0x61: official("ADC", OpADC, ModeIndirectX, 6),
    0x62: jam(),
    0x63: undocumented("RRA", OpRRA, ModeIndirectX, 8),
    0x64: undocumented("NOP", OpNOP, ModeZeroPage, 3),
    0x65: official("ADC", OpADC, ModeZeroPage, 3),
    0x66: official("ROR", OpROR, ModeZeroPage, 5),
    0x67: undocumented("RRA", OpRRA, ModeZeroPage, 5),
    0x68: official("PLA", OpPLA, ModeImplied, 4),
    0x69: official("ADC", OpADC, ModeImmediate, 2),
    0x6a: official("ROR", OpROR, ModeAccumulator, 2),
    0x6b: undocumented("ARR", OpARR, ModeImmediate, 2),
    0x6c: official("JMP", OpJMP, ModeIndirect, 5),
    0x6d: official("ADC", OpADC, ModeAbsolute, 4),
    0x6e: official("ROR", OpROR, ModeAbsolute, 6),
    0x6f: undocumented("RRA", OpRRA, ModeAbsolute, 6),

    0x70: official("BVS", OpBVS, ModeRelative, 2),
    0x71: officialP("ADC", OpADC, ModeIndirectY, 5),
    0x72: jam(),
    0x73: undocumented("RRA", OpRRA, ModeIndirectY, 8),
    0x74: undocumented("NOP", OpNOP, ModeZeroPageX, 4),
    0x75: official("ADC", OpADC, ModeZeroPageX, 4),
    0x76: official("ROR", OpROR, ModeZeroPageX, 6),
    0x77: undocumented("RRA", OpRRA, ModeZeroPageX, 6),
    0x78: official("SEI", OpSEI, ModeImplied, 2),
    0x79: officialP("ADC", OpADC, ModeAbsoluteY, 4),
    0x7a: undocumented("NOP", OpNOP, ModeImplied, 2),
    0x7b: undocumented("RRA", OpRRA, ModeAbsoluteY, 7),
    0x7c: undocumentedP("NOP", OpNOP, ModeAbsoluteX, 4),
    0x7d: officialP("ADC", OpADC, ModeAbsoluteX, 4),
    0x7e: official("ROR", OpROR, ModeAbsoluteX, 7),
    0x7f: undocumented("RRA", OpRRA, ModeAbsoluteX, 7),

    0x80: undocumented("NOP", OpNOP, ModeImmediate, 2),
    0x81: official("STA", OpSTA, ModeIndirectX, 6),
    0x82: undocumented("NOP", OpNOP, ModeImmediate, 2),
    0x83: undocumented("SAX", OpSAX, ModeIndirectX, 6),
    0x84: official("STY", OpSTY, ModeZeroPage, 3),
    0x85: official("STA", OpSTA, ModeZeroPage, 3),
    0x86: official("STX", OpSTX, ModeZeroPage, 3),
    0x87: undocumented("SAX", OpSAX, ModeZeroPage, 3),
    0x88: official("DEY", OpDEY, ModeImplied, 2),
    0x89: undocumented("NOP", OpNOP, ModeImmediate, 2),
    0x8a: official("TXA", OpTXA, ModeImplied, 2),
    0x8b: unstable("XAA", ModeImmediate, 2),
    0x8c: official("STY", OpSTY, ModeAbsolute, 4),
    0x8d: official("STA", OpSTA, ModeAbsolute, 4),
    0x8e: official("STX", OpSTX, ModeAbsolute, 4),
    0x8f: undocumented("SAX", OpSAX, ModeAbsolute, 4),

    0x90: official("BCC", OpBCC, ModeRelative, 2),
    0x91: official("STA", OpSTA, ModeIndirectY, 6),
    0x92: jam(),
    0x93: unstable("AHX", ModeIndirectY, 6),
    0x94: official("STY", OpSTY, ModeZeroPageX, 4),
    0x95: official("STA", OpSTA, ModeZeroPageX, 4),
    0x96: official("STX", OpSTX, ModeZeroPageY, 4),
    0x97: undocumented("SAX", OpSAX, ModeZeroPageY, 4),
    0x98: official("TYA", OpTYA, ModeImplied, 2),
    0x99: official("STA", OpSTA, ModeAbsoluteY, 5),
    0x9a: official("TXS", OpTXS, ModeImplied, 2),
    0x9b: unstable("TAS", ModeAbsoluteY, 5),
    0x9c: unstable("SHY", ModeAbsoluteX, 5),
    0x9d: official("STA", OpSTA, ModeAbsoluteX, 5),
    0x9e: unstable("SHX", ModeAbsoluteY, 5),
    0x9f: unstable("AHX", ModeAbsoluteY, 5),

    0xa0: official("LDY", OpLDY, ModeImmediate, 2),
    0xa1: official("LDA", OpLDA, ModeIndirectX, 6),
    0xa2: official("LDX", OpLDX, ModeImmediate, 2),
    0xa3: undocumented("LAX", OpLAX, ModeIndirectX, 6),
    0xa4: official("LDY", OpLDY, ModeZeroPage, 3),
    0xa5: official("LDA", OpLDA, ModeZeroPage, 3),
    0xa6: official("LDX", OpLDX, ModeZeroPage, 3),
    0xa7: undocumented("LAX", OpLAX, ModeZeroPage, 3),
    0xa8: official("TAY", OpTAY, ModeImplied, 2),
    0xa9: official("LDA", OpLDA, ModeImmediate, 2),
    0xaa: official("TAX", OpTAX, ModeImplied, 2),
    0xab: unstable("LXA", ModeImmediate, 2),
    0xac: official("LDY", OpLDY, ModeAbsolute, 4),
    0xad: official("LDA", OpLDA, ModeAbsolute, 4),
    0xae: official("LDX", OpLDX, ModeAbsolute, 4),
    0xaf: undocumented("LAX", OpLAX, ModeAbsolute, 4),

    0xb0: official("BCS", OpBCS, ModeRelative, 2),
    0xb1: officialP("LDA", OpLDA, ModeIndirectY, 5),
    0xb2: jam(),
    0xb3: undocumentedP("LAX", OpLAX, ModeIndirectY, 5),
    0xb4: official("LDY", OpLDY, ModeZeroPageX, 4),
    0xb5: official("LDA", OpLDA, ModeZeroPageX, 4),
    0xb6: official("LDX", OpLDX, ModeZeroPageY, 4),
    0xb7: undocumented("LAX", OpLAX, ModeZeroPageY, 4),
    0xb8: official("CLV", OpCLV, ModeImplied, 2),
    0xb9: officialP("LDA", OpLDA, ModeAbsoluteY, 4),
    0xba: official("TSX", OpTSX, ModeImplied, 2),
    0xbb: unstable("LAS", ModeAbsoluteY, 4),
    0xbc: officialP("LDY", OpLDY, ModeAbsoluteX, 4),
    0xbd: officialP("LDA", OpLDA, ModeAbsoluteX, 4),
    0xbe: officialP("LDX", OpLDX, ModeAbsoluteY, 4),
    0xbf: undocumentedP("LAX", OpLAX, ModeAbsoluteY, 4),

    0xc0: official("CPY", OpCPY, ModeImmediate, 2),
    0xc1: official("CMP", OpCMP, ModeIndirectX, 6),
    0xc2: undocumented("NOP", OpNOP, ModeImmediate, 2),
    0xc3: undocumented("DCP", OpDCP, ModeIndirectX, 8),
    0xc4: official("CPY", OpCPY, ModeZeroPage, 3),
    0xc5: official("CMP", OpCMP, ModeZeroPage, 3),
    0xc6: official("DEC", OpDEC, ModeZeroPage, 5),
    0xc7: undocumented("DCP", OpDCP, ModeZeroPage, 5),
    0xc8: official("INY", OpINY, ModeImplied, 2),
    0xc9: official("CMP", OpCMP, ModeImmediate, 2),
    0xca: official("DEX", OpDEX, ModeImplied, 2),
    0xcb: undocumented("AXS", OpAXS, ModeImmediate, 2),
    0xcc: official("CPY", OpCPY, ModeAbsolute, 4),
    0xcd: official("CMP", OpCMP, ModeAbsolute, 4),
    0xce: official("DEC", OpDEC, ModeAbsolute, 6),
    0xcf: undocumented("DCP", OpDCP, ModeAbsolute, 6),

    0xd0: official("BNE", OpBNE, ModeRelative, 2),
    0xd1: officialP("CMP", OpCMP, ModeIndirectY, 5),
    0xd2: jam(),
    0xd3: undocumented("DCP", OpDCP, ModeIndirectY, 8),
    0xd4: undocumented("NOP", OpNOP, ModeZeroPageX, 4),
    0xd5: official("CMP", OpCMP, ModeZeroPageX, 4),
    0xd6: official("DEC", OpDEC, ModeZeroPageX, 6),
    0xd7: undocumented("DCP", OpDCP, ModeZeroPageX, 6),
    0xd8: official("CLD", OpCLD, ModeImplied, 2),
    0xd9: officialP("CMP", OpCMP, ModeAbsoluteY, 4),
    0xda: undocumented("NOP", OpNOP, ModeImplied, 2),
    0xdb: undocumented("DCP", OpDCP, ModeAbsoluteY, 7),
    0xdc: undocumentedP("NOP", OpNOP, ModeAbsoluteX, 4),
    0xdd: officialP("CMP", OpCMP, ModeAbsoluteX, 4),
    0xde: official("DEC", OpDEC, ModeAbsoluteX, 7),
    0xdf: undocumented("DCP", OpDCP, ModeAbsoluteX, 7),

    0xe0: official("CPX", OpCPX, ModeImmediate, 2),
    0xe1: official("SBC", OpSBC, ModeIndirectX, 6),
    0xe2: undocumented("NOP", OpNOP, ModeImmediate, 2),
    0xe3: undocumented("ISC", OpISC, ModeIndirectX, 8),
    0xe4: official("CPX", OpCPX, ModeZeroPage, 3),
    0xe5: official("SBC", OpSBC, ModeZeroPage, 3),
    0xe6: official("INC", OpINC, ModeZeroPage, 5),
    0xe7: undocumented("ISC", OpISC, ModeZeroPage, 5),
    0xe8: official("INX", OpINX, ModeImplied, 2),
    0xe9: official("SBC", OpSBC, ModeImmediate, 2),
    0xea: official("NOP", OpNOP, ModeImplied, 2),
    0xeb: undocumented("SBC", OpSBC, ModeImmediate, 2),
    0xec: official("CPX", OpCPX, ModeAbsolute, 4),
    0xed: official("SBC", OpSBC, ModeAbsolute, 4),
    0xee: official("INC", OpINC, ModeAbsolute, 6),
    0xef: undocumented("ISC", OpISC, ModeAbsolute, 6),

    0xf0: official("BEQ", OpBEQ, ModeRelative, 2),
    0xf1: officialP("SBC", OpSBC, ModeIndirectY, 5),
    0xf2: jam(),
    0xf3: undocumented("ISC", OpISC, ModeIndirectY, 8),
    0xf4: undocumented("NOP", OpNOP, ModeZeroPageX, 4),
    0xf5: official("SBC", OpSBC, ModeZeroPageX, 4),
    0xf6: official("INC", OpINC, ModeZeroPageX, 6),
    0xf7: undocumented("ISC", OpISC, ModeZeroPageX, 6),
    0xf8: official("SED", OpSED, ModeImplied, 2),
    0xf9: officialP("SBC", OpSBC, ModeAbsoluteY, 4),
    0xfa: undocumented("NOP", OpNOP, ModeImplied, 2),
    0xfb: undocumented("ISC", OpISC, ModeAbsoluteY, 7),
    0xfc: undocumentedP("NOP", OpNOP, ModeAbsoluteX, 4),
    0xfd: officialP("SBC", OpSBC, ModeAbsoluteX, 4),
    0xfe: official("INC", OpINC, ModeAbsoluteX, 7),
    0xff: undocumented("ISC", OpISC, ModeAbsoluteX, 7),
}

/* make sure I don't do something dumb */
func checkInstructionTable() error {
    for opcode, description := range instructionTable {
        if description.Name == "" || description.Cycles == 0 {
            return fmt.Errorf("internal error: no entry for opcode 0x%02x", opcode)
        }
        if description.Operation < 0 || description.Operation >= operationCount {
            return fmt.Errorf("internal error: bad operation %v for opcode 0x%02x", description.Operation, opcode)
        }
        if description.Mode == ModeRelative && description.PageCross {
            return fmt.Errorf("internal error: branch 0x%02x cannot use the page cross penalty", opcode)
        }
    }
    return nil
}

func init() {
    err := checkInstructionTable()
    if err != nil {
        panic(err)
    }
}

func LookupInstruction(opcode byte) InstructionDescription {
    return instructionTable[opcode]
}

/* the name of an opcode, only used for display */
func Mnemonic(opcode byte) string {
    return instructionTable[opcode].Name
}
