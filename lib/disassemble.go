package lib

import (
    "bytes"
    "fmt"
    "io"
)

/* a decoded instruction, used for tracing and disassembly only */
type Instruction struct {
    Name string
    Kind InstructionType
    Mode AddressMode
    Class OpcodeClass
    Operands []byte
}

func (instruction *Instruction) Equals(other Instruction) bool {
    return instruction.Name == other.Name &&
           instruction.Kind == other.Kind &&
           bytes.Equal(instruction.Operands, other.Operands)
}

func (instruction *Instruction) Length() uint16 {
    return 1 + uint16(len(instruction.Operands))
}

func (instruction *Instruction) OperandByte() (byte, error) {
    if len(instruction.Operands) != 1 {
        return 0, fmt.Errorf("dont have one operand for %v, only have %v", instruction.Name, len(instruction.Operands))
    }
    return instruction.Operands[0], nil
}

func (instruction *Instruction) OperandWord() (uint16, error) {
    if len(instruction.Operands) != 2 {
        return 0, fmt.Errorf("dont have two operands for %v, only have %v", instruction.Name, len(instruction.Operands))
    }
    high := instruction.Operands[1]
    low := instruction.Operands[0]
    return (uint16(high) << 8) | uint16(low), nil
}

/* raw bytes, like "A9 01" */
func (instruction *Instruction) Hex() string {
    var out bytes.Buffer
    out.WriteString(fmt.Sprintf("%02X", byte(instruction.Kind)))
    for _, operand := range instruction.Operands {
        out.WriteString(fmt.Sprintf(" %02X", operand))
    }
    return out.String()
}

/* the instruction without knowing where it lives, branches show their raw offset */
func (instruction *Instruction) String() string {
    var out bytes.Buffer
    out.WriteString(fmt.Sprintf("%02X ", byte(instruction.Kind)))
    out.WriteString(instruction.Name)
    for _, operand := range instruction.Operands {
        out.WriteRune(' ')
        out.WriteString(fmt.Sprintf("0x%x", operand))
    }
    return out.String()
}

/* assembler syntax for the instruction located at pc, such as "LDA ($10),Y" */
func (instruction *Instruction) Format(pc uint16) string {
    operand := instruction.formatOperand(pc)
    if operand == "" {
        return instruction.Name
    }
    return instruction.Name + " " + operand
}

func (instruction *Instruction) formatOperand(pc uint16) string {
    value, _ := instruction.OperandByte()
    word, _ := instruction.OperandWord()

    switch instruction.Mode {
        case ModeAccumulator: return "A"
        case ModeImmediate: return fmt.Sprintf("#$%02X", value)
        case ModeZeroPage: return fmt.Sprintf("$%02X", value)
        case ModeZeroPageX: return fmt.Sprintf("$%02X,X", value)
        case ModeZeroPageY: return fmt.Sprintf("$%02X,Y", value)
        case ModeAbsolute: return fmt.Sprintf("$%04X", word)
        case ModeAbsoluteX: return fmt.Sprintf("$%04X,X", word)
        case ModeAbsoluteY: return fmt.Sprintf("$%04X,Y", word)
        case ModeIndirect: return fmt.Sprintf("($%04X)", word)
        case ModeIndirectX: return fmt.Sprintf("($%02X,X)", value)
        case ModeIndirectY: return fmt.Sprintf("($%02X),Y", value)
        case ModeRelative: return fmt.Sprintf("$%04X", ComputeRelative(pc + 2, value))
    }
    return ""
}

func makeInstruction(opcode byte, operands []byte) Instruction {
    description := &instructionTable[opcode]
    return Instruction{
        Name: description.Name,
        Kind: InstructionType(opcode),
        Mode: description.Mode,
        Class: description.Class,
        Operands: operands,
    }
}

/* decode the instruction at address by reading the bus */
func Decode(bus Bus, address uint16) Instruction {
    opcode := bus.Load(address)
    count := instructionTable[opcode].Mode.Operands()
    operands := make([]byte, count)
    for i := 0; i < int(count); i++ {
        operands[i] = bus.Load(address + uint16(i + 1))
    }
    return makeInstruction(opcode, operands)
}

type InstructionReader struct {
    data io.Reader
}

func NewInstructionReader(data []byte) *InstructionReader {
    return &InstructionReader{
        data: bytes.NewReader(data),
    }
}

/* instructions can vary in their size */
func (reader *InstructionReader) ReadInstruction() (Instruction, error) {
    first := make([]byte, 1)
    _, err := io.ReadFull(reader.data, first)
    if err != nil {
        return Instruction{}, err
    }

    description := &instructionTable[first[0]]

    operands := make([]byte, description.Mode.Operands())
    _, err = io.ReadFull(reader.data, operands)
    if err != nil {
        return Instruction{}, fmt.Errorf("unable to read %v operands for instruction %v", len(operands), description.Name)
    }

    return makeInstruction(first[0], operands), nil
}

/* one disassembled line per instruction, starting at origin */
func Disassemble(data []byte, origin uint16) ([]string, error) {
    var out []string
    reader := NewInstructionReader(data)
    pc := origin
    for {
        instruction, err := reader.ReadInstruction()
        if err == io.EOF {
            return out, nil
        }
        if err != nil {
            return out, err
        }

        out = append(out, fmt.Sprintf("$%04X  %-8v  %v", pc, instruction.Hex(), instruction.Format(pc)))
        pc += instruction.Length()
    }
}
