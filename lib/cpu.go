package lib

import (
    "context"
    "encoding/json"
    "fmt"
    "io"
    "log"
)

const NMIVector uint16 = 0xfffa
const ResetVector uint16 = 0xfffc
const IRQVector uint16 = 0xfffe
/* brk shares the irq vector */
const BRKVector uint16 = IRQVector

const StackBase uint16 = 0x100

/* cycles taken by reset, irq, nmi and brk */
const InterruptCycles = 7

/* called before each instruction executes */
type Tracer interface {
    Trace(cpu *CPUState, instruction Instruction)
}

type CPUState struct {
    A byte `json:"a"`
    X byte `json:"x"`
    Y byte `json:"y"`
    SP byte `json:"sp"`
    PC uint16 `json:"pc"`
    Status Flags `json:"status"`

    Cycle uint64 `json:"cycle"`

    Bus Bus `json:"-"`
    Policy IllegalPolicy `json:"-"`
    Tracer Tracer `json:"-"`
    Debug uint `json:"debug,omitempty"`

    /* irq is a level, it stays asserted until the device drops it.
     * nmi is an edge, it is serviced once per TriggerNMI.
     */
    irqAsserted bool
    nmiPending bool

    lastPC uint16
    /* cycles added by the instruction itself, like taken branches */
    extraCycles int
}

func NewCPU(bus Bus) *CPUState {
    return &CPUState{
        SP: 0xff,
        Bus: bus,
    }
}

func (cpu *CPUState) Serialize(writer io.Writer) error {
    encoder := json.NewEncoder(writer)
    encoder.SetIndent("", "  ")
    return encoder.Encode(cpu)
}

/* restore the registers from a copy, the bus and hooks stay the same */
func (cpu *CPUState) Load(other *CPUState){
    cpu.A = other.A
    cpu.X = other.X
    cpu.Y = other.Y
    cpu.SP = other.SP
    cpu.PC = other.PC
    cpu.Status = other.Status
    cpu.Cycle = other.Cycle
}

/* the returned copy shares the bus */
func (cpu *CPUState) Copy() CPUState {
    return CPUState{
        A: cpu.A,
        X: cpu.X,
        Y: cpu.Y,
        SP: cpu.SP,
        PC: cpu.PC,
        Status: cpu.Status,
        Cycle: cpu.Cycle,
        Bus: cpu.Bus,
        Policy: cpu.Policy,
        Debug: cpu.Debug,
        lastPC: cpu.lastPC,
    }
}

func (cpu *CPUState) Equals(other CPUState) bool {
    return cpu.A == other.A &&
           cpu.X == other.X &&
           cpu.Y == other.Y &&
           cpu.SP == other.SP &&
           cpu.PC == other.PC &&
           cpu.Cycle == other.Cycle &&
           cpu.Status == other.Status
}

func (cpu *CPUState) String() string {
    return fmt.Sprintf("A:%02X X:%02X Y:%02X P:%02X SP:%02X PC:%04X Cycle:%v", cpu.A, cpu.X, cpu.Y, cpu.Status.Byte(), cpu.SP, cpu.PC, cpu.Cycle)
}

func (cpu *CPUState) LoadMemory(address uint16) byte {
    return cpu.Bus.Load(address)
}

func (cpu *CPUState) StoreMemory(address uint16, value byte) {
    cpu.Bus.Store(address, value)
}

/* little endian word, the second byte wraps around 0xffff */
func (cpu *CPUState) loadWord(address uint16) uint16 {
    low := uint16(cpu.LoadMemory(address))
    high := uint16(cpu.LoadMemory(address + 1))
    return (high << 8) | low
}

func (cpu *CPUState) LoadStack(where byte) byte {
    return cpu.LoadMemory(StackBase + uint16(where))
}

func (cpu *CPUState) StoreStack(where byte, value byte) {
    cpu.StoreMemory(StackBase + uint16(where), value)
}

/* store then decrement, sp wraps from 0x00 to 0xff */
func (cpu *CPUState) PushStack(value byte) {
    cpu.StoreStack(cpu.SP, value)
    cpu.SP -= 1
}

/* increment then load, sp wraps from 0xff to 0x00 */
func (cpu *CPUState) PopStack() byte {
    cpu.SP += 1
    return cpu.LoadStack(cpu.SP)
}

/* high byte first so the low byte ends up on top */
func (cpu *CPUState) PushWord(value uint16) {
    cpu.PushStack(byte(value >> 8))
    cpu.PushStack(byte(value))
}

func (cpu *CPUState) PopWord() uint16 {
    low := uint16(cpu.PopStack())
    high := uint16(cpu.PopStack())
    return (high << 8) | low
}

/* the address of the most recently executed instruction */
func (cpu *CPUState) LastPC() uint16 {
    return cpu.lastPC
}

func (cpu *CPUState) Reset() {
    /* https://en.wikipedia.org/wiki/Interrupts_in_65xx_processors
     * the real chip spends 7 cycles here doing 3 fake stack pushes,
     * then reads the vector
     */
    cpu.SP = 0xff
    cpu.PC = cpu.loadWord(ResetVector)
    cpu.lastPC = cpu.PC
    cpu.irqAsserted = false
    cpu.nmiPending = false
    cpu.Cycle += InterruptCycles
}

/* Hold the irq line. The interrupt is taken at the next instruction
 * boundary where the interrupt disable flag is clear.
 */
func (cpu *CPUState) SetIRQ(asserted bool) {
    cpu.irqAsserted = asserted
}

func (cpu *CPUState) IsIRQAsserted() bool {
    return cpu.irqAsserted
}

/* request an nmi, taken at the next instruction boundary regardless of flags */
func (cpu *CPUState) TriggerNMI() {
    cpu.nmiPending = true
}

/* push pc and status, then jump through the vector */
func (cpu *CPUState) interruptSequence(vector uint16, status byte) {
    cpu.PushWord(cpu.PC)
    cpu.PushStack(status)
    cpu.Status.InterruptDisable = true
    cpu.PC = cpu.loadWord(vector)
}

/* BRK: skip the padding byte after the opcode, then push a status with B and U set */
func (cpu *CPUState) BRK() {
    cpu.PC += 1
    cpu.interruptSequence(BRKVector, cpu.Status.Byte() | FlagBreak | FlagUnused)
}

/* the pushed status has B clear so the handler can tell an irq from a brk */
func (cpu *CPUState) Interrupt() {
    cpu.interruptSequence(IRQVector, (cpu.Status.Byte() | FlagUnused) &^ FlagBreak)
    cpu.Cycle += InterruptCycles
}

func (cpu *CPUState) NMI() {
    cpu.interruptSequence(NMIVector, (cpu.Status.Byte() | FlagUnused) &^ FlagBreak)
    cpu.Cycle += InterruptCycles
}

/* Execute exactly one instruction, or service one pending interrupt, and
 * return the number of cycles used. An opcode rejected by the illegal
 * opcode policy leaves the cpu untouched and returns an *IllegalOpcodeError.
 */
func (cpu *CPUState) Step() (int, error) {
    if cpu.nmiPending {
        cpu.nmiPending = false
        cpu.lastPC = cpu.PC
        cpu.NMI()
        return InterruptCycles, nil
    }

    if cpu.irqAsserted && !cpu.Status.InterruptDisable {
        cpu.lastPC = cpu.PC
        cpu.Interrupt()
        return InterruptCycles, nil
    }

    pc := cpu.PC
    opcode := cpu.LoadMemory(pc)
    description := &instructionTable[opcode]

    ok, skip := cpu.Policy.allows(description.Class)
    if !ok {
        return 0, &IllegalOpcodeError{
            Opcode: opcode,
            PC: pc,
            Name: description.Name,
            Class: description.Class,
        }
    }

    if cpu.Tracer != nil || cpu.Debug > 0 {
        instruction := Decode(cpu.Bus, pc)
        if cpu.Tracer != nil {
            cpu.Tracer.Trace(cpu, instruction)
        }
        if cpu.Debug > 0 {
            log.Printf("PC: 0x%x Execute instruction %v A:%X X:%X Y:%X P:%X SP:%X CYC:%v\n", pc, instruction.String(), cpu.A, cpu.X, cpu.Y, cpu.Status.Byte(), cpu.SP, cpu.Cycle)
        }
    }

    operand := cpu.resolveOperand(description.Mode, pc)
    cpu.lastPC = pc
    cpu.PC = pc + description.Length()

    cycles := int(description.Cycles)
    if description.PageCross && operand.PageCrossed {
        cycles += 1
    }

    cpu.extraCycles = 0
    if !skip {
        operations[description.Operation](cpu, &operand)
    }
    cycles += cpu.extraCycles

    cpu.Cycle += uint64(cycles)
    return cycles, nil
}

/* returns true when a free run should stop */
type StopFunc func(cpu *CPUState) bool

func StopAtCycle(cycle uint64) StopFunc {
    return func(cpu *CPUState) bool {
        return cpu.Cycle >= cycle
    }
}

/* stop when an instruction jumps or branches to itself */
func StopOnTrap() StopFunc {
    return func(cpu *CPUState) bool {
        return cpu.PC == cpu.lastPC
    }
}

func StopAny(stops ...StopFunc) StopFunc {
    return func(cpu *CPUState) bool {
        for _, stop := range stops {
            if stop(cpu) {
                return true
            }
        }
        return false
    }
}

/* Step until quit is cancelled, stop returns true, or a step fails.
 * stop may be nil.
 */
func (cpu *CPUState) Run(quit context.Context, stop StopFunc) error {
    for {
        select {
            case <-quit.Done():
                return quit.Err()
            default:
        }

        _, err := cpu.Step()
        if err != nil {
            return err
        }

        if stop != nil && stop(cpu) {
            return nil
        }
    }
}
