package lib

import (
    "bytes"
    "context"
    "errors"
    "testing"
)

/* the brk handler used by the tests lives here, and is itself a brk */
const testBreakHandler uint16 = 0x0700

func setWord(memory *Memory, address uint16, value uint16){
    memory.Store(address, byte(value))
    memory.Store(address + 1, byte(value >> 8))
}

/* load the program at origin and point the reset vector at it */
func makeTestCPU(origin uint16, program []byte) (*CPUState, *Memory) {
    memory := NewMemory()
    memory.Copy(origin, program)
    setWord(memory, ResetVector, origin)
    setWord(memory, IRQVector, testBreakHandler)

    cpu := NewCPU(memory)
    cpu.Reset()
    return cpu, memory
}

/* step until a brk sets the interrupt flag */
func runUntilBreak(test *testing.T, cpu *CPUState, limit int){
    for i := 0; i < limit; i++ {
        _, err := cpu.Step()
        if err != nil {
            test.Fatalf("could not execute cpu: %v", err)
        }

        if cpu.Status.InterruptDisable {
            return
        }
    }

    test.Fatalf("cpu did not reach a brk after %v instructions: %v", limit, cpu.String())
}

func TestCPUSimple(test *testing.T){
    cpu, _ := makeTestCPU(0x5000, []byte{
        0xa9, 0x01,       // lda #$01
        0x8d, 0x00, 0x02, // sta $200
        0xa9, 0x05,       // lda #$05
        0x8d, 0x01, 0x02, // sta $201
        0xa9, 0x08,       // lda #$08
        0x8d, 0x02, 0x02, // sta $202
        0x00,             // brk
    })

    runUntilBreak(test, cpu, 10)

    if cpu.A != 0x8 {
        test.Fatalf("A register expected to be 0x8 but was 0x%x\n", cpu.A)
    }

    if cpu.X != 0x0 {
        test.Fatalf("X register expected to be 0x0 but was 0x%x\n", cpu.X)
    }

    if cpu.LastPC() != 0x500f {
        test.Fatalf("last PC expected to be 0x500f but was 0x%x\n", cpu.LastPC())
    }

    if cpu.PC != testBreakHandler {
        test.Fatalf("PC register expected to be 0x%x but was 0x%x\n", testBreakHandler, cpu.PC)
    }

    if cpu.LoadMemory(0x200) != 0x1 {
        test.Fatalf("expected memory location 0x200 to contain 0x1 but was 0x%x\n", cpu.LoadMemory(0x200))
    }

    if cpu.LoadMemory(0x201) != 0x5 {
        test.Fatalf("expected memory location 0x201 to contain 0x5 but was 0x%x\n", cpu.LoadMemory(0x201))
    }

    if cpu.LoadMemory(0x202) != 0x8 {
        test.Fatalf("expected memory location 0x202 to contain 0x8 but was 0x%x\n", cpu.LoadMemory(0x202))
    }
}

func TestCPUSimple2(test *testing.T){
    cpu, _ := makeTestCPU(0x5000, []byte{
        0xa9, 0xc0, // lda #$c0
        0xaa,       // tax
        0xe8,       // inx
        0x69, 0xc4, // adc #$c4
        0x00,       // brk
    })

    runUntilBreak(test, cpu, 10)

    if cpu.A != 0x84 {
        test.Fatalf("A register expected to be 0x84 but was 0x%x\n", cpu.A)
    }

    if cpu.X != 0xc1 {
        test.Fatalf("X register expected to be 0xc1 but was 0x%x\n", cpu.X)
    }

    if cpu.Y != 0x0 {
        test.Fatalf("Y register expected to be 0x0 but was 0x%x\n", cpu.Y)
    }

    if !cpu.Status.Carry {
        test.Fatalf("carry expected to be set after 0xc0 + 0xc4")
    }
}

func TestCPUSimpleBranch(test *testing.T){
    cpu, _ := makeTestCPU(0x5000, []byte{
        0xa2, 0x08,       // ldx #$08
        0xca,             // dex
        0x8e, 0x00, 0x02, // stx $200
        0xe0, 0x03,       // cpx #$03
        0xd0, 0xf8,       // bne -8
        0x8e, 0x01, 0x02, // stx $201
        0x00,             // brk
    })

    runUntilBreak(test, cpu, 50)

    if cpu.A != 0x0 {
        test.Fatalf("A register expected to be 0x0 but was 0x%x\n", cpu.A)
    }

    if cpu.X != 0x03 {
        test.Fatalf("X register expected to be 0x03 but was 0x%x\n", cpu.X)
    }

    if cpu.LoadMemory(0x200) != 0x3 {
        test.Fatalf("Expected memory location 0x200 to be 0x3 but was 0x%x\n", cpu.LoadMemory(0x200))
    }

    if cpu.LoadMemory(0x201) != 0x3 {
        test.Fatalf("Expected memory location 0x201 to be 0x3 but was 0x%x\n", cpu.LoadMemory(0x201))
    }
}

func TestInstructions1(test *testing.T){
    cpu, _ := makeTestCPU(0x5000, []byte{
        0xa9, 0x0c,       // lda #$0c
        0xa8,             // tay
        0x8c, 0x03, 0x02, // sty $203
        0x00,             // brk
    })

    runUntilBreak(test, cpu, 50)

    if cpu.LoadMemory(0x203) != 0x0c {
        test.Fatalf("Expected memory location 0x203 to be 0x0c but was 0x%x\n", cpu.LoadMemory(0x203))
    }
}

func TestInstructionsZeroPage(test *testing.T){
    cpu, _ := makeTestCPU(0x5000, []byte{
        0xa2, 0x01, // ldx #$01
        0xa9, 0xaa, // lda #$aa
        0x95, 0xa0, // sta $a0,x
        0xe8,       // inx
        0x95, 0xa0, // sta $a0,x
        0xa2, 0xff, // ldx #$ff
        0x95, 0x02, // sta $02,x wraps to $01
        0x00,       // brk
    })

    runUntilBreak(test, cpu, 50)

    if cpu.LoadMemory(0xa1) != 0xaa {
        test.Fatalf("Expected memory location 0xa1 to be 0xaa but was 0x%x\n", cpu.LoadMemory(0xa1))
    }

    if cpu.LoadMemory(0xa2) != 0xaa {
        test.Fatalf("Expected memory location 0xa2 to be 0xaa but was 0x%x\n", cpu.LoadMemory(0xa2))
    }

    if cpu.LoadMemory(0x01) != 0xaa {
        test.Fatalf("Expected memory location 0x01 to be 0xaa but was 0x%x\n", cpu.LoadMemory(0x01))
    }

    if cpu.LoadMemory(0x101) != 0x00 {
        test.Fatalf("zero page index must not leave page 0, 0x101 was 0x%x\n", cpu.LoadMemory(0x101))
    }
}

func TestInstructionsIndirectLoad(test *testing.T){
    cpu, _ := makeTestCPU(0x5000, []byte{
        0xa2, 0x01,       // ldx #$01
        0xa9, 0x05,       // lda #$05
        0x85, 0x01,       // sta $01
        0xa9, 0x07,       // lda #$07
        0x85, 0x02,       // sta $02
        0xa0, 0x0a,       // ldy #$0a
        0x8c, 0x05, 0x07, // sty $705
        0xa1, 0x00,       // lda ($00,x)
        0x00,             // brk
    })

    runUntilBreak(test, cpu, 50)

    if cpu.A != 0x0a {
        test.Fatalf("Expected A register to be 0x0a but was 0x%x\n", cpu.A)
    }
}

func TestStack(test *testing.T){
    /* store values 0x0 - 0xf into memory locations
     * 0x200 - 0x20f, then 0xf - 0x0 into 0x210 - 0x21f
     * first push the values onto the stack then pop them
     * off again.
     */
    cpu, _ := makeTestCPU(0x5000, []byte{
        0xa2, 0x00,       // ldx #$00
        0xa0, 0x00,       // ldy #$00
        0x8a,             // txa
        0x99, 0x00, 0x02, // sta $0200,y
        0x48,             // pha
        0xe8,             // inx
        0xc8,             // iny
        0xc0, 0x10,       // cpy #$10
        0xd0, 0xf5,       // bne
        0x68,             // pla
        0x99, 0x00, 0x02, // sta $0200,y
        0xc8,             // iny
        0xc0, 0x20,       // cpy #$20
        0xd0, 0xf7,       // bne
        0x00,             // brk
    })

    runUntilBreak(test, cpu, 200)

    if cpu.A != 0x0 {
        test.Fatalf("Expected A register to be 0x0 but was 0x%x\n", cpu.A)
    }

    if cpu.X != 0x10 {
        test.Fatalf("Expected X register to be 0x10 but was 0x%x\n", cpu.X)
    }

    if cpu.Y != 0x20 {
        test.Fatalf("Expected Y register to be 0x20 but was 0x%x\n", cpu.Y)
    }

    for i := 0; i <= 0xf; i++ {
        address := uint16(0x200 + i)
        if cpu.LoadMemory(address) != byte(i) {
            test.Fatalf("Expected memory location 0x%x to be 0x%x but was 0x%x\n", address, i, cpu.LoadMemory(address))
        }
    }

    for i := 0xf; i >= 0; i-- {
        address := uint16(0x21f - i)
        if cpu.LoadMemory(address) != byte(i) {
            test.Fatalf("Expected memory location 0x%x to be 0x%x but was 0x%x\n", address, i, cpu.LoadMemory(address))
        }
    }
}

func TestStackWrap(test *testing.T){
    cpu, memory := makeTestCPU(0x0400, nil)

    cpu.SP = 0x00
    cpu.PushStack(0x12)
    if cpu.SP != 0xff {
        test.Fatalf("expected SP to wrap to 0xff but was 0x%x", cpu.SP)
    }
    if memory.Load(0x100) != 0x12 {
        test.Fatalf("expected 0x12 at 0x100 but was 0x%x", memory.Load(0x100))
    }

    value := cpu.PopStack()
    if cpu.SP != 0x00 || value != 0x12 {
        test.Fatalf("expected pop of 0x12 with SP 0x0 but got 0x%x with SP 0x%x", value, cpu.SP)
    }

    cpu.SP = 0xff
    cpu.PushWord(0xbeef)
    if memory.Load(0x1ff) != 0xbe || memory.Load(0x1fe) != 0xef {
        test.Fatalf("expected high byte pushed first, got 0x%x 0x%x", memory.Load(0x1ff), memory.Load(0x1fe))
    }
    if cpu.PopWord() != 0xbeef || cpu.SP != 0xff {
        test.Fatalf("pop word did not undo push word, SP 0x%x", cpu.SP)
    }
}

func TestSubroutine(test *testing.T){
    cpu, memory := makeTestCPU(0x5000, []byte{
        0x20, 0x08, 0x50, // jsr $5008
        0xa0, 0x10,       // ldy #$10
        0x4c, 0x0c, 0x50, // jmp $500c
        0xa2, 0x03,       // ldx #$03
        0xe8,             // inx
        0x60,             // rts
        0x00,             // brk
    })

    cycles, err := cpu.Step()
    if err != nil {
        test.Fatalf("could not execute jsr: %v", err)
    }

    if cycles != 6 {
        test.Fatalf("expected jsr to take 6 cycles but took %v", cycles)
    }

    /* the return address minus one */
    if memory.Load(0x1ff) != 0x50 || memory.Load(0x1fe) != 0x02 || cpu.SP != 0xfd {
        test.Fatalf("unexpected stack after jsr: 0x%x 0x%x SP 0x%x", memory.Load(0x1ff), memory.Load(0x1fe), cpu.SP)
    }

    runUntilBreak(test, cpu, 200)

    if cpu.A != 0x0 {
        test.Fatalf("Expected A register to be 0x0 but was 0x%x\n", cpu.A)
    }

    if cpu.X != 0x4 {
        test.Fatalf("Expected X register to be 0x4 but was 0x%x\n", cpu.X)
    }

    if cpu.Y != 0x10 {
        test.Fatalf("Expected Y register to be 0x10 but was 0x%x\n", cpu.Y)
    }
}

func TestBit(test *testing.T){
    /* 3&1 = 1, so dont set the zero flag */
    cpu, _ := makeTestCPU(0x5000, []byte{
        0xa9, 0x03, // lda #$03
        0x85, 0x10, // sta $10
        0xa9, 0x01, // lda #$01
        0x24, 0x10, // bit $10
        0x00,       // brk
    })

    runUntilBreak(test, cpu, 200)

    if cpu.A != 0x1 {
        test.Fatalf("Expected A register to be 0x1 but was 0x%x\n", cpu.A)
    }

    if cpu.Status.Zero {
        test.Fatalf("Expected zero flag to be false but was %v\n", cpu.Status.Zero)
    }

    /* make sure zero flag gets set becuase 4&3=0 */
    cpu, _ = makeTestCPU(0x5000, []byte{
        0xa9, 0x03, // lda #$03
        0x85, 0x10, // sta $10
        0xa9, 0x04, // lda #$04
        0x24, 0x10, // bit $10
        0x00,       // brk
    })

    runUntilBreak(test, cpu, 200)

    if !cpu.Status.Zero {
        test.Fatalf("Expected zero flag to be true but was %v\n", cpu.Status.Zero)
    }

    if cpu.Status.Negative {
        test.Fatalf("Expected negative flag to be false but was %v\n", cpu.Status.Negative)
    }

    if cpu.Status.Overflow {
        test.Fatalf("Expected overflow flag to be false but was %v\n", cpu.Status.Overflow)
    }

    /* N and V come from bits 7 and 6 of memory */
    cpu, _ = makeTestCPU(0x5000, []byte{
        0xa9, 0xc0, // lda #$c0
        0x85, 0x10, // sta $10
        0xa9, 0x04, // lda #$04
        0x24, 0x10, // bit $10
        0x00,       // brk
    })

    runUntilBreak(test, cpu, 200)

    if cpu.A != 0x4 {
        test.Fatalf("Expected A register to be 0x4 but was 0x%x\n", cpu.A)
    }

    if !cpu.Status.Zero {
        test.Fatalf("Expected zero flag to be true but was %v\n", cpu.Status.Zero)
    }

    if !cpu.Status.Negative {
        test.Fatalf("Expected negative flag to be true but was %v\n", cpu.Status.Negative)
    }

    if !cpu.Status.Overflow {
        test.Fatalf("Expected overflow flag to be true but was %v\n", cpu.Status.Overflow)
    }
}

func TestReset(test *testing.T){
    memory := NewMemory()
    memory.Store(0xfffc, 0x00)
    memory.Store(0xfffd, 0x04)

    cpu := NewCPU(memory)
    cpu.SP = 0x12
    cpu.PC = 0x9999
    cpu.Reset()

    if cpu.PC != 0x0400 {
        test.Fatalf("expected PC 0x400 after reset but was 0x%x", cpu.PC)
    }

    if cpu.SP != 0xff {
        test.Fatalf("expected SP 0xff after reset but was 0x%x", cpu.SP)
    }

    if cpu.Status.Byte() & FlagUnused == 0 {
        test.Fatalf("unused flag must always read as set, status 0x%x", cpu.Status.Byte())
    }

    if cpu.Cycle != InterruptCycles {
        test.Fatalf("expected reset to take %v cycles but took %v", InterruptCycles, cpu.Cycle)
    }
}

func TestBreak(test *testing.T){
    cpu, memory := makeTestCPU(0x0400, []byte{
        0x00, // brk
        0xff, // padding byte, skipped
    })
    setWord(memory, IRQVector, 0x0500)
    cpu.Status.Carry = true

    cycles, err := cpu.Step()
    if err != nil {
        test.Fatalf("could not execute brk: %v", err)
    }

    if cycles != 7 {
        test.Fatalf("expected brk to take 7 cycles but took %v", cycles)
    }

    if cpu.PC != 0x0500 {
        test.Fatalf("expected PC 0x500 but was 0x%x", cpu.PC)
    }

    if cpu.SP != 0xfc {
        test.Fatalf("expected SP 0xfc but was 0x%x", cpu.SP)
    }

    if memory.Load(0x1ff) != 0x04 || memory.Load(0x1fe) != 0x02 {
        test.Fatalf("expected return address 0x0402 on the stack but found 0x%02x%02x", memory.Load(0x1ff), memory.Load(0x1fe))
    }

    /* carry, unused and break */
    if memory.Load(0x1fd) != 0x31 {
        test.Fatalf("expected pushed status 0x31 but was 0x%x", memory.Load(0x1fd))
    }

    if !cpu.Status.InterruptDisable {
        test.Fatalf("expected interrupt disable to be set after brk")
    }

    if cpu.Status.Break {
        test.Fatalf("brk must only set B in the pushed copy")
    }
}

func TestBreakReturn(test *testing.T){
    cpu, memory := makeTestCPU(0x0400, []byte{
        0x00, // brk
        0xff, // padding
        0xe8, // inx
    })
    setWord(memory, IRQVector, 0x0500)
    memory.Store(0x0500, 0x40) // rti

    for i := 0; i < 3; i++ {
        _, err := cpu.Step()
        if err != nil {
            test.Fatalf("could not execute cpu: %v", err)
        }
    }

    if cpu.X != 1 {
        test.Fatalf("expected rti to return past the padding byte, X was 0x%x", cpu.X)
    }

    if cpu.PC != 0x0403 || cpu.SP != 0xff {
        test.Fatalf("expected PC 0x403 SP 0xff but was PC 0x%x SP 0x%x", cpu.PC, cpu.SP)
    }

    if cpu.Status.InterruptDisable {
        test.Fatalf("rti should restore the interrupt flag")
    }
}

func TestNop(test *testing.T){
    cpu, _ := makeTestCPU(0x0400, []byte{0xea})
    cpu.A = 0x12
    cpu.X = 0x34
    cpu.Y = 0x56
    cpu.Status.Carry = true
    before := cpu.Copy()

    cycles, err := cpu.Step()
    if err != nil {
        test.Fatalf("could not execute nop: %v", err)
    }

    if cycles != 2 {
        test.Fatalf("expected nop to take 2 cycles but took %v", cycles)
    }

    before.PC += 1
    before.Cycle += 2
    if !cpu.Equals(before) {
        test.Fatalf("nop changed more than PC: %v vs %v", cpu.String(), before.String())
    }
}

func TestPushPull(test *testing.T){
    cpu, _ := makeTestCPU(0x0400, []byte{
        0xa9, 0x80, // lda #$80
        0x48,       // pha
        0xa9, 0x00, // lda #$00
        0x68,       // pla
    })

    for i := 0; i < 4; i++ {
        _, err := cpu.Step()
        if err != nil {
            test.Fatalf("could not execute cpu: %v", err)
        }
    }

    if cpu.A != 0x80 || cpu.SP != 0xff {
        test.Fatalf("expected A 0x80 SP 0xff but was A 0x%x SP 0x%x", cpu.A, cpu.SP)
    }

    if !cpu.Status.Negative || cpu.Status.Zero {
        test.Fatalf("pla should set N from the pulled value, flags %v", cpu.Status.String())
    }
}

func TestPushPullStatus(test *testing.T){
    cpu, memory := makeTestCPU(0x0400, []byte{
        0x38, // sec
        0xf8, // sed
        0x08, // php
        0x18, // clc
        0xd8, // cld
        0x28, // plp
    })

    for i := 0; i < 3; i++ {
        _, err := cpu.Step()
        if err != nil {
            test.Fatalf("could not execute cpu: %v", err)
        }
    }

    /* decimal, carry, unused and break */
    if memory.Load(0x1ff) != 0x39 {
        test.Fatalf("expected php to push 0x39 but pushed 0x%x", memory.Load(0x1ff))
    }

    for i := 0; i < 3; i++ {
        _, err := cpu.Step()
        if err != nil {
            test.Fatalf("could not execute cpu: %v", err)
        }
    }

    if !cpu.Status.Carry || !cpu.Status.Decimal {
        test.Fatalf("plp did not restore carry and decimal: %v", cpu.Status.String())
    }

    if cpu.SP != 0xff {
        test.Fatalf("expected SP 0xff but was 0x%x", cpu.SP)
    }
}

func TestTransfers(test *testing.T){
    cpu, _ := makeTestCPU(0x0400, []byte{
        0xa2, 0x00, // ldx #$00
        0x9a,       // txs
        0xba,       // tsx
    })

    cpu.Step()
    cpu.Status.Zero = false
    cpu.Step()

    if cpu.SP != 0 {
        test.Fatalf("expected SP 0x0 but was 0x%x", cpu.SP)
    }

    if cpu.Status.Zero {
        test.Fatalf("txs must not change the flags")
    }

    cpu.Step()
    if !cpu.Status.Zero {
        test.Fatalf("tsx should set the zero flag")
    }
}

func TestBranchCycles(test *testing.T){
    cpu, memory := makeTestCPU(0x0400, []byte{
        0xd0, 0x02, // bne +2
    })

    /* taken, same page */
    cycles, _ := cpu.Step()
    if cycles != 3 || cpu.PC != 0x0404 {
        test.Fatalf("expected 3 cycles and PC 0x404 but got %v cycles and PC 0x%x", cycles, cpu.PC)
    }

    /* not taken */
    cpu.PC = 0x0400
    cpu.Status.Zero = true
    cycles, _ = cpu.Step()
    if cycles != 2 || cpu.PC != 0x0402 {
        test.Fatalf("expected 2 cycles and PC 0x402 but got %v cycles and PC 0x%x", cycles, cpu.PC)
    }

    /* taken, backwards into the previous page */
    memory.Copy(0x0400, []byte{0xf0, 0xf0}) // beq -16
    cpu.PC = 0x0400
    cycles, _ = cpu.Step()
    if cycles != 4 || cpu.PC != 0x03f2 {
        test.Fatalf("expected 4 cycles and PC 0x3f2 but got %v cycles and PC 0x%x", cycles, cpu.PC)
    }

    /* taken, forward into the next page */
    memory.Copy(0x04f0, []byte{0xf0, 0x10}) // beq +16
    cpu.PC = 0x04f0
    cycles, _ = cpu.Step()
    if cycles != 4 || cpu.PC != 0x0502 {
        test.Fatalf("expected 4 cycles and PC 0x502 but got %v cycles and PC 0x%x", cycles, cpu.PC)
    }
}

func TestPageCrossCycles(test *testing.T){
    cpu, memory := makeTestCPU(0x0400, []byte{
        0xbd, 0xff, 0x04, // lda $04ff,x
        0x9d, 0xff, 0x04, // sta $04ff,x
    })
    memory.Store(0x04ff, 0x11)
    memory.Store(0x0500, 0x22)

    cycles, _ := cpu.Step()
    if cycles != 4 || cpu.A != 0x11 {
        test.Fatalf("expected 4 cycles and A 0x11 but got %v cycles and A 0x%x", cycles, cpu.A)
    }

    cpu.PC = 0x0400
    cpu.X = 1
    cycles, _ = cpu.Step()
    if cycles != 5 || cpu.A != 0x22 {
        test.Fatalf("expected 5 cycles and A 0x22 but got %v cycles and A 0x%x", cycles, cpu.A)
    }

    /* stores always pay for the cross */
    cycles, _ = cpu.Step()
    if cycles != 5 {
        test.Fatalf("expected sta abs,x to take 5 cycles but took %v", cycles)
    }
}

func TestAdcSbcFlags(test *testing.T){
    type arithmetic struct {
        Opcode byte
        A byte
        Value byte
        Carry bool
        Result byte
        CarryOut bool
        Overflow bool
        Negative bool
    }

    tests := []arithmetic{
        {Opcode: 0x69, A: 0x50, Value: 0x10, Result: 0x60},
        {Opcode: 0x69, A: 0x50, Value: 0x50, Result: 0xa0, Overflow: true, Negative: true},
        {Opcode: 0x69, A: 0xd0, Value: 0x90, Result: 0x60, CarryOut: true, Overflow: true},
        {Opcode: 0x69, A: 0xff, Value: 0x00, Carry: true, Result: 0x00, CarryOut: true},
        {Opcode: 0xe9, A: 0x50, Value: 0xf0, Carry: true, Result: 0x60},
        {Opcode: 0xe9, A: 0x50, Value: 0xb0, Carry: true, Result: 0xa0, Overflow: true, Negative: true},
        {Opcode: 0xe9, A: 0xd0, Value: 0x70, Carry: true, Result: 0x60, CarryOut: true, Overflow: true},
        {Opcode: 0xe9, A: 0x05, Value: 0x05, Carry: false, Result: 0xff, Negative: true},
        /* undocumented copy of sbc immediate */
        {Opcode: 0xeb, A: 0x10, Value: 0x01, Carry: true, Result: 0x0f, CarryOut: true},
    }

    for _, check := range tests {
        cpu, _ := makeTestCPU(0x0400, []byte{check.Opcode, check.Value})
        cpu.A = check.A
        cpu.Status.Carry = check.Carry

        _, err := cpu.Step()
        if err != nil {
            test.Fatalf("could not execute 0x%x: %v", check.Opcode, err)
        }

        if cpu.A != check.Result || cpu.Status.Carry != check.CarryOut || cpu.Status.Overflow != check.Overflow || cpu.Status.Negative != check.Negative {
            test.Fatalf("0x%x with A 0x%x value 0x%x: expected 0x%x C=%v V=%v N=%v but got 0x%x %v", check.Opcode, check.A, check.Value, check.Result, check.CarryOut, check.Overflow, check.Negative, cpu.A, cpu.Status.String())
        }
    }
}

func TestDecimal(test *testing.T){
    type bcd struct {
        Opcode byte
        A byte
        Value byte
        Carry bool
        Result byte
        CarryOut bool
    }

    tests := []bcd{
        {Opcode: 0x69, A: 0x09, Value: 0x01, Result: 0x10},
        {Opcode: 0x69, A: 0x25, Value: 0x48, Result: 0x73},
        {Opcode: 0x69, A: 0x99, Value: 0x01, Result: 0x00, CarryOut: true},
        {Opcode: 0x69, A: 0x58, Value: 0x46, Carry: true, Result: 0x05, CarryOut: true},
        {Opcode: 0xe9, A: 0x10, Value: 0x01, Carry: true, Result: 0x09, CarryOut: true},
        {Opcode: 0xe9, A: 0x46, Value: 0x12, Carry: true, Result: 0x34, CarryOut: true},
        {Opcode: 0xe9, A: 0x00, Value: 0x01, Carry: true, Result: 0x99},
        {Opcode: 0xe9, A: 0x40, Value: 0x13, Carry: false, Result: 0x26, CarryOut: true},
    }

    for _, check := range tests {
        cpu, _ := makeTestCPU(0x0400, []byte{check.Opcode, check.Value})
        cpu.A = check.A
        cpu.Status.Carry = check.Carry
        cpu.Status.Decimal = true

        _, err := cpu.Step()
        if err != nil {
            test.Fatalf("could not execute 0x%x: %v", check.Opcode, err)
        }

        if cpu.A != check.Result || cpu.Status.Carry != check.CarryOut {
            test.Fatalf("decimal 0x%x with A 0x%x value 0x%x: expected 0x%x C=%v but got 0x%x C=%v", check.Opcode, check.A, check.Value, check.Result, check.CarryOut, cpu.A, cpu.Status.Carry)
        }
    }
}

func TestCompare(test *testing.T){
    cpu, _ := makeTestCPU(0x0400, []byte{
        0xc9, 0x40, // cmp #$40
        0xc9, 0x41, // cmp #$41
        0xc9, 0x3f, // cmp #$3f
    })
    cpu.A = 0x40

    cpu.Step()
    if !cpu.Status.Zero || !cpu.Status.Carry || cpu.Status.Negative {
        test.Fatalf("equal compare: %v", cpu.Status.String())
    }

    cpu.Step()
    if cpu.Status.Zero || cpu.Status.Carry || !cpu.Status.Negative {
        test.Fatalf("less than compare: %v", cpu.Status.String())
    }

    cpu.Step()
    if cpu.Status.Zero || !cpu.Status.Carry || cpu.Status.Negative {
        test.Fatalf("greater than compare: %v", cpu.Status.String())
    }

    if cpu.A != 0x40 {
        test.Fatalf("compare must not change A, was 0x%x", cpu.A)
    }
}

func TestShifts(test *testing.T){
    cpu, memory := makeTestCPU(0x0400, []byte{
        0x0a,       // asl a
        0x2a,       // rol a
        0x66, 0x10, // ror $10
        0x46, 0x10, // lsr $10
    })
    cpu.A = 0x81
    memory.Store(0x10, 0x01)

    cpu.Step()
    if cpu.A != 0x02 || !cpu.Status.Carry {
        test.Fatalf("asl: expected 0x2 with carry but got 0x%x %v", cpu.A, cpu.Status.String())
    }

    cpu.Step()
    if cpu.A != 0x05 || cpu.Status.Carry {
        test.Fatalf("rol: expected 0x5 without carry but got 0x%x %v", cpu.A, cpu.Status.String())
    }

    cpu.Step()
    if memory.Load(0x10) != 0x00 || !cpu.Status.Carry || !cpu.Status.Zero {
        test.Fatalf("ror: expected 0x0 with carry but got 0x%x %v", memory.Load(0x10), cpu.Status.String())
    }

    memory.Store(0x10, 0x80)
    cpu.Step()
    if memory.Load(0x10) != 0x40 || cpu.Status.Carry {
        test.Fatalf("lsr: expected 0x40 without carry but got 0x%x %v", memory.Load(0x10), cpu.Status.String())
    }
}

func TestJumpIndirect(test *testing.T){
    cpu, memory := makeTestCPU(0x0400, []byte{
        0x6c, 0xff, 0x30, // jmp ($30ff)
    })
    memory.Store(0x30ff, 0x80)
    memory.Store(0x3000, 0x50)
    memory.Store(0x3100, 0x40)

    cycles, _ := cpu.Step()
    if cpu.PC != 0x5080 {
        test.Fatalf("expected jmp ($30ff) to read its high byte from 0x3000, PC was 0x%x", cpu.PC)
    }
    if cycles != 5 {
        test.Fatalf("expected 5 cycles but took %v", cycles)
    }
}

func TestIRQ(test *testing.T){
    cpu, memory := makeTestCPU(0x0400, []byte{
        0xea, // nop
        0x58, // cli
        0xea, // nop
    })
    setWord(memory, IRQVector, 0x0500)
    memory.Store(0x0500, 0xea) // nop

    cpu.Status.InterruptDisable = true
    cpu.SetIRQ(true)

    cpu.Step()
    if cpu.PC != 0x0401 {
        test.Fatalf("irq should be masked, PC was 0x%x", cpu.PC)
    }

    cpu.Step()
    if cpu.PC != 0x0402 {
        test.Fatalf("expected cli to run, PC was 0x%x", cpu.PC)
    }

    cycles, err := cpu.Step()
    if err != nil {
        test.Fatalf("could not service irq: %v", err)
    }

    if cycles != InterruptCycles || cpu.PC != 0x0500 {
        test.Fatalf("expected irq service to 0x500 in 7 cycles, got PC 0x%x in %v", cpu.PC, cycles)
    }

    if memory.Load(0x1ff) != 0x04 || memory.Load(0x1fe) != 0x02 {
        test.Fatalf("expected 0x0402 on the stack but found 0x%02x%02x", memory.Load(0x1ff), memory.Load(0x1fe))
    }

    /* B clear, U set */
    if memory.Load(0x1fd) != 0x20 {
        test.Fatalf("expected pushed status 0x20 but was 0x%x", memory.Load(0x1fd))
    }

    if !cpu.Status.InterruptDisable {
        test.Fatalf("expected irq to set the interrupt flag")
    }

    /* still asserted, but now masked */
    cpu.Step()
    if cpu.PC != 0x0501 {
        test.Fatalf("expected the handler to run, PC was 0x%x", cpu.PC)
    }
}

func TestNMI(test *testing.T){
    cpu, memory := makeTestCPU(0x0400, []byte{0xea})
    setWord(memory, NMIVector, 0x0600)
    memory.Store(0x0600, 0xe8) // inx
    cpu.Status.InterruptDisable = true

    cpu.TriggerNMI()
    cycles, _ := cpu.Step()
    if cycles != InterruptCycles || cpu.PC != 0x0600 {
        test.Fatalf("expected nmi service to 0x600 in 7 cycles, got PC 0x%x in %v", cpu.PC, cycles)
    }

    /* an edge is serviced once */
    cpu.Step()
    if cpu.X != 1 || cpu.PC != 0x0601 {
        test.Fatalf("expected the nmi handler to run once, X 0x%x PC 0x%x", cpu.X, cpu.PC)
    }
}

func TestIllegalPolicy(test *testing.T){
    cpu, memory := makeTestCPU(0x0400, []byte{
        0xa7, 0x10, // lax $10
        0x8b, 0x12, // xaa #$12
        0x02,       // kil
    })
    memory.Store(0x10, 0x42)

    cpu.Policy = PolicyStrict
    cycles, err := cpu.Step()
    var illegal *IllegalOpcodeError
    if !errors.As(err, &illegal) || !errors.Is(err, ErrIllegalOpcode) {
        test.Fatalf("strict policy should report lax, got %v", err)
    }
    if illegal.Opcode != 0xa7 || illegal.PC != 0x0400 || illegal.Class != ClassUndocumented {
        test.Fatalf("unexpected report %v", illegal)
    }
    if cycles != 0 || cpu.PC != 0x0400 {
        test.Fatalf("a reported opcode must not change state, PC 0x%x cycles %v", cpu.PC, cycles)
    }

    cpu.Policy = PolicyExecute
    cycles, err = cpu.Step()
    if err != nil {
        test.Fatalf("execute policy should run lax: %v", err)
    }
    if cpu.A != 0x42 || cpu.X != 0x42 || cycles != 3 {
        test.Fatalf("lax: expected A and X 0x42 in 3 cycles, got A 0x%x X 0x%x in %v", cpu.A, cpu.X, cycles)
    }

    _, err = cpu.Step()
    if !errors.Is(err, ErrIllegalOpcode) || errors.Is(err, ErrJam) {
        test.Fatalf("execute policy should report unstable xaa, got %v", err)
    }

    cpu.Policy = PolicyIgnore
    cycles, err = cpu.Step()
    if err != nil {
        test.Fatalf("ignore policy should skip xaa: %v", err)
    }
    if cpu.PC != 0x0404 || cpu.A != 0x42 || cycles != 2 {
        test.Fatalf("xaa should be a two byte nop, PC 0x%x A 0x%x cycles %v", cpu.PC, cpu.A, cycles)
    }

    _, err = cpu.Step()
    if !errors.Is(err, ErrJam) {
        test.Fatalf("kil should always be reported as a jam, got %v", err)
    }
    if cpu.PC != 0x0404 {
        test.Fatalf("kil must not move PC, was 0x%x", cpu.PC)
    }
}

func TestUndocumented(test *testing.T){
    cpu, memory := makeTestCPU(0x0400, []byte{
        0x07, 0x10, // slo $10
        0x87, 0x11, // sax $11
        0xc7, 0x12, // dcp $12
        0xe7, 0x13, // isc $13
        0xcb, 0x01, // axs #$01
    })
    memory.Store(0x10, 0x81)
    memory.Store(0x12, 0x06)
    memory.Store(0x13, 0x01)
    cpu.A = 0x01
    cpu.X = 0x0f

    cpu.Step()
    if memory.Load(0x10) != 0x02 || cpu.A != 0x03 || !cpu.Status.Carry {
        test.Fatalf("slo: memory 0x%x A 0x%x %v", memory.Load(0x10), cpu.A, cpu.Status.String())
    }

    cpu.Step()
    if memory.Load(0x11) != 0x03 {
        test.Fatalf("sax: expected 0x3 but was 0x%x", memory.Load(0x11))
    }

    cpu.A = 0x05
    cpu.Step()
    if memory.Load(0x12) != 0x05 || !cpu.Status.Zero || !cpu.Status.Carry {
        test.Fatalf("dcp: memory 0x%x %v", memory.Load(0x12), cpu.Status.String())
    }

    /* 5 - 2 with carry set */
    cpu.Step()
    if memory.Load(0x13) != 0x02 || cpu.A != 0x03 {
        test.Fatalf("isc: memory 0x%x A 0x%x", memory.Load(0x13), cpu.A)
    }

    /* (3 & 0xf) - 1 */
    cpu.Step()
    if cpu.X != 0x02 || !cpu.Status.Carry {
        test.Fatalf("axs: X 0x%x %v", cpu.X, cpu.Status.String())
    }
}

func TestRunStops(test *testing.T){
    cpu, _ := makeTestCPU(0x0400, []byte{
        0xe8,             // inx
        0xd0, 0xfd,       // bne -3
        0x4c, 0x03, 0x04, // jmp *
    })

    err := cpu.Run(context.Background(), StopOnTrap())
    if err != nil {
        test.Fatalf("run failed: %v", err)
    }

    if cpu.X != 0 || cpu.PC != 0x0403 {
        test.Fatalf("expected to stop on the trap with X 0, got X 0x%x PC 0x%x", cpu.X, cpu.PC)
    }

    cpu.Reset()
    start := cpu.Cycle
    err = cpu.Run(context.Background(), StopAtCycle(start + 20))
    if err != nil {
        test.Fatalf("run failed: %v", err)
    }
    if cpu.Cycle < start + 20 || cpu.Cycle > start + 23 {
        test.Fatalf("expected to stop near cycle %v but was %v", start + 20, cpu.Cycle)
    }

    quit, cancel := context.WithCancel(context.Background())
    cancel()
    err = cpu.Run(quit, nil)
    if !errors.Is(err, context.Canceled) {
        test.Fatalf("expected a cancelled run, got %v", err)
    }
}

type recordTracer struct {
    Names []string
}

func (tracer *recordTracer) Trace(cpu *CPUState, instruction Instruction){
    tracer.Names = append(tracer.Names, instruction.Format(cpu.PC))
}

func TestTracer(test *testing.T){
    cpu, _ := makeTestCPU(0x0400, []byte{
        0xa9, 0x01, // lda #$01
        0xd0, 0xfe, // bne *
    })

    tracer := &recordTracer{}
    cpu.Tracer = tracer
    cpu.Step()
    cpu.Step()

    if len(tracer.Names) != 2 || tracer.Names[0] != "LDA #$01" || tracer.Names[1] != "BNE $0402" {
        test.Fatalf("unexpected trace %v", tracer.Names)
    }
}

func TestSerialize(test *testing.T){
    cpu, _ := makeTestCPU(0x0400, nil)
    cpu.A = 0x12
    cpu.Status.Carry = true

    var out bytes.Buffer
    err := cpu.Serialize(&out)
    if err != nil {
        test.Fatalf("could not serialize: %v", err)
    }

    if !bytes.Contains(out.Bytes(), []byte(`"a": 18`)) || !bytes.Contains(out.Bytes(), []byte(`"c": true`)) {
        test.Fatalf("unexpected json %v", out.String())
    }

    other := NewCPU(cpu.Bus)
    other.Load(cpu)
    if !other.Equals(*cpu) {
        test.Fatalf("load did not copy the registers: %v vs %v", other.String(), cpu.String())
    }
}

func BenchmarkSimple(benchmark *testing.B){
    cpu, _ := makeTestCPU(0x600, []byte{
        0xa2, 0x02,       // ldx #$02
        0x8a,             // txa
        0x85, 0x10,       // sta $10
        0xe8,             // inx
        0x4c, 0x00, 0x06, // jmp $600
    })

    benchmark.ResetTimer()
    for i := 0; i < benchmark.N; i++ {
        _, err := cpu.Step()
        if err != nil {
            benchmark.Fatalf("could not run cpu: %v", err)
        }
    }
}
