package lib

import (
    "bytes"
)

/* bit positions of the status register, NV-BDIZC */
const (
    FlagCarry byte = 1 << 0
    FlagZero byte = 1 << 1
    FlagInterruptDisable byte = 1 << 2
    FlagDecimal byte = 1 << 3
    FlagBreak byte = 1 << 4
    FlagUnused byte = 1 << 5
    FlagOverflow byte = 1 << 6
    FlagNegative byte = 1 << 7
)

/* The unused bit has no field: it is always reported as set by Byte() */
type Flags struct {
    Negative bool `json:"n"`
    Overflow bool `json:"v"`
    Break bool `json:"b"`
    Decimal bool `json:"d"`
    InterruptDisable bool `json:"i"`
    Zero bool `json:"z"`
    Carry bool `json:"c"`
}

func FlagsFromByte(value byte) Flags {
    var flags Flags
    flags.SetByte(value)
    return flags
}

func (flags *Flags) SetByte(value byte) {
    flags.Negative = value & FlagNegative != 0
    flags.Overflow = value & FlagOverflow != 0
    flags.Break = value & FlagBreak != 0
    flags.Decimal = value & FlagDecimal != 0
    flags.InterruptDisable = value & FlagInterruptDisable != 0
    flags.Zero = value & FlagZero != 0
    flags.Carry = value & FlagCarry != 0
}

func (flags Flags) Byte() byte {
    out := FlagUnused
    if flags.Negative {
        out |= FlagNegative
    }
    if flags.Overflow {
        out |= FlagOverflow
    }
    if flags.Break {
        out |= FlagBreak
    }
    if flags.Decimal {
        out |= FlagDecimal
    }
    if flags.InterruptDisable {
        out |= FlagInterruptDisable
    }
    if flags.Zero {
        out |= FlagZero
    }
    if flags.Carry {
        out |= FlagCarry
    }
    return out
}

/* upper case for a set flag, lower case for a clear one */
func (flags Flags) String() string {
    var out bytes.Buffer
    show := func(set bool, name byte){
        if set {
            out.WriteByte(name)
        } else {
            out.WriteByte(name + ('a' - 'A'))
        }
    }
    show(flags.Negative, 'N')
    show(flags.Overflow, 'V')
    out.WriteByte('-')
    show(flags.Break, 'B')
    show(flags.Decimal, 'D')
    show(flags.InterruptDisable, 'I')
    show(flags.Zero, 'Z')
    show(flags.Carry, 'C')
    return out.String()
}

func (flags *Flags) UpdateZeroNegative(value byte) {
    flags.Zero = value == 0
    flags.Negative = int8(value) < 0
}

/* a + b + carry. Carry is set when the unsigned result does not fit in 8 bits,
 * overflow when both operands have the same sign and the result does not.
 * http://www.6502.org/tutorials/vflag.html
 */
func (flags *Flags) UpdateCarryOverflowAdd(a byte, b byte) byte {
    var carry uint16
    if flags.Carry {
        carry = 1
    }

    sum := uint16(a) + uint16(b) + carry
    result := byte(sum)

    flags.Carry = sum > 0xff
    flags.Overflow = (a ^ result) & (b ^ result) & 0x80 != 0
    return result
}

/* a - b - (1 - carry), which is the same as a + ^b + carry. Carry ends up
 * set when no borrow was needed.
 */
func (flags *Flags) UpdateCarryOverflowSubtract(a byte, b byte) byte {
    return flags.UpdateCarryOverflowAdd(a, ^b)
}
