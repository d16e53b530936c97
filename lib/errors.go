package lib

import (
    "errors"
    "fmt"
)

var ErrIllegalOpcode = errors.New("illegal opcode")
var ErrJam = errors.New("cpu jammed")

/* how Step treats opcodes that are not ClassOfficial */
type IllegalPolicy int

const (
    /* run undocumented opcodes, report unstable and jam opcodes */
    PolicyExecute IllegalPolicy = iota
    /* report everything that is not official */
    PolicyStrict
    /* run undocumented opcodes, skip unstable ones as a nop of the same
     * length, report jam opcodes
     */
    PolicyIgnore
)

func (policy IllegalPolicy) String() string {
    switch policy {
        case PolicyExecute: return "execute"
        case PolicyStrict: return "strict"
        case PolicyIgnore: return "ignore"
    }
    return "unknown"
}

func ParseIllegalPolicy(name string) (IllegalPolicy, error) {
    switch name {
        case "", "execute": return PolicyExecute, nil
        case "strict": return PolicyStrict, nil
        case "ignore": return PolicyIgnore, nil
    }
    return PolicyExecute, fmt.Errorf("unknown illegal opcode policy '%v', expected one of execute, strict, ignore", name)
}

type IllegalOpcodeError struct {
    Opcode byte
    PC uint16
    Name string
    Class OpcodeClass
}

func (err *IllegalOpcodeError) Error() string {
    return fmt.Sprintf("%v opcode 0x%02x (%v) at PC 0x%04x", err.Class, err.Opcode, err.Name, err.PC)
}

func (err *IllegalOpcodeError) Unwrap() []error {
    if err.Class == ClassJam {
        return []error{ErrIllegalOpcode, ErrJam}
    }
    return []error{ErrIllegalOpcode}
}

/* decide what to do with an opcode. ok is false if the opcode must be reported,
 * and skip is true if it should be treated as a nop.
 */
func (policy IllegalPolicy) allows(class OpcodeClass) (ok bool, skip bool) {
    switch class {
        case ClassOfficial:
            return true, false
        case ClassUndocumented:
            return policy != PolicyStrict, false
        case ClassUnstable:
            if policy == PolicyIgnore {
                return true, true
            }
            return false, false
    }
    return false, false
}
