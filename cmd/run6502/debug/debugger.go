package debug

import (
    "context"
    "log"

    cpu6502 "github.com/kazzmir/cpu6502/lib"
)

type DebugCommand interface {
    Name() string
}

type DebugCommandSimple struct {
    name string
}

func (command *DebugCommandSimple) Name() string {
    return command.name
}

func makeCommand(name string) DebugCommand {
    return &DebugCommandSimple{name: name}
}

var DebugCommandStep DebugCommand = makeCommand("step")
var DebugCommandContinue DebugCommand = makeCommand("continue")
var DebugCommandPause DebugCommand = makeCommand("pause")
var DebugCommandQuit DebugCommand = makeCommand("quit")

/* add a breakpoint at PC, or remove the one that is already there */
type DebugCommandBreakpoint struct {
    PC uint16
}

func (command *DebugCommandBreakpoint) Name() string {
    return "breakpoint"
}

// break when the cpu's PC is at a specific value
// TODO: add conditional breakpoints, and break upon
// reading/writing specific memory addresses
type Breakpoint struct {
    PC uint16
    Id uint64
}

func (breakpoint *Breakpoint) Hit(cpu *cpu6502.CPUState) bool {
    return breakpoint.PC == cpu.PC
}

/* what the debugger shows whenever the cpu stops */
type Snapshot struct {
    CPU cpu6502.CPUState
    Stopped bool
    Breakpoints []uint16
    /* disassembly starting at PC */
    Code []string
    /* $0100-$01FF */
    Stack []byte
}

/* Called from the cpu goroutine before each instruction. Returns false when
 * the cpu should stop running for good.
 */
type Debugger interface {
    Handle(quit context.Context, cpu *cpu6502.CPUState) bool
}

type DefaultDebugger struct {
    Commands chan DebugCommand
    Stopped bool
    Breakpoints []Breakpoint
    BreakpointId uint64
    /* receives a snapshot each time the cpu stops */
    Listener func(Snapshot)
}

func (debugger *DefaultDebugger) IsStopped() bool {
    return debugger.Stopped
}

func (debugger *DefaultDebugger) ContinueUntilBreak(){
    debugger.Stopped = false
}

func (debugger *DefaultDebugger) AddPCBreakpoint(pc uint16){
    debugger.Breakpoints = append(debugger.Breakpoints, Breakpoint{
        PC: pc,
        Id: debugger.BreakpointId,
    })
    debugger.BreakpointId += 1
}

func (debugger *DefaultDebugger) RemoveBreakpoint(id uint64){
    var out []Breakpoint
    for _, breakpoint := range debugger.Breakpoints {
        if breakpoint.Id != id {
            out = append(out, breakpoint)
        }
    }
    debugger.Breakpoints = out
}

func (debugger *DefaultDebugger) ToggleBreakpoint(pc uint16){
    for _, breakpoint := range debugger.Breakpoints {
        if breakpoint.PC == pc {
            debugger.RemoveBreakpoint(breakpoint.Id)
            return
        }
    }
    debugger.AddPCBreakpoint(pc)
}

func (debugger *DefaultDebugger) Stop(){
    debugger.Stopped = true
}

func (debugger *DefaultDebugger) MakeSnapshot(cpu *cpu6502.CPUState) Snapshot {
    var breakpoints []uint16
    for _, breakpoint := range debugger.Breakpoints {
        breakpoints = append(breakpoints, breakpoint.PC)
    }

    var code []string
    pc := cpu.PC
    for i := 0; i < 16; i++ {
        instruction := cpu6502.Decode(cpu.Bus, pc)
        code = append(code, instruction.Format(pc))
        pc += instruction.Length()
    }

    stack := make([]byte, 0x100)
    for i := range stack {
        stack[i] = cpu.LoadStack(byte(i))
    }

    return Snapshot{
        CPU: cpu.Copy(),
        Stopped: debugger.Stopped,
        Breakpoints: breakpoints,
        Code: code,
        Stack: stack,
    }
}

func (debugger *DefaultDebugger) notify(cpu *cpu6502.CPUState){
    if debugger.Listener != nil {
        debugger.Listener(debugger.MakeSnapshot(cpu))
    }
}

/* returns true if the command lets the cpu execute the next instruction */
func (debugger *DefaultDebugger) apply(command DebugCommand, cpu *cpu6502.CPUState) (run bool, quit bool) {
    switch command {
        case DebugCommandStep:
            log.Printf("[debug] step")
            return true, false
        case DebugCommandContinue:
            log.Printf("[debug] continue")
            debugger.ContinueUntilBreak()
            return true, false
        case DebugCommandPause:
            log.Printf("[debug] pause at 0x%04x", cpu.PC)
            debugger.Stop()
            return false, false
        case DebugCommandQuit:
            return false, true
    }

    breakpoint, ok := command.(*DebugCommandBreakpoint)
    if ok {
        debugger.ToggleBreakpoint(breakpoint.PC)
    }

    return !debugger.Stopped, false
}

func (debugger *DefaultDebugger) Handle(quit context.Context, cpu *cpu6502.CPUState) bool {
    if !debugger.IsStopped() {
        select {
            case command := <-debugger.Commands:
                _, done := debugger.apply(command, cpu)
                if done {
                    return false
                }
            default:
        }

        if !debugger.IsStopped() {
            for _, breakpoint := range debugger.Breakpoints {
                if breakpoint.Hit(cpu) {
                    log.Printf("[debug] breakpoint %v at 0x%04x", breakpoint.Id, cpu.PC)
                    debugger.Stop()
                    break
                }
            }
        }

        if !debugger.IsStopped() {
            return true
        }
    }

    debugger.notify(cpu)

    for {
        select {
            case <-quit.Done():
                return false
            case command := <-debugger.Commands:
                run, done := debugger.apply(command, cpu)
                if done {
                    return false
                }
                if run {
                    return true
                }
                debugger.notify(cpu)
        }
    }
}

func MakeDebugger() *DefaultDebugger {
    return &DefaultDebugger{
        Commands: make(chan DebugCommand, 5),
        Stopped: true,
        BreakpointId: 1,
    }
}

/* Run the cpu under the debugger until quit is cancelled, the debugger says
 * to stop, or the cpu reports an error.
 */
func Run(quit context.Context, cpu *cpu6502.CPUState, debugger Debugger) error {
    for debugger.Handle(quit, cpu) {
        _, err := cpu.Step()
        if err != nil {
            return err
        }
    }
    return nil
}
