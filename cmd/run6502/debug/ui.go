package debug

import (
    "bytes"
    "context"
    "errors"
    "fmt"
    "io"
    "sync"

    "github.com/jroimartin/gocui"
)

const maxConsoleBytes = 16 * 1024

/* terminal front end for the debugger. Keys turn into debugger commands,
 * snapshots from the cpu goroutine are drawn on the next layout pass.
 */
type UI struct {
    debugger *DefaultDebugger

    lock sync.Mutex
    snapshot Snapshot
    haveSnapshot bool
    console bytes.Buffer

    gui *gocui.Gui
}

func MakeUI(debugger *DefaultDebugger) *UI {
    ui := &UI{
        debugger: debugger,
    }
    debugger.Listener = ui.Observe
    return ui
}

func (ui *UI) refresh(){
    ui.lock.Lock()
    gui := ui.gui
    ui.lock.Unlock()

    if gui != nil {
        gui.Update(func(*gocui.Gui) error {
            return nil
        })
    }
}

func (ui *UI) Observe(snapshot Snapshot){
    ui.lock.Lock()
    ui.snapshot = snapshot
    ui.haveSnapshot = true
    ui.lock.Unlock()
    ui.refresh()
}

type consoleWriter struct {
    ui *UI
}

func (writer *consoleWriter) Write(data []byte) (int, error) {
    ui := writer.ui
    ui.lock.Lock()
    ui.console.Write(data)
    if ui.console.Len() > maxConsoleBytes {
        ui.console.Next(ui.console.Len() - maxConsoleBytes)
    }
    ui.lock.Unlock()
    ui.refresh()
    return len(data), nil
}

/* where the console output device should write to */
func (ui *UI) Output() io.Writer {
    return &consoleWriter{ui: ui}
}

func (ui *UI) send(command DebugCommand) func(*gocui.Gui, *gocui.View) error {
    return func(gui *gocui.Gui, view *gocui.View) error {
        select {
            case ui.debugger.Commands <- command:
            default:
        }
        return nil
    }
}

func (ui *UI) toggleBreakpoint(gui *gocui.Gui, view *gocui.View) error {
    ui.lock.Lock()
    pc := ui.snapshot.CPU.PC
    ui.lock.Unlock()
    return ui.send(&DebugCommandBreakpoint{PC: pc})(gui, view)
}

func (ui *UI) quit(gui *gocui.Gui, view *gocui.View) error {
    ui.send(DebugCommandQuit)(gui, view)
    return gocui.ErrQuit
}

func isBreakpoint(breakpoints []uint16, pc uint16) bool {
    for _, breakpoint := range breakpoints {
        if breakpoint == pc {
            return true
        }
    }
    return false
}

func setView(gui *gocui.Gui, name string, title string, x0 int, y0 int, x1 int, y1 int) (*gocui.View, error) {
    view, err := gui.SetView(name, x0, y0, x1, y1)
    if err != nil && err != gocui.ErrUnknownView {
        return nil, err
    }
    view.Title = title
    view.Clear()
    return view, nil
}

func (ui *UI) layout(gui *gocui.Gui) error {
    maxX, maxY := gui.Size()

    ui.lock.Lock()
    snapshot := ui.snapshot
    haveSnapshot := ui.haveSnapshot
    console := ui.console.String()
    ui.lock.Unlock()

    registers, err := setView(gui, "registers", "registers", 0, 0, 30, 6)
    if err != nil {
        return err
    }

    code, err := setView(gui, "code", "code", 0, 7, 30, maxY - 3)
    if err != nil {
        return err
    }

    stack, err := setView(gui, "stack", "stack", 31, 0, 31 + 52, 18)
    if err != nil {
        return err
    }

    output, err := setView(gui, "console", "console", 31, 19, maxX - 1, maxY - 3)
    if err != nil {
        return err
    }
    output.Wrap = true
    output.Autoscroll = true

    help, err := setView(gui, "help", "", 0, maxY - 2, maxX - 1, maxY)
    if err != nil {
        return err
    }
    help.Frame = false

    fmt.Fprint(output, console)
    fmt.Fprint(help, "s step  c continue  p pause  b breakpoint at PC  q quit")

    if !haveSnapshot {
        fmt.Fprint(registers, "running")
        return nil
    }

    cpu := snapshot.CPU
    fmt.Fprintf(registers, "PC %04X  SP %02X\n", cpu.PC, cpu.SP)
    fmt.Fprintf(registers, "A  %02X  X  %02X  Y  %02X\n", cpu.A, cpu.X, cpu.Y)
    fmt.Fprintf(registers, "P  %v\n", cpu.Status.String())
    fmt.Fprintf(registers, "cycle %v\n", cpu.Cycle)
    if !snapshot.Stopped {
        fmt.Fprint(registers, "running")
    }

    pc := cpu.PC
    for i, line := range snapshot.Code {
        marker := " "
        if i == 0 {
            marker = ">"
        }
        /* only the first line has a known address */
        if i == 0 && isBreakpoint(snapshot.Breakpoints, pc) {
            marker = "*"
        }
        fmt.Fprintf(code, "%v %v\n", marker, line)
    }

    /* highest addresses first, which is where the stack starts */
    for row := 0xf; row >= 0; row-- {
        fmt.Fprintf(stack, "%03X:", 0x100 + row * 16)
        for column := 0; column < 16; column++ {
            offset := row * 16 + column
            /* sp points at the next free slot */
            marker := " "
            if offset == int(cpu.SP) {
                marker = ">"
            }
            fmt.Fprintf(stack, "%v%02X", marker, snapshot.Stack[offset])
        }
        fmt.Fprintln(stack)
    }

    return nil
}

/* Run the terminal ui until the user quits or quit is cancelled. Blocks,
 * so run it in its own goroutine.
 */
func (ui *UI) Run(quit context.Context) error {
    gui, err := gocui.NewGui(gocui.OutputNormal)
    if err != nil {
        return err
    }
    defer gui.Close()

    gui.SetManagerFunc(ui.layout)

    bindings := []struct {
        Key interface{}
        Handler func(*gocui.Gui, *gocui.View) error
    }{
        {Key: 's', Handler: ui.send(DebugCommandStep)},
        {Key: 'c', Handler: ui.send(DebugCommandContinue)},
        {Key: 'p', Handler: ui.send(DebugCommandPause)},
        {Key: 'b', Handler: ui.toggleBreakpoint},
        {Key: 'q', Handler: ui.quit},
        {Key: gocui.KeyCtrlC, Handler: ui.quit},
    }

    for _, binding := range bindings {
        err = gui.SetKeybinding("", binding.Key, gocui.ModNone, binding.Handler)
        if err != nil {
            return err
        }
    }

    ui.lock.Lock()
    ui.gui = gui
    ui.lock.Unlock()

    defer func(){
        ui.lock.Lock()
        ui.gui = nil
        ui.lock.Unlock()
    }()

    done := make(chan struct{})
    defer close(done)
    go func(){
        select {
            case <-quit.Done():
                gui.Update(func(*gocui.Gui) error {
                    return gocui.ErrQuit
                })
            case <-done:
        }
    }()

    err = gui.MainLoop()
    if err != nil && !errors.Is(err, gocui.ErrQuit) {
        return err
    }
    return nil
}
