package main

import (
    "bytes"
    "context"
    "io"
    "log"
    "os"

    cpu6502 "github.com/kazzmir/cpu6502/lib"
    "golang.org/x/term"
)

const keyCtrlC = 3

/* Puts stdin in raw mode and feeds every key to the keyboard device. Ctrl-C
 * cancels the run since raw mode swallows the signal.
 */
type TerminalHost struct {
    fd int
    oldState *term.State
}

func MakeTerminalHost() *TerminalHost {
    return &TerminalHost{
        fd: int(os.Stdin.Fd()),
    }
}

func (host *TerminalHost) IsTerminal() bool {
    return term.IsTerminal(host.fd)
}

func (host *TerminalHost) Start() error {
    if !host.IsTerminal() {
        return nil
    }

    oldState, err := term.MakeRaw(host.fd)
    if err != nil {
        return err
    }
    host.oldState = oldState
    return nil
}

func (host *TerminalHost) Stop(){
    if host.oldState != nil {
        err := term.Restore(host.fd, host.oldState)
        if err != nil {
            log.Printf("Could not restore terminal: %v", err)
        }
        host.oldState = nil
    }
}

/* raw mode turns off output processing, so newlines need a carriage return */
func (host *TerminalHost) Writer(writer io.Writer) io.Writer {
    return &rawWriter{host: host, writer: writer}
}

type rawWriter struct {
    host *TerminalHost
    writer io.Writer
}

func (raw *rawWriter) Write(data []byte) (int, error) {
    if raw.host.oldState == nil {
        return raw.writer.Write(data)
    }

    _, err := raw.writer.Write(bytes.ReplaceAll(data, []byte("\n"), []byte("\r\n")))
    if err != nil {
        return 0, err
    }
    return len(data), nil
}

/* translate host keys to what a 6502 program expects */
func translateKey(key byte) byte {
    switch key {
        case '\n': return '\r'
        /* most terminals send delete for backspace */
        case 0x7f: return 0x08
    }
    return key
}

/* read stdin until quit is cancelled. The read itself cannot be interrupted,
 * so the reader goroutine is left behind when quit fires.
 */
func (host *TerminalHost) Feed(quit context.Context, cancel context.CancelFunc, keyboard *cpu6502.Keyboard) error {
    keys := make(chan byte, 16)
    go func(){
        defer close(keys)
        buffer := make([]byte, 1)
        for {
            count, err := os.Stdin.Read(buffer)
            if count > 0 {
                keys <- buffer[0]
            }
            if err != nil {
                return
            }
        }
    }()

    for {
        select {
            case <-quit.Done():
                return nil
            case key, ok := <-keys:
                if !ok {
                    return nil
                }
                if key == keyCtrlC {
                    cancel()
                    return nil
                }
                if !keyboard.Press(translateKey(key)) {
                    log.Printf("Keyboard buffer full, dropped key 0x%x", key)
                }
        }
    }
}
