package lib

import (
    "io"
    "log"
)

const KeyboardAddress uint16 = 0xc000
/* $C000-$C00F read the key, $C010-$C01F clear the strobe */
const KeyboardWindowSize uint16 = 0x20
const ConsoleOutputAddress uint16 = 0xc020

/* Apple II style keyboard. Reading the data register returns the last key
 * with bit 7 set while it has not been acknowledged, touching the strobe
 * register acknowledges it.
 *
 * Keys arrive from the host through a buffered channel, so Press may be called
 * from any goroutine while the cpu reads the device.
 */
type Keyboard struct {
    keys chan byte
    latch byte
    strobe bool
}

func MakeKeyboard(buffer int) *Keyboard {
    if buffer < 1 {
        buffer = 1
    }
    return &Keyboard{
        keys: make(chan byte, buffer),
    }
}

/* queue a key without blocking. false if the buffer is full */
func (keyboard *Keyboard) Press(key byte) bool {
    select {
        case keyboard.keys <- key:
            return true
        default:
            return false
    }
}

func (keyboard *Keyboard) poll() {
    if keyboard.strobe {
        return
    }
    select {
        case key := <-keyboard.keys:
            keyboard.latch = key & 0x7f
            keyboard.strobe = true
        default:
    }
}

func (keyboard *Keyboard) Reset() {
    keyboard.strobe = false
    keyboard.latch = 0
    for {
        select {
            case <-keyboard.keys:
            default:
                return
        }
    }
}

func (keyboard *Keyboard) Load(offset uint16) byte {
    if offset & 0x10 != 0 {
        keyboard.strobe = false
        return keyboard.latch
    }

    keyboard.poll()
    if keyboard.strobe {
        return keyboard.latch | 0x80
    }
    return keyboard.latch
}

func (keyboard *Keyboard) Store(offset uint16, value byte) {
    if offset & 0x10 != 0 {
        keyboard.strobe = false
    }
}

func (keyboard *Keyboard) Map(memory *Memory, address uint16) error {
    return memory.MapDevice(address, address + KeyboardWindowSize - 1, keyboard)
}

/* a write only character device */
type ConsoleOutput struct {
    Writer io.Writer
}

func MakeConsoleOutput(writer io.Writer) *ConsoleOutput {
    return &ConsoleOutput{
        Writer: writer,
    }
}

func (console *ConsoleOutput) Load(offset uint16) byte {
    return 0
}

func (console *ConsoleOutput) Store(offset uint16, value byte) {
    value = value & 0x7f
    if value == '\r' {
        value = '\n'
    }
    _, err := console.Writer.Write([]byte{value})
    if err != nil {
        log.Printf("Warning: console output failed: %v", err)
    }
}

func (console *ConsoleOutput) Map(memory *Memory, address uint16) error {
    return memory.MapDevice(address, address, console)
}
