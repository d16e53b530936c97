package lib

import (
    "fmt"
)

const MemorySize = 0x10000

/* anything the cpu can read and write through */
type Bus interface {
    Load(address uint16) byte
    Store(address uint16, value byte)
}

/* A memory mapped peripheral. The offset passed in is relative to the
 * start of the window the device was mapped at, so a device does not
 * need to know where it lives in the address space.
 */
type Device interface {
    Load(offset uint16) byte
    Store(offset uint16, value byte)
}

type deviceWindow struct {
    Start uint16
    End uint16
    Device Device
}

func (window *deviceWindow) Contains(address uint16) bool {
    return address >= window.Start && address <= window.End
}

type Memory struct {
    Data []byte
    windows []deviceWindow
    /* true if any device window touches the page, so plain ram accesses
     * never have to look at the window list
     */
    devicePages [256]bool
}

func NewMemory() *Memory {
    /* by default the data initializes to all 0's */
    return &Memory{
        Data: make([]byte, MemorySize),
    }
}

/* map the inclusive range start-end to a device */
func (memory *Memory) MapDevice(start uint16, end uint16, device Device) error {
    if end < start {
        return fmt.Errorf("invalid device window 0x%x-0x%x", start, end)
    }

    if device == nil {
        return fmt.Errorf("no device given for window 0x%x-0x%x", start, end)
    }

    for _, window := range memory.windows {
        if start <= window.End && window.Start <= end {
            return fmt.Errorf("device window 0x%x-0x%x overlaps 0x%x-0x%x", start, end, window.Start, window.End)
        }
    }

    memory.windows = append(memory.windows, deviceWindow{
        Start: start,
        End: end,
        Device: device,
    })

    memory.markPages()
    return nil
}

/* remove every window that forwards to the given device */
func (memory *Memory) UnmapDevice(device Device) {
    var out []deviceWindow
    for _, window := range memory.windows {
        if window.Device != device {
            out = append(out, window)
        }
    }
    memory.windows = out
    memory.markPages()
}

func (memory *Memory) markPages() {
    memory.devicePages = [256]bool{}
    for _, window := range memory.windows {
        for page := int(window.Start >> 8); page <= int(window.End >> 8); page++ {
            memory.devicePages[page] = true
        }
    }
}

func (memory *Memory) findWindow(address uint16) *deviceWindow {
    if !memory.devicePages[address >> 8] {
        return nil
    }

    for i := range memory.windows {
        if memory.windows[i].Contains(address) {
            return &memory.windows[i]
        }
    }

    return nil
}

func (memory *Memory) Load(address uint16) byte {
    window := memory.findWindow(address)
    if window != nil {
        return window.Device.Load(address - window.Start)
    }
    return memory.Data[address]
}

func (memory *Memory) Store(address uint16, value byte) {
    window := memory.findWindow(address)
    if window != nil {
        window.Device.Store(address - window.Start, value)
        return
    }
    memory.Data[address] = value
}

/* little endian, address+1 wraps from 0xffff to 0x0000 */
func (memory *Memory) LoadWord(address uint16) uint16 {
    low := uint16(memory.Load(address))
    high := uint16(memory.Load(address + 1))
    return (high << 8) | low
}

/* copy an image into ram starting at offset. Devices are bypassed, and
 * data that runs past 0xffff continues at 0x0000.
 */
func (memory *Memory) Copy(offset uint16, data []byte) {
    address := offset
    for _, value := range data {
        memory.Data[address] = value
        address += 1
    }
}

func (memory *Memory) Clear() {
    for i := range memory.Data {
        memory.Data[i] = 0
    }
}
