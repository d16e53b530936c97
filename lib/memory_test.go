package lib

import (
    "testing"
)

type recordDevice struct {
    Value byte
    Loads []uint16
    Stores []uint16
}

func (device *recordDevice) Load(offset uint16) byte {
    device.Loads = append(device.Loads, offset)
    return device.Value
}

func (device *recordDevice) Store(offset uint16, value byte) {
    device.Stores = append(device.Stores, offset)
    device.Value = value
}

func TestMemoryRoundTrip(test *testing.T){
    memory := NewMemory()

    for _, address := range []uint16{0x0000, 0x00ff, 0x0100, 0x1234, 0xfffe, 0xffff} {
        memory.Store(address, byte(address) ^ 0x5a)
        if memory.Load(address) != byte(address) ^ 0x5a {
            test.Fatalf("expected 0x%x at 0x%x but was 0x%x", byte(address) ^ 0x5a, address, memory.Load(address))
        }
    }
}

func TestMemoryWord(test *testing.T){
    memory := NewMemory()
    memory.Store(0x1000, 0x34)
    memory.Store(0x1001, 0x12)

    if memory.LoadWord(0x1000) != 0x1234 {
        test.Fatalf("expected 0x1234 but was 0x%x", memory.LoadWord(0x1000))
    }

    memory.Store(0xffff, 0xcd)
    memory.Store(0x0000, 0xab)
    if memory.LoadWord(0xffff) != 0xabcd {
        test.Fatalf("expected the high byte to wrap to 0x0000, got 0x%x", memory.LoadWord(0xffff))
    }
}

func TestMemoryCopy(test *testing.T){
    memory := NewMemory()
    memory.Copy(0xfffe, []byte{1, 2, 3, 4})

    if memory.Load(0xfffe) != 1 || memory.Load(0xffff) != 2 || memory.Load(0x0000) != 3 || memory.Load(0x0001) != 4 {
        test.Fatalf("copy did not wrap around the end of memory")
    }

    memory.Clear()
    if memory.Load(0xffff) != 0 {
        test.Fatalf("clear left 0x%x at 0xffff", memory.Load(0xffff))
    }
}

func TestMemoryDevice(test *testing.T){
    memory := NewMemory()
    device := &recordDevice{Value: 0x77}

    err := memory.MapDevice(0xc000, 0xc00f, device)
    if err != nil {
        test.Fatalf("could not map device: %v", err)
    }

    if memory.Load(0xc005) != 0x77 {
        test.Fatalf("expected the device value 0x77 but got 0x%x", memory.Load(0xc005))
    }

    memory.Store(0xc00f, 0x10)
    if len(device.Loads) != 1 || device.Loads[0] != 5 {
        test.Fatalf("expected a load at offset 5, got %v", device.Loads)
    }
    if len(device.Stores) != 1 || device.Stores[0] != 0xf {
        test.Fatalf("expected a store at offset 0xf, got %v", device.Stores)
    }

    /* the backing ram is untouched */
    if memory.Data[0xc00f] != 0 {
        test.Fatalf("device store leaked into ram")
    }

    /* neighbours in the same page are plain ram */
    memory.Store(0xc010, 0x42)
    if memory.Load(0xc010) != 0x42 || len(device.Stores) != 1 {
        test.Fatalf("0xc010 should not be forwarded to the device")
    }

    memory.UnmapDevice(device)
    memory.Store(0xc00f, 0x99)
    if memory.Load(0xc00f) != 0x99 || len(device.Stores) != 1 {
        test.Fatalf("unmapped device still receives accesses")
    }
}

func TestMemoryDeviceOverlap(test *testing.T){
    memory := NewMemory()

    err := memory.MapDevice(0xc000, 0xc01f, &recordDevice{})
    if err != nil {
        test.Fatalf("could not map device: %v", err)
    }

    err = memory.MapDevice(0xc01f, 0xc020, &recordDevice{})
    if err == nil {
        test.Fatalf("expected an overlap error")
    }

    err = memory.MapDevice(0xc020, 0xc020, &recordDevice{})
    if err != nil {
        test.Fatalf("adjacent window should be allowed: %v", err)
    }

    err = memory.MapDevice(0x2000, 0x1000, &recordDevice{})
    if err == nil {
        test.Fatalf("expected an error for an inverted window")
    }

    err = memory.MapDevice(0x3000, 0x3000, nil)
    if err == nil {
        test.Fatalf("expected an error for a nil device")
    }
}
