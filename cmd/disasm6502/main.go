package main

/* CLI utility that disassembles raw 6502 images */

import (
    "flag"
    "fmt"
    "io"
    "log"
    "os"
    "strconv"
    "strings"

    "github.com/fatih/color"
    cpu6502 "github.com/kazzmir/cpu6502/lib"
)

type Colors struct {
    address func(a ...interface{}) string
    undocumented func(a ...interface{}) string
    illegal func(a ...interface{}) string
}

func makeColors() Colors {
    return Colors{
        address: color.New(color.FgHiBlack).SprintFunc(),
        undocumented: color.New(color.FgYellow).SprintFunc(),
        illegal: color.New(color.FgRed).SprintFunc(),
    }
}

func (colors Colors) mnemonic(instruction cpu6502.Instruction, text string) string {
    switch instruction.Class {
        case cpu6502.ClassOfficial: return text
        case cpu6502.ClassUndocumented: return colors.undocumented(text)
    }
    return colors.illegal(text)
}

func parseOrigin(value string) (uint16, error) {
    value = strings.TrimPrefix(value, "$")
    value = strings.TrimPrefix(strings.ToLower(value), "0x")
    out, err := strconv.ParseUint(value, 16, 16)
    if err != nil {
        return 0, fmt.Errorf("invalid origin '%v': %w", value, err)
    }
    return uint16(out), nil
}

/* write one line per instruction, stopping after count instructions if count > 0 */
func disassemble(output io.Writer, image []byte, origin uint16, count int, colors Colors) error {
    reader := cpu6502.NewInstructionReader(image)
    pc := origin
    for n := 0; count <= 0 || n < count; n++ {
        instruction, err := reader.ReadInstruction()
        if err == io.EOF {
            return nil
        }
        if err != nil {
            return err
        }

        fmt.Fprintf(output, "%v  %-8v  %v\n", colors.address(fmt.Sprintf("$%04X", pc)), instruction.Hex(), colors.mnemonic(instruction, instruction.Format(pc)))
        pc += instruction.Length()
    }
    return nil
}

/* the opcode table, one line per opcode */
func displayTable(output io.Writer, colors Colors){
    for opcode := 0; opcode < 256; opcode++ {
        description := cpu6502.LookupInstruction(byte(opcode))
        instruction := cpu6502.Instruction{Class: description.Class}
        fmt.Fprintf(output, "%02X  %v  %-6v %v cycles %v\n", opcode, colors.mnemonic(instruction, description.Name), description.Mode, description.Cycles, description.Class)
    }
}

func main(){
    log.SetFlags(log.Lshortfile | log.Lmicroseconds)

    origin := flag.String("origin", "$0400", "Address of the first byte of the image")
    skip := flag.Int("skip", 0, "Skip this many bytes of the file before disassembling")
    count := flag.Int("count", 0, "Disassemble at most this many instructions, 0 for all")
    table := flag.Bool("table", false, "Show the opcode table")

    flag.Parse()

    colors := makeColors()

    if *table {
        displayTable(color.Output, colors)
        return
    }

    if flag.NArg() == 0 {
        fmt.Printf("Give a binary image to disassemble\n")
        flag.PrintDefaults()
        os.Exit(1)
    }

    start, err := parseOrigin(*origin)
    if err != nil {
        log.Printf("Error: %v", err)
        os.Exit(1)
    }

    image, err := os.ReadFile(flag.Arg(0))
    if err != nil {
        log.Printf("Error: %v", err)
        os.Exit(1)
    }

    if *skip > len(image) {
        log.Printf("Error: cannot skip %v bytes of a %v byte file", *skip, len(image))
        os.Exit(1)
    }

    err = disassemble(color.Output, image[*skip:], start, *count, colors)
    if err != nil {
        log.Printf("Error: %v", err)
        os.Exit(1)
    }
}
