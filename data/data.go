package data

import (
    "embed"
    "io/fs"
)

/* Small programs that run at $0400 with the console at $C020 and the
 * keyboard at $C000.
 *   hello.bin prints a line and traps
 *   echo.bin echoes keys until escape is pressed
 */
//go:embed programs/*
var ProgramsFS embed.FS

func OpenFile(path string) (fs.File, error) {
    return ProgramsFS.Open("programs/" + path)
}

func ReadProgram(name string) ([]byte, error) {
    return fs.ReadFile(ProgramsFS, "programs/" + name)
}

/* names of the embedded programs */
func Programs() ([]string, error) {
    entries, err := fs.ReadDir(ProgramsFS, "programs")
    if err != nil {
        return nil, err
    }

    var out []string
    for _, entry := range entries {
        out = append(out, entry.Name())
    }
    return out, nil
}
