package common

import (
    "os"
    "io"
    "fmt"
    "strconv"
    "strings"
    "crypto/sha256"
    "path/filepath"
)

func FileExists(path string) bool {
    info, err := os.Stat(path)
    if err != nil {
        return false
    }

    /* directories do not count */
    return !info.IsDir()
}

/* return the sha256 hash of a file given by the path */
func GetSha256(path string) (string, error){
    hash := sha256.New()
    data, err := os.Open(path)
    if err != nil {
        return "", err
    }
    defer data.Close()
    _, err = io.Copy(hash, data)
    if err != nil {
        return "", err
    }
    return fmt.Sprintf("%x", hash.Sum(nil)), nil
}

func FindFile(path string) string {
    execRelative := filepath.Join(filepath.Dir(os.Args[0]), path)
    if FileExists(execRelative) {
        return execRelative
    }

    return path
}

/* accepts $0400, 0x0400 or plain decimal */
func ParseAddress(value string) (uint16, error) {
    value = strings.TrimSpace(value)
    base := 10
    switch {
        case strings.HasPrefix(value, "$"):
            value = value[1:]
            base = 16
        case strings.HasPrefix(value, "0x"), strings.HasPrefix(value, "0X"):
            value = value[2:]
            base = 16
    }

    out, err := strconv.ParseUint(value, base, 16)
    if err != nil {
        return 0, fmt.Errorf("invalid address '%v': %w", value, err)
    }
    return uint16(out), nil
}
