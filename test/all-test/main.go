package main

import (
    "flag"
    "log"
    "os"

    "github.com/kazzmir/cpu6502/test/all-test/decimal"
    "github.com/kazzmir/cpu6502/test/all-test/functional"
)

func main(){
    log.SetFlags(log.Lshortfile | log.Lmicroseconds)

    debug := flag.Bool("debug", false, "Log each instruction")
    flag.Parse()

    failed := false

    ok, err := functional.Run(*debug)
    if err != nil {
        log.Printf("Error: %v", err)
    }
    if !ok {
        failed = true
    }

    ok, err = decimal.Run(*debug)
    if err != nil {
        log.Printf("Error: %v", err)
    }
    if !ok {
        failed = true
    }

    if failed {
        os.Exit(1)
    }
}
