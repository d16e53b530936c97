package main

/* Runs a raw 6502 binary image. With no image the embedded hello program runs. */

import (
    "bufio"
    "context"
    "errors"
    "flag"
    "fmt"
    "io"
    "log"
    "os"
    "os/signal"
    "path/filepath"
    "runtime/pprof"

    "github.com/fatih/color"
    "github.com/kazzmir/cpu6502/cmd/run6502/common"
    "github.com/kazzmir/cpu6502/cmd/run6502/debug"
    "github.com/kazzmir/cpu6502/cmd/run6502/thread"
    "github.com/kazzmir/cpu6502/data"
    cpu6502 "github.com/kazzmir/cpu6502/lib"
)

type Options struct {
    ConfigPath string
    ImagePath string
    Program string
    Step bool
    Debug bool
    Keyboard bool
    Verbose bool
    DumpPath string
    ProfilePath string
    SaveConfig bool
}

func loadImage(options Options) ([]byte, error) {
    if options.ImagePath == "" {
        return data.ReadProgram(options.Program)
    }

    path := common.FindFile(options.ImagePath)
    image, err := os.ReadFile(path)
    if err != nil {
        return nil, err
    }

    hash, err := common.GetSha256(path)
    if err == nil {
        log.Printf("Loaded %v (%v bytes) sha256 %v", path, len(image), hash)
    }

    return image, nil
}

/* the original "pause on exec" mode: print each instruction and wait for enter */
func runStepping(quit context.Context, machine *common.Machine, tracer *ColorTracer, input io.Reader) error {
    cpu := machine.CPU
    reader := bufio.NewReader(input)
    for quit.Err() == nil {
        instruction := cpu6502.Decode(cpu.Bus, cpu.PC)
        tracer.Trace(cpu, instruction)

        _, err := reader.ReadString('\n')
        if err != nil {
            if errors.Is(err, io.EOF) {
                return nil
            }
            return err
        }

        _, err = cpu.Step()
        if err != nil {
            return err
        }

        if cpu.PC == cpu.LastPC() {
            log.Printf("Trapped at 0x%04x", cpu.PC)
            return nil
        }
    }
    return nil
}

func runDebugger(quit context.Context, cancel context.CancelFunc, machine *common.Machine, debugger *debug.DefaultDebugger, ui *debug.UI) error {
    group := thread.NewThreadGroup(quit)

    group.Spawn(func(quit context.Context) error {
        defer group.Cancel()
        return debug.Run(quit, machine.CPU, debugger)
    })

    group.Spawn(func(quit context.Context) error {
        defer group.Cancel()
        return ui.Run(quit)
    })

    err := group.Wait()
    cancel()
    return err
}

func run(options Options, config common.ConfigData) error {
    image, err := loadImage(options)
    if err != nil {
        return err
    }

    quit, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
    defer cancel()

    var output io.Writer = color.Output
    var terminal *TerminalHost
    if options.Keyboard && !options.Debug && !options.Step {
        terminal = MakeTerminalHost()
        err = terminal.Start()
        if err != nil {
            return err
        }
        defer terminal.Stop()
        output = terminal.Writer(output)
        log.SetOutput(terminal.Writer(os.Stderr))
        defer log.SetOutput(os.Stderr)
    }

    var debugger *debug.DefaultDebugger
    var ui *debug.UI
    if options.Debug {
        debugger = debug.MakeDebugger()
        ui = debug.MakeUI(debugger)
        output = ui.Output()
    }

    machine, err := common.SetupMachine(image, config, output, options.Verbose)
    if err != nil {
        return err
    }

    tracer := MakeColorTracer(color.Output)
    if config.Trace && !options.Debug && !options.Step {
        if terminal != nil {
            tracer.Output = terminal.Writer(color.Output)
        }
        machine.CPU.Tracer = tracer
    }

    switch {
        case options.Debug:
            err = runDebugger(quit, cancel, machine, debugger, ui)
        case options.Step:
            err = runStepping(quit, machine, tracer, os.Stdin)
        default:
            group := thread.NewThreadGroup(quit)
            group.Spawn(func(quit context.Context) error {
                defer group.Cancel()
                return common.RunMachine(quit, machine, config.MaxCycles, 1)
            })
            if terminal != nil {
                group.Spawn(func(quit context.Context) error {
                    return terminal.Feed(quit, group.Cancel, machine.Keyboard)
                })
            }
            err = group.Wait()
    }

    if terminal != nil {
        terminal.Stop()
    }

    log.Printf("Stopped: %v", machine.CPU.String())

    if options.DumpPath != "" {
        dumpErr := dumpState(options.DumpPath, machine.CPU)
        if dumpErr != nil {
            log.Printf("Could not dump cpu state: %v", dumpErr)
        }
    }

    if errors.Is(err, context.Canceled) || errors.Is(err, common.MaxCyclesReached) {
        return nil
    }
    return err
}

func dumpState(path string, cpu *cpu6502.CPUState) error {
    if path == "-" {
        return cpu.Serialize(os.Stdout)
    }

    file, err := os.Create(path)
    if err != nil {
        return err
    }
    defer file.Close()
    return cpu.Serialize(file)
}

func main(){
    log.SetFlags(log.Lshortfile | log.Lmicroseconds)

    var options Options
    var loadAddress string
    var resetVector string
    var keyboardAddress string
    var outputAddress string
    var policy string
    var trace bool
    var maxCycles uint64

    flag.StringVar(&options.ConfigPath, "config", "", "Path to the config file, default is config.json in the user config directory")
    flag.StringVar(&options.Program, "program", "hello.bin", "Embedded program to run when no image is given")
    flag.StringVar(&loadAddress, "load", "", "Address to load the image at, like $0400")
    flag.StringVar(&resetVector, "reset", "", "Override the reset vector")
    flag.StringVar(&keyboardAddress, "keyboard-address", "", "Address of the keyboard device")
    flag.StringVar(&outputAddress, "output-address", "", "Address of the console output device")
    flag.StringVar(&policy, "policy", "", "What to do with illegal opcodes: execute, strict or ignore")
    flag.BoolVar(&trace, "trace", false, "Print each instruction as it executes")
    flag.BoolVar(&options.Step, "step", false, "Pause before each instruction until enter is pressed")
    flag.BoolVar(&options.Debug, "debug", false, "Run under the terminal debugger")
    flag.BoolVar(&options.Keyboard, "keyboard", false, "Send terminal keys to the keyboard device")
    flag.BoolVar(&options.Verbose, "verbose", false, "Log every instruction")
    flag.Uint64Var(&maxCycles, "max-cycles", 0, "Stop after this many cycles, 0 for no limit")
    flag.StringVar(&options.DumpPath, "dump", "", "Write the final cpu state as json to this file, - for stdout")
    flag.StringVar(&options.ProfilePath, "cpuprofile", "", "Write a cpu profile to this file")
    flag.BoolVar(&options.SaveConfig, "save-config", false, "Save the effective settings to the config file")

    flag.Usage = func(){
        fmt.Fprintf(flag.CommandLine.Output(), "Usage: %v [options] [image.bin]\n", filepath.Base(os.Args[0]))
        flag.PrintDefaults()
    }

    flag.Parse()

    config, err := common.LoadConfigData(options.ConfigPath)
    if err != nil && !errors.Is(err, os.ErrNotExist) {
        log.Printf("Using default config: %v", err)
    }

    /* only flags given on the command line override the config */
    var parseErr error
    flag.Visit(func(setting *flag.Flag){
        var err error
        switch setting.Name {
            case "load": config.LoadAddress, err = common.ParseAddress(loadAddress)
            case "reset": config.ResetVector, err = common.ParseAddress(resetVector)
            case "keyboard-address": config.KeyboardAddress, err = common.ParseAddress(keyboardAddress)
            case "output-address": config.OutputAddress, err = common.ParseAddress(outputAddress)
            case "policy": config.Policy = policy
            case "trace": config.Trace = trace
            case "max-cycles": config.MaxCycles = maxCycles
        }
        if err != nil && parseErr == nil {
            parseErr = fmt.Errorf("-%v: %w", setting.Name, err)
        }
    })

    if parseErr != nil {
        log.Printf("Error: %v", parseErr)
        os.Exit(1)
    }

    if flag.NArg() > 0 {
        options.ImagePath = flag.Arg(0)
    }

    if options.Debug {
        /* the debugger owns the terminal */
        logPath := "run6502.log"
        configDir, err := common.GetOrCreateConfigDir()
        if err == nil {
            logPath = filepath.Join(configDir, "run6502.log")
        }
        logFile, err := os.Create(logPath)
        if err == nil {
            defer logFile.Close()
            log.SetOutput(logFile)
        } else {
            log.SetOutput(io.Discard)
        }
    }

    if options.SaveConfig {
        err := common.SaveConfigData(options.ConfigPath, config)
        if err != nil {
            log.Printf("Could not save config: %v", err)
        }
    }

    if options.ProfilePath != "" {
        profile, err := os.Create(options.ProfilePath)
        if err != nil {
            log.Fatal(err)
        }
        defer profile.Close()
        pprof.StartCPUProfile(profile)
        defer pprof.StopCPUProfile()
    }

    err = run(options, config)
    if err != nil {
        log.Printf("Error: %v", err)
        pprof.StopCPUProfile()
        os.Exit(1)
    }
}
