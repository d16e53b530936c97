package common

import (
    "os"
    "log"
    "encoding/json"
    "path/filepath"

    cpu6502 "github.com/kazzmir/cpu6502/lib"
)

const CurrentVersion = 1

type ConfigData struct {
    Version int `json:"version,omitempty"`
    /* where the image is copied to */
    LoadAddress uint16 `json:"load-address"`
    /* 0 means use the vector stored in the image, or the load address if the image has none */
    ResetVector uint16 `json:"reset-vector,omitempty"`
    KeyboardAddress uint16 `json:"keyboard-address"`
    OutputAddress uint16 `json:"output-address"`
    /* number of keys the keyboard device can queue */
    KeyBuffer int `json:"key-buffer,omitempty"`
    Policy string `json:"policy,omitempty"`
    Trace bool `json:"trace,omitempty"`
    MaxCycles uint64 `json:"max-cycles,omitempty"`
}

/* make the directory where the config file lives, which is ~/.config/cpu6502 on linux */
func GetOrCreateConfigDir() (string, error) {
    configDir, err := os.UserConfigDir()
    if err != nil {
        return "", err
    }
    configPath := filepath.Join(configDir, "cpu6502")
    err = os.MkdirAll(configPath, 0755)
    if err != nil {
        return "", err
    }

    return configPath, nil
}

/* the default config.json, or the given path if it is not empty */
func ConfigFile(path string) (string, error) {
    if path != "" {
        return path, nil
    }

    configPath, err := GetOrCreateConfigDir()
    if err != nil {
        return "", err
    }
    return filepath.Join(configPath, "config.json"), nil
}

func DefaultConfigData() ConfigData {
    return ConfigData{
        Version: CurrentVersion,
        LoadAddress: 0x0400,
        KeyboardAddress: cpu6502.KeyboardAddress,
        OutputAddress: cpu6502.ConsoleOutputAddress,
        KeyBuffer: 16,
        Policy: cpu6502.PolicyExecute.String(),
    }
}

/* load the config at path, or the default location if path is empty. The
 * defaults are always returned along with any error.
 */
func LoadConfigData(path string) (ConfigData, error) {
    config, err := ConfigFile(path)
    if err != nil {
        return DefaultConfigData(), err
    }

    file, err := os.Open(config)
    if err != nil {
        return DefaultConfigData(), err
    }
    defer file.Close()

    data := DefaultConfigData()
    decoder := json.NewDecoder(file)
    err = decoder.Decode(&data)
    if err != nil {
        log.Printf("Could not load config data: %v", err)
        return DefaultConfigData(), err
    }

    if data.Version != CurrentVersion {
        return DefaultConfigData(), nil
    }

    return data, nil
}

/* write the config to path, or the default location if path is empty */
func SaveConfigData(path string, data ConfigData) error {
    config, err := ConfigFile(path)
    if err != nil {
        return err
    }

    file, err := os.Create(config)
    if err != nil {
        return err
    }
    defer file.Close()

    data.Version = CurrentVersion
    encoder := json.NewEncoder(file)
    encoder.SetIndent("", "  ")
    return encoder.Encode(data)
}
