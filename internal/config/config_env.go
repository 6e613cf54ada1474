package config

import (
    "os"
    "strings"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "LOGWINDOW_"

// EnvName returns the environment variable that overrides k, for example
// LOGWINDOW_SERVER_URL or LOGWINDOW_COMMAND_SLEEPBETWEENRETRIES.
func EnvName(k Key) string {
    return EnvPrefix + strings.ToUpper(k.Section) + "_" + strings.ToUpper(k.Name)
}

// ApplyEnvOverrides returns cfg with every setting whose environment
// variable is set and non-empty replaced by the variable's value. Values
// that do not parse for their setting are ignored so that a stray variable
// cannot break startup; flags remain the highest precedence in the CLI.
func ApplyEnvOverrides(cfg Config) Config {
    return applyEnv(cfg, os.Getenv)
}

func applyEnv(cfg Config, getenv func(string) string) Config {
    for _, k := range keys {
        v := strings.TrimSpace(getenv(EnvName(k)))
        if v == "" { continue }
        if next, err := cfg.With(k.Section, k.Name, v); err == nil {
            cfg = next
        }
    }
    return cfg
}
