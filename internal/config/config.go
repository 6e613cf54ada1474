// Package config holds the agent's runtime settings as an immutable value.
//
// A Config starts from Default, the built-in settings document, and is
// refined with With, Merge and ApplyEnvOverrides. Each of these returns a new
// value; nothing in this package keeps process-wide state.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

var (
	// ErrUnknownKey is returned when a section/key pair is not a known setting.
	ErrUnknownKey = errors.New("config: unknown key")
	// ErrInvalidValue is returned when a value cannot be parsed for its key.
	ErrInvalidValue = errors.New("config: invalid value")
)

// Config is a snapshot of agent settings. Sections mirror the built-in
// settings document.
type Config struct {
	Server struct {
		URL string `yaml:"url" json:"url"`
	} `yaml:"server" json:"server"`

	Agent struct {
		Prefix string `yaml:"prefix" json:"prefix"`
	} `yaml:"agent" json:"agent"`

	Stack struct {
		InstallPrefix string `yaml:"installprefix" json:"installprefix"`
	} `yaml:"stack" json:"stack"`

	Puppet struct {
		PuppetHome string `yaml:"puppet_home" json:"puppet_home"`
		FacterHome string `yaml:"facter_home" json:"facter_home"`
	} `yaml:"puppet" json:"puppet"`

	Command struct {
		MaxRetries          int           `yaml:"maxretries" json:"maxretries"`
		SleepBetweenRetries time.Duration `yaml:"sleepBetweenRetries" json:"sleepBetweenRetries"`
	} `yaml:"command" json:"command"`

	// Grep controls how failed command output is summarized.
	Grep struct {
		Phrase string `yaml:"phrase" json:"phrase"`
		Before int    `yaml:"before" json:"before"`
		After  int    `yaml:"after" json:"after"`
		Tail   int    `yaml:"tail" json:"tail"`
	} `yaml:"grep" json:"grep"`
}

// Key names one setting.
type Key struct {
	Section string
	Name    string
}

func (k Key) String() string { return k.Section + "." + k.Name }

// keys lists every setting in document order.
var keys = []Key{
	{"server", "url"},
	{"agent", "prefix"},
	{"stack", "installprefix"},
	{"puppet", "puppet_home"},
	{"puppet", "facter_home"},
	{"command", "maxretries"},
	{"command", "sleepBetweenRetries"},
	{"grep", "phrase"},
	{"grep", "before"},
	{"grep", "after"},
	{"grep", "tail"},
}

// Keys returns all known settings in document order.
func Keys() []Key {
	return append([]Key(nil), keys...)
}

// Default returns the built-in settings.
func Default() Config {
	var c Config
	c.Server.URL = "http://localhost:4080"
	c.Agent.Prefix = "/tmp/ambari"
	c.Stack.InstallPrefix = "/var/ambari/"
	c.Puppet.PuppetHome = "/usr/local/bin"
	c.Puppet.FacterHome = "/usr/local/bin"
	c.Command.MaxRetries = 2
	c.Command.SleepBetweenRetries = 1 * time.Second
	c.Grep.Phrase = "fail"
	c.Grep.Before = 30
	c.Grep.After = 30
	c.Grep.Tail = 10
	return c
}

// Get returns the string form of a setting. Key names are matched
// case-insensitively; sections are not. Durations are reported in whole
// seconds.
func (c Config) Get(section, key string) (string, bool) {
	switch section + "." + strings.ToLower(key) {
	case "server.url":
		return c.Server.URL, true
	case "agent.prefix":
		return c.Agent.Prefix, true
	case "stack.installprefix":
		return c.Stack.InstallPrefix, true
	case "puppet.puppet_home":
		return c.Puppet.PuppetHome, true
	case "puppet.facter_home":
		return c.Puppet.FacterHome, true
	case "command.maxretries":
		return strconv.Itoa(c.Command.MaxRetries), true
	case "command.sleepbetweenretries":
		return strconv.FormatInt(int64(c.Command.SleepBetweenRetries/time.Second), 10), true
	case "grep.phrase":
		return c.Grep.Phrase, true
	case "grep.before":
		return strconv.Itoa(c.Grep.Before), true
	case "grep.after":
		return strconv.Itoa(c.Grep.After), true
	case "grep.tail":
		return strconv.Itoa(c.Grep.Tail), true
	}
	return "", false
}

// With returns a copy of c with one setting replaced. The receiver is not
// modified. Integer settings must parse as base-10 integers; the retry
// sleep accepts whole seconds or a Go duration string such as "1500ms".
func (c Config) With(section, key, value string) (Config, error) {
	name := section + "." + strings.ToLower(key)
	switch name {
	case "server.url":
		c.Server.URL = value
	case "agent.prefix":
		c.Agent.Prefix = value
	case "stack.installprefix":
		c.Stack.InstallPrefix = value
	case "puppet.puppet_home":
		c.Puppet.PuppetHome = value
	case "puppet.facter_home":
		c.Puppet.FacterHome = value
	case "grep.phrase":
		c.Grep.Phrase = value
	case "command.sleepbetweenretries":
		d, err := parseSeconds(value)
		if err != nil {
			return c, fmt.Errorf("%w: %s=%q", ErrInvalidValue, name, value)
		}
		c.Command.SleepBetweenRetries = d
	case "command.maxretries", "grep.before", "grep.after", "grep.tail":
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return c, fmt.Errorf("%w: %s=%q", ErrInvalidValue, name, value)
		}
		switch name {
		case "command.maxretries":
			c.Command.MaxRetries = n
		case "grep.before":
			c.Grep.Before = n
		case "grep.after":
			c.Grep.After = n
		default:
			c.Grep.Tail = n
		}
	default:
		return c, fmt.Errorf("%w: %s.%s", ErrUnknownKey, section, key)
	}
	return c, nil
}

func parseSeconds(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(s)
}

// Merge overlays the non-zero fields of o onto c and returns the result.
// A zero value in o never clears a setting; use With for that.
func (c Config) Merge(o Config) Config {
	if o.Server.URL != "" { c.Server.URL = o.Server.URL }
	if o.Agent.Prefix != "" { c.Agent.Prefix = o.Agent.Prefix }
	if o.Stack.InstallPrefix != "" { c.Stack.InstallPrefix = o.Stack.InstallPrefix }
	if o.Puppet.PuppetHome != "" { c.Puppet.PuppetHome = o.Puppet.PuppetHome }
	if o.Puppet.FacterHome != "" { c.Puppet.FacterHome = o.Puppet.FacterHome }
	if o.Command.MaxRetries != 0 { c.Command.MaxRetries = o.Command.MaxRetries }
	if o.Command.SleepBetweenRetries != 0 { c.Command.SleepBetweenRetries = o.Command.SleepBetweenRetries }
	if o.Grep.Phrase != "" { c.Grep.Phrase = o.Grep.Phrase }
	if o.Grep.Before != 0 { c.Grep.Before = o.Grep.Before }
	if o.Grep.After != 0 { c.Grep.After = o.Grep.After }
	if o.Grep.Tail != 0 { c.Grep.Tail = o.Grep.Tail }
	return c
}

// YAML renders c as a YAML settings document.
func (c Config) YAML() ([]byte, error) {
	b, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("render yaml: %w", err)
	}
	return b, nil
}

// Validate performs minimal checks on settings that would otherwise fail
// later in less obvious ways.
func Validate(c Config) error {
	if strings.TrimSpace(c.Server.URL) == "" {
		return errors.New("config: server.url is required")
	}
	u, err := url.Parse(c.Server.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: server.url %q is not an absolute URL", c.Server.URL)
	}
	if c.Command.MaxRetries < 0 || c.Command.SleepBetweenRetries < 0 {
		return errors.New("config: negative retry settings are not allowed")
	}
	if c.Grep.Before < 0 || c.Grep.After < 0 || c.Grep.Tail < 0 {
		return errors.New("config: negative grep line counts are not allowed")
	}
	return nil
}
