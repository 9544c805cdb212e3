package logging

import (
	"maps"
	"slices"
	"strings"
	"time"
)

// Sink names accepted in Config.EnabledSinks.
const (
	SinkConsole = "console"
	SinkJSON    = "json"
	SinkMemory  = "memory"
)

// Config selects the sinks and filtering of a Router.
type Config struct {
	EnabledSinks []string
	// BufferSize bounds the router queue; each sink backlog is clamped to
	// [32, 1024] around it.
	BufferSize      int
	MinimumSeverity Severity
	// Fields are merged into every event's Extra without overriding keys the
	// event already sets.
	Fields           map[string]any
	JSON             JSONConfig
	Console          ConsoleConfig
	DropWarnInterval time.Duration
}

type JSONConfig struct {
	// FilePath appends to a file; empty writes to stdout.
	FilePath      string
	FlushInterval time.Duration
}

type ConsoleConfig struct {
	// ShowDebug prints debug events that pass the router's severity filter.
	ShowDebug bool
}

// DefaultConfig logs info and above to the console.
func DefaultConfig() Config {
	return Config{
		EnabledSinks:     []string{SinkConsole},
		BufferSize:       defaultQueueSize,
		MinimumSeverity:  SeverityInfo,
		DropWarnInterval: defaultDropWarnIn,
		JSON:             JSONConfig{FlushInterval: 2 * time.Second},
	}
}

func (c Config) normalized() Config {
	if c.BufferSize <= 0 {
		c.BufferSize = defaultQueueSize
	}
	if c.DropWarnInterval <= 0 {
		c.DropWarnInterval = defaultDropWarnIn
	}
	if c.MinimumSeverity < SeverityDebug || c.MinimumSeverity > SeverityError {
		c.MinimumSeverity = SeverityInfo
	}
	c.Fields = c.CloneFields()
	return c
}

// ParseSinks splits a comma separated sink list, lower-casing names and
// dropping blanks and duplicates.
func ParseSinks(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name != "" && !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}

func (c Config) HasSink(name string) bool {
	return slices.Contains(c.EnabledSinks, name)
}

func (c Config) CloneFields() map[string]any {
	if len(c.Fields) == 0 {
		return nil
	}
	return maps.Clone(c.Fields)
}
