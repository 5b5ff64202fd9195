// internal/config/error.go
package config

import (
	"fmt"
	"strings"
)

// ConfigError reports every problem found in a config file at once, so a
// user can fix them in one edit.
type ConfigError struct {
	Path    string
	Missing []string // unresolved ${VAR} references, "NAME" or "NAME: message"
	Errors  []string // validation failures, "section.key: problem"
}

func (e *ConfigError) Error() string {
	if !e.HasErrors() {
		return ""
	}
	var b strings.Builder
	if e.Path != "" {
		b.WriteString(e.Path)
	} else {
		b.WriteString("config")
	}
	b.WriteString(":")
	for _, m := range e.Missing {
		fmt.Fprintf(&b, "\n  unset environment variable %s", m)
	}
	for _, v := range e.Errors {
		fmt.Fprintf(&b, "\n  %s", v)
	}
	return b.String()
}

// HasErrors reports whether anything was recorded.
func (e *ConfigError) HasErrors() bool {
	return len(e.Missing) > 0 || len(e.Errors) > 0
}
