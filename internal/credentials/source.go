package credentials

import (
	"context"
	"strings"
)

// Source tells where the active keys came from.
type Source int

const (
	SourceNone Source = iota
	SourceLocal
	SourceSystem
)

// Hint is the status line shown while a quiz is generating.
func (s Source) Hint() string {
	if s == SourceLocal {
		return "Using Local Storage APIs"
	}
	return "Using Internal System APIs"
}

func (s Source) String() string {
	switch s {
	case SourceLocal:
		return "local"
	case SourceSystem:
		return "system"
	default:
		return "none"
	}
}

// SystemKeys splits a comma-separated key list, dropping blanks.
func SystemKeys(raw string) []string {
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// Resolve picks the key list to generate with. Local keys take precedence
// over the system-wide set.
func Resolve(local, system []string) ([]string, Source) {
	switch {
	case len(local) > 0:
		return local, SourceLocal
	case len(system) > 0:
		return system, SourceSystem
	default:
		return nil, SourceNone
	}
}

// Provider resolves keys from a Keyring with a system fallback.
type Provider struct {
	Keyring *Keyring
	System  []string
}

// Credentials returns the active keys and their source.
func (p Provider) Credentials(ctx context.Context) ([]string, Source) {
	var local []string
	if p.Keyring != nil {
		local = p.Keyring.List(ctx)
	}
	return Resolve(local, p.System)
}
