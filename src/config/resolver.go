package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Tier is one precedence layer of configuration values.
// Presence in the map is what counts: a key set to "" or "0" still
// shadows every lower tier. Never test the value to decide presence.
type Tier map[Key]string

// Resolver answers per-key lookups across the four precedence tiers:
// command-line flags, document directives, settings file, built-in
// defaults. Tiers are fixed at construction; lookups are pure and
// cheap, so values are resolved lazily at each call site rather than
// materialized up front.
type Resolver struct {
	tiers [4]Tier
}

// NewResolver builds a resolver from the four tiers, highest
// precedence first. Nil tiers are treated as empty.
func NewResolver(cli, directives, file, defaults Tier) *Resolver {
	r := &Resolver{}
	for i, t := range []Tier{cli, directives, file, defaults} {
		if t == nil {
			t = Tier{}
		}
		r.tiers[i] = t
	}
	return r
}

// Lookup returns the highest-tier value for key. ok is false only
// when no tier has the key at all.
func (r *Resolver) Lookup(key Key) (string, bool) {
	for _, t := range r.tiers {
		if v, ok := t[key]; ok {
			return v, true
		}
	}
	return "", false
}

// String returns the resolved value, or fallback if no tier has it.
func (r *Resolver) String(key Key, fallback string) string {
	if v, ok := r.Lookup(key); ok {
		return v
	}
	return fallback
}

// Bool interprets the resolved value as a toggle. Absent keys are
// false; "0", "", "false" and "no" are false; anything else is true.
func (r *Resolver) Bool(key Key) bool {
	v, ok := r.Lookup(key)
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "false", "no":
		return false
	}
	return true
}

// Int returns the resolved value parsed as an integer, or fallback if
// no tier has the key. A set-but-unparsable value is an error.
func (r *Resolver) Int(key Key, fallback int) (int, error) {
	v, ok := r.Lookup(key)
	if !ok {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("config: %s: not a number: %q", key, v)
	}
	return n, nil
}

// Defaults returns the built-in lowest-precedence tier.
func Defaults() Tier {
	return Tier{
		KeyCPU:    "2",
		KeyRAM:    "4096",
		KeyDisk:   "20",
		KeyPool:   "default",
		KeyAgent:  "1",
		KeySSH:    "1",
		KeySerial: "1",
	}
}
