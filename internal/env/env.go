// Package env models the environment handed to child processes.
//
// An Env is an immutable snapshot: every modifier returns a new value and the
// process environment is never touched, so two builds in the same process
// cannot leak variables into each other.
package env

import (
	"os"
	"runtime"
	"sort"
	"strings"
)

// Env is an immutable set of environment variables.
type Env struct {
	vars map[string]string
}

// FromOS snapshots the current process environment.
func FromOS() Env {
	return FromList(os.Environ())
}

// FromList builds an Env from "KEY=VALUE" entries. Later entries win.
func FromList(list []string) Env {
	vars := make(map[string]string, len(list))
	for _, kv := range list {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			vars[normKey(k)] = v
		}
	}
	return Env{vars: vars}
}

// Get returns the value of key, or "" when unset.
func (e Env) Get(key string) string {
	return e.vars[normKey(key)]
}

// With returns a copy of e with key set to value.
func (e Env) With(key, value string) Env {
	out := e.clone()
	out.vars[normKey(key)] = value
	return out
}

// Merge returns a copy of e with every entry of override applied.
func (e Env) Merge(override map[string]string) Env {
	out := e.clone()
	for k, v := range override {
		out.vars[normKey(k)] = v
	}
	return out
}

// AppendFlag returns a copy of e with flag appended to the space-separated
// value of key.
func (e Env) AppendFlag(key, flag string) Env {
	if cur := e.Get(key); cur != "" {
		flag = cur + " " + flag
	}
	return e.With(key, flag)
}

// List returns the variables as sorted "KEY=VALUE" entries, ready for exec.Cmd.Env.
func (e Env) List() []string {
	keys := make([]string, 0, len(e.vars))
	for k := range e.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+e.vars[k])
	}
	return out
}

func (e Env) clone() Env {
	vars := make(map[string]string, len(e.vars)+1)
	for k, v := range e.vars {
		vars[k] = v
	}
	return Env{vars: vars}
}

// Windows treats variable names case-insensitively.
func normKey(k string) string {
	if runtime.GOOS == "windows" {
		return strings.ToUpper(k)
	}
	return k
}
