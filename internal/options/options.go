// Package options describes the closed set of toolchain settings a program is
// type-checked under. Options values compare structurally, so two values built
// in different orders are interchangeable as cache keys.
package options

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"maps"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Options is the effective configuration of one type-check.
// The zero value means "ambient toolchain defaults".
type Options struct {
	GOOS       string
	GOARCH     string
	Tags       []string // set semantics: order and duplicates are irrelevant
	CgoEnabled *bool
	Env        map[string]string

	// ReportUnused keeps "declared and not used" / "imported and not used".
	ReportUnused bool
	// ReportMissingReturn keeps "missing return".
	ReportMissingReturn bool
}

// Equal reports structural equivalence: every field compares equal, with
// Tags compared as sets and Env compared key by key.
func (o Options) Equal(other Options) bool {
	if o.GOOS != other.GOOS || o.GOARCH != other.GOARCH {
		return false
	}
	if o.ReportUnused != other.ReportUnused || o.ReportMissingReturn != other.ReportMissingReturn {
		return false
	}
	if (o.CgoEnabled == nil) != (other.CgoEnabled == nil) {
		return false
	}
	if o.CgoEnabled != nil && *o.CgoEnabled != *other.CgoEnabled {
		return false
	}
	if !slices.Equal(normTags(o.Tags), normTags(other.Tags)) {
		return false
	}
	if len(o.Env) != len(other.Env) {
		return false
	}
	for k, v := range o.Env {
		ov, ok := other.Env[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of o.
func (o Options) Clone() Options {
	out := o
	if o.Tags != nil {
		out.Tags = slices.Clone(o.Tags)
	}
	if o.CgoEnabled != nil {
		v := *o.CgoEnabled
		out.CgoEnabled = &v
	}
	if o.Env != nil {
		out.Env = maps.Clone(o.Env)
	}
	return out
}

// WithCheckOverrides returns a copy with the unused and missing-return checks
// turned off. Snippets are checked outside their structural context, where
// those findings are noise.
func (o Options) WithCheckOverrides() Options {
	out := o.Clone()
	out.ReportUnused = false
	out.ReportMissingReturn = false
	return out
}

// Merge returns o with every non-zero field of over applied on top.
// Tags are unioned, Env entries of over win.
func (o Options) Merge(over Options) Options {
	out := o.Clone()
	if over.GOOS != "" {
		out.GOOS = over.GOOS
	}
	if over.GOARCH != "" {
		out.GOARCH = over.GOARCH
	}
	if len(over.Tags) > 0 {
		out.Tags = normTags(append(slices.Clone(out.Tags), over.Tags...))
	}
	if over.CgoEnabled != nil {
		v := *over.CgoEnabled
		out.CgoEnabled = &v
	}
	if len(over.Env) > 0 {
		if out.Env == nil {
			out.Env = make(map[string]string, len(over.Env))
		}
		for k, v := range over.Env {
			out.Env[k] = v
		}
	}
	out.ReportUnused = out.ReportUnused || over.ReportUnused
	out.ReportMissingReturn = out.ReportMissingReturn || over.ReportMissingReturn
	return out
}

// canonical is the encoding shape behind Fingerprint. Field order is fixed
// and tags are normalized so equal Options encode to equal bytes.
type canonical struct {
	GOOS                string            `msgpack:"goos"`
	GOARCH              string            `msgpack:"goarch"`
	Tags                []string          `msgpack:"tags"`
	Cgo                 int8              `msgpack:"cgo"` // -1 unset, 0 off, 1 on
	Env                 map[string]string `msgpack:"env"`
	ReportUnused        bool              `msgpack:"report_unused"`
	ReportMissingReturn bool              `msgpack:"report_missing_return"`
}

// Fingerprint returns a hex sha256 digest of a canonical msgpack encoding of o.
// Equal options always share a fingerprint.
func (o Options) Fingerprint() string {
	c := canonical{
		GOOS:                o.GOOS,
		GOARCH:              o.GOARCH,
		Tags:                normTags(o.Tags),
		Cgo:                 -1,
		Env:                 o.Env,
		ReportUnused:        o.ReportUnused,
		ReportMissingReturn: o.ReportMissingReturn,
	}
	if c.Env == nil {
		c.Env = map[string]string{}
	}
	if o.CgoEnabled != nil {
		c.Cgo = 0
		if *o.CgoEnabled {
			c.Cgo = 1
		}
	}

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(&c); err != nil {
		// canonical only holds strings, bools and ints
		panic(fmt.Errorf("options fingerprint: %w", err))
	}
	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:])
}

// BuildFlags renders the options as go command build flags.
func (o Options) BuildFlags() []string {
	tags := normTags(o.Tags)
	if len(tags) == 0 {
		return nil
	}
	return []string{"-tags=" + strings.Join(tags, ",")}
}

// Environ renders the environment overrides as KEY=VALUE pairs in key order.
// Unset fields are omitted so the ambient environment applies.
func (o Options) Environ() []string {
	var env []string
	if o.GOOS != "" {
		env = append(env, "GOOS="+o.GOOS)
	}
	if o.GOARCH != "" {
		env = append(env, "GOARCH="+o.GOARCH)
	}
	if o.CgoEnabled != nil {
		env = append(env, "CGO_ENABLED="+boolDigit(*o.CgoEnabled))
	}
	keys := slices.Collect(maps.Keys(o.Env))
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+o.Env[k])
	}
	return env
}

// String is a compact, deterministic rendering for logs.
func (o Options) String() string {
	var parts []string
	if o.GOOS != "" || o.GOARCH != "" {
		parts = append(parts, o.GOOS+"/"+o.GOARCH)
	}
	if tags := normTags(o.Tags); len(tags) > 0 {
		parts = append(parts, "tags="+strings.Join(tags, ","))
	}
	if o.CgoEnabled != nil {
		parts = append(parts, "cgo="+strconv.FormatBool(*o.CgoEnabled))
	}
	if len(o.Env) > 0 {
		parts = append(parts, "env="+strconv.Itoa(len(o.Env)))
	}
	if o.ReportUnused {
		parts = append(parts, "unused")
	}
	if o.ReportMissingReturn {
		parts = append(parts, "missing-return")
	}
	if len(parts) == 0 {
		return "default"
	}
	return strings.Join(parts, " ")
}

// Bool returns a pointer to v, for CgoEnabled literals.
func Bool(v bool) *bool {
	return &v
}

func normTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	sort.Strings(out)
	out = slices.Compact(out)
	if len(out) == 0 {
		return nil
	}
	return out
}

func boolDigit(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
