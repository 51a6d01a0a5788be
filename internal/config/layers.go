package config

import (
	"errors"
	"fmt"
	"os"

	"dario.cat/mergo"
	"github.com/pelletier/go-toml/v2"
)

// FlatConfig is the flattened key→value view produced by [Builder.Build].
// Keys are dotted paths mirroring the TOML tables ("bitcoind.rpchost",
// "v2.ohttp_relay", ...). Values are strings for defaults and CLI
// overrides, and whatever the TOML decoder produced for file values.
type FlatConfig map[string]any

// Builder accumulates configuration layers without resolving them.
// Each layer is a sparse mapping holding only the keys it actually sets,
// so an omitted flag never clobbers a value from a lower layer.
//
// Methods are chainable and carry a sticky error that surfaces on Build.
type Builder struct {
	defaults  FlatConfig
	file      FlatConfig
	overrides FlatConfig
	err       error
}

func NewBuilder() *Builder {
	return &Builder{
		defaults:  make(FlatConfig),
		file:      make(FlatConfig),
		overrides: make(FlatConfig),
	}
}

// SetDefault seeds a compiled-in default for key, the lowest-precedence
// layer.
func (b *Builder) SetDefault(key string, value any) *Builder {
	b.defaults[key] = value
	return b
}

// SetOverrideOption records a command-line override for key. A nil value
// means the flag was not supplied and the call is a no-op, preserving
// whatever a lower layer set.
func (b *Builder) SetOverrideOption(key string, value *string) *Builder {
	if value == nil {
		return b
	}
	b.overrides[key] = *value
	return b
}

// AddFileSource reads a TOML file into the middle layer. A missing file is
// an error only when required is true; a present but malformed file is
// always an error.
func (b *Builder) AddFileSource(path string, required bool) *Builder {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return b
		}
		b.err = errors.Join(b.err, wrapConfigError(err, "failed to read config file %q", path))
		return b
	}

	var tree map[string]any
	if err := toml.Unmarshal(data, &tree); err != nil {
		b.err = errors.Join(b.err, wrapConfigError(err, "malformed config file %q", path))
		return b
	}

	flattenInto(b.file, "", tree)
	return b
}

// Build merges the accumulated layers into one flat view, lowest
// precedence first, so defaults < file < command-line overrides.
func (b *Builder) Build() (FlatConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	flat := make(FlatConfig, len(b.defaults)+len(b.file)+len(b.overrides))
	for _, layer := range []FlatConfig{b.defaults, b.file, b.overrides} {
		if err := mergo.Merge(&flat, layer, mergo.WithOverride, mergo.WithOverwriteWithEmptyValue); err != nil {
			return nil, fmt.Errorf("error merging config layers: %w", err)
		}
	}

	return flat, nil
}

// flattenInto collapses nested TOML tables into dotted keys.
func flattenInto(out FlatConfig, prefix string, tree map[string]any) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok {
			flattenInto(out, key, sub)
			continue
		}
		out[key] = v
	}
}
