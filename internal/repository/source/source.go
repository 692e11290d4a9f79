// Package source reads and builds stored document sources addressed by dotted paths.
//
// Backends return sources either nested ({"doc": {"text": ...}}) or flattened
// with dotted keys ({"doc.text": ...}); lookups accept both shapes.
package source

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/extsearch/internal/db"
)

// Lookup returns the value at a dotted path. A literal key wins over nesting.
func Lookup(src map[string]any, path string) (any, bool) {
	if src == nil || path == "" {
		return nil, false
	}
	if v, ok := src[path]; ok {
		return v, true
	}
	for i := 0; i < len(path); i++ {
		if path[i] != '.' {
			continue
		}
		sub, ok := src[path[:i]].(map[string]any)
		if !ok {
			continue
		}
		if v, ok := Lookup(sub, path[i+1:]); ok {
			return v, true
		}
	}
	return nil, false
}

// String returns the string at a dotted path. Non-string values are not converted.
func String(src map[string]any, path string) (string, bool) {
	v, ok := Lookup(src, path)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Mapping returns the flat string mapping stored under key, either as a nested
// object or as flattened "key.*" entries. It reports false when neither exists.
// Flattened stores keep an empty object as an empty string at key
// (db.EmptyObject); that reads as a present, empty mapping.
func Mapping(src map[string]any, key string) (map[string]string, bool) {
	if v, ok := Lookup(src, key); ok {
		switch m := v.(type) {
		case string:
			if m != db.EmptyObject {
				return nil, false
			}
			return map[string]string{}, true
		case map[string]any:
			out := make(map[string]string, len(m))
			for k, val := range m {
				if val == nil {
					continue
				}
				out[k] = scalar(val)
			}
			return out, true
		case map[string]string:
			out := make(map[string]string, len(m))
			for k, val := range m {
				out[k] = val
			}
			return out, true
		default:
			return nil, false
		}
	}

	prefix := key + "."
	var out map[string]string
	for k, val := range src {
		name, ok := strings.CutPrefix(k, prefix)
		if !ok || name == "" || val == nil {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[name] = scalar(val)
	}
	return out, out != nil
}

// Build assembles a nested source holding text at textPath and metadata under
// metadataKey. A nil metadata mapping is stored as an empty object.
func Build(textPath, text, metadataKey string, metadata map[string]string) map[string]any {
	src := make(map[string]any)
	set(src, textPath, text)

	meta := make(map[string]any, len(metadata))
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		meta[k] = metadata[k]
	}
	set(src, metadataKey, meta)
	return src
}

// Merge sets the value at a dotted path inside src, creating nested objects as
// needed, and returns src.
func Merge(src map[string]any, path string, v any) map[string]any {
	set(src, path, v)
	return src
}

func set(dst map[string]any, path string, v any) {
	parts := strings.Split(path, ".")
	for _, p := range parts[:len(parts)-1] {
		next, ok := dst[p].(map[string]any)
		if !ok {
			next = make(map[string]any)
			dst[p] = next
		}
		dst = next
	}
	dst[parts[len(parts)-1]] = v
}

func scalar(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
