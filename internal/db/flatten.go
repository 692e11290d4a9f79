package db

import (
	"fmt"
	"strings"
)

// EmptyObject is the value a flattened source holds at the path of an empty
// nested object, so the object stays distinguishable from a missing one.
const EmptyObject = ""

// Flatten writes nested maps as dotted keys. Nil leaves are skipped and other
// non-string leaves are formatted with %v.
func Flatten(src map[string]any) map[string]string {
	dst := make(map[string]string)
	flatten("", src, dst)
	return dst
}

func flatten(prefix string, src map[string]any, dst map[string]string) {
	for k, v := range src {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			if len(val) == 0 {
				dst[key] = EmptyObject
				continue
			}
			flatten(key, val, dst)
		case map[string]string:
			if len(val) == 0 {
				dst[key] = EmptyObject
				continue
			}
			for sk, sv := range val {
				dst[key+"."+sk] = sv
			}
		case string:
			dst[key] = val
		case nil:
		default:
			dst[key] = strings.TrimSpace(fmt.Sprint(val))
		}
	}
}
