package query

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

// maxEncodeDepth bounds nested-map expansion so that self-referencing values
// fail instead of recursing forever.
const maxEncodeDepth = 8

// Encode serializes a key/value map into a form-encoded query string.
//
// The scheme is stable and backend compatibility depends on it: keys are
// emitted in sorted order, list values become repeated keys (id=1&id=2) and
// nested maps become bracketed keys (range[start]=...). Unsupported value
// kinds and over-deep nesting return an error.
func Encode(values map[string]any) (string, error) {
	if len(values) == 0 {
		return "", nil
	}

	var pairs []string
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		encoded, err := encodeValue(k, values[k], 0)
		if err != nil {
			return "", err
		}
		pairs = append(pairs, encoded...)
	}

	return strings.Join(pairs, "&"), nil
}

func encodeValue(key string, value any, depth int) ([]string, error) {
	if depth > maxEncodeDepth {
		return nil, fmt.Errorf("query key %q: nesting exceeds %d levels", key, maxEncodeDepth)
	}
	if value == nil {
		return []string{url.QueryEscape(key) + "="}, nil
	}

	switch v := value.(type) {
	case string:
		return []string{pair(key, v)}, nil
	case bool:
		return []string{pair(key, strconv.FormatBool(v))}, nil
	case time.Time:
		return []string{pair(key, v.UTC().Format(time.RFC3339))}, nil
	case fmt.Stringer:
		return []string{pair(key, v.String())}, nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return []string{pair(key, strconv.FormatInt(rv.Int(), 10))}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return []string{pair(key, strconv.FormatUint(rv.Uint(), 10))}, nil
	case reflect.Float32, reflect.Float64:
		return []string{pair(key, strconv.FormatFloat(rv.Float(), 'f', -1, 64))}, nil
	case reflect.Slice, reflect.Array:
		var pairs []string
		for i := 0; i < rv.Len(); i++ {
			encoded, err := encodeValue(key, rv.Index(i).Interface(), depth+1)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, encoded...)
		}
		return pairs, nil
	case reflect.Map:
		subKeys := make([]string, 0, rv.Len())
		subValues := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			sk := fmt.Sprintf("%v", iter.Key().Interface())
			subKeys = append(subKeys, sk)
			subValues[sk] = iter.Value().Interface()
		}
		sort.Strings(subKeys)

		var pairs []string
		for _, sk := range subKeys {
			encoded, err := encodeValue(key+"["+sk+"]", subValues[sk], depth+1)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, encoded...)
		}
		return pairs, nil
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return []string{url.QueryEscape(key) + "="}, nil
		}
		return encodeValue(key, rv.Elem().Interface(), depth+1)
	default:
		return nil, fmt.Errorf("query key %q: cannot encode value of type %T", key, value)
	}
}

func pair(key, value string) string {
	return url.QueryEscape(key) + "=" + url.QueryEscape(value)
}
