/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Marshal renders v in compact JSON. Object members are written in insertion
// order and decimal literals verbatim, so the output is deterministic and
// reproduces externally-produced bytes after an Unmarshal round trip.
func Marshal(v Value) ([]byte, error) {
	return appendValue(nil, v)
}

func appendValue(buf []byte, v Value) ([]byte, error) {
	switch tv := v.(type) {
	case Null:
		return append(buf, "null"...), nil
	case Bool:
		return strconv.AppendBool(buf, bool(tv)), nil
	case Integer:
		return strconv.AppendInt(buf, int64(tv), 10), nil
	case Decimal:
		if tv == "" {
			return nil, errors.New("empty decimal literal")
		}

		return append(buf, string(tv)...), nil
	case String:
		return appendString(buf, string(tv)), nil
	case Sequence:
		buf = append(buf, '[')

		for i := range tv {
			if i > 0 {
				buf = append(buf, ',')
			}

			var err error

			buf, err = appendValue(buf, tv[i])
			if err != nil {
				return nil, err
			}
		}

		return append(buf, ']'), nil
	case *Object:
		buf = append(buf, '{')

		for i, k := range tv.keys {
			if i > 0 {
				buf = append(buf, ',')
			}

			buf = appendString(buf, k)
			buf = append(buf, ':')

			var err error

			buf, err = appendValue(buf, tv.values[k])
			if err != nil {
				return nil, err
			}
		}

		return append(buf, '}'), nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

func appendString(buf []byte, s string) []byte {
	// encoding/json never fails on a string input
	b, _ := json.Marshal(s) // nolint:errcheck

	return append(buf, b...)
}

// Unmarshal parses JSON bytes into a Value, preserving object member order.
func Unmarshal(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected content after JSON value")
	}

	return v, nil
}

// UnmarshalObject parses JSON bytes that must hold a JSON object.
func UnmarshalObject(data []byte) (*Object, error) {
	v, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}

	obj, ok := v.(*Object)
	if !ok {
		return nil, fmt.Errorf("expected JSON object, got %s", v.Kind())
	}

	return obj, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	return decodeFromToken(dec, tok)
}

func decodeFromToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeSequence(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t.String())
		}
	case nil:
		return Null{}, nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return numberValue(t), nil
	case string:
		return String(t), nil
	default:
		return nil, fmt.Errorf("unexpected JSON token %v", tok)
	}
}

func decodeObject(dec *json.Decoder) (*Object, error) {
	obj := NewObject()

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}

		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key token %v", keyTok)
		}

		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}

		obj.Set(key, v)
	}

	// consume closing brace
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	return obj, nil
}

func decodeSequence(dec *json.Decoder) (Sequence, error) {
	seq := Sequence{}

	for dec.More() {
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}

		seq = append(seq, v)
	}

	// consume closing bracket
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	return seq, nil
}

func numberValue(n json.Number) Value {
	if !strings.ContainsAny(n.String(), ".eE") {
		if i, err := n.Int64(); err == nil {
			return Integer(i)
		}
	}

	return Decimal(n)
}

// FromInterface converts a decoded host document element into a Value. The
// conversion is total over the kinds produced by encoding/json and returns a
// deep copy owned by the caller.
func FromInterface(v interface{}) (Value, error) {
	switch tv := v.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(tv), nil
	case string:
		return String(tv), nil
	case json.Number:
		return numberValue(tv), nil
	case int:
		return Integer(tv), nil
	case int32:
		return Integer(tv), nil
	case int64:
		return Integer(tv), nil
	case float64:
		if tv == math.Trunc(tv) && math.Abs(tv) <= 1<<53 {
			return Integer(int64(tv)), nil
		}

		return Decimal(strconv.FormatFloat(tv, 'g', -1, 64)), nil
	case []interface{}:
		seq := make(Sequence, len(tv))

		for i := range tv {
			cv, err := FromInterface(tv[i])
			if err != nil {
				return nil, err
			}

			seq[i] = cv
		}

		return seq, nil
	case map[string]interface{}:
		// iteration order of native maps is undefined; sort keys so the
		// conversion is deterministic
		keys := make([]string, 0, len(tv))
		for k := range tv {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		obj := NewObject()

		for _, k := range keys {
			cv, err := FromInterface(tv[k])
			if err != nil {
				return nil, err
			}

			obj.Set(k, cv)
		}

		return obj, nil
	case Value:
		return Copy(tv), nil
	default:
		return nil, fmt.Errorf("unsupported document element type %T", v)
	}
}

// ToInterface converts a Value back into generic document elements. Object
// member order is not representable in a native map and is lost.
func ToInterface(v Value) interface{} {
	switch tv := v.(type) {
	case Null:
		return nil
	case Bool:
		return bool(tv)
	case Integer:
		return int64(tv)
	case Decimal:
		return json.Number(tv)
	case String:
		return string(tv)
	case Sequence:
		out := make([]interface{}, len(tv))
		for i := range tv {
			out[i] = ToInterface(tv[i])
		}

		return out
	case *Object:
		out := make(map[string]interface{}, tv.Len())
		for _, k := range tv.keys {
			out[k] = ToInterface(tv.values[k])
		}

		return out
	default:
		return nil
	}
}
