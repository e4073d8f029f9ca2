// SPDX-License-Identifier: GPL-3.0-or-later

package fiostatus

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/valyala/fastjson"
)

// parseDocument decodes fio-status JSON output.
func parseDocument(data []byte) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty output", ErrParse)
	}

	var p fastjson.Parser

	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if v.Type() != fastjson.TypeObject {
		return nil, fmt.Errorf("%w: unexpected top level type '%s'", ErrParse, v.Type())
	}

	root, err := newValue(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	return newDocument(root), nil
}

func newValue(v *fastjson.Value) (Value, error) {
	switch v.Type() {
	case fastjson.TypeObject:
		return newRecord(v)
	case fastjson.TypeArray:
		return newSequence(v)
	case fastjson.TypeString:
		return Value{kind: KindScalar, text: string(v.GetStringBytes())}, nil
	case fastjson.TypeNumber, fastjson.TypeTrue, fastjson.TypeFalse, fastjson.TypeNull:
		return Value{kind: KindScalar, text: v.String()}, nil
	default:
		return Value{}, fmt.Errorf("unexpected JSON type '%s'", v.Type())
	}
}

func newRecord(v *fastjson.Value) (Value, error) {
	obj, err := v.Object()
	if err != nil {
		return Value{}, err
	}

	rec := Value{kind: KindRecord, text: v.String()}
	idx := make(map[string]int, obj.Len())

	var errs []error
	obj.Visit(func(key []byte, fv *fastjson.Value) {
		val, err := newValue(fv)
		if err != nil {
			errs = append(errs, err)
			return
		}
		name := string(key)
		// duplicate member names: the last value wins, the first position is kept
		if i, ok := idx[name]; ok {
			rec.fields[i].Value = val
			return
		}
		idx[name] = len(rec.fields)
		rec.fields = append(rec.fields, Field{Name: name, Value: val})
	})

	return rec, errors.Join(errs...)
}

func newSequence(v *fastjson.Value) (Value, error) {
	arr, err := v.Array()
	if err != nil {
		return Value{}, err
	}

	seq := Value{kind: KindSequence, text: v.String(), items: make([]Value, 0, len(arr))}

	for _, av := range arr {
		item, err := newValue(av)
		if err != nil {
			return Value{}, err
		}
		seq.items = append(seq.items, item)
	}

	return seq, nil
}
