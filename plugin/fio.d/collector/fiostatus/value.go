// SPDX-License-Identifier: GPL-3.0-or-later

package fiostatus

type Kind uint8

const (
	KindScalar Kind = iota
	KindSequence
	KindRecord
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindRecord:
		return "record"
	default:
		return "unknown"
	}
}

// Value is one node of the status report.
//
// Scalars keep their textual form (strings unquoted, numbers as written,
// true/false/null as JSON literals). Sequences and records also keep their
// compact JSON text, which is what gets emitted when a compound value
// ends up in a metric.
type Value struct {
	kind   Kind
	text   string
	items  []Value
	fields []Field
}

// Field is a named record member. Records keep document field order.
type Field struct {
	Name  string
	Value Value
}

func (v Value) Kind() Kind       { return v.kind }
func (v Value) IsScalar() bool   { return v.kind == KindScalar }
func (v Value) IsSequence() bool { return v.kind == KindSequence }
func (v Value) IsRecord() bool   { return v.kind == KindRecord }

// Text returns the metric value form of v.
func (v Value) Text() string { return v.text }

// Items returns sequence elements; nil for other kinds.
func (v Value) Items() []Value { return v.items }

// Fields returns record members; nil for other kinds.
func (v Value) Fields() []Field { return v.fields }

// Get looks up a record member.
func (v Value) Get(name string) (Value, bool) {
	for _, f := range v.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// list returns the elements of the sequence member name, or nil if
// the member is missing or isn't a sequence.
func (v Value) list(name string) []Value {
	if lv, ok := v.Get(name); ok && lv.IsSequence() {
		return lv.items
	}
	return nil
}

// records is list filtered down to record elements.
func (v Value) records(name string) []Value {
	var rs []Value
	for _, item := range v.list(name) {
		if item.IsRecord() {
			rs = append(rs, item)
		}
	}
	return rs
}

// identity returns the device_path member text, empty if absent.
func (v Value) identity() string {
	if id, ok := v.Get(fieldDevicePath); ok {
		return id.Text()
	}
	return ""
}
