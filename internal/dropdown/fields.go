package dropdown

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// SelectedKey is the per-item property that pre-selects an item in multi mode.
const SelectedKey = "selected"

// Lookup returns the value stored under key in a record item. Maps are
// indexed directly; structs match the field name, then a toml, yaml or json
// tag, then the field name case-insensitively.
func Lookup(item Item, key string) (any, bool) {
	if item == nil || key == "" {
		return nil, false
	}
	v := reflect.ValueOf(item)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		val := v.MapIndex(reflect.ValueOf(key).Convert(v.Type().Key()))
		if !val.IsValid() {
			return nil, false
		}
		return val.Interface(), true
	case reflect.Struct:
		return lookupField(v, key)
	}
	return nil, false
}

func lookupField(v reflect.Value, key string) (any, bool) {
	t := v.Type()
	if f, ok := t.FieldByName(key); ok && f.IsExported() {
		return v.FieldByIndex(f.Index).Interface(), true
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		for _, tag := range []string{"toml", "yaml", "json"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name == key {
				return v.Field(i).Interface(), true
			}
		}
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.IsExported() && strings.EqualFold(f.Name, key) {
			return v.Field(i).Interface(), true
		}
	}
	return nil, false
}

// preselected reports whether item carries a true "selected" property.
func preselected(item Item) bool {
	v, ok := Lookup(item, SelectedKey)
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// Stringify renders an item or field value as display text. Records and
// lists render as JSON.
func Stringify(v any) string {
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return ""
	}

	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Pointer:
		if b, err := json.Marshal(v); err == nil {
			return string(b)
		}
	}
	return fmt.Sprint(v)
}

// identical is the default seed match: pointer identity for reference kinds,
// numeric value for numbers, == for other comparable values.
func identical(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if eq, ok := sameNumber(va, vb); ok {
		return eq
	}
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}
	return va.Comparable() && vb.Comparable() && a == b
}

// equalKeys compares two track-by values. Numbers compare by value whatever
// their Go type (a seed built in code holds int, decoded TOML holds int64).
// Other values that cannot be compared with == never match.
func equalKeys(a, b any) bool {
	if a == nil || b == nil {
		return false
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if eq, ok := sameNumber(va, vb); ok {
		return eq
	}
	if va.Type() != vb.Type() || !va.Comparable() || !vb.Comparable() {
		return false
	}
	return a == b
}

// sameNumber compares a and b by numeric value. ok is false unless both are
// numbers.
func sameNumber(a, b reflect.Value) (eq, ok bool) {
	ka, kb := numberKind(a), numberKind(b)
	if ka == reflect.Invalid || kb == reflect.Invalid {
		return false, false
	}
	switch {
	case ka == reflect.Int && kb == reflect.Int:
		return a.Int() == b.Int(), true
	case ka == reflect.Uint && kb == reflect.Uint:
		return a.Uint() == b.Uint(), true
	case ka == reflect.Int && kb == reflect.Uint:
		return a.Int() >= 0 && uint64(a.Int()) == b.Uint(), true
	case ka == reflect.Uint && kb == reflect.Int:
		return b.Int() >= 0 && uint64(b.Int()) == a.Uint(), true
	}
	return toFloat(a) == toFloat(b), true
}

// numberKind folds the sized numeric kinds into Int, Uint and Float64.
func numberKind(v reflect.Value) reflect.Kind {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return reflect.Int
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return reflect.Uint
	case reflect.Float32, reflect.Float64:
		return reflect.Float64
	}
	return reflect.Invalid
}

func toFloat(v reflect.Value) float64 {
	switch numberKind(v) {
	case reflect.Int:
		return float64(v.Int())
	case reflect.Uint:
		return float64(v.Uint())
	}
	return v.Float()
}
