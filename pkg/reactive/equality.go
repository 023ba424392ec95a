package reactive

import "reflect"

// defaultEquals provides strict equality checking for Cell and Computed
// values: == for primitives (treating NaN as equal to itself so repeated
// NaN writes don't retrigger dependents), identity for reference-shaped
// values. A distinct map or slice with equal contents is a different
// value and must trigger; callers wanting structural comparison opt in
// via WithEquals(reflect.DeepEqual) or their own function.
func defaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		return av == any(b).(int)
	case int8:
		return av == any(b).(int8)
	case int16:
		return av == any(b).(int16)
	case int32:
		return av == any(b).(int32)
	case int64:
		return av == any(b).(int64)
	case uint:
		return av == any(b).(uint)
	case uint8:
		return av == any(b).(uint8)
	case uint16:
		return av == any(b).(uint16)
	case uint32:
		return av == any(b).(uint32)
	case uint64:
		return av == any(b).(uint64)
	case float32:
		bv := any(b).(float32)
		return av == bv || (av != av && bv != bv)
	case float64:
		bv := any(b).(float64)
		return av == bv || (av != av && bv != bv)
	case string:
		return av == any(b).(string)
	case bool:
		return av == any(b).(bool)
	default:
		return sameValue(any(a), any(b))
	}
}

// sameValue is the strict, NaN-safe comparison used by container writes:
// value equality for primitives (two NaNs compare equal to suppress
// spurious triggers), identity for reference-shaped values.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		if !ok {
			return false
		}
		return av == bv || (av != av && bv != bv)
	case float32:
		bv, ok := b.(float32)
		if !ok {
			return false
		}
		return av == bv || (av != av && bv != bv)
	}

	ra := reflect.ValueOf(a)
	rb := reflect.ValueOf(b)
	if ra.Kind() != rb.Kind() {
		return false
	}

	switch ra.Kind() {
	case reflect.Map, reflect.Slice, reflect.Func, reflect.Chan,
		reflect.Pointer, reflect.UnsafePointer:
		return ra.Pointer() == rb.Pointer()
	}

	if ra.Comparable() && rb.Comparable() {
		return a == b
	}
	return false
}

// isRefLike reports whether v is a reference-shaped value. Watchers
// treat reference-shaped results as potentially changed, since in-place
// mutation does not change identity but may change nested content.
func isRefLike(v any) bool {
	if v == nil {
		return false
	}
	switch v.(type) {
	case *Store, *List:
		return true
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer, reflect.Struct, reflect.Func:
		return true
	}
	return false
}
