// Package freeze deep-copies values stored in frozen context fields so that
// no reference handed out by a context can reach the stored data.
package freeze

import (
	"reflect"
	"unsafe"
)

// ref identifies a pointer target. Pointers of different types may share an
// address (a struct and its first field), so the type is part of the key.
type ref struct {
	addr uintptr
	typ  reflect.Type
}

// Copy returns a deep copy of v. Map values, slices, arrays, pointers,
// interfaces and struct fields, exported or not, are copied recursively.
// Funcs, channels and unsafe pointers are shared. Pointer cycles are
// preserved.
func Copy(v any) any {
	if v == nil {
		return nil
	}
	src := reflect.ValueOf(v)
	dst := copyValue(src, make(map[ref]reflect.Value))
	return dst.Interface()
}

func copyValue(src reflect.Value, seen map[ref]reflect.Value) reflect.Value {
	switch src.Kind() {
	case reflect.Ptr:
		if src.IsNil() {
			return src
		}
		key := ref{addr: src.Pointer(), typ: src.Type()}
		if dup, ok := seen[key]; ok {
			return dup
		}
		dst := reflect.New(src.Elem().Type())
		seen[key] = dst
		dst.Elem().Set(copyValue(src.Elem(), seen))
		return dst

	case reflect.Interface:
		if src.IsNil() {
			return src
		}
		dst := reflect.New(src.Type()).Elem()
		dst.Set(copyValue(src.Elem(), seen))
		return dst

	case reflect.Map:
		if src.IsNil() {
			return src
		}
		dst := reflect.MakeMapWithSize(src.Type(), src.Len())
		iter := src.MapRange()
		for iter.Next() {
			dst.SetMapIndex(iter.Key(), copyValue(iter.Value(), seen))
		}
		return dst

	case reflect.Slice:
		if src.IsNil() {
			return src
		}
		dst := reflect.MakeSlice(src.Type(), src.Len(), src.Len())
		for i := 0; i < src.Len(); i++ {
			dst.Index(i).Set(copyValue(src.Index(i), seen))
		}
		return dst

	case reflect.Array:
		dst := reflect.New(src.Type()).Elem()
		for i := 0; i < src.Len(); i++ {
			dst.Index(i).Set(copyValue(src.Index(i), seen))
		}
		return dst

	case reflect.Struct:
		if !src.CanAddr() {
			addressable := reflect.New(src.Type()).Elem()
			addressable.Set(src)
			src = addressable
		}
		dst := reflect.New(src.Type()).Elem()
		for i := 0; i < src.NumField(); i++ {
			field(dst, i).Set(copyValue(field(src, i), seen))
		}
		return dst

	default:
		return src
	}
}

// field returns the i-th field of the addressable struct v with the
// read-only flag of unexported fields cleared.
func field(v reflect.Value, i int) reflect.Value {
	f := v.Field(i)
	if f.CanSet() {
		return f
	}
	return reflect.NewAt(f.Type(), unsafe.Pointer(f.UnsafeAddr())).Elem()
}
