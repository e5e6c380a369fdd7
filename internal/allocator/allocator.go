// Copyright 2015 Aleksandr Demakin. All rights reserved.

package allocator

import (
	"reflect"
	"runtime"
	"unsafe"

	"github.com/pkg/errors"
)

// ByteSliceData returns a pointer to the data of the given byte slice.
func ByteSliceData(slice []byte) unsafe.Pointer {
	if cap(slice) == 0 {
		return nil
	}
	return unsafe.Pointer(unsafe.SliceData(slice))
}

// ByteSliceFromUnsafePointer returns a slice of bytes with given length and capacity.
// Memory pointed by the unsafe.Pointer is used for the slice.
func ByteSliceFromUnsafePointer(memory unsafe.Pointer, length, capacity int) []byte {
	return unsafe.Slice((*byte)(memory), capacity)[:length]
}

// Zero fills the slice with zeroes.
func Zero(data []byte) {
	for i := range data {
		data[i] = 0
	}
}

// CheckPlainType checks if values of type t can be shared between processes
// by aliasing raw memory. Such a type must not contain any references:
// pointers, slices, strings, maps, interfaces, channels and funcs are rejected
// at any depth, as well as zero-sized types.
func CheckPlainType(t reflect.Type) error {
	if t == nil {
		return errors.New("nil type")
	}
	if t.Size() == 0 {
		return errors.Errorf("type %s has zero size", t)
	}
	if err := checkType(t); err != nil {
		return errors.Wrapf(err, "type %s is not plain data", t)
	}
	return nil
}

func checkType(t reflect.Type) error {
	switch kind := t.Kind(); kind {
	case reflect.Array:
		return checkType(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if err := checkType(field.Type); err != nil {
				return errors.Wrapf(err, "field %s", field.Name)
			}
		}
		return nil
	default:
		return checkNumericType(kind)
	}
}

func checkNumericType(kind reflect.Kind) error {
	if kind >= reflect.Bool && kind <= reflect.Complex128 {
		return nil
	}
	return errors.Errorf("unsupported type %q", kind.String())
}

// Use ensures, that p is kept live until that point.
func Use(p unsafe.Pointer) {
	runtime.KeepAlive(p)
}
