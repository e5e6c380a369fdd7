// Copyright 2015 Aleksandr Demakin. All rights reserved.

package allocator

import (
	"reflect"
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestCheckPlainType(t *testing.T) {
	type validStruct struct {
		a, b int
		u    uintptr
		s    struct {
			arr [3]int
		}
	}
	type invalidStruct1 struct {
		a, b *int
	}
	type invalidStruct2 struct {
		a, b []int
	}
	type invalidStruct3 struct {
		s string
	}
	type invalidStruct4 struct {
		p unsafe.Pointer
	}
	typeOf := func(v interface{}) reflect.Type {
		return reflect.TypeOf(v)
	}
	a := assert.New(t)
	a.NoError(CheckPlainType(typeOf(int(0))))
	a.NoError(CheckPlainType(typeOf(complex128(0))))
	a.NoError(CheckPlainType(typeOf([3]int{})))
	a.NoError(CheckPlainType(typeOf(validStruct{})))
	a.NoError(CheckPlainType(typeOf(sync.Mutex{})))

	a.Error(CheckPlainType(nil))
	a.Error(CheckPlainType(typeOf(struct{}{})))
	a.Error(CheckPlainType(typeOf(invalidStruct1{})))
	a.Error(CheckPlainType(typeOf(invalidStruct2{})))
	a.Error(CheckPlainType(typeOf(invalidStruct3{})))
	a.Error(CheckPlainType(typeOf(invalidStruct4{})))
	a.Error(CheckPlainType(typeOf([3]string{})))
	a.Error(CheckPlainType(typeOf(map[int]int{})))
	a.Error(CheckPlainType(typeOf([]int{})))
	a.Error(CheckPlainType(typeOf(new(int))))
}

func TestCheckPlainTypeReportsField(t *testing.T) {
	type withString struct {
		id   int
		name string
	}
	err := CheckPlainType(reflect.TypeOf(withString{}))
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "field name")
	}
}

func TestByteSliceFromUnsafePointer(t *testing.T) {
	a := assert.New(t)
	var i = 0x01027FFF
	data := ByteSliceFromUnsafePointer(unsafe.Pointer(&i), int(unsafe.Sizeof(i)), int(unsafe.Sizeof(i)))
	a.Equal(int(unsafe.Sizeof(i)), len(data))
	a.Equal(unsafe.Pointer(&i), ByteSliceData(data))
	Zero(data)
	a.Equal(0, i)
	a.Nil(ByteSliceData(nil))
}
