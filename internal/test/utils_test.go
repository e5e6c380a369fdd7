// Copyright 2016 Aleksandr Demakin. All rights reserved.

package ipc_testing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWaitForFunc(t *testing.T) {
	a := assert.New(t)
	a.True(WaitForFunc(func() {}, time.Second))
	block := make(chan struct{})
	defer close(block)
	a.False(WaitForFunc(func() { <-block }, time.Millisecond*10))
}

func TestWaitForAppResultChan(t *testing.T) {
	a := assert.New(t)
	ch := make(chan TestAppResult, 1)
	_, ok := WaitForAppResultChan(ch, time.Millisecond*10)
	a.False(ok)
	ch <- TestAppResult{Output: "done"}
	result, ok := WaitForAppResultChan(ch, time.Second)
	a.True(ok)
	a.Equal("done", result.Output)
}

func TestRunTestAppNoProgram(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping 'go run' in short mode")
	}
	a := assert.New(t)
	result := RunTestApp([]string{"./no-such-program.go"})
	a.Error(result.Err)
}
