// Copyright 2016 Aleksandr Demakin. All rights reserved.

// This program plays the responder side of a region for cross-process tests.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/nxgtw/shmregion"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

var (
	objName = flag.String("object", "", "region name")
	timeout = flag.Duration("timeout", time.Minute, "time to wait for a request")
	rounds  = flag.Int("rounds", 1, "number of requests to serve")
)

const usage = `  test program for shared regions.
available commands:
  inc
    opens an int32 region with SyncBoth tier, waits for a request,
    increments the first element under the lock and signals the response.
  test {expected}
    opens an int32 region with SyncNone tier and compares the first element with expected.
`

func inc() error {
	if flag.NArg() != 1 {
		return errors.New("inc: must not have arguments")
	}
	region, err := shmregion.Open[int32](*objName, shmregion.SyncBoth, nil)
	if err != nil {
		return err
	}
	defer region.Close()
	for i := 0; i < *rounds; i++ {
		if !region.WaitRequestTimeout(*timeout) {
			return errors.Errorf("no request in %v", *timeout)
		}
		err = shmregion.WithLock(region, func() error {
			*region.Get()++
			return nil
		})
		if err != nil {
			return err
		}
		region.SignalResponse()
	}
	return nil
}

func test() error {
	if flag.NArg() != 2 {
		return errors.New("test: must provide exactly one argument")
	}
	var expected int32
	if _, err := fmt.Sscanf(flag.Arg(1), "%d", &expected); err != nil {
		return errors.Wrap(err, "invalid expected value")
	}
	region, err := shmregion.Open[int32](*objName, shmregion.SyncNone, nil)
	if err != nil {
		return err
	}
	defer region.Close()
	if actual := *region.Get(); actual != expected {
		return errors.Errorf("invalid value: expected %d, got %d", expected, actual)
	}
	return nil
}

func runCommand() error {
	command := flag.Arg(0)
	if len(*objName) == 0 {
		return errors.New("region name is not set")
	}
	switch command {
	case "inc":
		return inc()
	case "test":
		return test()
	default:
		return errors.Errorf("unknown command %q", command)
	}
}

func main() {
	flag.Parse()
	defer glog.Flush()
	if flag.NArg() == 0 {
		fmt.Print(usage)
		flag.Usage()
		os.Exit(1)
	}
	if err := runCommand(); err != nil {
		glog.Errorf("%q failed: %v", flag.Arg(0), err)
		fmt.Println(err)
		glog.Flush()
		os.Exit(1)
	}
}
