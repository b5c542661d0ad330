// Copyright 2013 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// wwctl is a small operator tool for exercising the whirlwind engine by
// hand during development, the same role opencoff/go-mph's and
// opencoff/go-chd's example tools play for their libraries.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	flag "github.com/opencoff/pflag"

	whirlwind "github.com/ace0/linux-whirlwind-rng"
)

func main() {
	usage := fmt.Sprintf(`%s - exercise the whirlwind RNG engine

Usage: %s CMD [CMD-ARGS...]

  bytes N                  print N random bytes, hex-encoded
  uuid                     print a random version-4 UUID
  range START END LEN      print a page-aligned offset in [START, END-LEN]
  input SOURCE V1 V2       submit one caller input (all decimal uint32s)

`, os.Args[0], os.Args[0])

	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	fs.SetInterspersed(false)
	fs.Usage = func() {
		fmt.Print(usage)
		fs.PrintDefaults()
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		die("%s", err)
	}

	args := fs.Args()
	if len(args) < 1 {
		fs.Usage()
		os.Exit(1)
	}

	if err := run(args[0], args[1:]); err != nil {
		die("%s", err)
	}
}

func run(cmd string, args []string) error {
	switch cmd {
	case "bytes":
		n := 32
		if len(args) > 0 {
			fmt.Sscanf(args[0], "%d", &n)
		}
		buf := make([]byte, n)
		if err := whirlwind.GetRandomBytes(buf); err != nil {
			return err
		}
		fmt.Println(hex.EncodeToString(buf))
	case "uuid":
		id, err := whirlwind.GenerateRandomUUID()
		if err != nil {
			return err
		}
		fmt.Printf("%x-%x-%x-%x-%x\n", id[0:4], id[4:6], id[6:8], id[8:10], id[10:16])
	case "range":
		if len(args) != 3 {
			return fmt.Errorf("range requires START END LEN")
		}
		var start, end, length uint32
		fmt.Sscanf(args[0], "%d", &start)
		fmt.Sscanf(args[1], "%d", &end)
		fmt.Sscanf(args[2], "%d", &length)
		fmt.Println(whirlwind.RandomizeRange(start, end, length))
	case "input":
		if len(args) != 3 {
			return fmt.Errorf("input requires SOURCE V1 V2")
		}
		var source, v1, v2 uint32
		fmt.Sscanf(args[0], "%d", &source)
		fmt.Sscanf(args[1], "%d", &v1)
		fmt.Sscanf(args[2], "%d", &v2)
		whirlwind.AddInput(source, v1, v2)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func die(f string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", os.Args[0], fmt.Sprintf(f, v...))
	os.Exit(1)
}
