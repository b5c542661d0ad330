// Copyright 2013 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package whirlwind

import "testing"

func TestDeviceReadFillsExactLength(t *testing.T) {
	d := NewDevice(nil)
	buf := make([]byte, 37)
	n, err := d.Read(buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(buf) {
		t.Errorf("Read returned %d, want %d", n, len(buf))
	}
}

func TestDeviceReadEmptyIsNoop(t *testing.T) {
	d := NewDevice(nil)
	n, err := d.Read(nil)
	if err != nil || n != 0 {
		t.Errorf("Read(nil) = (%d, %v), want (0, nil)", n, err)
	}
}

func TestDeviceWriteDiscardsAndReportsFullLength(t *testing.T) {
	d := NewDevice(nil)
	p := []byte("whatever the caller writes is ignored")
	n, err := d.Write(p)
	if err != nil || n != len(p) {
		t.Errorf("Write = (%d, %v), want (%d, nil)", n, err, len(p))
	}
}

func TestDeviceIoctlAlwaysFails(t *testing.T) {
	d := NewDevice(nil)
	if err := d.Ioctl(0, 0); err != ErrInvalidArgument {
		t.Errorf("Ioctl error = %v, want ErrInvalidArgument", err)
	}
}

func TestDeviceSeekAndFAsyncAreNoops(t *testing.T) {
	d := NewDevice(nil)
	if off, err := d.Seek(123, 0); off != 0 || err != nil {
		t.Errorf("Seek = (%d, %v), want (0, nil)", off, err)
	}
	if err := d.FAsync(3, true); err != nil {
		t.Errorf("FAsync = %v, want nil", err)
	}
}

func TestNewDeviceUsesDefaultEngineWhenNil(t *testing.T) {
	d := NewDevice(nil)
	if d.engine != defaultEngine {
		t.Error("NewDevice(nil) did not fall back to the package default engine")
	}
}

func TestNewDeviceUsesSuppliedEngine(t *testing.T) {
	e := NewEngine()
	d := NewDevice(e)
	if d.engine != e {
		t.Error("NewDevice did not retain the engine it was given")
	}
}
