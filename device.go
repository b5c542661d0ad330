// Copyright 2013 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package whirlwind

// Device implements the single file-operations vtable the original driver
// shares between the blocking and non-blocking character devices. The
// engine never blocks for entropy, so one Device serves both roles.
type Device struct {
	engine *Engine
}

// NewDevice returns a Device backed by engine, or by the process-wide
// default engine if engine is nil.
func NewDevice(engine *Engine) *Device {
	if engine == nil {
		engine = defaultEngine
	}
	return &Device{engine: engine}
}

// Read generates len(p) random bytes into p, standing in for the original
// random_read()'s call into ww_generate_bytes with a user-space buffer.
func (d *Device) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := d.engine.generateBytes(&sliceWriter{buf: p}, len(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Write discards its input and reports success, for backward compatibility
// with callers that still write to the device; no entropy is credited.
func (d *Device) Write(p []byte) (int, error) {
	return len(p), nil
}

// Ioctl always fails: the engine has no entropy counter for an ioctl to
// manipulate.
func (d *Device) Ioctl(_ uint, _ uintptr) error {
	return ErrInvalidArgument
}

// FAsync is a standard no-op stand-in for fasync_helper, kept only for
// legacy signal-notification callers.
func (d *Device) FAsync(fd int, on bool) error {
	return nil
}

// Seek is a no-op, mirroring noop_llseek.
func (d *Device) Seek(offset int64, whence int) (int64, error) {
	return 0, nil
}
