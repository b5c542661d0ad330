// Copyright 2013 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package whirlwind

import "errors"

// ErrAddressFault is returned from GenerateBytes (and from Device.Read) when
// writing generated bytes to the destination fails, standing in for the
// original driver's copy_to_user() failure.
var ErrAddressFault = errors.New("whirlwind: address fault")

// ErrInvalidArgument is returned by every Device ioctl: the engine has no
// counted-entropy notion for an ioctl to manipulate.
var ErrInvalidArgument = errors.New("whirlwind: invalid argument")
