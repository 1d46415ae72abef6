package syncutils

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrDeviceLost marks errors after which the device, and every queue created from it, can no longer be
	// trusted. Callers must stop submitting work and escalate to whoever owns the device.
	ErrDeviceLost = errors.New("gpu device lost")
	// ErrCreationFailed marks errors returned when the driver failed to create a queue, fence,
	// command allocator or command list. These are always also marked ErrDeviceLost.
	ErrCreationFailed = errors.New("gpu object creation failed")
	// ErrTimeout marks errors returned when a fence wait expired before the GPU reached the requested value.
	// Resources associated with that value must be treated as still in use.
	ErrTimeout = errors.New("timed out waiting for fence")
	// ErrMisuse marks precondition violations by the caller: submitting a closed list, recording into a
	// submitted list, and so on.
	ErrMisuse = errors.New("gpu queue misuse")
	// ErrResourceInFlight marks attempts to touch per-frame resources that the GPU may still be reading
	ErrResourceInFlight = errors.New("resource still in flight")
	// ErrOutOfDate marks presentation failures that can be recovered from by resizing the swapchain
	ErrOutOfDate = errors.New("swapchain out of date")
)

// DeviceLost wraps a driver error and marks it fatal. It returns nil if err is nil.
func DeviceLost(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return errors.Mark(errors.Wrapf(err, format, args...), ErrDeviceLost)
}

// CreationFailed wraps a driver error returned from an object constructor. Creation failures are
// treated as a lost device, so the result is marked with both ErrCreationFailed and ErrDeviceLost.
func CreationFailed(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return errors.Mark(DeviceLost(err, format, args...), ErrCreationFailed)
}

// Misusef builds a new precondition violation error
func Misusef(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrMisuse)
}

// Timeoutf builds a new fence timeout error
func Timeoutf(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrTimeout)
}

// InFlightf builds a new error for resources that may still be in use by the GPU
func InFlightf(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrResourceInFlight)
}

// IsFatal reports whether err means the render loop must stop submitting work
func IsFatal(err error) bool {
	return errors.Is(err, ErrDeviceLost)
}

// IsTimeout reports whether err is a fence wait that expired
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
