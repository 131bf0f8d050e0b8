package audio

import "fmt"

// DecodeError reports bytes that could not be turned into a Buffer.
type DecodeError struct {
	MIMEType string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %q audio: %v", e.MIMEType, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DeviceError reports a failure of the output device.
type DeviceError struct {
	Op  string
	Err error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("audio device %s: %v", e.Op, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }
