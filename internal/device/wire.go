package device

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrNoDevice is returned when an Info stream ends early. A service with no
// headset attached sends an empty stream.
var ErrNoDevice = errors.New("device: no HMD in stream")

// maxWireString bounds decoded string lengths.
const maxWireString = 1 << 16

type wireWriter struct {
	w   io.Writer
	buf [4]byte
	err error
}

func (w *wireWriter) write(b []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(b)
}

func (w *wireWriter) i32(v int32) {
	binary.LittleEndian.PutUint32(w.buf[:], uint32(v))
	w.write(w.buf[:4])
}

func (w *wireWriter) f32(v float32) {
	binary.LittleEndian.PutUint32(w.buf[:], math.Float32bits(v))
	w.write(w.buf[:4])
}

func (w *wireWriter) u8(v uint8) {
	w.buf[0] = v
	w.write(w.buf[:1])
}

func (w *wireWriter) str(s string) {
	binary.LittleEndian.PutUint32(w.buf[:], uint32(len(s)))
	w.write(w.buf[:4])
	w.write([]byte(s))
}

// WriteInfo serializes info in the fixed field order ReadInfo expects.
func WriteInfo(out io.Writer, info Info) error {
	w := &wireWriter{w: out}

	w.str(info.ProductName)
	w.str(info.Manufacturer)
	w.i32(info.Version)
	w.i32(int32(info.HmdType))
	w.i32(int32(info.ResolutionInPixels.W))
	w.i32(int32(info.ResolutionInPixels.H))
	w.i32(info.Shim.DeviceNumber)
	w.i32(info.Shim.NativeWidth)
	w.i32(info.Shim.NativeHeight)
	w.i32(info.Shim.Rotation)

	w.f32(info.ScreenSizeInMeters[0])
	w.f32(info.ScreenSizeInMeters[1])
	w.f32(info.ScreenGapSizeInMeters)
	w.f32(info.CenterFromTopInMeters)
	w.f32(info.LensSeparationInMeters)

	w.i32(info.DesktopX)
	w.i32(info.DesktopY)
	w.i32(int32(info.Shutter.Type))
	w.f32(info.Shutter.VsyncToNextVsync)
	w.f32(info.Shutter.VsyncToFirstScanline)
	w.f32(info.Shutter.FirstScanlineToLastScanline)
	w.f32(info.Shutter.PixelSettleTime)
	w.f32(info.Shutter.PixelPersistence)

	w.str(info.DisplayDeviceName)
	w.i32(info.DisplayID)
	w.str(info.PrintedSerial)
	var compat uint8
	if info.InCompatibilityMode {
		compat = 1
	}
	w.u8(compat)
	w.i32(info.VendorID)
	w.i32(info.ProductID)

	w.f32(info.CameraFrustumFarZInMeters)
	w.f32(info.CameraFrustumHFovInRadians)
	w.f32(info.CameraFrustumNearZInMeters)
	w.f32(info.CameraFrustumVFovInRadians)

	w.i32(info.FirmwareMajor)
	w.i32(info.FirmwareMinor)

	if w.err != nil {
		return fmt.Errorf("device: write info: %w", w.err)
	}
	return nil
}

// wireReader latches the first error; later reads return zero values.
type wireReader struct {
	r   io.Reader
	buf [4]byte
	err error
}

func (r *wireReader) fill(n int) bool {
	if r.err != nil {
		return false
	}
	if _, err := io.ReadFull(r.r, r.buf[:n]); err != nil {
		r.err = err
		return false
	}
	return true
}

func (r *wireReader) i32() int32 {
	if !r.fill(4) {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(r.buf[:]))
}

func (r *wireReader) f32() float32 {
	if !r.fill(4) {
		return 0
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(r.buf[:]))
}

func (r *wireReader) u8() uint8 {
	if !r.fill(1) {
		return 0
	}
	return r.buf[0]
}

func (r *wireReader) str() string {
	if !r.fill(4) {
		return ""
	}
	n := binary.LittleEndian.Uint32(r.buf[:])
	if n > maxWireString {
		r.err = fmt.Errorf("string length %d exceeds %d", n, maxWireString)
		return ""
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r.r, b); err != nil {
		r.err = err
		return ""
	}
	return string(b)
}

// ReadInfo decodes an Info written by WriteInfo. Any short read yields
// ErrNoDevice and a zero Info, never a partial one.
func ReadInfo(in io.Reader) (Info, error) {
	r := &wireReader{r: in}
	var info Info

	info.ProductName = r.str()
	info.Manufacturer = r.str()
	info.Version = r.i32()
	info.HmdType = HmdType(r.i32())
	info.ResolutionInPixels.W = int(r.i32())
	info.ResolutionInPixels.H = int(r.i32())
	info.Shim.DeviceNumber = r.i32()
	info.Shim.NativeWidth = r.i32()
	info.Shim.NativeHeight = r.i32()
	info.Shim.Rotation = r.i32()

	info.ScreenSizeInMeters[0] = r.f32()
	info.ScreenSizeInMeters[1] = r.f32()
	info.ScreenGapSizeInMeters = r.f32()
	info.CenterFromTopInMeters = r.f32()
	info.LensSeparationInMeters = r.f32()

	info.DesktopX = r.i32()
	info.DesktopY = r.i32()
	info.Shutter.Type = ShutterType(r.i32())
	info.Shutter.VsyncToNextVsync = r.f32()
	info.Shutter.VsyncToFirstScanline = r.f32()
	info.Shutter.FirstScanlineToLastScanline = r.f32()
	info.Shutter.PixelSettleTime = r.f32()
	info.Shutter.PixelPersistence = r.f32()

	info.DisplayDeviceName = r.str()
	info.DisplayID = r.i32()
	info.PrintedSerial = r.str()
	info.InCompatibilityMode = r.u8() != 0
	info.VendorID = r.i32()
	info.ProductID = r.i32()

	info.CameraFrustumFarZInMeters = r.f32()
	info.CameraFrustumHFovInRadians = r.f32()
	info.CameraFrustumNearZInMeters = r.f32()
	info.CameraFrustumVFovInRadians = r.f32()

	info.FirmwareMajor = r.i32()
	info.FirmwareMinor = r.i32()

	if r.err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrNoDevice, r.err)
	}
	return info, nil
}
