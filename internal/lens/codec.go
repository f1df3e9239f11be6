package lens

import (
	"encoding/binary"
	"fmt"

	"github.com/chewxy/math32"
)

// RecordSize is the length of an encoded calibration record.
const RecordSize = 36

// RecordVersionCatmullRom10 tags the only record layout: version, K[11],
// MaxR, MetersPerTanAngleAtCenter and ChromaticAberration[4], all uint16 LE.
const RecordVersionCatmullRom10 = 1

// Fixed-point layouts of the record fields. Never change these once written
// to firmware; add a new record version instead.
const (
	kFracBits      = 14
	maxRFracBits   = 14
	mptaFracBits   = 16 + 3
	chromaFracBits = 16 + 3
	chromaZero     = 0x8000
)

// EncodeFixedPointUInt16 rounds val*2^fracBits + zero to the nearest
// integer and fails with ErrFixedPointRange outside [0, 65535].
func EncodeFixedPointUInt16(val float32, zero uint16, fracBits uint) (uint16, error) {
	whole := val * float32(uint32(1)<<fracBits)
	whole += float32(zero) + 0.5
	whole = math32.Floor(whole)
	if !(whole >= 0 && whole < 1<<16) {
		return 0, fmt.Errorf("lens: encode %v with %d fraction bits: %w", val, fracBits, ErrFixedPointRange)
	}
	return uint16(whole), nil
}

// DecodeFixedPointUInt16 reverses EncodeFixedPointUInt16.
func DecodeFixedPointUInt16(v uint16, zero uint16, fracBits uint) float32 {
	f := float32(v) - float32(zero)
	return f * (1.0 / float32(uint32(1)<<fracBits))
}

type recordWriter struct {
	buf []byte
	off int
	err error
}

func (w *recordWriter) putU16(v uint16) {
	binary.LittleEndian.PutUint16(w.buf[w.off:], v)
	w.off += 2
}

func (w *recordWriter) putFixed(val float32, zero uint16, fracBits uint) {
	if w.err != nil {
		return
	}
	v, err := EncodeFixedPointUInt16(val, zero, fracBits)
	if err != nil {
		w.err = err
		return
	}
	w.putU16(v)
}

type recordReader struct {
	buf []byte
	off int
}

func (r *recordReader) fixed(zero uint16, fracBits uint) float32 {
	v := binary.LittleEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return DecodeFixedPointUInt16(v, zero, fracBits)
}

// MarshalBinary encodes a CatmullRom10 config as a RecordSize-byte record.
// InvK and MaxInvR are not stored.
func (c Config) MarshalBinary() ([]byte, error) {
	if c.Eqn != CatmullRom10 {
		return nil, fmt.Errorf("lens: encode %v record: %w", c.Eqn, ErrUnsupportedDistortionKind)
	}

	w := &recordWriter{buf: make([]byte, RecordSize)}
	w.putU16(RecordVersionCatmullRom10)
	for _, k := range c.K {
		w.putFixed(k, 0, kFracBits)
	}
	w.putFixed(c.MaxR, 0, maxRFracBits)
	w.putFixed(c.MetersPerTanAngleAtCenter, 0, mptaFracBits)
	for _, ca := range c.ChromaticAberration {
		w.putFixed(ca, chromaZero, chromaFracBits)
	}
	if w.err != nil {
		return nil, w.err
	}
	return w.buf, nil
}

// UnmarshalBinary decodes a record and rebuilds the inverse approximation.
// c is only modified on success. Trailing bytes are ignored.
func (c *Config) UnmarshalBinary(data []byte) error {
	if len(data) < 2 {
		return fmt.Errorf("lens: decode %d bytes: %w", len(data), ErrBufferTooSmall)
	}
	version := binary.LittleEndian.Uint16(data)
	if version != RecordVersionCatmullRom10 {
		return fmt.Errorf("lens: decode version %d: %w", version, ErrUnknownVersion)
	}
	if len(data) < RecordSize {
		return fmt.Errorf("lens: decode %d bytes, need %d: %w", len(data), RecordSize, ErrBufferTooSmall)
	}

	r := &recordReader{buf: data, off: 2}
	var out Config
	out.Eqn = CatmullRom10
	for i := range out.K {
		out.K[i] = r.fixed(0, kFracBits)
	}
	out.MaxR = r.fixed(0, maxRFracBits)
	out.MetersPerTanAngleAtCenter = r.fixed(0, mptaFracBits)
	for i := range out.ChromaticAberration {
		out.ChromaticAberration[i] = r.fixed(chromaZero, chromaFracBits)
	}

	out.MaxInvR = out.DistortionForward(out.MaxR)
	if err := out.BuildInverseApproximation(); err != nil {
		return fmt.Errorf("lens: decode: %w", err)
	}
	*c = out
	return nil
}

// Encode is MarshalBinary as a function.
func Encode(c Config) ([]byte, error) {
	return c.MarshalBinary()
}

// Decode parses a calibration record.
func Decode(data []byte) (Config, error) {
	var c Config
	err := c.UnmarshalBinary(data)
	return c, err
}
