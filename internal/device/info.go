package device

import (
	"strings"

	"ovr-stereo/internal/mathutil"
)

// Info is the physical description of one headset.
type Info struct {
	ProductName  string
	Manufacturer string
	Version      int32
	HmdType      HmdType

	ResolutionInPixels mathutil.Sizei
	// ScreenSizeInMeters is the full panel (both eyes).
	ScreenSizeInMeters     mathutil.Vec2
	ScreenGapSizeInMeters  float32
	CenterFromTopInMeters  float32
	LensSeparationInMeters float32

	DesktopX, DesktopY int32
	Shutter            Shutter
	Shim               Shim

	DisplayDeviceName   string
	DisplayID           int32
	PrintedSerial       string
	InCompatibilityMode bool

	VendorID  int32
	ProductID int32

	CameraFrustumFarZInMeters  float32
	CameraFrustumHFovInRadians float32
	CameraFrustumNearZInMeters float32
	CameraFrustumVFovInRadians float32

	FirmwareMajor int32
	FirmwareMinor int32
}

// ProfileProductName strips the vendor prefix and spaces from the product
// name, giving the key the profile database files device data under.
func (i Info) ProfileProductName() string {
	name := i.ProductName
	if idx := strings.Index(name, "Oculus "); idx >= 0 {
		name = name[idx+len("Oculus "):]
	}
	return strings.ReplaceAll(name, " ", "")
}

// DebugInfo returns a hard-coded description for hmdType, for running
// without a headset attached. Types without data fall back to DK1.
func DebugInfo(hmdType HmdType) Info {
	info := Info{
		HmdType:      hmdType,
		Manufacturer: "Oculus VR",
	}

	switch hmdType {
	case HmdCrystalCoveProto, HmdDK2:
		info.ProductName = "Oculus Rift Crystal Cove"
		if hmdType == HmdDK2 {
			info.ProductName = "Oculus Rift DK2"
		}
		info.ResolutionInPixels = mathutil.Sizei{W: 1920, H: 1080}
		info.ScreenSizeInMeters = mathutil.Vec2{0.12576, 0.07074}
		info.ScreenGapSizeInMeters = 0
		info.CenterFromTopInMeters = info.ScreenSizeInMeters[1] * 0.5
		info.LensSeparationInMeters = 0.0635
		info.Shutter = Shutter{
			Type:                        ShutterRollingRightToLeft,
			VsyncToNextVsync:            1.0 / 76.0,
			VsyncToFirstScanline:        0.0000273,
			FirstScanlineToLastScanline: 0.0131033,
			PixelSettleTime:             0,
			PixelPersistence:            0.18 * (1.0 / 76.0),
		}

	default:
		info.HmdType = HmdDK1
		info.ProductName = "Oculus Rift DK1"
		info.ResolutionInPixels = mathutil.Sizei{W: 1280, H: 800}
		info.ScreenSizeInMeters = mathutil.Vec2{0.1498, 0.0936}
		info.ScreenGapSizeInMeters = 0
		info.CenterFromTopInMeters = 0.0468
		info.LensSeparationInMeters = 0.0635
		info.Shutter = Shutter{
			Type:                        ShutterRollingTopToBottom,
			VsyncToNextVsync:            1.0 / 60.0,
			VsyncToFirstScanline:        0.000052,
			FirstScanlineToLastScanline: 0.016580,
			PixelSettleTime:             0.015,
			PixelPersistence:            1.0 / 60.0,
		}
	}
	return info
}
