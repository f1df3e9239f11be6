// Package device describes the physical HMD: its type, panel and shutter
// timing, and the wire form used to pass that description between processes.
package device

import "fmt"

// HmdType identifies the headset model.
type HmdType int

const (
	HmdNone HmdType = iota
	HmdDKProto
	HmdDK1
	HmdDKHDProto
	HmdDKHD2Proto
	HmdDKHDProto566Mi
	HmdCrystalCoveProto
	HmdDK2
	HmdUnknown
)

var hmdTypeNames = [...]string{
	HmdNone:             "None",
	HmdDKProto:          "DK1 prototype",
	HmdDK1:              "DK1",
	HmdDKHDProto:        "DK HD prototype 1",
	HmdDKHD2Proto:       "DK HD prototype 585",
	HmdDKHDProto566Mi:   "DK HD prototype 566 Mi",
	HmdCrystalCoveProto: "Crystal Cove",
	HmdDK2:              "DK2",
	HmdUnknown:          "Unknown",
}

func (t HmdType) String() string {
	if t >= 0 && int(t) < len(hmdTypeNames) {
		return hmdTypeNames[t]
	}
	return fmt.Sprintf("HmdType(%d)", int(t))
}

// ParseHmdType accepts the debug name or the short forms DK1, DK2, CrystalCove.
func ParseHmdType(s string) (HmdType, error) {
	switch s {
	case "DK1", "dk1":
		return HmdDK1, nil
	case "DK2", "dk2":
		return HmdDK2, nil
	case "CrystalCove", "crystalcove", "CC":
		return HmdCrystalCoveProto, nil
	case "DKHD2", "dkhd2":
		return HmdDKHD2Proto, nil
	case "None", "none", "":
		return HmdNone, nil
	}
	for i, name := range hmdTypeNames {
		if name == s {
			return HmdType(i), nil
		}
	}
	return HmdUnknown, fmt.Errorf("device: unknown HMD type %q", s)
}

// ShutterType describes how the panel scans out.
type ShutterType int

const (
	ShutterGlobal ShutterType = iota
	ShutterRollingTopToBottom
	ShutterRollingLeftToRight
	ShutterRollingRightToLeft
)

func (s ShutterType) String() string {
	switch s {
	case ShutterGlobal:
		return "Global"
	case ShutterRollingTopToBottom:
		return "RollingTopToBottom"
	case ShutterRollingLeftToRight:
		return "RollingLeftToRight"
	case ShutterRollingRightToLeft:
		return "RollingRightToLeft"
	}
	return fmt.Sprintf("ShutterType(%d)", int(s))
}

// Shutter holds display timing, all in seconds.
type Shutter struct {
	Type                        ShutterType
	VsyncToNextVsync            float32
	VsyncToFirstScanline        float32
	FirstScanlineToLastScanline float32
	PixelSettleTime             float32
	PixelPersistence            float32
}

// Shim carries the display-driver view of the panel.
type Shim struct {
	DeviceNumber int32
	NativeWidth  int32
	NativeHeight int32
	Rotation     int32
}
