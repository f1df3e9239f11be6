package profile

import "ovr-stereo/internal/device"

// Lens surface to midplate plus nominal relief, per lens family.
const (
	dk2MaxEyeToPlate = float32(0.01965 + 0.018)
	dk1MaxEyeToPlate = float32(0.02357 + 0.017)
)

// DefaultProfile returns the settings used when no stored data exists.
// Device-specific keys are only present for a real device type.
func DefaultProfile(hmdType device.HmdType) *Profile {
	p := New("")
	p.SetString(KeyUser, "default")
	p.SetString(KeyName, "Default")
	p.SetString(KeyGender, DefaultGender)
	p.SetFloat(KeyPlayerHeight, DefaultPlayerHeight)
	p.SetFloat(KeyEyeHeight, DefaultEyeHeight)
	p.SetFloat(KeyIPD, DefaultIPD)
	p.SetFloats(KeyEyeToNoseDistance, DefaultIPD/2, DefaultIPD/2)
	p.SetFloats(KeyNeckToEyeDistance, DefaultNeckToEyeHorizontal, DefaultNeckToEyeVertical)

	if hmdType == device.HmdNone {
		return p
	}

	p.SetString(KeyEyeCup, "A")
	p.SetInt(KeyEyeReliefDial, DefaultEyeReliefDial)
	switch hmdType {
	case device.HmdCrystalCoveProto, device.HmdDK2:
		p.SetFloats(KeyMaxEyeToPlateDistance, dk2MaxEyeToPlate, dk2MaxEyeToPlate)
	default:
		p.SetFloats(KeyMaxEyeToPlateDistance, dk1MaxEyeToPlate, dk1MaxEyeToPlate)
	}
	return p
}
