package profile

import "ovr-stereo/internal/device"

// DeviceKey identifies a physical headset for profile lookup.
type DeviceKey struct {
	Valid         bool
	HmdType       device.HmdType
	ProductName   string
	PrintedSerial string
	ProductID     int32
}

// NewDeviceKey snapshots the identifying fields of info. The key is valid
// only for a real device, i.e. one with a product id.
func NewDeviceKey(info device.Info) DeviceKey {
	return DeviceKey{
		Valid:         info.ProductID != 0,
		HmdType:       info.HmdType,
		ProductName:   info.ProfileProductName(),
		PrintedSerial: info.PrintedSerial,
		ProductID:     info.ProductID,
	}
}
