package profile

// Profile keys.
const (
	KeyUser                  = "User"
	KeyName                  = "Name"
	KeyGender                = "Gender"
	KeyPlayerHeight          = "PlayerHeight"
	KeyEyeHeight             = "EyeHeight"
	KeyIPD                   = "IPD"
	KeyNeckToEyeDistance     = "NeckEyeDistance"
	KeyEyeToNoseDistance     = "EyeToNoseDist"
	KeyMaxEyeToPlateDistance = "MaxEyeToPlateDist"
	KeyEyeReliefDial         = "EyeReliefDial"
	KeyCustomEyeRender       = "CustomEyeRender"
	KeyEyeCup                = "EyeCup"
	KeyDefaultUser           = "DefaultUser"
)

// Defaults used when no profile data exists.
const (
	DefaultGender              = "Unknown"
	DefaultPlayerHeight        = float32(1.778)
	DefaultEyeHeight           = float32(1.675)
	DefaultIPD                 = float32(0.064)
	DefaultNeckToEyeHorizontal = float32(0.0805)
	DefaultNeckToEyeVertical   = float32(0.075)
	DefaultEyeReliefDial       = 3
)

// Tag names used to key tagged data.
const (
	TagUser    = "User"
	TagProduct = "Product"
	TagSerial  = "Serial"
)
