package lens

// Override lets an application substitute its own distortion curve for the
// CatmullRom10 spline. When a Config carries an Override, the spline result
// is discarded and Scale/InverseScale are used instead.
type Override interface {
	// Scale returns the forward distortion scale at radius squared rsq.
	Scale(rsq float32) float32
	// InverseScale returns the approximate inverse scale at radius squared rsq.
	InverseScale(rsq float32) float32
}

// OverrideFuncs adapts two plain functions to Override.
type OverrideFuncs struct {
	ScaleFunc        func(rsq float32) float32
	InverseScaleFunc func(rsq float32) float32
}

func (o OverrideFuncs) Scale(rsq float32) float32 {
	return o.ScaleFunc(rsq)
}

func (o OverrideFuncs) InverseScale(rsq float32) float32 {
	return o.InverseScaleFunc(rsq)
}
