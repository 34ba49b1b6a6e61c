package particles

// Motion is the per-tick animation state. It survives shape changes.
type Motion struct {
	Rotation          float64 // accumulated rotation about the vertical axis
	SmoothedExpansion float64
}

// Tuning holds the render-tick constants.
type Tuning struct {
	Smoothing float64 // fraction of the remaining expansion gap closed per tick
	Decay     float64 // rotation velocity multiplier per tick
	IdleSpin  float64 // rotation added every tick regardless of input
}

// DefaultTuning returns the stock animation settings.
func DefaultTuning() Tuning {
	return Tuning{
		Smoothing: 0.05,
		Decay:     0.92,
		IdleSpin:  0.002,
	}
}

// Step advances m by one render tick. velocity is integrated into the
// rotation and returned decayed; expansion is the instantaneous target the
// smoothed value chases.
func Step(m Motion, velocity, expansion float64, t Tuning) (Motion, float64) {
	m.SmoothedExpansion += (expansion - m.SmoothedExpansion) * t.Smoothing
	m.Rotation += velocity
	velocity *= t.Decay
	m.Rotation += t.IdleSpin
	return m, velocity
}
