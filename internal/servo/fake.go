package servo

// Fake records commanded angles.
type Fake struct {
	Angles []int

	// Err, if set, will be returned by SetAngle
	Err error
}

// SetAngle records the angle.
func (f *Fake) SetAngle(degrees int) error {
	if f.Err != nil {
		return f.Err
	}
	f.Angles = append(f.Angles, degrees)
	return nil
}

// Last returns the most recent angle, or -1 if none was set.
func (f *Fake) Last() int {
	if len(f.Angles) == 0 {
		return -1
	}
	return f.Angles[len(f.Angles)-1]
}
