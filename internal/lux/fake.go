package lux

// Fake returns a fixed illuminance.
type Fake struct {
	Lux float64

	// Err, if set, will be returned by ReadLux
	Err error

	// Reads counts calls to ReadLux
	Reads int
}

// ReadLux returns Lux or Err.
func (f *Fake) ReadLux() (float64, error) {
	f.Reads++
	if f.Err != nil {
		return 0, f.Err
	}
	return f.Lux, nil
}
