package gpio

import "fmt"

var _ IO = (*FakeIO)(nil)

// FakeIO is a test double with scripted inputs and recorded writes.
type FakeIO struct {
	// Samples contains scripted values per pin.
	// Each Read of a pin consumes its next sample; the last one repeats.
	Samples map[int][]bool

	// index tracks the current position per pin
	index map[int]int

	// Reads lists every pin read, in order.
	Reads []int

	// Writes lists every write, in order.
	Writes []Write

	// ReadError, if set, will be returned by Read()
	ReadError error

	// WriteError, if set, will be returned by Write()
	WriteError error

	// Closed tracks if Close was called
	Closed bool
}

// Write is a single recorded output.
type Write struct {
	Pin   int
	Value bool
}

// NewFakeIO creates a FakeIO with no scripted pins.
func NewFakeIO() *FakeIO {
	return &FakeIO{
		Samples: make(map[int][]bool),
		index:   make(map[int]int),
	}
}

// Set scripts the values returned by successive reads of pin.
func (f *FakeIO) Set(pin int, values ...bool) {
	f.Samples[pin] = values
	f.index[pin] = 0
}

// Read returns the next scripted sample for pin.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeIO) Read(pin int) (bool, error) {
	f.Reads = append(f.Reads, pin)
	if f.ReadError != nil {
		return false, f.ReadError
	}

	samples := f.Samples[pin]
	if len(samples) == 0 {
		return false, fmt.Errorf("no samples configured for pin %d", pin)
	}

	i := f.index[pin]
	if i < len(samples)-1 {
		f.index[pin] = i + 1
	}
	return samples[i], nil
}

// Write records the value.
func (f *FakeIO) Write(pin int, value bool) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Writes = append(f.Writes, Write{Pin: pin, Value: value})
	return nil
}

// WritesTo returns the values written to pin, in order.
func (f *FakeIO) WritesTo(pin int) []bool {
	var values []bool
	for _, w := range f.Writes {
		if w.Pin == pin {
			values = append(values, w.Value)
		}
	}
	return values
}

// Close marks the IO as closed.
func (f *FakeIO) Close() error {
	f.Closed = true
	return nil
}

// Reset rewinds samples and clears recorded reads and writes.
func (f *FakeIO) Reset() {
	f.index = make(map[int]int)
	f.Reads = nil
	f.Writes = nil
	f.Closed = false
}
