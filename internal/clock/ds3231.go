package clock

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"
)

// DefaultAddr is the fixed DS3231 I2C address.
const DefaultAddr = 0x68

// ErrInvalidTime is returned when the RTC registers do not hold a valid
// date, e.g. after the backup battery ran flat.
var ErrInvalidTime = errors.New("rtc: invalid time registers")

const (
	regSeconds = 0x00
	numRegs    = 7

	hour12     = 0x40
	hourPM     = 0x20
	centuryBit = 0x80
)

// DS3231 reads date and time from a DS3231 RTC.
type DS3231 struct {
	dev *i2c.Dev
	loc *time.Location
}

// NewDS3231 returns a clock that interprets the RTC registers in loc.
// A nil loc means time.Local.
func NewDS3231(bus i2c.Bus, addr uint16, loc *time.Location) *DS3231 {
	if loc == nil {
		loc = time.Local
	}
	return &DS3231{dev: &i2c.Dev{Bus: bus, Addr: addr}, loc: loc}
}

// Now reads the current date and time.
func (c *DS3231) Now() (time.Time, error) {
	r := make([]byte, numRegs)
	if err := c.dev.Tx([]byte{regSeconds}, r); err != nil {
		return time.Time{}, fmt.Errorf("read rtc: %w", err)
	}
	return decodeTime(r, c.loc)
}

// decodeTime converts the seconds..year registers.
// The weekday register is ignored; time.Time derives it from the date.
func decodeTime(r []byte, loc *time.Location) (time.Time, error) {
	sec, ok1 := bcd(r[0] & 0x7f)
	minute, ok2 := bcd(r[1] & 0x7f)
	hour, ok3 := decodeHour(r[2])
	day, ok4 := bcd(r[4] & 0x3f)
	month, ok5 := bcd(r[5] & 0x1f)
	year, ok6 := bcd(r[6])
	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
		return time.Time{}, fmt.Errorf("%w: bad bcd % x", ErrInvalidTime, r)
	}

	year += 2000
	if r[5]&centuryBit != 0 {
		year += 100
	}

	if sec > 59 || minute > 59 || hour > 23 || month < 1 || month > 12 || day < 1 || day > daysIn(time.Month(month), year) {
		return time.Time{}, fmt.Errorf("%w: %04d-%02d-%02d %02d:%02d:%02d", ErrInvalidTime, year, month, day, hour, minute, sec)
	}

	return time.Date(year, time.Month(month), day, hour, minute, sec, 0, loc), nil
}

func decodeHour(b byte) (int, bool) {
	if b&hour12 == 0 {
		return bcd(b & 0x3f)
	}
	h, ok := bcd(b & 0x1f)
	if !ok || h < 1 || h > 12 {
		return 0, false
	}
	h %= 12
	if b&hourPM != 0 {
		h += 12
	}
	return h, true
}

func bcd(b byte) (int, bool) {
	hi, lo := b>>4, b&0x0f
	if hi > 9 || lo > 9 {
		return 0, false
	}
	return int(hi)*10 + int(lo), true
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
