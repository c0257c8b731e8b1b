package core

import (
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// DateLayout is the wire format of a Date.
const DateLayout = "2006-01-02"

// NowFunc returns the current time. Tests replace it to pin "today".
var NowFunc = time.Now

// Date is a calendar date in UTC, without a time of day.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the UTC calendar date of t.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return NewDate(y, m, d)
}

// Today returns the current UTC calendar date.
func Today() Date {
	return DateOf(NowFunc())
}

func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return Date{}, errors.Wrapf(err, "parsing date %q", s)
	}
	return Date{t}, nil
}

// MustParseDate is ParseDate for fixtures and tests; it panics on malformed input.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return errors.Wrap(err, "date must be a string")
	}
	return d.UnmarshalParam(s)
}

// UnmarshalParam implements echo.BindUnmarshaler so dates can be bound from query params.
func (d *Date) UnmarshalParam(param string) error {
	if param == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(param)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler (gopkg.in/yaml.v2).
func (d *Date) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return d.UnmarshalParam(s)
}
