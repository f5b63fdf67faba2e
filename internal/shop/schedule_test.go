package shop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, 3, 1, hour, minute, 0, 0, time.Local)
}

func TestIsOpen_Boundaries(t *testing.T) {
	s := Shop{OpeningTime: "09:00", ClosingTime: "21:00"}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"at opening", at(9, 0), true},
		{"at closing", at(21, 0), true},
		{"midday", at(13, 30), true},
		{"minute before opening", at(8, 59), false},
		{"minute after closing", at(21, 1), false},
		{"midnight", at(0, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOpen(s, tt.now))
		})
	}
}

func TestIsOpen_MissingHoursFailOpen(t *testing.T) {
	assert.True(t, IsOpen(Shop{}, at(3, 0)))
	assert.True(t, IsOpen(Shop{OpeningTime: "09:00"}, at(3, 0)))
	assert.True(t, IsOpen(Shop{ClosingTime: "21:00"}, at(23, 0)))
}

func TestIsOpen_TwelveHourClock(t *testing.T) {
	s := Shop{OpeningTime: "9:30 AM", ClosingTime: "8:15 PM"}

	assert.False(t, IsOpen(s, at(9, 29)))
	assert.True(t, IsOpen(s, at(9, 30)))
	assert.True(t, IsOpen(s, at(20, 15)))
	assert.False(t, IsOpen(s, at(20, 16)))
}

func TestIsOpen_OvernightWindowNotSupported(t *testing.T) {
	s := Shop{OpeningTime: "22:00", ClosingTime: "02:00"}

	assert.False(t, IsOpen(s, at(23, 0)))
	assert.False(t, IsOpen(s, at(1, 0)))
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"09:00", 540},
		{"9:00", 540},
		{"21:00", 1260},
		{"00:00", 0},
		{"23:59", 1439},
		{"12:00 AM", 0},
		{"12:30 am", 30},
		{"12:00 PM", 720},
		{"1:05 PM", 785},
		{"11:59PM", 719 + 720},
		{" 07:45 ", 465},
		{"", 0},
		{"noon", 0},
		{"25:00", 0},
		{"13:00 PM", 0},
		{"0:30 AM", 0},
		{"10:75", 0},
		{"10-30", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseClock(tt.in))
		})
	}
}

func TestShop_Display(t *testing.T) {
	assert.Equal(t, "Shop", Shop{}.DisplayName())
	assert.Equal(t, "Anna Stores", Shop{Name: "Anna Stores"}.DisplayName())
	assert.Equal(t, "", Shop{OpeningTime: "09:00"}.Hours())
	assert.Equal(t, "09:00 - 21:00", Shop{OpeningTime: "09:00", ClosingTime: "21:00"}.Hours())
	assert.Equal(t,
		"Sorry! The shop is closed. Please place the order after 09:00.",
		Shop{OpeningTime: "09:00"}.ClosedMessage())
}
