package meteosat

import (
	"errors"
	"testing"
	"time"
)

func TestSliceStamp(t *testing.T) {
	date := time.Date(2020, 6, 15, 12, 47, 0, 0, time.UTC)
	cases := []struct{ timestep, want string }{
		{TIMESTEP_30MIN, "2020-06-15 12:30"},
		{TIMESTEP_HOURLY, "2020-06-15 12:00"},
		{TIMESTEP_3HOURLY, "2020-06-15 12:00"},
		{TIMESTEP_6HOURLY, "2020-06-15 12:00"},
		{TIMESTEP_DAILY, "2020-06-15 00:00"},
		{TIMESTEP_MONTHLY, "2020-06-01 00:00"},
		{TIMESTEP_ANNUAL, "2020-01-01 00:00"},
	}
	for _, c := range cases {
		if got := sliceStamp(date, c.timestep); got != c.want {
			t.Fatalf("%s: got %q, want %q", c.timestep, got, c.want)
		}
	}
}

func TestMinuteCode(t *testing.T) {
	cases := []struct {
		hour, min int
		want      string
	}{
		{0, 0, "0000"},
		{0, 30, "0030"},
		{12, 30, "0750"},
		{23, 30, "1410"},
	}
	for _, c := range cases {
		date := time.Date(2020, 6, 1, c.hour, c.min, 0, 0, time.UTC)
		if got := minuteCode(date); got != c.want {
			t.Fatalf("%02d:%02d: got %q, want %q", c.hour, c.min, got, c.want)
		}
	}
}

func TestValidateOption(t *testing.T) {
	allowed := []string{TIMESTEP_DAILY, TIMESTEP_MONTHLY}
	if err := validateOption("t:", "timestep", TIMESTEP_DAILY, allowed, ErrBadTimestep); err != nil {
		t.Fatal(err)
	}
	if err := validateOption("t:", "timestep", "weekly", allowed, ErrBadTimestep); !errors.Is(err, ErrBadTimestep) {
		t.Fatalf("err = %v, want ErrBadTimestep", err)
	}
}
