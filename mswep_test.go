package meteosat

import (
	"errors"
	"testing"
	"time"
)

func TestMswepRemotePath(t *testing.T) {
	m := &MSWEP{remote: mswepRemote}
	date := time.Date(2020, 6, 1, 3, 0, 0, 0, time.UTC)
	cases := []struct{ timestep, dataset, want string }{
		{TIMESTEP_3HOURLY, MSWEP_NRT, "GoogleDrive:/MSWEP_V280/NRT/3hourly/2020153.03.nc"},
		{TIMESTEP_DAILY, MSWEP_NRT, "GoogleDrive:/MSWEP_V280/NRT/Daily/2020153.nc"},
		{TIMESTEP_MONTHLY, MSWEP_PAST, "GoogleDrive:/MSWEP_V280/Past/Monthly/202006.nc"},
	}
	for _, c := range cases {
		if got := m.RemotePath(date, c.timestep, c.dataset); got != c.want {
			t.Fatalf("%s/%s: got %s, want %s", c.timestep, c.dataset, got, c.want)
		}
	}
}

func TestNewMSWEPWithoutRclone(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	if _, err := NewMSWEP(t.TempDir()); !errors.Is(err, ErrRcloneMissing) {
		t.Fatalf("err = %v, want ErrRcloneMissing", err)
	}
}
