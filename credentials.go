package meteosat

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"runtime"

	"github.com/jusethCS/meteosat/log"
	"github.com/jusethCS/meteosat/utils"

	"go.uber.org/zap"
)

const (
	netrcFile   = ".netrc"
	cookiesFile = ".urs_cookies"
	dodsrcFile  = ".dodsrc"
)

// WriteEarthdataRC persists the credential files NASA OPeNDAP clients read:
// a .netrc with the Earthdata login, an empty cookie jar and a .dodsrc
// pointing at both. home defaults to the user's home directory.
func WriteEarthdataRC(home, user, pass string) (err error) {
	if home == "" {
		if home, err = os.UserHomeDir(); err != nil {
			return
		}
	}
	netrc := filepath.Join(home, netrcFile)
	entry := "machine " + EARTHDATA_AUTH_HOST + " login " + user + " password " + pass + "\n"
	if err = os.WriteFile(netrc, utils.S2B(entry), 0600); err != nil {
		return
	}
	cookies := filepath.Join(home, cookiesFile)
	if err = os.WriteFile(cookies, nil, 0644); err != nil {
		return
	}
	dodsrc := filepath.Join(home, dodsrcFile)
	rc := "HTTP.COOKIEJAR=" + cookies + "\nHTTP.NETRC=" + netrc + "\n"
	if err = os.WriteFile(dodsrc, utils.S2B(rc), 0644); err != nil {
		return
	}
	// some clients only look for .dodsrc in the working directory on windows
	if runtime.GOOS == "windows" {
		var wd string
		if wd, err = os.Getwd(); err != nil {
			return
		}
		err = os.WriteFile(filepath.Join(wd, dodsrcFile), utils.S2B(rc), 0644)
	}
	return
}

// VerifyEarthdataLogin posts the account to the Earthdata login form and
// rejects anything but an accepting status.
func VerifyEarthdataLogin(ctx context.Context, d *Downloader, user, pass string) (err error) {
	form := url.Values{
		"username": {user},
		"password": {pass},
	}
	status, err := d.PostForm(ctx, EARTHDATA_HOST+"/login", form)
	if err != nil {
		return
	}
	if status >= 400 {
		log.Error("earthdata rejected the account", zap.Int("status", status), zap.String("user", user))
		return ErrAuthFailed
	}
	log.Info("earthdata account verified", zap.String("user", user))
	return
}
