package ui

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"itassets-dashboard/internal/notify"
)

// flashCookie carries notices across a post/redirect/get round trip.
const flashCookie = "flash"

func setFlash(w http.ResponseWriter, notices []notify.Notice, secure bool) {
	if len(notices) == 0 {
		return
	}
	raw, err := json.Marshal(notices)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeFlash returns the flashed notices and expires the cookie. A cookie
// that does not decode is dropped silently.
func takeFlash(w http.ResponseWriter, r *http.Request, secure bool) []notify.Notice {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var notices []notify.Notice
	if err := json.Unmarshal(raw, &notices); err != nil {
		return nil
	}
	return notices
}
