package strategy

import "time"

// Session is a global trading session with a fixed UTC window.
type Session string

const (
	SessionAsian    Session = "asian"
	SessionEuropean Session = "european"
	SessionUS       Session = "us"
)

// CurrentSession returns the trading session active at the given time.
// Windows (UTC): Asian 00:00-08:00, European 08:00-16:00, US 16:00-24:00.
func CurrentSession(t time.Time) Session {
	switch hour := t.UTC().Hour(); {
	case hour < 8:
		return SessionAsian
	case hour < 16:
		return SessionEuropean
	default:
		return SessionUS
	}
}

// sessionAllowed reports whether the session at t is in the allow-list.
// An empty allow-list permits trading in every session.
func sessionAllowed(allowed []Session, t time.Time) bool {
	if len(allowed) == 0 {
		return true
	}
	current := CurrentSession(t)
	for _, s := range allowed {
		if s == current {
			return true
		}
	}
	return false
}
