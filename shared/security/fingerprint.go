package security

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"
)

// unknownSignal substitutes for any environment signal the client could
// not collect. Fingerprinting degrades gracefully, it never fails.
const unknownSignal = "unknown"

// DeviceFingerprint carries the environment signals the admin SPA
// collects at login time. It is transient: only the digest is ever
// persisted, the raw signals are not stored anywhere.
type DeviceFingerprint struct {
	UserAgent        string `json:"user_agent"`
	ScreenResolution string `json:"screen_resolution"`
	Timezone         string `json:"timezone"`
	Locale           string `json:"locale"`
	Platform         string `json:"platform"`
	CookiesEnabled   string `json:"cookies_enabled"`
	DoNotTrack       string `json:"do_not_track"`
	CanvasSignature  string `json:"canvas_signature"`
	WebGLRenderer    string `json:"webgl_renderer"`
}

// Normalize replaces every missing signal with the fixed placeholder so
// that two requests from the same environment always digest identically.
func (f DeviceFingerprint) Normalize() DeviceFingerprint {
	fill := func(s string) string {
		if strings.TrimSpace(s) == "" {
			return unknownSignal
		}
		return s
	}

	return DeviceFingerprint{
		UserAgent:        fill(f.UserAgent),
		ScreenResolution: fill(f.ScreenResolution),
		Timezone:         fill(f.Timezone),
		Locale:           fill(f.Locale),
		Platform:         fill(f.Platform),
		CookiesEnabled:   fill(f.CookiesEnabled),
		DoNotTrack:       fill(f.DoNotTrack),
		CanvasSignature:  fill(f.CanvasSignature),
		WebGLRenderer:    fill(f.WebGLRenderer),
	}
}

// Hash returns the hex SHA3-256 digest over the ordered, delimited
// signals. The delimiter keeps adjacent signals from colliding when
// their concatenation is ambiguous.
func (f DeviceFingerprint) Hash() string {
	n := f.Normalize()
	signals := []string{
		n.UserAgent,
		n.ScreenResolution,
		n.Timezone,
		n.Locale,
		n.Platform,
		n.CookiesEnabled,
		n.DoNotTrack,
		n.CanvasSignature,
		n.WebGLRenderer,
	}

	digest := sha3.Sum256([]byte(strings.Join(signals, "|")))
	return hex.EncodeToString(digest[:])
}
