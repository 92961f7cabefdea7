package browser

import "time"

// DeviceMode selects which emulation profile a session is opened with. The
// target platform serves materially different markup per mode, so the posting
// workflow branches on it.
type DeviceMode string

const (
	DeviceModeMobile  DeviceMode = "mobile"
	DeviceModeDesktop DeviceMode = "desktop"
)

// DeviceModeFor maps the schedule's device flag to a tagged mode.
func DeviceModeFor(isMobile bool) DeviceMode {
	if isMobile {
		return DeviceModeMobile
	}
	return DeviceModeDesktop
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// SessionOptions configures a new browser session. ProfileDir is the local
// working copy of the user's session profile; the engine mutates it in place.
type SessionOptions struct {
	ProfileDir string
	Mode       DeviceMode
	Headless   bool
}

// NavigateOptions configures page navigation behavior.
type NavigateOptions struct {
	// WaitUntil specifies when to consider navigation successful.
	// Valid values: "load", "domcontentloaded", "networkidle".
	WaitUntil string

	// Timeout bounds the navigation (0 means engine default).
	Timeout time.Duration
}

type emulationProfile struct {
	viewport  Viewport
	userAgent string
	isMobile  bool
	hasTouch  bool
}

const mobileUserAgent = "Mozilla/5.0 (iPhone; CPU iPhone OS 16_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.6 Mobile/15E148 Safari/604.1"

func profileFor(mode DeviceMode) emulationProfile {
	if mode == DeviceModeMobile {
		return emulationProfile{
			viewport:  Viewport{Width: 390, Height: 844},
			userAgent: mobileUserAgent,
			isMobile:  true,
			hasTouch:  true,
		}
	}
	return emulationProfile{
		viewport: Viewport{Width: 1280, Height: 800},
	}
}

// Engine launch flags. Sandboxing is disabled because the service runs inside
// an already-isolated container, and the forced locale keeps the platform's
// affordance text stable for the locators.
var launchArgs = []string{
	"--disable-notifications",
	"--disable-web-security",
	"--lang=en",
	"--disable-setuid-sandbox",
	"--no-sandbox",
}
