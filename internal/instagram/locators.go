package instagram

import "time"

// URLs and element locators for the Instagram web UI, in Playwright selector
// syntax. These are versioned constants: when the platform changes its
// markup, this file is the maintenance surface.
const (
	LoginURL     = "https://instagram.com/accounts/login"
	HomeURL      = "https://instagram.com/"
	LoginAjaxURL = "https://www.instagram.com/api/v1/web/accounts/login/ajax/"
)

const (
	usernameInputLocator = "input[name='username']"
	passwordInputLocator = "input[name='password']"
	submitButtonLocator  = "button[type='submit']"

	consentDialogLocator = `xpath=//span[contains(text(), "I agree")]`
	consentSwitchLocator = "input[role=switch]"
	consentAgreeLocator  = "div[aria-label^='I agree']"
	consentCloseLocator  = "div[aria-label^='Close']"

	cancelDialogLocator = `xpath=//button[contains(., 'Cancel')]`

	// The home affordance renders once per breakpoint; the last match is the
	// active one.
	homeLocator        = "[aria-label=Home]"
	mobilePostLocator  = "[aria-label='Post']"
	desktopNewPost     = `[aria-label^="New post"]`
	fileInputLocator   = "input[type=file]"
	nextControlLocator = `xpath=//button[contains(text(), 'Next')] | //div[contains(text(), 'Next')]`

	mobileCaptionLocator  = "textarea"
	desktopCaptionLocator = `[aria-label^="Write a caption"]`
	shareControlLocator   = `xpath=//button[contains(text(), 'Share')] | //div[contains(text(), 'Share')]`
)

const (
	loginFormTimeout     = 5 * time.Second
	loginResponseTimeout = 30 * time.Second
	consentTimeout       = 2 * time.Second
	cancelDialogTimeout  = 3 * time.Second
	fileChooserTimeout   = 10 * time.Second
	nextControlTimeout   = 2 * time.Second
	shareTimeout         = 30 * time.Second

	keystrokeDelay = 50 * time.Millisecond
	actionPause    = 200 * time.Millisecond
	settlePause    = 100 * time.Millisecond
	homePause      = 2500 * time.Millisecond

	// Safety valve for the step-advance loop; the platform normally presents
	// two or three Next screens per upload.
	maxStepAdvances = 25
)
