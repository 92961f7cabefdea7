package instagram

import (
	"errors"
	"log/slog"
	"time"

	"github.com/onepunch-tk/groth-api-app/internal/browser"
)

// ConsentResult reports what happened to the consent interstitial. Ignored
// carries a failure that was logged and swallowed; the workflow never fails
// on this step.
type ConsentResult struct {
	Dismissed bool
	Ignored   error
}

// DismissConsent clears the optional consent dialog if it is on screen:
// toggle any switches, accept, and close the follow-up. The dialog appearing
// at all is non-deterministic, so its absence is the common case and not an
// error.
func DismissConsent(sess browser.Session) ConsentResult {
	_, err := sess.Find(consentDialogLocator, consentTimeout)
	if errors.Is(err, browser.ErrElementNotFound) {
		return ConsentResult{}
	}
	if err != nil {
		slog.Info("consent detection failed", "error", err.Error())
		return ConsentResult{Ignored: err}
	}

	switches, err := sess.FindAll(consentSwitchLocator)
	if err != nil {
		slog.Info("consent switches lookup failed", "error", err.Error())
		return ConsentResult{Ignored: err}
	}
	for _, sw := range switches {
		if err := sw.Click(); err != nil {
			slog.Info("consent switch toggle failed", "error", err.Error())
			return ConsentResult{Ignored: err}
		}
		time.Sleep(settlePause)
	}

	time.Sleep(settlePause)
	if err := clickIfPresent(sess, consentAgreeLocator, consentTimeout); err != nil {
		slog.Info("consent accept failed", "error", err.Error())
		return ConsentResult{Ignored: err}
	}
	time.Sleep(settlePause)
	if err := clickIfPresent(sess, consentCloseLocator, consentTimeout); err != nil {
		slog.Info("consent close failed", "error", err.Error())
		return ConsentResult{Dismissed: true, Ignored: err}
	}
	time.Sleep(settlePause)

	return ConsentResult{Dismissed: true}
}

func clickIfPresent(sess browser.Session, selector string, timeout time.Duration) error {
	el, err := sess.Find(selector, timeout)
	if err != nil {
		return err
	}
	return el.Click()
}
