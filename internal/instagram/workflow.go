package instagram

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/onepunch-tk/groth-api-app/internal/browser"
)

// attachMedia opens the composer for the given device mode and feeds it the
// ordered media paths. Both variants converge on the step-advance loop.
func attachMedia(sess browser.Session, mode browser.DeviceMode, paths []string) {
	if mode == browser.DeviceModeMobile {
		slog.Info("start mobile posting")
		dismissCancelDialog(sess)
		mobileAttach(sess, paths)
		return
	}
	slog.Info("start pc posting")
	desktopAttach(sess, paths)
}

// The mobile layout sometimes greets a restored session with an app-install
// prompt carrying a Cancel affordance.
func dismissCancelDialog(sess browser.Session) {
	cancel, err := sess.Find(cancelDialogLocator, cancelDialogTimeout)
	if err != nil {
		slog.Info("not found dialog")
		return
	}
	if err := cancel.Click(); err != nil {
		slog.Info(err.Error())
		return
	}
	time.Sleep(actionPause)
}

func mobileAttach(sess browser.Session, paths []string) {
	homes, err := sess.FindAll(homeLocator)
	if err != nil || len(homes) == 0 {
		slog.Info("home affordance not found")
		return
	}
	if err := homes[len(homes)-1].Click(); err != nil {
		slog.Info(err.Error())
		return
	}
	time.Sleep(actionPause)

	chooser, err := sess.ExpectFileChooser(func() error {
		post, err := sess.Find(mobilePostLocator, fileChooserTimeout)
		if err != nil {
			return err
		}
		return post.Click()
	}, fileChooserTimeout)
	if err != nil {
		// Some engine builds cannot surface the native picker.
		slog.Info("file chooser interaction failed", "error", err.Error())
		return
	}

	if err := chooser.SetFiles(paths); err != nil {
		slog.Info(err.Error())
		return
	}
	slog.Info("file chooser accepted")
	time.Sleep(actionPause)
}

func desktopAttach(sess browser.Session, paths []string) {
	create, err := sess.Find(desktopNewPost, fileChooserTimeout)
	if err != nil {
		slog.Info("new post affordance not found", "error", err.Error())
		return
	}
	if err := create.Click(); err != nil {
		slog.Info(err.Error())
		return
	}

	input, err := sess.Find(fileInputLocator, fileChooserTimeout)
	if err != nil {
		slog.Info("file input not found", "error", err.Error())
		return
	}
	if err := input.SetFiles(paths); err != nil {
		slog.Info(err.Error())
		return
	}
	slog.Info("upload images to input elements")
	time.Sleep(actionPause)
}

// advanceSteps clicks through the chain of Next screens. The chain length is
// decided by the platform and the media count, so the loop runs until a
// bounded wait finds no Next control, which is the normal exit. The iteration
// ceiling guards against a UI that keeps presenting one.
func advanceSteps(sess browser.Session) (int, error) {
	steps := 0
	for steps < maxStepAdvances {
		next, err := sess.Find(nextControlLocator, nextControlTimeout)
		if errors.Is(err, browser.ErrElementNotFound) {
			return steps, nil
		}
		if err != nil {
			return steps, err
		}
		if err := next.Click(); err != nil {
			return steps, err
		}
		steps++
		time.Sleep(actionPause)
	}
	return steps, fmt.Errorf("step chain did not exhaust after %d advances", maxStepAdvances)
}

// typeCaption enters the caption into the device-appropriate input: a plain
// textarea on mobile, a labeled rich input on desktop.
func typeCaption(sess browser.Session, mode browser.DeviceMode, caption string) error {
	locator := desktopCaptionLocator
	if mode == browser.DeviceModeMobile {
		locator = mobileCaptionLocator
	}

	input, err := sess.Find(locator, shareTimeout)
	if err != nil {
		return err
	}
	if err := input.Type(caption, keystrokeDelay); err != nil {
		return err
	}
	time.Sleep(150 * time.Millisecond)
	return nil
}

// confirmShare clicks the publish confirmation. Not finding it within the
// bound is the workflow-failure branch, reported to the caller for status
// recording rather than thrown past it.
func confirmShare(sess browser.Session) error {
	share, err := sess.Find(shareControlLocator, shareTimeout)
	if err != nil {
		return err
	}
	if err := share.Click(); err != nil {
		return err
	}
	time.Sleep(actionPause)
	return nil
}
