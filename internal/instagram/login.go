package instagram

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/onepunch-tk/groth-api-app/internal/browser"
)

// LoginState is the authentication classification of a browser session.
// UNKNOWN resolves to AUTHENTICATED or NEEDS_LOGIN from the landing page;
// NEEDS_LOGIN resolves to AUTHENTICATED or UNAUTHORIZED after submission.
type LoginState int

const (
	LoginStateUnknown LoginState = iota
	LoginStateAuthenticated
	LoginStateNeedsLogin
	LoginStateUnauthorized
)

func (s LoginState) String() string {
	switch s {
	case LoginStateAuthenticated:
		return "AUTHENTICATED"
	case LoginStateNeedsLogin:
		return "NEEDS_LOGIN"
	case LoginStateUnauthorized:
		return "UNAUTHORIZED"
	default:
		return "UNKNOWN"
	}
}

type Credentials struct {
	Username string
	Password string
}

type loginResponse struct {
	Authenticated bool `json:"authenticated"`
}

// EnsureAuthenticated classifies the session after the login page has loaded
// and submits credentials when the restored profile did not carry a valid
// session. Only an explicit authenticated signal from the login endpoint
// yields AUTHENTICATED; rejection, timeout, and malformed responses all yield
// UNAUTHORIZED, which is terminal for the attempt.
func EnsureAuthenticated(sess browser.Session, creds Credentials) (LoginState, error) {
	usernameInput, err := sess.Find(usernameInputLocator, loginFormTimeout)
	if errors.Is(err, browser.ErrElementNotFound) {
		// No login form: the session profile carried us straight in.
		return LoginStateAuthenticated, nil
	}
	if err != nil {
		return LoginStateUnknown, err
	}

	slog.Info("need sign in")
	return submitCredentials(sess, usernameInput, creds)
}

func submitCredentials(sess browser.Session, usernameInput browser.Element, creds Credentials) (LoginState, error) {
	if err := usernameInput.Type(creds.Username, keystrokeDelay); err != nil {
		return LoginStateUnknown, err
	}

	passwordInput, err := sess.Find(passwordInputLocator, loginFormTimeout)
	if err != nil {
		return LoginStateUnknown, err
	}
	if err := passwordInput.Type(creds.Password, keystrokeDelay); err != nil {
		return LoginStateUnknown, err
	}

	time.Sleep(2 * time.Second)

	submit, err := sess.Find(submitButtonLocator, loginFormTimeout)
	if err != nil {
		return LoginStateUnknown, err
	}

	body, err := sess.ExpectResponse(func(url string, status int) bool {
		return url == LoginAjaxURL && status == 200
	}, submit.Click, loginResponseTimeout)
	if err != nil {
		slog.Info("no definitive login response", "error", err.Error())
		return LoginStateUnauthorized, nil
	}

	var result loginResponse
	if err := json.Unmarshal(body, &result); err != nil {
		slog.Info("malformed login response", "error", err.Error())
		return LoginStateUnauthorized, nil
	}
	if !result.Authenticated {
		return LoginStateUnauthorized, nil
	}

	return LoginStateAuthenticated, nil
}
