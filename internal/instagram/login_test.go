package instagram

import (
	"errors"
	"testing"

	"github.com/onepunch-tk/groth-api-app/internal/browser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCreds = Credentials{Username: "poster", Password: "hunter2"}

func TestEnsureAuthenticated_FormAbsent(t *testing.T) {
	sess := newFakeSession()

	state, err := EnsureAuthenticated(sess, testCreds)

	require.NoError(t, err)
	assert.Equal(t, LoginStateAuthenticated, state)
	assert.Empty(t, sess.typed, "no credentials may be submitted when the form is absent")
	assert.Empty(t, sess.clicks)
}

func TestEnsureAuthenticated_SubmitsAndAuthenticates(t *testing.T) {
	sess := newFakeSession()
	sess.present[usernameInputLocator] = true
	sess.present[passwordInputLocator] = true
	sess.present[submitButtonLocator] = true
	sess.responseBody = []byte(`{"authenticated": true, "user": true}`)

	state, err := EnsureAuthenticated(sess, testCreds)

	require.NoError(t, err)
	assert.Equal(t, LoginStateAuthenticated, state)
	assert.Equal(t, []string{"poster"}, sess.typedInto(usernameInputLocator))
	assert.Equal(t, []string{"hunter2"}, sess.typedInto(passwordInputLocator))
	assert.Equal(t, 1, sess.countClicks(submitButtonLocator))
}

func TestEnsureAuthenticated_TerminalUnauthorized(t *testing.T) {
	tests := []struct {
		name string
		body []byte
		err  error
	}{
		{name: "explicit rejection", body: []byte(`{"authenticated": false}`)},
		{name: "malformed response", body: []byte(`not json`)},
		{name: "response timeout", err: browser.ErrElementNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := newFakeSession()
			sess.present[usernameInputLocator] = true
			sess.present[passwordInputLocator] = true
			sess.present[submitButtonLocator] = true
			sess.responseBody = tt.body
			sess.responseErr = tt.err

			state, err := EnsureAuthenticated(sess, testCreds)

			require.NoError(t, err)
			assert.Equal(t, LoginStateUnauthorized, state)
		})
	}
}

func TestEnsureAuthenticated_EngineFailureSurfaces(t *testing.T) {
	engineErr := errors.New("session crashed")
	sess := newFakeSession()
	sess.findErr[usernameInputLocator] = engineErr

	state, err := EnsureAuthenticated(sess, testCreds)

	require.ErrorIs(t, err, engineErr)
	assert.Equal(t, LoginStateUnknown, state)
}
