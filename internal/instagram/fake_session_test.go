package instagram

import (
	"fmt"
	"time"

	"github.com/onepunch-tk/groth-api-app/internal/browser"
)

type typedEntry struct {
	selector string
	text     string
}

type fakeElement struct {
	sess     *fakeSession
	selector string
	clickErr error
	typeErr  error
}

func (e *fakeElement) Click() error {
	e.sess.clicks = append(e.sess.clicks, e.selector)
	return e.clickErr
}

func (e *fakeElement) Type(text string, _ time.Duration) error {
	e.sess.typed = append(e.sess.typed, typedEntry{selector: e.selector, text: text})
	return e.typeErr
}

func (e *fakeElement) SetFiles(paths []string) error {
	e.sess.files = append(e.sess.files, paths)
	return nil
}

type fakeChooser struct {
	sess *fakeSession
}

func (c *fakeChooser) SetFiles(paths []string) error {
	c.sess.chooserFiles = append(c.sess.chooserFiles, paths)
	return nil
}

// fakeSession scripts the DOM surface the workflow drives. Selectors listed
// in present resolve; the Next control resolves nextRemaining times before
// the chain exhausts; everything else reports absence.
type fakeSession struct {
	present  map[string]bool
	findErr  map[string]error
	clickErr map[string]error
	allElems map[string]int

	nextRemaining int
	raisesChooser bool
	chooserErr    error

	responseBody []byte
	responseErr  error

	navigations  []string
	clicks       []string
	typed        []typedEntry
	files        [][]string
	chooserFiles [][]string
	closed       bool
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		present:  make(map[string]bool),
		findErr:  make(map[string]error),
		clickErr: make(map[string]error),
		allElems: make(map[string]int),
	}
}

func (s *fakeSession) Navigate(url string, _ browser.NavigateOptions) error {
	s.navigations = append(s.navigations, url)
	return nil
}

func (s *fakeSession) Find(selector string, _ time.Duration) (browser.Element, error) {
	if err, ok := s.findErr[selector]; ok {
		return nil, err
	}
	if selector == nextControlLocator {
		if s.nextRemaining > 0 {
			s.nextRemaining--
			return &fakeElement{sess: s, selector: selector}, nil
		}
		return nil, browser.ErrElementNotFound
	}
	if !s.present[selector] {
		return nil, browser.ErrElementNotFound
	}
	return &fakeElement{sess: s, selector: selector, clickErr: s.clickErr[selector]}, nil
}

func (s *fakeSession) FindAll(selector string) ([]browser.Element, error) {
	count := s.allElems[selector]
	elements := make([]browser.Element, 0, count)
	for i := 0; i < count; i++ {
		elements = append(elements, &fakeElement{sess: s, selector: fmt.Sprintf("%s#%d", selector, i)})
	}
	return elements, nil
}

func (s *fakeSession) ExpectFileChooser(trigger func() error, _ time.Duration) (browser.FileChooser, error) {
	if err := trigger(); err != nil {
		return nil, err
	}
	if s.chooserErr != nil {
		return nil, s.chooserErr
	}
	if !s.raisesChooser {
		return nil, browser.ErrElementNotFound
	}
	return &fakeChooser{sess: s}, nil
}

func (s *fakeSession) ExpectResponse(_ func(url string, status int) bool, trigger func() error, _ time.Duration) ([]byte, error) {
	if err := trigger(); err != nil {
		return nil, err
	}
	if s.responseErr != nil {
		return nil, s.responseErr
	}
	return s.responseBody, nil
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

// countClicks reports how many recorded clicks hit the given selector,
// counting indexed FindAll elements against their base selector.
func (s *fakeSession) countClicks(selector string) int {
	n := 0
	for _, c := range s.clicks {
		if c == selector {
			n++
		}
	}
	return n
}

func (s *fakeSession) typedInto(selector string) []string {
	var texts []string
	for _, entry := range s.typed {
		if entry.selector == selector {
			texts = append(texts, entry.text)
		}
	}
	return texts
}

type fakeDriver struct {
	sess    *fakeSession
	openErr error
	opened  []browser.SessionOptions
}

func (d *fakeDriver) Open(opts browser.SessionOptions) (browser.Session, error) {
	d.opened = append(d.opened, opts)
	if d.openErr != nil {
		return nil, d.openErr
	}
	return d.sess, nil
}

func (d *fakeDriver) Stop() error { return nil }
