package types

import (
	"regexp"
	"strconv"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

var (
	idPattern  = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	cikPattern = regexp.MustCompile(`^[0-9]{1,10}$`)
)

// CIK is the regulator's central index key of a company.
type CIK string

func (c CIK) Validate() error {
	if c == "" {
		return goerr.New("CIK cannot be empty")
	}
	if !cikPattern.MatchString(string(c)) {
		return goerr.New("CIK must be 1 to 10 digits", goerr.V("cik", c))
	}
	return nil
}

func (c CIK) String() string {
	return string(c)
}

// ThemeID identifies a normalized risk theme, e.g. "cyber-breach".
type ThemeID string

// Validate checks if the ThemeID is valid
func (t ThemeID) Validate() error {
	if t == "" {
		return goerr.New("theme ID cannot be empty")
	}
	if !idPattern.MatchString(string(t)) {
		return goerr.New("theme ID must be lowercase alphanumeric with hyphens", goerr.V("id", t))
	}
	return nil
}

func (t ThemeID) String() string {
	return string(t)
}

// AccessionNumber identifies a single filing.
type AccessionNumber string

func (a AccessionNumber) String() string {
	return string(a)
}

// SICCode is a standard industrial classification code.
type SICCode int

func (s SICCode) String() string {
	if s == 0 {
		return ""
	}
	return strconv.Itoa(int(s))
}

// UserID is the auth provider's user id.
type UserID string

func (u UserID) String() string {
	return string(u)
}

// WatchID identifies a watched company entry.
type WatchID string

// NewWatchID generates a new random WatchID
func NewWatchID() WatchID {
	return WatchID(uuid.New().String())
}

func (w WatchID) Validate() error {
	if _, err := uuid.Parse(string(w)); err != nil {
		return goerr.Wrap(err, "watch ID must be a UUID", goerr.V("id", w))
	}
	return nil
}

func (w WatchID) String() string {
	return string(w)
}
