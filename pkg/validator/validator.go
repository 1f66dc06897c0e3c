package validator

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const (
	minEmailLength    = 3
	maxEmailLength    = 255
	minPasswordLength = 8
	maxPasswordLength = 128
	maxTitleLength    = 255
	maxMessageLength  = 2000
	maxNotesLength    = 2000
	maxMediaURLLength = 2048
	asciiControlStart = 32
	asciiDelete       = 127

	errEmailEmptyFmt        = "email cannot be empty"
	errEmailLengthFmt       = "email must be between %d and %d characters"
	errEmailInvalidFmt      = "invalid email format"
	errPasswordMinLengthFmt = "password must be at least %d characters"
	errPasswordMaxLengthFmt = "password must not exceed %d characters"
	errTitleEmptyFmt        = "title cannot be empty"
	errTitleMaxLengthFmt    = "title must not exceed %d characters"
	errTitleControlFmt      = "title cannot contain control characters"
	errMessageMaxLengthFmt  = "message must not exceed %d characters"
	errNotesMaxLengthFmt    = "notes must not exceed %d characters"
	errMediaURLEmptyFmt     = "media URL cannot be empty"
	errMediaURLLengthFmt    = "media URL must not exceed %d characters"
	errMediaURLInvalidFmt   = "media URL must be a valid http(s) URL"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func Email(email string) error {
	if email == "" {
		return fmt.Errorf(errEmailEmptyFmt)
	}
	if len(email) < minEmailLength || len(email) > maxEmailLength {
		return fmt.Errorf(errEmailLengthFmt, minEmailLength, maxEmailLength)
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf(errEmailInvalidFmt)
	}
	return nil
}

func Password(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf(errPasswordMinLengthFmt, minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf(errPasswordMaxLengthFmt, maxPasswordLength)
	}
	return nil
}

func Title(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf(errTitleEmptyFmt)
	}
	if len(title) > maxTitleLength {
		return fmt.Errorf(errTitleMaxLengthFmt, maxTitleLength)
	}
	if containsControlChars(title) {
		return fmt.Errorf(errTitleControlFmt)
	}
	return nil
}

func Message(message string) error {
	if len(message) > maxMessageLength {
		return fmt.Errorf(errMessageMaxLengthFmt, maxMessageLength)
	}
	return nil
}

func Notes(notes string) error {
	if len(notes) > maxNotesLength {
		return fmt.Errorf(errNotesMaxLengthFmt, maxNotesLength)
	}
	return nil
}

func MediaURL(raw string) error {
	if raw == "" {
		return fmt.Errorf(errMediaURLEmptyFmt)
	}
	if len(raw) > maxMediaURLLength {
		return fmt.Errorf(errMediaURLLengthFmt, maxMediaURLLength)
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf(errMediaURLInvalidFmt)
	}
	return nil
}

func containsControlChars(s string) bool {
	for _, r := range s {
		if r < asciiControlStart || r == asciiDelete {
			return true
		}
	}
	return false
}
