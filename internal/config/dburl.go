package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrNoDatabaseURL = errors.New("DATABASE_URL must be set")

// ValidateDatabaseURL checks a connection string and reports every problem
// found, not just the first.
func ValidateDatabaseURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return ErrNoDatabaseURL
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("DATABASE_URL must be a valid URL: %w", err)
	}

	switch u.Scheme {
	case "sqlite":
		if u.Host == "" && u.Path == "" && u.Opaque == "" {
			return errors.New("DATABASE_URL must contain a sqlite file path")
		}
		return nil
	case "postgres", "postgresql":
	default:
		return errors.New("DATABASE_URL must be a postgres URL")
	}

	var errs []error
	if u.User == nil || u.User.Username() == "" {
		errs = append(errs, errors.New("DATABASE_URL must contain a username"))
	}
	if u.User == nil {
		errs = append(errs, errors.New("DATABASE_URL must contain a password"))
	} else if _, ok := u.User.Password(); !ok {
		errs = append(errs, errors.New("DATABASE_URL must contain a password"))
	}
	if u.Port() == "" {
		errs = append(errs, errors.New("DATABASE_URL must contain a port"))
	}

	return errors.Join(errs...)
}
