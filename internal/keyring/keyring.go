// Package keyring stores registry passwords in the operating system's
// secret store, keyed by (service, username).
package keyring

import (
	"errors"
	"fmt"

	gokeyring "github.com/zalando/go-keyring"
)

// ServiceName is the service under which wheelpub stores passwords.
const ServiceName = "wheelpub"

var (
	// ErrNotFound is returned when no password is stored for the username.
	ErrNotFound = errors.New("no password stored")
	// ErrUnavailable is returned when no secret store can be reached.
	ErrUnavailable = errors.New("secret store unavailable")
)

// Store is a password store. Errors other than ErrNotFound and
// ErrUnavailable are failures of a reachable store.
type Store interface {
	Get(service, username string) (string, error)
	Set(service, username, password string) error
	Delete(service, username string) error
}

// System is the Store backed by the OS keychain (macOS Keychain,
// Windows Credential Manager, Secret Service on Linux).
type System struct{}

// NewSystem returns the OS-backed store.
func NewSystem() System {
	return System{}
}

func (System) Get(service, username string) (string, error) {
	password, err := gokeyring.Get(service, username)
	return password, translate(err)
}

func (System) Set(service, username, password string) error {
	return translate(gokeyring.Set(service, username, password))
}

func (System) Delete(service, username string) error {
	return translate(gokeyring.Delete(service, username))
}

// translate maps go-keyring errors onto the Store contract. Only a missing
// entry and an oversized secret are meaningful to callers; every other
// failure (no D-Bus session, no secret service, locked keychain) means the
// store cannot be reached and is reported as ErrUnavailable with the cause.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gokeyring.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, gokeyring.ErrSetDataTooBig):
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// Noop is the Store used when the secret store is disabled.
// Every call reports ErrUnavailable.
type Noop struct{}

func (Noop) Get(string, string) (string, error) { return "", ErrUnavailable }
func (Noop) Set(string, string, string) error   { return ErrUnavailable }
func (Noop) Delete(string, string) error        { return ErrUnavailable }
