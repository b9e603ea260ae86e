package errx

import (
	"errors"
	"fmt"
)

// CreateByCode creates an Error using the provided code, description, and message.
func CreateByCode(code, description, message string, cause error) *Error {
	if cause != nil {
		return Wrap(code, description, message, cause)
	}
	return New(code, description, message)
}

// FromSentinel creates an Error from a sentinel error and optional message/cause.
// The sentinel's category is determined via lookup and defaults to CLI.
func FromSentinel(sentinel error, lookup func(error) (code, description string), message string, cause error) *Error {
	code, desc := lookup(sentinel)
	if code == "" {
		code = CodeCLI
		desc = DescCLI
	}
	return CreateByCode(code, desc, message, cause).WithBase(sentinel)
}

// Catalog maps sentinel errors to their code and description so that call
// sites only need to name the sentinel.
type Catalog struct {
	specs map[error]RegistryEntry
}

// NewCatalog returns an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{specs: make(map[error]RegistryEntry)}
}

// Sentinel creates a sentinel error and registers its category in one step.
// It panics when code is not in the registry or description does not match
// the registered one; sentinels are package-level variables, so a mismatch
// fails at init.
func (c *Catalog) Sentinel(msg, code, description string) error {
	if registered, ok := DescriptionFor(code); !ok || registered != description {
		panic(fmt.Sprintf("errx: sentinel %q registered with unknown category %s (%q)", msg, code, description))
	}
	err := errors.New(msg)
	c.specs[err] = RegistryEntry{Code: code, Description: description}
	return err
}

// Lookup returns the category registered for sentinel, defaulting to CLI.
// It has the signature FromSentinel expects.
func (c *Catalog) Lookup(sentinel error) (code, description string) {
	if spec, ok := c.specs[sentinel]; ok {
		return spec.Code, spec.Description
	}
	return CodeCLI, DescCLI
}

// New creates an Error categorised by base.
func (c *Catalog) New(base error, msg string) *Error {
	return c.Wrap(base, nil, msg)
}

// Wrap creates an Error categorised by base that wraps cause.
func (c *Catalog) Wrap(base, cause error, msg string) *Error {
	if base == nil {
		return CreateByCode(CodeCLI, DescCLI, msg, cause)
	}
	return FromSentinel(base, c.Lookup, msg, cause)
}

// WrapWithContext is Wrap plus structured context.
func (c *Catalog) WrapWithContext(base, cause error, msg string, ctx map[string]any) *Error {
	err := c.Wrap(base, cause, msg)
	if len(ctx) > 0 {
		return err.WithContextMap(ctx)
	}
	return err
}
