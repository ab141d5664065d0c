package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies why an operation was rejected.
type Kind int

const (
	KindMissingField Kind = iota + 1
	KindReference
	KindDuplicate
	KindDependency
	KindDomainRule
	KindMalformed
)

// Sentinels matched by errors.Is against an *ErrValidation of the same kind.
var (
	ErrMissingField = stderrors.New("missing required field")
	ErrReference    = stderrors.New("referenced entity does not exist")
	ErrDuplicate    = stderrors.New("entity already exists")
	ErrDependency   = stderrors.New("entity has dependents")
	ErrDomainRule   = stderrors.New("domain rule violation")
	ErrMalformed    = stderrors.New("malformed operation")
)

func (k Kind) String() string {
	switch k {
	case KindMissingField:
		return "missing_field"
	case KindReference:
		return "reference"
	case KindDuplicate:
		return "duplicate"
	case KindDependency:
		return "dependency"
	case KindDomainRule:
		return "domain_rule"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindMissingField:
		return ErrMissingField
	case KindReference:
		return ErrReference
	case KindDuplicate:
		return ErrDuplicate
	case KindDependency:
		return ErrDependency
	case KindDomainRule:
		return ErrDomainRule
	case KindMalformed:
		return ErrMalformed
	default:
		return nil
	}
}

// ErrValidation is returned by every rejected ledger operation. Message is
// meant to be shown to a human as is.
type ErrValidation struct {
	Kind    Kind
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrDependency) and friends work.
func (e *ErrValidation) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// KindOf returns the Kind of err, or 0 when err is not an *ErrValidation.
func KindOf(err error) Kind {
	var v *ErrValidation
	if stderrors.As(err, &v) {
		return v.Kind
	}
	return 0
}

func newf(kind Kind, field, format string, args ...any) *ErrValidation {
	return &ErrValidation{Kind: kind, Field: field, Message: fmt.Sprintf(format, args...)}
}

func Missing(field, format string, args ...any) *ErrValidation {
	return newf(KindMissingField, field, format, args...)
}

func Reference(field, format string, args ...any) *ErrValidation {
	return newf(KindReference, field, format, args...)
}

func Duplicate(field, format string, args ...any) *ErrValidation {
	return newf(KindDuplicate, field, format, args...)
}

func Dependency(format string, args ...any) *ErrValidation {
	return newf(KindDependency, "", format, args...)
}

func Rule(field, format string, args ...any) *ErrValidation {
	return newf(KindDomainRule, field, format, args...)
}

func Malformed(format string, args ...any) *ErrValidation {
	return newf(KindMalformed, "", format, args...)
}
