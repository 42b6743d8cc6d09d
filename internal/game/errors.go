package game

import (
	"errors"
	"fmt"
)

// Kind names why a request was rejected. Rejections never change match state.
type Kind string

const (
	KindNotYourTurn           Kind = "NotYourTurn"
	KindCardNotInHand         Kind = "CardNotInHand"
	KindIllegalPlay           Kind = "IllegalPlay"
	KindMissingColorChoice    Kind = "MissingColorChoice"
	KindEmptyDrawPile         Kind = "EmptyDrawPile"
	KindGameAlreadyOver       Kind = "GameAlreadyOver"
	KindInvalidUnoDeclaration Kind = "InvalidUnoDeclaration"
	KindInvalidPlayerCount    Kind = "InvalidPlayerCount"
	KindInvalidPlayerName     Kind = "InvalidPlayerName"
	KindInvalidHouseRules     Kind = "InvalidHouseRules"
	KindUnknownPlayer         Kind = "UnknownPlayer"
	KindGameNotFound          Kind = "GameNotFound"
)

// Error is a rule rejection. Compare with errors.Is against the Err* sentinels.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotYourTurn) works for
// rejections carrying a custom message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrNotYourTurn           = &Error{Kind: KindNotYourTurn}
	ErrCardNotInHand         = &Error{Kind: KindCardNotInHand}
	ErrIllegalPlay           = &Error{Kind: KindIllegalPlay}
	ErrMissingColorChoice    = &Error{Kind: KindMissingColorChoice}
	ErrEmptyDrawPile         = &Error{Kind: KindEmptyDrawPile}
	ErrGameAlreadyOver       = &Error{Kind: KindGameAlreadyOver}
	ErrInvalidUnoDeclaration = &Error{Kind: KindInvalidUnoDeclaration}
	ErrInvalidPlayerCount    = &Error{Kind: KindInvalidPlayerCount}
	ErrInvalidPlayerName     = &Error{Kind: KindInvalidPlayerName}
	ErrInvalidHouseRules     = &Error{Kind: KindInvalidHouseRules}
	ErrUnknownPlayer         = &Error{Kind: KindUnknownPlayer}
	ErrGameNotFound          = &Error{Kind: KindGameNotFound}
)

func reject(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the rejection kind carried by err, or "" for infrastructure errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
