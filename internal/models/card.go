// internal/models/card.go
package models

import (
	"fmt"
	"strconv"
)

// Color is the printed color of a card. Wild cards carry ColorWild until played.
type Color string

const (
	ColorRed    Color = "red"
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorWild   Color = "wild"
)

// SuitColors lists the four playable colors in canonical deck order.
var SuitColors = []Color{ColorRed, ColorBlue, ColorGreen, ColorYellow}

// IsSuit reports whether c is one of the four colors a wild can be declared as.
func (c Color) IsSuit() bool {
	switch c {
	case ColorRed, ColorBlue, ColorGreen, ColorYellow:
		return true
	}
	return false
}

// Valid reports whether c is a known card color, wild included.
func (c Color) Valid() bool {
	return c.IsSuit() || c == ColorWild
}

// Value is the face of a card: a digit or one of the action faces.
type Value string

const (
	ValueSkip    Value = "skip"
	ValueReverse Value = "reverse"
	ValueDraw2   Value = "draw2"
	ValueWild    Value = "wild"
	ValueWild4   Value = "wild4"
)

// NumberValue returns the Value for digit n (0-9).
func NumberValue(n int) Value {
	return Value(strconv.Itoa(n))
}

// IsNumber reports whether v is one of "0".."9".
func (v Value) IsNumber() bool {
	return len(v) == 1 && v[0] >= '0' && v[0] <= '9'
}

// IsWild reports whether v is wild or wild4.
func (v Value) IsWild() bool {
	return v == ValueWild || v == ValueWild4
}

// Valid reports whether v is a known card face.
func (v Value) Valid() bool {
	if v.IsNumber() {
		return true
	}
	switch v {
	case ValueSkip, ValueReverse, ValueDraw2, ValueWild, ValueWild4:
		return true
	}
	return false
}

// Card is an immutable Uno card. Two cards with the same color and value are interchangeable.
type Card struct {
	Color Color `json:"color"`
	Value Value `json:"value"`
}

// String renders the card as "red-5" or "wild-wild4".
func (c Card) String() string {
	if c.Value == ValueWild && c.Color == ColorWild {
		return "wild"
	}
	return fmt.Sprintf("%s-%s", c.Color, c.Value)
}

// IsWild reports whether the card is a wild or wild draw four.
func (c Card) IsWild() bool {
	return c.Value.IsWild()
}

// Valid reports whether the color/value combination exists in a standard deck.
func (c Card) Valid() bool {
	if !c.Color.Valid() || !c.Value.Valid() {
		return false
	}
	// wilds are color-less and nothing else is
	return c.Value.IsWild() == (c.Color == ColorWild)
}
