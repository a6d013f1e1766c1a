package entity

import (
	"strings"
	"unicode"
)

// Seat identifies one of the two players of a session.
type Seat int

const (
	SeatOne Seat = iota
	SeatTwo
)

// Other - returns the opposite seat.
func (that Seat) Other() Seat {
	if that == SeatOne {
		return SeatTwo
	}
	return SeatOne
}

func (that Seat) Valid() bool {
	return that == SeatOne || that == SeatTwo
}

type Player struct {
	Name   string `json:"name"`
	Symbol Symbol `json:"symbol"`
	Wins   int    `json:"wins"`
	IsTurn bool   `json:"is_turn"`
}

// Key - returns the storage key of the player.
func (that *Player) Key() string {
	return PlayerKey(that.Name)
}

// PlayerKey - normalizes a player name into a storage key: lowercased, whitespace stripped.
func PlayerKey(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, name)
}
