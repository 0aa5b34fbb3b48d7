package core

import "fmt"

// Player identifies a seat at the table. The zero value is NoPlayer.
type Player int

const (
	NoPlayer Player = iota
	Player1
	Player2
	Player3
	Player4
	Player5
	Player6
	Player7
	Player8
)

// MaxPlayers is the largest supported table.
const MaxPlayers = 8

// Players returns Player1..PlayerN in order.
func Players(n int) []Player {
	out := make([]Player, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, Player(i))
	}
	return out
}

// Valid reports whether p is one of Player1..Player8.
func (p Player) Valid() bool { return p >= Player1 && p <= Player8 }

// Index returns the zero-based seat index.
func (p Player) Index() int { return int(p) - 1 }

func (p Player) String() string {
	if !p.Valid() {
		return "none"
	}
	return fmt.Sprintf("P%d", int(p))
}
