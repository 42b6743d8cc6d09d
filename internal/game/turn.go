package game

// stepIndex moves idx by steps seats in direction dir around n seats, keeping the result
// in [0, n).
func stepIndex(idx, steps, dir, n int) int {
	return ((idx+steps*dir)%n + n) % n
}

// peek returns the seat index steps ahead of the current player without moving the turn.
func (s *GameState) peek(steps int) int {
	return stepIndex(s.CurrentPlayerIndex, steps, s.Direction, len(s.Players))
}

// advance moves the turn steps seats in the current direction.
func (s *GameState) advance(steps int) {
	s.CurrentPlayerIndex = s.peek(steps)
}

// reverse flips the direction of play.
func (s *GameState) reverse() {
	s.Direction = -s.Direction
}

func directionName(dir int) string {
	if dir == CounterClockwise {
		return "counter-clockwise"
	}
	return "clockwise"
}
