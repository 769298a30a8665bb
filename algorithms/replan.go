package algorithms

// Route - ordered steps from the first move to the goal-adjacent cell
type Route []Position

// Len - number of steps
func (r Route) Len() int { return len(r) }

// Contains reports literal membership of p.
func (r Route) Contains(p Position) bool {
	for _, step := range r {
		if step == p {
			return true
		}
	}
	return false
}

// Last returns the final step, false for an empty route.
func (r Route) Last() (Position, bool) {
	if len(r) == 0 {
		return NoPosition, false
	}
	return r[len(r)-1], true
}

// ShouldReplan - 적이 기존 경로 위에 있으면 재계획
//
// present is false when the episode has no enemy, in which case the answer
// is always false.
func ShouldReplan(route Route, obstacle Position, present bool) bool {
	if !present {
		return false
	}
	return route.Contains(obstacle)
}
