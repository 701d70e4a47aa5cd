package units

import "fmt"

// Pose is a position and heading in the fixed global frame. Theta is
// measured counter-clockwise with zero facing the global +Y axis, and
// accumulates without wrapping so consecutive poses stay continuous.
type Pose struct {
	X     Length
	Y     Length
	Theta Angle
}

func (p Pose) String() string {
	return fmt.Sprintf("(%.4fm, %.4fm, %.2f°)", p.X.Metres(), p.Y.Metres(), p.Theta.Degrees())
}
