package nxncube

// Predefined moves for convenience.
// Use these instead of parsing tokens for common outer-face turns.
//
// Example:
//
//	engine.SubmitMove(nxncube.R)
var (
	// Right face moves
	R      = MustParseMove("R")  // Right clockwise
	RPrime = MustParseMove("R'") // Right counter-clockwise
	R2     = MustParseMove("R2") // Right 180

	// Left face moves
	L      = MustParseMove("L")
	LPrime = MustParseMove("L'")
	L2     = MustParseMove("L2")

	// Up face moves
	U      = MustParseMove("U")
	UPrime = MustParseMove("U'")
	U2     = MustParseMove("U2")

	// Down face moves
	D      = MustParseMove("D")
	DPrime = MustParseMove("D'")
	D2     = MustParseMove("D2")

	// Front face moves
	F      = MustParseMove("F")
	FPrime = MustParseMove("F'")
	F2     = MustParseMove("F2")

	// Back face moves
	B      = MustParseMove("B")
	BPrime = MustParseMove("B'")
	B2     = MustParseMove("B2")
)

// Sexy move: R U R' U' - one of the most common algorithms.
// Six repetitions restore any cube.
var SexyMove = []Move{R, U, RPrime, UPrime}

// Inverse sexy move: U R U' R'
var InverseSexyMove = []Move{U, R, UPrime, RPrime}

// T-perm algorithm
var TPerm = []Move{R, U, RPrime, UPrime, RPrime, F, R2, UPrime, RPrime, UPrime, R, U, RPrime, FPrime}
