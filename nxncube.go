// Package nxncube provides a move engine for N×N×N twisty puzzles.
//
// # Features
//
//   - Move notation parsing and canonical formatting (R, 2R, Rw2, 3Fw', M', x)
//   - Layer resolution for face, inner, wide, slice and whole-cube moves
//   - Logical cube state with sticker serialization and a cached solved check
//   - A tick-driven rotation animator with synchronous supersession
//   - Drag and keyboard resolvers that turn user input into move tokens
//
// # Quick Start
//
// Apply moves to a standalone cube:
//
//	c, err := nxncube.NewCube(3)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	moves, _ := nxncube.ParseMoves("R U R' U'")
//	for _, m := range moves {
//	    if _, err := c.ApplyMove(m); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//	fmt.Println("Solved:", c.IsSolved())
//
// # Engine
//
// The Engine couples a Cube with an Animator. Every move, whether typed,
// dragged, replayed or received from a peer, goes through Engine.Submit:
//
//	e, _ := nxncube.NewEngine(4, nxncube.WithAnimationDuration(120*time.Millisecond))
//	e.OnComplete(func(c nxncube.Completion) {
//	    fmt.Println("finished", c.Turn.Move)
//	})
//	e.Submit("Rw")
//	e.Tick(16 * time.Millisecond) // called from the render loop
//
// # Coordinates
//
// Grid indices run 0..N-1 along +x (right), +y (up) and +z (front). A sign of
// +1 on a face move turns that face clockwise as seen from outside the face.
package nxncube
