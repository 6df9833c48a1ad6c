// Package viz renders a running chain in the terminal.
//
// The live view is a Bubble Tea program:
//
//   - [Model]: steps the chain every frame and draws it on a [Canvas]
//   - [Canvas]: Braille dot grid, addressed through a [Viewport]
//   - [Recorder]: captures canvas frames into a GIF
//
// # Controls
//
//	Mouse  - Drag the free end with the left button
//	Space  - Pause/Resume simulation
//	R      - Reset chain and parameters
//	Tab    - Cycle parameters, Up/Down to tune
//	T      - Cycle color themes
//	G      - Toggle GIF recording (rope.gif)
//	?      - Show help overlay
//	[ ]    - Time travel (rewind/forward)
package viz
