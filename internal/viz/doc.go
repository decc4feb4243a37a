// Package viz renders trajectories in the terminal.
//
//   - [Banner]: run parameters printed before integration starts
//   - [PlotFrames]: asciigraph line chart of one output column
//   - [Canvas] and [Camera]: Braille pixel canvas with a rotating 3D projection
//   - [Live]: Bubble Tea viewer that draws frames as they are streamed
//
// # Key Bindings
//
//	Space - Pause/Resume consumption of frames
//	X/Y/Z - Rotate the camera (shift reverses)
//	+/-   - Zoom
//	F/S   - Faster/slower playback
//	T     - Cycle color themes
//	?     - Show help overlay
//	Q     - Quit
package viz
