// Package viz renders simulations in the terminal and to image files.
//
//   - [Model]: live bubbletea view of a running system
//   - [Canvas], [Camera], [Render3D]: braille wireframe rendering
//   - [EnergyGraph], [SeriesGraph]: asciigraph line charts
//   - [SaveEnergyPlot], [SavePortraitPlot]: PNG/SVG plots via gonum/plot
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Restore the starting state
//	X/Y/Z - Rotate the view
//	+/-   - Zoom
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
package viz
