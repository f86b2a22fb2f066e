// Package viz renders runs in the terminal.
//
//   - [Chart]: asciigraph line chart of every report column
//   - [Summary]: key facts and final values of a run
//   - [LiveModel]: Bubble Tea view stepping a run as it is computed
//   - [Canvas]: Braille canvas used for the live phase portrait
//
// # Key Bindings
//
//	Space - Pause/Resume stepping
//	+/-   - More/fewer steps per frame
//	P     - Toggle phase portrait of the first two columns
//	Q     - Quit
package viz
