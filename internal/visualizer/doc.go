// Package visualizer paints a real-time frequency display for the player.
//
// Each frame draws a tinted background, one vertical bar per frequency bin
// and a radial cloud of dots around the centre. The palette cycles with time
// and with the overall intensity of the music.
//
// # Frame Loop
//
// The Visualizer does not own a timer. The host loop asks for frames and the
// Visualizer answers whether another frame should follow:
//
//	if viz.Activate() {
//	    gen := viz.Generation()
//	    // on every tick:
//	    if viz.Frame(gen) {
//	        // schedule the next tick with the same gen
//	    }
//	}
//
// Deactivate starts a new generation, so a frame already scheduled for the
// old one is dropped and the loop stops.
//
// # Surfaces
//
// Drawing goes through the Surface interface. Two are provided:
//   - Grid renders to terminal cells with lipgloss colours, two pixels per cell
//   - Raster renders to an image.RGBA and can be saved as PNG
package visualizer
