// ABOUTME: Version constants for the waveform widget
// ABOUTME: Referenced in logs and the debug overlay
package version

const (
	Product      = "MirrorWave"
	Manufacturer = "MirrorWave Project"
	Version      = "0.1.0"
)
