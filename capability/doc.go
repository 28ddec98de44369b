// Package capability describes the ID809 hardware revisions and adapts
// device-independent requests to each of them.
//
// Two revisions exist. They differ in template capacity and in the byte
// encoding of the LED control command:
//
//	Revision '4': 80 templates, LED payload [mode][color][color][blink]
//	Revision '3': 200 templates, LED modes and colors use a remapped table
//
// The revision is the last character of the device info string:
//
//	profile, ok := capability.ProfileFromDeviceInfo("ID809_V1.4")
//	payload := profile.TranslateLED(capability.Breathing, capability.Blue, 0)
package capability
