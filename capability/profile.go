package capability

import "fmt"

// Capacity is the number of template slots a module revision holds.
type Capacity int

const (
	// Capacity80 is the capacity of revision '4' modules
	Capacity80 Capacity = 80

	// Capacity200 is the capacity of revision '3' modules
	Capacity200 Capacity = 200
)

// Revision characters reported at the end of the device info string.
const (
	Revision80  = '4'
	Revision200 = '3'
)

func (c Capacity) String() string {
	return fmt.Sprintf("%d slots", int(c))
}

// Profile is what the driver knows about the connected module. It is
// learned once from the device info string and does not change afterwards.
type Profile struct {
	// Capacity is the number of template slots
	Capacity Capacity

	// Revision is the character the capacity was derived from
	Revision byte
}

// DefaultProfile is used when the revision character is not recognised.
var DefaultProfile = Profile{Capacity: Capacity80, Revision: Revision80}

// ProfileFromDeviceInfo derives the profile from a device info string.
// ok is false when the last character is not a known revision, in which
// case DefaultProfile is returned with Revision set to that character.
func ProfileFromDeviceInfo(info string) (Profile, bool) {
	if info == "" {
		return DefaultProfile, false
	}

	rev := info[len(info)-1]
	switch rev {
	case Revision80:
		return Profile{Capacity: Capacity80, Revision: rev}, true
	case Revision200:
		return Profile{Capacity: Capacity200, Revision: rev}, true
	default:
		p := DefaultProfile
		p.Revision = rev
		return p, false
	}
}

// ValidID reports whether id addresses a template slot on this module.
func (p Profile) ValidID(id int) bool {
	return id >= 1 && id <= int(p.Capacity)
}

func (p Profile) String() string {
	return fmt.Sprintf("revision %q, %s", p.Revision, p.Capacity)
}
