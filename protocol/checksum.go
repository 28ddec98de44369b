package protocol

// ChecksumMask truncates the running sum to 16 bits.
const ChecksumMask = 0xFFFF

// calculateChecksum computes the 16-bit frame checksum.
//
// The checksum is the byte sum of everything after the prefix (or flat
// marker) through the end of the payload, seeded with ChecksumSeed and
// truncated to 16 bits.
func calculateChecksum(data []byte) uint16 {
	sum := uint32(ChecksumSeed)
	for _, b := range data {
		sum += uint32(b)
	}
	return uint16(sum & ChecksumMask)
}
