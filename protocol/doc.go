// Package protocol implements the ID809 fingerprint module packet protocol.
//
// This package builds command frames, decodes response frames and names the
// module's status codes. It performs no I/O.
//
// # Protocol Overview
//
// Every exchange is a command frame followed by a response:
//
//	Command:  [AA 55][SID][DID][CMD(2)][LEN(2)][PAYLOAD...][CKS(2)]
//	Response: [55 AA][SID][DID][RCM(2)][LEN(2)][RET(2)][DATA...][CKS(2)]
//
// Where:
//   - SID/DID = session and destination IDs, always 0
//   - all 16-bit fields are big-endian
//   - CKS = 0xFF + byte sum of SID through the end of the payload, mod 65536
//   - RET = module status, StatusSuccess on success
//
// Some bus adapters return the response as a single 32-byte block instead.
// That flat framing replaces the two-byte prefix with the marker 0xEE:
//
//	Flat:     [EE][SID][DID][RCM(2)][LEN(2)][RET(2)][DATA...][CKS(2)][padding]
//
// # Command Builders
//
// Use the Build* functions to create command frames:
//
//	frame, err := protocol.BuildGenerateCmd(slot)
//	frame, err := protocol.BuildSearchCmd(80)
//	// ... etc
//
// Each logical operation also has a Command value pairing its code with the
// settle delay the firmware needs before the response can be read:
//
//	time.Sleep(protocol.Search.Settle)
//
// # Response Parsers
//
// Decode the raw bytes with Decode or DecodeFlat, then split the status:
//
//	f, err := protocol.DecodeFlat(block)
//	status, data, err := protocol.ParseResponse(f)
//	if status != protocol.StatusSuccess {
//	    return &protocol.StatusError{Operation: "search", Status: status}
//	}
//	id, err := protocol.ParseTemplateID(data)
//
// # Error Handling
//
// Decoders report malformed input with errors wrapping ErrBadMarker or
// ErrTruncated and report corruption with *ChecksumMismatchError. Module
// failures are represented by *StatusError:
//
//	err := &protocol.StatusError{Operation: "merge templates", Status: protocol.ErrMergeFail}
//	// err.Error() returns: "merge templates failed: template merge failed (0x1A)"
package protocol
