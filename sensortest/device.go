package sensortest

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/moffa90/go-id809/capability"
	"github.com/moffa90/go-id809/protocol"
)

// FingerMode controls what finger detection reports.
type FingerMode int

const (
	// FingerCooperative presents a finger until a capture, then reports it
	// lifted for exactly one detect
	FingerCooperative FingerMode = iota

	// FingerAbsent always reports no finger
	FingerAbsent

	// FingerPresent always reports a finger
	FingerPresent
)

// Device simulates an ID809 module. It implements io.ReadWriter and
// sensor.StatusReader.
type Device struct {
	mu sync.Mutex

	variant protocol.Variant
	info    string
	sn      string
	profile capability.Profile

	pending []byte
	out     []byte

	fingerMode FingerMode
	fingerID   int
	lifted     bool
	captured   bool

	ram       [protocol.SamplesPerTemplate]int
	merged    int
	templates map[int]int
	params    map[byte]byte
	led       [4]byte
	standby   bool

	injected   map[uint16]map[int]uint16
	counts     map[uint16]int
	commands   []uint16
	writes     []int
	echo       *uint16
	corrupt    bool
	busyReads  int
	statusRead int

	readErr  error
	writeErr error
}

// NewDevice creates a simulated module answering in variant. info is the
// device info string; its last character selects the capacity.
func NewDevice(variant protocol.Variant, info string) *Device {
	profile, _ := capability.ProfileFromDeviceInfo(info)
	return &Device{
		variant:   variant,
		info:      info,
		sn:        "SIM0000000000001",
		profile:   profile,
		fingerID:  1,
		templates: make(map[int]int),
		params:    map[byte]byte{protocol.ParamSecurityLevel: 3},
		injected:  make(map[uint16]map[int]uint16),
		counts:    make(map[uint16]int),
	}
}

// Write accepts command bytes, possibly split across several calls. Once a
// whole frame has arrived its response is queued for Read.
func (d *Device) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.writeErr != nil {
		return 0, d.writeErr
	}
	d.writes = append(d.writes, len(p))
	d.pending = append(d.pending, p...)

	if len(d.pending) < protocol.HeaderSize {
		return len(p), nil
	}
	size := protocol.MinFrameSize + int(binary.BigEndian.Uint16(d.pending[6:8]))
	if len(d.pending) < size {
		return len(p), nil
	}

	raw := d.pending[:size]
	d.pending = nil

	f, err := protocol.Decode(raw)
	var cm *protocol.ChecksumMismatchError
	switch {
	case errors.As(err, &cm):
		d.respond(cm.Frame.Command, protocol.ErrFail, nil)
		return len(p), nil
	case err != nil:
		return 0, fmt.Errorf("sensortest: %w", err)
	}

	d.handle(f)
	return len(p), nil
}

// Read returns queued response bytes. With nothing queued it reports
// io.EOF.
func (d *Device) Read(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.readErr != nil {
		return 0, d.readErr
	}
	if len(d.out) == 0 {
		return 0, io.EOF
	}
	n := copy(p, d.out)
	d.out = d.out[n:]
	return n, nil
}

// ReadStatusByte reports protocol.FlatMarker while simulated busy reads
// remain, then zero.
func (d *Device) ReadStatusByte() (byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.statusRead++
	if d.busyReads != 0 {
		if d.busyReads > 0 {
			d.busyReads--
		}
		return protocol.FlatMarker, nil
	}
	return 0x00, nil
}

func (d *Device) handle(f *protocol.Frame) {
	code := f.Command
	d.counts[code]++
	d.commands = append(d.commands, code)

	if status, ok := d.injected[code][d.counts[code]]; ok {
		d.respond(code, status, nil)
		return
	}

	status, data := d.execute(code, f.Payload)
	d.respond(code, status, data)
}

func (d *Device) execute(code uint16, p []byte) (uint16, []byte) {
	switch code {
	case protocol.CodeTestConnection:
		d.standby = false
		return protocol.StatusSuccess, nil

	case protocol.CodeGetDeviceInfo:
		return protocol.StatusSuccess, []byte(d.info)

	case protocol.CodeGetModuleSN:
		sn := make([]byte, protocol.ModuleSNSize)
		copy(sn, d.sn)
		return protocol.StatusSuccess, sn

	case protocol.CodeEnterStandby:
		d.standby = true
		return protocol.StatusSuccess, nil

	case protocol.CodeSetParam:
		if len(p) < 2 {
			return protocol.ErrInvalidParam, nil
		}
		if p[0] == protocol.ParamSecurityLevel && (p[1] < protocol.MinSecurityLevel || p[1] > protocol.MaxSecurityLevel) {
			return protocol.ErrInvalidParam, nil
		}
		d.params[p[0]] = p[1]
		return protocol.StatusSuccess, nil

	case protocol.CodeGetParam:
		if len(p) < 1 {
			return protocol.ErrInvalidParam, nil
		}
		return protocol.StatusSuccess, []byte{d.params[p[0]]}

	case protocol.CodeFingerDetect:
		return protocol.StatusSuccess, []byte{d.detect()}

	case protocol.CodeGetImage:
		if d.fingerMode == FingerAbsent || d.lifted {
			return protocol.ErrFPNotDetected, nil
		}
		d.captured = true
		if d.fingerMode == FingerCooperative {
			d.lifted = true
		}
		return protocol.StatusSuccess, nil

	case protocol.CodeGenerate:
		if len(p) < 1 || int(p[0]) >= len(d.ram) {
			return protocol.ErrInvalidBufferID, nil
		}
		if !d.captured {
			return protocol.ErrFPNotDetected, nil
		}
		d.captured = false
		d.ram[p[0]] = d.fingerID
		return protocol.StatusSuccess, nil

	case protocol.CodeMerge:
		if len(p) < 3 || p[2] < 1 || int(p[2]) > len(d.ram) {
			return protocol.ErrInvalidParam, nil
		}
		finger := d.ram[0]
		for _, f := range d.ram[:p[2]] {
			if f == 0 || f != finger {
				return protocol.ErrMergeFail, nil
			}
		}
		d.merged = finger
		return protocol.StatusSuccess, nil

	case protocol.CodeStoreChar:
		if len(p) < 1 || !d.profile.ValidID(int(p[0])) {
			return protocol.ErrInvalidTmplNo, nil
		}
		if d.merged == 0 {
			return protocol.ErrInvalidTmplData, nil
		}
		d.templates[int(p[0])] = d.merged
		d.merged = 0
		d.ram = [protocol.SamplesPerTemplate]int{}
		return protocol.StatusSuccess, nil

	case protocol.CodeDelChar:
		if len(p) < 3 || p[0] == 0 || p[0] > p[2] {
			return protocol.ErrInvalidTmplNo, nil
		}
		for id := int(p[0]); id <= int(p[2]); id++ {
			delete(d.templates, id)
		}
		return protocol.StatusSuccess, nil

	case protocol.CodeGetEmptyID:
		if len(p) < 3 {
			return protocol.ErrInvalidParam, nil
		}
		for id := int(p[0]); id <= int(p[2]) && d.profile.ValidID(id); id++ {
			if _, used := d.templates[id]; !used {
				return protocol.StatusSuccess, []byte{byte(id), 0}
			}
		}
		return protocol.ErrEmptyIDNoExist, nil

	case protocol.CodeSearch:
		if len(p) < 5 {
			return protocol.ErrInvalidParam, nil
		}
		probe := d.ram[0]
		for id := int(p[2]); id <= int(p[4]); id++ {
			if probe != 0 && d.templates[id] == probe {
				return protocol.StatusSuccess, []byte{byte(id), 0, 0, 0}
			}
		}
		return protocol.StatusSuccess, []byte{0, 0, 0, 0}

	case protocol.CodeSLEDCtrl:
		if len(p) < 4 {
			return protocol.ErrInvalidParam, nil
		}
		copy(d.led[:], p)
		return protocol.StatusSuccess, nil

	default:
		return protocol.ErrFail, nil
	}
}

func (d *Device) detect() byte {
	switch d.fingerMode {
	case FingerAbsent:
		return 0
	case FingerPresent:
		return 1
	}
	if d.lifted {
		d.lifted = false
		return 0
	}
	return 1
}

func (d *Device) respond(code, status uint16, data []byte) {
	if d.echo != nil {
		code = *d.echo
		d.echo = nil
	}

	var (
		raw []byte
		err error
	)
	if d.variant == protocol.VariantStructured {
		raw, err = protocol.EncodeResponse(code, status, data)
	} else {
		raw, err = protocol.EncodeFlatResponse(code, status, data)
	}
	if err != nil {
		panic(fmt.Sprintf("sensortest: encode response: %v", err))
	}

	if d.corrupt {
		d.corrupt = false
		end := len(raw) - 1
		if d.variant != protocol.VariantStructured {
			end = protocol.FlatHeaderSize + protocol.StatusSize + len(data) + protocol.ChecksumSize - 1
		}
		raw[end] ^= 0xFF
	}

	d.out = append(d.out, raw...)
}

// SetFinger selects how finger detection behaves.
func (d *Device) SetFinger(mode FingerMode) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fingerMode = mode
	d.lifted = false
}

// SetFingerID selects which finger is presented. Templates record the
// finger they were enrolled from and Search matches on it.
func (d *Device) SetFingerID(id int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fingerID = id
}

// InjectStatus makes the n-th following occurrence (1-based) of command
// code answer with status without changing any simulated state.
func (d *Device) InjectStatus(code uint16, n int, status uint16) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.injected[code] == nil {
		d.injected[code] = make(map[int]uint16)
	}
	d.injected[code][d.counts[code]+n] = status
}

// CorruptNextChecksum damages the checksum of the next response.
func (d *Device) CorruptNextChecksum() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.corrupt = true
}

// EchoNext makes the next response carry code instead of the command
// that was sent.
func (d *Device) EchoNext(code uint16) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.echo = &code
}

// SetBusy makes the next n status reads report busy. A negative n keeps
// the bus busy until SetBusy is called again.
func (d *Device) SetBusy(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.busyReads = n
}

// SetReadError makes every Read fail with err. nil clears it.
func (d *Device) SetReadError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.readErr = err
}

// SetWriteError makes every Write fail with err. nil clears it.
func (d *Device) SetWriteError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writeErr = err
}

// AddTemplate stores a template for finger at id.
func (d *Device) AddTemplate(id, finger int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.templates[id] = finger
}

// Templates returns the IDs holding a template, in ascending order.
func (d *Device) Templates() []int {
	d.mu.Lock()
	defer d.mu.Unlock()
	ids := make([]int, 0, len(d.templates))
	for id := range d.templates {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Commands returns the command codes received so far.
func (d *Device) Commands() []uint16 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]uint16(nil), d.commands...)
}

// Count returns how many times code was received.
func (d *Device) Count(code uint16) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.counts[code]
}

// WriteSizes returns the length of every Write call.
func (d *Device) WriteSizes() []int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]int(nil), d.writes...)
}

// StatusReads returns how many times the bus status was read.
func (d *Device) StatusReads() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.statusRead
}

// LED returns the last LED control payload.
func (d *Device) LED() [4]byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.led
}

// SecurityLevel returns the simulated security level parameter.
func (d *Device) SecurityLevel() byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.params[protocol.ParamSecurityLevel]
}

// InStandby reports whether EnterStandby was received since the last test
// connection.
func (d *Device) InStandby() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.standby
}
