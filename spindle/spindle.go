// Package spindle implements the JMC HSV57 Modbus-RTU spindle driver:
// an init sequence, closed-loop RPM verification, and a bounded request
// queue sitting on top of a modbus.Serial engine.
package spindle

import (
	"errors"

	"github.com/villagekit/robokit-go/command"
	"github.com/villagekit/robokit-go/internal/ring"
	"github.com/villagekit/robokit-go/modbus"
)

// Register map for the JMC HSV57 drive, Modbus holding registers.
const (
	regControlMode  = 0x0065
	regSpeedSource  = 0x0191
	regAccel        = 0x019E
	regDecel        = 0x019F
	regTargetSpeed  = 0x0192
	regActualSpeed  = 0x0842
)

// AccelDecelValue is the fixed acceleration/deceleration register value,
// in ms per 1000 RPM, applied once during init.
const AccelDecelValue uint16 = 10_000

// RPMErrorBound is the tolerance (in RPM) used when verifying the drive
// reached its requested speed via closed-loop readback.
const RPMErrorBound = 2

const requestQueueCap = 8

var (
	ErrQueueFull  = errors.New("spindle: request queue full")
	ErrModbus     = errors.New("spindle: modbus engine error")
	ErrUnexpected = errors.New("spindle: unexpected response")
)

// Status is the spindle's on/off + speed state.
type Status struct {
	On  bool
	RPM int16
}

type reqKind int

const (
	reqInitControlMode reqKind = iota
	reqInitSpeedSource
	reqInitAccel
	reqInitDecel
	reqSetSpeed
	reqGetSpeed
)

type request struct {
	kind reqKind
	rpm  int16
}

// Driver drives a single spindle over a shared modbus.Serial engine.
type Driver struct {
	bus *modbus.Serial

	requests *ring.Buffer[request]
	inFlight *request

	initialized bool

	status     Status
	nextStatus Status
	currentRPM int16
	rpmKnown   bool
}

// New constructs a Driver; initialization requests are enqueued on first
// Poll call.
func New(bus *modbus.Serial) *Driver {
	return &Driver{bus: bus, requests: ring.New[request](requestQueueCap)}
}

// Run accepts a new spindle action (turn on at rpm, or turn off).
func (d *Driver) Run(act command.SpindleAction) error {
	d.nextStatus = Status{On: act.On, RPM: act.RPM}
	return nil
}

func (d *Driver) enqueue(r request) error {
	if !d.requests.PushBack(r) {
		return ErrQueueFull
	}
	return nil
}

func (d *Driver) ensureInitialized() error {
	if d.initialized {
		return nil
	}
	for _, r := range []request{
		{kind: reqInitControlMode},
		{kind: reqInitSpeedSource},
		{kind: reqInitAccel},
		{kind: reqInitDecel},
	} {
		if err := d.enqueue(r); err != nil {
			return err
		}
	}
	d.initialized = true
	return nil
}

// Poll drives initialization, status changes and closed-loop verification.
// done is true once the spindle is settled (queue drained, no status
// change pending) and, when the requested status is On, the read-back RPM
// is within RPMErrorBound of the requested RPM. An Off status is not
// verified by read-back: done is true as soon as the queue drains.
func (d *Driver) Poll() (done bool, err error) {
	if err := d.ensureInitialized(); err != nil {
		return false, err
	}

	if d.nextStatus != d.status {
		if d.nextStatus.On {
			if err := d.enqueue(request{kind: reqSetSpeed, rpm: d.nextStatus.RPM}); err != nil {
				return false, err
			}
		} else {
			if err := d.enqueue(request{kind: reqSetSpeed, rpm: 0}); err != nil {
				return false, err
			}
		}
		d.status = d.nextStatus
	}

	if err := d.pumpModbus(); err != nil {
		return false, err
	}

	if d.requests.Len() > 0 || d.inFlight != nil {
		return false, nil
	}

	if d.status.On {
		if d.rpmKnown && d.RPMWithinTolerance() {
			return true, nil
		}
		if err := d.enqueue(request{kind: reqGetSpeed}); err != nil {
			return false, err
		}
		return false, nil
	}

	return true, nil
}

// RPMWithinTolerance reports whether the last-read RPM matches the
// requested RPM within RPMErrorBound.
func (d *Driver) RPMWithinTolerance() bool {
	want := int32(0)
	if d.status.On {
		want = int32(d.status.RPM)
	}
	diff := want - int32(d.currentRPM)
	if diff < 0 {
		diff = -diff
	}
	return diff < RPMErrorBound
}

func (d *Driver) pumpModbus() error {
	if d.inFlight == nil {
		r, ok := d.requests.PopFront()
		if !ok {
			return nil
		}
		d.inFlight = &r
		d.send(r)
	}

	ready, err := d.bus.Poll()
	if err != nil {
		return ErrModbus
	}
	if !ready {
		return nil
	}

	if err := d.collect(*d.inFlight); err != nil {
		return err
	}
	d.inFlight = nil
	return nil
}

func (d *Driver) send(r request) {
	switch r.kind {
	case reqInitControlMode:
		d.bus.SetHolding(regControlMode, 1)
	case reqInitSpeedSource:
		d.bus.SetHolding(regSpeedSource, 1)
	case reqInitAccel:
		d.bus.SetHolding(regAccel, AccelDecelValue)
	case reqInitDecel:
		d.bus.SetHolding(regDecel, AccelDecelValue)
	case reqSetSpeed:
		d.bus.SetHolding(regTargetSpeed, i16ToU16(r.rpm))
	case reqGetSpeed:
		d.bus.GetHoldings(regActualSpeed, 1)
	}
}

func (d *Driver) collect(r request) error {
	switch r.kind {
	case reqInitControlMode, reqInitSpeedSource, reqInitAccel, reqInitDecel, reqSetSpeed:
		if err := d.bus.ParseOK(); err != nil {
			return ErrUnexpected
		}
	case reqGetSpeed:
		vals, err := d.bus.ParseU16(nil)
		if err != nil || len(vals) != 1 {
			return ErrUnexpected
		}
		d.currentRPM = u16ToI16(vals[0])
		d.rpmKnown = true
	}
	return nil
}
