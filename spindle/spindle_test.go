package spindle

import (
	"testing"

	"github.com/sigurn/crc16"

	"github.com/villagekit/robokit-go/command"
	"github.com/villagekit/robokit-go/modbus"
)

var crcTableForTest = crc16.MakeTable(crc16.CRC16_MODBUS)

// echoSerial is a hal.Serial fake that, once a full request frame has been
// written and flushed, synthesizes a plausible JMC HSV57 response: an
// echo of the request for write-style function codes (0x06), or a fixed
// holding-register payload for read-holding-registers (0x03) requests.
type echoSerial struct {
	written  []byte
	pending  []byte
	simRPM   uint16
}

func (s *echoSerial) WriteByte(b byte) (bool, error) {
	s.written = append(s.written, b)
	return true, nil
}

func (s *echoSerial) Flush() (bool, error) {
	if len(s.written) < 4 {
		s.written = nil
		return true, nil
	}
	funcCode := s.written[1]
	switch funcCode {
	case 0x06: // write single register: device echoes the request
		s.pending = append([]byte(nil), s.written...)
	case 0x03: // read holding registers: unit, func, byteCount, value hi/lo, crc
		resp := []byte{s.written[0], 0x03, 0x02, byte(s.simRPM >> 8), byte(s.simRPM)}
		crc := crc16.Checksum(resp, crcTableForTest)
		resp = append(resp, byte(crc), byte(crc>>8))
		s.pending = resp
	}
	s.written = nil
	return true, nil
}

func (s *echoSerial) ReadByte() (byte, bool, error) {
	if len(s.pending) == 0 {
		return 0, false, nil
	}
	b := s.pending[0]
	s.pending = s.pending[1:]
	return b, true, nil
}

func pumpSpindle(t *testing.T, d *Driver, maxIters int) bool {
	t.Helper()
	for i := 0; i < maxIters; i++ {
		done, err := d.Poll()
		if err != nil {
			t.Fatalf("Poll: %v", err)
		}
		if done {
			return true
		}
	}
	return false
}

func TestSpindleInitThenSetSpeed(t *testing.T) {
	serial := &echoSerial{simRPM: 1000}
	bus := modbus.New(serial, 1)
	d := New(bus)

	if err := d.Run(command.SpindleAction{On: true, RPM: 1000}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !pumpSpindle(t, d, 500) {
		t.Fatalf("spindle did not settle within iteration budget")
	}
	if !d.RPMWithinTolerance() {
		t.Fatalf("expected RPM within tolerance after settling, current=%d", d.currentRPM)
	}
}

func TestSpindleTurnsOff(t *testing.T) {
	serial := &echoSerial{simRPM: 0}
	bus := modbus.New(serial, 1)
	d := New(bus)

	if err := d.Run(command.SpindleAction{On: false}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !pumpSpindle(t, d, 500) {
		t.Fatalf("spindle did not settle within iteration budget")
	}
}
