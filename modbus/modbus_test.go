package modbus

import (
	"testing"

	"github.com/sigurn/crc16"

	"github.com/villagekit/robokit-go/platform"
)

func TestGetInputsFrameCRC(t *testing.T) {
	serial := &platform.FakeSerial{}
	m := New(serial, 1)
	m.GetInputs(0x0842, 1)

	if got, want := len(m.requestBytes), 8; got != want {
		t.Fatalf("request length = %d, want %d", got, want)
	}

	body := m.requestBytes[:len(m.requestBytes)-2]
	want := crc16.Checksum(body, crcTable)
	got := uint16(m.requestBytes[len(m.requestBytes)-2]) | uint16(m.requestBytes[len(m.requestBytes)-1])<<8
	if got != want {
		t.Fatalf("CRC = %04x, want %04x", got, want)
	}
}

func TestPollDrivesWriteThenRead(t *testing.T) {
	serial := &platform.FakeSerial{}
	m := New(serial, 1)
	m.SetHolding(0x0065, 1)

	for i := 0; i < 20; i++ {
		ready, err := m.Poll()
		if err != nil {
			t.Fatalf("Poll: %v", err)
		}
		if ready {
			break
		}
	}
	if m.status != Reading {
		t.Fatalf("status after write = %v, want Reading", m.status)
	}
	if len(serial.Written) != 8 {
		t.Fatalf("bytes written = %d, want 8", len(serial.Written))
	}

	// feed back a well-formed echo response: unit, func, addr hi/lo, val hi/lo, crc lo/hi
	resp := []byte{1, 0x06, 0x00, 0x65, 0x00, 0x01}
	crc := crc16.Checksum(resp, crcTable)
	resp = append(resp, byte(crc), byte(crc>>8))
	serial.Feed(resp)

	var ready bool
	var err error
	for i := 0; i < 20; i++ {
		ready, err = m.Poll()
		if err != nil {
			t.Fatalf("Poll: %v", err)
		}
		if ready {
			break
		}
	}
	if !ready {
		t.Fatalf("expected response ready")
	}
	if err := m.ParseOK(); err != nil {
		t.Fatalf("ParseOK: %v", err)
	}
}

func TestPollRejectsCorruptedCRC(t *testing.T) {
	serial := &platform.FakeSerial{}
	m := New(serial, 1)
	m.SetHolding(0x0065, 1)

	for i := 0; i < 20; i++ {
		if _, err := m.Poll(); err != nil {
			t.Fatalf("Poll (write phase): %v", err)
		}
		if m.status == Reading {
			break
		}
	}

	// well-formed echo, but with a CRC byte flipped
	resp := []byte{1, 0x06, 0x00, 0x65, 0x00, 0x01}
	crc := crc16.Checksum(resp, crcTable)
	resp = append(resp, byte(crc)^0xFF, byte(crc>>8))
	serial.Feed(resp)

	var gotErr error
	for i := 0; i < 20 && gotErr == nil; i++ {
		_, gotErr = m.Poll()
	}
	if gotErr != ErrCRC {
		t.Fatalf("Poll error = %v, want ErrCRC", gotErr)
	}
}

func TestPollRejectsMismatchedFunctionCode(t *testing.T) {
	serial := &platform.FakeSerial{}
	m := New(serial, 1)
	m.SetHolding(0x0065, 1)

	for i := 0; i < 20; i++ {
		if _, err := m.Poll(); err != nil {
			t.Fatalf("Poll (write phase): %v", err)
		}
		if m.status == Reading {
			break
		}
	}

	// CRC-valid frame, but echoing the wrong function code (0x10 instead of 0x06)
	resp := []byte{1, 0x10, 0x00, 0x65, 0x00, 0x01}
	crc := crc16.Checksum(resp, crcTable)
	resp = append(resp, byte(crc), byte(crc>>8))
	serial.Feed(resp)

	var gotErr error
	for i := 0; i < 20 && gotErr == nil; i++ {
		_, gotErr = m.Poll()
	}
	if gotErr != ErrUnexpected {
		t.Fatalf("Poll error = %v, want ErrUnexpected", gotErr)
	}
}

func TestParseU16(t *testing.T) {
	serial := &platform.FakeSerial{}
	m := New(serial, 1)
	m.responseBytes = []byte{1, 0x04, 0x02, 0x01, 0xF4}
	vals, err := m.ParseU16(nil)
	if err != nil {
		t.Fatalf("ParseU16: %v", err)
	}
	if len(vals) != 1 || vals[0] != 500 {
		t.Fatalf("vals = %v, want [500]", vals)
	}
}
