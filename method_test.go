package wsc

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/wlan-go/eap-wsc/protocol"
)

// fakeTransport plays the Registrar side of a full exchange in lock-step
// with whatever the Method under test just sent, reusing fakeRegistrar
// from the session tests.
type fakeTransport struct {
	t    *testing.T
	id   *EnrolleeIdentity
	cred *protocol.Credential

	reg  *fakeRegistrar
	sent [][]byte
	step int
}

func (ft *fakeTransport) Send(opCode byte, body []byte) error {
	ft.sent = append(ft.sent, append([]byte{}, body...))
	if ft.reg == nil {
		ft.reg = newFakeRegistrar(ft.t, ft.id, body)
	}
	return nil
}

func (ft *fakeTransport) Recv() (byte, []byte, error) {
	ft.step++
	last := ft.sent[len(ft.sent)-1]
	switch ft.step {
	case 1:
		return byte(protocol.OpMsg), ft.reg.buildM2(), nil
	case 2:
		ft.reg.verifyAndAdvance(last)
		return byte(protocol.OpMsg), ft.reg.buildM4(), nil
	case 3:
		ft.reg.verifyAndAdvance(last)
		return byte(protocol.OpMsg), ft.reg.buildM6(), nil
	case 4:
		ft.reg.verifyAndAdvance(last)
		return byte(protocol.OpMsg), ft.reg.buildM8(ft.cred), nil
	default:
		return 0, nil, errors.New("fakeTransport: no more frames")
	}
}

// ackThenMsgTransport sends a genuine empty-bodied ACK before each real
// reply, exercising the op-level ignore path in Method.Run.
type ackThenMsgTransport struct {
	t    *testing.T
	id   *EnrolleeIdentity
	cred *protocol.Credential

	reg     *fakeRegistrar
	sent    [][]byte
	step    int
	sentAck bool
}

func (ft *ackThenMsgTransport) Send(opCode byte, body []byte) error {
	ft.sent = append(ft.sent, append([]byte{}, body...))
	if ft.reg == nil {
		ft.reg = newFakeRegistrar(ft.t, ft.id, body)
	}
	ft.sentAck = false
	return nil
}

func (ft *ackThenMsgTransport) Recv() (byte, []byte, error) {
	if !ft.sentAck {
		ft.sentAck = true
		return byte(protocol.OpAck), nil, nil
	}
	ft.step++
	last := ft.sent[len(ft.sent)-1]
	switch ft.step {
	case 1:
		return byte(protocol.OpMsg), ft.reg.buildM2(), nil
	case 2:
		ft.reg.verifyAndAdvance(last)
		return byte(protocol.OpMsg), ft.reg.buildM4(), nil
	case 3:
		ft.reg.verifyAndAdvance(last)
		return byte(protocol.OpMsg), ft.reg.buildM6(), nil
	case 4:
		ft.reg.verifyAndAdvance(last)
		return byte(protocol.OpMsg), ft.reg.buildM8(ft.cred), nil
	default:
		return 0, nil, errors.New("ackThenMsgTransport: no more frames")
	}
}

func TestMethodRunIgnoresAckFrames(t *testing.T) {
	id := testIdentity([]byte("12345678"))
	session, err := NewSession(testLogger(), id)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	defer session.Destroy()

	cred := &protocol.Credential{
		SSID:           []byte("TestNet"),
		AuthType:       0x0020,
		EncryptionType: 0x0008,
		NetworkKey:     []byte("networkkey123"),
		MACAddress:     id.MAC,
	}
	transport := &ackThenMsgTransport{t: t, id: id, cred: cred}
	method := NewMethod(testLogger(), session, transport)

	result, err := method.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result == nil || len(result.Credentials) != 1 {
		t.Fatalf("Result = %+v", result)
	}
}

func TestMethodRunHappyPath(t *testing.T) {
	id := testIdentity([]byte("12345678"))
	session, err := NewSession(testLogger(), id)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	defer session.Destroy()

	cred := &protocol.Credential{
		SSID:           []byte("TestNet"),
		AuthType:       0x0020,
		EncryptionType: 0x0008,
		NetworkKey:     []byte("networkkey123"),
		MACAddress:     id.MAC,
	}
	transport := &fakeTransport{t: t, id: id, cred: cred}
	method := NewMethod(testLogger(), session, transport)

	result, err := method.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result == nil || len(result.Credentials) != 1 {
		t.Fatalf("Result = %+v", result)
	}
	if string(result.Credentials[0].SSID) != "TestNet" {
		t.Errorf("SSID = %q", result.Credentials[0].SSID)
	}

	if len(transport.sent) != 5 {
		t.Fatalf("sent %d frames, want 5 (M1,M3,M5,M7,DONE)", len(transport.sent))
	}
}

// errorTransport sends M1 once, then hands back an unparseable frame.
type errorTransport struct {
	recvCalled bool
}

func (et *errorTransport) Send(opCode byte, body []byte) error { return nil }

func (et *errorTransport) Recv() (byte, []byte, error) {
	et.recvCalled = true
	return byte(protocol.OpMsg), []byte{0xFF, 0xFF, 0xFF}, nil
}

func TestMethodRunPropagatesDecodeError(t *testing.T) {
	id := testIdentity([]byte("12345678"))
	session, err := NewSession(testLogger(), id)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	defer session.Destroy()

	method := NewMethod(testLogger(), session, &errorTransport{})
	if _, err := method.Run(); err == nil {
		t.Fatal("expected Run to surface the decode error")
	}
}
