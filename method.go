package wsc

import (
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/pkg/errors"

	"github.com/wlan-go/eap-wsc/protocol"
)

// VendorID and VendorType identify EAP-WSC as an EAP Expanded method
// (RFC 3748 §5.7): the Wi-Fi Alliance's SMI vendor ID and WSC's vendor
// type within it.
var (
	VendorID   = [3]byte{0x00, 0x37, 0x2A}
	VendorType = uint32(0x00000001)
)

// ExpandedEAPType is the EAP Type value (254) that signals an Expanded
// method follows, per RFC 3748.
const ExpandedEAPType = 254

// Transport is the outer collaborator this Enrollee hands encoded WSC_MSG
// bytes to and receives raw EAP-WSC frame bodies from. A real deployment
// implements this over an EAP peer state machine; tests use in-process
// fakes and the CLI uses length-prefixed frames over stdin/stdout.
type Transport interface {
	Send(opCode byte, body []byte) error
	Recv() (opCode byte, body []byte, err error)
}

// Method drives one Session to completion against a Transport, handling
// the EAP-WSC Op-Code framing (Start/Ack/Msg/Done/Nack) around the
// Session's message-level state machine.
type Method struct {
	logger    log.Logger
	session   *Session
	transport Transport
}

// NewMethod builds a Method around an already-constructed Session.
func NewMethod(logger log.Logger, session *Session, transport Transport) *Method {
	return &Method{logger: logger, session: session, transport: transport}
}

// Run drives the session from WSC_Start through WSC_Done or a fatal NACK,
// returning the session's exported Result on success. Callers must call
// session.Destroy once Run returns, success or not.
func (m *Method) Run() (*Result, error) {
	if err := m.transport.Send(byte(protocol.OpStart), m.session.BuildM1()); err != nil {
		return nil, errors.Wrap(err, "send M1")
	}

	for {
		op, body, err := m.transport.Recv()
		if err != nil {
			return nil, errors.Wrap(err, "recv")
		}

		// WSC_ACK, WSC_DONE, and WSC_FRAG_ACK carry nothing for the
		// message-level state machine to act on; in any non-terminal
		// state they are ignored rather than handed to HandleMessage,
		// which would otherwise try (and fail) to decode a body that
		// typically doesn't carry a WSC message at all.
		switch protocol.Op(op) {
		case protocol.OpAck, protocol.OpDone, protocol.OpFragAck:
			level.Debug(m.logger).Log("msg", "ignoring frame", "op", op)
			continue
		}
		level.Debug(m.logger).Log("msg", "recv frame", "op", op, "len", len(body))

		reply, err := m.session.HandleMessage(body)
		if err != nil {
			if reply != nil {
				_ = m.transport.Send(byte(protocol.OpNack), reply) // best-effort NACK before surfacing the error
			}
			return nil, err
		}
		if reply == nil {
			continue
		}
		if m.session.state == StateFinished {
			if err := m.transport.Send(byte(protocol.OpDone), reply); err != nil {
				return nil, errors.Wrap(err, "send done")
			}
			return m.session.Result, nil
		}
		if err := m.transport.Send(byte(protocol.OpMsg), reply); err != nil {
			return nil, errors.Wrap(err, "send msg")
		}
	}
}
