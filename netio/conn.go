package netio

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"

	"github.com/k64z/ferrumgo/codec"
	"github.com/k64z/ferrumgo/protocol"
)

// StreamWriter serializes outbound packets onto a net.Conn, applying
// whatever framing Options the connection has negotiated so far. Writes
// are mutex-guarded the way the teacher's transport guards its own socket:
// one writer goroutine at a time, everyone else queues behind the lock.
type StreamWriter struct {
	conn   net.Conn
	logger *slog.Logger

	mu   sync.Mutex
	opts codec.Options

	closed    atomic.Bool
	closeOnce sync.Once
}

// NewStreamWriter wraps conn; frames are written uncompressed,
// length-prefixed until SetCompression promotes it.
func NewStreamWriter(conn net.Conn, logger *slog.Logger) *StreamWriter {
	return &StreamWriter{conn: conn, logger: logger, opts: codec.WithLength}
}

// SetCompression switches every subsequent SendPacket onto zlib framing
// above threshold bytes. Only Login may call this, and only once.
func (s *StreamWriter) SetCompression(threshold int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts = codec.Compressed(threshold)
}

// SendPacket frames id+body per the writer's current Options and writes it
// whole; a short write never reaches the peer as a partial packet.
func (s *StreamWriter) SendPacket(id int32, body []byte) error {
	if s.closed.Load() {
		return ErrConnectionClosed
	}

	s.mu.Lock()
	opts := s.opts
	s.mu.Unlock()

	frame, err := codec.EncodeFrame(id, body, opts)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.conn.Write(frame)
	return err
}

// Send encodes v via its Value.EncodeTo and ships it as packet id.
func Send(s *StreamWriter, id int32, v codec.Value) error {
	body, err := encodeValue(v)
	if err != nil {
		return err
	}
	return s.SendPacket(id, body)
}

func encodeValue(v codec.Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := v.EncodeTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Kick writes the state-appropriate disconnect packet and marks the writer
// closed; the caller is still responsible for closing the socket once any
// queued writes drain.
func (s *StreamWriter) Kick(ctx context.Context, state protocol.State, reason protocol.Component) error {
	defer s.closed.Store(true)

	switch state {
	case protocol.Login:
		body, err := encodeValue(protocol.LoginDisconnect{Reason: reason})
		if err != nil {
			return err
		}
		return s.SendPacket(protocol.IDLoginDisconnect, body)
	case protocol.Play:
		body, err := encodeValue(protocol.PlayDisconnect{Reason: reason})
		if err != nil {
			return err
		}
		return s.SendPacket(protocol.IDPlayDisconnect, body)
	default:
		// Handshaking, Status and Configuration get no disconnect packet;
		// the caller just closes the socket.
		return nil
	}
}

// Close closes the underlying socket exactly once.
func (s *StreamWriter) Close() error {
	s.closed.Store(true)
	var err error
	s.closeOnce.Do(func() { err = s.conn.Close() })
	return err
}
