package netio

import (
	"log/slog"
	"net"
	"testing"

	"github.com/k64z/ferrumgo/codec"
	"github.com/k64z/ferrumgo/protocol"
)

func pipe(t *testing.T) (client, server net.Conn) {
	t.Helper()
	client, server = net.Pipe()
	t.Cleanup(func() {
		client.Close()
		server.Close()
	})
	return client, server
}

type varIntValue int32

func (v varIntValue) EncodeTo(w codec.Writer) error {
	return codec.EncodeVarInt(w, int32(v))
}

func TestStreamWriterFramerRoundTrip(t *testing.T) {
	client, server := pipe(t)

	writer := NewStreamWriter(server, slog.Default())
	framer := NewFramer(client)

	done := make(chan error, 1)
	go func() {
		done <- writer.SendPacket(0x05, []byte{0xAA, 0xBB})
	}()

	skeleton, err := framer.Next(false)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if skeleton.ID != 0x05 {
		t.Errorf("got id %#x, want 0x05", skeleton.ID)
	}
	if err := <-done; err != nil {
		t.Fatalf("SendPacket: %v", err)
	}
}

func TestSendEncodesValueThenFrames(t *testing.T) {
	client, server := pipe(t)

	writer := NewStreamWriter(server, slog.Default())
	framer := NewFramer(client)

	done := make(chan error, 1)
	go func() {
		done <- Send(writer, 0x01, varIntValue(300))
	}()

	skeleton, err := framer.Next(false)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if skeleton.ID != 0x01 {
		t.Errorf("got id %#x, want 0x01", skeleton.ID)
	}
	v, err := codec.DecodeVarInt(skeleton.Data)
	if err != nil {
		t.Fatalf("DecodeVarInt: %v", err)
	}
	if v != 300 {
		t.Errorf("got %d, want 300", v)
	}
	if err := <-done; err != nil {
		t.Fatalf("Send: %v", err)
	}
}

func TestSendPacketAfterCloseFails(t *testing.T) {
	_, server := pipe(t)
	writer := NewStreamWriter(server, slog.Default())
	writer.Close()

	if err := writer.SendPacket(0x00, nil); err != ErrConnectionClosed {
		t.Errorf("got %v, want ErrConnectionClosed", err)
	}
}

func TestKickSendsLoginDisconnectAndCloses(t *testing.T) {
	client, server := pipe(t)
	writer := NewStreamWriter(server, slog.Default())
	framer := NewFramer(client)

	done := make(chan error, 1)
	go func() {
		done <- writer.Kick(nil, protocol.Login, protocol.Component{Text: "bye"})
	}()

	skeleton, err := framer.Next(false)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if skeleton.ID != protocol.IDLoginDisconnect {
		t.Errorf("got id %#x, want IDLoginDisconnect", skeleton.ID)
	}
	if err := <-done; err != nil {
		t.Fatalf("Kick: %v", err)
	}
	if err := writer.SendPacket(0x00, nil); err != ErrConnectionClosed {
		t.Errorf("expected Kick to close the writer")
	}
}
