package systems

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"
)

// lanMulticastAddr is vanilla's fixed LAN-discovery group and port.
const lanMulticastAddr = "224.0.2.60:4445"

// LANBroadcast periodically announces this server on the local network the
// way a vanilla "Open to LAN" world does, so clients on the same subnet
// see it without a direct address.
type LANBroadcast struct {
	MOTD       string
	ServerPort int
	Interval   time.Duration
	Logger     *slog.Logger

	stop chan struct{}
}

func (l *LANBroadcast) Name() string { return "lan-broadcast" }

func (l *LANBroadcast) Start(ctx context.Context) error {
	addr, err := net.ResolveUDPAddr("udp4", lanMulticastAddr)
	if err != nil {
		return err
	}
	conn, err := net.DialUDP("udp4", nil, addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	l.stop = make(chan struct{})
	ticker := time.NewTicker(l.Interval)
	defer ticker.Stop()

	payload := []byte(fmt.Sprintf("[MOTD]%s[/MOTD][AD]%d[/AD]", l.MOTD, l.ServerPort))

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-l.stop:
			return nil
		case <-ticker.C:
			if _, err := conn.Write(payload); err != nil {
				l.Logger.Debug("lan broadcast failed", "error", err)
			}
		}
	}
}

func (l *LANBroadcast) Stop(ctx context.Context) error {
	if l.stop != nil {
		close(l.stop)
	}
	return nil
}
