package whitelist

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/k64z/ferrumgo/config"
	"github.com/k64z/ferrumgo/event"
	"github.com/k64z/ferrumgo/events"
	"github.com/k64z/ferrumgo/protocol"
)

func profileWithUUID(id uuid.UUID) protocol.GameProfile {
	return protocol.GameProfile{UUID: id, Username: "player"}
}

func writeList(t *testing.T, lines ...string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "whitelist.txt")
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadSkipsBlankAndCommentLines(t *testing.T) {
	allowed := uuid.New()
	path := writeList(t, "# comment", "", allowed.String(), "   ")

	list, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !list.Contains(allowed) {
		t.Errorf("expected %s to be whitelisted", allowed)
	}
	if list.Contains(uuid.New()) {
		t.Errorf("expected a random uuid to not be whitelisted")
	}
}

func TestLoadSkipsUnparsableLines(t *testing.T) {
	path := writeList(t, "not-a-uuid", uuid.New().String())
	list, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(list.allowed) != 1 {
		t.Errorf("got %d entries, want 1", len(list.allowed))
	}
}

func TestRegisterRejectsUnlisted(t *testing.T) {
	allowed := uuid.New()
	path := writeList(t, allowed.String())
	list, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	bus := event.New()
	Register(bus, config.WhitelistConfig{Enabled: true}, list)

	err = event.Trigger(context.Background(), bus, events.PlayerStartLoginName, &events.PlayerStartLogin{
		Profile: profileWithUUID(uuid.New()),
	})
	if err != ErrNotWhitelisted {
		t.Errorf("got %v, want ErrNotWhitelisted", err)
	}

	err = event.Trigger(context.Background(), bus, events.PlayerStartLoginName, &events.PlayerStartLogin{
		Profile: profileWithUUID(allowed),
	})
	if err != nil {
		t.Errorf("got %v, want nil for whitelisted profile", err)
	}
}

func TestRegisterNoopWhenDisabled(t *testing.T) {
	path := writeList(t, uuid.New().String())
	list, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	bus := event.New()
	Register(bus, config.WhitelistConfig{Enabled: false}, list)

	err = event.Trigger(context.Background(), bus, events.PlayerStartLoginName, &events.PlayerStartLogin{
		Profile: profileWithUUID(uuid.New()),
	})
	if err != nil {
		t.Errorf("got %v, want nil when whitelist disabled", err)
	}
}
