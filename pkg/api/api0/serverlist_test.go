package api0

import (
	"encoding/json"
	"errors"
	"net/netip"
	"testing"
	"time"

	"github.com/r2northstar/vanguard/pkg/nsid"
)

func TestServerListRegister(t *testing.T) {
	now := time.Unix(1700000000, 0)
	sl := NewServerList(3, time.Second*60, time.Minute*5)
	sl.__clock = func() time.Time { return now }

	host1 := netip.MustParseAddr("192.0.2.1")
	host2 := netip.MustParseAddr("192.0.2.2")

	t.Run("MissingFields", func(t *testing.T) {
		if err := sl.PushServer(&Server{GamePort: 1, AuthPort: 2}); err == nil {
			t.Fatalf("expected error for missing addr")
		}
		if err := sl.PushServer(&Server{Addr: host1, AuthPort: 2}); err == nil {
			t.Fatalf("expected error for missing game port")
		}
		if err := sl.PushServer(&Server{Addr: host1, GamePort: 1}); err == nil {
			t.Fatalf("expected error for missing auth port")
		}
		if sl.NumServers() != 0 {
			t.Fatalf("server list should be empty")
		}
	})

	srv1 := &Server{Addr: host1, GamePort: 37015, AuthPort: 37005, Name: "one", PlayerCount: -1}
	t.Run("Register", func(t *testing.T) {
		if err := sl.PushServer(srv1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if srv1.ID == (nsid.ID{}) {
			t.Fatalf("id should be assigned")
		}
		if srv1.AuthToken == (nsid.ID{}) {
			t.Fatalf("auth token should be assigned")
		}
		if !srv1.LastHeartbeat.Equal(now) {
			t.Fatalf("heartbeat should be set")
		}
		if sl.NumServers() != 1 {
			t.Fatalf("expected 1 server, got %d", sl.NumServers())
		}
	})

	t.Run("ReplaceSameGamePort", func(t *testing.T) {
		x := &Server{Addr: host1, GamePort: 37015, AuthPort: 37005, Name: "one again"}
		if err := sl.PushServer(x); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if x.ID == srv1.ID {
			t.Fatalf("replacement should get a new id")
		}
		if sl.NumServers() != 1 {
			t.Fatalf("expected 1 server, got %d", sl.NumServers())
		}
		if sl.GetServerByID(srv1.ID) != nil {
			t.Fatalf("old server should be gone")
		}
		srv1 = x
	})

	t.Run("DuplicateAuthPort", func(t *testing.T) {
		err := sl.PushServer(&Server{Addr: host1, GamePort: 37016, AuthPort: 37005})
		if !errors.Is(err, ErrServerListDuplicateAuthAddr) {
			t.Fatalf("expected duplicate auth addr error, got %v", err)
		}
		if sl.NumServers() != 1 {
			t.Fatalf("expected 1 server, got %d", sl.NumServers())
		}
	})

	t.Run("HostQuota", func(t *testing.T) {
		for i := uint16(1); i <= 2; i++ {
			if err := sl.PushServer(&Server{Addr: host1, GamePort: 38000 + i, AuthPort: 38100 + i}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		err := sl.PushServer(&Server{Addr: host1, GamePort: 38003, AuthPort: 38103})
		if !errors.Is(err, ErrServerListHostQuota) {
			t.Fatalf("expected host quota error, got %v", err)
		}

		// the quota applies even when re-registering an existing game port
		err = sl.PushServer(&Server{Addr: host1, GamePort: 37015, AuthPort: 37005})
		if !errors.Is(err, ErrServerListHostQuota) {
			t.Fatalf("expected host quota error, got %v", err)
		}

		// other hosts are unaffected
		if err := sl.PushServer(&Server{Addr: host2, GamePort: 37015, AuthPort: 37005}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestServerListUpdateRemove(t *testing.T) {
	now := time.Unix(1700000000, 0)
	sl := NewServerList(0, time.Second*60, time.Minute*5)
	sl.__clock = func() time.Time { return now }

	host := netip.MustParseAddr("192.0.2.1")
	other := netip.MustParseAddr("192.0.2.99")

	srv := &Server{Addr: host, GamePort: 37015, AuthPort: 37005, Name: "test", PlayerCount: -1}
	if err := sl.PushServer(srv); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("UpdateUnknownID", func(t *testing.T) {
		if err := sl.UpdateServer(nsid.New(), host, &ServerUpdate{Heartbeat: true}); !errors.Is(err, ErrServerListNotFound) {
			t.Fatalf("expected not found error, got %v", err)
		}
	})

	t.Run("UpdateWrongIP", func(t *testing.T) {
		n := "hijacked"
		if err := sl.UpdateServer(srv.ID, other, &ServerUpdate{Name: &n}); !errors.Is(err, ErrServerListWrongIP) {
			t.Fatalf("expected wrong ip error, got %v", err)
		}
		if x := sl.GetServerByID(srv.ID); x.Name != "test" {
			t.Fatalf("update from wrong ip should not be applied")
		}
	})

	t.Run("Update", func(t *testing.T) {
		now = now.Add(time.Second * 30)
		name, mp, pc, pw := "renamed", 16, 7, "hunter2"
		if err := sl.UpdateServer(srv.ID, host, &ServerUpdate{
			Heartbeat:   true,
			Name:        &name,
			MaxPlayers:  &mp,
			PlayerCount: &pc,
			Password:    &pw,
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		x := sl.GetServerByID(srv.ID)
		if x.Name != name || x.MaxPlayers != mp || x.PlayerCount != pc || x.Password != pw {
			t.Fatalf("update not applied")
		}
		if !x.LastHeartbeat.Equal(now) {
			t.Fatalf("heartbeat not updated")
		}
		if x.Description != "" || x.Map != "" || x.Playlist != "" {
			t.Fatalf("nil fields should be left unchanged")
		}
	})

	t.Run("RemoveWrongIP", func(t *testing.T) {
		if err := sl.RemoveServer(srv.ID, other); !errors.Is(err, ErrServerListWrongIP) {
			t.Fatalf("expected wrong ip error, got %v", err)
		}
		if sl.NumServers() != 1 {
			t.Fatalf("server should still be registered")
		}
	})

	t.Run("Remove", func(t *testing.T) {
		if err := sl.RemoveServer(srv.ID, host); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sl.NumServers() != 0 {
			t.Fatalf("server should be gone")
		}
		if err := sl.RemoveServer(srv.ID, host); !errors.Is(err, ErrServerListNotFound) {
			t.Fatalf("expected not found error, got %v", err)
		}
	})
}

func TestServerListRemoveInactive(t *testing.T) {
	now := time.Unix(1700000000, 0)
	sl := NewServerList(0, time.Second*60, time.Minute*5)
	sl.__clock = func() time.Time { return now }

	host := netip.MustParseAddr("192.0.2.1")
	srv1 := &Server{Addr: host, GamePort: 1001, AuthPort: 2001}
	srv2 := &Server{Addr: host, GamePort: 1002, AuthPort: 2002}
	for _, srv := range []*Server{srv1, srv2} {
		if err := sl.PushServer(srv); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	now = now.Add(time.Minute * 3)
	if err := sl.UpdateServer(srv2.ID, host, &ServerUpdate{Heartbeat: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := sl.RemoveInactive(); n != 0 {
		t.Fatalf("no server should be dead yet, removed %d", n)
	}

	now = now.Add(time.Minute * 2)
	if n := sl.RemoveInactive(); n != 1 {
		t.Fatalf("expected 1 dead server, removed %d", n)
	}
	if sl.GetServerByID(srv1.ID) != nil {
		t.Fatalf("stale server should be gone")
	}
	if sl.GetServerByID(srv2.ID) == nil {
		t.Fatalf("fresh server should remain")
	}
}

func TestServerListListingSweep(t *testing.T) {
	now := time.Unix(1700000000, 0)
	sl := NewServerList(1, time.Second*60, time.Minute*5)
	sl.__clock = func() time.Time { return now }

	host := netip.MustParseAddr("192.0.2.1")
	srv := &Server{Addr: host, GamePort: 1001, AuthPort: 2001}
	if err := sl.PushServer(srv); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// the listing itself drops dead servers, even without RemoveInactive
	now = now.Add(time.Minute * 5)
	if buf := sl.csGetJSON(); string(buf) != "[]" {
		t.Fatalf("expected empty array, got %q", buf)
	}
	if sl.NumServers() != 0 {
		t.Fatalf("dead server should be dropped by the listing")
	}

	// which also frees its host quota slot
	if err := sl.PushServer(&Server{Addr: host, GamePort: 1002, AuthPort: 2002}); err != nil {
		t.Fatalf("quota slot should be free after the listing sweep, got %v", err)
	}
}

func TestServerListJSON(t *testing.T) {
	type listEntry struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Map         string `json:"map"`
		Playlist    string `json:"playlist"`
		MaxPlayers  int    `json:"maxPlayers"`
		HasPassword bool   `json:"hasPassword"`
		PlayerCount int    `json:"playerCount"`
		ModInfo     struct {
			Mods []struct {
				RequiredOnClient bool
				Name             string
				Version          string
			}
		} `json:"modInfo"`
	}
	parse := func(t *testing.T, buf []byte) []listEntry {
		t.Helper()
		var es []listEntry
		if err := json.Unmarshal(buf, &es); err != nil {
			t.Fatalf("invalid list json %q: %v", buf, err)
		}
		return es
	}

	now := time.Unix(1700000000, 0)
	sl := NewServerList(0, time.Second*60, time.Minute*5)
	sl.__clock = func() time.Time { return now }

	host := netip.MustParseAddr("192.0.2.1")

	t.Run("Empty", func(t *testing.T) {
		if buf := sl.csGetJSON(); string(buf) != "[]" {
			t.Fatalf("expected empty array, got %q", buf)
		}
	})

	srv1 := &Server{
		Addr: host, GamePort: 1001, AuthPort: 2001,
		Name: "first", Map: "mp_glitch", Playlist: "private_match",
		PlayerCount: -1, MaxPlayers: 12,
		ModInfo: []ServerModInfo{{Name: "Northstar.Custom", Version: "1.0.0", RequiredOnClient: true}},
	}
	srv2 := &Server{
		Addr: host, GamePort: 1002, AuthPort: 2002,
		Name: "second", Password: "secret",
		PlayerCount: 100, MaxPlayers: 64,
	}
	for _, srv := range []*Server{srv1, srv2} {
		if err := sl.PushServer(srv); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	t.Run("Projection", func(t *testing.T) {
		es := parse(t, sl.csGetJSON())
		if len(es) != 2 {
			t.Fatalf("expected 2 servers, got %d", len(es))
		}
		if es[0].Name != "first" || es[1].Name != "second" {
			t.Fatalf("servers should be in registration order")
		}
		if es[0].ID != srv1.ID.String() {
			t.Fatalf("incorrect id %q", es[0].ID)
		}
		if es[0].HasPassword || !es[1].HasPassword {
			t.Fatalf("incorrect hasPassword")
		}
		if es[0].PlayerCount != 0 {
			t.Fatalf("unknown player count should be clamped to 0, got %d", es[0].PlayerCount)
		}
		if es[1].MaxPlayers != 32 {
			t.Fatalf("maxPlayers should be clamped to 32, got %d", es[1].MaxPlayers)
		}
		if es[1].PlayerCount != 32 {
			t.Fatalf("playerCount should be clamped to maxPlayers, got %d", es[1].PlayerCount)
		}
		if len(es[0].ModInfo.Mods) != 1 || es[0].ModInfo.Mods[0].Name != "Northstar.Custom" || !es[0].ModInfo.Mods[0].RequiredOnClient {
			t.Fatalf("incorrect mod info %+v", es[0].ModInfo)
		}
		if len(es[1].ModInfo.Mods) != 0 {
			t.Fatalf("incorrect mod info %+v", es[1].ModInfo)
		}
	})

	t.Run("Cache", func(t *testing.T) {
		a := sl.csGetJSON()
		b := sl.csGetJSON()
		if &a[0] != &b[0] {
			t.Fatalf("response should be cached between updates")
		}
		n := "renamed"
		if err := sl.UpdateServer(srv1.ID, host, &ServerUpdate{Name: &n}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if es := parse(t, sl.csGetJSON()); es[0].Name != "renamed" {
			t.Fatalf("update should invalidate the cache")
		}
	})

	t.Run("Freshness", func(t *testing.T) {
		now = now.Add(time.Second * 30)
		if err := sl.UpdateServer(srv2.ID, host, &ServerUpdate{Heartbeat: true}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// srv1's last heartbeat is now 30s old, srv2's is fresh; advance past
		// srv1's freshTime
		now = now.Add(time.Second * 45)
		es := parse(t, sl.csGetJSON())
		if len(es) != 1 || es[0].Name != "second" {
			t.Fatalf("expected only the fresh server, got %+v", es)
		}

		// the cache expires on its own once the remaining heartbeat does
		now = now.Add(time.Second * 45)
		if es := parse(t, sl.csGetJSON()); len(es) != 0 {
			t.Fatalf("expected no fresh servers, got %+v", es)
		}
	})
}
