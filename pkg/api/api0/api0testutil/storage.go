// Package api0testutil contains reusable tests for implementations of api0
// interfaces.
package api0testutil

import (
	"bytes"
	"math"
	"math/rand"
	"net/netip"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/r2northstar/vanguard/pkg/api/api0"
	"github.com/r2northstar/vanguard/pkg/nsid"
)

// TestAccountStorage tests whether an EMPTY account storage instance
// implements the interface correctly.
func TestAccountStorage(t *testing.T, s api0.AccountStorage) {
	// test basic functionality
	{
		user1 := uint32(math.MaxUint32) // to ensure the full uid range is supported
		acct1 := &api0.Account{
			UID:              user1,
			Username:         "spyglass",
			AuthToken:        testID(1),
			AuthTokenCreated: time.Unix(1700000000, 0),
			AuthIP:           netip.MustParseAddr("192.0.2.4"),
			LastServerID:     testID(2),
		}
		acct2 := &api0.Account{
			UID:              user1,
			Username:         "spyglass",
			AuthToken:        testID(3),
			AuthTokenCreated: time.Unix(1700003600, 0),
			AuthIP:           netip.MustParseAddr("2001:db8::4"),
		}
		pdata1 := seqBytes(56306, 0)
		pdata2 := seqBytes(56306, 6)

		t.Run("GetNonexistentAccount", func(t *testing.T) {
			acct, err := s.GetAccount(user1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if acct != nil {
				t.Fatalf("account should be nil")
			}
		})
		t.Run("GetPdataForNonexistentUser", func(t *testing.T) {
			buf, exists, err := s.GetPdata(user1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if exists {
				t.Fatalf("exists should be false")
			}
			if buf != nil {
				t.Fatalf("should not return pdata")
			}
		})
		t.Run("SaveAccount1", func(t *testing.T) {
			if err := s.SaveAccount(acct1); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
		t.Run("GetAccount1", func(t *testing.T) {
			acct, err := s.GetAccount(user1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if acct == nil {
				t.Fatalf("account should exist")
			}
			if acct == acct1 {
				t.Fatalf("account storage must copy the account")
			}
			checkAccountEqual(t, acct, acct1)
		})
		t.Run("SaveAccount1Update", func(t *testing.T) {
			if err := s.SaveAccount(acct2); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
		t.Run("GetAccount1Updated", func(t *testing.T) {
			acct, err := s.GetAccount(user1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if acct == nil {
				t.Fatalf("account should exist")
			}
			if acct.LastServerID != (nsid.ID{}) {
				t.Fatalf("last server id should have been cleared")
			}
			if !acct.IsOnOwnServer() {
				t.Fatalf("account with zero last server id should be on its own server")
			}
			checkAccountEqual(t, acct, acct2)
		})
		t.Run("PutUser1Pdata1", func(t *testing.T) {
			n, err := s.SetPdata(user1, pdata1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n <= 0 || n > len(pdata1) {
				t.Fatalf("stored size %d out of range", n)
			}
		})
		t.Run("GetUser1Pdata1", func(t *testing.T) {
			buf, exists, err := s.GetPdata(user1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !exists {
				t.Fatalf("exists should be true")
			}
			if !bytes.Equal(buf, pdata1) {
				t.Fatalf("incorrect pdata")
			}
			if &buf[0] == &pdata1[0] {
				t.Fatalf("pdata store must copy the data")
			}
		})
		t.Run("PutUser1Pdata2", func(t *testing.T) {
			if _, err := s.SetPdata(user1, pdata2); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
		t.Run("GetUser1Pdata2", func(t *testing.T) {
			buf, exists, err := s.GetPdata(user1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !exists {
				t.Fatalf("exists should be true")
			}
			if !bytes.Equal(buf, pdata2) {
				t.Fatalf("incorrect pdata")
			}
		})
	}

	// test that it still functions properly with large numbers of users and
	// randomly ordered concurrent writers
	t.Run("Stress", func(t *testing.T) {
		const (
			concurrency = 32
			users       = 4096
		)
		var wg sync.WaitGroup
		var fail atomic.Int32
		sem := make(chan struct{}, concurrency)
		for uid := uint32(0); uid < users; uid++ {
			wg.Add(1)
			sem <- struct{}{}
			go func(uid uint32) {
				defer wg.Done()
				defer func() { <-sem }()

				acct := &api0.Account{
					UID:              uid,
					AuthToken:        testID(uint8(uid)),
					AuthTokenCreated: time.Unix(int64(uid), 0),
					AuthIP:           netip.AddrFrom4([4]byte{10, 0, uint8(uid >> 8), uint8(uid)}),
				}
				data1 := seqBytes(64000, uint8(uid))
				data2 := seqBytes(32000, uint8(uid))

				if acct, err := s.GetAccount(uid); err != nil || acct != nil {
					fail.Store(1)
					return
				}
				randSched()

				if err := s.SaveAccount(acct); err != nil {
					fail.Store(2)
					return
				}
				randSched()

				if a, err := s.GetAccount(uid); err != nil || a == nil || a.UID != uid || a.AuthToken != acct.AuthToken {
					fail.Store(3)
					return
				}
				randSched()

				if buf, exists, err := s.GetPdata(uid); err != nil || exists || buf != nil {
					fail.Store(4)
					return
				}
				randSched()

				if _, err := s.SetPdata(uid, data1); err != nil {
					fail.Store(5)
					return
				}
				randSched()

				if buf, exists, err := s.GetPdata(uid); err != nil || !exists || !bytes.Equal(buf, data1) {
					fail.Store(6)
					return
				}
				randSched()

				if _, err := s.SetPdata(uid, data2); err != nil {
					fail.Store(7)
					return
				}
				randSched()

				if buf, exists, err := s.GetPdata(uid); err != nil || !exists || !bytes.Equal(buf, data2) {
					fail.Store(8)
					return
				}
				randSched()

				acct.LastServerID = testID(uint8(uid + 1))
				if err := s.SaveAccount(acct); err != nil {
					fail.Store(9)
					return
				}
				randSched()

				if a, err := s.GetAccount(uid); err != nil || a == nil || a.LastServerID != acct.LastServerID {
					fail.Store(10)
					return
				}
				randSched()

			}(uid)
		}
		if wg.Wait(); fail.Load() != 0 {
			t.Fatalf("fail (last %d)", fail.Load())
		}
	})
}

func checkAccountEqual(t *testing.T, got, want *api0.Account) {
	t.Helper()
	if got.UID != want.UID {
		t.Fatalf("incorrect uid %d", got.UID)
	}
	if got.Username != want.Username {
		t.Fatalf("incorrect username %q", got.Username)
	}
	if got.AuthToken != want.AuthToken {
		t.Fatalf("incorrect auth token %s", got.AuthToken)
	}
	if !got.AuthTokenCreated.Equal(want.AuthTokenCreated) {
		t.Fatalf("incorrect auth token creation time %v", got.AuthTokenCreated)
	}
	if got.AuthIP != want.AuthIP {
		t.Fatalf("incorrect auth ip %s", got.AuthIP)
	}
	if got.LastServerID != want.LastServerID {
		t.Fatalf("incorrect last server id %s", got.LastServerID)
	}
}

func testID(b uint8) nsid.ID {
	var x nsid.ID
	for i := range x {
		x[i] = b
	}
	return x
}

func randSched() {
	if rand.Int63()&1 == 1 {
		runtime.Gosched()
	}
}

func seqBytes(n int, start uint8) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = uint8(i + int(start))
	}
	return b
}
