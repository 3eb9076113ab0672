package api0

import (
	"net/netip"
	"time"

	"github.com/r2northstar/vanguard/pkg/nsid"
)

// Account contains the information about a player account.
type Account struct {
	UID              uint32
	Username         string
	AuthToken        nsid.ID
	AuthTokenCreated time.Time
	AuthIP           netip.Addr // zero value if the player has never authenticated
	LastServerID     nsid.ID    // zero value if the player last authed with their own listen server
}

// IsOnOwnServer returns true if the last successful game server auth for the
// account was with its own listen server.
func (a *Account) IsOnOwnServer() bool {
	return a.LastServerID == nsid.ID{}
}

// AccountStorage stores accounts and persistent player data. It must be safe
// for concurrent use. It should not make any assumptions on the contents of
// the stored pdata blobs (including validity), and it may compress them.
type AccountStorage interface {
	// GetAccount gets the account for uid. If it does not exist, a nil
	// account is returned.
	GetAccount(uid uint32) (*Account, error)

	// SaveAccount creates or replaces the account by its uid.
	SaveAccount(a *Account) error

	// GetPdata gets the stored pdata for uid. If no pdata has been written
	// for the account yet, exists is false.
	GetPdata(uid uint32) (buf []byte, exists bool, err error)

	// SetPdata sets the pdata for uid, returning the number of bytes
	// actually written to the underlying storage.
	SetPdata(uid uint32, buf []byte) (n int, err error)
}
