// Package memstore implements in-memory account storage.
package memstore

import (
	"bytes"
	"compress/gzip"
	"io"
	"sync"

	"github.com/r2northstar/vanguard/pkg/api/api0"
)

// AccountStore stores accounts and pdata in-memory, with optional pdata
// compression. Data does not survive a restart.
type AccountStore struct {
	gzip     bool
	accounts sync.Map
	pdata    sync.Map
}

// NewAccountStore creates a new AccountStore.
func NewAccountStore(compress bool) *AccountStore {
	return &AccountStore{
		gzip: compress,
	}
}

func (m *AccountStore) GetAccount(uid uint32) (*api0.Account, error) {
	v, ok := m.accounts.Load(uid)
	if !ok {
		return nil, nil
	}
	a := v.(api0.Account)
	return &a, nil
}

func (m *AccountStore) SaveAccount(a *api0.Account) error {
	if a != nil {
		m.accounts.Store(a.UID, *a)
	}
	return nil
}

func (m *AccountStore) GetPdata(uid uint32) ([]byte, bool, error) {
	v, ok := m.pdata.Load(uid)
	if !ok {
		return nil, ok, nil
	}
	var b []byte
	if m.gzip {
		r, err := gzip.NewReader(bytes.NewReader(v.([]byte)))
		if err != nil {
			return nil, ok, err
		}
		b, err = io.ReadAll(r)
		if err != nil {
			return nil, ok, err
		}
	} else {
		b = make([]byte, len(v.([]byte)))
		copy(b, v.([]byte))
	}
	return b, ok, nil
}

func (m *AccountStore) SetPdata(uid uint32, buf []byte) (int, error) {
	var b []byte
	if m.gzip {
		var f bytes.Buffer
		w := gzip.NewWriter(&f)
		if _, err := w.Write(buf); err != nil {
			return 0, err
		}
		if err := w.Close(); err != nil {
			return 0, err
		}
		b = f.Bytes()
	} else {
		b = make([]byte, len(buf))
		copy(b, buf)
	}
	m.pdata.Store(uid, b)
	return len(b), nil
}
