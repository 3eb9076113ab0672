// Package accountdb implements sqlite3 database storage for accounts and
// pdata.
package accountdb

import (
	"bytes"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/klauspost/compress/gzip"
	"github.com/r2northstar/vanguard/pkg/api/api0"
	"github.com/r2northstar/vanguard/pkg/nsid"
)

// DB stores accounts and pdata in a sqlite3 database.
type DB struct {
	x *sqlx.DB
}

// Open opens a DB from the provided sqlite3 uri.
func Open(name string) (*DB, error) {
	// note: WAL and a larger pagesize makes our writes and queries MUCH faster
	x, err := sqlx.Connect("sqlite3", (&url.URL{
		Path: name,
		RawQuery: (url.Values{
			"_journal":      {"WAL"},
			"_busy_timeout": {"6000"},
		}).Encode(),
	}).String())
	if err != nil {
		return nil, err
	}
	if _, err := x.Exec(`PRAGMA page_size = 8192`); err != nil {
		panic(err)
	}
	return &DB{x}, nil
}

func (db *DB) Close() error {
	return db.x.Close()
}

func (db *DB) GetAccount(uid uint32) (*api0.Account, error) {
	var obj struct {
		UID              uint32 `db:"uid"`
		Username         string `db:"username"`
		AuthIP           string `db:"auth_ip"`
		AuthToken        string `db:"auth_token"`
		AuthTokenCreated int64  `db:"auth_token_created"`
		LastServerID     string `db:"last_server_id"`
	}
	if err := db.x.Get(&obj, `SELECT * FROM accounts WHERE uid = ?`, uid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	var authTokenCreated time.Time
	if obj.AuthTokenCreated != 0 {
		authTokenCreated = time.Unix(obj.AuthTokenCreated, 0)
	}

	var authIP netip.Addr
	if obj.AuthIP != "" {
		if v, err := netip.ParseAddr(obj.AuthIP); err == nil {
			authIP = v
		} else {
			return nil, fmt.Errorf("parse auth_ip: %w", err)
		}
	}

	var authToken nsid.ID
	if obj.AuthToken != "" {
		if v, err := nsid.Parse(obj.AuthToken); err == nil {
			authToken = v
		} else {
			return nil, fmt.Errorf("parse auth_token: %w", err)
		}
	}

	var lastServerID nsid.ID
	if obj.LastServerID != "" {
		if v, err := nsid.Parse(obj.LastServerID); err == nil {
			lastServerID = v
		} else {
			return nil, fmt.Errorf("parse last_server_id: %w", err)
		}
	}

	return &api0.Account{
		UID:              obj.UID,
		Username:         obj.Username,
		AuthIP:           authIP,
		AuthToken:        authToken,
		AuthTokenCreated: authTokenCreated,
		LastServerID:     lastServerID,
	}, nil
}

func (db *DB) SaveAccount(a *api0.Account) error {
	var authTokenCreated int64
	if !a.AuthTokenCreated.IsZero() {
		authTokenCreated = a.AuthTokenCreated.Unix()
	}

	var authIP string
	if a.AuthIP.IsValid() {
		authIP = a.AuthIP.StringExpanded()
	}

	var authToken string
	if a.AuthToken != (nsid.ID{}) {
		authToken = a.AuthToken.String()
	}

	var lastServerID string
	if a.LastServerID != (nsid.ID{}) {
		lastServerID = a.LastServerID.String()
	}

	if _, err := db.x.NamedExec(`
		INSERT OR REPLACE INTO
		accounts ( uid,  username,  auth_ip,  auth_token,  auth_token_created,  last_server_id)
		VALUES   (:uid, :username, :auth_ip, :auth_token, :auth_token_created, :last_server_id)
	`, map[string]any{
		"uid":                a.UID,
		"username":           a.Username,
		"auth_ip":            authIP,
		"auth_token":         authToken,
		"auth_token_created": authTokenCreated,
		"last_server_id":     lastServerID,
	}); err != nil {
		return err
	}
	return nil
}

func (db *DB) GetPdata(uid uint32) (buf []byte, exists bool, err error) {
	var obj struct {
		PdataComp string `db:"pdata_comp"`
		PdataHash string `db:"pdata_hash"`
		Pdata     []byte `db:"pdata"`
	}
	if err := db.x.Get(&obj, `SELECT pdata_comp, pdata_hash, pdata FROM pdata WHERE uid = ?`, uid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	switch obj.PdataComp {
	case "":
	case "gzip":
		var b bytes.Buffer
		zr, err := gzip.NewReader(bytes.NewReader(obj.Pdata))
		if err != nil {
			return nil, false, fmt.Errorf("decompress gzip: %w", err)
		}
		if _, err := b.ReadFrom(zr); err != nil {
			return nil, false, fmt.Errorf("decompress gzip: %w", err)
		}
		if err := zr.Close(); err != nil {
			return nil, false, fmt.Errorf("decompress gzip: %w", err)
		}
		obj.Pdata = b.Bytes()
	default:
		return nil, false, fmt.Errorf("unsupported compression method %q", obj.PdataComp)
	}

	var pdataHashB [sha256.Size]byte
	if b, err := hex.DecodeString(obj.PdataHash); err != nil || len(b) != len(pdataHashB) {
		return nil, false, fmt.Errorf("invalid pdata hash")
	} else {
		copy(pdataHashB[:], b)
	}
	if sha256.Sum256(obj.Pdata) != pdataHashB {
		return nil, false, fmt.Errorf("pdata checksum mismatch")
	}
	return obj.Pdata, true, nil
}

func (db *DB) SetPdata(uid uint32, buf []byte) (n int, err error) {
	hash := sha256.Sum256(buf)
	pdataHash := hex.EncodeToString(hash[:])

	var b bytes.Buffer
	b.Grow(2000)

	zw := gzip.NewWriter(&b)
	if _, err := zw.Write(buf); err != nil {
		return 0, fmt.Errorf("compress pdata: %w", err)
	}
	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("compress pdata: %w", err)
	}

	var pdataComp string
	if b.Len() < len(buf) {
		pdataComp = "gzip"
		buf = b.Bytes()
	}

	if _, err := db.x.NamedExec(`
		INSERT OR REPLACE INTO
		pdata  ( uid,  pdata_comp,  pdata_hash,  pdata)
		VALUES (:uid, :pdata_comp, :pdata_hash, :pdata)
	`, map[string]any{
		"uid":        uid,
		"pdata_comp": pdataComp,
		"pdata_hash": pdataHash,
		"pdata":      buf,
	}); err != nil {
		return 0, err
	}
	return len(buf), nil
}
