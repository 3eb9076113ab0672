package api0

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/netip"
	"sort"
	"strconv"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/r2northstar/vanguard/pkg/nsid"
)

// ServerList stores information about registered game servers. It does not do
// any validation of its own except for ensuring IDs and auth addresses are
// unique, enforcing the per-host server quota, and filtering dead servers.
type ServerList struct {
	// config (must not be changed after the ServerList is used)
	maxServersPerHost int
	freshTime         time.Duration // time since the last heartbeat after which a server is hidden from the list
	deadTime          time.Duration // time since the last heartbeat after which a server is removed

	mu      sync.RWMutex // must be held while modifying the fields below
	order   uint64       // to preserve server insertion order
	servers map[nsid.ID]*Server
	byAddr  map[netip.Addr]map[nsid.ID]*Server

	// /client/servers json caching
	csBytes []byte    // nil if dirty; contents must not be modified, only swapped
	csNext  time.Time // time at which the cached response changes due to a heartbeat expiring

	// for unit tests
	__clock func() time.Time
}

// Server is a registered game server.
type Server struct {
	Order     uint64
	ID        nsid.ID // unique, assigned on registration
	AuthToken nsid.ID // shared with the game server on registration, assigned on registration

	Addr     netip.Addr // must not be modified after registration
	GamePort uint16
	AuthPort uint16

	Name        string
	Description string
	Map         string
	Playlist    string
	Password    string // blank for none

	LastHeartbeat time.Time
	PlayerCount   int // -1 if the server hasn't reported it yet
	MaxPlayers    int

	ModInfo []ServerModInfo
}

type ServerModInfo struct {
	Name             string
	Version          string
	RequiredOnClient bool
}

// AuthAddr returns the auth address for the server.
func (s Server) AuthAddr() netip.AddrPort {
	return netip.AddrPortFrom(s.Addr, s.AuthPort)
}

// GameAddr returns the game address for the server.
func (s Server) GameAddr() netip.AddrPort {
	return netip.AddrPortFrom(s.Addr, s.GamePort)
}

// clone returns a deep copy of s.
func (s Server) clone() Server {
	m := make([]ServerModInfo, len(s.ModInfo))
	copy(m, s.ModInfo)
	s.ModInfo = m
	return s
}

// ServerUpdate contains values to update on a registered server. Nil fields
// are left unchanged.
type ServerUpdate struct {
	Heartbeat   bool
	Name        *string
	Description *string
	Map         *string
	Playlist    *string
	PlayerCount *int
	MaxPlayers  *int
	Password    *string // a blank non-nil password removes it
}

var (
	// ErrServerListHostQuota is returned by PushServer if the host already
	// has the maximum number of registered servers.
	ErrServerListHostQuota = errors.New("too many servers for host")

	// ErrServerListDuplicateAuthAddr is returned by PushServer if the auth
	// addr is already used by another server on the same host.
	ErrServerListDuplicateAuthAddr = errors.New("already have server with auth addr")

	// ErrServerListNotFound is returned when no server has the provided ID.
	ErrServerListNotFound = errors.New("no such server")

	// ErrServerListWrongIP is returned when the request IP does not match the
	// registered server IP.
	ErrServerListWrongIP = errors.New("wrong source ip for server")
)

// NewServerList initializes a new server list.
//
// maxServersPerHost limits the number of servers registered for a single IP
// address. If zero, a reasonable default is used.
//
// freshTime is the time since the last heartbeat after which a server is
// hidden from the server list. deadTime is the time since the last heartbeat
// after which a server is removed by RemoveInactive. Both must be positive if
// nonzero, and freshTime must be <= deadTime. Otherwise, NewServerList will
// panic.
func NewServerList(maxServersPerHost int, freshTime, deadTime time.Duration) *ServerList {
	if maxServersPerHost <= 0 {
		maxServersPerHost = 10
	}
	if freshTime < 0 {
		panic("api0: serverlist: freshTime must be >= 0")
	}
	if deadTime < 0 {
		panic("api0: serverlist: deadTime must be >= 0")
	}
	if freshTime > deadTime {
		panic("api0: serverlist: freshTime must be <= deadTime")
	}
	return &ServerList{
		maxServersPerHost: maxServersPerHost,
		freshTime:         freshTime,
		deadTime:          deadTime,
		servers:           make(map[nsid.ID]*Server),
		byAddr:            make(map[netip.Addr]map[nsid.ID]*Server),
	}
}

// PushServer registers a new server, assigning x.ID and x.AuthToken. A server
// on the same host with the same game port is replaced. An error is returned
// if the host quota would be exceeded (before any replacement is considered)
// or if the auth port is already used by another server on the host; if so,
// the server list remains unchanged.
func (s *ServerList) PushServer(x *Server) error {
	t := s.now()

	if !x.Addr.IsValid() {
		return fmt.Errorf("addr is missing")
	}
	if x.GamePort == 0 {
		return fmt.Errorf("game port is missing")
	}
	if x.AuthPort == 0 {
		return fmt.Errorf("auth port is missing")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := s.byAddr[x.Addr]
	if len(bucket) >= s.maxServersPerHost {
		return fmt.Errorf("%w %s (%d already registered)", ErrServerListHostQuota, x.Addr, len(bucket))
	}

	// a re-registration from the same host and game port replaces the old one
	for _, esrv := range bucket {
		if esrv.GamePort == x.GamePort {
			s.freeServer(esrv)
		}
	}

	for _, esrv := range bucket {
		if esrv.AuthPort == x.AuthPort {
			return fmt.Errorf("%w %s (used for server %s)", ErrServerListDuplicateAuthAddr, x.AuthAddr(), esrv.GameAddr())
		}
	}

	x.ID = nsid.New()
	if _, exists := s.servers[x.ID]; exists {
		panic("api0: serverlist: duplicate server id")
	}
	x.AuthToken = nsid.New()
	x.LastHeartbeat = t
	s.order++
	x.Order = s.order

	nsrv := x.clone()
	s.servers[nsrv.ID] = &nsrv
	if s.byAddr[nsrv.Addr] == nil {
		s.byAddr[nsrv.Addr] = make(map[nsid.ID]*Server)
	}
	s.byAddr[nsrv.Addr][nsrv.ID] = &nsrv

	s.csDirty()
	return nil
}

// UpdateServer updates values for the server with the provided ID. The update
// is only applied if ip matches the registered server IP; otherwise
// ErrServerListWrongIP is returned and the server list remains unchanged.
func (s *ServerList) UpdateServer(id nsid.ID, ip netip.Addr, u *ServerUpdate) error {
	t := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	esrv, exists := s.servers[id]
	if !exists {
		return ErrServerListNotFound
	}
	if esrv.Addr != ip {
		return ErrServerListWrongIP
	}

	if u.Heartbeat {
		esrv.LastHeartbeat = t
	}
	if u.Name != nil {
		esrv.Name = *u.Name
	}
	if u.Description != nil {
		esrv.Description = *u.Description
	}
	if u.Map != nil {
		esrv.Map = *u.Map
	}
	if u.Playlist != nil {
		esrv.Playlist = *u.Playlist
	}
	if u.PlayerCount != nil {
		esrv.PlayerCount = *u.PlayerCount
	}
	if u.MaxPlayers != nil {
		esrv.MaxPlayers = *u.MaxPlayers
	}
	if u.Password != nil {
		esrv.Password = *u.Password
	}

	s.csDirty()
	return nil
}

// RemoveServer removes the server with the provided ID if ip matches the
// registered server IP.
func (s *ServerList) RemoveServer(id nsid.ID, ip netip.Addr) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	esrv, exists := s.servers[id]
	if !exists {
		return ErrServerListNotFound
	}
	if esrv.Addr != ip {
		return ErrServerListWrongIP
	}
	s.freeServer(esrv)

	s.csDirty()
	return nil
}

// RemoveInactive removes servers which haven't sent a heartbeat for deadTime,
// returning the number of servers removed.
func (s *ServerList) RemoveInactive() int {
	t := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.removeInactiveLocked(t)
}

// removeInactiveLocked removes servers which haven't sent a heartbeat for
// deadTime as of t. It must be called while a write lock is held on s.mu.
func (s *ServerList) removeInactiveLocked(t time.Time) int {
	var n int
	if s.deadTime != 0 {
		// note: unlike a slice, it's safe to delete while looping over a map
		for _, esrv := range s.servers {
			if t.Sub(esrv.LastHeartbeat) >= s.deadTime {
				s.freeServer(esrv)
				n++
			}
		}
	}
	if n != 0 {
		s.csDirty()
	}
	return n
}

// GetServerByID returns a deep copy of the server with id, or nil if there
// isn't one.
func (s *ServerList) GetServerByID(id nsid.ID) *Server {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if srv, ok := s.servers[id]; ok {
		c := srv.clone()
		return &c
	}
	return nil
}

// NumServers returns the number of registered servers.
func (s *ServerList) NumServers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.servers)
}

// WritePrometheus writes server list metrics to w.
func (s *ServerList) WritePrometheus(w io.Writer) {
	s.mu.RLock()
	n, h := len(s.servers), len(s.byAddr)
	s.mu.RUnlock()
	fmt.Fprintf(w, "vanguard_serverlist_servers %d\n", n)
	fmt.Fprintf(w, "vanguard_serverlist_hosts %d\n", h)
}

// csDirty invalidates the cached /client/servers response. It must be called
// after any updates while holding a write lock on s.mu.
func (s *ServerList) csDirty() {
	s.csBytes = nil
}

// csGetJSON efficiently gets the JSON response for /client/servers, caching
// it until the next update or heartbeat expiry. The returned byte slice must
// not be modified (and will not be modified).
func (s *ServerList) csGetJSON() []byte {
	t := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	// dead servers must stop counting against the host quota as soon as
	// anyone asks for the list, not just when the background sweep fires
	s.removeInactiveLocked(t)

	// return the cached response if it's still valid
	if s.csBytes != nil && (s.csNext.IsZero() || t.Before(s.csNext)) {
		return s.csBytes
	}

	// get the fresh servers in the original order
	var next time.Time
	ss := make([]*Server, 0, len(s.servers))
	for _, srv := range s.servers {
		if s.freshTime != 0 {
			x := srv.LastHeartbeat.Add(s.freshTime)
			if !x.After(t) {
				continue
			}
			if next.IsZero() || x.Before(next) {
				next = x
			}
		}
		ss = append(ss, srv)
	}
	sort.Slice(ss, func(i, j int) bool {
		return ss[i].Order < ss[j].Order
	})

	// generate the json
	//
	// note: we write it manually to avoid copying the entire list and to
	// avoid the perf overhead of reflection
	var b bytes.Buffer
	b.WriteByte('[')
	for i, srv := range ss {
		if i != 0 {
			b.WriteByte(',')
		}
		maxPlayers := srv.MaxPlayers
		if maxPlayers > 32 {
			maxPlayers = 32
		}
		playerCount := srv.PlayerCount
		if playerCount < 0 {
			playerCount = 0
		}
		if playerCount > maxPlayers {
			playerCount = maxPlayers
		}
		b.WriteString(`{"id":`)
		encodeJSONString(&b, []byte(srv.ID.String()))
		b.WriteString(`,"name":`)
		encodeJSONString(&b, []byte(srv.Name))
		b.WriteString(`,"description":`)
		encodeJSONString(&b, []byte(srv.Description))
		b.WriteString(`,"map":`)
		encodeJSONString(&b, []byte(srv.Map))
		b.WriteString(`,"playlist":`)
		encodeJSONString(&b, []byte(srv.Playlist))
		b.WriteString(`,"maxPlayers":`)
		b.WriteString(strconv.Itoa(maxPlayers))
		if srv.Password != "" {
			b.WriteString(`,"hasPassword":true`)
		} else {
			b.WriteString(`,"hasPassword":false`)
		}
		b.WriteString(`,"playerCount":`)
		b.WriteString(strconv.Itoa(playerCount))
		b.WriteString(`,"modInfo":{"Mods":[`)
		for j, mi := range srv.ModInfo {
			if j != 0 {
				b.WriteByte(',')
			}
			b.WriteString(`{"RequiredOnClient":`)
			if mi.RequiredOnClient {
				b.WriteString(`true`)
			} else {
				b.WriteString(`false`)
			}
			b.WriteString(`,"Name":`)
			encodeJSONString(&b, []byte(mi.Name))
			b.WriteString(`,"Version":`)
			encodeJSONString(&b, []byte(mi.Version))
			b.WriteByte('}')
		}
		b.WriteString(`]}}`)
	}
	b.WriteByte(']')

	// cache it
	s.csBytes = b.Bytes()
	s.csNext = next

	return s.csBytes
}

// freeServer frees the provided server from memory. It must be called while a
// write lock is held on s.
func (s *ServerList) freeServer(x *Server) {
	// we need to ensure that we only delete a server from the indexes if the
	// index is pointing to our specific server since a new server with the
	// same address could have replaced it
	if esrv, exists := s.servers[x.ID]; exists && esrv == x {
		delete(s.servers, x.ID)
	}
	if bucket := s.byAddr[x.Addr]; bucket != nil {
		if esrv, exists := bucket[x.ID]; exists && esrv == x {
			delete(bucket, x.ID)
		}
		if len(bucket) == 0 {
			delete(s.byAddr, x.Addr)
		}
	}
}

func (s *ServerList) now() time.Time {
	if s.__clock != nil {
		return s.__clock()
	}
	return time.Now()
}

// jsonSafeSet is encoding/json.safeSet.
var jsonSafeSet = [utf8.RuneSelf]bool{
	' ':      true,
	'!':      true,
	'"':      false,
	'#':      true,
	'$':      true,
	'%':      true,
	'&':      true,
	'\'':     true,
	'(':      true,
	')':      true,
	'*':      true,
	'+':      true,
	',':      true,
	'-':      true,
	'.':      true,
	'/':      true,
	'0':      true,
	'1':      true,
	'2':      true,
	'3':      true,
	'4':      true,
	'5':      true,
	'6':      true,
	'7':      true,
	'8':      true,
	'9':      true,
	':':      true,
	';':      true,
	'<':      true,
	'=':      true,
	'>':      true,
	'?':      true,
	'@':      true,
	'A':      true,
	'B':      true,
	'C':      true,
	'D':      true,
	'E':      true,
	'F':      true,
	'G':      true,
	'H':      true,
	'I':      true,
	'J':      true,
	'K':      true,
	'L':      true,
	'M':      true,
	'N':      true,
	'O':      true,
	'P':      true,
	'Q':      true,
	'R':      true,
	'S':      true,
	'T':      true,
	'U':      true,
	'V':      true,
	'W':      true,
	'X':      true,
	'Y':      true,
	'Z':      true,
	'[':      true,
	'\\':     false,
	']':      true,
	'^':      true,
	'_':      true,
	'`':      true,
	'a':      true,
	'b':      true,
	'c':      true,
	'd':      true,
	'e':      true,
	'f':      true,
	'g':      true,
	'h':      true,
	'i':      true,
	'j':      true,
	'k':      true,
	'l':      true,
	'm':      true,
	'n':      true,
	'o':      true,
	'p':      true,
	'q':      true,
	'r':      true,
	's':      true,
	't':      true,
	'u':      true,
	'v':      true,
	'w':      true,
	'x':      true,
	'y':      true,
	'z':      true,
	'{':      true,
	'|':      true,
	'}':      true,
	'~':      true,
	'\u007f': true,
}

// encodeJSONString is based on encoding/json.encodeState.stringBytes.
func encodeJSONString(e *bytes.Buffer, s []byte) {
	const hex = "0123456789abcdef"

	e.WriteByte('"')
	start := 0
	for i := 0; i < len(s); {
		if b := s[i]; b < utf8.RuneSelf {
			if jsonSafeSet[b] {
				i++
				continue
			}
			if start < i {
				e.Write(s[start:i])
			}
			e.WriteByte('\\')
			switch b {
			case '\\', '"':
				e.WriteByte(b)
			case '\n':
				e.WriteByte('n')
			case '\r':
				e.WriteByte('r')
			case '\t':
				e.WriteByte('t')
			default:
				// This encodes bytes < 0x20 except for \t, \n and \r.
				// If escapeHTML is set, it also escapes <, >, and &
				// because they can lead to security holes when
				// user-controlled strings are rendered into JSON
				// and served to some browsers.
				e.WriteString(`u00`)
				e.WriteByte(hex[b>>4])
				e.WriteByte(hex[b&0xF])
			}
			i++
			start = i
			continue
		}
		c, size := utf8.DecodeRune(s[i:])
		if c == utf8.RuneError && size == 1 {
			if start < i {
				e.Write(s[start:i])
			}
			e.WriteString(`\ufffd`)
			i += size
			start = i
			continue
		}
		// U+2028 is LINE SEPARATOR.
		// U+2029 is PARAGRAPH SEPARATOR.
		// They are both technically valid characters in JSON strings,
		// but don't work in JSONP, which has to be evaluated as JavaScript,
		// and can lead to security holes there. It is valid JSON to
		// escape them, so we do so unconditionally.
		// See http://timelessrepo.com/json-isnt-a-javascript-subset for discussion.
		if c == '\u2028' || c == '\u2029' {
			if start < i {
				e.Write(s[start:i])
			}
			e.WriteString(`\u202`)
			e.WriteByte(hex[c&0xF])
			i += size
			start = i
			continue
		}
		i += size
	}
	if start < len(s) {
		e.Write(s[start:])
	}
	e.WriteByte('"')
}
