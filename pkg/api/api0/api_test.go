package api0

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/r2northstar/vanguard/pkg/nsid"
	"github.com/r2northstar/vanguard/pkg/pdata"
)

// testStorage is a minimal in-memory AccountStorage (the real ones live in
// pkg/memstore and db/accountdb, which would be an import cycle from here).
type testStorage struct {
	mu     sync.Mutex
	accts  map[uint32]Account
	pdatas map[uint32][]byte
}

func newTestStorage() *testStorage {
	return &testStorage{
		accts:  map[uint32]Account{},
		pdatas: map[uint32][]byte{},
	}
}

func (s *testStorage) GetAccount(uid uint32) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.accts[uid]; ok {
		return &a, nil
	}
	return nil, nil
}

func (s *testStorage) SaveAccount(a *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accts[a.UID] = *a
	return nil
}

func (s *testStorage) GetPdata(uid uint32) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.pdatas[uid]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), b...), true, nil
}

func (s *testStorage) SetPdata(uid uint32, buf []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pdatas[uid] = append([]byte(nil), buf...)
	return len(buf), nil
}

func newTestHandler() *Handler {
	return &Handler{
		ServerList:     NewServerList(0, time.Minute, time.Minute*5),
		AccountStorage: newTestStorage(),
		DefaultPdata:   make([]byte, pdata.Size()),
	}
}

func doRequest(h *Handler, method, target, remote, ua string, body io.Reader, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if remote != "" {
		req.RemoteAddr = remote
	}
	if ua != "" {
		req.Header.Set("User-Agent", ua)
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeResp(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var obj map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &obj); err != nil {
		t.Fatalf("invalid response json %q: %v", rr.Body.String(), err)
	}
	return obj
}

func checkFail(t *testing.T, rr *httptest.ResponseRecorder, status int, code ErrorCode) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("expected status %d, got %d (body %q)", status, rr.Code, rr.Body.String())
	}
	obj := decodeResp(t, rr)
	if obj["success"] != false {
		t.Fatalf("success should be false, got %q", rr.Body.String())
	}
	e, _ := obj["error"].(map[string]any)
	if e == nil {
		t.Fatalf("missing error object in %q", rr.Body.String())
	}
	if e["enum"] != string(code) {
		t.Fatalf("expected error enum %s, got %v", code, e["enum"])
	}
	if m, ok := e["message"].(string); !ok || m == "" {
		t.Fatalf("error should carry a message, got %q", rr.Body.String())
	}
}

func TestVersionGate(t *testing.T) {
	h := newTestHandler()
	h.MinimumLauncherVersion = "1.9.7"

	for _, tc := range []struct {
		Name  string
		UA    string
		Allow bool
	}{
		{"NoUserAgent", "", false},
		{"NotNorthstar", "curl/8.0.1", false},
		{"TooOld", "R2Northstar/1.9.6", false},
		{"Invalid", "R2Northstar/garbage", false},
		{"Exact", "R2Northstar/1.9.7", true},
		{"Newer", "R2Northstar/v1.10.0", true},
		{"Dev", "R2Northstar/1.0.0-dev+local", true},
	} {
		t.Run(tc.Name, func(t *testing.T) {
			rr := doRequest(h, http.MethodGet, "/client/mainmenupromos", "", tc.UA, nil, nil)
			if tc.Allow {
				if rr.Code != http.StatusOK {
					t.Fatalf("expected status 200, got %d (body %q)", rr.Code, rr.Body.String())
				}
			} else {
				checkFail(t, rr, http.StatusBadRequest, ErrorCode_UNSUPPORTED_VERSION)
			}
		})
	}

	t.Run("Disabled", func(t *testing.T) {
		h := newTestHandler()
		if rr := doRequest(h, http.MethodGet, "/client/mainmenupromos", "", "curl/8.0.1", nil, nil); rr.Code != http.StatusOK {
			t.Fatalf("all versions should be allowed without a minimum, got %d", rr.Code)
		}
	})
}

func TestMainMenuPromos(t *testing.T) {
	t.Run("Default", func(t *testing.T) {
		h := newTestHandler()
		rr := doRequest(h, http.MethodGet, "/client/mainmenupromos", "", "", nil, nil)
		if rr.Code != http.StatusOK || rr.Body.String() != "{}" {
			t.Fatalf("expected empty object, got %d %q", rr.Code, rr.Body.String())
		}
	})
	t.Run("Custom", func(t *testing.T) {
		h := newTestHandler()
		h.MainMenuPromos = func(*http.Request) ([]byte, error) {
			return []byte(`{"newInfo":{"Title1":"hi"}}`), nil
		}
		rr := doRequest(h, http.MethodGet, "/client/mainmenupromos", "", "", nil, nil)
		if rr.Code != http.StatusOK || rr.Body.String() != `{"newInfo":{"Title1":"hi"}}` {
			t.Fatalf("unexpected response %d %q", rr.Code, rr.Body.String())
		}
	})
	t.Run("Error", func(t *testing.T) {
		h := newTestHandler()
		h.MainMenuPromos = func(*http.Request) ([]byte, error) {
			return nil, fmt.Errorf("boom")
		}
		rr := doRequest(h, http.MethodGet, "/client/mainmenupromos", "", "", nil, nil)
		checkFail(t, rr, http.StatusInternalServerError, ErrorCode_INTERNAL_SERVER_ERROR)
	})
}

func TestOriginAuthDev(t *testing.T) {
	h := newTestHandler()
	h.InsecureDevNoCheckPlayerAuth = true

	rr := doRequest(h, http.MethodGet, "/client/origin_auth?id=1010101", "203.0.113.5:40000", "", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (body %q)", rr.Code, rr.Body.String())
	}
	obj := decodeResp(t, rr)
	if obj["success"] != true {
		t.Fatalf("success should be true, got %q", rr.Body.String())
	}
	tok, _ := obj["token"].(string)
	if _, err := nsid.Parse(tok); err != nil {
		t.Fatalf("invalid token %q: %v", tok, err)
	}

	acct, err := h.AccountStorage.GetAccount(1010101)
	if err != nil || acct == nil {
		t.Fatalf("account should have been created, got %v, %v", acct, err)
	}
	if acct.AuthToken.String() != tok {
		t.Fatalf("stored token does not match response")
	}
	if acct.AuthIP != netip.MustParseAddr("203.0.113.5") {
		t.Fatalf("incorrect auth ip %s", acct.AuthIP)
	}

	t.Run("MissingID", func(t *testing.T) {
		rr := doRequest(h, http.MethodGet, "/client/origin_auth", "203.0.113.5:40000", "", nil, nil)
		checkFail(t, rr, http.StatusBadRequest, ErrorCode_BAD_REQUEST)
	})
	t.Run("NonNumericID", func(t *testing.T) {
		rr := doRequest(h, http.MethodGet, "/client/origin_auth?id=bob", "203.0.113.5:40000", "", nil, nil)
		checkFail(t, rr, http.StatusNotFound, ErrorCode_PLAYER_NOT_FOUND)
	})
}

func TestAuthWithSelf(t *testing.T) {
	const uid = 42
	h := newTestHandler()

	acct := &Account{
		UID:              uid,
		AuthToken:        nsid.New(),
		AuthTokenCreated: time.Now(),
		AuthIP:           netip.MustParseAddr("203.0.113.5"),
	}
	if err := h.AccountStorage.SaveAccount(acct); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("Success", func(t *testing.T) {
		rr := doRequest(h, http.MethodPost, "/client/auth_with_self?id=42&playerToken="+acct.AuthToken.String(), "203.0.113.5:40000", "", nil, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d (body %q)", rr.Code, rr.Body.String())
		}
		obj := decodeResp(t, rr)
		if obj["success"] != true || obj["id"] != "42" {
			t.Fatalf("unexpected response %q", rr.Body.String())
		}
		pd, _ := obj["persistentData"].([]any)
		if len(pd) != pdata.Size() {
			t.Fatalf("expected %d pdata bytes, got %d", pdata.Size(), len(pd))
		}
		if at, _ := obj["authToken"].(string); at == "" {
			t.Fatalf("authToken should be present for launcher compatibility")
		}
	})
	t.Run("WrongToken", func(t *testing.T) {
		rr := doRequest(h, http.MethodPost, "/client/auth_with_self?id=42&playerToken="+nsid.New().String(), "203.0.113.5:40000", "", nil, nil)
		checkFail(t, rr, http.StatusUnauthorized, ErrorCode_INVALID_MASTERSERVER_TOKEN)
	})
	t.Run("ExpiredToken", func(t *testing.T) {
		old := *acct
		old.AuthTokenCreated = time.Now().Add(-25 * time.Hour)
		if err := h.AccountStorage.SaveAccount(&old); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		rr := doRequest(h, http.MethodPost, "/client/auth_with_self?id=42&playerToken="+acct.AuthToken.String(), "203.0.113.5:40000", "", nil, nil)
		checkFail(t, rr, http.StatusUnauthorized, ErrorCode_INVALID_MASTERSERVER_TOKEN)
	})
	t.Run("UnknownPlayer", func(t *testing.T) {
		rr := doRequest(h, http.MethodPost, "/client/auth_with_self?id=43&playerToken="+acct.AuthToken.String(), "203.0.113.5:40000", "", nil, nil)
		checkFail(t, rr, http.StatusNotFound, ErrorCode_PLAYER_NOT_FOUND)
	})
}

func TestListingPlayerClamp(t *testing.T) {
	gs := &fakeGameServer{authOK: true}
	gssrv := httptest.NewServer(gs)
	defer gssrv.Close()

	u, err := url.Parse(gssrv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h := newTestHandler()
	rr := doRequest(h, http.MethodPost, "/server/add_server?port=37015&authPort="+u.Port()+"&name=big&maxPlayers=999&playerCount=500", "127.0.0.1:39999", "", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (body %q)", rr.Code, rr.Body.String())
	}

	// large values are registered as-is
	sid, err := nsid.Parse(decodeResp(t, rr)["id"].(string))
	if err != nil {
		t.Fatalf("invalid server id: %v", err)
	}
	srv := h.ServerList.GetServerByID(sid)
	if srv.MaxPlayers != 999 || srv.PlayerCount != 500 {
		t.Fatalf("expected 999/500 registered, got %d/%d", srv.MaxPlayers, srv.PlayerCount)
	}

	// but clamped in the listing
	rr = doRequest(h, http.MethodGet, "/client/servers", "203.0.113.5:4000", "", nil, nil)
	var es []map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &es); err != nil {
		t.Fatalf("invalid list json %q: %v", rr.Body.String(), err)
	}
	if len(es) != 1 || es[0]["maxPlayers"] != float64(32) || es[0]["playerCount"] != float64(32) {
		t.Fatalf("expected maxPlayers and playerCount clamped to 32, got %q", rr.Body.String())
	}
}

func TestAddServerNonHTTPAuthPort(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer ln.Close()
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			io.WriteString(c, "this is not http\n")
			c.Close()
		}
	}()

	_, port, err := net.SplitHostPort(ln.Addr().String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// reachable but not speaking http is a bad response, not an unreachable
	// server
	h := newTestHandler()
	rr := doRequest(h, http.MethodPost, "/server/add_server?port=37015&authPort="+port+"&name=x", "127.0.0.1:39999", "", nil, nil)
	checkFail(t, rr, http.StatusBadGateway, ErrorCode_BAD_GAMESERVER_RESPONSE)
	if h.ServerList.NumServers() != 0 {
		t.Fatalf("server must not be registered")
	}
}

// fakeGameServer implements the game server auth endpoints hit by the master
// server.
type fakeGameServer struct {
	mu          sync.Mutex
	verifyHits  int
	authQueries []url.Values
	authPdata   [][]byte
	authOK      bool
}

func (f *fakeGameServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch r.URL.Path {
	case "/verify":
		f.verifyHits++
		io.WriteString(w, "I am a northstar server!")
	case "/authenticate_incoming_player":
		buf, _ := io.ReadAll(r.Body)
		f.authQueries = append(f.authQueries, r.URL.Query())
		f.authPdata = append(f.authPdata, buf)
		fmt.Fprintf(w, `{"success":%v}`, f.authOK)
	default:
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	}
}

func TestGameServerFlow(t *testing.T) {
	gs := &fakeGameServer{authOK: true}
	gssrv := httptest.NewServer(gs)
	defer gssrv.Close()

	u, err := url.Parse(gssrv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	authPort := u.Port()

	const (
		hostAddr   = "127.0.0.1:39999"  // the game server host
		clientAddr = "203.0.113.5:4000" // the player
		otherAddr  = "198.51.100.7:555" // an unrelated host
	)

	h := newTestHandler()
	h.InsecureDevNoCheckPlayerAuth = true

	var serverID, serverAuthToken string

	t.Run("AddServer", func(t *testing.T) {
		var mpb bytes.Buffer
		mpw := multipart.NewWriter(&mpb)
		mf, err := mpw.CreateFormFile("modinfo", "modinfo.json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		io.WriteString(mf, `{"Mods":[{"Name":"Northstar.Custom","Version":"1.10.0","RequiredOnClient":true},{"Name":""}]}`)
		mpw.Close()

		rr := doRequest(h, http.MethodPost,
			"/server/add_server?port=37015&authPort="+authPort+"&name=testserver&description=hello&map=mp_glitch&playlist=private_match&maxPlayers=16&password=hunter2",
			hostAddr, "", &mpb, map[string]string{"Content-Type": mpw.FormDataContentType()})
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d (body %q)", rr.Code, rr.Body.String())
		}
		obj := decodeResp(t, rr)
		if obj["success"] != true {
			t.Fatalf("success should be true, got %q", rr.Body.String())
		}
		serverID, _ = obj["id"].(string)
		serverAuthToken, _ = obj["serverAuthToken"].(string)
		if _, err := nsid.Parse(serverID); err != nil {
			t.Fatalf("invalid server id %q: %v", serverID, err)
		}
		if _, err := nsid.Parse(serverAuthToken); err != nil {
			t.Fatalf("invalid server auth token %q: %v", serverAuthToken, err)
		}
		if gs.verifyHits != 1 {
			t.Fatalf("expected 1 verify probe, got %d", gs.verifyHits)
		}

		sid, _ := nsid.Parse(serverID)
		srv := h.ServerList.GetServerByID(sid)
		if srv == nil {
			t.Fatalf("server should be registered")
		}
		if len(srv.ModInfo) != 1 || srv.ModInfo[0].Name != "Northstar.Custom" {
			t.Fatalf("incorrect mod info %+v", srv.ModInfo)
		}
	})

	t.Run("AddServerUnreachable", func(t *testing.T) {
		h := newTestHandler()
		h.GameServerTimeout = time.Millisecond * 200
		rr := doRequest(h, http.MethodPost, "/server/add_server?port=37015&authPort=1&name=x", hostAddr, "", nil, nil)
		checkFail(t, rr, http.StatusBadGateway, ErrorCode_NO_GAMESERVER_RESPONSE)
		if h.ServerList.NumServers() != 0 {
			t.Fatalf("unreachable server must not be registered")
		}
	})

	t.Run("List", func(t *testing.T) {
		rr := doRequest(h, http.MethodGet, "/client/servers", clientAddr, "", nil, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
		var es []map[string]any
		if err := json.Unmarshal(rr.Body.Bytes(), &es); err != nil {
			t.Fatalf("invalid list json %q: %v", rr.Body.String(), err)
		}
		if len(es) != 1 || es[0]["id"] != serverID || es[0]["name"] != "testserver" || es[0]["hasPassword"] != true {
			t.Fatalf("unexpected list %q", rr.Body.String())
		}
	})

	t.Run("UpdateValues", func(t *testing.T) {
		rr := doRequest(h, http.MethodPost, "/server/update_values?id="+serverID+"&playerCount=3", hostAddr, "", nil, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d (body %q)", rr.Code, rr.Body.String())
		}
		if obj := decodeResp(t, rr); obj["id"] != serverID {
			t.Fatalf("update should echo the id, got %q", rr.Body.String())
		}
		sid, _ := nsid.Parse(serverID)
		if srv := h.ServerList.GetServerByID(sid); srv.PlayerCount != 3 {
			t.Fatalf("player count not updated")
		}
	})

	t.Run("UpdateValuesWrongIP", func(t *testing.T) {
		rr := doRequest(h, http.MethodPost, "/server/update_values?id="+serverID+"&playerCount=9", otherAddr, "", nil, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
		obj := decodeResp(t, rr)
		if obj["success"] != true {
			t.Fatalf("wrong-ip update should still report success")
		}
		if _, ok := obj["id"]; ok {
			t.Fatalf("wrong-ip update should not echo the id")
		}
		sid, _ := nsid.Parse(serverID)
		if srv := h.ServerList.GetServerByID(sid); srv.PlayerCount != 3 {
			t.Fatalf("wrong-ip update must not be applied")
		}
	})

	const uid = 2000001
	t.Run("AuthWithServer", func(t *testing.T) {
		if rr := doRequest(h, http.MethodGet, "/client/origin_auth?id="+strconv.Itoa(uid), clientAddr, "", nil, nil); rr.Code != http.StatusOK {
			t.Fatalf("origin auth failed: %d %q", rr.Code, rr.Body.String())
		}

		t.Run("WrongPassword", func(t *testing.T) {
			rr := doRequest(h, http.MethodPost, "/client/auth_with_server?id="+strconv.Itoa(uid)+"&server="+serverID+"&password=wrong", clientAddr, "", nil, nil)
			checkFail(t, rr, http.StatusUnauthorized, ErrorCode_UNAUTHORIZED_PWD)
		})
		t.Run("UnknownServer", func(t *testing.T) {
			rr := doRequest(h, http.MethodPost, "/client/auth_with_server?id="+strconv.Itoa(uid)+"&server="+nsid.New().String(), clientAddr, "", nil, nil)
			checkFail(t, rr, http.StatusNotFound, ErrorCode_SERVER_NOT_FOUND)
		})

		rr := doRequest(h, http.MethodPost, "/client/auth_with_server?id="+strconv.Itoa(uid)+"&server="+serverID+"&password=hunter2", clientAddr, "", nil, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d (body %q)", rr.Code, rr.Body.String())
		}
		obj := decodeResp(t, rr)
		if obj["ip"] != "127.0.0.1" || obj["port"] != float64(37015) {
			t.Fatalf("unexpected connection info %q", rr.Body.String())
		}
		connToken, _ := obj["authToken"].(string)
		if len(connToken) != 20 {
			t.Fatalf("expected a 20 char connection token, got %q", connToken)
		}

		if len(gs.authQueries) != 1 {
			t.Fatalf("expected 1 auth request to the game server, got %d", len(gs.authQueries))
		}
		q := gs.authQueries[0]
		if q.Get("id") != strconv.Itoa(uid) || q.Get("authToken") != connToken || q.Get("serverAuthToken") != serverAuthToken {
			t.Fatalf("unexpected auth query %v", q)
		}
		if len(gs.authPdata[0]) != pdata.Size() {
			t.Fatalf("expected default pdata to be forwarded, got %d bytes", len(gs.authPdata[0]))
		}

		sid, _ := nsid.Parse(serverID)
		if acct, _ := h.AccountStorage.GetAccount(uid); acct.LastServerID != sid {
			t.Fatalf("last server id not saved")
		}
	})

	t.Run("AuthWithServerRejected", func(t *testing.T) {
		gs.authOK = false
		defer func() { gs.authOK = true }()
		rr := doRequest(h, http.MethodPost, "/client/auth_with_server?id="+strconv.Itoa(uid)+"&server="+serverID+"&password=hunter2", clientAddr, "", nil, nil)
		checkFail(t, rr, http.StatusBadGateway, ErrorCode_BAD_GAMESERVER_RESPONSE)
	})

	t.Run("WritePersistence", func(t *testing.T) {
		blob := make([]byte, pdata.Size())

		mkbody := func(buf []byte) (io.Reader, string) {
			var b bytes.Buffer
			w := multipart.NewWriter(&b)
			f, _ := w.CreateFormFile("pdata", "pdata.pdata")
			f.Write(buf)
			w.Close()
			return &b, w.FormDataContentType()
		}

		t.Run("FromGameServer", func(t *testing.T) {
			body, ct := mkbody(blob)
			rr := doRequest(h, http.MethodPost, "/accounts/write_persistence?id="+strconv.Itoa(uid)+"&serverId="+serverID, "127.0.0.1:44444", "", body, map[string]string{"Content-Type": ct})
			if rr.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d (body %q)", rr.Code, rr.Body.String())
			}
			if buf, exists, _ := h.AccountStorage.GetPdata(uid); !exists || len(buf) != pdata.Size() {
				t.Fatalf("pdata not stored")
			}
		})
		t.Run("FromUnrelatedHost", func(t *testing.T) {
			body, ct := mkbody(blob)
			rr := doRequest(h, http.MethodPost, "/accounts/write_persistence?id="+strconv.Itoa(uid)+"&serverId="+serverID, otherAddr, "", body, map[string]string{"Content-Type": ct})
			checkFail(t, rr, http.StatusForbidden, ErrorCode_UNAUTHORIZED_GAMESERVER)
		})
		t.Run("WrongSize", func(t *testing.T) {
			body, ct := mkbody(blob[:100])
			rr := doRequest(h, http.MethodPost, "/accounts/write_persistence?id="+strconv.Itoa(uid), clientAddr, "", body, map[string]string{"Content-Type": ct})
			checkFail(t, rr, http.StatusBadRequest, ErrorCode_INVALID_PERSISTENT_DATA)
		})
	})

	t.Run("PlayerInfo", func(t *testing.T) {
		rr := doRequest(h, http.MethodGet, "/player/info?id="+strconv.Itoa(uid), clientAddr, "", nil, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d (body %q)", rr.Code, rr.Body.String())
		}
		obj := decodeResp(t, rr)
		if obj["success"] != true || obj["id"] != float64(uid) {
			t.Fatalf("unexpected response %q", rr.Body.String())
		}
		if v, ok := obj["name"]; !ok || v != nil {
			t.Fatalf("name should be null for accounts without a username, got %v", v)
		}
		for _, k := range []string{"gen", "xp", "netWorth", "activeCallingCardIndex", "activeCallsignIconIndex", "activeCallsignIconStyleIndex"} {
			if _, ok := obj[k]; !ok {
				t.Fatalf("missing %s in %q", k, rr.Body.String())
			}
		}

		etag := rr.Header().Get("ETag")
		if etag == "" {
			t.Fatalf("expected an etag")
		}
		rr = doRequest(h, http.MethodGet, "/player/info?id="+strconv.Itoa(uid), clientAddr, "", nil, map[string]string{"If-None-Match": etag})
		if rr.Code != http.StatusNotModified {
			t.Fatalf("expected status 304, got %d", rr.Code)
		}
	})

	t.Run("RemoveServer", func(t *testing.T) {
		t.Run("WrongIP", func(t *testing.T) {
			rr := doRequest(h, http.MethodDelete, "/server/remove_server?id="+serverID, otherAddr, "", nil, nil)
			if rr.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", rr.Code)
			}
			if h.ServerList.NumServers() != 1 {
				t.Fatalf("wrong-ip removal must not be applied")
			}
		})
		rr := doRequest(h, http.MethodDelete, "/server/remove_server?id="+serverID, hostAddr, "", nil, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
		if h.ServerList.NumServers() != 0 {
			t.Fatalf("server should be gone")
		}
		// removing again is still a success
		rr = doRequest(h, http.MethodDelete, "/server/remove_server?id="+serverID, hostAddr, "", nil, nil)
		if rr.Code != http.StatusOK || decodeResp(t, rr)["success"] != true {
			t.Fatalf("repeated removal should report success, got %d %q", rr.Code, rr.Body.String())
		}
	})
}
