// Package api0 implements the original master server API.
//
// External differences:
//   - Proper HTTP response codes are used (this won't break anything since existing code doesn't check them).
//   - Caching headers are supported and used where appropriate.
//   - Error responses always carry a message for easier debugging. Enum values remain the same for compatibility.
//   - More HTTP methods and features are supported (e.g., HEAD, OPTIONS, Content-Encoding).
package api0

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/hlog"
	"golang.org/x/mod/semver"
)

// Handler serves requests for the original master server API.
type Handler struct {
	// ServerList stores registered game servers. It must be non-nil.
	ServerList *ServerList

	// AccountStorage stores accounts and player data. It must be non-nil.
	AccountStorage AccountStorage

	// DefaultPdata is returned for accounts which don't have any pdata stored
	// yet. It must be a valid encoded blob.
	DefaultPdata []byte

	// MainMenuPromos gets the main menu promos JSON to return for a request.
	// If not provided, an empty object is returned.
	MainMenuPromos func(*http.Request) ([]byte, error)

	// NotFound handles requests not handled by this Handler.
	NotFound http.Handler

	// MinimumLauncherVersion restricts all requests to launchers with at least
	// this version, which must be valid semver. Versions containing "dev" are
	// always allowed. If empty, all requests are allowed.
	MinimumLauncherVersion string

	// TokenExpiryTime controls the expiry of player masterserver auth tokens.
	// If zero, a reasonable default is used.
	TokenExpiryTime time.Duration

	// GameServerTimeout is the timeout for requests made to game servers
	// during registration and player auth. If zero, a reasonable default is
	// used.
	GameServerTimeout time.Duration

	// InsecureDevNoCheckPlayerAuth is an option you shouldn't use since it
	// makes the server trust that clients are who they say they are.
	InsecureDevNoCheckPlayerAuth bool

	metricsInit sync.Once
	metricsObj  apiMetrics
}

// ServeHTTP routes requests to Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var notPanicked bool // this lets us catch panics without swallowing them
	defer func() {
		if !notPanicked {
			h.m().request_panics_total.Inc()
		}
	}()

	w.Header().Set("Server", "Vanguard")

	if !h.checkLauncherVersion(r) {
		respFail(w, r, http.StatusBadRequest, ErrorCode_UNSUPPORTED_VERSION.MessageObj())
		notPanicked = true
		return
	}

	switch r.URL.Path {
	case "/client/mainmenupromos":
		h.handleMainMenuPromos(w, r)
	case "/client/origin_auth":
		h.handleClientOriginAuth(w, r)
	case "/client/auth_with_server":
		h.handleClientAuthWithServer(w, r)
	case "/client/auth_with_self":
		h.handleClientAuthWithSelf(w, r)
	case "/client/servers":
		h.handleClientServers(w, r)
	case "/server/add_server", "/server/update_values":
		h.handleServerUpsert(w, r)
	case "/server/remove_server":
		h.handleServerRemove(w, r)
	case "/accounts/write_persistence":
		h.handleAccountsWritePersistence(w, r)
	case "/player/info":
		h.handlePlayerInfo(w, r)
	default:
		if h.NotFound == nil {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		} else {
			notPanicked = true
			h.NotFound.ServeHTTP(w, r)
		}
	}
	notPanicked = true
}

// checkLauncherVersion checks if r was made by NorthstarLauncher and if it is
// at least MinimumLauncherVersion.
func (h *Handler) checkLauncherVersion(r *http.Request) bool {
	mver := h.MinimumLauncherVersion
	if mver == "" {
		return true // allow: no minimum version
	}
	if mver[0] != 'v' {
		mver = "v" + mver
	}
	if !semver.IsValid(mver) {
		hlog.FromRequest(r).Warn().Msgf("not checking invalid minimum version %q", mver)
		h.m().versiongate_checks_total.success_ok.Inc()
		return true // allow: invalid minimum version
	}

	rver, _, _ := strings.Cut(r.Header.Get("User-Agent"), " ")
	if x := strings.TrimPrefix(rver, "R2Northstar/"); rver != x {
		rver = x
	} else {
		h.m().versiongate_checks_total.reject_notns.Inc()
		return false // deny: not R2Northstar
	}
	if strings.Contains(rver, "dev") {
		h.m().versiongate_checks_total.success_dev.Inc()
		return true // allow: dev versions
	}
	if len(rver) > 0 && rver[0] != 'v' {
		rver = "v" + rver
	}
	if !semver.IsValid(rver) {
		h.m().versiongate_checks_total.reject_invalid.Inc()
		return false // deny: invalid version
	}

	if semver.Compare(rver, mver) < 0 {
		h.m().versiongate_checks_total.reject_old.Inc()
		return false // deny: too old
	}

	h.m().versiongate_checks_total.success_ok.Inc()
	return true
}

func (h *Handler) gameServerTimeout() time.Duration {
	if h.GameServerTimeout > 0 {
		return h.GameServerTimeout
	}
	return time.Second * 5
}

func (h *Handler) tokenExpiryTime() time.Duration {
	if h.TokenExpiryTime > 0 {
		return h.TokenExpiryTime
	}
	return time.Hour * 24
}

// respFail writes a {success:false,error:ErrorObj} response with the provided
// response status.
func respFail(w http.ResponseWriter, r *http.Request, status int, obj ErrorObj) {
	respJSON(w, r, status, map[string]any{
		"success": false,
		"error":   obj,
	})
}

// respJSON writes the JSON encoding of obj with the provided response status.
func respJSON(w http.ResponseWriter, r *http.Request, status int, obj any) {
	if r.Method == http.MethodHead {
		w.WriteHeader(status)
		return
	}
	buf, err := json.Marshal(obj)
	if err != nil {
		panic(err)
	}
	hlog.FromRequest(r).Trace().Msgf("json api response %.2048s", string(buf))
	buf = append(buf, '\n')
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(buf)))
	w.WriteHeader(status)
	w.Write(buf)
}

// respMaybeCompress writes buf with the provided response status, compressing
// it with gzip if the client supports it and the result is smaller.
func respMaybeCompress(w http.ResponseWriter, r *http.Request, status int, buf []byte) {
	for _, e := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		if t, _, _ := strings.Cut(e, ";"); strings.TrimSpace(t) == "gzip" {
			var cbuf bytes.Buffer
			gw := gzip.NewWriter(&cbuf)
			if _, err := gw.Write(buf); err != nil {
				break
			}
			if err := gw.Close(); err != nil {
				break
			}
			if cbuf.Len() < int(float64(len(buf))*0.8) {
				buf = cbuf.Bytes()
				w.Header().Set("Content-Encoding", "gzip")
				w.Header().Del("ETag") // to avoid breaking caching proxies since ETag must be unique if Content-Encoding is different
			}
			break
		}
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(buf)))
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		w.Write(buf)
	}
}

// marshalJSONBytesAsArray marshals b as an array of numbers (rather than the
// default of base64).
func marshalJSONBytesAsArray(b []byte) json.RawMessage {
	var e bytes.Buffer
	e.Grow(2 + len(b)*3)
	e.WriteByte('[')
	for i, c := range b {
		if i != 0 {
			e.WriteByte(',')
		}
		e.WriteString(strconv.FormatUint(uint64(c), 10))
	}
	e.WriteByte(']')
	return json.RawMessage(e.Bytes())
}
