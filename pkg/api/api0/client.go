package api0

import (
	"context"
	"errors"
	"net/http"
	"net/netip"
	"strconv"
	"time"

	"github.com/r2northstar/vanguard/pkg/api/api0/api0gameserver"
	"github.com/r2northstar/vanguard/pkg/nsid"
	"github.com/r2northstar/vanguard/pkg/stryder"
	"github.com/rs/zerolog/hlog"
)

func (h *Handler) handleMainMenuPromos(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodOptions && r.Method != http.MethodHead && r.Method != http.MethodGet {
		h.m().client_mainmenupromos_requests_total.http_method_not_allowed.Inc()
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Cache-Control", "private, no-cache, no-store")
	w.Header().Set("Expires", "0")
	w.Header().Set("Pragma", "no-cache")

	if r.Method == http.MethodOptions {
		w.Header().Set("Allow", "OPTIONS, HEAD, GET")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	buf := []byte("{}")
	if h.MainMenuPromos != nil {
		var err error
		if buf, err = h.MainMenuPromos(r); err != nil {
			hlog.FromRequest(r).Error().
				Err(err).
				Msgf("failed to get main menu promos")
			h.m().client_mainmenupromos_requests_total.fail_other_error.Inc()
			respFail(w, r, http.StatusInternalServerError, ErrorCode_INTERNAL_SERVER_ERROR.MessageObj())
			return
		}
	}

	h.m().client_mainmenupromos_requests_total.success.Inc()
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	respMaybeCompress(w, r, http.StatusOK, buf)
}

func (h *Handler) handleClientServers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodOptions && r.Method != http.MethodHead && r.Method != http.MethodGet {
		h.m().client_servers_requests_total.http_method_not_allowed.Inc()
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	// the list changes rapidly, so clients must not cache it for long
	w.Header().Set("Cache-Control", "no-cache")

	if r.Method == http.MethodOptions {
		w.Header().Set("Allow", "OPTIONS, HEAD, GET")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.m().client_servers_requests_total.success.Inc()
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	respMaybeCompress(w, r, http.StatusOK, h.ServerList.csGetJSON())
}

func (h *Handler) handleClientOriginAuth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodOptions && r.Method != http.MethodGet { // no HEAD support intentionally
		h.m().client_originauth_requests_total.http_method_not_allowed.Inc()
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Cache-Control", "private, no-cache, no-store")
	w.Header().Set("Expires", "0")
	w.Header().Set("Pragma", "no-cache")

	if r.Method == http.MethodOptions {
		w.Header().Set("Allow", "OPTIONS, GET")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	uidQ := r.URL.Query().Get("id")
	if uidQ == "" {
		h.m().client_originauth_requests_total.reject_bad_request.Inc()
		respFail(w, r, http.StatusBadRequest, ErrorCode_BAD_REQUEST.MessageObjf("id param is required"))
		return
	}

	uid64, err := strconv.ParseUint(uidQ, 10, 32)
	if err != nil {
		h.m().client_originauth_requests_total.reject_player_not_found.Inc()
		respFail(w, r, http.StatusNotFound, ErrorCode_PLAYER_NOT_FOUND.MessageObj())
		return
	}
	uid := uint32(uid64)

	raddr, err := netip.ParseAddrPort(r.RemoteAddr)
	if err != nil {
		hlog.FromRequest(r).Error().
			Err(err).
			Msgf("failed to parse remote ip %q", r.RemoteAddr)
		h.m().client_originauth_requests_total.fail_other_error.Inc()
		respFail(w, r, http.StatusInternalServerError, ErrorCode_INTERNAL_SERVER_ERROR.MessageObj())
		return
	}

	if !h.InsecureDevNoCheckPlayerAuth {
		token := r.URL.Query().Get("token")
		if token == "" {
			h.m().client_originauth_requests_total.reject_bad_request.Inc()
			respFail(w, r, http.StatusBadRequest, ErrorCode_BAD_REQUEST.MessageObjf("token param is required"))
			return
		}

		stryderCtx, cancel := context.WithTimeout(r.Context(), time.Second*5)
		defer cancel()

		stryderRes, err := stryder.NucleusAuth(stryderCtx, token, uid)
		if err != nil {
			switch {
			case errors.Is(err, stryder.ErrInvalidGame):
				fallthrough
			case errors.Is(err, stryder.ErrInvalidToken):
				fallthrough
			case errors.Is(err, stryder.ErrMultiplayerNotAllowed):
				hlog.FromRequest(r).Info().
					Err(err).
					Uint32("uid", uid).
					Str("stryder_resp", string(stryderRes)).
					Msgf("invalid stryder token")
				h.m().client_originauth_requests_total.reject_stryder.Inc()
				respFail(w, r, http.StatusForbidden, ErrorCode_UNAUTHORIZED_GAME.MessageObj())
				return
			case errors.Is(err, stryder.ErrStryder):
				hlog.FromRequest(r).Error().
					Err(err).
					Uint32("uid", uid).
					Str("stryder_resp", string(stryderRes)).
					Msgf("unexpected stryder error")
				h.m().client_originauth_requests_total.fail_stryder_error.Inc()
				respFail(w, r, http.StatusBadGateway, ErrorCode_STRYDER_RESPONSE.MessageObj())
				return
			default:
				hlog.FromRequest(r).Error().
					Err(err).
					Uint32("uid", uid).
					Str("stryder_resp", string(stryderRes)).
					Msgf("unexpected stryder error")
				h.m().client_originauth_requests_total.fail_stryder_error.Inc()
				respFail(w, r, http.StatusBadGateway, ErrorCode_STRYDER_RESPONSE.MessageObjf("stryder is down: %v", err))
				return
			}
		}
	}

	// note: there's a small chance of a race condition if there are multiple
	// concurrent origin_auth calls, but since we only ever support one session
	// at a time per uid, it's not a big deal which token gets saved

	acct, err := h.AccountStorage.GetAccount(uid)
	if err != nil {
		hlog.FromRequest(r).Error().
			Err(err).
			Uint32("uid", uid).
			Msgf("failed to read account from storage")
		h.m().client_originauth_requests_total.fail_storage_error_account.Inc()
		respFail(w, r, http.StatusInternalServerError, ErrorCode_INTERNAL_SERVER_ERROR.MessageObj())
		return
	}
	if acct == nil {
		acct = &Account{
			UID: uid,
		}
	}

	acct.AuthToken = nsid.New()
	acct.AuthTokenCreated = time.Now()
	acct.AuthIP = raddr.Addr()

	if err := h.AccountStorage.SaveAccount(acct); err != nil {
		hlog.FromRequest(r).Error().
			Err(err).
			Uint32("uid", uid).
			Msgf("failed to save account to storage")
		h.m().client_originauth_requests_total.fail_storage_error_account.Inc()
		respFail(w, r, http.StatusInternalServerError, ErrorCode_INTERNAL_SERVER_ERROR.MessageObj())
		return
	}

	h.m().client_originauth_requests_total.success.Inc()
	respJSON(w, r, http.StatusOK, map[string]any{
		"success": true,
		"token":   acct.AuthToken.String(),
	})
}

func (h *Handler) handleClientAuthWithSelf(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodOptions && r.Method != http.MethodPost {
		h.m().client_authwithself_requests_total.http_method_not_allowed.Inc()
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Cache-Control", "private, no-cache, no-store")
	w.Header().Set("Expires", "0")
	w.Header().Set("Pragma", "no-cache")

	if r.Method == http.MethodOptions {
		w.Header().Set("Allow", "OPTIONS, POST")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	acct, ec := h.lookupAuthedAccount(r)
	if ec != nil {
		switch ec.Code {
		case ErrorCode_BAD_REQUEST:
			h.m().client_authwithself_requests_total.reject_bad_request.Inc()
			respFail(w, r, http.StatusBadRequest, *ec)
		case ErrorCode_PLAYER_NOT_FOUND:
			h.m().client_authwithself_requests_total.reject_player_not_found.Inc()
			respFail(w, r, http.StatusNotFound, *ec)
		case ErrorCode_INVALID_MASTERSERVER_TOKEN:
			h.m().client_authwithself_requests_total.reject_masterserver_token.Inc()
			respFail(w, r, http.StatusUnauthorized, *ec)
		default:
			h.m().client_authwithself_requests_total.fail_storage_error_account.Inc()
			respFail(w, r, http.StatusInternalServerError, *ec)
		}
		return
	}

	pbuf, exists, err := h.AccountStorage.GetPdata(acct.UID)
	if err != nil {
		hlog.FromRequest(r).Error().
			Err(err).
			Uint32("uid", acct.UID).
			Msgf("failed to read pdata from storage")
		h.m().client_authwithself_requests_total.fail_storage_error_pdata.Inc()
		respFail(w, r, http.StatusInternalServerError, ErrorCode_INTERNAL_SERVER_ERROR.MessageObj())
		return
	}
	if !exists {
		pbuf = h.DefaultPdata
	}

	h.m().client_authwithself_requests_total.success.Inc()
	respJSON(w, r, http.StatusOK, map[string]any{
		"success": true,
		"id":      strconv.FormatUint(uint64(acct.UID), 10),
		// the way we encode this is utterly absurd and inefficient, but we
		// need to do it for backwards compatibility
		"persistentData": marshalJSONBytesAsArray(pbuf),
		// this is not used for self-auth, but the launcher requires it to be
		// in the response
		"authToken": nsid.New().String(),
	})
}

func (h *Handler) handleClientAuthWithServer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodOptions && r.Method != http.MethodPost {
		h.m().client_authwithserver_requests_total.http_method_not_allowed.Inc()
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Cache-Control", "private, no-cache, no-store")
	w.Header().Set("Expires", "0")
	w.Header().Set("Pragma", "no-cache")

	if r.Method == http.MethodOptions {
		w.Header().Set("Allow", "OPTIONS, POST")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	acct, ec := h.lookupAuthedAccount(r)
	if ec != nil {
		switch ec.Code {
		case ErrorCode_BAD_REQUEST:
			h.m().client_authwithserver_requests_total.reject_bad_request.Inc()
			respFail(w, r, http.StatusBadRequest, *ec)
		case ErrorCode_PLAYER_NOT_FOUND:
			h.m().client_authwithserver_requests_total.reject_player_not_found.Inc()
			respFail(w, r, http.StatusNotFound, *ec)
		case ErrorCode_INVALID_MASTERSERVER_TOKEN:
			h.m().client_authwithserver_requests_total.reject_masterserver_token.Inc()
			respFail(w, r, http.StatusUnauthorized, *ec)
		default:
			h.m().client_authwithserver_requests_total.fail_storage_error_account.Inc()
			respFail(w, r, http.StatusInternalServerError, *ec)
		}
		return
	}

	var srv *Server
	if v := r.URL.Query().Get("server"); v != "" {
		if sid, err := nsid.Parse(v); err == nil {
			srv = h.ServerList.GetServerByID(sid)
		}
	}
	if srv == nil {
		h.m().client_authwithserver_requests_total.reject_server_not_found.Inc()
		respFail(w, r, http.StatusNotFound, ErrorCode_SERVER_NOT_FOUND.MessageObj())
		return
	}

	// a server without a password accepts anything as the password
	if srv.Password != "" && r.URL.Query().Get("password") != srv.Password {
		h.m().client_authwithserver_requests_total.reject_password.Inc()
		respFail(w, r, http.StatusUnauthorized, ErrorCode_UNAUTHORIZED_PWD.MessageObj())
		return
	}

	pbuf, exists, err := h.AccountStorage.GetPdata(acct.UID)
	if err != nil {
		hlog.FromRequest(r).Error().
			Err(err).
			Uint32("uid", acct.UID).
			Msgf("failed to read pdata from storage")
		h.m().client_authwithserver_requests_total.fail_storage_error_pdata.Inc()
		respFail(w, r, http.StatusInternalServerError, ErrorCode_INTERNAL_SERVER_ERROR.MessageObj())
		return
	}
	if !exists {
		pbuf = h.DefaultPdata
	}

	// game servers truncate the token at 31 chars, so we keep it well short of
	// that
	connToken := nsid.New().String()[:20]

	if err := func() error {
		ctx, cancel := context.WithTimeout(r.Context(), h.gameServerTimeout())
		defer cancel()
		return api0gameserver.AuthenticateIncomingPlayer(ctx, srv.AuthAddr(), acct.UID, acct.Username, connToken, srv.AuthToken.String(), pbuf)
	}(); err != nil {
		if errors.Is(err, api0gameserver.ErrAuthFailed) || errors.Is(err, api0gameserver.ErrInvalidResponse) {
			h.m().client_authwithserver_requests_total.reject_gameserverauth.Inc()
			respFail(w, r, http.StatusBadGateway, ErrorCode_BAD_GAMESERVER_RESPONSE.MessageObj())
			return
		}
		if errors.Is(err, context.DeadlineExceeded) {
			err = errors.New("request timed out")
		}
		h.m().client_authwithserver_requests_total.fail_gameserverauth.Inc()
		respFail(w, r, http.StatusBadGateway, ErrorCode_NO_GAMESERVER_RESPONSE.MessageObjf("failed to connect to auth port: %v", err))
		return
	}

	acct.LastServerID = srv.ID
	if err := h.AccountStorage.SaveAccount(acct); err != nil {
		hlog.FromRequest(r).Error().
			Err(err).
			Uint32("uid", acct.UID).
			Msgf("failed to save account to storage")
		h.m().client_authwithserver_requests_total.fail_storage_error_account.Inc()
		respFail(w, r, http.StatusInternalServerError, ErrorCode_INTERNAL_SERVER_ERROR.MessageObj())
		return
	}

	h.m().client_authwithserver_requests_total.success.Inc()
	respJSON(w, r, http.StatusOK, map[string]any{
		"success":   true,
		"ip":        srv.Addr.String(),
		"port":      srv.GamePort,
		"authToken": connToken,
	})
}

// lookupAuthedAccount reads the id and playerToken params from r and returns
// the matching account with a valid token, or the error to respond with.
func (h *Handler) lookupAuthedAccount(r *http.Request) (*Account, *ErrorObj) {
	uidQ := r.URL.Query().Get("id")
	if uidQ == "" {
		obj := ErrorCode_BAD_REQUEST.MessageObjf("id param is required")
		return nil, &obj
	}
	uid64, err := strconv.ParseUint(uidQ, 10, 32)
	if err != nil {
		obj := ErrorCode_PLAYER_NOT_FOUND.MessageObj()
		return nil, &obj
	}
	uid := uint32(uid64)

	acct, err := h.AccountStorage.GetAccount(uid)
	if err != nil {
		hlog.FromRequest(r).Error().
			Err(err).
			Uint32("uid", uid).
			Msgf("failed to read account from storage")
		obj := ErrorCode_INTERNAL_SERVER_ERROR.MessageObj()
		return nil, &obj
	}
	if acct == nil {
		obj := ErrorCode_PLAYER_NOT_FOUND.MessageObj()
		return nil, &obj
	}

	if !h.InsecureDevNoCheckPlayerAuth {
		tok, err := nsid.Parse(r.URL.Query().Get("playerToken"))
		if err != nil || tok != acct.AuthToken || time.Since(acct.AuthTokenCreated) >= h.tokenExpiryTime() {
			obj := ErrorCode_INVALID_MASTERSERVER_TOKEN.MessageObj()
			return nil, &obj
		}
	}
	return acct, nil
}
