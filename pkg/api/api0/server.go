package api0

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/netip"
	"strconv"
	"strings"

	"github.com/r2northstar/vanguard/pkg/api/api0/api0gameserver"
	"github.com/r2northstar/vanguard/pkg/nsid"
	"github.com/rs/zerolog/hlog"
)

func (h *Handler) handleServerUpsert(w http.ResponseWriter, r *http.Request) {
	var isCreate bool
	switch r.URL.Path {
	case "/server/add_server":
		isCreate = true
	case "/server/update_values":
	default:
		panic("unhandled path")
	}
	action := strings.TrimPrefix(r.URL.Path, "/server/")

	if r.Method != http.MethodOptions && r.Method != http.MethodPost {
		h.m().server_upsert_requests_total.http_method_not_allowed(action).Inc()
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

	raddr, err := netip.ParseAddrPort(r.RemoteAddr)
	if err != nil {
		hlog.FromRequest(r).Error().
			Err(err).
			Msgf("failed to parse remote ip %q", r.RemoteAddr)
		h.m().server_upsert_requests_total.fail_other_error(action).Inc()
		respFail(w, r, http.StatusInternalServerError, ErrorCode_INTERNAL_SERVER_ERROR.MessageObj())
		return
	}

	q := r.URL.Query()

	if !isCreate {
		v := q.Get("id")
		if v == "" {
			h.m().server_upsert_requests_total.reject_bad_request(action).Inc()
			respFail(w, r, http.StatusBadRequest, ErrorCode_BAD_REQUEST.MessageObjf("id param is required"))
			return
		}
		id, err := nsid.Parse(v)
		if err != nil {
			h.m().server_upsert_requests_total.reject_bad_request(action).Inc()
			respFail(w, r, http.StatusBadRequest, ErrorCode_BAD_REQUEST.MessageObjf("id param is invalid: %v", err))
			return
		}

		u := &ServerUpdate{Heartbeat: true}
		if v := q.Get("name"); v != "" {
			v := limitString(v, 256)
			u.Name = &v
		}
		if v := q.Get("description"); v != "" {
			v := limitString(v, 1024)
			u.Description = &v
		}
		if v := q.Get("map"); v != "" {
			v := limitString(v, 64)
			u.Map = &v
		}
		if v := q.Get("playlist"); v != "" {
			v := limitString(v, 64)
			u.Playlist = &v
		}
		if n, err := strconv.ParseUint(q.Get("playerCount"), 10, 32); err == nil {
			x := int(n)
			u.PlayerCount = &x
		}
		if n, err := strconv.ParseUint(q.Get("maxPlayers"), 10, 32); err == nil {
			x := int(n)
			u.MaxPlayers = &x
		}
		if q.Has("password") {
			// a blank password removes it
			v := q.Get("password")
			if len(v) > 128 {
				h.m().server_upsert_requests_total.reject_bad_request(action).Inc()
				respFail(w, r, http.StatusBadRequest, ErrorCode_BAD_REQUEST.MessageObjf("password is too long"))
				return
			}
			u.Password = &v
		}

		switch err := h.ServerList.UpdateServer(id, raddr.Addr(), u); {
		case err == nil:
			h.m().server_upsert_requests_total.success_updated(action).Inc()
			respJSON(w, r, http.StatusOK, map[string]any{
				"success": true,
				"id":      id.String(),
			})
			return
		case errors.Is(err, ErrServerListWrongIP):
			// don't leak whether the id is valid to other hosts
			hlog.FromRequest(r).Warn().
				Stringer("server_id", id).
				Stringer("remote_ip", raddr.Addr()).
				Msgf("dropping update for server registered to another ip")
			h.m().server_upsert_requests_total.reject_unauthorized_ip(action).Inc()
			respJSON(w, r, http.StatusOK, map[string]any{
				"success": true,
			})
			return
		case errors.Is(err, ErrServerListNotFound):
			// fall through to the create path so a server can re-register
			// after being dropped for inactivity
		default:
			hlog.FromRequest(r).Error().
				Err(err).
				Msgf("failed to update server list")
			h.m().server_upsert_requests_total.fail_serverlist_error(action).Inc()
			respFail(w, r, http.StatusInternalServerError, ErrorCode_INTERNAL_SERVER_ERROR.MessageObj())
			return
		}
	}

	s := &Server{
		Addr:        raddr.Addr(),
		PlayerCount: -1,
	}

	if v := q.Get("port"); v == "" {
		if !isCreate {
			h.m().server_upsert_requests_total.reject_server_not_found(action).Inc()
			respFail(w, r, http.StatusNotFound, ErrorCode_SERVER_NOT_FOUND.MessageObj())
			return
		}
		h.m().server_upsert_requests_total.reject_bad_request(action).Inc()
		respFail(w, r, http.StatusBadRequest, ErrorCode_BAD_REQUEST.MessageObjf("port param is required"))
		return
	} else if n, err := strconv.ParseUint(v, 10, 16); err != nil || n == 0 {
		h.m().server_upsert_requests_total.reject_bad_request(action).Inc()
		respFail(w, r, http.StatusBadRequest, ErrorCode_BAD_REQUEST.MessageObjf("port param is invalid"))
		return
	} else {
		s.GamePort = uint16(n)
	}

	if v := q.Get("authPort"); v == "" {
		if !isCreate {
			h.m().server_upsert_requests_total.reject_server_not_found(action).Inc()
			respFail(w, r, http.StatusNotFound, ErrorCode_SERVER_NOT_FOUND.MessageObj())
			return
		}
		h.m().server_upsert_requests_total.reject_bad_request(action).Inc()
		respFail(w, r, http.StatusBadRequest, ErrorCode_BAD_REQUEST.MessageObjf("authPort param is required"))
		return
	} else if n, err := strconv.ParseUint(v, 10, 16); err != nil || n == 0 {
		h.m().server_upsert_requests_total.reject_bad_request(action).Inc()
		respFail(w, r, http.StatusBadRequest, ErrorCode_BAD_REQUEST.MessageObjf("authPort param is invalid"))
		return
	} else {
		s.AuthPort = uint16(n)
	}

	if v := q.Get("name"); v == "" {
		if !isCreate {
			h.m().server_upsert_requests_total.reject_server_not_found(action).Inc()
			respFail(w, r, http.StatusNotFound, ErrorCode_SERVER_NOT_FOUND.MessageObj())
			return
		}
		h.m().server_upsert_requests_total.reject_bad_request(action).Inc()
		respFail(w, r, http.StatusBadRequest, ErrorCode_BAD_REQUEST.MessageObjf("name param must not be empty"))
		return
	} else {
		s.Name = limitString(v, 256)
	}

	s.Description = limitString(q.Get("description"), 1024)
	s.Map = limitString(q.Get("map"), 64)
	s.Playlist = limitString(q.Get("playlist"), 64)

	if n, err := strconv.ParseUint(q.Get("playerCount"), 10, 32); err == nil {
		s.PlayerCount = int(n)
	}
	if n, err := strconv.ParseUint(q.Get("maxPlayers"), 10, 32); err == nil {
		s.MaxPlayers = int(n)
	}
	if v := q.Get("password"); len(v) > 128 {
		h.m().server_upsert_requests_total.reject_bad_request(action).Inc()
		respFail(w, r, http.StatusBadRequest, ErrorCode_BAD_REQUEST.MessageObjf("password is too long"))
		return
	} else {
		s.Password = v
	}

	if err := r.ParseMultipartForm(1 << 18 /*.25 MB*/); err == nil {
		if mf, mfHdr, err := r.FormFile("modinfo"); err == nil {
			var obj struct {
				Mods []struct {
					Name             string `json:"Name"`
					Version          string `json:"Version"`
					RequiredOnClient bool   `json:"RequiredOnClient"`
				} `json:"Mods"`
			}
			if mfHdr.Size >= 1<<18 {
				mf.Close()
				h.m().server_upsert_requests_total.reject_modinfo(action).Inc()
				respFail(w, r, http.StatusBadRequest, ErrorCode_INVALID_MOD_INFO.MessageObjf("modinfo file is too large"))
				return
			}
			err := json.NewDecoder(mf).Decode(&obj)
			mf.Close()
			if err != nil {
				h.m().server_upsert_requests_total.reject_modinfo(action).Inc()
				respFail(w, r, http.StatusBadRequest, ErrorCode_INVALID_MOD_INFO.MessageObjf("parse modinfo file: %v", err))
				return
			}
			for _, m := range obj.Mods {
				if m.Name != "" {
					if m.Version == "" {
						m.Version = "0.0.0"
					}
					s.ModInfo = append(s.ModInfo, ServerModInfo{
						Name:             m.Name,
						Version:          m.Version,
						RequiredOnClient: m.RequiredOnClient,
					})
				}
			}
		}
	}

	// probe the auth server before registering anything
	if err := func() error {
		ctx, cancel := context.WithTimeout(r.Context(), h.gameServerTimeout())
		defer cancel()
		return api0gameserver.Verify(ctx, s.AuthAddr())
	}(); err != nil {
		if errors.Is(err, api0gameserver.ErrInvalidResponse) {
			h.m().server_upsert_requests_total.reject_verify_authresp(action).Inc()
			respFail(w, r, http.StatusBadGateway, ErrorCode_BAD_GAMESERVER_RESPONSE.MessageObjf("failed to connect to auth port: %v", err))
			return
		}
		if errors.Is(err, context.DeadlineExceeded) {
			err = errors.New("request timed out")
		}
		h.m().server_upsert_requests_total.reject_verify_autherr(action).Inc()
		respFail(w, r, http.StatusBadGateway, ErrorCode_NO_GAMESERVER_RESPONSE.MessageObjf("failed to connect to auth port: %v", err))
		return
	}

	if err := h.ServerList.PushServer(s); err != nil {
		switch {
		case errors.Is(err, ErrServerListHostQuota):
			h.m().server_upsert_requests_total.reject_host_quota(action).Inc()
			respFail(w, r, http.StatusForbidden, ErrorCode_MAX_SERVERS_FOR_IP.MessageObjf("%v", err))
		case errors.Is(err, ErrServerListDuplicateAuthAddr):
			h.m().server_upsert_requests_total.reject_duplicate_auth_addr(action).Inc()
			respFail(w, r, http.StatusForbidden, ErrorCode_DUPLICATE_SERVER.MessageObjf("%v", err))
		default:
			hlog.FromRequest(r).Error().
				Err(err).
				Msgf("failed to update server list")
			h.m().server_upsert_requests_total.fail_serverlist_error(action).Inc()
			respFail(w, r, http.StatusInternalServerError, ErrorCode_INTERNAL_SERVER_ERROR.MessageObj())
		}
		return
	}

	h.m().server_upsert_requests_total.success_created(action).Inc()
	respJSON(w, r, http.StatusOK, map[string]any{
		"success":         true,
		"id":              s.ID.String(),
		"serverAuthToken": s.AuthToken.String(),
	})
}

func (h *Handler) handleServerRemove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodOptions && r.Method != http.MethodDelete {
		h.m().server_remove_requests_total.http_method_not_allowed.Inc()
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Cache-Control", "private, no-cache, no-store")
	w.Header().Set("Expires", "0")
	w.Header().Set("Pragma", "no-cache")

	if r.Method == http.MethodOptions {
		w.Header().Set("Allow", "OPTIONS, DELETE")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	raddr, err := netip.ParseAddrPort(r.RemoteAddr)
	if err != nil {
		hlog.FromRequest(r).Error().
			Err(err).
			Msgf("failed to parse remote ip %q", r.RemoteAddr)
		h.m().server_remove_requests_total.fail_other_error.Inc()
		respFail(w, r, http.StatusInternalServerError, ErrorCode_INTERNAL_SERVER_ERROR.MessageObj())
		return
	}

	v := r.URL.Query().Get("id")
	if v == "" {
		h.m().server_remove_requests_total.reject_bad_request.Inc()
		respFail(w, r, http.StatusBadRequest, ErrorCode_BAD_REQUEST.MessageObjf("id param is required"))
		return
	}
	id, err := nsid.Parse(v)
	if err != nil {
		h.m().server_remove_requests_total.reject_bad_request.Inc()
		respFail(w, r, http.StatusBadRequest, ErrorCode_BAD_REQUEST.MessageObjf("id param is invalid: %v", err))
		return
	}

	// the response doesn't leak whether the id was valid or owned by the host
	switch err := h.ServerList.RemoveServer(id, raddr.Addr()); {
	case err == nil:
		h.m().server_remove_requests_total.success.Inc()
	case errors.Is(err, ErrServerListNotFound):
		h.m().server_remove_requests_total.reject_server_not_found.Inc()
	case errors.Is(err, ErrServerListWrongIP):
		hlog.FromRequest(r).Warn().
			Stringer("server_id", id).
			Stringer("remote_ip", raddr.Addr()).
			Msgf("dropping removal for server registered to another ip")
		h.m().server_remove_requests_total.reject_unauthorized_ip.Inc()
	}
	respJSON(w, r, http.StatusOK, map[string]any{
		"success": true,
	})
}

// limitString truncates s to at most n bytes.
func limitString(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
