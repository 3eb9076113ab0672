package api0

import (
	"io"
	"net/http"
	"net/netip"
	"strconv"

	"github.com/r2northstar/vanguard/pkg/nsid"
	"github.com/r2northstar/vanguard/pkg/pdata"
	"github.com/rs/zerolog/hlog"
)

func (h *Handler) handleAccountsWritePersistence(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodOptions && r.Method != http.MethodPost {
		h.m().accounts_writepersistence_requests_total.http_method_not_allowed.Inc()
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	// - do not ever cache
	// - do not share between users
	w.Header().Set("Cache-Control", "private, no-cache, no-store, max-age=0, must-revalidate") // equivalent to no-store -- but the rest is a fallback
	w.Header().Set("Expires", "0")
	w.Header().Set("Pragma", "no-cache")

	if r.Method == http.MethodOptions {
		w.Header().Set("Allow", "OPTIONS, POST")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	uidQ := r.URL.Query().Get("id")
	if uidQ == "" {
		h.m().accounts_writepersistence_requests_total.reject_bad_request.Inc()
		respFail(w, r, http.StatusBadRequest, ErrorCode_BAD_REQUEST.MessageObjf("id param is required"))
		return
	}

	uid64, err := strconv.ParseUint(uidQ, 10, 32)
	if err != nil {
		h.m().accounts_writepersistence_requests_total.reject_player_not_found.Inc()
		respFail(w, r, http.StatusNotFound, ErrorCode_PLAYER_NOT_FOUND.MessageObj())
		return
	}
	uid := uint32(uid64)

	// the launcher sends the blob as the first (and only) part of the form
	mr, err := r.MultipartReader()
	if err != nil {
		h.m().accounts_writepersistence_requests_total.reject_bad_request.Inc()
		respFail(w, r, http.StatusBadRequest, ErrorCode_BAD_REQUEST.MessageObjf("failed to parse multipart form: %v", err))
		return
	}
	pf, err := mr.NextPart()
	if err != nil {
		h.m().accounts_writepersistence_requests_total.reject_invalid_pdata.Inc()
		respFail(w, r, http.StatusBadRequest, ErrorCode_INVALID_PERSISTENT_DATA.MessageObjf("missing pdata part"))
		return
	}
	buf, err := io.ReadAll(io.LimitReader(pf, int64(pdata.Size())+1))
	pf.Close()
	if err != nil {
		hlog.FromRequest(r).Error().
			Err(err).
			Msgf("failed to read uploaded pdata")
		h.m().accounts_writepersistence_requests_total.fail_other_error.Inc()
		respFail(w, r, http.StatusInternalServerError, ErrorCode_INTERNAL_SERVER_ERROR.MessageObj())
		return
	}
	if len(buf) != pdata.Size() {
		h.m().accounts_writepersistence_requests_total.reject_invalid_pdata.Inc()
		respFail(w, r, http.StatusBadRequest, ErrorCode_INVALID_PERSISTENT_DATA.MessageObjf("expected %d bytes, got %d", pdata.Size(), len(buf)))
		return
	}

	var pd pdata.Pdata
	if err := pd.UnmarshalBinary(buf); err != nil {
		hlog.FromRequest(r).Warn().
			Err(err).
			Uint32("uid", uid).
			Msgf("invalid pdata rejected")
		h.m().accounts_writepersistence_requests_total.reject_invalid_pdata.Inc()
		respFail(w, r, http.StatusBadRequest, ErrorCode_INVALID_PERSISTENT_DATA.MessageObj())
		return
	}

	raddr, err := netip.ParseAddrPort(r.RemoteAddr)
	if err != nil {
		hlog.FromRequest(r).Error().
			Err(err).
			Msgf("failed to parse remote ip %q", r.RemoteAddr)
		h.m().accounts_writepersistence_requests_total.fail_other_error.Inc()
		respFail(w, r, http.StatusInternalServerError, ErrorCode_INTERNAL_SERVER_ERROR.MessageObj())
		return
	}

	acct, err := h.AccountStorage.GetAccount(uid)
	if err != nil {
		hlog.FromRequest(r).Error().
			Err(err).
			Uint32("uid", uid).
			Msgf("failed to read account from storage")
		h.m().accounts_writepersistence_requests_total.fail_storage_error_account.Inc()
		respFail(w, r, http.StatusInternalServerError, ErrorCode_INTERNAL_SERVER_ERROR.MessageObj())
		return
	}
	if acct == nil {
		h.m().accounts_writepersistence_requests_total.reject_player_not_found.Inc()
		respFail(w, r, http.StatusNotFound, ErrorCode_PLAYER_NOT_FOUND.MessageObj())
		return
	}

	// the write is accepted from the player's own host (i.e., a listen
	// server) or from the dedicated server the player last authed with
	authorized := acct.AuthIP == raddr.Addr()
	if !authorized && !acct.IsOnOwnServer() {
		if sid, err := nsid.Parse(r.URL.Query().Get("serverId")); err == nil && sid == acct.LastServerID {
			if srv := h.ServerList.GetServerByID(sid); srv != nil && srv.Addr == raddr.Addr() {
				authorized = true
			}
		}
	}
	if !authorized {
		h.m().accounts_writepersistence_requests_total.reject_unauthorized.Inc()
		respFail(w, r, http.StatusForbidden, ErrorCode_UNAUTHORIZED_GAMESERVER.MessageObj())
		return
	}

	if n, err := h.AccountStorage.SetPdata(uid, buf); err != nil {
		hlog.FromRequest(r).Error().
			Err(err).
			Uint32("uid", uid).
			Msgf("failed to save pdata")
		h.m().accounts_writepersistence_requests_total.fail_storage_error_pdata.Inc()
		respFail(w, r, http.StatusInternalServerError, ErrorCode_INTERNAL_SERVER_ERROR.MessageObj())
		return
	} else {
		h.m().accounts_writepersistence_stored_size_bytes.Update(float64(n))
	}

	h.m().accounts_writepersistence_requests_total.success.Inc()
	respJSON(w, r, http.StatusOK, map[string]any{
		"success": true,
	})
}
