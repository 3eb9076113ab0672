package api0

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/r2northstar/vanguard/pkg/pdata"
	"github.com/rs/zerolog/hlog"
)

func (h *Handler) handlePlayerInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodOptions && r.Method != http.MethodGet && r.Method != http.MethodHead {
		h.m().player_info_requests_total.http_method_not_allowed.Inc()
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	// - cache publicly, allow reusing responses for multiple users
	// - allow reusing responses if server is down
	// - cache for up to 30s
	// - check for updates after 15s
	w.Header().Set("Cache-Control", "public, max-age=15, stale-while-revalidate=15")
	w.Header().Set("Expires", time.Now().UTC().Add(time.Second*30).Format(http.TimeFormat))

	// - allow CORS requests from all origins
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "OPTIONS, GET, HEAD")
	w.Header().Set("Access-Control-Max-Age", "86400")

	if r.Method == http.MethodOptions {
		w.Header().Set("Allow", "OPTIONS, GET, HEAD")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	uidQ := r.URL.Query().Get("id")
	if uidQ == "" {
		h.m().player_info_requests_total.reject_bad_request.Inc()
		respFail(w, r, http.StatusBadRequest, ErrorCode_BAD_REQUEST.MessageObjf("id param is required"))
		return
	}

	uid64, err := strconv.ParseUint(uidQ, 10, 32)
	if err != nil {
		h.m().player_info_requests_total.reject_player_not_found.Inc()
		respFail(w, r, http.StatusNotFound, ErrorCode_PLAYER_NOT_FOUND.MessageObj())
		return
	}
	uid := uint32(uid64)

	acct, err := h.AccountStorage.GetAccount(uid)
	if err != nil {
		hlog.FromRequest(r).Error().
			Err(err).
			Uint32("uid", uid).
			Msgf("failed to read account from storage")
		h.m().player_info_requests_total.fail_storage_error_account.Inc()
		respFail(w, r, http.StatusInternalServerError, ErrorCode_INTERNAL_SERVER_ERROR.MessageObj())
		return
	}
	if acct == nil {
		h.m().player_info_requests_total.reject_player_not_found.Inc()
		respFail(w, r, http.StatusNotFound, ErrorCode_PLAYER_NOT_FOUND.MessageObj())
		return
	}

	buf, exists, err := h.AccountStorage.GetPdata(uid)
	if err != nil {
		hlog.FromRequest(r).Error().
			Err(err).
			Uint32("uid", uid).
			Msgf("failed to read pdata from storage")
		h.m().player_info_requests_total.fail_storage_error_pdata.Inc()
		respFail(w, r, http.StatusInternalServerError, ErrorCode_INTERNAL_SERVER_ERROR.MessageObj())
		return
	}
	if !exists {
		buf = h.DefaultPdata
	}

	// the username is hashed along with the blob since it's in the response
	hash := sha256.Sum256(append([]byte(acct.Username+"\x00"), buf...))
	etag := `W/"` + hex.EncodeToString(hash[:]) + `"`
	w.Header().Set("ETag", etag)
	if strings.Contains(r.Header.Get("If-None-Match"), etag) {
		h.m().player_info_requests_total.success.Inc()
		w.WriteHeader(http.StatusNotModified)
		return
	}

	var pd pdata.Pdata
	if err := pd.UnmarshalBinary(buf); err != nil {
		hlog.FromRequest(r).Warn().
			Err(err).
			Uint32("uid", uid).
			Msgf("failed to parse pdata from storage")
		h.m().player_info_requests_total.fail_pdata_invalid.Inc()
		respFail(w, r, http.StatusInternalServerError, ErrorCode_INTERNAL_SERVER_ERROR.MessageObjf("failed to parse stored pdata"))
		return
	}

	var name any
	if acct.Username != "" {
		name = acct.Username
	}

	h.m().player_info_requests_total.success.Inc()
	respJSON(w, r, http.StatusOK, map[string]any{
		"success":                      true,
		"id":                           acct.UID,
		"name":                         name,
		"gen":                          pd.Gen(),
		"xp":                           pd.XP(),
		"activeCallingCardIndex":       pd.ActiveCallingCardIndex(),
		"activeCallsignIconIndex":      pd.ActiveCallsignIconIndex(),
		"activeCallsignIconStyleIndex": pd.ActiveCallsignIconStyleIndex(),
		"netWorth":                     pd.NetWorth(),
	})
}
