package api0

import (
	"fmt"
	"io"
	"reflect"

	"github.com/VictoriaMetrics/metrics"
)

// note: for results, fail_ prefix is for errors which are likely a problem with the backend, and reject_ are for client errors

type apiMetrics struct {
	set                      *metrics.Set
	request_panics_total     *metrics.Counter
	versiongate_checks_total struct {
		success_ok     *metrics.Counter
		success_dev    *metrics.Counter
		reject_old     *metrics.Counter
		reject_invalid *metrics.Counter
		reject_notns   *metrics.Counter
	}
	client_mainmenupromos_requests_total struct {
		success                 *metrics.Counter
		fail_other_error        *metrics.Counter
		http_method_not_allowed *metrics.Counter
	}
	client_servers_requests_total struct {
		success                 *metrics.Counter
		http_method_not_allowed *metrics.Counter
	}
	client_originauth_requests_total struct {
		success                    *metrics.Counter
		reject_bad_request         *metrics.Counter
		reject_player_not_found    *metrics.Counter
		reject_stryder             *metrics.Counter
		fail_stryder_error         *metrics.Counter
		fail_storage_error_account *metrics.Counter
		fail_other_error           *metrics.Counter
		http_method_not_allowed    *metrics.Counter
	}
	client_authwithself_requests_total struct {
		success                    *metrics.Counter
		reject_bad_request         *metrics.Counter
		reject_player_not_found    *metrics.Counter
		reject_masterserver_token  *metrics.Counter
		fail_storage_error_account *metrics.Counter
		fail_storage_error_pdata   *metrics.Counter
		http_method_not_allowed    *metrics.Counter
	}
	client_authwithserver_requests_total struct {
		success                    *metrics.Counter
		reject_bad_request         *metrics.Counter
		reject_player_not_found    *metrics.Counter
		reject_masterserver_token  *metrics.Counter
		reject_server_not_found    *metrics.Counter
		reject_password            *metrics.Counter
		reject_gameserverauth      *metrics.Counter
		fail_gameserverauth        *metrics.Counter
		fail_storage_error_account *metrics.Counter
		fail_storage_error_pdata   *metrics.Counter
		http_method_not_allowed    *metrics.Counter
	}
	server_upsert_requests_total struct {
		success_created            func(action string) *metrics.Counter
		success_updated            func(action string) *metrics.Counter
		reject_bad_request         func(action string) *metrics.Counter
		reject_unauthorized_ip     func(action string) *metrics.Counter
		reject_server_not_found    func(action string) *metrics.Counter
		reject_duplicate_auth_addr func(action string) *metrics.Counter
		reject_host_quota          func(action string) *metrics.Counter
		reject_modinfo             func(action string) *metrics.Counter
		reject_verify_authresp     func(action string) *metrics.Counter
		reject_verify_autherr      func(action string) *metrics.Counter
		fail_serverlist_error      func(action string) *metrics.Counter
		fail_other_error           func(action string) *metrics.Counter
		http_method_not_allowed    func(action string) *metrics.Counter
	}
	server_remove_requests_total struct {
		success                 *metrics.Counter
		reject_bad_request      *metrics.Counter
		reject_unauthorized_ip  *metrics.Counter
		reject_server_not_found *metrics.Counter
		fail_other_error        *metrics.Counter
		http_method_not_allowed *metrics.Counter
	}
	accounts_writepersistence_stored_size_bytes *metrics.Histogram // only includes successful updates
	accounts_writepersistence_requests_total    struct {
		success                    *metrics.Counter
		reject_bad_request         *metrics.Counter
		reject_invalid_pdata       *metrics.Counter
		reject_player_not_found    *metrics.Counter
		reject_unauthorized        *metrics.Counter
		fail_storage_error_account *metrics.Counter
		fail_storage_error_pdata   *metrics.Counter
		fail_other_error           *metrics.Counter
		http_method_not_allowed    *metrics.Counter
	}
	player_info_requests_total struct {
		success                    *metrics.Counter
		reject_bad_request         *metrics.Counter
		reject_player_not_found    *metrics.Counter
		fail_storage_error_account *metrics.Counter
		fail_storage_error_pdata   *metrics.Counter
		fail_pdata_invalid         *metrics.Counter
		http_method_not_allowed    *metrics.Counter
	}
}

func (h *Handler) Metrics() *metrics.Set {
	return h.m().set
}

func (h *Handler) WritePrometheus(w io.Writer) {
	h.m().set.WritePrometheus(w)
}

// m gets metrics objects for h.
//
// We use it instead of using a *metrics.Set directly because:
//   - It means we don't need to keep checking if a set is nil.
//   - It means we don't have the overhead of checking/creating each individual metric during requests.
//   - It makes typos less likely.
//   - It means that metrics still get included in the output instead of being undefined even if they start at zero.
func (h *Handler) m() *apiMetrics {
	h.metricsInit.Do(func() {
		mo := &h.metricsObj
		mo.set = metrics.NewSet()
		mo.request_panics_total = mo.set.NewCounter(`vanguard_api0_request_panics_total`)
		mo.versiongate_checks_total.success_ok = mo.set.NewCounter(`vanguard_api0_versiongate_checks_total{result="success_ok"}`)
		mo.versiongate_checks_total.success_dev = mo.set.NewCounter(`vanguard_api0_versiongate_checks_total{result="success_dev"}`)
		mo.versiongate_checks_total.reject_old = mo.set.NewCounter(`vanguard_api0_versiongate_checks_total{result="reject_old"}`)
		mo.versiongate_checks_total.reject_invalid = mo.set.NewCounter(`vanguard_api0_versiongate_checks_total{result="reject_invalid"}`)
		mo.versiongate_checks_total.reject_notns = mo.set.NewCounter(`vanguard_api0_versiongate_checks_total{result="reject_notns"}`)
		mo.client_mainmenupromos_requests_total.success = mo.set.NewCounter(`vanguard_api0_client_mainmenupromos_requests_total{result="success"}`)
		mo.client_mainmenupromos_requests_total.fail_other_error = mo.set.NewCounter(`vanguard_api0_client_mainmenupromos_requests_total{result="fail_other_error"}`)
		mo.client_mainmenupromos_requests_total.http_method_not_allowed = mo.set.NewCounter(`vanguard_api0_client_mainmenupromos_requests_total{result="http_method_not_allowed"}`)
		mo.client_servers_requests_total.success = mo.set.NewCounter(`vanguard_api0_client_servers_requests_total{result="success"}`)
		mo.client_servers_requests_total.http_method_not_allowed = mo.set.NewCounter(`vanguard_api0_client_servers_requests_total{result="http_method_not_allowed"}`)
		mo.client_originauth_requests_total.success = mo.set.NewCounter(`vanguard_api0_client_originauth_requests_total{result="success"}`)
		mo.client_originauth_requests_total.reject_bad_request = mo.set.NewCounter(`vanguard_api0_client_originauth_requests_total{result="reject_bad_request"}`)
		mo.client_originauth_requests_total.reject_player_not_found = mo.set.NewCounter(`vanguard_api0_client_originauth_requests_total{result="reject_player_not_found"}`)
		mo.client_originauth_requests_total.reject_stryder = mo.set.NewCounter(`vanguard_api0_client_originauth_requests_total{result="reject_stryder"}`)
		mo.client_originauth_requests_total.fail_stryder_error = mo.set.NewCounter(`vanguard_api0_client_originauth_requests_total{result="fail_stryder_error"}`)
		mo.client_originauth_requests_total.fail_storage_error_account = mo.set.NewCounter(`vanguard_api0_client_originauth_requests_total{result="fail_storage_error_account"}`)
		mo.client_originauth_requests_total.fail_other_error = mo.set.NewCounter(`vanguard_api0_client_originauth_requests_total{result="fail_other_error"}`)
		mo.client_originauth_requests_total.http_method_not_allowed = mo.set.NewCounter(`vanguard_api0_client_originauth_requests_total{result="http_method_not_allowed"}`)
		mo.client_authwithself_requests_total.success = mo.set.NewCounter(`vanguard_api0_client_authwithself_requests_total{result="success"}`)
		mo.client_authwithself_requests_total.reject_bad_request = mo.set.NewCounter(`vanguard_api0_client_authwithself_requests_total{result="reject_bad_request"}`)
		mo.client_authwithself_requests_total.reject_player_not_found = mo.set.NewCounter(`vanguard_api0_client_authwithself_requests_total{result="reject_player_not_found"}`)
		mo.client_authwithself_requests_total.reject_masterserver_token = mo.set.NewCounter(`vanguard_api0_client_authwithself_requests_total{result="reject_masterserver_token"}`)
		mo.client_authwithself_requests_total.fail_storage_error_account = mo.set.NewCounter(`vanguard_api0_client_authwithself_requests_total{result="fail_storage_error_account"}`)
		mo.client_authwithself_requests_total.fail_storage_error_pdata = mo.set.NewCounter(`vanguard_api0_client_authwithself_requests_total{result="fail_storage_error_pdata"}`)
		mo.client_authwithself_requests_total.http_method_not_allowed = mo.set.NewCounter(`vanguard_api0_client_authwithself_requests_total{result="http_method_not_allowed"}`)
		mo.client_authwithserver_requests_total.success = mo.set.NewCounter(`vanguard_api0_client_authwithserver_requests_total{result="success"}`)
		mo.client_authwithserver_requests_total.reject_bad_request = mo.set.NewCounter(`vanguard_api0_client_authwithserver_requests_total{result="reject_bad_request"}`)
		mo.client_authwithserver_requests_total.reject_player_not_found = mo.set.NewCounter(`vanguard_api0_client_authwithserver_requests_total{result="reject_player_not_found"}`)
		mo.client_authwithserver_requests_total.reject_masterserver_token = mo.set.NewCounter(`vanguard_api0_client_authwithserver_requests_total{result="reject_masterserver_token"}`)
		mo.client_authwithserver_requests_total.reject_server_not_found = mo.set.NewCounter(`vanguard_api0_client_authwithserver_requests_total{result="reject_server_not_found"}`)
		mo.client_authwithserver_requests_total.reject_password = mo.set.NewCounter(`vanguard_api0_client_authwithserver_requests_total{result="reject_password"}`)
		mo.client_authwithserver_requests_total.reject_gameserverauth = mo.set.NewCounter(`vanguard_api0_client_authwithserver_requests_total{result="reject_gameserverauth"}`)
		mo.client_authwithserver_requests_total.fail_gameserverauth = mo.set.NewCounter(`vanguard_api0_client_authwithserver_requests_total{result="fail_gameserverauth"}`)
		mo.client_authwithserver_requests_total.fail_storage_error_account = mo.set.NewCounter(`vanguard_api0_client_authwithserver_requests_total{result="fail_storage_error_account"}`)
		mo.client_authwithserver_requests_total.fail_storage_error_pdata = mo.set.NewCounter(`vanguard_api0_client_authwithserver_requests_total{result="fail_storage_error_pdata"}`)
		mo.client_authwithserver_requests_total.http_method_not_allowed = mo.set.NewCounter(`vanguard_api0_client_authwithserver_requests_total{result="http_method_not_allowed"}`)
		actionCounter := func(result string) func(action string) *metrics.Counter {
			return func(action string) *metrics.Counter {
				if action == "" {
					panic("invalid action")
				}
				return mo.set.GetOrCreateCounter(`vanguard_api0_server_upsert_requests_total{action="` + action + `",result="` + result + `"}`)
			}
		}
		mo.server_upsert_requests_total.success_created = actionCounter("success_created")
		mo.server_upsert_requests_total.success_updated = actionCounter("success_updated")
		mo.server_upsert_requests_total.reject_bad_request = actionCounter("reject_bad_request")
		mo.server_upsert_requests_total.reject_unauthorized_ip = actionCounter("reject_unauthorized_ip")
		mo.server_upsert_requests_total.reject_server_not_found = actionCounter("reject_server_not_found")
		mo.server_upsert_requests_total.reject_duplicate_auth_addr = actionCounter("reject_duplicate_auth_addr")
		mo.server_upsert_requests_total.reject_host_quota = actionCounter("reject_host_quota")
		mo.server_upsert_requests_total.reject_modinfo = actionCounter("reject_modinfo")
		mo.server_upsert_requests_total.reject_verify_authresp = actionCounter("reject_verify_authresp")
		mo.server_upsert_requests_total.reject_verify_autherr = actionCounter("reject_verify_autherr")
		mo.server_upsert_requests_total.fail_serverlist_error = actionCounter("fail_serverlist_error")
		mo.server_upsert_requests_total.fail_other_error = actionCounter("fail_other_error")
		mo.server_upsert_requests_total.http_method_not_allowed = actionCounter("http_method_not_allowed")
		for _, action := range []string{"add_server", "update_values"} {
			mo.server_upsert_requests_total.success_created(action)
			mo.server_upsert_requests_total.success_updated(action)
			mo.server_upsert_requests_total.reject_bad_request(action)
			mo.server_upsert_requests_total.reject_unauthorized_ip(action)
			mo.server_upsert_requests_total.reject_server_not_found(action)
			mo.server_upsert_requests_total.reject_duplicate_auth_addr(action)
			mo.server_upsert_requests_total.reject_host_quota(action)
			mo.server_upsert_requests_total.reject_modinfo(action)
			mo.server_upsert_requests_total.reject_verify_authresp(action)
			mo.server_upsert_requests_total.reject_verify_autherr(action)
			mo.server_upsert_requests_total.fail_serverlist_error(action)
			mo.server_upsert_requests_total.fail_other_error(action)
			mo.server_upsert_requests_total.http_method_not_allowed(action)
		}
		mo.server_remove_requests_total.success = mo.set.NewCounter(`vanguard_api0_server_remove_requests_total{result="success"}`)
		mo.server_remove_requests_total.reject_bad_request = mo.set.NewCounter(`vanguard_api0_server_remove_requests_total{result="reject_bad_request"}`)
		mo.server_remove_requests_total.reject_unauthorized_ip = mo.set.NewCounter(`vanguard_api0_server_remove_requests_total{result="reject_unauthorized_ip"}`)
		mo.server_remove_requests_total.reject_server_not_found = mo.set.NewCounter(`vanguard_api0_server_remove_requests_total{result="reject_server_not_found"}`)
		mo.server_remove_requests_total.fail_other_error = mo.set.NewCounter(`vanguard_api0_server_remove_requests_total{result="fail_other_error"}`)
		mo.server_remove_requests_total.http_method_not_allowed = mo.set.NewCounter(`vanguard_api0_server_remove_requests_total{result="http_method_not_allowed"}`)
		mo.accounts_writepersistence_stored_size_bytes = mo.set.NewHistogram(`vanguard_api0_accounts_writepersistence_stored_size_bytes`)
		mo.accounts_writepersistence_requests_total.success = mo.set.NewCounter(`vanguard_api0_accounts_writepersistence_requests_total{result="success"}`)
		mo.accounts_writepersistence_requests_total.reject_bad_request = mo.set.NewCounter(`vanguard_api0_accounts_writepersistence_requests_total{result="reject_bad_request"}`)
		mo.accounts_writepersistence_requests_total.reject_invalid_pdata = mo.set.NewCounter(`vanguard_api0_accounts_writepersistence_requests_total{result="reject_invalid_pdata"}`)
		mo.accounts_writepersistence_requests_total.reject_player_not_found = mo.set.NewCounter(`vanguard_api0_accounts_writepersistence_requests_total{result="reject_player_not_found"}`)
		mo.accounts_writepersistence_requests_total.reject_unauthorized = mo.set.NewCounter(`vanguard_api0_accounts_writepersistence_requests_total{result="reject_unauthorized"}`)
		mo.accounts_writepersistence_requests_total.fail_storage_error_account = mo.set.NewCounter(`vanguard_api0_accounts_writepersistence_requests_total{result="fail_storage_error_account"}`)
		mo.accounts_writepersistence_requests_total.fail_storage_error_pdata = mo.set.NewCounter(`vanguard_api0_accounts_writepersistence_requests_total{result="fail_storage_error_pdata"}`)
		mo.accounts_writepersistence_requests_total.fail_other_error = mo.set.NewCounter(`vanguard_api0_accounts_writepersistence_requests_total{result="fail_other_error"}`)
		mo.accounts_writepersistence_requests_total.http_method_not_allowed = mo.set.NewCounter(`vanguard_api0_accounts_writepersistence_requests_total{result="http_method_not_allowed"}`)
		mo.player_info_requests_total.success = mo.set.NewCounter(`vanguard_api0_player_info_requests_total{result="success"}`)
		mo.player_info_requests_total.reject_bad_request = mo.set.NewCounter(`vanguard_api0_player_info_requests_total{result="reject_bad_request"}`)
		mo.player_info_requests_total.reject_player_not_found = mo.set.NewCounter(`vanguard_api0_player_info_requests_total{result="reject_player_not_found"}`)
		mo.player_info_requests_total.fail_storage_error_account = mo.set.NewCounter(`vanguard_api0_player_info_requests_total{result="fail_storage_error_account"}`)
		mo.player_info_requests_total.fail_storage_error_pdata = mo.set.NewCounter(`vanguard_api0_player_info_requests_total{result="fail_storage_error_pdata"}`)
		mo.player_info_requests_total.fail_pdata_invalid = mo.set.NewCounter(`vanguard_api0_player_info_requests_total{result="fail_pdata_invalid"}`)
		mo.player_info_requests_total.http_method_not_allowed = mo.set.NewCounter(`vanguard_api0_player_info_requests_total{result="http_method_not_allowed"}`)
	})

	// ensure we initialized everything
	var chk func(v reflect.Value, name string)
	chk = func(v reflect.Value, name string) {
		switch v.Kind() {
		case reflect.Struct:
			for i := 0; i < v.NumField(); i++ {
				chk(v.Field(i), name+"."+v.Type().Field(i).Name)
			}
		case reflect.Pointer, reflect.Func:
			if v.IsNil() {
				panic(fmt.Errorf("check metrics: unexpected nil %q", name))
			}
		default:
			panic(fmt.Errorf("check metrics: unexpected kind %s", v.Kind()))
		}
	}
	chk(reflect.ValueOf(h.metricsObj), "metricsObj")

	return &h.metricsObj
}
