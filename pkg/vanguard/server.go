package vanguard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/r2northstar/vanguard/db/accountdb"
	"github.com/r2northstar/vanguard/pkg/api/api0"
	"github.com/r2northstar/vanguard/pkg/memstore"
	"github.com/r2northstar/vanguard/pkg/pdata"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"golang.org/x/mod/semver"
)

// Server list timing. A server is hidden from the listing freshTime after its
// last heartbeat, and dropped entirely after deadTime.
const (
	serverListFreshTime = time.Second * 60
	serverListDeadTime  = time.Minute * 5
)

type Server struct {
	Logger zerolog.Logger

	Addr          []string
	Handler       http.Handler
	MetricsSecret string
	API0          *api0.Handler

	closed bool
}

// NewServer configures a new server using c, which is assumed to be
// initialized to default or configured values (as done by UnmarshalEnv). It
// will perform any additional config checks as required.
func NewServer(c *Config) (*Server, error) {
	if c.LauncherVersion != "" && !semver.IsValid("v"+strings.TrimPrefix(c.LauncherVersion, "v")) {
		return nil, fmt.Errorf("invalid minimum launcher version semver %q", c.LauncherVersion)
	}

	var s Server
	var success bool

	s.Addr = c.Addr
	s.MetricsSecret = c.MetricsSecret

	if l, err := configureLogging(c); err == nil {
		s.Logger = l
	} else {
		return nil, fmt.Errorf("initialize logging: %w", err)
	}

	defer func() {
		if !success && s.API0 != nil {
			if c, ok := s.API0.AccountStorage.(io.Closer); ok {
				c.Close()
			}
		}
	}()

	var m middlewares
	m.Add(hlog.RequestIDHandler("", "X-Request-Id"))
	m.Add(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		e := s.Logger.Info()
		if rid, ok := hlog.IDFromRequest(r); ok {
			e = e.Stringer("rid", rid)
		}
		e.
			Str("request_ip", r.RemoteAddr).
			Str("request_method", r.Method).
			Stringer("request_uri", r.URL).
			Str("request_user_agent", r.UserAgent()).
			Int("response_status", status).
			Int("response_size", size).
			Dur("response_duration", duration).
			Msg("handle request")
	}))
	m.Add(hlog.NewHandler(s.Logger.With().Str("component", "api0").Logger()))
	m.Add(hlog.RequestIDHandler("rid", ""))

	s.API0 = &api0.Handler{
		ServerList:                   api0.NewServerList(c.MaxServersPerHost, serverListFreshTime, serverListDeadTime),
		MinimumLauncherVersion:       c.LauncherVersion,
		GameServerTimeout:            c.GameServerTimeout,
		InsecureDevNoCheckPlayerAuth: c.InsecureDevNoCheckPlayerAuth,
	}

	s.API0.NotFound = new(middlewares).
		Add(hlog.NewHandler(s.Logger)).
		Add(hlog.RequestIDHandler("rid", "")).
		Then(http.HandlerFunc(s.serveRest))

	if astore, err := configureAccountStorage(c); err == nil {
		s.API0.AccountStorage = astore
	} else {
		return nil, fmt.Errorf("initialize account storage: %w", err)
	}
	if buf, err := configureDefaultPdata(c); err == nil {
		s.API0.DefaultPdata = buf
	} else {
		return nil, fmt.Errorf("initialize default pdata: %w", err)
	}
	if mmp, err := configureMainMenuPromos(c); err == nil {
		s.API0.MainMenuPromos = mmp
	} else {
		return nil, fmt.Errorf("initialize main menu promos: %w", err)
	}

	s.Handler = m.Then(s.API0)

	success = true
	return &s, nil
}

func configureLogging(c *Config) (l zerolog.Logger, err error) {
	var outputs []io.Writer
	if c.LogPretty {
		outputs = append(outputs, zerolog.ConsoleWriter{
			Out: os.Stdout,
		})
	} else {
		outputs = append(outputs, os.Stdout)
	}
	if fn := c.LogFile; fn != "" {
		f, err1 := os.OpenFile(fn, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err1 != nil {
			err = fmt.Errorf("open log file: %w", err1)
			return
		}
		outputs = append(outputs, newZerologWriterLevel(f, c.LogFileLevel))
	}
	l = zerolog.New(zerolog.MultiLevelWriter(outputs...)).
		Level(c.LogLevel).
		With().
		Timestamp().
		Logger()
	return
}

func configureAccountStorage(c *Config) (api0.AccountStorage, error) {
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	typ, arg, _ := strings.Cut(c.DatabaseURL, ":")
	switch typ {
	case "memory":
		switch arg {
		case "":
			return memstore.NewAccountStore(false), nil
		case "compress":
			return memstore.NewAccountStore(true), nil
		default:
			return nil, fmt.Errorf("memory: invalid argument %q", arg)
		}
	default:
		// a plain path is treated as sqlite
		if typ != "sqlite" && typ != "sqlite3" {
			arg = c.DatabaseURL
		}
		p, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("sqlite: resolve %q: %w", arg, err)
		}
		s, err := accountdb.Open(p)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		if cur, to, err := s.Version(); err != nil {
			return nil, fmt.Errorf("sqlite: migrate: %w", err)
		} else if cur > to {
			return nil, fmt.Errorf("sqlite: migrate: database version %d is too new", cur)
		} else if cur != to {
			if err := s.MigrateUp(context.Background(), to); err != nil {
				return nil, fmt.Errorf("sqlite: migrate (%d to %d): %w", cur, to, err)
			}
		}
		return s, nil
	}
}

func configureDefaultPdata(c *Config) ([]byte, error) {
	buf, err := os.ReadFile(c.DefaultPdata)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", c.DefaultPdata, err)
	}
	var pd pdata.Pdata
	if err := pd.UnmarshalBinary(buf); err != nil {
		return nil, fmt.Errorf("parse %q: %w", c.DefaultPdata, err)
	}
	return buf, nil
}

func configureMainMenuPromos(c *Config) (func(*http.Request) ([]byte, error), error) {
	if c.PromosFile == "" {
		return nil, nil
	}
	p, err := filepath.Abs(c.PromosFile)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", c.PromosFile, err)
	}
	// the file is read per-request so it can be updated without a restart;
	// read errors (including a missing file) surface on the endpoint itself
	return func(*http.Request) ([]byte, error) {
		buf, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		if !json.Valid(buf) {
			return nil, fmt.Errorf("invalid promos json in %q", p)
		}
		return buf, nil
	}, nil
}

// Run runs the server, shutting it down gracefully when ctx is canceled, then
// waiting indefinitely for it to exit. It must only ever be called once, and
// the server is useless afterwards.
func (s *Server) Run(ctx context.Context) error {
	if s.closed {
		return http.ErrServerClosed
	}

	go func() {
		tk := time.NewTicker(time.Minute)
		defer tk.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-tk.C:
				if n := s.API0.ServerList.RemoveInactive(); n != 0 {
					s.Logger.Debug().Int("count", n).Msg("removed inactive servers")
				}
			}
		}
	}()

	var hs []*http.Server
	var as []string
	for _, a := range s.Addr {
		hs = append(hs, &http.Server{
			Addr:    a,
			Handler: s.Handler,
		})
		as = append(as, "http://"+a)
	}
	if len(hs) == 0 {
		return fmt.Errorf("no listen addresses provided")
	}
	s.Logger.Log().Msgf("starting server on %s", strings.Join(as, ", "))

	errch := make(chan error, len(hs))
	for _, h := range hs {
		h := h
		go func() {
			errch <- h.ListenAndServe()
		}()
	}

	select {
	case <-ctx.Done():
	case err := <-errch:
		s.Logger.Err(err).Msg("failed to start server")
		return err
	}

	s.closed = true
	s.Logger.Log().Msg("shutting down")

	var wg sync.WaitGroup
	for _, h := range hs {
		h := h
		wg.Add(1)
		go func() {
			h.Shutdown(context.Background())
			wg.Done()
		}()
	}
	wg.Wait()

	if c, ok := s.API0.AccountStorage.(io.Closer); ok {
		c.Close()
	}
	return nil
}

// serveRest handles endpoints not handled by the API.
func (s *Server) serveRest(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/metrics" {
		var internal bool
		if s := s.MetricsSecret; s != "" {
			if r.URL.Query().Get("secret") == s {
				internal = true
			}
		}

		var ms []func(io.Writer)
		if internal {
			ms = append(ms, metrics.WriteProcessMetrics)
			ms = append(ms, s.API0.WritePrometheus)
		}
		ms = append(ms, s.API0.ServerList.WritePrometheus)

		var b bytes.Buffer
		for i, m := range ms {
			if i != 0 {
				b.WriteByte('\n')
			}
			m(&b)
		}

		w.Header().Set("Cache-Control", "private, no-cache, no-store")
		w.Header().Set("Expires", "0")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		w.Header().Set("Content-Length", strconv.Itoa(b.Len()))
		w.WriteHeader(http.StatusOK)
		b.WriteTo(w)
		return
	}

	w.Header().Set("Cache-Control", "private, no-cache, no-store")
	w.Header().Set("Expires", "0")
	w.Header().Set("Pragma", "no-cache")

	if r.URL.Path == "/" {
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, "Go away.\n")
		return
	}

	http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
}
