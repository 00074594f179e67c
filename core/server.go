package core

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/gliderlabs/ssh"

	"github.com/ImranSah/gosh/core/config"
	"github.com/ImranSah/gosh/core/interp"
	"github.com/ImranSah/gosh/core/logger"
)

// Server exposes the shell over SSH. Every accepted session gets its
// own Shell and session logger; they all share the host filesystem and
// the server process's working directory.
type Server struct {
	cfg       *config.Configuration
	log       *logger.Logger
	sshServer *ssh.Server
}

func NewServer(cfg *config.Configuration, log *logger.Logger) (*Server, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	srv := &Server{cfg: cfg, log: log}
	srv.sshServer = &ssh.Server{
		Addr:            fmt.Sprintf(":%d", cfg.SSH.Port),
		Version:         cfg.SSH.Version,
		Handler:         srv.handle,
		PasswordHandler: srv.passwordHandler,
	}

	pem, err := cfg.PrivateKeyPem()
	if err != nil {
		return nil, fmt.Errorf("loading host key: %w", err)
	}
	if err := srv.sshServer.SetOption(ssh.HostKeyPEM(pem)); err != nil {
		return nil, fmt.Errorf("loading host key: %w", err)
	}

	return srv, nil
}

// passwordHandler checks a password against every candidate for the
// user rather than stopping at the first hit, so timing doesn't leak
// which entry matched.
func (srv *Server) passwordHandler(ctx ssh.Context, password string) bool {
	if srv.cfg.SSH.AllowAnyPassword {
		return true
	}

	ok := false
	for _, candidate := range srv.cfg.GetPasswords(ctx.User()) {
		if subtle.ConstantTimeCompare([]byte(password), []byte(candidate)) == 1 {
			ok = true
		}
	}
	return ok
}

func (srv *Server) handle(s ssh.Session) {
	slog := srv.log.NewSession()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			slog.Record(&logger.Panic{
				Context:    fmt.Sprintf("session from %s: %v", s.RemoteAddr(), r),
				Stacktrace: string(debug.Stack()),
			})
			s.Exit(255)
		}
	}()

	ptyInfo, winch, isPty := s.Pty()
	var width atomic.Int64
	width.Store(int64(ptyInfo.Window.Width))
	go func() {
		for window := range winch {
			width.Store(int64(window.Width))
		}
	}()

	username := s.User()
	env := interp.NewEnvironFrom(s.Environ())
	env.Setenv(EnvUser, username)
	env.Setenv(EnvHome, srv.cfg.GetHome(username))
	env.Setenv(EnvPath, srv.cfg.DefaultPath)
	if ptyInfo.Term != "" {
		env.Setenv("TERM", ptyInfo.Term)
	}

	slog.Record(&logger.SessionStart{
		Username:   username,
		RemoteAddr: s.RemoteAddr().String(),
		Term:       ptyInfo.Term,
		IsPty:      isPty,
		Command:    s.Command(),
	})

	sh, err := NewShell(srv.cfg, ShellOptions{
		Stdin:      s,
		Stdout:     s,
		Stderr:     s.Stderr(),
		Env:        env,
		Log:        slog,
		IsTerminal: func() bool { return isPty },
		Width:      func() int { return int(width.Load()) },
	})
	if err != nil {
		fmt.Fprintf(s.Stderr(), "gosh: %v\n", err)
		s.Exit(1)
		return
	}
	defer sh.Close()

	var status int
	if len(s.Command()) > 0 {
		// A requested command runs once, without prompt or MOTD.
		status = sh.Eval(s.Context(), s.RawCommand())
	} else {
		if motd := srv.cfg.Motd; motd != "" {
			fmt.Fprintln(s, motd)
		}
		status = sh.Run(s.Context())
	}

	slog.Record(&logger.SessionEnd{
		ExitStatus:     status,
		DurationMicros: time.Since(start).Microseconds(),
	})
	s.Exit(status)
}

// Addr reports the address the server listens on.
func (srv *Server) Addr() string {
	return srv.sshServer.Addr
}

func (srv *Server) ListenAndServe() error {
	return srv.sshServer.ListenAndServe()
}

// Serve accepts connections on an existing listener, for callers that
// need to pick the port themselves.
func (srv *Server) Serve(l net.Listener) error {
	return srv.sshServer.Serve(l)
}

func (srv *Server) Shutdown(ctx context.Context) error {
	return srv.sshServer.Shutdown(ctx)
}
