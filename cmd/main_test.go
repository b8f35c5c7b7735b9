package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/guttosm/sharepeak/config"
	"github.com/guttosm/sharepeak/internal/domain/errs"
	"github.com/guttosm/sharepeak/internal/ingestion"
)

type dummyHandler struct{}

func (d dummyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

func TestStartServerAndShutdown(t *testing.T) {
	srv := startServer(dummyHandler{}, "0") // random port
	if srv == nil {
		t.Fatalf("expected server")
	}

	// Give server a moment to start
	time.Sleep(50 * time.Millisecond)

	// Shutdown quickly with short timeout and no-op cleanup
	_, cancel := context.WithCancel(context.Background())
	go func() {
		// trigger gracefulShutdown select by simulating signal via closing after a brief delay
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	// We cannot send OS signals easily here; instead, directly call Shutdown to simulate graceful flow.
	// Verify it doesn't panic and completes.
	shutdownCtx, c := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer c()
	if err := srv.Shutdown(shutdownCtx); err != nil && err != http.ErrServerClosed {
		t.Fatalf("shutdown err: %v", err)
	}
}

func TestGracefulShutdown_SignalPath(t *testing.T) {
	// Use a server that responds immediately
	srv := startServer(dummyHandler{}, "0")

	cleaned := make(chan struct{}, 1)
	go func() {
		ctx := context.Background()
		gracefulShutdown(ctx, srv, func() { close(cleaned) })
	}()

	// Give the goroutine time to set up signal notifications
	time.Sleep(50 * time.Millisecond)

	// Send SIGTERM to current process
	p, _ := os.FindProcess(os.Getpid())
	_ = p.Signal(syscall.SIGTERM)

	select {
	case <-cleaned:
		// success
	case <-time.After(2 * time.Second):
		t.Fatalf("cleanup not called after SIGTERM")
	}
}

func TestParseFlags(t *testing.T) {
	cfg := config.Config{
		Server: config.ServerConfig{Port: "8080"},
		Shares: config.SharesConfig{Dir: "./data/input", Parallel: 2},
	}

	cases := []struct {
		name    string
		args    []string
		want    cliOptions
		wantErr bool
	}{
		{
			name: "report short flag",
			args: []string{"-f", "shares.csv"},
			want: cliOptions{mode: "report", filePath: "shares.csv", dir: "./data/input", parallel: 2, port: "8080"},
		},
		{
			name: "ingest overrides",
			args: []string{"--mode", "ingest", "--dir", "/tmp/in", "--parallel", "6", "--force"},
			want: cliOptions{mode: "ingest", dir: "/tmp/in", parallel: 6, force: true, port: "8080"},
		},
		{
			name: "api port",
			args: []string{"--mode=api", "--port=9090"},
			want: cliOptions{mode: "api", dir: "./data/input", parallel: 2, port: "9090"},
		},
		{name: "report without file", args: nil, wantErr: true},
		{name: "unknown mode", args: []string{"--mode", "serve"}, wantErr: true},
		{name: "unknown flag", args: []string{"--days", "7"}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseFlags(tc.args, cfg)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if !tc.wantErr && got != tc.want {
				t.Fatalf("want %+v got %+v", tc.want, got)
			}
		})
	}
}

func TestRunReport(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
		return p
	}

	good := write("shares.csv", "Year,Month,Acme,Globex\n2020,Jan,100,50\n2020,Feb,150,50\n2020,Mar,150,75\n")
	semi := write("semi.csv", "Year;Month;Acme\n2019;Dec;12.5\n")
	bad := write("bad.csv", "Year,Month,Acme,Globex\n2020,Jan,100,50\n2020,Feb,150\n")

	cases := []struct {
		name     string
		path     string
		opts     []ingestion.Option
		want     string
		wantKind error
	}{
		{
			name: "table",
			path: good,
			want: "\nCompany Name\tYear\tMonth\tMax. Price\n\nAcme\t2020\tFeb\t150\nGlobex\t2020\tMar\t75\n",
		},
		{
			name: "custom delimiter",
			path: semi,
			opts: []ingestion.Option{ingestion.WithComma(';')},
			want: "\nCompany Name\tYear\tMonth\tMax. Price\n\nAcme\t2019\tDec\t12.5\n",
		},
		{name: "short row", path: bad, wantKind: errs.ErrRowShape},
		{name: "missing file", path: filepath.Join(dir, "nope.csv"), wantKind: errs.ErrSourceUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			err := runReport(context.Background(), tc.path, &out, tc.opts...)
			if tc.wantKind != nil {
				if !errors.Is(err, tc.wantKind) {
					t.Fatalf("want %v got %v", tc.wantKind, err)
				}
				if out.Len() != 0 {
					t.Fatalf("no partial report expected, got %q", out.String())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if out.String() != tc.want {
				t.Fatalf("want %q got %q", tc.want, out.String())
			}
		})
	}
}
