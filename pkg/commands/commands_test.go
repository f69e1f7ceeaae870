package commands

import (
	"bytes"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/slotboard/pkg/config"
	"tableflip.dev/slotboard/pkg/schedule"
)

const validPayload = `{"version":1,"savedAt":"2026-10-15T12:30:00.000Z","rows":[[{"start":0,"end":3,"title":"Standup"},{"start":8,"end":11,"title":"Review"}],[],[],[],[]]}`

// withStore points every command at a fresh store under a temp dir and
// captures what the commands print.
func withStore(t *testing.T) (string, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(config.EnvConfigPath, dir)
	t.Setenv("SLOTBOARD_PATH", filepath.Join(dir, "db"))
	t.Setenv("SLOTBOARD_EXPORT_DIR", filepath.Join(dir, "exports"))
	t.Setenv("SLOTBOARD_LOG_LEVEL", "error")

	var buf bytes.Buffer
	saved := color.Output
	color.Output = &buf
	t.Cleanup(func() { color.Output = saved })
	return dir, &buf
}

func run(t *testing.T, stderr *bytes.Buffer, args ...string) error {
	t.Helper()
	root := New()
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	if stderr == nil {
		stderr = &bytes.Buffer{}
	}
	root.SetErr(stderr)
	return root.Execute()
}

func corrupt(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(dir, "db"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "db", "schedule.json"), []byte(`{"version":1,"rows":"nope"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestListenURL(t *testing.T) {
	cases := map[string]struct {
		host string
		addr net.Addr
		tls  bool
		want string
	}{
		"loopback": {
			host: "127.0.0.1",
			addr: &net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: 8080},
			want: "http://127.0.0.1:8080/mcp",
		},
		"wildcard": {
			host: "0.0.0.0",
			addr: &net.TCPAddr{IP: net.IPv4zero, Port: 9000},
			want: "http://127.0.0.1:9000/mcp",
		},
		"ipv6 with tls": {
			host: "::1",
			addr: &net.TCPAddr{IP: net.ParseIP("::1"), Port: 443},
			tls:  true,
			want: "https://[::1]:443/mcp",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := listenURL(tc.host, tc.addr, "/mcp", tc.tls); got != tc.want {
				t.Fatalf("listenURL = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCommandTree(t *testing.T) {
	root := New()
	for _, name := range []string{"ui", "show", "add", "rm", "clear", "export", "import", "validate", "info", "version", "mcp", "completion"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			t.Fatalf("missing command %q: %v", name, err)
		}
	}
}

func TestAddAndRemove(t *testing.T) {
	_, out := withStore(t)

	if err := run(t, nil, "add", "--row", "0", "--start", "4", "--end", "9", "Standup"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if out.String() != "Added 10:00-11:30\n" {
		t.Fatalf("unexpected add output %q", out.String())
	}

	err := run(t, nil, "add", "-r", "0", "-s", "8", "-e", "12", "Clash")
	if !errors.Is(err, schedule.ErrOverlap) {
		t.Fatalf("expected ErrOverlap, got %v", err)
	}
	if err := run(t, nil, "add", "-r", "0", "-s", "8", "-e", "12"); err == nil {
		t.Fatalf("expected a missing title to fail")
	}

	out.Reset()
	if err := run(t, nil, "rm", "--row", "0", "--index", "0"); err != nil {
		t.Fatalf("rm: %v", err)
	}
	if out.String() != "Deleted \"Standup\"\n" {
		t.Fatalf("unexpected rm output %q", out.String())
	}
	if err := run(t, nil, "rm", "--row", "0", "--index", "0"); !errors.Is(err, schedule.ErrNoSuchEvent) {
		t.Fatalf("expected ErrNoSuchEvent, got %v", err)
	}
}

func TestJSONErrorIsRendered(t *testing.T) {
	_, out := withStore(t)
	if err := run(t, nil, "rm", "--json"); err != nil {
		t.Fatalf("expected --json to swallow the error, got %v", err)
	}
	if !strings.HasPrefix(out.String(), `{"error":`) {
		t.Fatalf("expected a json error, got %q", out.String())
	}
}

func TestImportReplacesCorruptSchedule(t *testing.T) {
	dir, out := withStore(t)
	corrupt(t, dir)

	if err := run(t, nil, "show"); !errors.Is(err, schedule.ErrInvalid) {
		t.Fatalf("expected show to refuse a corrupt schedule, got %v", err)
	}

	file := filepath.Join(dir, "in.json")
	if err := os.WriteFile(file, []byte(validPayload), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	var stderr bytes.Buffer
	if err := run(t, &stderr, "import", file, "--yes"); err != nil {
		t.Fatalf("import: %v", err)
	}
	if out.String() != "Imported 2 events\n" {
		t.Fatalf("unexpected import output %q", out.String())
	}
	if !strings.Contains(stderr.String(), "Saved schedule is invalid") {
		t.Fatalf("expected the corrupt schedule to be reported, got %q", stderr.String())
	}

	out.Reset()
	if err := run(t, nil, "show", "--json"); err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out.String(), `"Review"`) {
		t.Fatalf("expected the imported schedule, got %q", out.String())
	}
}

func TestClearAllResetsCorruptSchedule(t *testing.T) {
	dir, out := withStore(t)
	corrupt(t, dir)

	if err := run(t, nil, "clear", "--row", "1", "--yes"); !errors.Is(err, schedule.ErrInvalid) {
		t.Fatalf("expected a row clear to refuse a corrupt schedule, got %v", err)
	}
	if err := run(t, nil, "clear", "--yes"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if out.String() != "Cleared schedule\n" {
		t.Fatalf("unexpected clear output %q", out.String())
	}
	if err := run(t, nil, "show"); err != nil {
		t.Fatalf("expected a readable schedule after clear, got %v", err)
	}
}

func TestImportRejectsInvalidFile(t *testing.T) {
	dir, _ := withStore(t)
	if err := run(t, nil, "add", "-r", "2", "-s", "0", "-e", "1", "Keep"); err != nil {
		t.Fatalf("add: %v", err)
	}
	file := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(file, []byte(`{"version":2}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := run(t, nil, "import", file, "--yes"); !errors.Is(err, schedule.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if err := run(t, nil, "rm", "-r", "2", "-i", "0"); err != nil {
		t.Fatalf("expected the schedule to survive a rejected import: %v", err)
	}
}

func TestValidate(t *testing.T) {
	dir, out := withStore(t)
	good := filepath.Join(dir, "good.json")
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(good, []byte(validPayload), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(bad, []byte(strings.Replace(validPayload, `"end":11`, `"end":44`, 1)), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := run(t, nil, "validate", good); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.HasSuffix(out.String(), "is valid: 5 rows, 2 events\n") {
		t.Fatalf("unexpected validate output %q", out.String())
	}
	if err := run(t, nil, "validate", bad); !errors.Is(err, schedule.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}
