package session

import (
	"errors"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"
)

func newTestSession(t *testing.T, opts ...Option) *Session {
	t.Helper()

	opts = append([]Option{WithBaseDir(t.TempDir())}, opts...)
	s, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		s := newTestSession(t)
		if s.ID == "" {
			t.Error("expected a run ID")
		}
		if s.UserAgent != DefaultUserAgent {
			t.Errorf("UserAgent = %q, want default", s.UserAgent)
		}
		if s.Jar() == nil {
			t.Error("expected a cookie jar")
		}
		info, err := os.Stat(s.WorkDir())
		if err != nil || !info.IsDir() {
			t.Fatalf("work directory not created: %v", err)
		}
	})

	t.Run("options are applied", func(t *testing.T) {
		t.Parallel()

		id := Identity{Email: "guest@example.com", FullName: "Ada Guest", Company: "ACME"}
		s := newTestSession(t,
			WithUserAgent("custom/1.0"),
			WithDebug(true),
			WithInterface("wlan0"),
			WithIdentity(id),
		)
		if s.UserAgent != "custom/1.0" {
			t.Errorf("UserAgent = %q", s.UserAgent)
		}
		if !s.Debug {
			t.Error("Debug not set")
		}
		if s.Interface != "wlan0" {
			t.Errorf("Interface = %q", s.Interface)
		}
		if s.Identity != id {
			t.Errorf("Identity = %+v", s.Identity)
		}
	})

	t.Run("empty user agent keeps default", func(t *testing.T) {
		t.Parallel()

		s := newTestSession(t, WithUserAgent(""))
		if s.UserAgent != DefaultUserAgent {
			t.Errorf("UserAgent = %q, want default", s.UserAgent)
		}
	})

	t.Run("each run gets its own ID and directory", func(t *testing.T) {
		t.Parallel()

		a := newTestSession(t)
		b := newTestSession(t)
		if a.ID == b.ID {
			t.Error("run IDs collide")
		}
		if a.WorkDir() == b.WorkDir() {
			t.Error("work directories collide")
		}
	})

	t.Run("unusable base directory fails", func(t *testing.T) {
		t.Parallel()

		_, err := New(WithBaseDir(filepath.Join(t.TempDir(), "missing", "dir")))
		if err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestSessionJarPersistsCookies(t *testing.T) {
	t.Parallel()

	s := newTestSession(t)
	u, _ := url.Parse("http://portal.example.net/splash/")
	s.Jar().SetCookies(u, []*http.Cookie{{Name: "sid", Value: "1"}})

	got := s.Jar().Cookies(u)
	if len(got) != 1 || got[0].Value != "1" {
		t.Errorf("Cookies() = %v", got)
	}
}

func TestSaveArtifact(t *testing.T) {
	t.Parallel()

	t.Run("writes into the work directory", func(t *testing.T) {
		t.Parallel()

		s := newTestSession(t)
		path, err := s.SaveArtifact("portal.html", []byte("<form></form>"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if filepath.Dir(path) != s.WorkDir() {
			t.Errorf("artifact saved outside work dir: %s", path)
		}
		data, err := os.ReadFile(path)
		if err != nil || string(data) != "<form></form>" {
			t.Errorf("ReadFile() = %q, %v", data, err)
		}
	})

	t.Run("records names once in first-write order", func(t *testing.T) {
		t.Parallel()

		s := newTestSession(t)
		for _, name := range []string{"portal.html", "submit.html", "portal.html"} {
			if _, err := s.SaveArtifact(name, []byte(name)); err != nil {
				t.Fatalf("SaveArtifact(%q): %v", name, err)
			}
		}
		got := s.Artifacts()
		if len(got) != 2 || got[0] != "portal.html" || got[1] != "submit.html" {
			t.Errorf("Artifacts() = %v", got)
		}
	})

	t.Run("rejects names escaping the work directory", func(t *testing.T) {
		t.Parallel()

		s := newTestSession(t)
		for _, name := range []string{"", "../evil", "sub/file", ".hidden", ".."} {
			if _, err := s.SaveArtifact(name, nil); !errors.Is(err, ErrInvalidArtifactName) {
				t.Errorf("SaveArtifact(%q) error = %v, want ErrInvalidArtifactName", name, err)
			}
		}
	})

	t.Run("fails after close", func(t *testing.T) {
		t.Parallel()

		s := newTestSession(t)
		if err := s.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		if _, err := s.SaveArtifact("late.html", nil); !errors.Is(err, ErrClosed) {
			t.Errorf("error = %v, want ErrClosed", err)
		}
	})
}

func TestCopyArtifacts(t *testing.T) {
	t.Parallel()

	t.Run("copies every artifact and survives close", func(t *testing.T) {
		t.Parallel()

		s := newTestSession(t)
		for _, name := range []string{"portal.html", "submit.html"} {
			if _, err := s.SaveArtifact(name, []byte("<"+name+">")); err != nil {
				t.Fatalf("SaveArtifact(%q): %v", name, err)
			}
		}

		dir := filepath.Join(t.TempDir(), "kept", "run.artifacts")
		copied, err := s.CopyArtifacts(dir)
		if err != nil {
			t.Fatalf("CopyArtifacts() error = %v", err)
		}
		if len(copied) != 2 {
			t.Fatalf("copied = %v", copied)
		}
		if err := s.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}

		data, err := os.ReadFile(filepath.Join(dir, "submit.html"))
		if err != nil || string(data) != "<submit.html>" {
			t.Errorf("copied artifact = %q, %v", data, err)
		}
	})

	t.Run("fails after close", func(t *testing.T) {
		t.Parallel()

		s := newTestSession(t)
		if err := s.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		if _, err := s.CopyArtifacts(t.TempDir()); !errors.Is(err, ErrClosed) {
			t.Errorf("error = %v, want ErrClosed", err)
		}
	})
}

func TestClose(t *testing.T) {
	t.Parallel()

	s := newTestSession(t)
	if _, err := s.SaveArtifact("grant.html", []byte("ok")); err != nil {
		t.Fatalf("SaveArtifact: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := os.Stat(s.WorkDir()); !os.IsNotExist(err) {
		t.Errorf("work directory still present: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestIdentityIsZero(t *testing.T) {
	t.Parallel()

	if !(Identity{}).IsZero() {
		t.Error("empty identity should be zero")
	}
	if (Identity{Company: "ACME"}).IsZero() {
		t.Error("identity with company should not be zero")
	}
}
