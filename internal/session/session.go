package session

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"
)

// AppName names the runtime subdirectory holding work directories.
const AppName = "portalpass"

// DefaultUserAgent emulates a mainstream desktop browser. Some portals serve
// a different page, or nothing at all, to unknown clients.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

var (
	// ErrInvalidArtifactName is returned when an artifact name is empty or
	// would escape the work directory.
	ErrInvalidArtifactName = errors.New("invalid artifact name")

	// ErrClosed is returned when an artifact is saved after Close.
	ErrClosed = errors.New("session closed")
)

// Identity is the operator-supplied information some consent forms ask for.
// Every field is optional.
type Identity struct {
	Email    string
	FullName string
	Company  string
}

// IsZero reports whether no identity field is set.
func (i Identity) IsZero() bool {
	return i.Email == "" && i.FullName == "" && i.Company == ""
}

// Session is the state of one run.
type Session struct {
	// ID identifies the run in logs, reports and history.
	ID string

	// UserAgent is sent on every request.
	UserAgent string

	// Debug enables verbose transport logging.
	Debug bool

	// Interface is an informational label included in log lines.
	Interface string

	// Identity is offered to consent forms that ask for it.
	Identity Identity

	jar     http.CookieJar
	baseDir string
	workDir string

	mu        sync.Mutex
	artifacts []string
	closed    bool
}

// Option configures a Session.
type Option func(*Session)

// WithUserAgent sets the outbound User-Agent. Empty keeps DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(s *Session) {
		if ua != "" {
			s.UserAgent = ua
		}
	}
}

// WithDebug sets the debug flag.
func WithDebug(debug bool) Option {
	return func(s *Session) {
		s.Debug = debug
	}
}

// WithInterface sets the interface label.
func WithInterface(name string) Option {
	return func(s *Session) {
		s.Interface = name
	}
}

// WithIdentity sets the operator identity.
func WithIdentity(id Identity) Option {
	return func(s *Session) {
		s.Identity = id
	}
}

// WithBaseDir sets the directory under which the work directory is
// created. By default the XDG runtime directory is used, falling back to
// the system temporary directory.
func WithBaseDir(dir string) Option {
	return func(s *Session) {
		s.baseDir = dir
	}
}

// New creates a Session with a fresh cookie jar and work directory.
func New(opts ...Option) (*Session, error) {
	s := &Session{
		ID:        uuid.NewString(),
		UserAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(s)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	s.jar = jar

	dir, err := makeWorkDir(s.baseDir)
	if err != nil {
		return nil, err
	}
	s.workDir = dir
	return s, nil
}

// makeWorkDir creates a private temporary directory. An explicit base must
// work; the default XDG location silently falls back to os.TempDir.
func makeWorkDir(base string) (string, error) {
	if base != "" {
		dir, err := os.MkdirTemp(base, AppName+"-")
		if err != nil {
			return "", fmt.Errorf("failed to create work directory: %w", err)
		}
		return dir, nil
	}

	runtimeBase := filepath.Join(xdg.RuntimeDir, AppName)
	if err := os.MkdirAll(runtimeBase, 0o700); err == nil {
		if dir, err := os.MkdirTemp(runtimeBase, "run-"); err == nil {
			return dir, nil
		}
	}

	dir, err := os.MkdirTemp("", AppName+"-")
	if err != nil {
		return "", fmt.Errorf("failed to create work directory: %w", err)
	}
	return dir, nil
}

// Jar returns the run's cookie jar.
func (s *Session) Jar() http.CookieJar {
	return s.jar
}

// WorkDir returns the run's work directory.
func (s *Session) WorkDir() string {
	return s.workDir
}

// ArtifactPath returns where an artifact named name lives.
func (s *Session) ArtifactPath(name string) string {
	return filepath.Join(s.workDir, name)
}

// SaveArtifact writes data to the work directory under name and returns the
// full path. Saving the same name twice overwrites the earlier content.
func (s *Session) SaveArtifact(name string, data []byte) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidArtifactName, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", ErrClosed
	}

	path := s.ArtifactPath(name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to save artifact %s: %w", name, err)
	}
	for _, a := range s.artifacts {
		if a == name {
			return path, nil
		}
	}
	s.artifacts = append(s.artifacts, name)
	return path, nil
}

// Artifacts returns the names of saved artifacts in the order they were
// first written.
func (s *Session) Artifacts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.artifacts))
	copy(out, s.artifacts)
	return out
}

// CopyArtifacts copies every saved artifact into dir, creating it when
// missing, and returns the paths written. Existing files of the same name
// are overwritten.
func (s *Session) CopyArtifacts(dir string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}

	copied := make([]string, 0, len(s.artifacts))
	for _, name := range s.artifacts {
		data, err := os.ReadFile(s.ArtifactPath(name))
		if err != nil {
			return copied, fmt.Errorf("failed to read artifact %s: %w", name, err)
		}
		dst := filepath.Join(dir, name)
		if err := os.WriteFile(dst, data, 0o600); err != nil {
			return copied, fmt.Errorf("failed to copy artifact %s: %w", name, err)
		}
		copied = append(copied, dst)
	}
	return copied, nil
}

// Close removes the work directory. It is safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if err := os.RemoveAll(s.workDir); err != nil {
		return fmt.Errorf("failed to remove work directory: %w", err)
	}
	return nil
}
