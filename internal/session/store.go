package session

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned by Load when a profile has never been saved.
	ErrNotFound = errors.New("session: profile not found")
	// ErrUnknownBackend is returned by OpenStore for an unsupported backend.
	ErrUnknownBackend = errors.New("session: unknown store backend")
	// ErrInvalidProfile is returned for profile names that aren't simple
	// identifiers.
	ErrInvalidProfile = errors.New("session: invalid profile name")
)

// Backend names accepted by OpenStore.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

var profileRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// Store loads and saves snapshots by profile name.
type Store interface {
	Load(ctx context.Context, profile string) (Snapshot, error)
	Save(ctx context.Context, profile string, snap Snapshot) error
	Close() error
}

// Option configures a store.
type Option func(*options)

type options struct {
	logger    *zap.Logger
	sessionID string
}

// WithLogger reports recovered decoding problems through logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSessionID tags saved rows with id instead of a fresh random one.
func WithSessionID(id string) Option {
	return func(o *options) {
		if id != "" {
			o.sessionID = id
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger:    zap.NewNop(),
		sessionID: NewSessionID(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewSessionID returns a random identifier for one program run.
func NewSessionID() string {
	return uuid.NewString()
}

// OpenStore opens the named backend at path.
func OpenStore(backend, path string, opts ...Option) (Store, error) {
	switch backend {
	case BackendFile:
		return NewFileStore(path, opts...)
	case BackendSQLite:
		return OpenSQLite(path, opts...)
	case BackendMemory, "":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

func validateProfile(profile string) error {
	if !profileRe.MatchString(profile) {
		return fmt.Errorf("%w: %q", ErrInvalidProfile, profile)
	}
	return nil
}

func warnFallbacks(logger *zap.Logger, profile string, fallbacks []string) {
	if len(fallbacks) == 0 {
		return
	}
	logger.Warn("recovered malformed snapshot fields",
		zap.String("profile", profile),
		zap.Strings("fields", fallbacks),
	)
}

// MemoryStore keeps snapshots in process. It backs the "memory" backend and
// one-shot commands that shouldn't touch disk.
type MemoryStore struct {
	mu    sync.Mutex
	snaps map[string][]byte
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[string][]byte)}
}

// Load implements Store.
func (m *MemoryStore) Load(_ context.Context, profile string) (Snapshot, error) {
	if err := validateProfile(profile); err != nil {
		return Snapshot{}, err
	}
	m.mu.Lock()
	data, ok := m.snaps[profile]
	m.mu.Unlock()
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	snap, _ := Decode(data)
	return snap, nil
}

// Save implements Store.
func (m *MemoryStore) Save(_ context.Context, profile string, snap Snapshot) error {
	if err := validateProfile(profile); err != nil {
		return err
	}
	data, err := Encode(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	m.mu.Lock()
	m.snaps[profile] = data
	m.mu.Unlock()
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error { return nil }
