package secrets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/99designs/keyring"
	"github.com/adrg/xdg"
)

// Backend names accepted by NewStore
const (
	BackendAuto    = "auto"
	BackendKeyring = "keyring"
	BackendFile    = "file"
	BackendMemory  = "memory"
)

// Backends lists the valid backend names.
var Backends = []string{BackendAuto, BackendKeyring, BackendFile, BackendMemory}

var errNoOSKeyring = errors.New("no OS keyring backend available")

// Options configures NewStore.
type Options struct {
	Owner      string
	Backend    string
	Collection string
	FileDir    string
	Password   keyring.PromptFunc
	Warn       func(msg string) // notified when auto detection falls back to the file backend
}

// DefaultFileDir is where the encrypted file backend keeps its items
func DefaultFileDir() string {
	return filepath.Join(xdg.DataHome, ServiceName, "keyring")
}

// NewStore creates a Store instance using platform-appropriate backend.
// "auto" uses the OS keyring, except under WSL and headless Linux where the
// keyring library's encrypted file backend is used instead.
func NewStore(opts Options) (Store, error) {
	if opts.FileDir == "" {
		opts.FileDir = DefaultFileDir()
	}
	if opts.Password == nil {
		if pw := os.Getenv("KVAULT_FILE_PASSWORD"); pw != "" {
			opts.Password = keyring.FixedStringPrompt(pw)
		}
	}

	kopts := KeyringOptions{
		Owner:      opts.Owner,
		Collection: opts.Collection,
		FileDir:    opts.FileDir,
		Password:   opts.Password,
	}

	switch opts.Backend {
	case BackendMemory:
		return NewMemoryStore(opts.Owner), nil
	case BackendFile:
		kopts.Backends = []keyring.BackendType{keyring.FileBackend}
		return openKeyring(kopts)
	case BackendKeyring:
		kopts.Backends = osBackends()
		if len(kopts.Backends) == 0 {
			return nil, &StoreError{Op: "open", Err: errNoOSKeyring}
		}
		return openKeyring(kopts)
	case BackendAuto, "":
		if IsWSL() || IsHeadless() {
			warn(opts, "Detected WSL/headless environment, using encrypted file storage")
			kopts.Backends = []keyring.BackendType{keyring.FileBackend}
			return openKeyring(kopts)
		}
		kopts.Backends = osBackends()
		var store Store
		var err error = errNoOSKeyring
		if len(kopts.Backends) > 0 {
			store, err = openKeyring(kopts)
		}
		if err != nil {
			warn(opts, fmt.Sprintf("Keyring unavailable (%v), falling back to encrypted file", err))
			kopts.Backends = []keyring.BackendType{keyring.FileBackend}
			return openKeyring(kopts)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown backend: %s", opts.Backend)
	}
}

// openKeyring returns an untyped nil Store when opening fails.
func openKeyring(opts KeyringOptions) (Store, error) {
	store, err := NewKeyringStore(opts)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func warn(opts Options, msg string) {
	if opts.Warn != nil {
		opts.Warn(msg)
	}
}

// osBackends returns the available platform keyring backends, without the file backend.
func osBackends() []keyring.BackendType {
	var backends []keyring.BackendType
	for _, b := range keyring.AvailableBackends() {
		if b == keyring.FileBackend {
			continue
		}
		backends = append(backends, b)
	}
	return backends
}

// IsWSL returns true if running under Windows Subsystem for Linux.
func IsWSL() bool {
	if runtime.GOOS != "linux" {
		return false
	}

	data, err := os.ReadFile("/proc/version")
	if err != nil {
		return false
	}

	version := strings.ToLower(string(data))
	return strings.Contains(version, "microsoft") || strings.Contains(version, "wsl")
}

// IsHeadless returns true if running in a headless environment (no display server).
// Only applicable on Linux; macOS and Windows are assumed to have GUI.
func IsHeadless() bool {
	if runtime.GOOS != "linux" {
		return false
	}

	// Check for X11 or Wayland display
	return os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == ""
}
