package cli

import (
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/semmy-space/kvault/internal/config"
	"github.com/semmy-space/kvault/internal/output"
	"github.com/semmy-space/kvault/internal/secrets"
	"github.com/semmy-space/kvault/internal/terminal"
	"github.com/semmy-space/kvault/internal/vault"
)

const (
	// OwnerEnv overrides the configured owner identity
	OwnerEnv = "KVAULT_OWNER"
	// BackendEnv overrides the configured secret store backend
	BackendEnv = "KVAULT_BACKEND"
)

// ResolveOwner picks the vault owner: KVAULT_OWNER > config > build default
func ResolveOwner(cfg *config.Config, fallback string) string {
	if owner := os.Getenv(OwnerEnv); owner != "" {
		return owner
	}
	if cfg.Owner != "" {
		return cfg.Owner
	}
	return fallback
}

// resolveBackend picks the store backend: --backend/KVAULT_BACKEND > config > auto
func resolveBackend(cfg *config.Config, override string) string {
	if override != "" {
		return override
	}
	return cfg.BackendOrDefault()
}

// Session carries everything a vault command needs for one invocation.
// The store is opened on first use and reused afterwards.
type Session struct {
	Owner     string
	Config    *config.Config
	Globals   *Globals
	Log       zerolog.Logger
	Input     terminal.SecretReader
	Confirm   vault.Confirmer
	Clipboard terminal.ClipboardSink
	OpenStore func(owner string) (secrets.Store, error)

	once  sync.Once
	vault *vault.Vault
	err   error
}

// NewSession wires a Session to the terminal, the system clipboard and the configured store.
func NewSession(cfg *config.Config, globals *Globals, log zerolog.Logger, owner string) *Session {
	tty := terminal.New(globals.NoInput)

	backend := resolveBackend(cfg, globals.Backend)

	return &Session{
		Owner:     owner,
		Config:    cfg,
		Globals:   globals,
		Log:       log,
		Input:     tty,
		Confirm:   tty,
		Clipboard: terminal.SystemClipboard{},
		OpenStore: func(owner string) (secrets.Store, error) {
			log.Debug().Str("backend", backend).Str("collection", cfg.CollectionOrDefault()).Msg("opening secret store")
			return secrets.NewStore(secrets.Options{
				Owner:      owner,
				Backend:    backend,
				Collection: cfg.CollectionOrDefault(),
				FileDir:    cfg.FileDir,
				Warn: func(msg string) {
					log.Warn().Msg(msg)
				},
			})
		},
	}
}

// Vault returns the owner's vault, opening the store on first call.
func (s *Session) Vault() (*vault.Vault, error) {
	s.once.Do(func() {
		if err := vault.ValidateName(s.Owner); err != nil {
			s.err = output.NewCLIError(output.ExitConfigError, fmt.Sprintf("Invalid owner identity %q: %v", s.Owner, err)).
				WithHint("Run: kvault config set owner NAME").
				Wrap(err)
			return
		}

		store, err := s.OpenStore(s.Owner)
		if err != nil {
			s.err = storeError(err)
			return
		}

		force := s.Globals != nil && s.Globals.Force
		s.vault, s.err = vault.New(s.Owner, store,
			vault.WithConfirmer(s.Confirm),
			vault.WithForce(force),
			vault.WithLogger(s.Log),
		)
	})
	return s.vault, s.err
}
