package cli

import (
	"errors"
	"os"

	"github.com/99designs/keyring"
	"github.com/posener/complete"
	"github.com/rs/zerolog"

	"github.com/semmy-space/kvault/internal/config"
	"github.com/semmy-space/kvault/internal/secrets"
)

var errNoPromptDuringCompletion = errors.New("keyring is locked")

// ServicePredictor completes --name with the services stored for the current owner.
// Completion never prompts: a locked file keyring simply yields no suggestions.
func ServicePredictor(defaultOwner string) complete.Predictor {
	return complete.PredictFunc(func(complete.Args) []string {
		cfg, err := config.Load()
		if err != nil {
			return nil
		}
		return predictServices(completionSession(cfg, defaultOwner))
	})
}

// completionSession builds a prompt-free session over the same store the
// completed command would open. Flags aren't parsed yet, so only the
// environment overrides the config.
func completionSession(cfg *config.Config, defaultOwner string) *Session {
	sess := NewSession(cfg, &Globals{NoInput: true}, zerolog.Nop(), ResolveOwner(cfg, defaultOwner))
	backend := resolveBackend(cfg, os.Getenv(BackendEnv))
	sess.OpenStore = func(owner string) (secrets.Store, error) {
		password := func(string) (string, error) { return "", errNoPromptDuringCompletion }
		if pw := os.Getenv("KVAULT_FILE_PASSWORD"); pw != "" {
			password = keyring.FixedStringPrompt(pw)
		}
		return secrets.NewStore(secrets.Options{
			Owner:      owner,
			Backend:    backend,
			Collection: cfg.CollectionOrDefault(),
			FileDir:    cfg.FileDir,
			Password:   password,
		})
	}
	return sess
}

func predictServices(sess *Session) []string {
	v, err := sess.Vault()
	if err != nil {
		return nil
	}
	services, err := v.ListAll()
	if err != nil {
		return nil
	}
	return services
}
