package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mephub/mephub/internal/authstate"
	"github.com/mephub/mephub/internal/cli/config"
	"github.com/mephub/mephub/internal/cli/cookies"
	"github.com/mephub/mephub/internal/cli/serverselect"
	"github.com/mephub/mephub/internal/client"
	"github.com/mephub/mephub/internal/directory"
)

// getSelectedServer loads the project config and resolves which server to
// talk to. Most commands start here.
func getSelectedServer(serverAlias string) (*config.Server, error) {
	cfg, err := config.LoadFromCurrentDir()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w\nCreate a %s file with your servers", err, config.ConfigFileName)
	}

	server, err := serverselect.ResolveServer(cfg, serverAlias)
	if err != nil {
		return nil, err
	}

	if server.URL == "" {
		return nil, fmt.Errorf("server URL is empty. Please edit %s and add a valid URL", config.ConfigFileName)
	}

	return server, nil
}

// newSessionClient builds an API client whose jar is seeded with the
// session cookie persisted for this server, if any
func newSessionClient(server *config.Server, store cookies.Store) (*client.Client, error) {
	value, err := store.Load(server.URL)
	if err != nil {
		// Not logged in yet; an anonymous jar still serves public endpoints
		value = ""
	}

	jar, err := cookies.NewJar(server.URL, value)
	if err != nil {
		return nil, err
	}
	return client.NewWithJar(server.URL, jar), nil
}

// ensureAccess runs the route guard against the live session before an
// authenticated command fires, translating redirects into CLI guidance
func ensureAccess(ctx context.Context, api authstate.SessionAPI, adminOnly bool, path string) error {
	store := authstate.New(api, zerolog.Nop())
	store.Start(ctx)

	decision := authstate.Decide(store.Snapshot(), adminOnly, path)
	switch decision.Action {
	case authstate.ActionAllow:
		return nil
	case authstate.ActionRedirect:
		if strings.HasPrefix(decision.Target, authstate.LoginPath) {
			return fmt.Errorf("not logged in. Please run 'mephub login' first")
		}
		return fmt.Errorf("admin access required for this command")
	default:
		return fmt.Errorf("session state not resolved")
	}
}

// parseCategory validates a category argument against the known set
func parseCategory(arg string) (directory.Category, error) {
	category := directory.Category(strings.ToLower(arg))
	if !directory.Valid(arg) {
		names := make([]string, 0, len(directory.Categories()))
		for _, c := range directory.Categories() {
			names = append(names, string(c))
		}
		return "", fmt.Errorf("unknown category '%s' (expected one of: %s)", arg, strings.Join(names, ", "))
	}
	return category, nil
}
