package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"connecthub/internal/auth"
	"connecthub/internal/connector"
	"connecthub/pkg/logging"
)

// Installer materializes connector packages from the built-in registry into
// the connector root directory. Installing a connector is a metadata lookup
// plus a file copy; there is nothing to compile or download.
type Installer struct {
	root string
}

// New creates an installer over the given connector root.
func New(root string) *Installer {
	return &Installer{root: root}
}

// Install creates the connector package directory and writes its
// documentation file. Installing an already-installed connector refreshes the
// documentation but leaves credentials untouched.
func (i *Installer) Install(name string) error {
	if !connector.ValidName(name) {
		return fmt.Errorf("invalid connector name %q", name)
	}
	def, ok := connector.Get(name)
	if !ok {
		return fmt.Errorf("unknown connector %q", name)
	}

	dir := filepath.Join(i.root, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create connector directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "docs.md"), []byte(renderDocs(def)), 0644); err != nil {
		return fmt.Errorf("failed to write connector docs: %w", err)
	}

	logging.Info("Installer", "Installed connector %s", name)
	return nil
}

// Uninstall removes the connector package directory, credentials included.
func (i *Installer) Uninstall(name string) error {
	if !connector.ValidName(name) {
		return fmt.Errorf("invalid connector name %q", name)
	}
	if !connector.Installed(i.root, name) {
		return fmt.Errorf("connector %q is not installed", name)
	}

	if err := os.RemoveAll(filepath.Join(i.root, name)); err != nil {
		return err
	}

	logging.Info("Installer", "Uninstalled connector %s", name)
	return nil
}

// bearerConnectors send their static credential as an Authorization: Bearer
// header rather than a provider-specific key header. The distinction only
// affects the documented auth hint.
var bearerConnectors = map[string]bool{
	"stripe": true,
	"slack":  true,
	"linear": true,
	"notion": true,
}

// renderDocs produces the documentation file for a connector from its
// registry definition. The sections mirror what the doc reader parses.
func renderDocs(def connector.Definition) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s Connector\n\n%s.\n\n", def.DisplayName, def.Description)

	b.WriteString("## Authentication\n\n")
	switch {
	case def.OAuth != nil:
		fmt.Fprintf(&b, "Uses OAuth 2.0 authorization code flow with offline access. "+
			"Store the OAuth client ID and secret in credentials.json, then run "+
			"`connecthub connect %s` or use the dashboard to authorize.\n\n", def.Name)
	case bearerConnectors[def.Name]:
		fmt.Fprintf(&b, "Uses a Bearer token. Create one in the %s dashboard and store it "+
			"with `connecthub key set %s <token>`.\n\n", def.DisplayName, def.Name)
	default:
		fmt.Fprintf(&b, "Uses an API key. Create one in the %s dashboard and store it "+
			"with `connecthub key set %s <key>`.\n\n", def.DisplayName, def.Name)
	}

	b.WriteString("## Environment Variables\n\n")
	b.WriteString("| Variable | Description |\n|----------|-------------|\n")
	if def.OAuth != nil {
		prefix := envPrefix(def.Name)
		fmt.Fprintf(&b, "| `%s_CLIENT_ID` | OAuth client ID |\n", prefix)
		fmt.Fprintf(&b, "| `%s_CLIENT_SECRET` | OAuth client secret |\n", prefix)
	} else {
		fmt.Fprintf(&b, "| `%s` | API key used when no profile credential exists |\n",
			auth.ConventionalEnvVar(def.Name))
	}
	b.WriteString("\n")

	b.WriteString("## CLI Commands\n\n")
	fmt.Fprintf(&b, "    connecthub status %s\n", def.Name)
	if def.OAuth != nil {
		fmt.Fprintf(&b, "    connecthub connect %s\n", def.Name)
		fmt.Fprintf(&b, "    connecthub refresh %s\n", def.Name)
	} else {
		fmt.Fprintf(&b, "    connecthub key set %s <key>\n", def.Name)
	}
	b.WriteString("\n")

	b.WriteString("## Data Storage\n\n")
	fmt.Fprintf(&b, "Credentials are stored under the connector config directory in "+
		"profiles/<profile>.json; OAuth client credentials live in credentials.json "+
		"and cached tokens in tokens.json.\n")

	return b.String()
}

func envPrefix(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}
