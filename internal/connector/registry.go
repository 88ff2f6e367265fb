package connector

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// namePattern is the only shape a connector name may take. Every path or
// filesystem operation must reject a name that fails this pattern before
// any I/O occurs.
var namePattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// ValidName reports whether name is a well-formed connector name:
// lowercase ASCII letters, digits and hyphens only.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// OAuthProvider binds a connector to its provider's OAuth2 endpoints and the
// scope set requested during authorization. Only connectors with a declared
// provider binding support the authorization-code flow.
type OAuthProvider struct {
	Endpoint oauth2.Endpoint
	Scopes   []string
}

// Definition is the static registry entry for one connector package.
type Definition struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Category    string `json:"category"`

	// OAuth is nil for connectors that authenticate with a static key or
	// bearer token.
	OAuth *OAuthProvider `json:"-"`
}

// registry is the built-in connector catalog. Adding a connector means adding
// a line here plus its package documentation.
var registry = map[string]Definition{
	"github": {
		Name: "github", DisplayName: "GitHub", Category: "developer",
		Description: "Repositories, issues, pull requests and actions",
	},
	"webflow": {
		Name: "webflow", DisplayName: "Webflow", Category: "website",
		Description: "Sites, CMS collections and publishing",
	},
	"wix": {
		Name: "wix", DisplayName: "Wix", Category: "website",
		Description: "Site content, stores and bookings",
	},
	"zoom": {
		Name: "zoom", DisplayName: "Zoom", Category: "communication",
		Description: "Meetings, webinars and recordings",
	},
	"pandadoc": {
		Name: "pandadoc", DisplayName: "PandaDoc", Category: "documents",
		Description: "Document creation, templates and e-signatures",
	},
	"quo": {
		Name: "quo", DisplayName: "Quo", Category: "communication",
		Description: "Business phone calls, contacts and messaging",
	},
	"reducto": {
		Name: "reducto", DisplayName: "Reducto", Category: "documents",
		Description: "Document parsing, splitting and extraction",
	},
	"stripe": {
		Name: "stripe", DisplayName: "Stripe", Category: "payments",
		Description: "Payments, customers, invoices and subscriptions",
	},
	"slack": {
		Name: "slack", DisplayName: "Slack", Category: "communication",
		Description: "Channels, messages and user lookups",
	},
	"notion": {
		Name: "notion", DisplayName: "Notion", Category: "productivity",
		Description: "Pages, databases and blocks",
	},
	"airtable": {
		Name: "airtable", DisplayName: "Airtable", Category: "productivity",
		Description: "Bases, tables and records",
	},
	"hubspot": {
		Name: "hubspot", DisplayName: "HubSpot", Category: "crm",
		Description: "Contacts, companies, deals and tickets",
	},
	"sendgrid": {
		Name: "sendgrid", DisplayName: "SendGrid", Category: "email",
		Description: "Transactional email sending and templates",
	},
	"twilio": {
		Name: "twilio", DisplayName: "Twilio", Category: "communication",
		Description: "SMS, voice and verification",
	},
	"shopify": {
		Name: "shopify", DisplayName: "Shopify", Category: "commerce",
		Description: "Products, orders and inventory",
	},
	"linear": {
		Name: "linear", DisplayName: "Linear", Category: "developer",
		Description: "Issues, projects and cycles",
	},
	"figma": {
		Name: "figma", DisplayName: "Figma", Category: "design",
		Description: "Files, components and comments",
	},
	"gmail": {
		Name: "gmail", DisplayName: "Gmail", Category: "email",
		Description: "Read, search and send mail",
		OAuth: &OAuthProvider{
			Endpoint: google.Endpoint,
			Scopes: []string{
				"https://www.googleapis.com/auth/gmail.readonly",
				"https://www.googleapis.com/auth/gmail.send",
			},
		},
	},
	"google-calendar": {
		Name: "google-calendar", DisplayName: "Google Calendar", Category: "productivity",
		Description: "Calendars, events and availability",
		OAuth: &OAuthProvider{
			Endpoint: google.Endpoint,
			Scopes: []string{
				"https://www.googleapis.com/auth/calendar",
				"https://www.googleapis.com/auth/calendar.events",
			},
		},
	},
	"google-drive": {
		Name: "google-drive", DisplayName: "Google Drive", Category: "storage",
		Description: "Files, folders, shared drives and downloads",
		OAuth: &OAuthProvider{
			Endpoint: google.Endpoint,
			Scopes: []string{
				"https://www.googleapis.com/auth/drive.readonly",
				"https://www.googleapis.com/auth/drive.file",
			},
		},
	},
}

// Get returns the registry definition for name.
func Get(name string) (Definition, bool) {
	def, ok := registry[name]
	return def, ok
}

// All returns every registry definition sorted by name.
func All() []Definition {
	defs := make([]Definition, 0, len(registry))
	for _, def := range registry {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Installed reports whether the connector's package directory exists under
// root. Callers must validate name first; Installed refuses invalid names
// outright rather than touching the filesystem.
func Installed(root, name string) bool {
	if !ValidName(name) {
		return false
	}
	info, err := os.Stat(filepath.Join(root, name))
	return err == nil && info.IsDir()
}
