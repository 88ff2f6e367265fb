package credential

import (
	"encoding/json"
	"os"
	"path/filepath"

	"connecthub/pkg/logging"
)

// Profile is the open key/value record stored for one (connector, profile)
// pair. Unknown keys must survive partial updates, so it is never mapped onto
// a fixed struct.
type Profile map[string]any

// layout is one historical on-disk arrangement of a connector profile.
// The store walks an ordered chain of layouts on read and preserves the
// layout a profile was found in on write.
type layout interface {
	// path returns the profile file path inside the connector directory.
	path(dir, profile string) string

	// tryRead loads the profile if this layout has it. The bool reports
	// whether a readable profile was found; corrupt JSON counts as
	// missing so resolution falls through to the next layout.
	tryRead(dir, profile string) (Profile, bool)

	// write stores the profile in this layout, creating parent directories.
	write(dir, profile string, p Profile) error
}

// flatLayout stores profiles as profiles/<profile>.json.
type flatLayout struct{}

func (flatLayout) path(dir, profile string) string {
	return filepath.Join(dir, "profiles", profile+".json")
}

func (l flatLayout) tryRead(dir, profile string) (Profile, bool) {
	return readProfileFile(l.path(dir, profile))
}

func (l flatLayout) write(dir, profile string, p Profile) error {
	return writeProfileFile(l.path(dir, profile), p)
}

// nestedLayout stores profiles as profiles/<profile>/config.json.
type nestedLayout struct{}

func (nestedLayout) path(dir, profile string) string {
	return filepath.Join(dir, "profiles", profile, "config.json")
}

func (l nestedLayout) tryRead(dir, profile string) (Profile, bool) {
	return readProfileFile(l.path(dir, profile))
}

func (l nestedLayout) write(dir, profile string, p Profile) error {
	return writeProfileFile(l.path(dir, profile), p)
}

// layouts is the resolution chain, oldest layout first.
var layouts = []layout{flatLayout{}, nestedLayout{}}

func readProfileFile(path string) (Profile, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		// Corrupt JSON is treated identically to a missing file, so a
		// readable profile in a later layout still resolves.
		logging.Warn("Store", "Ignoring malformed profile file %s: %v", path, err)
		return nil, false
	}
	if p == nil {
		p = Profile{}
	}
	return p, true
}

func writeProfileFile(path string, p Profile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
