package sessionfile

import "github.com/plotdeck/plotdeck/internal/app"

// SaveSession exports the live model and writes it to path.
func SaveSession(a *app.App, path string) error {
	doc, err := Export(a)
	if err != nil {
		return err
	}
	return doc.Save(path)
}

// RestoreSession loads, validates and imports a session file into a.
// The app should be empty; references that cannot be resolved through loc
// are retained on the app as stale markers.
func RestoreSession(path string, a *app.App, loc SourceLocator) (*Result, error) {
	doc, err := Load(path)
	if err != nil {
		return nil, err
	}
	return Import(doc, a, loc)
}
