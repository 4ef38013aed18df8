package assets

import (
	"context"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/zucenko/iconhunt/model"
)

const Placeholder = `<text x="10" y="50" font-size="20">Error</text>`

const maxIconSize = 1 << 20

type Loader struct {
	Catalog *model.Catalog
	Source  Source
}

func NewLoader(catalog *model.Catalog, source Source) *Loader {
	return &Loader{Catalog: catalog, Source: source}
}

// Fetch returns the raw markup of the named icon, or Placeholder when it
// cannot be read. Failures are logged and never returned.
func (l *Loader) Fetch(ctx context.Context, name string) string {
	location, found := l.Catalog.Location(name)
	if !found {
		log.WithField("icon", name).Warn("Loader.Fetch unknown icon")
		return Placeholder
	}
	markup, err := l.read(ctx, location)
	if err != nil {
		log.WithFields(log.Fields{"icon": name, "location": location}).Warnf("Loader.Fetch failed: %v", err)
		return Placeholder
	}
	return markup
}

func (l *Loader) read(ctx context.Context, location string) (string, error) {
	rc, err := l.Source.Open(ctx, location)
	if err != nil {
		return "", err
	}
	defer rc.Close()
	b, err := io.ReadAll(io.LimitReader(rc, maxIconSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}
	if len(b) > maxIconSize {
		return "", fmt.Errorf("icon larger than %d bytes", maxIconSize)
	}
	return string(b), nil
}
