package assets

import (
	"embed"
	"io/fs"
)

const DefaultCatalogName = "catalog.hcl"

//go:embed default
var defaultFS embed.FS

// Default is the built-in icon set, rooted so that catalog locations such as
// "img/house.svg" resolve directly.
func Default() fs.FS {
	sub, err := fs.Sub(defaultFS, "default")
	if err != nil {
		panic(err)
	}
	return sub
}

func DefaultCatalog() []byte {
	b, err := fs.ReadFile(Default(), DefaultCatalogName)
	if err != nil {
		panic(err)
	}
	return b
}
