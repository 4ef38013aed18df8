package server

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	log "github.com/sirupsen/logrus"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/zucenko/iconhunt/assets"
	"github.com/zucenko/iconhunt/model"
)

type hclCatalogFile struct {
	Icons []*hclIcon `hcl:"icon,block"`
}

type hclIcon struct {
	Name     string `hcl:"name,label"`
	Location string `hcl:"location"`
}

// Load reads the icon catalog from path, or the embedded default catalog when
// path is empty. iconDir is exposed to the file as the icon_dir variable.
func Load(path, iconDir string) (*model.Catalog, error) {
	parser := hclparse.NewParser()
	var file *hcl.File
	var diags hcl.Diagnostics
	if path == "" {
		path = assets.DefaultCatalogName
		file, diags = parser.ParseHCL(assets.DefaultCatalog(), path)
	} else {
		file, diags = parser.ParseHCLFile(path)
	}
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, diags)
	}
	c, err := read(file, path, iconDir)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"catalog": path, "icons": c.Len()}).Info("catalog loaded")
	return c, nil
}

func read(file *hcl.File, path, iconDir string) (*model.Catalog, error) {
	var parsed hclCatalogFile
	diags := gohcl.DecodeBody(file.Body, evalContext(iconDir), &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode catalog %s: %w", path, diags)
	}

	icons := make([]model.Icon, 0, len(parsed.Icons))
	for _, icon := range parsed.Icons {
		icons = append(icons, model.Icon{Name: icon.Name, Location: icon.Location})
	}
	c, err := model.NewCatalog(icons)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

func evalContext(iconDir string) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"icon_dir": cty.StringVal(iconDir),
		},
		Functions: map[string]function.Function{
			"format": stdlib.FormatFunc,
			"lower":  stdlib.LowerFunc,
			"upper":  stdlib.UpperFunc,
		},
	}
}
