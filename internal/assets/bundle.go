package assets

import "fmt"

// Asset names shared by the exporter and the text formatters.
const (
	CaptureName  = "capture"
	DocumentName = "document"
	WordName     = "word"
)

// Asset is a template paired with the stylesheet of the same name.
type Asset struct {
	Template string
	Style    string
}

// Bundle holds every asset an exporter needs.
type Bundle struct {
	Capture  Asset
	Document Asset
	Word     Asset
}

// LoadBundle loads the capture, document and word assets from l.
func LoadBundle(l AssetLoader) (*Bundle, error) {
	var b Bundle
	for name, dst := range map[string]*Asset{
		CaptureName:  &b.Capture,
		DocumentName: &b.Document,
		WordName:     &b.Word,
	} {
		a, err := loadAsset(l, name)
		if err != nil {
			return nil, err
		}
		*dst = a
	}
	return &b, nil
}

func loadAsset(l AssetLoader, name string) (Asset, error) {
	tmpl, err := l.LoadTemplate(name)
	if err != nil {
		return Asset{}, fmt.Errorf("loading %s template: %w", name, err)
	}
	style, err := l.LoadStyle(name)
	if err != nil {
		return Asset{}, fmt.Errorf("loading %s style: %w", name, err)
	}
	return Asset{Template: tmpl, Style: style}, nil
}
