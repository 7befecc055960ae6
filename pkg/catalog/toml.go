package catalog

import (
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/syednoorhussain2025/articleflow/pkg/errors"
)

// File is the on-disk authoring format: one template plus any number of
// section shapes. Shapes defined in the file override built-in shapes with
// the same type id, so authors can adjust geometry without redefining the
// whole catalog.
//
// Example:
//
//	[template]
//	id = "longform"
//	version = 1
//	overflow_strategy = "continue"
//
//	[[template.sections]]
//	type = "hero"
//	version = 1
//
//	[[section]]
//	type = "hero"
//	version = 1
//
//	  [section.geometry.desktop]
//	  columns = 1
//	  height = "fixed:520"
//
//	  [[section.block]]
//	  id = "heroImage"
//	  kind = "image"
//	  slot = "hero"
type File struct {
	Template TemplateDef  `toml:"template"`
	Sections []SectionDef `toml:"section"`
}

// Decode reads an authoring file from r and merges its section shapes over
// the built-in catalog.
func Decode(r io.Reader) (TemplateDef, Catalog, error) {
	var f File
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return TemplateDef{}, nil, errors.Wrap(errors.ErrCodeInvalidTemplate, err, "decode template file")
	}

	cat := Builtin()
	for _, def := range f.Sections {
		if def.Type == "" {
			return TemplateDef{}, nil, errors.New(errors.ErrCodeInvalidSection, "section shape missing type id")
		}
		cat[def.Type] = def
	}
	return f.Template, cat, nil
}

// LoadFile reads and decodes an authoring file from disk.
func LoadFile(path string) (TemplateDef, Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return TemplateDef{}, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return TemplateDef{}, nil, err
	}
	defer f.Close()
	return Decode(f)
}

// ImageManifest maps image slot keys to their content. Keys are either a
// composite "<sectionInstanceKey>:<slotId>" (targets one instance of a
// repeated section) or a plain slot id (targets every instance).
type ImageManifest struct {
	Images map[string]ImageRef `toml:"images"`
}

// ImageRef is the authored content of one image slot. StoragePath is opaque
// to the core; resolving it to a URL happens outside (see snapshot.URLResolver).
type ImageRef struct {
	StoragePath string `toml:"path" json:"path"`
	Alt         string `toml:"alt,omitempty" json:"alt,omitempty"`
	Caption     string `toml:"caption,omitempty" json:"caption,omitempty"`
}

// LoadImageManifest reads a slot → image mapping from a TOML file.
// A missing file is not an error: it yields an empty manifest, and the
// snapshot renderer shows placeholders for every slot.
func LoadImageManifest(path string) (ImageManifest, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return ImageManifest{Images: map[string]ImageRef{}}, nil
	}
	if err != nil {
		return ImageManifest{}, err
	}

	var m ImageManifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return ImageManifest{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode image manifest %s", path)
	}
	if m.Images == nil {
		m.Images = map[string]ImageRef{}
	}
	return m, nil
}
