package snapshot

import "github.com/syednoorhussain2025/articleflow/pkg/catalog"

// ImageSource resolves image slots to authored content. It is owned and
// populated entirely outside the core: the engine only deals in slot ids.
//
// Lookup order is the composite key "<sectionInstanceKey>:<slotId>" first
// (content bound to one instance of a repeated section), then the plain
// slot id (content shared by every instance).
type ImageSource interface {
	Image(sectionKey, slotID string) (catalog.ImageRef, bool)
}

// MapSource is a map-backed ImageSource. Keys are composite
// "<sectionInstanceKey>:<slotId>" or plain slot ids.
type MapSource map[string]catalog.ImageRef

// Image implements ImageSource with the composite-then-plain fallback.
func (m MapSource) Image(sectionKey, slotID string) (catalog.ImageRef, bool) {
	if ref, ok := m[sectionKey+":"+slotID]; ok {
		return ref, true
	}
	ref, ok := m[slotID]
	return ref, ok
}

// NoImages is an empty source: every slot renders as a placeholder.
var NoImages ImageSource = MapSource{}

// FromManifest adapts a decoded image manifest to an ImageSource.
func FromManifest(m catalog.ImageManifest) ImageSource {
	return MapSource(m.Images)
}

// URLResolver turns an opaque storage path into a browser-reachable URL.
// Storage resolution lives outside the core; the default keeps the path
// as-is, which suits local preview where paths are served verbatim.
type URLResolver func(storagePath string) string
