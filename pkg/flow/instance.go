package flow

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/syednoorhussain2025/articleflow/pkg/catalog"
)

// =============================================================================
// Input
// =============================================================================

// Input carries everything one layout computation needs. The engine treats
// all of it as already-final: the authoring UI has finished mutating the
// template, and the caller has decided the breakpoint.
type Input struct {
	Template   catalog.TemplateDef `json:"template"`
	Catalog    catalog.Catalog     `json:"catalog"`
	Text       string              `json:"text"`
	Breakpoint catalog.Breakpoint  `json:"breakpoint"`
}

// MarshalInput serializes an Input to canonical JSON, primarily for
// content-addressed cache keys.
func MarshalInput(in Input) ([]byte, error) {
	return json.Marshal(in)
}

// =============================================================================
// Instance - Engine Output
// =============================================================================

// Instance is the engine's sole output: an ordered, flat list of block
// instances plus the leftover marker. It is an immutable value; there is no
// incremental or patchable state.
type Instance struct {
	TemplateID      string             `json:"template_id"`
	TemplateVersion int                `json:"template_version"`
	Breakpoint      catalog.Breakpoint `json:"breakpoint"`
	Flow            []BlockInstance    `json:"flow"`

	// Leftover marks unconsumed master text. It is only set under the
	// "stop" overflow strategy; under "continue" the tail is dropped and
	// Leftover stays nil. Informational, not an error.
	Leftover *Leftover `json:"leftover,omitempty"`
}

// Leftover marks the start of the unconsumed tail of the master text.
type Leftover struct {
	StartChar int `json:"start_char"`
}

// BlockInstance is a tagged union - check Kind to determine which fields
// are populated:
//
//	Text (kind "text"):
//	  - StartChar, EndChar: half-open slice [StartChar, EndChar) of the
//	    master text, non-overlapping with every other text instance
//
//	Image ("image"), quote ("quote"):
//	  - ImageSlotID: the slot awaiting content
//
//	Carousel ("carousel"):
//	  - ImageSlotIDs: ordered slots awaiting content
//
// Every variant carries the section type, the section instance key, and
// the block id it belongs to.
type BlockInstance struct {
	SectionType string            `json:"section_type"`
	SectionKey  string            `json:"section_key"`
	BlockID     string            `json:"block_id"`
	Kind        catalog.BlockKind `json:"kind"`

	// Text variant.
	StartChar int `json:"start_char,omitempty"`
	EndChar   int `json:"end_char,omitempty"`

	// Image and quote variants.
	ImageSlotID string `json:"slot,omitempty"`

	// Carousel variant.
	ImageSlotIDs []string `json:"slots,omitempty"`
}

// IsText reports whether this is a text instance.
func (b *BlockInstance) IsText() bool { return b.Kind == catalog.KindText }

// Text slices the instance's excerpt out of the master text.
// Returns "" for non-text instances.
func (b *BlockInstance) Text(masterText string) string {
	if !b.IsText() {
		return ""
	}
	return masterText[b.StartChar:b.EndChar]
}

// =============================================================================
// Serialization
// =============================================================================

// Marshal serializes an Instance to pretty-printed JSON bytes. The output
// is deterministic, so identical inputs produce byte-identical artifacts.
func Marshal(inst Instance) ([]byte, error) {
	return json.MarshalIndent(inst, "", "  ")
}

// Unmarshal deserializes JSON bytes into an Instance.
func Unmarshal(data []byte) (Instance, error) {
	var inst Instance
	if err := json.Unmarshal(data, &inst); err != nil {
		return Instance{}, fmt.Errorf("unmarshal layout instance: %w", err)
	}
	return inst, nil
}

// WriteFile writes an Instance to a JSON file.
func WriteFile(inst Instance, path string) error {
	data, err := Marshal(inst)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads an Instance from a JSON file.
func ReadFile(path string) (Instance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Instance{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
