package domain

import (
	"encoding/json"
	"fmt"
	"slices"
)

// BlockType is the discriminator of a content block.
type BlockType string

const (
	// BlockRichText is sanitised HTML with an optional title.
	BlockRichText BlockType = "rte"

	// BlockImageText combines one image with rich text.
	BlockImageText BlockType = "imgRte"

	// BlockGallery is an unordered display set of images.
	BlockGallery BlockType = "gallery"

	// BlockCarousel has the gallery shape but renders as a slideshow.
	BlockCarousel BlockType = "carousel"
)

// BlockTypes returns every block variant in menu order.
func BlockTypes() []BlockType {
	return []BlockType{BlockRichText, BlockImageText, BlockGallery, BlockCarousel}
}

// IsValid reports whether t names a known variant.
func (t BlockType) IsValid() bool {
	switch t {
	case BlockRichText, BlockImageText, BlockGallery, BlockCarousel:
		return true
	}
	return false
}

// Label returns the human-readable name shown in variant pickers.
func (t BlockType) Label() string {
	switch t {
	case BlockRichText:
		return "Text Only"
	case BlockImageText:
		return "Text with Image"
	case BlockGallery:
		return "Gallery"
	case BlockCarousel:
		return "Carousel"
	}
	return string(t)
}

// Next returns the variant after t in menu order, wrapping around.
func (t BlockType) Next() BlockType {
	types := BlockTypes()
	i := slices.Index(types, t)
	return types[(i+1)%len(types)]
}

// ParseBlockType converts a user-supplied string to a BlockType.
func ParseBlockType(s string) (BlockType, error) {
	t := BlockType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownBlockType, s)
	}
	return t, nil
}

// ImagePosition places the image of an image+text block.
type ImagePosition string

const (
	ImageLeft  ImagePosition = "left"
	ImageRight ImagePosition = "right"
)

// IsValid reports whether p is left or right.
func (p ImagePosition) IsValid() bool {
	return p == ImageLeft || p == ImageRight
}

// Block is one content unit. The set of implementations is closed:
// RichText, ImageText, Gallery and Carousel.
type Block interface {
	// Type returns the variant discriminator.
	Type() BlockType

	// BlockID returns the block's identity, stable across edits and type changes.
	BlockID() string

	// BlockTitle returns the optional title shared by every variant.
	BlockTitle() string

	isBlock()
}

// RichText is the "rte" variant.
type RichText struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title,omitempty"`
	Label string `json:"label,omitempty"`
	Value string `json:"value"`
}

// ImageText is the "imgRte" variant.
type ImageText struct {
	ID            string        `json:"id,omitempty"`
	Title         string        `json:"title,omitempty"`
	Label         string        `json:"label,omitempty"`
	Value         string        `json:"value"`
	ImageURL      string        `json:"imageUrl"`
	ImagePosition ImagePosition `json:"imagePosition"`
}

// Gallery is the "gallery" variant.
type Gallery struct {
	ID        string   `json:"id,omitempty"`
	Title     string   `json:"title,omitempty"`
	ImageURLs []string `json:"imageUrls"`
}

// Carousel is the "carousel" variant.
type Carousel struct {
	ID        string   `json:"id,omitempty"`
	Title     string   `json:"title,omitempty"`
	ImageURLs []string `json:"imageUrls"`
}

func (RichText) Type() BlockType  { return BlockRichText }
func (ImageText) Type() BlockType { return BlockImageText }
func (Gallery) Type() BlockType   { return BlockGallery }
func (Carousel) Type() BlockType  { return BlockCarousel }

func (b RichText) BlockID() string  { return b.ID }
func (b ImageText) BlockID() string { return b.ID }
func (b Gallery) BlockID() string   { return b.ID }
func (b Carousel) BlockID() string  { return b.ID }

func (b RichText) BlockTitle() string  { return b.Title }
func (b ImageText) BlockTitle() string { return b.Title }
func (b Gallery) BlockTitle() string   { return b.Title }
func (b Carousel) BlockTitle() string  { return b.Title }

func (RichText) isBlock()  {}
func (ImageText) isBlock() {}
func (Gallery) isBlock()   {}
func (Carousel) isBlock()  {}

// NewBlock returns the default block created by "add": empty rich text.
func NewBlock(id string) Block {
	return RichText{ID: id}
}

// MarshalJSON writes the block with its "type" discriminator.
func (b RichText) MarshalJSON() ([]byte, error) {
	type wire RichText
	return json.Marshal(struct {
		Type BlockType `json:"type"`
		wire
	}{BlockRichText, wire(b)})
}

// MarshalJSON writes the block with its "type" discriminator.
func (b ImageText) MarshalJSON() ([]byte, error) {
	type wire ImageText
	return json.Marshal(struct {
		Type BlockType `json:"type"`
		wire
	}{BlockImageText, wire(b)})
}

// MarshalJSON writes the block with its "type" discriminator.
func (b Gallery) MarshalJSON() ([]byte, error) {
	type wire Gallery
	if b.ImageURLs == nil {
		b.ImageURLs = []string{}
	}
	return json.Marshal(struct {
		Type BlockType `json:"type"`
		wire
	}{BlockGallery, wire(b)})
}

// MarshalJSON writes the block with its "type" discriminator.
func (b Carousel) MarshalJSON() ([]byte, error) {
	type wire Carousel
	if b.ImageURLs == nil {
		b.ImageURLs = []string{}
	}
	return json.Marshal(struct {
		Type BlockType `json:"type"`
		wire
	}{BlockCarousel, wire(b)})
}

// DecodeBlock reads one stored block, dispatching on its "type" field.
func DecodeBlock(data []byte) (Block, error) {
	var head struct {
		Type BlockType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decoding block: %w", err)
	}

	switch head.Type {
	case BlockRichText:
		var b RichText
		err := json.Unmarshal(data, &b)
		return b, err
	case BlockImageText:
		var b ImageText
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, err
		}
		if b.ImagePosition == "" {
			b.ImagePosition = ImageLeft
		}
		return b, nil
	case BlockGallery:
		var b Gallery
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, err
		}
		if b.ImageURLs == nil {
			b.ImageURLs = []string{}
		}
		return b, nil
	case BlockCarousel:
		var b Carousel
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, err
		}
		if b.ImageURLs == nil {
			b.ImageURLs = []string{}
		}
		return b, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBlockType, head.Type)
}

// WithID returns b carrying id. Pointer variants come back as values.
func WithID(b Block, id string) Block {
	switch v := deref(b).(type) {
	case RichText:
		v.ID = id
		return v
	case ImageText:
		v.ID = id
		return v
	case Gallery:
		v.ID = id
		return v
	case Carousel:
		v.ID = id
		return v
	}
	return b
}

// CloneBlock returns a copy of b that shares no slices with it.
func CloneBlock(b Block) Block {
	switch v := deref(b).(type) {
	case Gallery:
		v.ImageURLs = slices.Clone(v.ImageURLs)
		return v
	case Carousel:
		v.ImageURLs = slices.Clone(v.ImageURLs)
		return v
	case nil:
		return nil
	default:
		return v
	}
}

// ValidateBlock checks the fields a save requires.
func ValidateBlock(b Block) error {
	switch v := deref(b).(type) {
	case nil:
		return &ValidationError{Field: "type", Reason: "block is required"}
	case ImageText:
		if !v.ImagePosition.IsValid() {
			return &ValidationError{Field: "imagePosition", Reason: "must be left or right"}
		}
	}
	return nil
}

// deref turns pointer variants into values so type switches see one shape.
func deref(b Block) Block {
	switch v := b.(type) {
	case *RichText:
		if v == nil {
			return nil
		}
		return *v
	case *ImageText:
		if v == nil {
			return nil
		}
		return *v
	case *Gallery:
		if v == nil {
			return nil
		}
		return *v
	case *Carousel:
		if v == nil {
			return nil
		}
		return *v
	}
	return b
}
