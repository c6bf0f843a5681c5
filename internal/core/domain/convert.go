package domain

import "slices"

// blockFields is the union of every variant's fields, used to move
// data between shapes in one place.
type blockFields struct {
	id, title, label, value string
	textual                 bool
	imageURLs               []string
	imageSet                bool
}

func fieldsOf(b Block) blockFields {
	switch v := deref(b).(type) {
	case RichText:
		return blockFields{id: v.ID, title: v.Title, label: v.Label, value: v.Value, textual: true}
	case ImageText:
		return blockFields{id: v.ID, title: v.Title, label: v.Label, value: v.Value, textual: true}
	case Gallery:
		return blockFields{id: v.ID, title: v.Title, imageURLs: v.ImageURLs, imageSet: true}
	case Carousel:
		return blockFields{id: v.ID, title: v.Title, imageURLs: v.ImageURLs, imageSet: true}
	}
	return blockFields{}
}

// Convert migrates b to the target variant.
//
//   - rte → imgRte keeps title and value, image starts empty on the left.
//   - imgRte → rte keeps title and value, drops the image.
//   - rte|imgRte → gallery|carousel keeps title, starts with no images.
//   - gallery ↔ carousel keeps title and images verbatim.
//   - gallery|carousel → rte|imgRte keeps title, value starts empty.
//
// Identity (ID) survives every transition. Convert never fails: a nil
// block converts like an empty one and an unknown target yields the
// default rich-text block carrying only the title.
func Convert(b Block, target BlockType) Block {
	f := fieldsOf(b)

	switch target {
	case BlockRichText:
		out := RichText{ID: f.id, Title: f.title}
		if f.textual {
			out.Label, out.Value = f.label, f.value
		}
		return out

	case BlockImageText:
		if cur, ok := deref(b).(ImageText); ok {
			return cur
		}
		out := ImageText{ID: f.id, Title: f.title, ImagePosition: ImageLeft}
		if f.textual {
			out.Label, out.Value = f.label, f.value
		}
		return out

	case BlockGallery:
		out := Gallery{ID: f.id, Title: f.title, ImageURLs: []string{}}
		if f.imageSet {
			out.ImageURLs = cloneURLs(f.imageURLs)
		}
		return out

	case BlockCarousel:
		out := Carousel{ID: f.id, Title: f.title, ImageURLs: []string{}}
		if f.imageSet {
			out.ImageURLs = cloneURLs(f.imageURLs)
		}
		return out
	}

	return RichText{ID: f.id, Title: f.title}
}

func cloneURLs(urls []string) []string {
	if urls == nil {
		return []string{}
	}
	return slices.Clone(urls)
}
