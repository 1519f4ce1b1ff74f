package models

import (
	"golang.org/x/text/language"

	"github.com/peoplepower/ppsync-go/pkg/bag"
	"github.com/peoplepower/ppsync-go/pkg/enum"
	"github.com/peoplepower/ppsync-go/pkg/model"
	"github.com/peoplepower/ppsync-go/pkg/opt"
)

// MediaType classifies device type media.
type MediaType int

const (
	MediaVideo MediaType = iota
	MediaImage
	MediaAudio
	MediaTextDocument
	MediaUnrecognized
)

// MediaTypes maps media type codes.
var MediaTypes = enum.NewTable("media type", MediaUnrecognized,
	enum.Entry[MediaType]{Variant: MediaVideo, Code: 1, Names: []string{"video"}},
	enum.Entry[MediaType]{Variant: MediaImage, Code: 2, Names: []string{"image"}},
	enum.Entry[MediaType]{Variant: MediaAudio, Code: 3, Names: []string{"audio"}},
	enum.Entry[MediaType]{Variant: MediaTextDocument, Code: 4, Names: []string{"text", "document"}},
)

// DeviceTypeMedia is a file attached to a device type. Desc holds one
// description per language.
type DeviceTypeMedia struct {
	ID          opt.Value[string]
	Type        opt.Value[MediaType]
	URL         opt.Value[string]
	ContentType opt.Value[string]
	Desc        *bag.Bag
}

// Description returns the description best matching the preferred
// languages.
func (m *DeviceTypeMedia) Description(preferred ...language.Tag) (string, bool) {
	if m.Desc == nil {
		return "", false
	}
	return m.Desc.Localize(preferred...)
}

// DeviceTypeMediaTable is the field table of DeviceTypeMedia.
var DeviceTypeMediaTable = model.NewTable[DeviceTypeMedia]("deviceTypeMedia",
	model.String("id", func(m *DeviceTypeMedia) *opt.Value[string] { return &m.ID }).Identity(),
	model.Enum("mediaType", func(m *DeviceTypeMedia) *opt.Value[MediaType] { return &m.Type }, MediaTypes),
	model.String("url", func(m *DeviceTypeMedia) *opt.Value[string] { return &m.URL }),
	model.String("contentType", func(m *DeviceTypeMedia) *opt.Value[string] { return &m.ContentType }),
	model.Bag("desc", func(m *DeviceTypeMedia) **bag.Bag { return &m.Desc }),
)

// DeviceTypeMediaKey returns the collection key of a media file.
func DeviceTypeMediaKey(m *DeviceTypeMedia) string { return m.ID.Or("") }
