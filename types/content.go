package types

import (
	"encoding/json"
	"net/url"
	"strings"
)

// Content part discriminator tags.
const (
	ContentTypeText  = "text"
	ContentTypeImage = "image"
	ContentTypeAudio = "audio"
)

// Default media types, applied when a part is constructed or decoded
// without one.
const (
	DefaultImageMediaType = "image/jpeg"
	DefaultAudioMediaType = "audio/wav"
)

// Media type allow-lists. The lists exist to keep executable or
// script-bearing content types out of the protocol. SVG is permitted but
// can embed scripts; sanitization is the ingesting service's
// responsibility.
var (
	imageMediaTypes = map[string]struct{}{
		"image/jpeg":    {},
		"image/png":     {},
		"image/gif":     {},
		"image/webp":    {},
		"image/svg+xml": {},
	}
	audioMediaTypes = map[string]struct{}{
		"audio/wav":  {},
		"audio/mp3":  {},
		"audio/ogg":  {},
		"audio/mpeg": {},
		"audio/webm": {},
	}
)

// ContentPart is one piece of multimodal message content. The concrete
// variants are TextPart, ImagePart, and AudioPart; consumers switch on the
// concrete type rather than inspecting the wire tag.
type ContentPart interface {
	// PartType returns the wire discriminator ("text", "image", "audio").
	PartType() string
	// Validate checks the variant's invariants.
	Validate() error

	isContentPart()
}

// UnmarshalContentPart resolves a tagged payload to its concrete variant.
// A payload with a missing or unrecognized "type" tag fails resolution; the
// selected variant then validates against its own schema only, rejecting
// any cross-variant fields.
func UnmarshalContentPart(data []byte) (ContentPart, error) {
	var probe struct {
		Type *string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, newValidationError("content_part", RuleSchema, "%v", err)
	}
	if probe.Type == nil {
		return nil, newValidationError("type", RuleDiscriminator,
			`content part is missing the "type" discriminator`)
	}
	switch *probe.Type {
	case ContentTypeText:
		var p TextPart
		if err := p.UnmarshalJSON(data); err != nil {
			return nil, err
		}
		return p, nil
	case ContentTypeImage:
		var p ImagePart
		if err := p.UnmarshalJSON(data); err != nil {
			return nil, err
		}
		return p, nil
	case ContentTypeAudio:
		var p AudioPart
		if err := p.UnmarshalJSON(data); err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, newValidationError("type", RuleDiscriminator,
			"unknown content part type %q", *probe.Type)
	}
}

// --- TextPart ---

// TextPart is a plain-text content part.
type TextPart struct {
	Text SemanticText `json:"text"`
}

// NewTextPart validates text and wraps it in a part.
func NewTextPart(text string) (TextPart, error) {
	t, err := NewSemanticText(text)
	if err != nil {
		return TextPart{}, err
	}
	p := TextPart{Text: t}
	if err := p.Validate(); err != nil {
		return TextPart{}, err
	}
	return p, nil
}

func (TextPart) PartType() string { return ContentTypeText }
func (TextPart) isContentPart()   {}

// Validate requires at least one character of text.
func (p TextPart) Validate() error {
	if len(p.Text) == 0 {
		return newValidationError("text", RuleRequired, "text part must not be empty")
	}
	return p.Text.Validate()
}

func (p TextPart) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string       `json:"type"`
		Text SemanticText `json:"text"`
	}{ContentTypeText, p.Text})
}

func (p *TextPart) UnmarshalJSON(data []byte) error {
	var w struct {
		Type string       `json:"type"`
		Text SemanticText `json:"text"`
	}
	if err := decodeStrict(data, &w, "text_part"); err != nil {
		return err
	}
	if w.Type != "" && w.Type != ContentTypeText {
		return newValidationError("type", RuleDiscriminator,
			"expected type %q, got %q", ContentTypeText, w.Type)
	}
	out := TextPart{Text: w.Text}
	if err := out.Validate(); err != nil {
		return err
	}
	*p = out
	return nil
}

// --- ImagePart ---

// ImagePart references an image by exactly one of base64 data or an
// absolute URL.
type ImagePart struct {
	MediaType string `json:"media_type"`
	Data      string `json:"data,omitempty"`
	URL       string `json:"url,omitempty"`
}

// NewImageDataPart builds an image part from base64 data. An empty
// mediaType selects image/jpeg.
func NewImageDataPart(mediaType, data string) (ImagePart, error) {
	p := ImagePart{MediaType: defaultMediaType(mediaType, DefaultImageMediaType), Data: data}
	if err := p.Validate(); err != nil {
		return ImagePart{}, err
	}
	return p, nil
}

// NewImageURLPart builds an image part from an absolute URL. An empty
// mediaType selects image/jpeg.
func NewImageURLPart(mediaType, rawURL string) (ImagePart, error) {
	p := ImagePart{MediaType: defaultMediaType(mediaType, DefaultImageMediaType), URL: rawURL}
	if err := p.Validate(); err != nil {
		return ImagePart{}, err
	}
	return p, nil
}

func (ImagePart) PartType() string { return ContentTypeImage }
func (ImagePart) isContentPart()   {}

// Validate checks the MIME allow-list and the data/url exclusivity rule.
func (p ImagePart) Validate() error {
	if err := validateMediaType("media_type", p.MediaType, imageMediaTypes); err != nil {
		return err
	}
	return validateSource("image part", p.Data, p.URL)
}

func (p ImagePart) MarshalJSON() ([]byte, error) {
	type wire ImagePart
	return json.Marshal(struct {
		Type string `json:"type"`
		wire
	}{ContentTypeImage, wire(p)})
}

func (p *ImagePart) UnmarshalJSON(data []byte) error {
	var w struct {
		Type      string `json:"type"`
		MediaType string `json:"media_type"`
		Data      string `json:"data"`
		URL       string `json:"url"`
	}
	if err := decodeStrict(data, &w, "image_part"); err != nil {
		return err
	}
	if w.Type != "" && w.Type != ContentTypeImage {
		return newValidationError("type", RuleDiscriminator,
			"expected type %q, got %q", ContentTypeImage, w.Type)
	}
	out := ImagePart{
		MediaType: defaultMediaType(w.MediaType, DefaultImageMediaType),
		Data:      w.Data,
		URL:       w.URL,
	}
	if err := out.Validate(); err != nil {
		return err
	}
	*p = out
	return nil
}

// --- AudioPart ---

// AudioPart references an audio clip by exactly one of base64 data or an
// absolute URL.
type AudioPart struct {
	MediaType string `json:"media_type"`
	Data      string `json:"data,omitempty"`
	URL       string `json:"url,omitempty"`
}

// NewAudioDataPart builds an audio part from base64 data. An empty
// mediaType selects audio/wav.
func NewAudioDataPart(mediaType, data string) (AudioPart, error) {
	p := AudioPart{MediaType: defaultMediaType(mediaType, DefaultAudioMediaType), Data: data}
	if err := p.Validate(); err != nil {
		return AudioPart{}, err
	}
	return p, nil
}

// NewAudioURLPart builds an audio part from an absolute URL. An empty
// mediaType selects audio/wav.
func NewAudioURLPart(mediaType, rawURL string) (AudioPart, error) {
	p := AudioPart{MediaType: defaultMediaType(mediaType, DefaultAudioMediaType), URL: rawURL}
	if err := p.Validate(); err != nil {
		return AudioPart{}, err
	}
	return p, nil
}

func (AudioPart) PartType() string { return ContentTypeAudio }
func (AudioPart) isContentPart()   {}

// Validate checks the MIME allow-list and the data/url exclusivity rule.
func (p AudioPart) Validate() error {
	if err := validateMediaType("media_type", p.MediaType, audioMediaTypes); err != nil {
		return err
	}
	return validateSource("audio part", p.Data, p.URL)
}

func (p AudioPart) MarshalJSON() ([]byte, error) {
	type wire AudioPart
	return json.Marshal(struct {
		Type string `json:"type"`
		wire
	}{ContentTypeAudio, wire(p)})
}

func (p *AudioPart) UnmarshalJSON(data []byte) error {
	var w struct {
		Type      string `json:"type"`
		MediaType string `json:"media_type"`
		Data      string `json:"data"`
		URL       string `json:"url"`
	}
	if err := decodeStrict(data, &w, "audio_part"); err != nil {
		return err
	}
	if w.Type != "" && w.Type != ContentTypeAudio {
		return newValidationError("type", RuleDiscriminator,
			"expected type %q, got %q", ContentTypeAudio, w.Type)
	}
	out := AudioPart{
		MediaType: defaultMediaType(w.MediaType, DefaultAudioMediaType),
		Data:      w.Data,
		URL:       w.URL,
	}
	if err := out.Validate(); err != nil {
		return err
	}
	*p = out
	return nil
}

// --- shared validators ---

func defaultMediaType(mt, fallback string) string {
	if strings.TrimSpace(mt) == "" {
		return fallback
	}
	return mt
}

func validateMediaType(field, mt string, allowed map[string]struct{}) error {
	if _, ok := allowed[mt]; !ok {
		return newValidationError(field, RuleMediaType,
			"media type %q is not allow-listed", mt)
	}
	return nil
}

// validateSource enforces that exactly one of data or url carries the
// payload source.
func validateSource(what, data, rawURL string) error {
	hasData := strings.TrimSpace(data) != ""
	hasURL := strings.TrimSpace(rawURL) != ""
	if !hasData && !hasURL {
		return newValidationError("data", RuleSourceExclusive,
			"%s must have either data or url", what)
	}
	if hasData && hasURL {
		return newValidationError("data", RuleSourceExclusive,
			"%s cannot have both data and url", what)
	}
	if hasURL {
		u, err := url.Parse(rawURL)
		if err != nil || !u.IsAbs() {
			return newValidationError("url", RulePattern,
				"%s url must be absolute", what)
		}
	}
	return nil
}
