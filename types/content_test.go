package types

import (
	"encoding/json"
	"testing"
)

func TestContentPartDispatch(t *testing.T) {
	t.Parallel()

	part, err := UnmarshalContentPart([]byte(`{"type":"text","text":"hello"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tp, ok := part.(TextPart)
	if !ok {
		t.Fatalf("expected TextPart, got %T", part)
	}
	if tp.Text != "hello" {
		t.Fatalf("unexpected text: %q", tp.Text)
	}

	part, err = UnmarshalContentPart([]byte(`{"type":"audio","media_type":"audio/mp3","url":"https://cdn.example.com/a.mp3"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := part.(AudioPart); !ok {
		t.Fatalf("expected AudioPart, got %T", part)
	}

	for name, payload := range map[string]string{
		"missing tag": `{"text":"hello"}`,
		"unknown tag": `{"type":"video","url":"https://example.com/v.mp4"}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := UnmarshalContentPart([]byte(payload))
			if err == nil {
				t.Fatal("expected dispatch failure")
			}
			if got := ruleOf(t, err); got != RuleDiscriminator {
				t.Fatalf("expected rule %q, got %q", RuleDiscriminator, got)
			}
		})
	}

	// Cross-variant fields are schema violations for the selected variant.
	if _, err := UnmarshalContentPart([]byte(`{"type":"text","text":"x","media_type":"image/png"}`)); err == nil {
		t.Fatal("expected cross-variant field rejection")
	}
}

func TestImagePartSourceRules(t *testing.T) {
	t.Parallel()

	p, err := NewImageDataPart("", "aGVsbG8=")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.MediaType != DefaultImageMediaType {
		t.Fatalf("expected default media type, got %q", p.MediaType)
	}

	if _, err := NewImageURLPart("image/png", "https://example.com/pic.png"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		name string
		p    ImagePart
		rule string
	}{
		{"neither source", ImagePart{MediaType: "image/png"}, RuleSourceExclusive},
		{"both sources", ImagePart{MediaType: "image/png", Data: "x", URL: "https://e.com/p"}, RuleSourceExclusive},
		{"blank data only", ImagePart{MediaType: "image/png", Data: "   "}, RuleSourceExclusive},
		{"relative url", ImagePart{MediaType: "image/png", URL: "/pic.png"}, RulePattern},
		{"bad media type", ImagePart{MediaType: "image/tiff", Data: "x"}, RuleMediaType},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if err == nil {
				t.Fatal("expected rejection")
			}
			if got := ruleOf(t, err); got != tt.rule {
				t.Fatalf("expected rule %q, got %q", tt.rule, got)
			}
		})
	}
}

func TestAudioPartDefaults(t *testing.T) {
	t.Parallel()

	p, err := NewAudioDataPart("", "c291bmQ=")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.MediaType != DefaultAudioMediaType {
		t.Fatalf("expected default media type, got %q", p.MediaType)
	}

	if _, err := NewAudioDataPart("audio/flac", "x"); err == nil {
		t.Fatal("expected media type rejection")
	}
}

func TestContentPartRoundTrip(t *testing.T) {
	t.Parallel()

	orig, err := NewImageURLPart("image/webp", "https://example.com/i.webp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back, err := UnmarshalContentPart(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.(ImagePart) != orig {
		t.Fatalf("round trip changed the value: %+v != %+v", back, orig)
	}
}
