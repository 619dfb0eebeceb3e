package youtube

import "testing"

func TestExtractVideoID(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://example.com/watch?v=dQw4w9WgXcQ", ""},
		{"not a url", ""},
		{"", ""},
	}

	for _, tc := range cases {
		if got := ExtractVideoID(tc.url); got != tc.want {
			t.Errorf("ExtractVideoID(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestExtractChannelRef(t *testing.T) {
	ref, ok := ExtractChannelRef("https://www.youtube.com/channel/UC1234567890123456789012")
	if !ok || ref.Kind != ChannelRefID || ref.Value != "UC1234567890123456789012" {
		t.Fatalf("channel url: ok=%v ref=%+v", ok, ref)
	}

	ref, ok = ExtractChannelRef("https://www.youtube.com/@SomeCreator")
	if !ok || ref.Kind != ChannelRefHandle || ref.Value != "SomeCreator" {
		t.Fatalf("handle url: ok=%v ref=%+v", ok, ref)
	}

	ref, ok = ExtractChannelRef("https://www.youtube.com/user/oldschool")
	if !ok || ref.Kind != ChannelRefUsername || ref.Value != "oldschool" {
		t.Fatalf("user url: ok=%v ref=%+v", ok, ref)
	}

	ref, ok = ExtractChannelRef("UC1234567890123456789012")
	if !ok || ref.Kind != ChannelRefID {
		t.Fatalf("bare id: ok=%v ref=%+v", ok, ref)
	}

	if _, ok := ExtractChannelRef("https://example.com/@nope"); ok {
		t.Fatal("non-youtube host should not match")
	}
}
