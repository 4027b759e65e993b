package models

import "testing"

func TestFirstEntry(t *testing.T) {
	tests := []struct {
		name     string
		desc     *PageDescriptor
		wantOK   bool
		wantName string
	}{
		{name: "nil descriptor", desc: nil},
		{name: "empty entries", desc: &PageDescriptor{Path: "/"}},
		{
			name: "only first entry is used",
			desc: &PageDescriptor{Entries: []EntryComponentMeta{
				{DisplayName: "HeroPage"},
				{DisplayName: "ArticlePage"},
			}},
			wantOK:   true,
			wantName: "HeroPage",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, ok := tt.desc.FirstEntry()
			if ok != tt.wantOK {
				t.Fatalf("FirstEntry() ok = %v; want %v", ok, tt.wantOK)
			}
			if entry.DisplayName != tt.wantName {
				t.Errorf("FirstEntry().DisplayName = %q; want %q", entry.DisplayName, tt.wantName)
			}
		})
	}
}

func TestPageRecordDescriptor(t *testing.T) {
	rec := PageRecord{
		Path:    "/about",
		Title:   "About",
		Entries: []EntryComponentMeta{{DisplayName: "RichTextPage", Params: map[string]string{"slug": "about"}}},
	}

	desc := rec.Descriptor()
	if desc.Path != "/about" || desc.Title != "About" {
		t.Errorf("Descriptor() = %+v; want path /about and title About", desc)
	}
	if got := desc.Entries[0].Params["slug"]; got != "about" {
		t.Errorf("Descriptor().Entries[0].Params[slug] = %q; want about", got)
	}
}
