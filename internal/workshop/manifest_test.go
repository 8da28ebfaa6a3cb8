package workshop

import (
	"strings"
	"testing"
)

type upperConverter struct{}

func (upperConverter) Convert(s string) string { return strings.ToUpper(s) }

func TestBuildManifestUpdateWithoutIcon(t *testing.T) {
	m := BuildManifest(Options{
		AppID:     "4000",
		Folder:    "/abs/dir",
		ID:        "123",
		Changelog: `hi "there"`,
	}, nil)

	lines := strings.Split(m.String(), "\n")
	want := []string{
		`"workshopitem"`,
		`{`,
		"\t" + `"appid" "4000"`,
		"\t" + `"contentfolder" "/abs/dir"`,
		"\t" + `"publishedfileid" "123"`,
		"\t" + `"changenote" "hi \"there\""`,
		`}`,
	}
	if len(lines) != len(want) {
		t.Fatalf("unexpected manifest:\n%s", m.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
	if _, ok := m.Get("previewfile"); ok {
		t.Fatalf("previewfile must be omitted when updating without an icon")
	}
}

func TestBuildManifestNewItemDefaults(t *testing.T) {
	m := BuildManifest(Options{AppID: "4000", Folder: "/abs/dir"}, nil)
	if id, _ := m.Get("publishedfileid"); id != NewItemID {
		t.Fatalf("expected sentinel id, got %q", id)
	}
	if icon, _ := m.Get("previewfile"); icon != DefaultIcon {
		t.Fatalf("expected default icon, got %q", icon)
	}
}

func TestBuildManifestFieldOrder(t *testing.T) {
	vis := Unlisted
	m := BuildManifest(Options{
		AppID:       "4000",
		Folder:      "/abs/dir",
		ID:          "9",
		Changelog:   "notes",
		Icon:        "/abs/icon.jpg",
		Title:       "My Addon",
		Description: `say "hi"`,
		Visibility:  &vis,
	}, upperConverter{})

	wantKeys := []string{"appid", "contentfolder", "publishedfileid", "changenote", "previewfile", "title", "description", "visibility"}
	if len(m) != len(wantKeys) {
		t.Fatalf("expected %d fields, got %+v", len(wantKeys), m)
	}
	for i, key := range wantKeys {
		if m[i].Key != key {
			t.Errorf("field %d = %q, want %q", i, m[i].Key, key)
		}
	}
	if got, _ := m.Get("changenote"); got != "NOTES" {
		t.Errorf("changenote not converted: %q", got)
	}
	if got, _ := m.Get("description"); got != `SAY \"HI\"` {
		t.Errorf("description not converted then escaped: %q", got)
	}
	if got, _ := m.Get("title"); got != "My Addon" {
		t.Errorf("title must not be converted: %q", got)
	}
	if got, _ := m.Get("visibility"); got != "3" {
		t.Errorf("unexpected visibility %q", got)
	}
}

func TestBuildManifestExplicitPublicVisibility(t *testing.T) {
	vis := Public
	m := BuildManifest(Options{AppID: "4000", Folder: "/abs", Visibility: &vis}, nil)
	if got, ok := m.Get("visibility"); !ok || got != "0" {
		t.Fatalf("expected explicit public visibility, got %q (%v)", got, ok)
	}
	m = BuildManifest(Options{AppID: "4000", Folder: "/abs"}, nil)
	if _, ok := m.Get("visibility"); ok {
		t.Fatalf("visibility must be omitted when unset")
	}
}

func TestManifestStringHasNoTrailingWhitespace(t *testing.T) {
	out := BuildManifest(Options{AppID: "4000", Folder: "/abs"}, nil).String()
	if out != strings.TrimSpace(out) {
		t.Fatalf("manifest has surrounding whitespace: %q", out)
	}
	if !strings.HasSuffix(out, "\n}") {
		t.Fatalf("manifest must end with closing brace: %q", out)
	}
}

func TestParseVisibility(t *testing.T) {
	cases := []struct {
		in      string
		want    Visibility
		wantNil bool
		wantErr bool
	}{
		{in: "", wantNil: true},
		{in: "0", want: Public},
		{in: "2", want: Private},
		{in: "Unlisted", want: Unlisted},
		{in: "friends", want: FriendsOnly},
		{in: "4", wantErr: true},
		{in: "hidden", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseVisibility(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseVisibility(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseVisibility(%q): %v", tc.in, err)
			continue
		}
		if tc.wantNil {
			if got != nil {
				t.Errorf("ParseVisibility(%q) = %v, want nil", tc.in, *got)
			}
			continue
		}
		if got == nil || *got != tc.want {
			t.Errorf("ParseVisibility(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestBuildManifestEscapesQuotedValues(t *testing.T) {
	m := BuildManifest(Options{
		AppID:  "4000",
		Folder: `/abs/my "addon"`,
		Icon:   `/abs/"icon".png`,
		Title:  `My "Cool" Addon`,
	}, nil)

	s := m.String()
	for _, want := range []string{
		`"contentfolder" "/abs/my \"addon\""`,
		`"previewfile" "/abs/\"icon\".png"`,
		`"title" "My \"Cool\" Addon"`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %s in manifest:\n%s", want, s)
		}
	}
}
