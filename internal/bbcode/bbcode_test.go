package bbcode

import "testing"

func TestConvert(t *testing.T) {
	c := New()
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "  \n", ""},
		{"paragraph", "hello world", "hello world"},
		{"emphasis", "**bold** and *italic* and ~~gone~~", "[b]bold[/b] and [i]italic[/i] and [strike]gone[/strike]"},
		{"headings", "# Title\n\n### Small\n\n###### Tiny", "[h1]Title[/h1]\n\n[h3]Small[/h3]\n\n[h3]Tiny[/h3]"},
		{"inline code", "run `make`", "run [code]make[/code]"},
		{"fenced code", "```go\nfmt.Println()\n```", "[code]fmt.Println()[/code]"},
		{"link", "[site](https://example.com)", "[url=https://example.com]site[/url]"},
		{"image", "![icon](https://example.com/i.png)", "[img]https://example.com/i.png[/img]"},
		{"unordered list", "- one\n- two", "[list]\n[*]one\n[*]two\n[/list]"},
		{"ordered list", "1. one\n2. two", "[olist]\n[*]one\n[*]two\n[/olist]"},
		{"quote", "> quoted", "[quote]quoted[/quote]"},
		{"rule", "a\n\n---\n\nb", "a\n\n[hr][/hr]\n\nb"},
		{"soft break", "line one\nline two", "line one\nline two"},
		{
			"issue autolink",
			"Fixes https://github.com/owner/repo/issues/12",
			"Fixes [url=https://github.com/owner/repo/issues/12]#12[/url]",
		},
		{
			"pull autolink",
			"See <https://github.com/owner/repo/pull/7>",
			"See [url=https://github.com/owner/repo/pull/7]#7[/url]",
		},
		{
			"explicit issue link keeps label",
			"[the bug](https://github.com/owner/repo/issues/3)",
			"[url=https://github.com/owner/repo/issues/3]the bug[/url]",
		},
		{
			"table",
			"| a | b |\n|---|---|\n| 1 | 2 |",
			"[table]\n[tr][th]a[/th][th]b[/th][/tr]\n[tr][td]1[/td][td]2[/td][/tr]\n[/table]",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := c.Convert(tc.in); got != tc.want {
				t.Fatalf("Convert(%q)\n got: %q\nwant: %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestConvertDeterministic(t *testing.T) {
	c := New()
	in := "# Changes\n\n- fixed https://github.com/o/r/issues/1\n- **faster**\n"
	first := c.Convert(in)
	if second := c.Convert(in); first != second {
		t.Fatalf("conversion not deterministic:\n%q\n%q", first, second)
	}
}

func TestRewriteIssueLinks(t *testing.T) {
	got := RewriteIssueLinks("https://github.com/a/b/pull/42 and https://github.com/a/b/tree/main")
	want := "[url=https://github.com/a/b/pull/42]#42[/url] and https://github.com/a/b/tree/main"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPassthrough(t *testing.T) {
	if got := (Passthrough{}).Convert(`keep "this"`); got != `keep "this"` {
		t.Fatalf("unexpected %q", got)
	}
}
