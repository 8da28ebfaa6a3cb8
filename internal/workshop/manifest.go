package workshop

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultIcon is submitted for new items published without an icon.
const DefaultIcon = "default_icon.png"

// NewItemID is the published file id that asks for a new workshop item.
const NewItemID = "0"

// Converter turns free text into the workshop markup dialect.
type Converter interface {
	Convert(text string) string
}

// Options is the upload metadata for one publish call.
type Options struct {
	AppID       string
	Folder      string
	ID          string
	Changelog   string
	Icon        string
	Title       string
	Description string
	Visibility  *Visibility
}

// Field is one manifest key/value pair.
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Manifest is an ordered, immutable list of fields.
type Manifest []Field

// BuildManifest produces the manifest fields in their fixed order: appid,
// contentfolder, publishedfileid, changenote, previewfile, title,
// description, visibility. A nil converter leaves text unchanged.
func BuildManifest(opts Options, conv Converter) Manifest {
	convert := func(s string) string {
		if conv == nil {
			return s
		}
		return conv.Convert(s)
	}

	id := opts.ID
	if id == "" {
		id = NewItemID
	}

	m := Manifest{
		{Key: "appid", Value: opts.AppID},
		{Key: "contentfolder", Value: escapeQuotes(opts.Folder)},
		{Key: "publishedfileid", Value: id},
	}
	if opts.Changelog != "" {
		m = append(m, Field{Key: "changenote", Value: escapeQuotes(convert(opts.Changelog))})
	}
	switch {
	case opts.Icon != "":
		m = append(m, Field{Key: "previewfile", Value: escapeQuotes(opts.Icon)})
	case opts.ID == "":
		m = append(m, Field{Key: "previewfile", Value: DefaultIcon})
	}
	if opts.Title != "" {
		m = append(m, Field{Key: "title", Value: escapeQuotes(opts.Title)})
	}
	if opts.Description != "" {
		m = append(m, Field{Key: "description", Value: escapeQuotes(convert(opts.Description))})
	}
	if opts.Visibility != nil {
		m = append(m, Field{Key: "visibility", Value: strconv.Itoa(int(*opts.Visibility))})
	}
	return m
}

// Get returns the value stored under key.
func (m Manifest) Get(key string) (string, bool) {
	for _, f := range m {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// String serializes the manifest as a "workshopitem" block with one quoted
// key/value line per field.
func (m Manifest) String() string {
	var b strings.Builder
	b.WriteString("\"workshopitem\"\n{")
	for _, f := range m {
		fmt.Fprintf(&b, "\n\t\"%s\" \"%s\"", f.Key, f.Value)
	}
	b.WriteString("\n}")
	return strings.TrimSpace(b.String())
}

func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
