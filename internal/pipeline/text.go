package pipeline

import "fmt"

// Converter turns Markdown into workshop markup.
type Converter interface {
	Convert(text string) string
}

// ResolveText picks between a plain value and its Markdown variant. Supplying
// both is an error; a Markdown value is converted.
func ResolveText(field, plain, markdown string, conv Converter) (string, error) {
	if plain != "" && markdown != "" {
		return "", fmt.Errorf("cannot provide both %s and markdown-%s", field, field)
	}
	if markdown != "" {
		return conv.Convert(markdown), nil
	}
	return plain, nil
}
