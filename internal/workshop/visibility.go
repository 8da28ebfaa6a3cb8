package workshop

import (
	"fmt"
	"strconv"
	"strings"
)

// Visibility is the workshop item visibility code.
type Visibility int

const (
	Public Visibility = iota
	FriendsOnly
	Private
	Unlisted
)

var visibilityNames = map[string]Visibility{
	"public":   Public,
	"friends":  FriendsOnly,
	"private":  Private,
	"unlisted": Unlisted,
}

func (v Visibility) String() string {
	for name, code := range visibilityNames {
		if code == v {
			return name
		}
	}
	return strconv.Itoa(int(v))
}

// ParseVisibility accepts a numeric code or one of public, friends, private
// and unlisted. An empty string yields nil.
func ParseVisibility(s string) (*Visibility, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if v, ok := visibilityNames[strings.ToLower(s)]; ok {
		return &v, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < int(Public) || n > int(Unlisted) {
		return nil, fmt.Errorf("invalid visibility %q: want 0-3 or public, friends, private, unlisted", s)
	}
	v := Visibility(n)
	return &v, nil
}
