package texture

import (
	"fmt"
	"strings"
)

// Option selects one of the bundled twig textures.
type Option int

const (
	OptionA Option = iota
	OptionB
	OptionC
)

var stems = [...]string{"twig-1", "twig-2", "twig-3"}

// Stem returns the asset stem the option resolves to.
func (o Option) Stem() string {
	if o < OptionA || o > OptionC {
		return ""
	}
	return stems[o]
}

func (o Option) String() string {
	if s := o.Stem(); s != "" {
		return s
	}
	return fmt.Sprintf("Option(%d)", int(o))
}

// ParseOption accepts a stem ("twig-2"), a letter ("b") or a 1-based
// number ("2").
func ParseOption(s string) (Option, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for i, stem := range stems {
		if v == stem || v == string(rune('a'+i)) || v == fmt.Sprint(i+1) {
			return Option(i), nil
		}
	}
	return 0, fmt.Errorf("texture: unknown leaf texture %q", s)
}

func (o Option) MarshalText() ([]byte, error) {
	if o.Stem() == "" {
		return nil, fmt.Errorf("texture: invalid option %d", int(o))
	}
	return []byte(o.Stem()), nil
}

func (o *Option) UnmarshalText(b []byte) error {
	v, err := ParseOption(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}
