package field

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	emailPattern      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern      = regexp.MustCompile(`^\d{7,}$`)
	nationalIDPattern = regexp.MustCompile(`^\d{7,8}$`)
	letterPattern     = regexp.MustCompile(`[a-zA-Z]`)
	digitPattern      = regexp.MustCompile(`\d`)
	spacePattern      = regexp.MustCompile(`\s`)
)

// All combines predicates; every one must pass.
func All(predicates ...Predicate) Predicate {
	return func(value string, live Lookup) bool {
		for _, p := range predicates {
			if p != nil && !p(value, live) {
				return false
			}
		}
		return true
	}
}

// MinLength requires at least n characters.
func MinLength(n int) Predicate {
	return func(value string, _ Lookup) bool {
		return utf8.RuneCountInString(value) >= n
	}
}

// LongerThan requires strictly more than n characters.
func LongerThan(n int) Predicate {
	return func(value string, _ Lookup) bool {
		return utf8.RuneCountInString(value) > n
	}
}

// Contains requires the substring sub.
func Contains(sub string) Predicate {
	return func(value string, _ Lookup) bool {
		return strings.Contains(value, sub)
	}
}

// Pattern requires re to match somewhere in the value. Anchor the expression
// to match the whole value.
func Pattern(re *regexp.Regexp) Predicate {
	return func(value string, _ Lookup) bool {
		return re.MatchString(value)
	}
}

// MatchesField requires the value to equal the raw live value of another
// field, read when the predicate runs.
func MatchesField(id string) Predicate {
	return func(value string, live Lookup) bool {
		if live == nil {
			return false
		}
		return value == live.Value(id)
	}
}

// IntegerAtLeast requires a base-10 integer no smaller than min.
func IntegerAtLeast(min int) Predicate {
	return func(value string, _ Lookup) bool {
		n, err := strconv.Atoi(value)
		if errors.Is(err, strconv.ErrRange) {
			// Out of int range: only a positive overflow can reach min.
			return !strings.HasPrefix(value, "-")
		}
		if err != nil {
			return false
		}
		return n >= min
	}
}

// FullName: more than six characters and at least one space.
func FullName() Predicate {
	return All(LongerThan(6), Contains(" "))
}

func Email() Predicate {
	return Pattern(emailPattern)
}

// Password: eight characters or more mixing letters and digits.
func Password() Predicate {
	return All(MinLength(8), Pattern(letterPattern), Pattern(digitPattern))
}

func Phone() Predicate {
	return Pattern(phonePattern)
}

// Address: five characters or more with a letter, a digit and whitespace.
func Address() Predicate {
	return All(MinLength(5), Pattern(letterPattern), Pattern(digitPattern), Pattern(spacePattern))
}

func NationalID() Predicate {
	return Pattern(nationalIDPattern)
}
