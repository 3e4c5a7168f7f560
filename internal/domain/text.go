package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinTitleLength is the shortest title, in runes, a NewsItem may carry.
const MinTitleLength = 5

var noticePrefix = regexp.MustCompile(`\[공지\]|\[새글\]|NEW`)

// CollapseSpace trims s and folds internal whitespace runs to one space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CleanTitle strips notice markers and surrounding whitespace.
func CleanTitle(raw string) string {
	return CollapseSpace(noticePrefix.ReplaceAllString(raw, ""))
}

// TitleLength counts runes, which is what the length rules are written in.
func TitleLength(s string) int {
	return utf8.RuneCountInString(s)
}

// ValidTitle reports whether a cleaned title is long enough to keep.
func ValidTitle(title string) bool {
	return TitleLength(title) >= MinTitleLength
}
