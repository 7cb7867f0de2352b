// Package preprocess cleans tweet-like texts and derives the feature sets of the
// corpus from them.
package preprocess

import (
	"regexp"
	"strings"

	"github.com/dan-locke/clean-html"
	"github.com/hscells/go-unidecode"
)

// TextProcessor is applied to texts before features are extracted.
type TextProcessor func(text string) string

var (
	alphanum, _ = regexp.Compile("[^a-zA-Z0-9 ]+")
	numbers, _  = regexp.Compile("[0-9]")
	spaces, _   = regexp.Compile(`\s+`)
	urls, _     = regexp.Compile(`(https?://|www\.)\S+`)
	mentions, _ = regexp.Compile(`@\w+`)
	hashtags, _ = regexp.Compile(`#(\w+)`)
	retweet, _  = regexp.Compile(`^RT\s+`)
)

// AlphaNum removes all non-alphanumeric characters from a text.
func AlphaNum(text string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(alphanum.ReplaceAllString(text, " "), " "))
}

// StripNumbers removes numbers from a text.
func StripNumbers(text string) string {
	return numbers.ReplaceAllString(text, "")
}

// Lowercase transforms all capital letters to lowercase.
func Lowercase(text string) string {
	return strings.ToLower(text)
}

// StripURLs removes links.
func StripURLs(text string) string {
	return collapse(urls.ReplaceAllString(text, " "))
}

// StripMentions removes user mentions and a leading retweet marker.
func StripMentions(text string) string {
	return collapse(mentions.ReplaceAllString(retweet.ReplaceAllString(text, ""), " "))
}

// StripHashtags keeps the word of a hashtag but drops the marker.
func StripHashtags(text string) string {
	return hashtags.ReplaceAllString(text, "$1")
}

// Unidecode transliterates the text to ASCII.
func Unidecode(text string) string {
	return unidecode.Unidecode(text)
}

// StripHTML keeps only the text portions of a fragment of markup.
func StripHTML(text string) string {
	portions, err := clean_html.TextPos([]byte(text))
	if err != nil {
		return text
	}
	var b strings.Builder
	for i := range portions.Positions {
		b.WriteString(text[portions.Positions[i][0]:portions.Positions[i][1]])
		b.WriteByte(' ')
	}
	return collapse(b.String())
}

func collapse(text string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(text, " "))
}

// ProcessText applies processors in order.
func ProcessText(text string, processors ...TextProcessor) string {
	for _, p := range processors {
		text = p(text)
	}
	return text
}

// TweetProcessors removes the parts of a tweet that carry no content.
var TweetProcessors = []TextProcessor{StripURLs, StripMentions, StripHashtags}
