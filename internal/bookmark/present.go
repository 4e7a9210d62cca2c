package bookmark

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// PlaceholderIcon is shown when a link has no icon and no usable host.
const PlaceholderIcon = "data:image/svg+xml,%3Csvg xmlns='http://www.w3.org/2000/svg' viewBox='0 0 16 16'%3E%3Crect width='16' height='16' rx='3' fill='%23d0d7de'/%3E%3C/svg%3E"

const faviconService = "https://www.google.com/s2/favicons"

// Hostname returns the host of rawURL without port, or "" if rawURL is not
// an absolute URL.
func Hostname(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Scheme == "" {
		return ""
	}
	return u.Hostname()
}

// ResolveIcon picks the icon to display for a link: the explicit icon if
// any, else the favicon service for the link's host, else PlaceholderIcon.
func ResolveIcon(rawURL, icon string) string {
	if icon = strings.TrimSpace(icon); icon != "" {
		return icon
	}
	host := Hostname(rawURL)
	if host == "" {
		return PlaceholderIcon
	}
	q := url.Values{}
	q.Set("domain", host)
	q.Set("sz", "64")
	return faviconService + "?" + q.Encode()
}

// Describe returns the part of a title after its last "-" or "：",
// which bookmark titles commonly use to separate site name from page name.
// Titles without a separator are returned trimmed.
func Describe(title string) string {
	i := strings.LastIndexAny(title, "-：")
	if i < 0 {
		return strings.TrimSpace(title)
	}
	_, size := utf8.DecodeRuneInString(title[i:])
	if desc := strings.TrimSpace(title[i+size:]); desc != "" {
		return desc
	}
	return strings.TrimSpace(title)
}

type emojiRule struct {
	keywords []string
	emoji    string
}

// Ordered: the first rule with a matching keyword wins.
var emojiRules = []emojiRule{
	{[]string{"github"}, "💻"},
	{[]string{"youtube"}, "🎬"},
	{[]string{"bilibili"}, "📺"},
	{[]string{"baidu", "google"}, "🔍"},
	{[]string{"microsoft"}, "🪟"},
	{[]string{"apple"}, "🍎"},
	{[]string{"amazon"}, "🛒"},
	{[]string{"scholar"}, "🎓"},
	{[]string{"arxiv"}, "📄"},
	{[]string{"cnki"}, "📚"},
	{[]string{"ieee"}, "📝"},
	{[]string{"pdf"}, "📄"},
	{[]string{"image"}, "🖼️"},
	{[]string{"photo"}, "📸"},
	{[]string{"music"}, "🎵"},
	{[]string{"video"}, "🎬"},
	{[]string{"python"}, "🐍"},
	{[]string{"javascript"}, "⚡"},
	{[]string{"java"}, "☕"},
	{[]string{"html"}, "🌐"},
	{[]string{"word"}, "📝"},
	{[]string{"excel"}, "📊"},
	{[]string{"ppt"}, "📑"},
	{[]string{"office"}, "🖋️"},
	{[]string{"mail", "email", "@"}, "📧"},
	{[]string{"news", "article", "blog"}, "📰"},
	{[]string{"book", "read", "novel"}, "📚"},
	{[]string{"map", "location", "place"}, "🗺️"},
	{[]string{"weather", "forecast"}, "🌤️"},
	{[]string{"game", "play", "fun"}, "🎮"},
	{[]string{"ai", "chat", "bot", "智能"}, "🤖"},
	{[]string{"cloud", "drive", "storage"}, "☁️"},
}

// DefaultEmoji is returned by Emoji when no keyword matches.
const DefaultEmoji = "🔗"

// Emoji picks a decorative emoji for a link from keywords in its url.
func Emoji(rawURL string) string {
	lower := strings.ToLower(rawURL)
	for _, rule := range emojiRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.emoji
			}
		}
	}
	return DefaultEmoji
}
