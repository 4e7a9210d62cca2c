package bookmark

import "testing"

func TestResolveIcon(t *testing.T) {
	tests := []struct {
		name string
		url  string
		icon string
		want string
	}{
		{"explicit icon wins", "https://go.dev", "data:image/png;base64,xyz", "data:image/png;base64,xyz"},
		{"favicon service", "https://go.dev:8443/doc", "", "https://www.google.com/s2/favicons?domain=go.dev&sz=64"},
		{"malformed url", "not a url", "", PlaceholderIcon},
		{"blank icon ignored", "https://a.test", "  ", "https://www.google.com/s2/favicons?domain=a.test&sz=64"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveIcon(tt.url, tt.icon); got != tt.want {
				t.Errorf("ResolveIcon(%q, %q) = %q, want %q", tt.url, tt.icon, got, tt.want)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"GitHub - Where software is built", "Where software is built"},
		{"a-b-c", "c"},
		{"知乎：有问题就会有答案", "有问题就会有答案"},
		{"No separator", "No separator"},
		{"Trailing -", "Trailing -"},
	}
	for _, tt := range tests {
		if got := Describe(tt.title); got != tt.want {
			t.Errorf("Describe(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestHostname(t *testing.T) {
	if got := Hostname("https://user@Example.com:80/x"); got != "Example.com" {
		t.Errorf("Hostname = %q, want %q", got, "Example.com")
	}
	if got := Hostname("relative/path"); got != "" {
		t.Errorf("Hostname(relative) = %q, want empty", got)
	}
}

func TestEmoji(t *testing.T) {
	tests := map[string]string{
		"https://github.com/x":                     "💻",
		"https://www.youtube.com/watch":            "🎬",
		"https://developer.mozilla.org/javascript": "⚡",
		"https://docs.oracle.com/java/":            "☕",
		"https://weather.example":                  "🌤️",
		"https://example.org/index":                DefaultEmoji,
	}
	for url, want := range tests {
		if got := Emoji(url); got != want {
			t.Errorf("Emoji(%q) = %q, want %q", url, got, want)
		}
	}
}
