package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBannerFromMeta(t *testing.T) {
	testCases := []struct {
		name string
		head string
		want string
	}{
		{
			name: "open graph",
			head: `<meta property="og:image" content="https://cdn.example.com/og.png">`,
			want: "https://cdn.example.com/og.png",
		},
		{
			name: "open graph wins over twitter",
			head: `<meta name="twitter:image" content="https://cdn.example.com/tw.png"><meta property="og:image" content="https://cdn.example.com/og.png">`,
			want: "https://cdn.example.com/og.png",
		},
		{
			name: "relative link resolved",
			head: `<link rel="image_src" href="/img/cover.jpg">`,
			want: "https://blog.example.com/img/cover.jpg",
		},
		{
			name: "unsafe scheme skipped",
			head: `<meta property="og:image" content="javascript:alert(1)"><meta name="twitter:image" content="https://cdn.example.com/tw.png">`,
			want: "https://cdn.example.com/tw.png",
		},
		{
			name: "none",
			head: `<title>x</title>`,
			want: "",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			page := "<html><head>" + testCase.head + "</head><body></body></html>"
			assert.Equal(t, testCase.want, BannerFromMeta(page, "https://blog.example.com/posts/hooks"))
		})
	}
}
