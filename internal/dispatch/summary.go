// Package dispatch formats the order summary and hands it to the external
// messaging channel.
package dispatch

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/mmynk/orderwidget/internal/pricing"
)

// Summary is the content of the outbound order message.
type Summary struct {
	Customer   string
	Phone      string
	Area       string
	Extra      string
	GrandTotal int
}

// BuildSummary renders the fixed message template addressed to greeting.
func BuildSummary(greeting string, s Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", greeting)
	fmt.Fprintf(&b, "Name: %s\n", s.Customer)
	fmt.Fprintf(&b, "Phone: %s\n", s.Phone)
	fmt.Fprintf(&b, "Location: %s\n", s.Area)
	fmt.Fprintf(&b, "Extra Info: %s\n", s.Extra)
	fmt.Fprintf(&b, "Total: %s %s", pricing.FormatShillings(s.GrandTotal), pricing.CurrencyMarker)
	return b.String()
}

// Links are the two forms of the outbound link. They differ only in scheme
// and path layout.
type Links struct {
	App string
	Web string
}

// BuildLinks returns the native-app and web links that open a chat with
// number prefilled with message.
func BuildLinks(number, message string) Links {
	text := encodeText(message)
	return Links{
		App: fmt.Sprintf("whatsapp://send?phone=%s&text=%s", url.QueryEscape(number), text),
		Web: fmt.Sprintf("https://wa.me/%s?text=%s", url.PathEscape(number), text),
	}
}

// encodeText query-escapes message with spaces as %20, which both link
// forms render literally.
func encodeText(message string) string {
	return strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
}

var mobileAgent = regexp.MustCompile(`(?i)iPhone|iPad|iPod|Android`)

// IsMobile reports whether the user agent belongs to a phone or tablet that
// can open the native app link.
func IsMobile(userAgent string) bool {
	return mobileAgent.MatchString(userAgent)
}
