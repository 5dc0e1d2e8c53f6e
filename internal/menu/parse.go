// Package menu builds the menu tree from the menu page markup.
//
// The markup contract is class based:
//
//	.group-toggle      heading of a collapsible group
//	.food-item         one MenuItem, indexed in document order
//	.portion-section   one PortionSection of the enclosing item
//	.portion           one option of a fish-style section, label in its span
//	.portion-btn       selection button; data-single-select="true" or
//	                   data-selection-mode="single|single-toggle|multi"
//	.food-name, h3, h4 item name
package menu

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/mmynk/orderwidget/internal/models"
	"github.com/mmynk/orderwidget/internal/pricing"
)

// Load parses the menu markup at path.
func Load(path string) (*models.Menu, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open menu: %w", err)
	}
	defer f.Close()
	return ParseHTML(f)
}

// ParseHTML parses menu markup into a Menu.
func ParseHTML(r io.Reader) (*models.Menu, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse menu markup: %w", err)
	}

	p := &parser{menu: &models.Menu{}, group: -1}
	p.walk(doc)

	slog.Debug("Menu parsed", "groups", len(p.menu.Groups), "items", len(p.menu.Items))
	return p.menu, nil
}

type parser struct {
	menu  *models.Menu
	group int
}

func (p *parser) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		switch {
		case hasClass(n, "group-toggle"):
			p.group = len(p.menu.Groups)
			p.menu.Groups = append(p.menu.Groups, models.Group{
				Index: p.group,
				Title: textOf(n),
			})
			return
		case hasClass(n, "food-item"):
			p.addItem(n)
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c)
	}
}

func (p *parser) addItem(n *html.Node) {
	item := models.MenuItem{
		Index: len(p.menu.Items),
		Name:  itemName(n),
		Group: p.group,
	}
	for i, sn := range findAll(n, func(c *html.Node) bool { return hasClass(c, "portion-section") }) {
		item.Sections = append(item.Sections, parseSection(i, sn))
	}

	if p.group >= 0 {
		g := &p.menu.Groups[p.group]
		g.Items = append(g.Items, item.Index)
	}
	p.menu.Items = append(p.menu.Items, item)
}

func parseSection(index int, n *html.Node) models.PortionSection {
	text := textOf(n)
	sec := models.PortionSection{
		Index:     index,
		Text:      text,
		UnitPrice: pricing.ParseCurrencyPrice(text),
		Kind:      models.SectionSnack,
	}

	buttons := findAll(n, func(c *html.Node) bool { return hasClass(c, "portion-btn") })
	if len(buttons) > 0 {
		sec.Mode = selectionMode(buttons[0])
	}

	if portions := findAll(n, func(c *html.Node) bool { return hasClass(c, "portion") }); len(portions) > 0 {
		sec.Kind = models.SectionFish
		for _, pn := range portions {
			label := ""
			if span := findFirst(pn, func(c *html.Node) bool { return c.DataAtom == atom.Span }); span != nil {
				label = textOf(span)
			}
			sec.Portions = append(sec.Portions, models.Portion{
				Label:      label,
				UnitPrice:  pricing.ParseCurrencyPrice(label),
				MatchPrice: pricing.LabelPrice(label),
			})
		}
		return sec
	}

	if len(buttons) > 0 {
		sec.Kind = models.SectionStandard
		label := text
		if sib := nextElement(buttons[0]); sib != nil {
			label = textOf(sib)
		}
		sec.Portions = []models.Portion{{
			Label:      label,
			UnitPrice:  sec.UnitPrice,
			MatchPrice: pricing.LabelPrice(label),
		}}
	}
	return sec
}

func selectionMode(btn *html.Node) models.SelectionMode {
	switch strings.ToLower(attr(btn, "data-selection-mode")) {
	case "single":
		return models.ModeSingle
	case "single-toggle":
		return models.ModeSingleToggle
	case "multi":
		return models.ModeMulti
	}
	if strings.EqualFold(attr(btn, "data-single-select"), "true") {
		return models.ModeSingleToggle
	}
	return models.ModeMulti
}

func itemName(n *html.Node) string {
	name := findFirst(n, func(c *html.Node) bool {
		return hasClass(c, "food-name") || c.DataAtom == atom.H3 || c.DataAtom == atom.H4
	})
	if name == nil {
		return ""
	}
	return textOf(name)
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// findAll returns matching descendants of n in document order. Matches are
// not searched further, so nested sections are not double counted.
func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var visit func(*html.Node)
	visit = func(c *html.Node) {
		for ch := c.FirstChild; ch != nil; ch = ch.NextSibling {
			if ch.Type == html.ElementNode && match(ch) {
				out = append(out, ch)
				continue
			}
			visit(ch)
		}
	}
	visit(n)
	return out
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && match(c) {
			return c
		}
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

func nextElement(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

// textOf returns the text content of n with whitespace collapsed.
func textOf(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
			b.WriteByte(' ')
			return
		}
		for ch := c.FirstChild; ch != nil; ch = ch.NextSibling {
			visit(ch)
		}
	}
	visit(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
