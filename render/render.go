// Package render builds the SVG markup of the composite cells: a container
// with a fixed logical coordinate space split into four equal quadrants, and
// icon markup normalised to fill one quadrant.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/zucenko/iconhunt/model"
)

const (
	ViewBox      = 200
	QuadrantSize = ViewBox / 2
	IconViewBox  = "0 0 120 120"
)

func Offset(q model.Quadrant) (x, y int) {
	switch q {
	case model.TOP_RIGHT:
		return QuadrantSize, 0
	case model.BOTTOM_LEFT:
		return 0, QuadrantSize
	case model.BOTTOM_RIGHT:
		return QuadrantSize, QuadrantSize
	default:
		return 0, 0
	}
}

// Cell returns the container of one cell. Every quadrant gets a transparent
// hit area and an empty icon group the browser fills once markup arrives.
func Cell(id int) string {
	root := svgElement("svg",
		attr("class", "composite"),
		attr("width", "100%"),
		attr("height", "100%"),
		attr("viewBox", fmt.Sprintf("0 0 %d %d", ViewBox, ViewBox)),
		attr("data-cell", strconv.Itoa(id)),
	)
	for _, q := range model.Quadrants {
		x, y := Offset(q)
		g := svgElement("g",
			attr("class", "quadrant"),
			attr("data-quadrant", strconv.Itoa(int(q))),
			attr("transform", fmt.Sprintf("translate(%d, %d)", x, y)),
		)
		g.AppendChild(svgElement("rect",
			attr("width", strconv.Itoa(QuadrantSize)),
			attr("height", strconv.Itoa(QuadrantSize)),
			attr("fill", "transparent"),
		))
		g.AppendChild(svgElement("g", attr("class", "icon")))
		root.AppendChild(g)
	}
	out, err := renderNode(root)
	if err != nil {
		panic(err)
	}
	return out
}

// Icon normalises fetched icon markup so it scales into a quadrant: nested
// svg elements fill the quadrant and get the icon coordinate space when they
// carry none. Scripts, foreign objects and event handler attributes are
// dropped.
func Icon(markup string) (string, error) {
	// parsed as svg content so self-closing elements close
	nodes, err := html.ParseFragment(strings.NewReader(markup), &html.Node{
		Type:      html.ElementNode,
		Data:      "svg",
		DataAtom:  atom.Svg,
		Namespace: "svg",
	})
	if err != nil {
		return "", fmt.Errorf("parse icon: %w", err)
	}

	wrapper := svgElement("svg",
		attr("width", strconv.Itoa(QuadrantSize)),
		attr("height", strconv.Itoa(QuadrantSize)),
		attr("viewBox", IconViewBox),
	)
	for _, n := range nodes {
		if !keep(n) {
			continue
		}
		clean(n)
		wrapper.AppendChild(n)
	}
	out, err := renderNode(wrapper)
	if err != nil {
		return "", fmt.Errorf("render icon: %w", err)
	}
	return out, nil
}

func keep(n *html.Node) bool {
	switch n.Type {
	case html.ElementNode:
		switch strings.ToLower(n.Data) {
		case "script", "foreignobject", "iframe", "style":
			return false
		}
		return true
	case html.TextNode:
		return true
	default:
		return false
	}
}

func clean(n *html.Node) {
	if n.Type != html.ElementNode {
		return
	}
	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		key := strings.ToLower(a.Key)
		if strings.HasPrefix(key, "on") {
			continue
		}
		if strings.HasSuffix(key, "href") && strings.HasPrefix(strings.TrimSpace(strings.ToLower(a.Val)), "javascript:") {
			continue
		}
		attrs = append(attrs, a)
	}
	n.Attr = attrs
	if n.Data == "svg" {
		setAttr(n, "width", "100%")
		setAttr(n, "height", "100%")
		if _, ok := getAttr(n, "viewBox"); !ok {
			setAttr(n, "viewBox", IconViewBox)
		}
	}

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if keep(c) {
			clean(c)
		} else {
			n.RemoveChild(c)
		}
		c = next
	}
}

func svgElement(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:      html.ElementNode,
		Data:      tag,
		Namespace: "svg",
		Attr:      attrs,
	}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, attr(key, val))
}

func renderNode(n *html.Node) (string, error) {
	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		return "", err
	}
	return b.String(), nil
}
