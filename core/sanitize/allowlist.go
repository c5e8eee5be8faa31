package sanitize

import (
	"strings"
	"sync"
)

// AllowList is the immutable configuration consulted by the sanitizer.
// Build it once and share it; it is never modified after construction.
type AllowList struct {
	tags       set
	attrs      set
	styles     set
	discard    set
	structural set

	hrefSchemes []string
	srcSchemes  []string
}

// AllowListConfig holds the raw name lists an AllowList is built from.
type AllowListConfig struct {
	// Tags are kept in output. Other elements are unwrapped.
	Tags []string
	// Attributes are kept on allowed elements.
	Attributes []string
	// Styles are the inline style properties kept inside style attributes.
	Styles []string
	// Discard lists elements whose whole subtree, text included, is dropped.
	Discard []string
	// Structural lists elements whose presence alone makes a paragraph non-empty.
	Structural []string
	// HrefSchemes are the accepted prefixes for href values.
	HrefSchemes []string
	// SrcSchemes are the accepted prefixes for src values.
	SrcSchemes []string
}

// DefaultConfig returns the lists used for email content.
func DefaultConfig() AllowListConfig {
	return AllowListConfig{
		Tags: []string{
			"a", "b", "br", "blockquote", "code", "div", "em",
			"h1", "h2", "h3", "h4", "h5", "h6",
			"hr", "img", "li", "ol", "p", "pre", "span", "strong",
			"sub", "sup", "table", "tbody", "td", "th", "thead", "tr",
			"u", "ul",
		},
		Attributes: []string{
			"href", "target", "rel", "style", "src", "alt", "title",
			"width", "height", "align", "valign", "border",
			"cellpadding", "cellspacing", "role", "aria-label",
		},
		Styles: []string{
			"color", "background-color", "font-size", "font-family",
			"font-weight", "font-style", "text-decoration", "text-align",
			"line-height", "letter-spacing", "padding", "margin", "display",
		},
		Discard: []string{
			"script", "style", "meta", "link", "template", "noscript",
			"title", "textarea", "xmp", "noembed", "noframes", "iframe",
			"object", "embed", "select",
		},
		Structural:  []string{"img", "table", "iframe", "svg", "video", "audio"},
		HrefSchemes: []string{"http://", "https://", "mailto:"},
		SrcSchemes:  []string{"http://", "https://", "cid:", "data:image/"},
	}
}

// NewAllowList builds an AllowList from cfg. Names are matched
// case-insensitively.
func NewAllowList(cfg AllowListConfig) *AllowList {
	return &AllowList{
		tags:        newSet(cfg.Tags),
		attrs:       newSet(cfg.Attributes),
		styles:      newSet(cfg.Styles),
		discard:     newSet(cfg.Discard),
		structural:  newSet(cfg.Structural),
		hrefSchemes: lowerAll(cfg.HrefSchemes),
		srcSchemes:  lowerAll(cfg.SrcSchemes),
	}
}

var defaultAllowList = sync.OnceValue(func() *AllowList {
	return NewAllowList(DefaultConfig())
})

// DefaultAllowList returns the process-wide email allow-list.
func DefaultAllowList() *AllowList {
	return defaultAllowList()
}

// AllowsTag reports whether elements named tag are kept.
func (a *AllowList) AllowsTag(tag string) bool { return a.tags.has(tag) }

// AllowsAttr reports whether attributes named attr are kept.
func (a *AllowList) AllowsAttr(attr string) bool { return a.attrs.has(attr) }

// AllowsStyle reports whether the inline style property is kept.
func (a *AllowList) AllowsStyle(prop string) bool { return a.styles.has(prop) }

// Discards reports whether tag is dropped together with its content.
func (a *AllowList) Discards(tag string) bool { return a.discard.has(tag) }

// IsStructural reports whether tag counts as content on its own.
func (a *AllowList) IsStructural(tag string) bool { return a.structural.has(tag) }

// Tags returns the allowed tag names in sorted order.
func (a *AllowList) Tags() []string { return a.tags.sorted() }

// Attributes returns the allowed attribute names in sorted order.
func (a *AllowList) Attributes() []string { return a.attrs.sorted() }

// Styles returns the allowed style properties in sorted order.
func (a *AllowList) Styles() []string { return a.styles.sorted() }

// SafeHref reports whether v may be used as a link target.
func (a *AllowList) SafeHref(v string) bool { return hasAnyPrefix(v, a.hrefSchemes) }

// SafeSrc reports whether v may be used as an image source.
func (a *AllowList) SafeSrc(v string) bool { return hasAnyPrefix(v, a.srcSchemes) }

// URLSchemes returns the scheme names (without separators) accepted in
// href and src values.
func (a *AllowList) URLSchemes() []string {
	seen := set{}
	var out []string
	for _, p := range append(append([]string{}, a.hrefSchemes...), a.srcSchemes...) {
		scheme, _, _ := strings.Cut(p, ":")
		if scheme == "" || seen.has(scheme) {
			continue
		}
		seen[scheme] = struct{}{}
		out = append(out, scheme)
	}
	return out
}

func hasAnyPrefix(v string, prefixes []string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, p := range prefixes {
		if strings.HasPrefix(v, p) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(s))
	}
	return out
}
