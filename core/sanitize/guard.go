package sanitize

import (
	"slices"

	"github.com/microcosm-cc/bluemonday"
)

// GuardPolicy returns a bluemonday policy equivalent to allow. Exporters run
// sanitized content through it once more before writing it out.
func GuardPolicy(allow *AllowList) *bluemonday.Policy {
	if allow == nil {
		allow = DefaultAllowList()
	}

	p := bluemonday.NewPolicy()
	p.AllowElements(allow.Tags()...)

	attrs := slices.DeleteFunc(allow.Attributes(), func(a string) bool {
		return a == "style"
	})
	p.AllowAttrs(attrs...).Globally()
	p.AllowStyles(allow.Styles()...).Globally()

	schemes := slices.DeleteFunc(allow.URLSchemes(), func(s string) bool {
		return s == "data"
	})
	p.AllowURLSchemes(schemes...)
	if slices.Contains(allow.URLSchemes(), "data") {
		p.AllowDataURIImages()
	}
	p.RequireParseableURLs(true)
	return p
}
