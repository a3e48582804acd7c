package highlight

import (
	"encoding/json"
	"fmt"
	"slices"

	"golang.org/x/net/html"
)

// DefaultScrollID is the element id AnchorScroller stamps on the scroll target.
const DefaultScrollID = "chunkmark-scroll-target"

// ScrollOptions mirrors the options object of Element.scrollIntoView.
type ScrollOptions struct {
	Behavior string `json:"behavior"`
	Block    string `json:"block"`
}

// CenterSmooth brings the target to the middle of the viewport with smooth motion.
var CenterSmooth = ScrollOptions{Behavior: "smooth", Block: "center"}

// Scroller brings a mark into view. It returns an identifier for the target
// that the caller can hand to whatever renders the document.
type Scroller interface {
	ScrollIntoView(mark *html.Node, opts ScrollOptions) string
}

// AnchorScroller marks the target element with an id so the rendered
// document can scroll to it on load.
type AnchorScroller struct {
	ID string
}

// ScrollIntoView sets the anchor id on mark and returns it.
func (s AnchorScroller) ScrollIntoView(mark *html.Node, _ ScrollOptions) string {
	id := s.ID
	if id == "" {
		id = DefaultScrollID
	}
	setAttr(mark, "id", id)
	return id
}

// ScrollScript renders the script that scrolls to the element with id.
func ScrollScript(id string, opts ScrollOptions) string {
	quotedID, _ := json.Marshal(id)
	optsJSON, _ := json.Marshal(opts)
	return fmt.Sprintf("(function(){var el=document.getElementById(%s);if(el){el.scrollIntoView(%s);}})();", quotedID, optsJSON)
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	n.Attr = slices.DeleteFunc(n.Attr, func(a html.Attribute) bool {
		return a.Namespace == "" && a.Key == key
	})
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}
