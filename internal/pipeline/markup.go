package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// activeElements are removed from captured markup; a screenshot cannot show
// them and scripts could stall the load wait.
var activeElements = map[atom.Atom]bool{
	atom.Script: true,
	atom.Iframe: true,
	atom.Object: true,
	atom.Embed:  true,
}

// CleanMarkup removes active content and event handler attributes from
// htmlContent. When baseDir is set, relative img[src] and a[href] values are
// rewritten to file:// URLs under baseDir; paths escaping it are left alone.
func CleanMarkup(htmlContent, baseDir string) (string, error) {
	absBase := ""
	if baseDir != "" {
		abs, err := filepath.Abs(baseDir)
		if err != nil {
			return "", err
		}
		absBase = abs
	}

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}
	cleanNode(doc, absBase)
	return renderHTML(doc, isFragment)
}

// IsFullDocument reports whether content carries its own <html> root.
func IsFullDocument(content string) bool {
	lower := strings.ToLower(strings.TrimSpace(content))
	return strings.HasPrefix(lower, "<!doctype") || strings.HasPrefix(lower, "<html")
}

// parseHTML parses full documents as such and everything else as a body
// fragment wrapped in a document node.
func parseHTML(content string) (*html.Node, bool, error) {
	if IsFullDocument(content) {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, true, err
	}
	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

// renderHTML renders only the children of a fragment container.
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder
	if !isFragment {
		if err := html.Render(&buf, doc); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func cleanNode(n *html.Node, baseDir string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && activeElements[c.DataAtom] {
			n.RemoveChild(c)
		} else {
			cleanNode(c, baseDir)
		}
		c = next
	}

	if n.Type != html.ElementNode {
		return
	}
	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		if strings.HasPrefix(strings.ToLower(a.Key), "on") {
			continue
		}
		if baseDir != "" && isLinkAttr(n.DataAtom, a.Key) {
			a.Val = rewritePath(a.Val, baseDir)
		}
		attrs = append(attrs, a)
	}
	n.Attr = attrs
}

func isLinkAttr(el atom.Atom, key string) bool {
	return (el == atom.Img && key == "src") || (el == atom.A && key == "href")
}

func rewritePath(val, baseDir string) string {
	if !isRelativePath(val) {
		return val
	}
	abs := filepath.Join(baseDir, val)
	if !isPathUnderDir(abs, baseDir) {
		return val
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String()
}

// isRelativePath is false for URLs, anchors and absolute paths.
func isRelativePath(path string) bool {
	if path == "" || strings.HasPrefix(path, "#") || strings.HasPrefix(path, "//") {
		return false
	}
	for _, scheme := range []string{"http:", "https:", "file:", "data:", "mailto:"} {
		if strings.HasPrefix(strings.ToLower(path), scheme) {
			return false
		}
	}
	return !filepath.IsAbs(path)
}

func isPathUnderDir(absPath, dir string) bool {
	cleanDir := filepath.Clean(dir)
	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}
	return strings.HasPrefix(filepath.Clean(absPath)+string(filepath.Separator), cleanDir)
}
