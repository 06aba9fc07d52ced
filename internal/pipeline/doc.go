// Package pipeline builds the HTML pages handed to the browser for capture.
//
// Code regions are highlighted with chroma using inline styles, so the page
// needs no external stylesheet. Markdown regions go through goldmark first.
// Pasted HTML is cleaned with golang.org/x/net/html: active content is
// removed and relative resource paths are rewritten to file:// URLs.
//
// Rasterization itself lives in the root package; this package only
// produces markup.
package pipeline
