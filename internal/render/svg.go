package render

import (
	"encoding/xml"
	"io"
	"math"
	"strconv"
	"strings"
)

const svgNamespace = "http://www.w3.org/2000/svg"

// node is one SVG element. The tree is rebuilt on every render and encoded
// with encoding/xml, which escapes titles and labels.
type node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []*node    `xml:",any"`
}

func el(name string, attrs ...xml.Attr) *node {
	return &node{XMLName: xml.Name{Local: name}, Attrs: attrs}
}

func (n *node) add(children ...*node) *node {
	n.Children = append(n.Children, children...)
	return n
}

func (n *node) text(s string) *node {
	n.Text = s
	return n
}

// attr returns the value of an attribute, or "".
func (n *node) attr(name string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func str(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

func num(name string, value float64) xml.Attr {
	return str(name, formatNum(value))
}

// formatNum prints a coordinate with at most three decimals.
func formatNum(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "0"
	}
	f = math.Round(f*1000) / 1000
	if f == 0 {
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func points(xy ...float64) string {
	var b strings.Builder
	for i := 0; i+1 < len(xy); i += 2 {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(formatNum(xy[i]))
		b.WriteByte(',')
		b.WriteString(formatNum(xy[i+1]))
	}
	return b.String()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

func encode(w io.Writer, root *node) (int64, error) {
	cw := &countingWriter{w: w}
	enc := xml.NewEncoder(cw)
	enc.Indent("", "  ")
	if err := enc.Encode(root); err != nil {
		return cw.n, err
	}
	if err := enc.Close(); err != nil {
		return cw.n, err
	}
	_, err := io.WriteString(cw, "\n")
	return cw.n, err
}
