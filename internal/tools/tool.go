// Package tools holds the canvas tools: the two brush tools that write
// stamps onto a surface, the colour picker and the area delimiter.
package tools

import (
	"fmt"
	"strings"
)

// Kind enumerates the tools.
type Kind int

const (
	KindDraw Kind = iota
	KindErase
	KindColorPicker
	KindAreaDelimiter
)

// Kinds lists every tool in toolbar order.
var Kinds = []Kind{KindDraw, KindErase, KindColorPicker, KindAreaDelimiter}

var kindNames = []string{"draw", "erase", "picker", "delimiter"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("tool(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind accepts the names printed by String.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range kindNames {
		if n == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tool %q (want one of %s)", s, strings.Join(kindNames, ", "))
}

// Tool is implemented by Pencil, Eraser, ColorPicker and AreaDelimiter only.
type Tool interface {
	Kind() Kind
	isTool()
}

func (*Pencil) isTool()        {}
func (*Eraser) isTool()        {}
func (ColorPicker) isTool()    {}
func (*AreaDelimiter) isTool() {}
