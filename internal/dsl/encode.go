package dsl

import (
	"strconv"
	"strings"

	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/domain"
)

// cleanName strips the characters the grammar reserves as delimiters.
// Names that passed through Decode never contain them, but groups can
// also arrive from the shared catalog with arbitrary names.
var nameCleaner = strings.NewReplacer(
	",", " ", ";", " ", ":", " ", "|", " ",
	"[", "", "]", "", "{", "", "}", "",
)

func cleanName(name string) string {
	return strings.Join(strings.Fields(nameCleaner.Replace(name)), " ")
}

// Encode renders groups back into the text format. Output is canonical
// (flags always explicit) rather than byte-identical to whatever was
// imported; Decode(Encode(groups)) reproduces the same model. Group and
// option names are cleaned of reserved delimiter characters so the
// output always parses back.
func Encode(groups []domain.ModifierGroup) string {
	var b strings.Builder

	for i, g := range groups {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(cleanName(g.Name))
		b.WriteString(" [")
		if g.Requirement == domain.RequirementMandatory {
			b.WriteByte('M')
		} else {
			b.WriteByte('O')
		}
		b.WriteByte('|')
		if g.Logic == domain.LogicReplace {
			b.WriteByte('R')
		} else {
			b.WriteByte('A')
		}
		b.WriteByte('|')
		b.WriteString(strconv.Itoa(g.MaxSelection))
		b.WriteString("]:")

		for j, it := range g.Items {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(cleanName(it.Name))
			if it.Price != 0 {
				b.WriteByte('[')
				b.WriteString(strconv.FormatFloat(it.Price, 'f', -1, 64))
				b.WriteByte(']')
			}
			if it.IsDefault {
				b.WriteString("{D}")
			}
		}
	}

	return b.String()
}
