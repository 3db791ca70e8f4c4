// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package template

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/mattn/go-runewidth"

	"github.com/wneessen/woosmap-geocode/internal/geocode"
)

// Templates holds the parsed output templates of the CLI
type Templates struct {
	Address *template.Template
}

// New parses text as the template rendered once per address
func New(text string) (*Templates, error) {
	tpl, err := template.New("address").Funcs(templateFuncMap()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse address template: %w", err)
	}
	return &Templates{Address: tpl}, nil
}

// Render executes the address template for every address of the collection, one per line
func (t *Templates) Render(w io.Writer, addresses geocode.AddressCollection) error {
	for i, addr := range addresses.All() {
		if err := t.Address.Execute(w, addr); err != nil {
			return fmt.Errorf("failed to render address %d: %w", i, err)
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

func templateFuncMap() template.FuncMap {
	return template.FuncMap{
		"coords":      coords,
		"floatFormat": floatFormat,
		"ext":         extension,
		"join":        strings.Join,
		"pad":         pad,
		"lc":          strings.ToLower,
		"uc":          strings.ToUpper,
	}
}

func coords(addr geocode.Address) string {
	c := addr.Coordinates()
	return fmt.Sprintf("%.6f, %.6f", c.Latitude, c.Longitude)
}

func floatFormat(val float64, precision int) string {
	return fmt.Sprintf("%.*f", precision, val)
}

func extension(addr geocode.Address, name string) string {
	val, _ := addr.Extension(name)
	return val
}

// pad fills val with spaces up to the given display width, so wide runes line up in a terminal
func pad(width int, val string) string {
	return runewidth.FillRight(val, width)
}
