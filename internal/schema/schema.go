// Package schema publishes JSON Schema documents for the ledger's input and
// output records so form-building collaborators can render and validate them.
package schema

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"inventory-ledger/internal/core"

	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"
)

var decimalType = reflect.TypeOf(decimal.Decimal{})

var documents = map[string]func() any{
	"product":        func() any { return core.Product{} },
	"product-update": func() any { return core.ProductUpdate{} },
	"transaction":    func() any { return core.Transaction{} },
}

// Names lists the available documents in sorted order.
func Names() []string {
	names := make([]string, 0, len(documents))
	for n := range documents {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Document returns the schema registered under name.
func Document(name string) (*jsonschema.Schema, error) {
	build, ok := documents[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return reflector().Reflect(build()), nil
}

func reflector() *jsonschema.Reflector {
	return &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == decimalType {
				return &jsonschema.Schema{
					Type:        "string",
					Pattern:     `^-?[0-9]+(\.[0-9]+)?$`,
					Description: "Decimal number encoded as a string",
				}
			}
			return nil
		},
	}
}
