package dataprocessing

import (
	"strings"

	"leadscope/pkg/contracts/domain"
)

// Row is one decoded source record keyed by its header cell.
type Row map[string]string

// ColumnVariants maps a canonical field key to the header spellings that
// carry it, in lookup order.
type ColumnVariants map[string][]string

// DefaultColumnVariants returns the accepted header spellings of the
// meeting upload format. Order within each list is significant.
func DefaultColumnVariants() ColumnVariants {
	return ColumnVariants{
		domain.FieldNombre: {"nombre", "Nombre"},
		domain.FieldCorreo: {
			"correo", "Correo",
			"Correo Electronico", "Correo Electrónico",
			"correo electronico", "correo electrónico",
		},
		domain.FieldTelefono: {
			"telefono", "Telefono", "Teléfono",
			"Numero de Telefono", "Número de Teléfono",
			"numero de telefono", "número de teléfono",
		},
		domain.FieldFecha: {
			"fecha", "Fecha",
			"Fecha de la Reunion", "Fecha de la Reunión",
			"fecha de la reunion", "fecha de la reunión",
		},
		domain.FieldVendedor: {
			"vendedor", "Vendedor",
			"Vendedor asignado", "Vendedor Asignado",
			"vendedor asignado",
		},
		domain.FieldCerrado: {"cerrado", "Cerrado", "closed", "Closed"},
		domain.FieldTranscripcion: {
			"transcripcion", "Transcripcion",
			"Transcripción", "transcripción",
		},
	}
}

// ColumnResolver looks up canonical fields in a row using a fixed variant table.
type ColumnResolver struct {
	variants ColumnVariants
}

// NewColumnResolver copies variants so later mutation by the caller has no effect.
// A nil table selects DefaultColumnVariants.
func NewColumnResolver(variants ColumnVariants) *ColumnResolver {
	if variants == nil {
		variants = DefaultColumnVariants()
	}
	owned := make(ColumnVariants, len(variants))
	for field, names := range variants {
		owned[field] = append([]string(nil), names...)
	}
	return &ColumnResolver{variants: owned}
}

// Resolve returns the raw value stored under the first variant of field that
// is present in row. Presence is what matters: an empty cell under an earlier
// variant still wins over a later one. ok is false when no variant is present.
func (c *ColumnResolver) Resolve(row Row, field string) (value string, ok bool) {
	for _, name := range c.variants[field] {
		if v, present := row[name]; present {
			return v, true
		}
	}
	return "", false
}

// Variants returns a copy of the header spellings accepted for field.
func (c *ColumnResolver) Variants(field string) []string {
	return append([]string(nil), c.variants[field]...)
}

// KnownHeader reports whether header is mapped to any canonical field.
func (c *ColumnResolver) KnownHeader(header string) bool {
	for _, names := range c.variants {
		for _, n := range names {
			if n == header {
				return true
			}
		}
	}
	return false
}

// cleanHeader strips a byte order mark and zero-width characters that
// spreadsheet exports tend to prepend to the first header cell.
func cleanHeader(h string) string {
	return strings.TrimLeft(h, "\u200B\u200C\u200D\u2060\uFEFF")
}
