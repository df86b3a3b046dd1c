package domain

// Canonical field keys of an uploaded meeting row. The same keys identify the
// offending field of a ValidationError.
const (
	FieldNombre        = "nombre"
	FieldCorreo        = "correo"
	FieldTelefono      = "telefono"
	FieldVendedor      = "vendedor"
	FieldFecha         = "fecha"
	FieldCerrado       = "cerrado"
	FieldTranscripcion = "transcripcion"
)

// ClientMeeting is one validated sales-meeting row. It only exists when every
// required field passed validation.
type ClientMeeting struct {
	Nombre           string `json:"nombre" validate:"required"`
	Correo           string `json:"correo" validate:"required"`
	Telefono         string `json:"telefono" validate:"required"`
	VendedorAsignado string `json:"vendedorAsignado" validate:"required"`
	FechaReunion     string `json:"fechaReunion" validate:"required"`
	Cerrado          bool   `json:"cerrado"`
	Transcripcion    string `json:"transcripcion,omitempty"`
}

// ValidationError describes a single failing field of a source row.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

// CsvParseResult is the outcome of a whole-document parse.
// ValidRows always equals len(Data).
type CsvParseResult struct {
	TotalRows int               `json:"totalRows"`
	ValidRows int               `json:"validRows"`
	Data      []ClientMeeting   `json:"data"`
	Errors    []ValidationError `json:"errors"`
}

// InvalidRows returns the number of distinct rows that produced at least one error.
func (r *CsvParseResult) InvalidRows() int {
	seen := make(map[int]struct{}, len(r.Errors))
	for _, e := range r.Errors {
		seen[e.Row] = struct{}{}
	}
	return len(seen)
}
