package dataprocessing

import (
	"log/slog"
	"regexp"
	"strings"

	"leadscope/pkg/contracts/domain"
)

// Fixed messages attached to field errors.
const (
	MsgNombreRequired   = "El campo nombre es obligatorio"
	MsgCorreoRequired   = "El campo correo es obligatorio"
	MsgCorreoInvalid    = "El correo electrónico no tiene un formato válido"
	MsgTelefonoRequired = "El campo teléfono es obligatorio"
	MsgVendedorRequired = "El campo vendedor es obligatorio"
	MsgFechaRequired    = "El campo fecha es obligatorio"
	MsgCerradoRequired  = "El campo cerrado es obligatorio"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationResult is the outcome of validating one row. Data is nil
// whenever Errors is non-empty.
type ValidationResult struct {
	IsValid bool
	Data    *domain.ClientMeeting
	Errors  []domain.ValidationError
}

// RowValidator turns a raw row into a ClientMeeting or a list of field errors.
type RowValidator struct {
	columns  *ColumnResolver
	booleans *BooleanNormalizer
	logger   *slog.Logger
}

// NewRowValidator creates a validator. Nil collaborators get the defaults.
func NewRowValidator(columns *ColumnResolver, booleans *BooleanNormalizer, logger *slog.Logger) *RowValidator {
	if columns == nil {
		columns = NewColumnResolver(nil)
	}
	if booleans == nil {
		booleans = NewBooleanNormalizer()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RowValidator{
		columns:  columns,
		booleans: booleans,
		logger:   logger.With(slog.String("component", "row_validator")),
	}
}

// Validate checks row, numbered rowNumber within its document.
func (v *RowValidator) Validate(row Row, rowNumber int) ValidationResult {
	var (
		errs    []domain.ValidationError
		meeting domain.ClientMeeting
	)
	fail := func(field, value, message string) {
		errs = append(errs, domain.ValidationError{
			Row:     rowNumber,
			Field:   field,
			Value:   value,
			Message: message,
		})
	}

	if s, ok := v.required(row, domain.FieldNombre); ok {
		meeting.Nombre = s
	} else {
		fail(domain.FieldNombre, "", MsgNombreRequired)
	}

	if s, ok := v.required(row, domain.FieldCorreo); !ok {
		fail(domain.FieldCorreo, "", MsgCorreoRequired)
	} else if !emailPattern.MatchString(s) {
		fail(domain.FieldCorreo, s, MsgCorreoInvalid)
	} else {
		meeting.Correo = s
	}

	if s, ok := v.required(row, domain.FieldTelefono); ok {
		meeting.Telefono = s
	} else {
		fail(domain.FieldTelefono, "", MsgTelefonoRequired)
	}

	if s, ok := v.required(row, domain.FieldVendedor); ok {
		meeting.VendedorAsignado = s
	} else {
		fail(domain.FieldVendedor, "", MsgVendedorRequired)
	}

	if s, ok := v.required(row, domain.FieldFecha); ok {
		meeting.FechaReunion = s
	} else {
		fail(domain.FieldFecha, "", MsgFechaRequired)
	}

	if s, ok := v.required(row, domain.FieldCerrado); ok {
		closed, recognized := v.booleans.Normalize(s)
		if !recognized {
			v.logger.Warn("unrecognized closed value treated as false",
				slog.Int("row", rowNumber),
				slog.String("value", s))
		}
		meeting.Cerrado = closed
	} else {
		fail(domain.FieldCerrado, "", MsgCerradoRequired)
	}

	if s, ok := v.required(row, domain.FieldTranscripcion); ok {
		meeting.Transcripcion = s
	}

	if len(errs) > 0 {
		return ValidationResult{IsValid: false, Errors: errs}
	}
	return ValidationResult{IsValid: true, Data: &meeting, Errors: []domain.ValidationError{}}
}

// required resolves field and reports the trimmed value when it is non-empty.
func (v *RowValidator) required(row Row, field string) (string, bool) {
	raw, ok := v.columns.Resolve(row, field)
	if !ok {
		return "", false
	}
	s := strings.TrimSpace(raw)
	return s, s != ""
}
