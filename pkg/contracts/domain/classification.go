package domain

// Industry is the business vertical of a lead.
type Industry string

const (
	IndustryEcommerce            Industry = "E-commerce / Retail"
	IndustryHealth               Industry = "Salud"
	IndustryFinance              Industry = "Finanzas"
	IndustryEducation            Industry = "Educación"
	IndustryTourism              Industry = "Turismo"
	IndustryLogistics            Industry = "Logística"
	IndustryTechnology           Industry = "Tecnología / SaaS"
	IndustryProfessionalServices Industry = "Servicios Profesionales"
)

// LeadSource is the acquisition channel of a lead.
type LeadSource string

const (
	LeadSourceEvent     LeadSource = "Evento / Conferencia"
	LeadSourceReferral  LeadSource = "Referido / Boca a Boca"
	LeadSourceWebSearch LeadSource = "Búsqueda Web / Google"
	LeadSourceContent   LeadSource = "Contenido (Blog/Podcast/Prensa)"
	LeadSourceSocial    LeadSource = "Redes Sociales"
)

// InteractionVolume is the monthly interaction scale a lead reported.
type InteractionVolume string

const (
	InteractionVolumeLow    InteractionVolume = "Bajo (< 500 mes)"
	InteractionVolumeMedium InteractionVolume = "Medio (500 - 2000 mes)"
	InteractionVolumeHigh   InteractionVolume = "Alto (> 2000 mes)"
)

// MainPainPoint is the primary problem a lead wants solved.
type MainPainPoint string

const (
	PainPointEfficiency   MainPainPoint = "Eficiencia / Sobrecarga"
	PainPointExperience   MainPainPoint = "Experiencia / Personalización"
	PainPointAvailability MainPainPoint = "Disponibilidad 24/7"
	PainPointScalability  MainPainPoint = "Escalabilidad"
)

// TechMaturity is the tooling a lead already runs.
type TechMaturity string

const (
	TechMaturityManual   TechMaturity = "Gestión Manual"
	TechMaturityBooking  TechMaturity = "Sistema de Citas/Reservas"
	TechMaturityPlatform TechMaturity = "E-commerce/Plataforma"
	TechMaturityCRM      TechMaturity = "CRM/Soporte"
)

// Urgency is how pressing the lead's need is.
type Urgency string

const (
	UrgencyHigh   Urgency = "Alta (Temporada/Pico)"
	UrgencyMedium Urgency = "Media (Crecimiento constante)"
	UrgencyLow    Urgency = "Baja (Exploración)"
)

// Allowed values per dimension, in declaration order.
var (
	Industries = []Industry{
		IndustryEcommerce, IndustryHealth, IndustryFinance, IndustryEducation,
		IndustryTourism, IndustryLogistics, IndustryTechnology, IndustryProfessionalServices,
	}
	LeadSources = []LeadSource{
		LeadSourceEvent, LeadSourceReferral, LeadSourceWebSearch, LeadSourceContent, LeadSourceSocial,
	}
	InteractionVolumes = []InteractionVolume{
		InteractionVolumeLow, InteractionVolumeMedium, InteractionVolumeHigh,
	}
	MainPainPoints = []MainPainPoint{
		PainPointEfficiency, PainPointExperience, PainPointAvailability, PainPointScalability,
	}
	TechMaturities = []TechMaturity{
		TechMaturityManual, TechMaturityBooking, TechMaturityPlatform, TechMaturityCRM,
	}
	Urgencies = []Urgency{
		UrgencyHigh, UrgencyMedium, UrgencyLow,
	}
)

// Fallbacks used when a classifier returns a value outside the allowed set.
const (
	DefaultIndustry          = IndustryProfessionalServices
	DefaultLeadSource        = LeadSourceWebSearch
	DefaultInteractionVolume = InteractionVolumeMedium
	DefaultMainPainPoint     = PainPointEfficiency
	DefaultTechMaturity      = TechMaturityManual
	DefaultUrgency           = UrgencyMedium
	DefaultConfidence        = 0.5
)

func contains[T ~string](allowed []T, v string) (T, bool) {
	for _, a := range allowed {
		if string(a) == v {
			return a, true
		}
	}
	return "", false
}

// ParseIndustry reports whether v is an allowed industry.
func ParseIndustry(v string) (Industry, bool) { return contains(Industries, v) }

// ParseLeadSource reports whether v is an allowed lead source.
func ParseLeadSource(v string) (LeadSource, bool) { return contains(LeadSources, v) }

// ParseInteractionVolume reports whether v is an allowed volume bucket.
func ParseInteractionVolume(v string) (InteractionVolume, bool) {
	return contains(InteractionVolumes, v)
}

// ParseMainPainPoint reports whether v is an allowed pain point.
func ParseMainPainPoint(v string) (MainPainPoint, bool) { return contains(MainPainPoints, v) }

// ParseTechMaturity reports whether v is an allowed maturity level.
func ParseTechMaturity(v string) (TechMaturity, bool) { return contains(TechMaturities, v) }

// ParseUrgency reports whether v is an allowed urgency.
func ParseUrgency(v string) (Urgency, bool) { return contains(Urgencies, v) }

// ClientClassification is a lead labelled on the six dimensions, with the
// meeting fields carried over from the matching source row.
type ClientClassification struct {
	ClientName          string            `json:"clientName" validate:"required"`
	Email               string            `json:"email" validate:"required"`
	Phone               string            `json:"phone,omitempty"`
	MeetingDate         string            `json:"meetingDate,omitempty"`
	AssignedSalesperson string            `json:"assignedSalesperson,omitempty"`
	IsClosed            *bool             `json:"isClosed,omitempty"`
	Industry            Industry          `json:"industry"`
	LeadSource          LeadSource        `json:"leadSource"`
	InteractionVolume   InteractionVolume `json:"interactionVolume"`
	MainPainPoint       MainPainPoint     `json:"mainPainPoint"`
	TechMaturity        TechMaturity      `json:"techMaturity"`
	Urgency             Urgency           `json:"urgency"`
	Confidence          float64           `json:"confidence" validate:"min=0,max=1"`
}

// Closed reports whether the lead is known to be closed.
func (c ClientClassification) Closed() bool {
	return c.IsClosed != nil && *c.IsClosed
}

// ClassificationResult is the batch output of the classifier.
type ClassificationResult struct {
	TotalClients    int                    `json:"totalClients"`
	Classifications []ClientClassification `json:"classifications"`
	ProcessingTime  int64                  `json:"processingTime"`
}

// CategoryKey selects one of the six classification dimensions.
type CategoryKey string

const (
	CategoryIndustry          CategoryKey = "industry"
	CategoryLeadSource        CategoryKey = "leadSource"
	CategoryInteractionVolume CategoryKey = "interactionVolume"
	CategoryMainPainPoint     CategoryKey = "mainPainPoint"
	CategoryTechMaturity      CategoryKey = "techMaturity"
	CategoryUrgency           CategoryKey = "urgency"
)

// CategoryKeys lists every dimension in display order.
var CategoryKeys = []CategoryKey{
	CategoryIndustry,
	CategoryLeadSource,
	CategoryInteractionVolume,
	CategoryMainPainPoint,
	CategoryTechMaturity,
	CategoryUrgency,
}

// Valid reports whether k names a known dimension.
func (k CategoryKey) Valid() bool {
	for _, known := range CategoryKeys {
		if k == known {
			return true
		}
	}
	return false
}

// Value returns the label of c on dimension k, or "" for an unknown key.
func (k CategoryKey) Value(c ClientClassification) string {
	switch k {
	case CategoryIndustry:
		return string(c.Industry)
	case CategoryLeadSource:
		return string(c.LeadSource)
	case CategoryInteractionVolume:
		return string(c.InteractionVolume)
	case CategoryMainPainPoint:
		return string(c.MainPainPoint)
	case CategoryTechMaturity:
		return string(c.TechMaturity)
	case CategoryUrgency:
		return string(c.Urgency)
	default:
		return ""
	}
}
