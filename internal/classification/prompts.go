package classification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"leadscope/pkg/contracts/domain"
)

const noTranscript = "Sin transcripción disponible"

type promptClient struct {
	Nombre        string `json:"nombre"`
	Correo        string `json:"correo"`
	Transcripcion string `json:"transcripcion"`
}

// encodeJSON marshals v without HTML escaping so labels such as
// "Bajo (< 500 mes)" reach the model verbatim.
func encodeJSON(v any, indent bool) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func quoted[T ~string](values []T) string {
	var b strings.Builder
	for _, v := range values {
		fmt.Fprintf(&b, "   - %q\n", string(v))
	}
	return b.String()
}

// buildClassificationPrompt renders the labelling instructions followed by
// the clients to label.
func buildClassificationPrompt(clients []domain.ClientMeeting) (string, error) {
	payload := make([]promptClient, len(clients))
	for i, c := range clients {
		t := c.Transcripcion
		if t == "" {
			t = noTranscript
		}
		payload[i] = promptClient{Nombre: c.Nombre, Correo: c.Correo, Transcripcion: t}
	}
	data, err := encodeJSON(payload, true)
	if err != nil {
		return "", fmt.Errorf("failed to encode clients: %w", err)
	}

	var b strings.Builder
	b.WriteString("Eres un analista de ventas de una empresa que automatiza la atención al cliente con IA.\n")
	b.WriteString("Clasifica a cada cliente en 6 dimensiones usando solo la transcripción de su reunión.\n\n")
	b.WriteString("DIMENSIONES Y VALORES PERMITIDOS:\n\n")
	b.WriteString("1. industry:\n" + quoted(domain.Industries) + "\n")
	b.WriteString("2. leadSource:\n" + quoted(domain.LeadSources) + "\n")
	b.WriteString("3. interactionVolume (normaliza volúmenes diarios o semanales a mensuales):\n" + quoted(domain.InteractionVolumes) + "\n")
	b.WriteString("4. mainPainPoint:\n" + quoted(domain.MainPainPoints) + "\n")
	b.WriteString("5. techMaturity:\n" + quoted(domain.TechMaturities) + "\n")
	b.WriteString("6. urgency:\n" + quoted(domain.Urgencies) + "\n")
	b.WriteString("REGLAS:\n")
	b.WriteString("- Usa los valores EXACTAMENTE como aparecen arriba.\n")
	b.WriteString("- Si falta información, infiere el valor más probable a partir del contexto.\n")
	b.WriteString("- confidence es un número entre 0 y 1 que resume tu seguridad en las 6 dimensiones.\n\n")
	b.WriteString("Responde solo con un arreglo JSON, sin markdown, con objetos de la forma:\n")
	b.WriteString(`{"clientName": "...", "email": "...", "industry": "...", "leadSource": "...", "interactionVolume": "...", "mainPainPoint": "...", "techMaturity": "...", "urgency": "...", "confidence": 0.9}`)
	b.WriteString("\n\nCLIENTES A CLASIFICAR:\n")
	b.WriteString(data)
	return b.String(), nil
}

// buildThreeSPrompt renders the recommendation instructions over stats and
// at most maxSample classifications.
func buildThreeSPrompt(items []domain.ClientClassification, stats domain.ClassificationStats, maxSample int) (string, error) {
	sample := items
	if maxSample > 0 && len(items) > maxSample {
		sample = items[:maxSample]
	}
	data, err := encodeJSON(sample, true)
	if err != nil {
		return "", fmt.Errorf("failed to encode classifications: %w", err)
	}
	dist := func(m map[string]int) string {
		out, _ := encodeJSON(m, false)
		return out
	}

	var b strings.Builder
	b.WriteString("Eres consultor de estrategia comercial de una empresa que automatiza la atención al cliente con IA.\n")
	b.WriteString("Analiza la clasificación de leads y genera recomendaciones con la metodología 3S (Start, Stop, Spice Up).\n\n")
	b.WriteString("CONTEXTO:\n")
	fmt.Fprintf(&b, "- Total de leads: %d\n", stats.Total)
	fmt.Fprintf(&b, "- Leads cerrados: %d (%d%%)\n", stats.ClosedCount, stats.ClosedPercentage)
	fmt.Fprintf(&b, "- Distribución por industria: %s\n", dist(stats.IndustryDistribution))
	fmt.Fprintf(&b, "- Distribución por fuente: %s\n", dist(stats.LeadSourceDistribution))
	fmt.Fprintf(&b, "- Volumen de interacción: %s\n", dist(stats.VolumeDistribution))
	fmt.Fprintf(&b, "- Dolores principales: %s\n", dist(stats.PainPointDistribution))
	fmt.Fprintf(&b, "- Urgencia: %s\n\n", dist(stats.UrgencyDistribution))
	b.WriteString("CLASIFICACIONES:\n")
	b.WriteString(data)
	if len(sample) < len(items) {
		fmt.Fprintf(&b, "\n... (mostrando primeros %d de %d)", len(sample), len(items))
	}
	b.WriteString("\n\nINSTRUCCIONES:\n")
	b.WriteString("- start: qué empezar a hacer. stop: qué dejar de hacer. spiceUp: cómo potenciar lo que ya funciona.\n")
	fmt.Fprintf(&b, "- Cada lista debe tener EXACTAMENTE %d elementos.\n", domain.RecommendationsPerList)
	b.WriteString("- Cada elemento tiene un \"title\" de 5 a 7 palabras y una \"description\" de al menos 2 oraciones.\n\n")
	b.WriteString("Responde solo con JSON válido, sin markdown, con la forma:\n")
	b.WriteString(`{"start": [{"title": "...", "description": "..."}], "stop": [...], "spiceUp": [...]}`)
	return b.String(), nil
}
