package scoring

import "robo-advisor/internal/model"

// Question describes one question of the form for a presentation layer.
type Question struct {
	Field   string   `json:"field"`
	Prompt  string   `json:"prompt"`
	Kind    string   `json:"kind"` // "range" or "choice"
	Min     int      `json:"min,omitempty"`
	Max     int      `json:"max,omitempty"`
	Default int      `json:"default,omitempty"`
	Options []string `json:"options,omitempty"`
}

// Options lists the questionnaire in display order.
func Options() []Question {
	out := make([]Question, 0, len(questions)+1)
	out = append(out, Question{
		Field:   "age",
		Prompt:  "¿Cuál es tu edad?",
		Kind:    "range",
		Min:     MinAge,
		Max:     MaxAge,
		Default: 30,
	})
	for _, q := range questions {
		opts := make([]string, len(q.Options))
		for i, o := range q.Options {
			opts[i] = o.Value
		}
		out = append(out, Question{Field: q.Field, Prompt: q.Prompt, Kind: "choice", Options: opts})
	}
	return out
}

var profileDescriptions = [model.NumBuckets]string{
	"Preservación de capital",
	"Balance riesgo-retorno",
	"Crecimiento estable",
	"Mayor retorno esperado",
	"Máximo potencial de crecimiento",
}

// Describe returns the one-line description of a risk profile.
func Describe(b model.Bucket) string {
	if !b.Valid() {
		return ""
	}
	return profileDescriptions[b]
}

// Disclaimer is shown alongside every recommendation.
const Disclaimer = "Esta herramienta tiene fines educativos e informativos. " +
	"No constituye asesoramiento financiero personalizado. " +
	"Los rendimientos pasados no garantizan resultados futuros."
