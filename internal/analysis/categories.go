package analysis

import (
	"errors"
	"fmt"
)

// Category is one of the closed set of agricultural analysis topics.
type Category string

const (
	CategoryGeneral    Category = "general"
	CategoryCultivos   Category = "cultivos"
	CategoryRiego      Category = "riego"
	CategoryAlertas    Category = "alertas"
	CategoryCronograma Category = "cronograma"
	CategoryPlagas     Category = "plagas"
	CategorySuelo      Category = "suelo"
)

// ErrUnknownCategory marks a caller error: the request named a category
// outside the closed set. It fails the request before any provider call.
var ErrUnknownCategory = errors.New("unknown analysis category")

// Option describes a category for the analysis-options listing.
type Option struct {
	Category    Category `json:"category"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
}

var options = []Option{
	{CategoryGeneral, "Condiciones Generales", "Evaluación del clima previsto"},
	{CategoryCultivos, "Recomendaciones de Cultivos", "Qué cultivos serían más apropiados"},
	{CategoryRiego, "Manejo del Riego", "Recomendaciones basadas en precipitación prevista"},
	{CategoryAlertas, "Alertas Climáticas", "Posibles riesgos climáticos (sequías, exceso de humedad, etc.)"},
	{CategoryCronograma, "Cronograma Agrícola", "Mejores momentos para siembra, cosecha, etc."},
	{CategoryPlagas, "Manejo de Plagas", "Condiciones que podrían favorecer plagas"},
	{CategorySuelo, "Conservación del Suelo", "Medidas preventivas según el clima"},
}

var optionIndex = func() map[Category]Option {
	m := make(map[Category]Option, len(options))
	for _, o := range options {
		m[o.Category] = o
	}
	return m
}()

// Options returns all analysis categories in their canonical order.
func Options() []Option {
	out := make([]Option, len(options))
	copy(out, options)
	return out
}

// AllCategories returns every category in canonical order.
func AllCategories() []Category {
	out := make([]Category, 0, len(options))
	for _, o := range options {
		out = append(out, o.Category)
	}
	return out
}

// NormalizeCategories validates raw category names and deduplicates them
// while preserving request order. An empty request means all categories.
func NormalizeCategories(raw []string) ([]Category, error) {
	if len(raw) == 0 {
		return AllCategories(), nil
	}

	seen := make(map[Category]bool, len(raw))
	out := make([]Category, 0, len(raw))
	for _, name := range raw {
		c := Category(name)
		if _, ok := optionIndex[c]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out, nil
}
