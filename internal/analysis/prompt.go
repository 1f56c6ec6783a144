package analysis

import (
	"fmt"
	"strings"
)

// buildPrompt renders the category-specific prompt sent to the reasoning
// service, summarizing the forecast and the historical context.
func buildPrompt(category Category, actx Context) string {
	opt := optionIndex[category]

	var b strings.Builder

	b.WriteString("Eres un asesor agrícola para la zona andina de Ecuador.\n\n")
	fmt.Fprintf(&b, "UBICACIÓN:\n- Latitud: %.4f\n- Longitud: %.4f\n- Fecha de referencia: %s\n- Estación del modelo: %s\n\n",
		actx.Coordinate.Latitude, actx.Coordinate.Longitude,
		actx.ReferenceDate.Format("2006-01-02"), actx.StationID)

	fc := actx.Forecast
	fmt.Fprintf(&b, "PREDICCIÓN METEOROLÓGICA (%d horas hacia el futuro):\n", fc.TotalPoints)
	fmt.Fprintf(&b, "- Precipitación: promedio %.2f mm, mínima %.2f mm, máxima %.2f mm\n",
		fc.AvgPrecipitation, fc.MinPrecipitation, fc.MaxPrecipitation)
	fmt.Fprintf(&b, "- Temperatura: promedio %.2f °C, mínima %.2f °C, máxima %.2f °C\n",
		fc.AvgTemperature, fc.MinTemperature, fc.MaxTemperature)
	fmt.Fprintf(&b, "- Humedad relativa: promedio %.2f %%, mínima %.2f %%, máxima %.2f %%\n\n",
		fc.AvgHumidity, fc.MinHumidity, fc.MaxHumidity)

	if actx.History != nil && len(actx.History.Series) > 0 {
		var sumT, sumP, sumH float64
		for _, p := range actx.History.Series {
			sumT += p.Temperature
			sumP += p.Precipitation
			sumH += p.Humidity
		}
		n := float64(len(actx.History.Series))
		fmt.Fprintf(&b, "CONTEXTO HISTÓRICO (%s a %s, %d días",
			actx.History.StartDate, actx.History.EndDate, len(actx.History.Series))
		if actx.History.Partial {
			b.WriteString(", serie incompleta")
		}
		fmt.Fprintf(&b, "):\n- Temperatura media: %.2f °C\n- Precipitación media diaria: %.2f mm\n- Humedad media: %.2f %%\n\n",
			sumT/n, sumP/n, sumH/n)
	}

	fmt.Fprintf(&b, "ANÁLISIS SOLICITADO: %s — %s\n\n", opt.Name, opt.Description)
	b.WriteString("Responde en español, de forma específica y práctica, en texto plano sin formato JSON.")

	return b.String()
}
