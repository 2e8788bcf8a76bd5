package main

import "math"

// Panely dashboardu: převod surových hodnot na popisky a ikony.

// LightBand je interpretace analogové hodnoty fotorezistoru.
// Čím vyšší hodnota, tím větší tma.
type LightBand struct {
	Label string
	Icon  string
	Class string // CSS třída pro zvýraznění zóny
	Index int    // 0 = nejjasnější, 4 = noc
}

var lightBands = []struct {
	below int
	band  LightBand
}{
	{150, LightBand{Label: "Luz Muy Intensa", Icon: "🔆", Class: "band-blinding", Index: 0}},
	{300, LightBand{Label: "Día Soleado", Icon: "☀️", Class: "band-sunny", Index: 1}},
	{600, LightBand{Label: "Día Nublado", Icon: "⛅", Class: "band-cloudy", Index: 2}},
	{1000, LightBand{Label: "Atardecer/Amanecer", Icon: "🌆", Class: "band-dusk", Index: 3}},
}

var nightBand = LightBand{Label: "Noche/Muy Oscuro", Icon: "🌙", Class: "band-night", Index: 4}

// ClassifyLight vrací pásmo pro hodnotu luz.
func ClassifyLight(luz int) LightBand {
	for _, b := range lightBands {
		if luz < b.below {
			return b.band
		}
	}
	return nightBand
}

// TemperatureIcon: >30 horko, >25 slunečno, >20 polojasno, jinak zima.
func TemperatureIcon(t float64) string {
	switch {
	case t > 30:
		return "🔥"
	case t > 25:
		return "☀️"
	case t > 20:
		return "🌤️"
	default:
		return "❄️"
	}
}

// HumidityIcon: >70 mokro, >50 vlhko, jinak sucho.
func HumidityIcon(h float64) string {
	switch {
	case h > 70:
		return "💧"
	case h > 50:
		return "💦"
	default:
		return "🌫️"
	}
}

// TemperaturePercent mapuje 0-50 °C na šířku pruhu 0-100 %.
func TemperaturePercent(t float64) float64 {
	return clampPercent(t / 50 * 100)
}

// HumidityPercent je šířka pruhu vlhkosti, omezená na 0-100 %.
func HumidityPercent(h float64) float64 {
	return clampPercent(h)
}

// DarknessPercent je šířka tmavého překryvu světelného pruhu.
func DarknessPercent(luz int) float64 {
	return 100 - clampPercent(float64(luz)/4095*100)
}

func clampPercent(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}
	return math.Max(0, math.Min(p, 100))
}
