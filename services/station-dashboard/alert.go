package main

import "time"

const (
	// VibrationThreshold: od kolika otřesů v jednom měření vyhlašujeme seismický alarm.
	VibrationThreshold = 3

	// AlertWindow: jak dlouho alarm svítí po posledním kvalifikovaném měření.
	AlertWindow = 10 * time.Second
)

// SeismicAlert je přechodný stav "ALERTA SÍSMICA".
// Alarm se nevypíná časovačem, ale vyprší: je aktivní, dokud now < until.
// Každé nové kvalifikované měření posune until o celé okno.
type SeismicAlert struct {
	threshold int
	window    time.Duration
	until     time.Time
}

// NewSeismicAlert vrací alarm s pevným prahem a oknem.
func NewSeismicAlert() *SeismicAlert {
	return &SeismicAlert{threshold: VibrationThreshold, window: AlertWindow}
}

// Qualifies říká, zda měření alarm spouští.
// Kromě prahu respektujeme i alertaSismica, kterou umí nastavit samo zařízení.
func (a *SeismicAlert) Qualifies(r Reading) bool {
	return r.Vibration >= a.threshold || r.SeismicAlert
}

// Trigger (znovu) nastaví alarm na celé okno od now.
func (a *SeismicAlert) Trigger(now time.Time) {
	a.until = now.Add(a.window)
}

// Active vrací true, dokud okno nevypršelo.
func (a *SeismicAlert) Active(now time.Time) bool {
	return now.Before(a.until)
}

// Until vrací konec okna, nebo nulový čas, pokud alarm nikdy nebyl spuštěn.
func (a *SeismicAlert) Until() time.Time {
	return a.until
}
