package vaccinations

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const DefaultIntervalMonths = 12

// DefaultIntervals son los intervalos conocidos; todo lo demás cae en DefaultIntervalMonths.
var DefaultIntervals = map[string]int{
	"Giárdia":      6,
	"Gripe Canina": 6,
}

// PolicyTable mapea tipo de vacuna -> meses hasta el refuerzo.
// Es solo datos: para agregar vacunas se agregan entradas (config), no código.
type PolicyTable struct {
	defaultMonths int
	byKey         map[string]int
}

// NewPolicyTable arma la tabla. defaultMonths <= 0 usa DefaultIntervalMonths.
// Entradas con meses <= 0 se ignoran.
func NewPolicyTable(defaultMonths int, intervals map[string]int) *PolicyTable {
	if defaultMonths <= 0 {
		defaultMonths = DefaultIntervalMonths
	}
	p := &PolicyTable{
		defaultMonths: defaultMonths,
		byKey:         make(map[string]int, len(intervals)),
	}
	for name, months := range intervals {
		k := policyKey(name)
		if k == "" || months <= 0 {
			continue
		}
		p.byKey[k] = months
	}
	return p
}

// DefaultPolicy es la tabla de fábrica.
func DefaultPolicy() *PolicyTable {
	return NewPolicyTable(DefaultIntervalMonths, DefaultIntervals)
}

// Extend devuelve una copia con overrides aplicados encima (misma regla de claves).
func (p *PolicyTable) Extend(overrides map[string]int) *PolicyTable {
	base := p
	if base == nil {
		base = DefaultPolicy()
	}
	out := &PolicyTable{
		defaultMonths: base.defaultMonths,
		byKey:         make(map[string]int, len(base.byKey)+len(overrides)),
	}
	for k, v := range base.byKey {
		out.byKey[k] = v
	}
	for name, months := range overrides {
		if k := policyKey(name); k != "" && months > 0 {
			out.byKey[k] = months
		}
	}
	return out
}

// IntervalMonths nunca falla: un tipo desconocido usa el default.
func (p *PolicyTable) IntervalMonths(vaccineType string) int {
	if p == nil {
		return DefaultIntervalMonths
	}
	if m, ok := p.byKey[policyKey(vaccineType)]; ok {
		return m
	}
	return p.defaultMonths
}

// Known reporta si el tipo tiene una entrada explícita.
func (p *PolicyTable) Known(vaccineType string) bool {
	if p == nil {
		return false
	}
	_, ok := p.byKey[policyKey(vaccineType)]
	return ok
}

func (p *PolicyTable) DefaultMonths() int {
	if p == nil {
		return DefaultIntervalMonths
	}
	return p.defaultMonths
}

// policyKey normaliza a NFC y aplica case folding Unicode,
// así "GIÁRDIA", "giárdia" y la forma descompuesta caen en la misma clave.
func policyKey(name string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(name)))
}
