package vaccinations

import "pet-vaccination-history/internal/platform/calendar"

// ScheduleAdvisor propone la fecha de refuerzo de una dosis nueva.
// Es solo una sugerencia: no escribe en ningún registro.
type ScheduleAdvisor struct {
	policy *PolicyTable
}

func NewScheduleAdvisor(policy *PolicyTable) *ScheduleAdvisor {
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &ScheduleAdvisor{policy: policy}
}

// SuggestDueDate = applied + intervalo en meses de calendario (con clamp a fin de mes).
func (a *ScheduleAdvisor) SuggestDueDate(applied calendar.Date, vaccineType string) calendar.Date {
	return applied.AddMonths(a.policy.IntervalMonths(vaccineType))
}

func (a *ScheduleAdvisor) Policy() *PolicyTable {
	return a.policy
}
