package domain

import "time"

// Sport enumera las ligas soportadas para generación de picks.
type Sport string

const (
	SportNFL   Sport = "nfl"
	SportCFB   Sport = "cfb"
	SportNBA   Sport = "nba"
	SportNCAAB Sport = "ncaab"
)

// ValidSport indica si el valor pertenece al enum de ligas.
func ValidSport(s Sport) bool {
	switch s {
	case SportNFL, SportCFB, SportNBA, SportNCAAB:
		return true
	}
	return false
}

// AgentProfile es la persona apostadora configurada por un usuario.
type AgentProfile struct {
	ID               string            `json:"id"`
	UserID           string            `json:"user_id"`
	Name             string            `json:"name"`
	Emoji            string            `json:"emoji,omitempty"`
	PrimaryColor     string            `json:"primary_color,omitempty"`
	PreferredSports  []Sport           `json:"preferred_sports"`
	ArchetypeID      string            `json:"archetype_id,omitempty"`
	Personality      PersonalityParams `json:"personality"`
	Insights         CustomInsights    `json:"insights"`
	IsActive         bool              `json:"is_active"`
	IsPublic         bool              `json:"is_public"`
	AutoGenerate     bool              `json:"auto_generate"`
	IsWidgetFavorite bool              `json:"is_widget_favorite"`
	CreatedAt        time.Time         `json:"created_at"`
}

// PersonalityParams son las escalas 1-5 y toggles que consume el evaluador.
// Los toggles condicionales por deporte viajan siempre; el generador ignora
// los que no aplican al deporte evaluado.
type PersonalityParams struct {
	RiskTolerance       int `json:"risk_tolerance"`
	UnderdogLean        int `json:"underdog_lean"`
	ConfidenceThreshold int `json:"confidence_threshold"`
	TrustModel          int `json:"trust_model"`
	TrustPolymarket     int `json:"trust_polymarket"`

	ChaseValue          bool `json:"chase_value"`
	SkipWeakSlates      bool `json:"skip_weak_slates"`
	FadePublic          bool `json:"fade_public"`
	WeatherImpactTotals bool `json:"weather_impacts_totals"`
	FadeBackToBacks     bool `json:"fade_back_to_backs"`
}

// CustomInsights son notas libres del dueño que se pasan al evaluador.
type CustomInsights struct {
	Philosophy       string `json:"philosophy,omitempty"`
	PerceivedEdges   string `json:"perceived_edges,omitempty"`
	AvoidSituations  string `json:"avoid_situations,omitempty"`
	TargetSituations string `json:"target_situations,omitempty"`
}

const (
	scaleMin = 1
	scaleMax = 5
)

func clampScale(v int) int {
	if v < scaleMin {
		return scaleMin
	}
	if v > scaleMax {
		return scaleMax
	}
	return v
}

// Clamp normaliza todas las escalas al rango [1,5].
func (p PersonalityParams) Clamp() PersonalityParams {
	p.RiskTolerance = clampScale(p.RiskTolerance)
	p.UnderdogLean = clampScale(p.UnderdogLean)
	p.ConfidenceThreshold = clampScale(p.ConfidenceThreshold)
	p.TrustModel = clampScale(p.TrustModel)
	p.TrustPolymarket = clampScale(p.TrustPolymarket)
	return p
}

// EligibleForGeneration indica si el agente puede entrar al pipeline de picks.
func (a AgentProfile) EligibleForGeneration() bool {
	return a.IsActive && len(a.PreferredSports) > 0
}
