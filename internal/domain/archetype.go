package domain

// PresetArchetype es una plantilla curada por admins para pre-llenar agentes.
type PresetArchetype struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	Emoji         string            `json:"emoji,omitempty"`
	Personality   PersonalityParams `json:"personality"`
	DefaultSports []Sport           `json:"default_sports"`
	DisplayOrder  int               `json:"display_order"`
	IsActive      bool              `json:"is_active"`
}
