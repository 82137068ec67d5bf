package incidents

import (
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
)

// Style is the presentation lookup for an incident kind.
type Style struct {
	Label string `json:"label" yaml:"label"`
	Color string `json:"color" yaml:"color"`
	Icon  string `json:"icon" yaml:"icon"`
}

// DefaultStyle is used for unknown incident kinds.
var DefaultStyle = Style{Label: "Incident", Color: "#FF6200", Icon: "/assets/default.png"}

// DefaultStyles is the built in kind table. A config file may replace it.
var DefaultStyles = map[string]Style{
	"accident":     {Label: "Accident", Color: "#FF0000", Icon: "/assets/accident.png"},
	"police":       {Label: "Police", Color: "#0000FF", Icon: "/assets/police.png"},
	"hazard":       {Label: "Hazard", Color: "#FFA500", Icon: "/assets/hazard.png"},
	"construction": {Label: "Roadworks", Color: "#800080", Icon: "/assets/roadwork.png"},
}

// DecoratedIncident is an incident with its presentation style attached,
// ready for the map surface and the API layer.
type DecoratedIncident struct {
	Incident `groups:"basic"`

	Label string `json:"label" groups:"basic"`
	Color string `json:"color" groups:"basic"`
	Icon  string `json:"icon" groups:"basic"`
}

// Decorate attaches a style from the table, falling back to DefaultStyle for
// unknown kinds.
func Decorate(incident Incident, styles map[string]Style) DecoratedIncident {
	if styles == nil {
		styles = DefaultStyles
	}

	style, known := styles[incident.Kind]
	if !known {
		style = DefaultStyle
	}

	var decorated DecoratedIncident
	if err := copier.Copy(&decorated.Incident, &incident); err != nil {
		log.Error().Err(err).Int64("incident", incident.ID).Msg("Failed to copy incident record")
		decorated.Incident = incident
	}

	decorated.Label = style.Label
	decorated.Color = style.Color
	decorated.Icon = style.Icon

	return decorated
}

// DecorateAll maps a whole result set.
func DecorateAll(incidents []Incident, styles map[string]Style) []DecoratedIncident {
	decorated := make([]DecoratedIncident, 0, len(incidents))
	for _, incident := range incidents {
		decorated = append(decorated, Decorate(incident, styles))
	}

	return decorated
}
