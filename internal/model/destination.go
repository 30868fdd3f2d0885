package model

import "github.com/google/uuid"

// DestinationType discriminates the polymorphic destination of a load
// and of a distance edge: another treatment facility, an application
// site, or a sanitary landfill.
type DestinationType string

const (
	DestinationFacility DestinationType = "FACILITY"
	DestinationSite     DestinationType = "SITE"
	DestinationLandfill DestinationType = "LANDFILL"
)

func (t DestinationType) IsValid() bool {
	return t == DestinationFacility || t == DestinationSite || t == DestinationLandfill
}

// Destination is a tagged reference into the logistics graph.
type Destination struct {
	Type DestinationType `json:"type"`
	ID   uuid.UUID       `json:"id"`
}
