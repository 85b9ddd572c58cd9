package models

type RouteLeg string

const (
	LegPrivateBus RouteLeg = "private_bus"
	LegKSRTCBus   RouteLeg = "ksrtc_bus"
	LegTrain      RouteLeg = "train"
	LegTaxi       RouteLeg = "taxi"
)

func (l RouteLeg) IsBus() bool {
	return l == LegPrivateBus || l == LegKSRTCBus
}

// Itinerary is built fresh for every request and never modified once returned.
type Itinerary struct {
	RouteType       []RouteLeg      `json:"route_type"`
	StartStation    *NearestStation `json:"start_station,omitempty"`
	EndStation      *NearestStation `json:"end_station,omitempty"`
	TransferStation *Station        `json:"transfer_station,omitempty"`
}
