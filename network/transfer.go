package network

import "github.com/theoremus-urban-solutions/rail-router/records"

// TransferType classifies walk and switch edges.
type TransferType string

const (
	TransferNone         TransferType = ""
	TransferSameStation  TransferType = "sameStation"
	TransferStation      TransferType = "stationTransfer"
	TransferSamePlatform TransferType = "samePlatformTransfer"
	TransferThroughRun   TransferType = "throughRun"
	TransferMerge        TransferType = "mergeMainline"
	TransferLeave        TransferType = "leaveMainline"
	TransferEnter        TransferType = "enterConnector"
)

// Topological reports whether the transfer is a merge/leave/enter event.
func (t TransferType) Topological() bool {
	return t == TransferMerge || t == TransferLeave || t == TransferEnter
}

// Default tunables.
const (
	DefaultTransferWalkSpeed          = 4.3  // blocks per second
	DefaultRailSpeed                  = 20.0 // blocks per second
	DefaultStationTransferCostDivisor = 1.0
	DefaultSamePlatformTransferCost   = 15.0 // seconds
)

// Tunables are the cost parameters of the graph.
type Tunables struct {
	TransferWalkSpeed          float64 `json:"transferWalkSpeed" yaml:"transferWalkSpeed"`
	RailSpeed                  float64 `json:"railSpeed" yaml:"railSpeed"`
	StationTransferCostDivisor float64 `json:"stationTransferCostDivisor" yaml:"stationTransferCostDivisor"`
	SamePlatformTransferCost   float64 `json:"samePlatformTransferCost" yaml:"samePlatformTransferCost"`
}

// DefaultTunables returns the built-in defaults.
func DefaultTunables() Tunables {
	return Tunables{
		TransferWalkSpeed:          DefaultTransferWalkSpeed,
		RailSpeed:                  DefaultRailSpeed,
		StationTransferCostDivisor: DefaultStationTransferCostDivisor,
		SamePlatformTransferCost:   DefaultSamePlatformTransferCost,
	}
}

// WithDefaults fills in unusable values. The zero Tunables is the defaults.
// Otherwise non-positive speeds and divisors and a negative same-platform
// cost are replaced; a zero same-platform cost is a free change.
func (t Tunables) WithDefaults() Tunables {
	d := DefaultTunables()
	if t == (Tunables{}) {
		return d
	}
	if t.TransferWalkSpeed <= 0 {
		t.TransferWalkSpeed = d.TransferWalkSpeed
	}
	if t.RailSpeed <= 0 {
		t.RailSpeed = d.RailSpeed
	}
	if t.StationTransferCostDivisor <= 0 {
		t.StationTransferCostDivisor = d.StationTransferCostDivisor
	}
	if t.SamePlatformTransferCost < 0 {
		t.SamePlatformTransferCost = d.SamePlatformTransferCost
	}
	return t
}

// TunableOverrides changes some Tunables, for one query or from
// configuration. Nil fields keep the base value.
type TunableOverrides struct {
	TransferWalkSpeed          *float64 `json:"transferWalkSpeed,omitempty" yaml:"transferWalkSpeed" validate:"omitempty,gt=0"`
	RailSpeed                  *float64 `json:"railSpeed,omitempty" yaml:"railSpeed" validate:"omitempty,gt=0"`
	StationTransferCostDivisor *float64 `json:"stationTransferCostDivisor,omitempty" yaml:"stationTransferCostDivisor" validate:"omitempty,gt=0"`
	SamePlatformTransferCost   *float64 `json:"samePlatformTransferCost,omitempty" yaml:"samePlatformTransferCost" validate:"omitempty,gte=0"`
}

// Apply returns t with the set fields of o.
func (t Tunables) Apply(o TunableOverrides) Tunables {
	if o.TransferWalkSpeed != nil {
		t.TransferWalkSpeed = *o.TransferWalkSpeed
	}
	if o.RailSpeed != nil {
		t.RailSpeed = *o.RailSpeed
	}
	if o.StationTransferCostDivisor != nil {
		t.StationTransferCostDivisor = *o.StationTransferCostDivisor
	}
	if o.SamePlatformTransferCost != nil {
		t.SamePlatformTransferCost = *o.SamePlatformTransferCost
	}
	return t
}

// classifySwitch decides the transfer type for a same-platform change from
// line a to line b. Operator keys are taken from the membership and fall back
// to the line.
func classifySwitch(a, b Occurrence, la, lb *records.Line, junction bool) TransferType {
	ka := operatorKey(a, la)
	kb := operatorKey(b, lb)
	if ka != "" && ka == kb {
		return TransferThroughRun
	}
	switch {
	case la.Connector() && lb.Mainline():
		return TransferMerge
	case la.Mainline() && lb.Connector():
		if junction {
			return TransferLeave
		}
		return TransferEnter
	}
	return TransferSamePlatform
}

func operatorKey(o Occurrence, l *records.Line) string {
	if o.Membership.Operator != "" {
		return o.Membership.Operator
	}
	return l.Operator
}
