package planner

import "github.com/theoremus-urban-solutions/rail-router/network"

// Failure codes carried by Result.Code.
const (
	CodeInvalidQuery    = "invalid_query"
	CodeUnknownBuilding = "unknown_building"
	CodeNoPlatforms     = "no_platforms"
	CodeNoPath          = "no_path"
	CodeInternal        = "internal"
	CodeLoadFailed      = "load_failed"
)

type SegmentType string

const (
	SegmentRail     SegmentType = "rail"
	SegmentTransfer SegmentType = "transfer"
)

// RailSegment is an uninterrupted ride, possibly spanning chained lines.
type RailSegment struct {
	LineIDs     []string     `json:"lineIds"`
	Label       string       `json:"label"`
	Color       string       `json:"color"`
	FromStation string       `json:"fromStation"`
	ToStation   string       `json:"toStation"`
	Via         []string     `json:"viaStations"`
	Distance    float64      `json:"distance"`
	TimeSeconds float64      `json:"timeSeconds"`
	Coordinates []Coordinate `json:"coordinates"`
}

// TransferSegment is a visible walk or same-platform change.
type TransferSegment struct {
	TransferType     network.TransferType `json:"transferType"`
	Station          string               `json:"station"`
	FromStation      string               `json:"fromStation,omitempty"`
	ToStation        string               `json:"toStation,omitempty"`
	FromLine         string               `json:"fromLine,omitempty"`
	ToLine           string               `json:"toLine,omitempty"`
	CountsAsTransfer bool                 `json:"countsAsTransfer"`
	Distance         float64              `json:"distance"`
	TimeSeconds      float64              `json:"timeSeconds"`
}

// Segment holds exactly one of Rail or Transfer, selected by Type.
type Segment struct {
	Type     SegmentType      `json:"type"`
	Rail     *RailSegment     `json:"rail,omitempty"`
	Transfer *TransferSegment `json:"transfer,omitempty"`
}

type OverlaySegment struct {
	Type        SegmentType  `json:"type"`
	LineIDs     []string     `json:"lineIds,omitempty"`
	Color       string       `json:"color,omitempty"`
	Coordinates []Coordinate `json:"coordinates"`
}

type Overlay struct {
	Segments       []OverlaySegment `json:"segments"`
	AllCoordinates []Coordinate     `json:"allCoordinates"`
}

type UsedLine struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Result is the outcome of every query entry point. Failures set OK=false
// with a Code and a human readable Reason.
type Result struct {
	OK               bool       `json:"ok"`
	Code             string     `json:"code,omitempty"`
	Reason           string     `json:"reason,omitempty"`
	WorldID          string     `json:"worldId,omitempty"`
	StartBuildingID  string     `json:"startBuildingId,omitempty"`
	EndBuildingID    string     `json:"endBuildingId,omitempty"`
	Mode             Mode       `json:"mode,omitempty"`
	TotalDistance    float64    `json:"totalDistance"`
	TotalTimeSeconds float64    `json:"totalTimeSeconds"`
	TransferCount    int        `json:"transferCount"`
	Segments         []Segment  `json:"segments"`
	Overlay          Overlay    `json:"overlay"`
	UsedLines        []UsedLine `json:"usedLines"`
}

// Failure builds a not-ok Result.
func Failure(code, reason string) Result {
	return emptyResult(Result{Code: code, Reason: reason})
}

// emptyResult makes sure list fields encode as [] instead of null.
func emptyResult(r Result) Result {
	if r.Segments == nil {
		r.Segments = []Segment{}
	}
	if r.Overlay.Segments == nil {
		r.Overlay.Segments = []OverlaySegment{}
	}
	if r.Overlay.AllCoordinates == nil {
		r.Overlay.AllCoordinates = []Coordinate{}
	}
	if r.UsedLines == nil {
		r.UsedLines = []UsedLine{}
	}
	return r
}
