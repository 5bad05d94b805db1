// Package gpx renders saved routes as GPX 1.1 track documents for export to
// watches and other training tools.
package gpx

import (
	"encoding/xml"
	"fmt"
	"time"
)

const (
	gpxVersion = "1.1"
	gpxCreator = "StrideLoop"
	gpxXMLNS   = "http://www.topografix.com/GPX/1/1"
)

// Track is the input for a GPX export.
type Track struct {
	Name              string
	DistanceMiles     float64
	ElevationGainFeet float64
	Surface           string
	Points            []Point
	CreatedAt         time.Time
}

// Point is a single track point.
type Point struct {
	Lat float64
	Lon float64
}

type gpxDoc struct {
	XMLName  xml.Name    `xml:"gpx"`
	Version  string      `xml:"version,attr"`
	Creator  string      `xml:"creator,attr"`
	XMLNS    string      `xml:"xmlns,attr"`
	Metadata gpxMetadata `xml:"metadata"`
	Track    gpxTrack    `xml:"trk"`
}

type gpxMetadata struct {
	Name string `xml:"name"`
	Time string `xml:"time,omitempty"`
}

type gpxTrack struct {
	Name    string     `xml:"name"`
	Desc    string     `xml:"desc"`
	Segment gpxSegment `xml:"trkseg"`
}

type gpxSegment struct {
	Points []gpxPoint `xml:"trkpt"`
}

type gpxPoint struct {
	Lat float64 `xml:"lat,attr"`
	Lon float64 `xml:"lon,attr"`
}

// Encode renders a track as a GPX document.
func Encode(track Track) ([]byte, error) {
	if len(track.Points) == 0 {
		return nil, fmt.Errorf("track %q has no points", track.Name)
	}

	points := make([]gpxPoint, len(track.Points))
	for i, p := range track.Points {
		points[i] = gpxPoint{Lat: p.Lat, Lon: p.Lon}
	}

	doc := gpxDoc{
		Version: gpxVersion,
		Creator: gpxCreator,
		XMLNS:   gpxXMLNS,
		Metadata: gpxMetadata{
			Name: track.Name,
		},
		Track: gpxTrack{
			Name:    track.Name,
			Desc:    describe(track),
			Segment: gpxSegment{Points: points},
		},
	}
	if !track.CreatedAt.IsZero() {
		doc.Metadata.Time = track.CreatedAt.UTC().Format(time.RFC3339)
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding gpx: %w", err)
	}

	return append([]byte(xml.Header), body...), nil
}

// describe summarizes the route in the track description.
func describe(track Track) string {
	desc := fmt.Sprintf("%.1f mi loop, %.0f ft climb", track.DistanceMiles, track.ElevationGainFeet)
	if track.Surface != "" {
		desc += ", " + track.Surface
	}
	return desc
}
