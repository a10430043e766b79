// Package feature assembles per-(storm, point) exposure feature vectors by
// sequencing the wind, duration, and lead-time estimators over a shared
// coverage envelope.
package feature

import (
	"time"
)

// TargetPoint is one spatial location to extract features for, typically a
// census-tract population centroid. Coordinates are decimal degrees.
type TargetPoint struct {
	ID  string
	Lat float64
	Lon float64
}

// Record is the feature vector for one (storm, target point) pair: the
// system's output unit. Pointer fields are nil when the underlying quantity
// is undefined (a storm that never reached a category has no lead time for
// it), which serializes as null rather than a sentinel zero.
type Record struct {
	PointID   string `json:"point_id"`
	StormID   string `json:"storm_id"`
	StormName string `json:"storm_name,omitempty"`

	DistanceToTrackNM float64   `json:"distance_to_track_nm"`
	DistanceToTrackKM float64   `json:"distance_to_track_km"`
	NearestQuadrant   string    `json:"nearest_quadrant"`
	ApproachTime      time.Time `json:"approach_time"`
	BoundaryImputed   bool      `json:"boundary_imputed"`

	MaxWindKt     float64 `json:"max_wind_experienced_kt"`
	CenterWindKt  float64 `json:"center_wind_at_approach_kt"`
	RMWUsedNM     float64 `json:"radius_max_wind_used_nm"`
	InsideEyewall bool    `json:"inside_eyewall"`
	WindSource    string  `json:"wind_source"`

	DurationHours      float64    `json:"duration_hours"`
	FirstEntry         *time.Time `json:"first_entry_time"`
	LastExit           *time.Time `json:"last_exit_time"`
	ContinuousExposure bool       `json:"continuous_exposure"`
	DurationSource     string     `json:"duration_source"`

	LeadTimeCat1Hours *float64 `json:"lead_time_cat1_hours"`
	LeadTimeCat2Hours *float64 `json:"lead_time_cat2_hours"`
	LeadTimeCat3Hours *float64 `json:"lead_time_cat3_hours"`
	LeadTimeCat4Hours *float64 `json:"lead_time_cat4_hours"`
	LeadTimeCat5Hours *float64 `json:"lead_time_cat5_hours"`

	GeneratedAt time.Time `json:"generated_at"`
}

// LeadTime returns the lead-time pointer for a Saffir-Simpson category
// (1-based). Out-of-range categories return nil.
func (r *Record) LeadTime(category int) *float64 {
	switch category {
	case 1:
		return r.LeadTimeCat1Hours
	case 2:
		return r.LeadTimeCat2Hours
	case 3:
		return r.LeadTimeCat3Hours
	case 4:
		return r.LeadTimeCat4Hours
	case 5:
		return r.LeadTimeCat5Hours
	default:
		return nil
	}
}

func (r *Record) setLeadTimes(hours [5]*float64) {
	r.LeadTimeCat1Hours = hours[0]
	r.LeadTimeCat2Hours = hours[1]
	r.LeadTimeCat3Hours = hours[2]
	r.LeadTimeCat4Hours = hours[3]
	r.LeadTimeCat5Hours = hours[4]
}
