// Package catalog is the central definition of offered services and
// their default pricing. A booking referencing a catalog code inherits
// the category (service kind) and any pricing defaults it leaves blank.
package catalog

import "studiohub/internal/models"

// Defaults carries the pricing guidance applied when a booking omits
// the corresponding fields.
type Defaults struct {
	FullPrice       *float64 `json:"fullPrice,omitempty"`
	PriceUnit       string   `json:"priceUnit"`
	DurationMinutes int      `json:"durationMinutes,omitempty"`
	TotalSessions   int      `json:"totalSessions,omitempty"`
}

// Service is one catalog entry.
type Service struct {
	Code        string             `json:"code"`
	Name        string             `json:"name"`
	Category    models.ServiceKind `json:"category"`
	Defaults    Defaults           `json:"defaults"`
	Description string             `json:"description"`
}

func price(v float64) *float64 { return &v }

var services = []Service{
	{
		Code:     "room_rental",
		Name:     "Room Rental",
		Category: models.KindRoom,
		Defaults: Defaults{
			FullPrice:       price(20),
			PriceUnit:       "hour",
			DurationMinutes: 60,
		},
		Description: "Studio room rental, billed per hour.",
	},
	{
		Code:     "private_dj_class",
		Name:     "Private DJ Class",
		Category: models.KindClass,
		Defaults: Defaults{
			FullPrice:       price(45),
			PriceUnit:       "session",
			DurationMinutes: 90,
			TotalSessions:   1,
		},
		Description: "1.5 hour private DJ coaching session.",
	},
	{
		Code:     "video_recording",
		Name:     "Video Recording",
		Category: models.KindService,
		Defaults: Defaults{
			FullPrice:       price(60),
			PriceUnit:       "hour",
			DurationMinutes: 60,
		},
		Description: "Video recording session, base rate per hour.",
	},
	{
		Code:     "equipment_rental",
		Name:     "Equipment Rental",
		Category: models.KindEquipment,
		Defaults: Defaults{
			PriceUnit: "custom",
		},
		Description: "Rental of studio equipment, priced manually per item.",
	},
	{
		Code:     "production_consulting",
		Name:     "Production Consulting",
		Category: models.KindService,
		Defaults: Defaults{
			FullPrice:       price(60),
			PriceUnit:       "hour",
			DurationMinutes: 60,
		},
		Description: "Music production consulting, billed per hour.",
	},
	{
		Code:     "dj_class_level1",
		Name:     "DJ Class Level 1 Bundle (10 sessions)",
		Category: models.KindClass,
		Defaults: Defaults{
			FullPrice:       price(400),
			PriceUnit:       "bundle",
			DurationMinutes: 90,
			TotalSessions:   10,
		},
		Description: "Level 1 DJ course consisting of 10 sessions.",
	},
	{
		Code:     "dj_class_level2",
		Name:     "DJ Class Level 2 Bundle (10 sessions)",
		Category: models.KindClass,
		Defaults: Defaults{
			FullPrice:       price(450),
			PriceUnit:       "bundle",
			DurationMinutes: 90,
			TotalSessions:   10,
		},
		Description: "Level 2 DJ course consisting of 10 sessions.",
	},
}

// FindByCode returns the catalog entry for code, or nil when unknown.
func FindByCode(code string) *Service {
	for i := range services {
		if services[i].Code == code {
			return &services[i]
		}
	}
	return nil
}

// CategoryFor returns the service kind a catalog code belongs to, or
// empty when the code is unknown.
func CategoryFor(code string) models.ServiceKind {
	if svc := FindByCode(code); svc != nil {
		return svc.Category
	}
	return ""
}

// All returns the full catalog.
func All() []Service {
	out := make([]Service, len(services))
	copy(out, services)
	return out
}
