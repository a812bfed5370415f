package demo

import "github.com/likelee/agency-dashboard/internal/domain/entity"

// Catalog serves the static Studio pricing page
type Catalog struct{}

// NewCatalog creates the Studio catalog
func NewCatalog() *Catalog {
	return &Catalog{}
}

// StudioPricing returns a fresh copy of the pricing tiers and features
func (c *Catalog) StudioPricing() *entity.StudioPricing {
	tiers := []entity.PricingTier{
		{
			ID: "starter", Name: "Starter", MonthlyPrice: 29, AnnualPrice: 290, Credits: 100,
			Features: []string{"100 generation credits", "720p video exports", "Standard voices", "Email support"},
		},
		{
			ID: "pro", Name: "Pro", MonthlyPrice: 99, AnnualPrice: 990, Credits: 500, Highlighted: true,
			Features: []string{"500 generation credits", "1080p video exports", "Voice cloning", "Custom avatars", "Priority support"},
		},
		{
			ID: "agency", Name: "Agency", MonthlyPrice: 299, AnnualPrice: 2990, Credits: 2000,
			Features: []string{"2,000 generation credits", "4K video exports", "Unlimited voice clones", "Team seats", "Licensing workflow", "Dedicated manager"},
		},
	}

	features := []entity.StudioFeature{
		{Title: "AI Video Generation", Description: "Turn a script and a talent likeness into a finished clip.", Category: "video"},
		{Title: "Voice Cloning", Description: "Record once and reuse the talent's voice across campaigns.", Category: "voice"},
		{Title: "Image Generation", Description: "Produce on-brand stills from approved reference photos.", Category: "image"},
		{Title: "Usage Licensing", Description: "Every render is tied to an active license and its terms.", Category: "licensing"},
		{Title: "Job Tracking", Description: "Follow render jobs from queue to delivery.", Category: "workflow"},
	}

	return &entity.StudioPricing{Tiers: tiers, Features: features}
}
