package cart

import "github.com/pkordes/experience-cart/internal/domain"

// DefaultAddons returns the addon catalog offered on every selection.
func DefaultAddons() []domain.Addon {
	return []domain.Addon{
		{
			ID:          "photo-package",
			Title:       "Fotopaket",
			Price:       349,
			Description: "Professionella bilder från upplevelsen, levererade digitalt.",
		},
		{
			ID:          "lunch",
			Title:       "Lunch",
			Price:       145,
			Description: "Lunch och dryck under dagen.",
			PerPerson:   true,
		},
		{
			ID:          "transfer",
			Title:       "Transfer",
			Price:       220,
			Description: "Transport till och från mötesplatsen.",
			PerPerson:   true,
		},
		{
			ID:          "cancellation",
			Title:       "Avbokningsskydd",
			Price:       99,
			Description: "Full återbetalning vid avbokning upp till 24 timmar innan.",
		},
	}
}
