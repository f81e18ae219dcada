package catalog

import "github.com/skinsight/diagnosis/backend/internal/domain/entities"

// DefaultImageLabels are the labels the placeholder image classifier draws
// from. It is deliberately narrower than the full catalog.
var DefaultImageLabels = []string{
	"Acne Vulgaris",
	"Eczema (Atopic Dermatitis)",
	"Psoriasis",
	"Rosacea",
}

func defaultConditions() []entities.Condition {
	return []entities.Condition{
		{
			Name:        "Acne Vulgaris",
			Keywords:    []string{"pimple", "acne", "blackhead", "whitehead", "oily"},
			Description: "A common skin condition characterized by clogged pores, pimples, and sometimes deeper lumps.",
			Recommendations: []string{
				"Wash affected area twice daily with gentle cleanser",
				"Avoid touching or picking at affected areas",
				"Consider over-the-counter treatments with benzoyl peroxide or salicylic acid",
				"Consult a dermatologist if condition persists or worsens",
			},
		},
		{
			Name:        "Eczema (Atopic Dermatitis)",
			Keywords:    []string{"itch", "dry", "red", "rash", "flaky", "scaly"},
			Description: "An inflammatory skin condition causing itchy, red, and dry patches on the skin.",
			Recommendations: []string{
				"Moisturize skin regularly with fragrance-free products",
				"Avoid harsh soaps and hot water",
				"Identify and avoid triggers (certain fabrics, stress, allergens)",
				"Consult a dermatologist for prescription treatments if needed",
			},
		},
		{
			Name:        "Psoriasis",
			Keywords:    []string{"thick", "scaly", "red", "plaque", "silvery", "dry"},
			Description: "An autoimmune condition causing rapid skin cell buildup, resulting in thick, scaly patches.",
			Recommendations: []string{
				"Keep skin moisturized",
				"Avoid triggers like stress, cold weather, and skin injuries",
				"Consider phototherapy or topical treatments",
				"Consult a dermatologist for proper treatment plan",
			},
		},
		{
			Name:        "Contact Dermatitis",
			Keywords:    []string{"burn", "sting", "irritate", "allergic", "red", "blister"},
			Description: "Skin inflammation caused by contact with an irritant or allergen.",
			Recommendations: []string{
				"Identify and avoid the triggering substance",
				"Apply cool compresses to reduce inflammation",
				"Use over-the-counter hydrocortisone cream",
				"Seek medical attention if severe or spreading",
			},
		},
		{
			Name:        "Rosacea",
			Keywords:    []string{"flush", "red", "face", "cheek", "nose", "visible vessels"},
			Description: "A chronic skin condition causing facial redness and visible blood vessels.",
			Recommendations: []string{
				"Avoid triggers like spicy foods, alcohol, and extreme temperatures",
				"Use gentle, non-irritating skincare products",
				"Apply sunscreen daily",
				"Consult a dermatologist for prescription treatments",
			},
		},
		{
			Name:        "Fungal Infection (Tinea)",
			Keywords:    []string{"ring", "circular", "itch", "scale", "border", "spread"},
			Description: "A contagious fungal infection causing circular, scaly patches on the skin.",
			Recommendations: []string{
				"Keep affected area clean and dry",
				"Apply over-the-counter antifungal cream",
				"Avoid sharing personal items",
				"See a doctor if condition does not improve in 2 weeks",
			},
		},
		{
			Name:        "Hives (Urticaria)",
			Keywords:    []string{"welt", "bump", "itch", "swell", "raised", "allergic"},
			Description: "Raised, itchy welts on the skin, often caused by an allergic reaction.",
			Recommendations: []string{
				"Take antihistamine medication",
				"Apply cool compresses",
				"Avoid known allergens",
				"Seek immediate medical attention if breathing difficulties occur",
			},
		},
		{
			Name:        "Seborrheic Dermatitis",
			Keywords:    []string{"dandruff", "scalp", "oily", "flaky", "yellow", "greasy"},
			Description: "A common condition causing scaly, itchy patches, mainly on the scalp.",
			Recommendations: []string{
				"Use medicated shampoo containing zinc pyrithione or ketoconazole",
				"Wash affected areas regularly",
				"Manage stress levels",
				"Consult a dermatologist if symptoms are severe",
			},
		},
	}
}
