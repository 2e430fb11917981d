package domain

// Product represents a single inventory record in the catalog.
// The json tags correspond to the fields expected in API responses/requests.
type Product struct {
	ID      int64                  `json:"id"`
	Name    string                 `json:"name"`
	Barcode *string                `json:"barcode"` // Pointer so a missing barcode serializes as null
	Price   float64                `json:"price"`
	Stock   int                    `json:"stock"`
	Details map[string]interface{} `json:"details"` // Populated by enrichment; {} until then
}

// ExternalDetails is the normalized projection of an OpenFoodFacts response.
// Only these six fields are ever exposed, regardless of what the upstream
// source returns, so the catalog's contract survives upstream schema churn.
type ExternalDetails struct {
	ProductName     *string  `json:"product_name"`
	Brands          *string  `json:"brands"`
	IngredientsText *string  `json:"ingredients_text"`
	ImageURL        *string  `json:"image_url"`
	Quantity        *string  `json:"quantity"`
	CategoriesTags  []string `json:"categories_tags"`
}

// AsMap flattens the details into the shape stored on Product.Details.
// Absent fields are kept as explicit nulls to mirror the external payload.
func (d *ExternalDetails) AsMap() map[string]interface{} {
	m := map[string]interface{}{
		"product_name":     nil,
		"brands":           nil,
		"ingredients_text": nil,
		"image_url":        nil,
		"quantity":         nil,
		"categories_tags":  nil,
	}
	if d.ProductName != nil {
		m["product_name"] = *d.ProductName
	}
	if d.Brands != nil {
		m["brands"] = *d.Brands
	}
	if d.IngredientsText != nil {
		m["ingredients_text"] = *d.IngredientsText
	}
	if d.ImageURL != nil {
		m["image_url"] = *d.ImageURL
	}
	if d.Quantity != nil {
		m["quantity"] = *d.Quantity
	}
	if d.CategoriesTags != nil {
		m["categories_tags"] = d.CategoriesTags
	}
	return m
}
