package catalog

// Mutable field sets per resource kind. These are the payloads a staged
// edit copies; identity fields (id, name, status, logs) live on Record.

// ProductFields are the editable attributes of a product.
type ProductFields struct {
	ProductCategoryName string      `json:"productCategoryName" dynamodbav:"ProductCategoryName" validate:"omitempty,max=120"`
	CriticalLevel       int         `json:"criticalLevel" dynamodbav:"CriticalLevel" validate:"gte=0"`
	ProductUnitPrices   []UnitPrice `json:"productUnitPrice,omitempty" dynamodbav:"ProductUnitPrice,omitempty" validate:"dive"`
	ProductDeals        []string    `json:"productDeals,omitempty" dynamodbav:"ProductDeals,omitempty" validate:"omitempty,max=20,dive,max=120"`
}

// UnitPrice binds a unit and price type to an amount.
type UnitPrice struct {
	Unit      string  `json:"unit" dynamodbav:"Unit" validate:"required,max=60"`
	PriceType string  `json:"priceType" dynamodbav:"PriceType" validate:"required,max=60"`
	Amount    float64 `json:"amount" dynamodbav:"Amount" validate:"gte=0"`
}

// CategoryFields are the editable attributes of a product category.
type CategoryFields struct {
	Description string `json:"description,omitempty" dynamodbav:"Description,omitempty" validate:"omitempty,max=500"`
}

// PriceTypeFields are the editable attributes of a product price type.
type PriceTypeFields struct {
	Description string `json:"description,omitempty" dynamodbav:"Description,omitempty" validate:"omitempty,max=500"`
}

// UnitFields are the editable attributes of a product unit.
type UnitFields struct {
	Abbreviation string `json:"abbreviation,omitempty" dynamodbav:"Abbreviation,omitempty" validate:"omitempty,max=20"`
}

// DealFields are the editable attributes of a product deal.
type DealFields struct {
	Description     string  `json:"description,omitempty" dynamodbav:"Description,omitempty" validate:"omitempty,max=500"`
	DiscountPercent float64 `json:"discountPercent" dynamodbav:"DiscountPercent" validate:"gte=0,lte=100"`
}
