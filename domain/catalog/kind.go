package catalog

// Kind identifies a catalog resource family. Every kind shares the same
// approval lifecycle; the only behavioral difference is the status assigned
// to a non-privileged create.
type Kind string

const (
	KindProduct          Kind = "product"
	KindProductCategory  Kind = "product-category"
	KindProductPriceType Kind = "product-price-type"
	KindProductUnit      Kind = "product-unit"
	KindProductDeal      Kind = "product-deal"
)

// PendingCreateStatus returns the status a non-privileged create produces.
// Products are flagged NEW_RECORD; every other kind goes straight to
// FOR_APPROVAL.
func (k Kind) PendingCreateStatus() Status {
	if k == KindProduct {
		return StatusNewRecord
	}
	return StatusForApproval
}

func (k Kind) String() string {
	return string(k)
}

// Kinds lists every catalog resource family, in routing order.
func Kinds() []Kind {
	return []Kind{
		KindProduct,
		KindProductCategory,
		KindProductPriceType,
		KindProductUnit,
		KindProductDeal,
	}
}
