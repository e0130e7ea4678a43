package engine

import "strings"

// Category is the aggregation bucket a sales charge's percentage lands in.
type Category int

const (
	CategoryTaxes Category = iota
	CategoryPaymentFees
	CategoryCommissions
	CategoryOther
)

func (c Category) String() string {
	switch c {
	case CategoryTaxes:
		return "taxes"
	case CategoryPaymentFees:
		return "payment_fees"
	case CategoryCommissions:
		return "commissions"
	default:
		return "other"
	}
}

// Classification is exact-match on the charge name. Names outside the three
// known sets fall into Other silently: users can invent charge names without
// a code change, at the cost of typos being reclassified.
var (
	taxNames = map[string]struct{}{
		"ICMS":       {},
		"ISS":        {},
		"PIS/COFINS": {},
		"IRPJ/CSLL":  {},
		"IPI":        {},
	}

	paymentFeeNames = map[string]struct{}{
		"Cartão de Débito":     {},
		"Cartão de Crédito":    {},
		"Boleto":               {},
		"PIX":                  {},
		"Gateway de Pagamento": {},
	}

	commissionNames = map[string]struct{}{
		"Marketing":               {},
		"Aplicativo de Delivery":  {},
		"Plataforma SaaS":         {},
		"Comissão de Colaborador": {},
	}
)

// Classify maps a sales-charge name to its category bucket.
func Classify(name string) Category {
	name = strings.TrimSpace(name)
	if _, ok := taxNames[name]; ok {
		return CategoryTaxes
	}
	if _, ok := paymentFeeNames[name]; ok {
		return CategoryPaymentFees
	}
	if _, ok := commissionNames[name]; ok {
		return CategoryCommissions
	}
	return CategoryOther
}
