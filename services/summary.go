package services

import (
	"outward-wms/wms/consignment"

	"github.com/shopspring/decimal"
)

// Summary holds the consignment totals shown on lists and exports, in grams.
type Summary struct {
	ArticleCount     int     `json:"article_count"`
	BoxCount         int     `json:"box_count"`
	TotalNetWeight   float64 `json:"total_net_weight_gm"`
	TotalGrossWeight float64 `json:"total_gross_weight_gm"`
	TotalValue       float64 `json:"total_value"`
}

// Summarize adds article net weights, box gross weights and the article value
// (quantity times unit rate). Sums are exact to three decimals.
func Summarize(articles []consignment.Article, boxes []consignment.Box) Summary {
	net := decimal.Zero
	value := decimal.Zero
	for _, a := range articles {
		net = net.Add(decimal.NewFromFloat(consignment.ComputeNetWeight(a)))
		value = value.Add(decimal.NewFromFloat(a.QuantityUnits).Mul(decimal.NewFromFloat(a.UnitRate)))
	}

	gross := decimal.Zero
	for _, b := range boxes {
		gross = gross.Add(decimal.NewFromFloat(b.GrossWeight))
	}

	return Summary{
		ArticleCount:     len(articles),
		BoxCount:         len(boxes),
		TotalNetWeight:   net.Round(3).InexactFloat64(),
		TotalGrossWeight: gross.Round(3).InexactFloat64(),
		TotalValue:       value.Round(2).InexactFloat64(),
	}
}
