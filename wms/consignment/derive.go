package consignment

import "time"

// DeriveBoxes regenerates the box list from the articles, keeping operator-entered
// data of previous boxes where a box at the same position still exists.
func DeriveBoxes(articles []Article, previous []Box, forceRecalculate bool) []Box {
	return DeriveBoxesAt(articles, previous, forceRecalculate, time.Now())
}

// DeriveBoxesAt is DeriveBoxes with an explicit creation time for new box ids.
func DeriveBoxesAt(articles []Article, previous []Box, forceRecalculate bool, now time.Time) []Box {
	out := make([]Box, 0, len(previous))

	for _, article := range articles {
		if !article.UOM.IsBoxed() {
			continue
		}

		label := article.Label()
		existing := boxesFor(previous, label)

		// zero quantity while boxes exist means the operator is mid-edit
		numBoxes := len(existing)
		if article.QuantityUnits > 0 {
			numBoxes = article.BoxCount()
		}

		calculated := BoxNetWeight(article)
		for i := 0; i < numBoxes; i++ {
			box := Box{
				BoxNumber:   i + 1,
				Article:     label,
				ArticleID:   article.ID,
				NetWeight:   calculated,
				GrossWeight: 0,
			}

			if i < len(existing) {
				prev := existing[i]
				box.ID = prev.ID
				box.LotNumber = prev.LotNumber
				if !forceRecalculate {
					box.NetWeight = prev.NetWeight
					box.GrossWeight = prev.GrossWeight
				}
			} else {
				box.ID = BoxID(now, article.ItemDescription, box.BoxNumber)
			}

			out = append(out, box)
		}
	}

	return out
}

// Article field names understood by UpdateArticle and RegenerationFor.
const (
	FieldSkuID           = "sku_id"
	FieldMaterialType    = "material_type"
	FieldItemCategory    = "item_category"
	FieldSubCategory     = "sub_category"
	FieldItemDescription = "item_description"
	FieldQuantityUnits   = "quantity_units"
	FieldPackSizeGm      = "pack_size_gm"
	FieldNoOfPackets     = "no_of_packets"
	FieldUOM             = "uom"
	FieldTotalWeight     = "total_weight"
	FieldUnitRate        = "unit_rate"
)

// RegenerationFor says whether an edit of field to the given article state needs the
// box list regenerated, and with which forceRecalculate value.
func RegenerationFor(field string, updated Article) (regenerate bool, force bool) {
	switch field {
	case FieldItemDescription, FieldPackSizeGm, FieldNoOfPackets, FieldUOM:
		return true, true
	case FieldQuantityUnits:
		if updated.QuantityUnits > 0 {
			return true, false
		}
		return false, false
	}
	return false, false
}
