package consignment

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// MaxBoxesPerArticle bounds the boxes a single article may materialize. main sets it
// from MAX_BOXES_PER_ARTICLE.
var MaxBoxesPerArticle = 10000

type UOM string

const (
	UOMKg     UOM = "KG"
	UOMGm     UOM = "GM"
	UOMLtr    UOM = "LTR"
	UOMPcs    UOM = "PCS"
	UOMPkt    UOM = "PKT"
	UOMBox    UOM = "BOX"
	UOMCarton UOM = "CARTON"
)

// KnownUOMs lists every unit the catalog and the request validators accept.
var KnownUOMs = []UOM{UOMKg, UOMGm, UOMLtr, UOMPcs, UOMPkt, UOMBox, UOMCarton}

// Known reports whether u is one of KnownUOMs. Matching is exact; callers upper-case
// user input first.
func (u UOM) Known() bool {
	for _, k := range KnownUOMs {
		if k == u {
			return true
		}
	}
	return false
}

// IsBoxed reports whether articles in this unit materialize physical boxes.
func (u UOM) IsBoxed() bool {
	switch UOM(strings.ToUpper(string(u))) {
	case UOMBox, UOMCarton:
		return true
	}
	return false
}

// Article is one manifest line of a consignment.
type Article struct {
	ID              string  `json:"id"`
	SkuID           *int64  `json:"sku_id"`
	MaterialType    string  `json:"material_type"`
	ItemCategory    string  `json:"item_category"`
	SubCategory     string  `json:"sub_category"`
	ItemDescription string  `json:"item_description"`
	QuantityUnits   float64 `json:"quantity_units"`
	PackSizeGm      float64 `json:"pack_size_gm"`
	NoOfPackets     float64 `json:"no_of_packets"`
	UOM             UOM     `json:"uom"`
	NetWeight       float64 `json:"net_weight"`
	TotalWeight     float64 `json:"total_weight"`
	BatchNumber     string  `json:"batch_number"`
	UnitRate        float64 `json:"unit_rate"`
}

// NewArticle returns an empty BOX article stamped with a batch number taken from now.
func NewArticle(id string, now time.Time) Article {
	return Article{
		ID:          id,
		UOM:         UOMBox,
		BatchNumber: BatchNumber(now),
	}
}

// BatchNumber formats the immutable batch identifier, BT-YYYYMMDDHHMMSS.
func BatchNumber(t time.Time) string {
	return "BT-" + t.Format("20060102150405")
}

// ComputeNetWeight is the article-level net weight: packets x pack size x quantity.
func ComputeNetWeight(a Article) float64 {
	return a.NoOfPackets * a.PackSizeGm * a.QuantityUnits
}

// BoxNetWeight is the net weight of a single box of the article.
func BoxNetWeight(a Article) float64 {
	return a.PackSizeGm * a.NoOfPackets
}

// Label is the value boxes carry in their Article field for this article.
func (a Article) Label() string {
	if a.ItemDescription != "" {
		return a.ItemDescription
	}
	return "Article-" + a.ID
}

// BoxCount is the number of boxes the article's quantity asks for: a started unit
// counts as a box, so 2.5 gives 3. The result never exceeds MaxBoxesPerArticle.
func (a Article) BoxCount() int {
	if !(a.QuantityUnits > 0) {
		return 0
	}
	n := math.Ceil(a.QuantityUnits)
	if n > float64(MaxBoxesPerArticle) {
		return MaxBoxesPerArticle
	}
	return int(n)
}

// Problems reports the numeric fields of a that cannot be stored or derived from,
// keyed by json field name. It is empty for a valid article.
func (a Article) Problems() map[string]string {
	problems := map[string]string{}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{FieldQuantityUnits, a.QuantityUnits},
		{FieldPackSizeGm, a.PackSizeGm},
		{FieldNoOfPackets, a.NoOfPackets},
		{FieldTotalWeight, a.TotalWeight},
		{FieldUnitRate, a.UnitRate},
	} {
		switch {
		case math.IsNaN(f.value) || math.IsInf(f.value, 0):
			problems[f.name] = "must be a finite number"
		case f.value < 0:
			problems[f.name] = "must not be negative"
		}
	}

	if _, bad := problems[FieldQuantityUnits]; !bad && a.UOM.IsBoxed() &&
		math.Ceil(a.QuantityUnits) > float64(MaxBoxesPerArticle) {
		problems[FieldQuantityUnits] = fmt.Sprintf("must not exceed %d boxes", MaxBoxesPerArticle)
	}
	return problems
}

// ValidateArticles returns ErrInvalidValue for the first article with Problems.
func ValidateArticles(articles []Article) error {
	for _, a := range articles {
		problems := a.Problems()
		if len(problems) == 0 {
			continue
		}
		fields := make([]string, 0, len(problems))
		for f := range problems {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		return fmt.Errorf("article %s: %s %s: %w", a.ID, fields[0], problems[fields[0]], ErrInvalidValue)
	}
	return nil
}

func recompute(a Article) Article {
	a.NetWeight = ComputeNetWeight(a)
	return a
}

// Normalize recomputes the derived fields of every article.
func Normalize(articles []Article) []Article {
	out := make([]Article, len(articles))
	for i, a := range articles {
		out[i] = recompute(a)
	}
	return out
}
