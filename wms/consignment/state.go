package consignment

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/maps"
)

const ZeroQuantityWarning = "Setting quantity to 0 will preserve existing boxes."

var (
	ErrUnknownField  = errors.New("unknown article field")
	ErrUnknownAction = errors.New("unknown action")
	ErrInvalidValue  = errors.New("invalid field value")
)

var clock = time.Now

// Consignment is the editable state of one consignment form: its articles, the boxes
// derived from them and the per-article warnings. Every method returns a new value.
type Consignment struct {
	Articles []Article         `json:"articles"`
	Boxes    []Box             `json:"boxes"`
	Warnings map[string]string `json:"warnings"`
}

func (c Consignment) clone() Consignment {
	next := Consignment{
		Articles: slices.Clone(c.Articles),
		Boxes:    slices.Clone(c.Boxes),
		Warnings: make(map[string]string, len(c.Warnings)),
	}
	for k, v := range c.Warnings {
		next.Warnings[k] = v
	}
	return next
}

func (c Consignment) articleIndex(id string) int {
	return slices.IndexFunc(c.Articles, func(a Article) bool { return a.ID == id })
}

func (c Consignment) boxIndex(id string) int {
	return slices.IndexFunc(c.Boxes, func(b Box) bool { return b.ID == id })
}

// WarningArticleIDs returns the ids of articles carrying a warning, sorted.
func (c Consignment) WarningArticleIDs() []string {
	keys := maps.Keys(c.Warnings)
	slices.Sort(keys)
	return keys
}

// AddArticle appends a fresh article and regenerates boxes without forcing.
func (c Consignment) AddArticle(id string, now time.Time) Consignment {
	next := c.clone()
	next.Articles = append(next.Articles, NewArticle(id, now))
	next.Boxes = DeriveBoxesAt(next.Articles, next.Boxes, false, now)
	return next
}

// RemoveArticle drops an article, its warning and, through regeneration, its boxes.
func (c Consignment) RemoveArticle(id string) (Consignment, error) {
	idx := c.articleIndex(id)
	if idx < 0 {
		return c, fmt.Errorf("article %s: %w", id, ErrArticleNotFound)
	}
	next := c.clone()
	next.Articles = slices.Delete(next.Articles, idx, idx+1)
	delete(next.Warnings, id)
	next.Boxes = DeriveBoxesAt(next.Articles, next.Boxes, false, clock())
	return next, nil
}

// UpdateArticle sets one field, resets the dependent fields of the category chain,
// recomputes the net weight, maintains the zero-quantity warning and regenerates the
// boxes when the field calls for it.
func (c Consignment) UpdateArticle(id, field string, value interface{}) (Consignment, error) {
	idx := c.articleIndex(id)
	if idx < 0 {
		return c, fmt.Errorf("article %s: %w", id, ErrArticleNotFound)
	}

	updated, err := setField(c.Articles[idx], field, value)
	if err != nil {
		return c, err
	}
	if err := ValidateArticles([]Article{updated}); err != nil {
		return c, err
	}
	updated = recompute(updated)

	next := c.clone()
	next.Articles[idx] = updated

	if field == FieldQuantityUnits {
		if updated.QuantityUnits == 0 && updated.UOM.IsBoxed() {
			next.Warnings[id] = ZeroQuantityWarning
		} else {
			delete(next.Warnings, id)
		}
	}

	if regenerate, force := RegenerationFor(field, updated); regenerate {
		next.Boxes = DeriveBoxesAt(next.Articles, next.Boxes, force, clock())
	}
	return next, nil
}

// DeleteBox removes the box with the given id; see the package-level DeleteBox.
func (c Consignment) DeleteBox(boxID string) (Consignment, error) {
	idx := c.boxIndex(boxID)
	if idx < 0 {
		return c, fmt.Errorf("box %s: %w", boxID, ErrBoxNotFound)
	}
	articles, boxes, err := DeleteBox(c.Boxes[idx], c.Articles, c.Boxes)
	if err != nil {
		return c, err
	}
	next := c.clone()
	next.Articles = articles
	next.Boxes = boxes
	return next, nil
}

func (c Consignment) SetBoxGrossWeight(boxID string, weight float64) (Consignment, error) {
	idx := c.boxIndex(boxID)
	if idx < 0 {
		return c, fmt.Errorf("box %s: %w", boxID, ErrBoxNotFound)
	}
	if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return c, fmt.Errorf("gross weight %v: %w", weight, ErrInvalidValue)
	}
	next := c.clone()
	next.Boxes[idx].GrossWeight = weight
	return next, nil
}

func (c Consignment) SetBoxLotNumber(boxID, lot string) (Consignment, error) {
	idx := c.boxIndex(boxID)
	if idx < 0 {
		return c, fmt.Errorf("box %s: %w", boxID, ErrBoxNotFound)
	}
	next := c.clone()
	next.Boxes[idx].LotNumber = lot
	return next, nil
}

type ActionType string

const (
	ActionAddArticle        ActionType = "add_article"
	ActionRemoveArticle     ActionType = "remove_article"
	ActionUpdateArticle     ActionType = "update_article"
	ActionDeleteBox         ActionType = "delete_box"
	ActionSetBoxGrossWeight ActionType = "set_box_gross_weight"
	ActionSetBoxLotNumber   ActionType = "set_box_lot_number"
)

// Action is one user edit in serialisable form.
type Action struct {
	Type      ActionType  `json:"type"`
	ArticleID string      `json:"article_id"`
	BoxID     string      `json:"box_id"`
	Field     string      `json:"field"`
	Value     interface{} `json:"value"`
}

// Apply dispatches an action to the matching reducer. A state carrying invalid
// articles is refused before any box is derived from it.
func (c Consignment) Apply(action Action) (Consignment, error) {
	if err := ValidateArticles(c.Articles); err != nil {
		return c, err
	}
	switch action.Type {
	case ActionAddArticle:
		if action.ArticleID == "" {
			return c, fmt.Errorf("add_article without article id: %w", ErrInvalidValue)
		}
		return c.AddArticle(action.ArticleID, clock()), nil
	case ActionRemoveArticle:
		return c.RemoveArticle(action.ArticleID)
	case ActionUpdateArticle:
		return c.UpdateArticle(action.ArticleID, action.Field, action.Value)
	case ActionDeleteBox:
		return c.DeleteBox(action.BoxID)
	case ActionSetBoxGrossWeight:
		w, err := toFloat(action.Value)
		if err != nil {
			return c, err
		}
		return c.SetBoxGrossWeight(action.BoxID, w)
	case ActionSetBoxLotNumber:
		return c.SetBoxLotNumber(action.BoxID, toString(action.Value))
	}
	return c, fmt.Errorf("%q: %w", action.Type, ErrUnknownAction)
}

func setField(a Article, field string, value interface{}) (Article, error) {
	switch field {
	case FieldMaterialType:
		v := toString(value)
		if v != a.MaterialType {
			a.ItemCategory, a.SubCategory, a.ItemDescription, a.SkuID = "", "", "", nil
		}
		a.MaterialType = v
	case FieldItemCategory:
		v := toString(value)
		if v != a.ItemCategory {
			a.SubCategory, a.ItemDescription, a.SkuID = "", "", nil
		}
		a.ItemCategory = v
	case FieldSubCategory:
		v := toString(value)
		if v != a.SubCategory {
			a.ItemDescription, a.SkuID = "", nil
		}
		a.SubCategory = v
	case FieldItemDescription:
		v := toString(value)
		if v != a.ItemDescription {
			a.SkuID = nil
		}
		a.ItemDescription = v
	case FieldUOM:
		a.UOM = UOM(strings.ToUpper(toString(value)))
	case FieldSkuID:
		if value == nil {
			a.SkuID = nil
			return a, nil
		}
		f, err := toFloat(value)
		if err != nil {
			return a, err
		}
		id := int64(f)
		a.SkuID = &id
	case FieldQuantityUnits, FieldPackSizeGm, FieldNoOfPackets, FieldTotalWeight, FieldUnitRate:
		f, err := toFloat(value)
		if err != nil {
			return a, err
		}
		if f < 0 {
			return a, fmt.Errorf("%s must not be negative, got %v: %w", field, f, ErrInvalidValue)
		}
		switch field {
		case FieldQuantityUnits:
			a.QuantityUnits = f
		case FieldPackSizeGm:
			a.PackSizeGm = f
		case FieldNoOfPackets:
			a.NoOfPackets = f
		case FieldTotalWeight:
			a.TotalWeight = f
		case FieldUnitRate:
			a.UnitRate = f
		}
	default:
		return a, fmt.Errorf("%q: %w", field, ErrUnknownField)
	}
	return a, nil
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("%q is not a number: %w", n, ErrInvalidValue)
		}
		return finite(f)
	case string:
		if strings.TrimSpace(n) == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number: %w", n, ErrInvalidValue)
		}
		return finite(f)
	}
	return 0, fmt.Errorf("%T is not a number: %w", v, ErrInvalidValue)
}

func finite(f float64) (float64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%v is not a finite number: %w", f, ErrInvalidValue)
	}
	return f, nil
}

func toString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	}
	return fmt.Sprint(v)
}
