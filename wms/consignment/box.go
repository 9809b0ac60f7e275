package consignment

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Box is one physical unit materialized from a BOX or CARTON article.
type Box struct {
	ID          string  `json:"id"`
	BoxNumber   int     `json:"box_number"`
	Article     string  `json:"article"`
	ArticleID   string  `json:"article_id"`
	NetWeight   float64 `json:"net_weight"`
	GrossWeight float64 `json:"gross_weight"`
	LotNumber   string  `json:"lot_number"`
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

const maxCleanedLen = 10

// CleanDescription strips an item description down to the id-safe prefix used in box ids.
func CleanDescription(description string) string {
	if description == "" {
		description = "ITEM"
	}
	cleaned := strings.ToUpper(nonAlphanumeric.ReplaceAllString(description, ""))
	if len(cleaned) > maxCleanedLen {
		cleaned = cleaned[:maxCleanedLen]
	}
	return cleaned
}

// BoxID builds the id of a newly created box: YYMMDD, cleaned description, box number.
func BoxID(created time.Time, description string, boxNumber int) string {
	return created.Format("060102") + CleanDescription(description) + strconv.Itoa(boxNumber)
}

// boxesFor returns the boxes whose Article field matches label, in list order.
func boxesFor(boxes []Box, label string) []Box {
	var out []Box
	for _, b := range boxes {
		if b.Article == label {
			out = append(out, b)
		}
	}
	return out
}

func findBox(boxes []Box, id string) (Box, bool) {
	for _, b := range boxes {
		if b.ID == id {
			return b, true
		}
	}
	return Box{}, false
}
