package consignment

import (
	"errors"
	"fmt"
)

var (
	ErrArticleNotFound = errors.New("article not found")
	ErrBoxNotFound     = errors.New("box not found")
)

// DeleteBox removes a single box, renumbers the remaining boxes of its article and
// decrements the article quantity by one. Inputs are not modified.
func DeleteBox(box Box, articles []Article, boxes []Box) ([]Article, []Box, error) {
	idx := -1
	for i, a := range articles {
		if a.Label() == box.Article {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, nil, fmt.Errorf("box %s belongs to %q: %w", box.ID, box.Article, ErrArticleNotFound)
	}

	nextBoxes := make([]Box, 0, len(boxes))
	removed := false
	seq := 0
	for _, b := range boxes {
		if !removed && b.ID == box.ID && b.Article == box.Article {
			removed = true
			continue
		}
		if b.Article == box.Article {
			seq++
			b.BoxNumber = seq
		}
		nextBoxes = append(nextBoxes, b)
	}
	if !removed {
		return nil, nil, fmt.Errorf("box %s: %w", box.ID, ErrBoxNotFound)
	}

	nextArticles := make([]Article, len(articles))
	copy(nextArticles, articles)

	owner := nextArticles[idx]
	owner.QuantityUnits--
	if owner.QuantityUnits < 0 {
		owner.QuantityUnits = 0
	}
	nextArticles[idx] = recompute(owner)

	return nextArticles, nextBoxes, nil
}
