package consignment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteBox_RenumbersAndDecrements(t *testing.T) {
	rice := Article{ID: "a2", ItemDescription: "RICE", UOM: UOMBox, QuantityUnits: 2, PackSizeGm: 1, NoOfPackets: 1}
	articles := Normalize([]Article{sugar(), rice})
	boxes := DeriveBoxesAt(articles, nil, false, fixedNow)
	boxes[0].GrossWeight = 1010
	boxes[2].GrossWeight = 1030
	boxes[2].LotNumber = "L3"

	nextArticles, nextBoxes, err := DeleteBox(boxes[1], articles, boxes)
	require.NoError(t, err)

	require.Len(t, nextBoxes, 4)
	assert.Equal(t, boxes[0].ID, nextBoxes[0].ID)
	assert.Equal(t, 1, nextBoxes[0].BoxNumber)
	assert.Equal(t, 1010.0, nextBoxes[0].GrossWeight)
	assert.Equal(t, boxes[2].ID, nextBoxes[1].ID)
	assert.Equal(t, 2, nextBoxes[1].BoxNumber)
	assert.Equal(t, "L3", nextBoxes[1].LotNumber)
	assert.Equal(t, 1030.0, nextBoxes[1].GrossWeight)

	// other article untouched
	assert.Equal(t, boxes[3:], nextBoxes[2:])

	assert.Equal(t, 2.0, nextArticles[0].QuantityUnits)
	assert.Equal(t, 2000.0, nextArticles[0].NetWeight)
	assert.Equal(t, articles[1], nextArticles[1])

	// inputs are left alone
	assert.Len(t, boxes, 5)
	assert.Equal(t, 3.0, articles[0].QuantityUnits)
}

func TestDeleteBox_QuantityFloor(t *testing.T) {
	a := sugar()
	boxes := DeriveBoxesAt([]Article{a}, nil, false, fixedNow)
	a.QuantityUnits = 0

	articles, rest, err := DeleteBox(boxes[0], []Article{a}, boxes)
	require.NoError(t, err)
	assert.Zero(t, articles[0].QuantityUnits)
	require.Len(t, rest, 2)
	assert.Equal(t, 1, rest[0].BoxNumber)
	assert.Equal(t, 2, rest[1].BoxNumber)
}

func TestDeleteBox_UnmatchedArticle(t *testing.T) {
	boxes := DeriveBoxesAt([]Article{sugar()}, nil, false, fixedNow)
	renamed := sugar()
	renamed.ItemDescription = "SUGAR 2KG"

	articles, rest, err := DeleteBox(boxes[0], []Article{renamed}, boxes)
	assert.ErrorIs(t, err, ErrArticleNotFound)
	assert.Nil(t, articles)
	assert.Nil(t, rest)
}

func TestDeleteBox_BoxNotInList(t *testing.T) {
	boxes := DeriveBoxesAt([]Article{sugar()}, nil, false, fixedNow)
	ghost := boxes[0]
	ghost.ID = "nope"

	_, _, err := DeleteBox(ghost, []Article{sugar()}, boxes)
	assert.ErrorIs(t, err, ErrBoxNotFound)
}

func TestComputeBoxStats(t *testing.T) {
	rice := Article{ID: "a2", ItemDescription: "RICE", UOM: UOMBox, QuantityUnits: 2, PackSizeGm: 250, NoOfPackets: 2}
	articles := []Article{sugar(), rice}
	boxes := DeriveBoxesAt(articles, nil, false, fixedNow)
	boxes[0].GrossWeight = 1050
	boxes[1].GrossWeight = 1040
	boxes = append(boxes, Box{ID: "orphan", Article: "OLD NAME", NetWeight: 99, GrossWeight: 99})

	stats := ComputeBoxStats(boxes, articles)

	require.Len(t, stats, 2)
	assert.Equal(t, BoxStats{BoxCount: 3, TotalNetWeight: 3000, TotalGrossWeight: 2090, ArticleName: "SUGAR 1KG"}, stats["a1"])
	assert.Equal(t, BoxStats{BoxCount: 2, TotalNetWeight: 1000, TotalGrossWeight: 0, ArticleName: "RICE"}, stats["a2"])
}

func TestComputeBoxStats_NoBoxes(t *testing.T) {
	assert.Empty(t, ComputeBoxStats(nil, []Article{sugar()}))
}
