package consignment

// BoxStats aggregates the boxes of one article.
type BoxStats struct {
	BoxCount         int     `json:"box_count"`
	TotalNetWeight   float64 `json:"total_net_weight"`
	TotalGrossWeight float64 `json:"total_gross_weight"`
	ArticleName      string  `json:"article_name"`
}

// ComputeBoxStats groups boxes by owning article id. Boxes that match no article are
// left out of every aggregate.
func ComputeBoxStats(boxes []Box, articles []Article) map[string]BoxStats {
	byLabel := make(map[string]string, len(articles))
	stats := make(map[string]BoxStats, len(articles))
	for _, a := range articles {
		label := a.Label()
		if _, seen := byLabel[label]; seen {
			continue
		}
		byLabel[label] = a.ID
	}

	for _, b := range boxes {
		id, ok := byLabel[b.Article]
		if !ok {
			continue
		}
		s := stats[id]
		s.ArticleName = b.Article
		s.BoxCount++
		s.TotalNetWeight += b.NetWeight
		s.TotalGrossWeight += b.GrossWeight
		stats[id] = s
	}

	return stats
}
