package gateway

import (
	"encoding/json"

	"github.com/mmcdole/docsift/internal/domain"
)

// mapStats converts the info response to domain stats
func mapStats(resp infoResponse) domain.LibraryStats {
	files := make(map[string]domain.FileInfo, len(resp.Files))
	for name, raw := range resp.Files {
		var meta fileMetadata
		// Unknown shapes still count as a file
		_ = json.Unmarshal(raw, &meta)
		files[name] = domain.FileInfo{Chunks: meta.Chunks, Pages: meta.Pages}
	}
	return domain.LibraryStats{
		TotalChunks: resp.TotalChunks,
		Files:       files,
		Message:     resp.Message,
	}
}

// mapHits converts search hits to passages, keeping server order
func mapHits(hits []searchHit) domain.SearchResult {
	result := make(domain.SearchResult, 0, len(hits))
	for _, h := range hits {
		page := int(h.Metadata.Page)
		if page < 1 {
			page = 1
		}
		result = append(result, domain.Passage{
			ID:    string(h.ID),
			Score: h.Score,
			Metadata: domain.PassageMetadata{
				FileName: h.Metadata.FileName,
				Page:     page,
				Text:     h.Metadata.Text,
			},
		})
	}
	return result
}
