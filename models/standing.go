package models

// Standing is a derived view of an entrant within its pool. Standings are
// recomputed on demand from the pool fixtures and are never persisted.
type Standing struct {
	Entrant       *Entrant `json:"entrant"`
	PoolNumber    int      `json:"pool_number"`
	Rank          int      `json:"rank"`
	Played        int      `json:"played"`
	Wins          int      `json:"wins"`
	Losses        int      `json:"losses"`
	PointsFor     int      `json:"points_for"`
	PointsAgainst int      `json:"points_against"`
	Diff          int      `json:"diff"`
}
