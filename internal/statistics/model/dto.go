// Package model provides data transfer objects for statistics module.
package model

// ApplicationCounts breaks application records down by status.
type ApplicationCounts struct {
	Pending   int `json:"pending"`
	Accepted  int `json:"accepted"`
	Rejected  int `json:"rejected"`
	Withdrawn int `json:"withdrawn"`
}

// OutboxCounts reports the notification delivery backlog.
type OutboxCounts struct {
	Pending int `json:"pending"`
	Dead    int `json:"dead"`
}

// Overview represents platform-wide counters.
type Overview struct {
	Teams        int               `json:"teams"`
	OpenTeams    int               `json:"open_teams"`
	Members      int               `json:"members"`
	Applications ApplicationCounts `json:"applications"`
	Outbox       OutboxCounts      `json:"outbox"`
}

// CategoryStatistics represents counters of a single team category.
type CategoryStatistics struct {
	Category  string `json:"category"`
	Teams     int    `json:"teams"`
	OpenTeams int    `json:"open_teams"`
	Members   int    `json:"members"`
}

// CategoriesStatisticsResponse represents response for category statistics.
type CategoriesStatisticsResponse struct {
	Categories []CategoryStatistics `json:"categories"`
	Total      int                  `json:"total"`
}
