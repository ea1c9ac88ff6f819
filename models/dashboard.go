package models

type TournamentSummary struct {
	Tournament
	Counts TournamentCounts `json:"counts"`
}

type DashboardOverview struct {
	TournamentsTotal int                 `json:"tournaments_total"`
	Latest           *Tournament         `json:"latest,omitempty"`
	Tournaments      []TournamentSummary `json:"tournaments"`
	RecentMatches    []MatchView         `json:"recent_matches"`
}
