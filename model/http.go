package model

type AnalyzeResponse struct {
	Version    int              `json:"version"`
	VoiceCount int              `json:"voice_count"`
	NumNotes   int              `json:"num_notes"`
	Artifacts  []ArtifactResult `json:"artifacts"`
}

type ArtifactResult struct {
	Type      string      `json:"type"`
	Value     string      `json:"value"`
	Instances []TickRange `json:"instances"`
}

type TickRange struct {
	Voice     int `json:"voice"`
	StartTick int `json:"start_tick"`
	EndTick   int `json:"end_tick"`
}

type CatalogEntryResult struct {
	Pattern     string `json:"pattern"`
	Duration    int    `json:"duration"`
	Occurrences int    `json:"occurrences"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
