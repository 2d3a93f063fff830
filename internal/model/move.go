package model

// MoveRequest is a move sent by a client, either as squares or as typed text
// such as "e2 e4", "e4" or "0-0".
type MoveRequest struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
	Text string `json:"text,omitempty"`
}

type CastleRequest struct {
	Side string `json:"side"`
}

type PromoteRequest struct {
	Piece string `json:"piece"`
}

type CastleRookMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// Ply is one side's half of a move.
type Ply struct {
	Piece          *Piece          `json:"piece"`
	From           Position        `json:"from"`
	To             Position        `json:"to"`
	CapturedPiece  *Piece          `json:"capturedPiece"`
	CastleRookMove *CastleRookMove `json:"castleRookMove"`
	Promotion      string          `json:"promotion"`
	Notation       string          `json:"notation"`
}

type Move struct {
	WhitePly *Ply `json:"whitePly"`
	BlackPly *Ply `json:"blackPly"`
}

type SimpleMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// MatchFoundEvent tells a queued player which game they were placed in.
type MatchFoundEvent struct {
	GameID string      `json:"gameId"`
	Color  PlayerColor `json:"color"`
}
