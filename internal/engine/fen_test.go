package engine

import "testing"

func TestFromFENStartingPosition(t *testing.T) {
	p, err := FromFEN(StartingFEN)
	if err != nil {
		t.Fatalf("FromFEN() error = %v", err)
	}
	if p.Spaces() != StartingBoard() {
		t.Error("FromFEN(StartingFEN) does not match StartingBoard()")
	}
	if p.Turn() != White {
		t.Errorf("Turn() = %v, want white", p.Turn())
	}
	if got := NewPosition().FEN(); got != StartingFEN {
		t.Errorf("NewPosition().FEN() = %q, want %q", got, StartingFEN)
	}
}

func TestFENRoundTrip(t *testing.T) {
	tests := []struct {
		fen   string
		turn  Player
		white CastlingRights
		black CastlingRights
	}{
		{"4k3/8/8/8/8/8/8/4K2R w K - 0 1", White, AbleShort, Unable},
		{"r3k3/8/8/8/8/8/8/4K3 b q - 0 1", Black, Unable, AbleLong},
		{"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b Kq - 0 1", Black, AbleShort, AbleLong},
	}

	for _, tt := range tests {
		t.Run(tt.fen, func(t *testing.T) {
			p, err := FromFEN(tt.fen)
			if err != nil {
				t.Fatalf("FromFEN() error = %v", err)
			}
			if p.Turn() != tt.turn {
				t.Errorf("Turn() = %v, want %v", p.Turn(), tt.turn)
			}
			if got := p.CastlingRights(White); got != tt.white {
				t.Errorf("CastlingRights(white) = %v, want %v", got, tt.white)
			}
			if got := p.CastlingRights(Black); got != tt.black {
				t.Errorf("CastlingRights(black) = %v, want %v", got, tt.black)
			}
			if got := p.FEN(); got != tt.fen {
				t.Errorf("FEN() = %q, want %q", got, tt.fen)
			}
		})
	}
}

func TestFENDropsUnsupportedRights(t *testing.T) {
	// The FEN claims rights the board cannot support.
	p, err := FromFEN("4k3/8/8/8/8/8/8/4K3 w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if got := p.FEN(); got != "4k3/8/8/8/8/8/8/4K3 w - - 0 1" {
		t.Errorf("FEN() = %q", got)
	}
}

func TestFromFENErrors(t *testing.T) {
	tests := []struct {
		fen  string
		want error
	}{
		{"8/8/8/8/8/8/8/4K3 w - - 0 1", ErrMissingKing},
		{"4kk2/8/8/8/8/8/8/4K3 w - - 0 1", ErrMissingKing},
		{"4k3/8/8 w", ErrInvalidFEN},
		{"", ErrInvalidFEN},
		{"4k3/8/8/8/8/8/8/4K3 x - - 0 1", ErrInvalidFEN},
	}

	for _, tt := range tests {
		t.Run(tt.fen, func(t *testing.T) {
			_, err := FromFEN(tt.fen)
			wantErr(t, err, tt.want)
		})
	}
}
