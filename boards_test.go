package provision

import "testing"

func TestBoardsUnique(t *testing.T) {
	seen := map[BoardInfo]string{}
	for name, board := range Boards {
		if other, ok := seen[board]; ok {
			t.Errorf("boards %s and %s share id %d version %d", name, other, board.ID, board.Version)
		}
		seen[board] = name
	}
}

func TestLookupBoard(t *testing.T) {
	board, err := LookupBoard("mjs2020-proto3")
	if err != nil {
		t.Fatal(err)
	}
	if board.ID != 0x2 || board.Version != 0x02 {
		t.Errorf("got id %d version %d, want 2/2", board.ID, board.Version)
	}

	if _, err := LookupBoard("mjs2038"); err == nil {
		t.Error("unknown board accepted")
	}
}
