package models

// PuzzleWord is one word/image pair inside a themed puzzle word list.
type PuzzleWord struct {
	Word  string `json:"word"`
	Image string `json:"image"`
}

// WordList holds the picture-puzzle vocabulary for one theme and level.
type WordList struct {
	ID    int64        `json:"id"`
	Theme string       `json:"theme"`
	Level int          `json:"level"`
	Words []PuzzleWord `json:"words"`
}
