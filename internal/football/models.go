// Package football compares per-season statistics of two players.
package football

// Player identifies a player.
type Player struct {
	ID        int    `json:"id"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

type Games struct {
	Minutes     *int `json:"minutes"`
	Appearences *int `json:"appearences"`
}

type Goals struct {
	Total    *int `json:"total"`
	Conceded *int `json:"conceded"`
}

type Cards struct {
	Yellow    *int `json:"yellow"`
	YellowRed *int `json:"yellowred"`
	Red       *int `json:"red"`
}

type Duels struct {
	Total *int `json:"total"`
	Won   *int `json:"won"`
}

type Passes struct {
	Total    *int `json:"total"`
	Accuracy *int `json:"accuracy"`
}

// Statistics is one statistics block of a player in a season.
type Statistics struct {
	Games  *Games  `json:"games"`
	Goals  *Goals  `json:"goals"`
	Cards  *Cards  `json:"cards"`
	Duels  *Duels  `json:"duels"`
	Passes *Passes `json:"passes"`
}

// PlayerResults holds a player's statistics blocks. Only the first block
// is used.
type PlayerResults struct {
	Player     Player       `json:"player"`
	Statistics []Statistics `json:"statistics"`
}

// SeasonResults is one stored season file.
type SeasonResults struct {
	Season        int             `json:"season"`
	PlayerResults []PlayerResults `json:"playerResults"`
}

func value(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
