package model

// ServerMessage is one frame pushed to the browser. Only the parts that
// changed are set.
type ServerMessage struct {
	Setup           []Setup        `json:"setup,omitempty"`
	Icons           []IconReady    `json:"icons,omitempty"`
	Resolved        []CellResolved `json:"resolved,omitempty"`
	Message         *string        `json:"message,omitempty"`
	Prompt          *string        `json:"prompt,omitempty"`
	Finish          *FinishState   `json:"finish,omitempty"`
	Congratulations *string        `json:"congratulations,omitempty"`
}

// Setup replaces the whole grid. Cells hold container markup with empty
// quadrants.
type Setup struct {
	Generation int      `json:"generation"`
	Cells      []string `json:"cells"`
}

type IconReady struct {
	Generation int      `json:"generation"`
	Cell       int      `json:"cell"`
	Quadrant   Quadrant `json:"quadrant"`
	Markup     string   `json:"markup"`
}

type CellResolved struct {
	Generation int  `json:"generation"`
	Cell       int  `json:"cell"`
	Correct    bool `json:"correct"`
}

type FinishState struct {
	Visible bool `json:"visible"`
}

type ClientMessage struct {
	Click  *Click `json:"click,omitempty"`
	Finish bool   `json:"finish,omitempty"`
}

type Click struct {
	Generation int      `json:"generation"`
	Cell       int      `json:"cell"`
	Quadrant   Quadrant `json:"quadrant"`
}
