package anki

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Fixed collection constants. Anki requires exactly one col row, one built-in
// Default deck with id 1, and at least one note model.
const (
	colRowID      = 1
	defaultDeckID = 1
	modelName     = "Knowledge Visualizer"
	// FieldSeparator is ASCII 31 (unit separator), Anki's fixed delimiter
	// between a note's field values.
	FieldSeparator = "\x1f"
)

// Collection is the in-memory relational collection built for one export.
type Collection struct {
	Created time.Time
	ModelID int64
	Decks   []DeckRow
	Notes   []Note
	Cards   []Card
	Media   *Media

	// Compact JSON blobs for the col row, finalized by the builder.
	ConfJSON   string
	ModelsJSON string
	DecksJSON  string
	DConfJSON  string
}

// DeckRow is one entry in the collection's deck table. Hierarchy is encoded
// in the name via "::" separators, not parent pointers.
type DeckRow struct {
	ID   int64
	Name string
}

// Note holds one notes-table row.
type Note struct {
	ID        int64
	GUID      string
	ModelID   int64
	Mod       int64
	Tags      string
	Fields    string
	SortField string
	Checksum  uint32
}

// Card holds one cards-table row. All scheduling fields beyond Due are
// placeholders: every exported card is new and unscheduled.
type Card struct {
	ID     int64
	NoteID int64
	DeckID int64
	Mod    int64
	Due    int
}

// modelJSON mirrors the note-type shape Anki stores in col.models.
type modelJSON struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Type      int             `json:"type"`
	DeckID    int64           `json:"did"`
	Mod       int64           `json:"mod"`
	USN       int             `json:"usn"`
	SortField int             `json:"sortf"`
	LatexPre  string          `json:"latexPre"`
	LatexPost string          `json:"latexPost"`
	CSS       string          `json:"css"`
	Fields    []fieldJSON     `json:"flds"`
	Templates []templateJSON  `json:"tmpls"`
	Req       [][]interface{} `json:"req"`
	Vers      []interface{}   `json:"vers"`
	Tags      []interface{}   `json:"tags"`
}

type fieldJSON struct {
	Name   string        `json:"name"`
	Ord    int           `json:"ord"`
	Sticky bool          `json:"sticky"`
	RTL    bool          `json:"rtl"`
	Font   string        `json:"font"`
	Size   int           `json:"size"`
	Media  []interface{} `json:"media"`
}

type templateJSON struct {
	Name   string `json:"name"`
	Ord    int    `json:"ord"`
	QFmt   string `json:"qfmt"`
	AFmt   string `json:"afmt"`
	BQFmt  string `json:"bqfmt"`
	BAFmt  string `json:"bafmt"`
	DeckID *int64 `json:"did"`
	BrID   *int64 `json:"brid"`
}

type deckJSON struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Mod              int64  `json:"mod"`
	USN              int    `json:"usn"`
	Collapsed        bool   `json:"collapsed"`
	BrowserCollapsed bool   `json:"browserCollapsed"`
	Desc             string `json:"desc"`
	Dyn              int    `json:"dyn"`
	Conf             int    `json:"conf"`
	LrnToday         [2]int `json:"lrnToday"`
	RevToday         [2]int `json:"revToday"`
	NewToday         [2]int `json:"newToday"`
	TimeToday        [2]int `json:"timeToday"`
	ExtendNew        int    `json:"extendNew"`
	ExtendRev        int    `json:"extendRev"`
}

type dconfNewJSON struct {
	Delays        []int `json:"delays"`
	Ints          []int `json:"ints"`
	InitialFactor int   `json:"initialFactor"`
	Separate      bool  `json:"separate"`
	Order         int   `json:"order"`
	PerDay        int   `json:"perDay"`
	Bury          bool  `json:"bury"`
}

type dconfLapseJSON struct {
	Delays      []int   `json:"delays"`
	Mult        float64 `json:"mult"`
	MinInt      int     `json:"minInt"`
	LeechFails  int     `json:"leechFails"`
	LeechAction int     `json:"leechAction"`
}

type dconfRevJSON struct {
	PerDay     int     `json:"perDay"`
	HardFactor float64 `json:"hardFactor"`
	IvlFct     float64 `json:"ivlFct"`
	MaxIvl     int     `json:"maxIvl"`
	Ease4      float64 `json:"ease4"`
	Bury       bool    `json:"bury"`
	MinSpace   int     `json:"minSpace"`
	Fuzz       float64 `json:"fuzz"`
}

type dconfJSON struct {
	ID       int            `json:"id"`
	Mod      int64          `json:"mod"`
	Name     string         `json:"name"`
	USN      int            `json:"usn"`
	MaxTaken int            `json:"maxTaken"`
	Autoplay bool           `json:"autoplay"`
	Timer    int            `json:"timer"`
	ReplayQ  bool           `json:"replayq"`
	New      dconfNewJSON   `json:"new"`
	Lapse    dconfLapseJSON `json:"lapse"`
	Rev      dconfRevJSON   `json:"rev"`
}

type confJSON struct {
	ActiveDecks   []int64 `json:"activeDecks"`
	AddToCur      bool    `json:"addToCur"`
	CollapseTime  int     `json:"collapseTime"`
	CurDeck       int64   `json:"curDeck"`
	CurModel      string  `json:"curModel"`
	DueCounts     bool    `json:"dueCounts"`
	EstTimes      bool    `json:"estTimes"`
	NewBury       bool    `json:"newBury"`
	NewSpread     int     `json:"newSpread"`
	NextPos       int     `json:"nextPos"`
	SortBackwards bool    `json:"sortBackwards"`
	SortType      string  `json:"sortType"`
	TimeLim       int     `json:"timeLim"`
}

func newModel(id int64, modSeconds int64) modelJSON {
	return modelJSON{
		ID:        id,
		Name:      modelName,
		DeckID:    defaultDeckID,
		Mod:       modSeconds,
		USN:       -1,
		LatexPre: `\documentclass[12pt]{article}\special{papersize=3in,5in}` +
			`\usepackage[utf8]{inputenc}\usepackage{amssymb,amsmath}` +
			`\pagestyle{empty}\setlength{\parindent}{0in}\begin{document}`,
		LatexPost: `\end{document}`,
		CSS: ".card { font-family: arial; font-size: 20px; text-align: center; " +
			"color: black; background-color: white; }",
		Fields: []fieldJSON{
			{Name: "Front", Ord: 0, Font: "Arial", Size: 20, Media: []interface{}{}},
			{Name: "Back", Ord: 1, Font: "Arial", Size: 20, Media: []interface{}{}},
		},
		Templates: []templateJSON{
			{
				Name: "Card 1",
				QFmt: "{{Front}}",
				AFmt: "{{FrontSide}}<hr id=answer>{{Back}}",
			},
		},
		Req:  [][]interface{}{{0, "all", []interface{}{0}}},
		Vers: []interface{}{},
		Tags: []interface{}{},
	}
}

func newDeck(id int64, name, desc string, modSeconds int64, browserCollapsed bool) deckJSON {
	return deckJSON{
		ID:               id,
		Name:             name,
		Mod:              modSeconds,
		BrowserCollapsed: browserCollapsed,
		Desc:             desc,
		Conf:             1,
	}
}

func newDConf(modSeconds int64) dconfJSON {
	return dconfJSON{
		ID:       1,
		Mod:      modSeconds,
		Name:     "Default",
		MaxTaken: 60,
		Autoplay: true,
		ReplayQ:  true,
		New: dconfNewJSON{
			Delays:        []int{1, 10},
			Ints:          []int{1, 4, 7},
			InitialFactor: 2500,
			Separate:      true,
			Order:         1,
			PerDay:        20,
			Bury:          true,
		},
		Lapse: dconfLapseJSON{
			Delays:     []int{10},
			Mult:       0.5,
			MinInt:     1,
			LeechFails: 8,
		},
		Rev: dconfRevJSON{
			PerDay:     200,
			HardFactor: 1.2,
			IvlFct:     1,
			MaxIvl:     36500,
			Ease4:      1.3,
			Bury:       true,
			MinSpace:   1,
			Fuzz:       0.05,
		},
	}
}

func newConf(modelID int64) confJSON {
	return confJSON{
		ActiveDecks:  []int64{defaultDeckID},
		AddToCur:     true,
		CollapseTime: 1200,
		CurDeck:      defaultDeckID,
		CurModel:     strconv.FormatInt(modelID, 10),
		DueCounts:    true,
		EstTimes:     true,
		NewBury:      true,
		NextPos:      1,
		SortType:     "noteFld",
	}
}

// marshalBlob renders v as compact JSON for a col TEXT column. Go's map key
// ordering is sorted, so identical input yields byte-identical blobs.
func marshalBlob(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("anki: marshal col blob: %w", err)
	}
	return string(data), nil
}
