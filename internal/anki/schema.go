// Package anki builds Anki package (.apkg) exports: an SQLite collection
// snapshot plus media, zipped into a single archive consumable by Anki.
package anki

// schemaVersion is the Anki collection schema generation written to col.ver.
// The DDL below and the JSON shapes in conf/models/decks/dconf are an external
// contract with Anki's reader pinned to this version. Changing any column
// requires bumping the version and adjusting the JSON blobs together.
const schemaVersion = 11

const schemaSQL = `
CREATE TABLE col (
	id     INTEGER PRIMARY KEY,
	crt    INTEGER,
	mod    INTEGER,
	scm    INTEGER,
	ver    INTEGER,
	dty    INTEGER,
	usn    INTEGER,
	ls     INTEGER,
	conf   TEXT,
	models TEXT,
	decks  TEXT,
	dconf  TEXT,
	tags   TEXT
);

CREATE TABLE notes (
	id    INTEGER PRIMARY KEY,
	guid  TEXT,
	mid   INTEGER,
	mod   INTEGER,
	usn   INTEGER,
	tags  TEXT,
	flds  TEXT,
	sfld  TEXT,
	csum  INTEGER,
	flags INTEGER,
	data  TEXT
);

CREATE TABLE cards (
	id     INTEGER PRIMARY KEY,
	nid    INTEGER,
	did    INTEGER,
	ord    INTEGER,
	mod    INTEGER,
	usn    INTEGER,
	type   INTEGER,
	queue  INTEGER,
	due    INTEGER,
	ivl    INTEGER,
	factor INTEGER,
	reps   INTEGER,
	lapses INTEGER,
	left   INTEGER,
	odue   INTEGER,
	odid   INTEGER,
	flags  INTEGER,
	data   TEXT
);

CREATE TABLE revlog (
	id      INTEGER PRIMARY KEY,
	cid     INTEGER,
	usn     INTEGER,
	ease    INTEGER,
	ivl     INTEGER,
	lastIvl INTEGER,
	factor  INTEGER,
	time    INTEGER,
	type    INTEGER
);

CREATE TABLE graves (
	usn  INTEGER,
	oid  INTEGER,
	type INTEGER
);
`

// Column lists in the exact order Anki expects. Inserts and the schema pin
// test are driven from these so a drift from the DDL fails loudly.
var (
	colColumns = []string{
		"id", "crt", "mod", "scm", "ver", "dty", "usn", "ls",
		"conf", "models", "decks", "dconf", "tags",
	}
	noteColumns = []string{
		"id", "guid", "mid", "mod", "usn", "tags", "flds", "sfld",
		"csum", "flags", "data",
	}
	cardColumns = []string{
		"id", "nid", "did", "ord", "mod", "usn", "type", "queue", "due",
		"ivl", "factor", "reps", "lapses", "left", "odue", "odid",
		"flags", "data",
	}
)
